package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/walletkeeper/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
//	-a string   HTTP bind address (e.g. ":5000")
//	-g string   gRPC bind address (e.g. ":50051"); "" disables gRPC
//	-d string   database DSN
//	-s string   session token HMAC secret
//	-k string   private key sealing passphrase
//	-b int      bcrypt cost
//	-l string   log level
//	-w duration shutdown timeout
//
// Only these flags are picked out of args; the -c/-config flag belongs to
// the JSON loader.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"a", "g", "d", "s", "k", "b", "l", "w"})

	fs := flag.NewFlagSet("walletkeeper", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port of the HTTP API")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "address and port of the gRPC API")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.KeySecret, "k", config.KeySecret, "private key sealing passphrase")
	fs.IntVar(&config.BcryptCost, "b", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.DurationVar(&config.ShutdownTimeout, "w", config.ShutdownTimeout, "shutdown timeout")

	return fs.Parse(args)
}

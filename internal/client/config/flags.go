package config

import (
	"flag"
	"io"
)

// parseFlags populates Config fields from leading command-line flags and
// returns what follows them.
//
//	-a string       address and port of the backend server
//	-token string   session token
//	-t duration     per-request timeout
//	-c, -config     JSON file (read by parseJSON)
func parseFlags(cfg *Config, args []string) ([]string, error) {
	fs := flag.NewFlagSet("walletctl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.Token, "token", cfg.Token, "session token")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")
	fs.String("c", "", "config file")
	fs.String("config", "", "config file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return fs.Args(), nil
}

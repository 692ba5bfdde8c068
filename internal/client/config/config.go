package config

import (
	"errors"
	"time"
)

// Config holds runtime settings for walletctl.
//
// Fields:
//   - ServerEndpointAddr: host:port of the backend gRPC endpoint.
//   - Token: session token from an earlier register or login.
//   - RequestTimeout: deadline applied to every call.
type Config struct {
	ServerEndpointAddr string        `env:"WALLETKEEPER_SERVER_ADDR"`
	Token              string        `env:"WALLETKEEPER_TOKEN"`
	RequestTimeout     time.Duration `env:"WALLETKEEPER_REQUEST_TIMEOUT"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.RequestTimeout = 10 * time.Second
}

// Load constructs a Config, applies defaults, then overlays values from JSON
// (if present), the environment and command-line flags. Later sources take
// precedence over earlier ones. The remaining positional arguments (the
// command and its operands) are returned alongside.
func Load(args []string) (*Config, []string, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(cfg, args); err != nil {
		return nil, nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, nil, err
	}
	rest, err := parseFlags(cfg, args)
	if err != nil {
		return nil, nil, err
	}
	if cfg.ServerEndpointAddr == "" {
		return nil, nil, errors.New("server address must not be empty")
	}
	return cfg, rest, nil
}

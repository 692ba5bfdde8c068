// Package config loads runtime configuration for walletctl.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. WALLETKEEPER_SERVER_ADDR, WALLETKEEPER_TOKEN and
//     WALLETKEEPER_REQUEST_TIMEOUT.
//  4. Command-line flags, which override earlier values.
//
// # JSON schema
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "request_timeout": "10s"
//	}
package config

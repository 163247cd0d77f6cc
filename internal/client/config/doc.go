// Package config loads runtime configuration for the engine CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the engine gRPC endpoint
//	-k string   keystore directory
//	-s int      request signature lifetime (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration, so the lifetime can be either a
// string like "30s" or integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "keystore_dir": "keys",
//	  "signature_ttl": "30s"
//	}
package config

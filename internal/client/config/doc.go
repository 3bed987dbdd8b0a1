// Package config loads runtime configuration for the otpkeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables prefixed OTPKEEPER_, optionally read from a
//     .env file in the working directory.
//  3. Optional JSON file selected via -c / -config (or $OTPKEEPER_CONFIG).
//  4. Command-line flags, which override everything above.
//
// Supported flags
//
//	-d string   data directory holding the local database
//	-r string   remote vault store: none, s3, mongo or postgres
//	-l string   log level: debug, info, warn, error
//	-i int      code refresh interval for watch (seconds)
//
// # JSON schema
//
// Durations are timex.Duration, so "1s" and integer nanoseconds both work:
//
//	{
//	  "data_dir": "/home/me/.config/otpkeeper",
//	  "refresh_interval": "1s",
//	  "remote": "s3",
//	  "remote_timeout": "15s",
//	  "s3": {"bucket": "vaults", "region": "eu-central-1", "prefix": "otpkeeper"}
//	}
package config

// Package config loads runtime configuration for the CloudShare CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A dotenv file (-e/-env, else ./.env when present) and CLOUDSHARE_*
//     environment variables.
//  3. Optional JSON file selected via -c or -config.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string     backend API base URL
//	-u string     upload base URL (defaults to the API base URL)
//	-t duration   per-request timeout, e.g. 30s
//	-d string     path of the local session database
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "30s" or integer
// nanoseconds:
//
//	{
//	  "api_base_url": "https://cloudshare.example",
//	  "request_timeout": "30s",
//	  "payment_key": "rzp_live_xxx",
//	  "suggestions_ttl": "5m"
//	}
package config

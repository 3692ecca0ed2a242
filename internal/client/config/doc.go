// Package config loads runtime configuration for the zkvault SDK and CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-r string   Solana RPC endpoint URL (required)
//	-p string   private-state program id (base58)
//	-x string   confidential-compute program id (base58)
//	-u string   proving service / coordinator base URL
//	-s string   shared secret for coordinator bearer tokens
//	-t int      coordinator HTTP timeout in seconds (0 = none)
//	-d string   path of the SQLite job store (empty = in-memory)
//	-w string   solana-keygen wallet file used by the CLI
//	-l string   log level: debug, info, warn, error
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "30s" or integer
// nanoseconds:
//
//	{
//	  "rpc_endpoint": "https://api.devnet.solana.com",
//	  "program_id": "...",
//	  "compute_program_id": "...",
//	  "proving_service_url": "https://coordinator.example.com",
//	  "coordinator_secret": "...",
//	  "coordinator_timeout": "30s",
//	  "store_path": "jobs.db",
//	  "wallet_path": "~/.config/solana/id.json",
//	  "log_level": "debug"
//	}
package config

// Package cli provides the interactive zkvault command-line client.
//
// It wires configuration, the SDK client and an interactive REPL. Typical
// flow: unlock a session key, register schemas and job types, then create
// encrypted states and submit confidential jobs.
//
// Key features:
//   - Unlock / Lock (seed or passphrase key material)
//   - Define schemas, create and update private states, request proofs
//   - Register job types, submit jobs, poll status and fetch results
//   - Complete local jobs by hand when no coordinator is configured
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli

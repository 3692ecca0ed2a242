// Package chain is the SDK's boundary to Solana. It builds instructions that
// carry JSON op payloads, assembles and signs a transaction envelope through a
// caller-supplied wallet adapter, and sends it over a Connection.
//
// Retry and confirmation semantics belong to the underlying RPC client.
package chain

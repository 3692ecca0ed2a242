// Package common defines sentinel errors and small helpers shared by the
// zkvault SDK packages. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// ErrConfig reports missing or invalid configuration.
	ErrConfig = errors.New("config error")

	// ErrSchema reports a malformed schema or job type registration.
	ErrSchema = errors.New("schema error")

	// ErrCrypto reports bad key length, authentication failure or an
	// unsupported envelope algorithm.
	ErrCrypto = errors.New("crypto error")

	// ErrNotFound reports a missing schema, job type, job or result.
	ErrNotFound = errors.New("not found")

	// ErrRPC reports unmet chain submission preconditions or a failed send.
	ErrRPC = errors.New("rpc error")
)

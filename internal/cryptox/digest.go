package cryptox

import (
	"crypto/sha256"
	"encoding/hex"
)

// IDLength is the number of hex characters kept when deriving a state or
// job identifier from a commitment and an owner.
const IDLength = 32

// Digest returns the SHA-256 digest of b.
func Digest(b []byte) [sha256.Size]byte {
	return sha256.Sum256(b)
}

// Hex encodes b as a lowercase hexadecimal string.
func Hex(b []byte) string {
	return hex.EncodeToString(b)
}

// Commitment returns the canonical commitment of a payload: the lowercase hex
// encoding of its SHA-256 digest. It is a pure function of its input.
func Commitment(payload []byte) string {
	d := Digest(payload)
	return Hex(d[:])
}

// VerifyCommitment recomputes the commitment of payload and compares it with
// the given one. The comparison is not constant time; commitments are public.
func VerifyCommitment(payload []byte, commitment string) bool {
	return Commitment(payload) == commitment
}

// DeriveID derives a local identifier from a commitment and an owner public
// key: the first IDLength hex characters of hash(commitment ++ owner).
//
// Identical inputs yield identical ids. The scheme is not collision
// resistant and callers never check for an existing record before use.
func DeriveID(commitment, owner string) string {
	return Commitment([]byte(commitment + owner))[:IDLength]
}

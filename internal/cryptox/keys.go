package cryptox

import (
	"crypto/sha256"
	"fmt"

	"github.com/dmitrijs2005/zkvault/internal/common"
	"golang.org/x/crypto/argon2"
)

// KeySize is the AES-256 key length in bytes.
const KeySize = 32

// KeyKind tells how a KeyMaterial value must be turned into an AES key.
type KeyKind int

const (
	KindSeed KeyKind = iota + 1
	KindKey
	KindPassphrase
)

func (k KeyKind) String() string {
	switch k {
	case KindSeed:
		return "seed"
	case KindKey:
		return "key"
	case KindPassphrase:
		return "passphrase"
	default:
		return "unknown"
	}
}

// KeyMaterial is caller-supplied secret input tagged with its interpretation.
// A 32-byte seed and a 32-byte ready key are never confused: the caller says
// which one it passes. Build values with Seed, Key or Passphrase.
type KeyMaterial struct {
	kind     KeyKind
	material []byte
	salt     []byte
}

// Seed marks b as seed material; the key is DeriveKey(b) whatever its length.
func Seed(b []byte) KeyMaterial {
	return KeyMaterial{kind: KindSeed, material: b}
}

// Key marks b as a ready AES-256 key. It must be exactly KeySize bytes.
func Key(b []byte) KeyMaterial {
	return KeyMaterial{kind: KindKey, material: b}
}

// Passphrase marks password as a human secret stretched with Argon2id using salt.
func Passphrase(password, salt []byte) KeyMaterial {
	return KeyMaterial{kind: KindPassphrase, material: password, salt: salt}
}

// Kind reports how the material is interpreted.
func (m KeyMaterial) Kind() KeyKind {
	return m.kind
}

// DeriveKey turns seed material into a 32-byte key with a single SHA-256 pass.
//
// This is not a real KDF: there is no salt and no work factor. It exists so
// seed-based callers get stable keys; use Passphrase for human secrets.
func DeriveKey(seed []byte) []byte {
	h := sha256.Sum256(seed)
	return h[:]
}

// DerivePassphraseKey stretches a password with Argon2id
// (1 pass, 64 MiB, 4 lanes) into a 32-byte key.
func DerivePassphraseKey(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, KeySize)
}

// NormalizeKey resolves tagged key material into a 32-byte AES key.
//
//   - Key: returned as-is; ErrCrypto unless it is exactly 32 bytes.
//   - Seed: always DeriveKey(seed).
//   - Passphrase: DerivePassphraseKey(password, salt).
func NormalizeKey(m KeyMaterial) ([]byte, error) {
	switch m.kind {
	case KindKey:
		if len(m.material) != KeySize {
			return nil, fmt.Errorf("%w: key must be %d bytes, got %d", common.ErrCrypto, KeySize, len(m.material))
		}
		return m.material, nil
	case KindSeed:
		return DeriveKey(m.material), nil
	case KindPassphrase:
		return DerivePassphraseKey(m.material, m.salt), nil
	default:
		return nil, fmt.Errorf("%w: no key material", common.ErrCrypto)
	}
}

// LegacyNormalizeKey applies the length-based rule older clients used:
// exactly 32 bytes are taken as a key, anything else is hashed as a seed.
// A 32-byte seed is silently treated as a key; prefer NormalizeKey.
func LegacyNormalizeKey(seedOrKey []byte) []byte {
	if len(seedOrKey) == KeySize {
		return seedOrKey
	}
	return DeriveKey(seedOrKey)
}

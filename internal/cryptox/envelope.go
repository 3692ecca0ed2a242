// Package cryptox holds the SDK's cryptographic primitives: SHA-256
// commitments, key material handling and AES-256-GCM envelopes.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/zkvault/internal/common"
)

const (
	// NonceSize is the GCM nonce length (96 bits).
	NonceSize = 12
	// TagSize is the GCM authentication tag length (128 bits).
	TagSize = 16
)

// Envelope is an authenticated-encryption bundle. The tag is stored apart
// from the ciphertext so it can travel as its own field on the wire.
type Envelope struct {
	Algorithm  string `json:"algorithm"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
	Tag        []byte `json:"tag"`
}

// Commitment returns the commitment over the envelope ciphertext bytes.
func (e *Envelope) Commitment() string {
	return Commitment(e.Ciphertext)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: key must be %d bytes, got %d", common.ErrCrypto, KeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCrypto, err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCrypto, err)
	}
	return aesgcm, nil
}

// Encrypt serializes value to JSON and seals it with AES-256-GCM.
//
// A fresh random 12-byte nonce is drawn for every call, so encrypting the
// same value twice yields different ciphertexts (and commitments). Uniqueness
// of nonces under one key is probabilistic only.
//
// The key must be exactly 32 bytes; any other length fails with
// common.ErrCrypto.
//
// Example:
//
//	key := cryptox.DeriveKey([]byte("seed"))
//	env, err := cryptox.Encrypt(map[string]any{"balance": 42}, key)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(env.Commitment())
func Encrypt(value any, key []byte) (*Envelope, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	// serializing JSON
	plaintext, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("serialize payload: %w", err)
	}

	nonce := common.GenerateRandByteArray(NonceSize)

	sealed := aesgcm.Seal(nil, nonce, plaintext, nil)
	split := len(sealed) - TagSize

	return &Envelope{
		Algorithm:  common.AlgorithmAESGCM,
		Nonce:      nonce,
		Ciphertext: sealed[:split:split],
		Tag:        sealed[split:],
	}, nil
}

// Decrypt authenticates and opens env with key and unmarshals the JSON
// plaintext into v.
//
// It fails with common.ErrCrypto when the algorithm tag is not AES-256-GCM,
// the key is not 32 bytes, the nonce or tag has the wrong size, or the
// authentication check fails (any altered bit in nonce, ciphertext or tag).
//
// Example:
//
//	var out map[string]any
//	if err := cryptox.Decrypt(env, key, &out); err != nil {
//	    log.Fatal(err)
//	}
func Decrypt(env *Envelope, key []byte, v any) error {
	if env == nil {
		return fmt.Errorf("%w: nil envelope", common.ErrCrypto)
	}
	if env.Algorithm != common.AlgorithmAESGCM {
		return fmt.Errorf("%w: unsupported algorithm %q", common.ErrCrypto, env.Algorithm)
	}

	aesgcm, err := newGCM(key)
	if err != nil {
		return err
	}

	if len(env.Nonce) != NonceSize {
		return fmt.Errorf("%w: nonce must be %d bytes", common.ErrCrypto, NonceSize)
	}
	if len(env.Tag) != TagSize {
		return fmt.Errorf("%w: tag must be %d bytes", common.ErrCrypto, TagSize)
	}

	sealed := make([]byte, 0, len(env.Ciphertext)+TagSize)
	sealed = append(sealed, env.Ciphertext...)
	sealed = append(sealed, env.Tag...)

	plaintext, err := aesgcm.Open(nil, env.Nonce, sealed, nil)
	if err != nil {
		return fmt.Errorf("%w: authentication failed", common.ErrCrypto)
	}

	if err := json.Unmarshal(plaintext, v); err != nil {
		return fmt.Errorf("deserialize payload: %w", err)
	}
	return nil
}

// DecryptWith resolves key material and decrypts env into v.
func DecryptWith(env *Envelope, km KeyMaterial, v any) error {
	key, err := NormalizeKey(km)
	if err != nil {
		return err
	}
	return Decrypt(env, key, v)
}

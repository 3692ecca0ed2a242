package cryptox

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/dmitrijs2005/zkvault/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type balance struct {
	Balance uint64 `json:"balance"`
	Label   string `json:"label"`
}

func testKey() []byte {
	key := make([]byte, KeySize)
	for i := range key {
		key[i] = byte(i)
	}
	return key
}

func TestCommitment_KnownVectorsAndDeterminism(t *testing.T) {
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", Commitment([]byte("abc")))
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", Commitment(nil))

	payload := []byte{0x00, 0x01, 0xfe, 0xff}
	assert.Equal(t, Commitment(payload), Commitment(payload))
	assert.NotEqual(t, Commitment(payload), Commitment([]byte{0x00, 0x01, 0xfe}))
}

func TestVerifyCommitment(t *testing.T) {
	payload := []byte("payload")
	assert.True(t, VerifyCommitment(payload, Commitment(payload)))
	assert.False(t, VerifyCommitment([]byte("other"), Commitment(payload)))
}

func TestDeriveID(t *testing.T) {
	id := DeriveID("abc", "ownerA")
	assert.Len(t, id, IDLength)
	assert.Equal(t, Commitment([]byte("abcownerA"))[:IDLength], id)
	assert.Equal(t, id, DeriveID("abc", "ownerA"))
	assert.NotEqual(t, id, DeriveID("abc", "ownerB"))
}

func TestDeriveKey(t *testing.T) {
	k := DeriveKey([]byte("seed"))
	assert.Len(t, k, KeySize)
	d := Digest([]byte("seed"))
	assert.Equal(t, d[:], k)
}

func TestDerivePassphraseKey_Deterministic(t *testing.T) {
	key1 := DerivePassphraseKey([]byte("secret-password"), []byte("fixed-salt"))
	key2 := DerivePassphraseKey([]byte("secret-password"), []byte("fixed-salt"))
	require.True(t, bytes.Equal(key1, key2))

	expectedHex := "34f7a1c64df63ab1ad5b5ee06e64db5713b35f81839823304db63e8e5e6a6a39"
	assert.Equal(t, expectedHex, hex.EncodeToString(key1))

	other := DerivePassphraseKey([]byte("secret-password"), []byte("salt-2"))
	assert.False(t, bytes.Equal(key1, other))
}

func TestNormalizeKey(t *testing.T) {
	key32 := testKey()

	t.Run("ready key is returned unchanged", func(t *testing.T) {
		k, err := NormalizeKey(Key(key32))
		require.NoError(t, err)
		assert.Equal(t, key32, k)
	})

	t.Run("32-byte seed is still hashed", func(t *testing.T) {
		k, err := NormalizeKey(Seed(key32))
		require.NoError(t, err)
		assert.Equal(t, DeriveKey(key32), k)
		assert.NotEqual(t, key32, k)
	})

	t.Run("short key rejected", func(t *testing.T) {
		_, err := NormalizeKey(Key([]byte("short")))
		assert.ErrorIs(t, err, common.ErrCrypto)
	})

	t.Run("passphrase uses argon2", func(t *testing.T) {
		k, err := NormalizeKey(Passphrase([]byte("pw"), []byte("salt")))
		require.NoError(t, err)
		assert.Equal(t, DerivePassphraseKey([]byte("pw"), []byte("salt")), k)
	})

	t.Run("zero value rejected", func(t *testing.T) {
		_, err := NormalizeKey(KeyMaterial{})
		assert.ErrorIs(t, err, common.ErrCrypto)
	})
}

func TestLegacyNormalizeKey(t *testing.T) {
	key32 := testKey()
	assert.Equal(t, key32, LegacyNormalizeKey(key32))

	for _, in := range [][]byte{nil, []byte("short"), make([]byte, 33)} {
		assert.Equal(t, DeriveKey(in), LegacyNormalizeKey(in))
	}
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	key := testKey()
	in := balance{Balance: 42, Label: "savings"}

	env, err := Encrypt(in, key)
	require.NoError(t, err)
	assert.Equal(t, common.AlgorithmAESGCM, env.Algorithm)
	assert.Len(t, env.Nonce, NonceSize)
	assert.Len(t, env.Tag, TagSize)

	var out balance
	require.NoError(t, Decrypt(env, key, &out))
	assert.Equal(t, in, out)
}

func TestEncrypt_FreshNonces(t *testing.T) {
	key := testKey()
	a, err := Encrypt(balance{Balance: 1}, key)
	require.NoError(t, err)
	b, err := Encrypt(balance{Balance: 1}, key)
	require.NoError(t, err)

	assert.NotEqual(t, a.Nonce, b.Nonce)
	assert.NotEqual(t, a.Commitment(), b.Commitment())
}

func TestEncrypt_BadKeyLength(t *testing.T) {
	_, err := Encrypt("x", []byte("too-short"))
	assert.ErrorIs(t, err, common.ErrCrypto)
}

func TestDecrypt_TamperDetection(t *testing.T) {
	key := testKey()

	flip := func(b []byte) []byte {
		c := append([]byte(nil), b...)
		c[0] ^= 0x01
		return c
	}

	tests := []struct {
		name   string
		mutate func(e *Envelope)
	}{
		{"nonce bit", func(e *Envelope) { e.Nonce = flip(e.Nonce) }},
		{"ciphertext bit", func(e *Envelope) { e.Ciphertext = flip(e.Ciphertext) }},
		{"tag bit", func(e *Envelope) { e.Tag = flip(e.Tag) }},
		{"algorithm", func(e *Envelope) { e.Algorithm = "chacha20-poly1305" }},
		{"truncated nonce", func(e *Envelope) { e.Nonce = e.Nonce[:8] }},
		{"truncated tag", func(e *Envelope) { e.Tag = e.Tag[:4] }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := Encrypt(balance{Balance: 7}, key)
			require.NoError(t, err)
			tt.mutate(env)

			var out balance
			err = Decrypt(env, key, &out)
			require.Error(t, err)
			assert.True(t, errors.Is(err, common.ErrCrypto), "got %v", err)
		})
	}
}

func TestDecrypt_WrongKeyAndNil(t *testing.T) {
	env, err := Encrypt("hello", testKey())
	require.NoError(t, err)

	var s string
	assert.ErrorIs(t, Decrypt(env, DeriveKey([]byte("other")), &s), common.ErrCrypto)
	assert.ErrorIs(t, Decrypt(env, []byte("short"), &s), common.ErrCrypto)
	assert.ErrorIs(t, Decrypt(nil, testKey(), &s), common.ErrCrypto)
}

func TestDecryptWith_Seed(t *testing.T) {
	seed := []byte("my seed")
	env, err := Encrypt("secret", DeriveKey(seed))
	require.NoError(t, err)

	var s string
	require.NoError(t, DecryptWith(env, Seed(seed), &s))
	assert.Equal(t, "secret", s)
}

package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dmitrijs2005/zkvault/internal/chain"
	"github.com/dmitrijs2005/zkvault/internal/client/models"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
)

// recordingConn counts chain traffic and accepts every transaction.
type recordingConn struct {
	mu    sync.Mutex
	calls int
	sent  []*solana.Transaction
	err   error
}

func (c *recordingConn) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return solana.Hash{9}, c.err
}

func (c *recordingConn) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	c.sent = append(c.sent, tx)
	return tx.Signatures[0], nil
}

func (c *recordingConn) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

var errUnavailable = errors.New("unavailable")

func newWallet(t *testing.T) *chain.KeypairWallet {
	t.Helper()
	k, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	return chain.NewKeypairWallet(k)
}

func newProgramID(t *testing.T) solana.PublicKey {
	t.Helper()
	k, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	return k.PublicKey()
}

func balanceSchema() models.Schema {
	return models.Schema{
		ID:     "s1",
		Name:   "Balance",
		Fields: []models.Field{{Name: "balance", Type: models.FieldTypeU64}},
	}
}

func zeroSeed() []byte {
	return make([]byte, 32)
}

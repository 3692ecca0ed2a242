package chain

import (
	"context"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// RPCConnection implements Connection over a Solana JSON-RPC endpoint.
type RPCConnection struct {
	client     *rpc.Client
	commitment rpc.CommitmentType
}

func NewRPCConnection(endpoint string) *RPCConnection {
	return &RPCConnection{client: rpc.New(endpoint), commitment: rpc.CommitmentFinalized}
}

func (c *RPCConnection) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	res, err := c.client.GetLatestBlockhash(ctx, c.commitment)
	if err != nil {
		return solana.Hash{}, err
	}
	return res.Value.Blockhash, nil
}

func (c *RPCConnection) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	return c.client.SendTransaction(ctx, tx)
}

func (c *RPCConnection) Close() error {
	return c.client.Close()
}

// ConnectionCache hands out one RPCConnection per endpoint. It is owned by a
// single SDK client and closed with it.
type ConnectionCache struct {
	mu    sync.Mutex
	conns map[string]*RPCConnection
}

func NewConnectionCache() *ConnectionCache {
	return &ConnectionCache{conns: make(map[string]*RPCConnection)}
}

// Get returns the cached connection for endpoint, creating it on first use.
func (c *ConnectionCache) Get(endpoint string) *RPCConnection {
	c.mu.Lock()
	defer c.mu.Unlock()

	if conn, ok := c.conns[endpoint]; ok {
		return conn
	}
	conn := NewRPCConnection(endpoint)
	c.conns[endpoint] = conn
	return conn
}

func (c *ConnectionCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.conns)
}

// Close closes every cached connection and empties the cache. The first
// close error is returned.
func (c *ConnectionCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var first error
	for endpoint, conn := range c.conns {
		if err := conn.Close(); err != nil && first == nil {
			first = err
		}
		delete(c.conns, endpoint)
	}
	return first
}

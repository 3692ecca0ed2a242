package chain

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/zkvault/internal/common"
	"github.com/gagliardetto/solana-go"
)

// Connection is the slice of a Solana RPC client the SDK needs.
type Connection interface {
	LatestBlockhash(ctx context.Context) (solana.Hash, error)
	SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
}

// WalletAdapter exposes the fee payer's public key. Wallets that can sign
// also implement TransactionSigner; private keys never reach the SDK.
type WalletAdapter interface {
	PublicKey() solana.PublicKey
}

// TransactionSigner is the signing capability of a wallet adapter.
type TransactionSigner interface {
	SignTransaction(ctx context.Context, tx *solana.Transaction) error
}

// BuildAndSend builds a transaction from instructions with the wallet as fee
// payer, signs it with the additional signers and then the wallet, and sends
// it through conn. The recent blockhash is fetched right before signing.
//
// It fails with common.ErrRPC when the wallet is missing, has no public key
// or cannot sign (even if additional signers are given), and when fetching
// the blockhash, signing or sending fails.
func BuildAndSend(ctx context.Context, conn Connection, wallet WalletAdapter, instructions []solana.Instruction, signers ...solana.PrivateKey) (solana.Signature, error) {
	if conn == nil {
		return solana.Signature{}, fmt.Errorf("%w: no connection", common.ErrRPC)
	}
	if wallet == nil {
		return solana.Signature{}, fmt.Errorf("%w: wallet adapter is required", common.ErrRPC)
	}
	payer := wallet.PublicKey()
	if payer.IsZero() {
		return solana.Signature{}, fmt.Errorf("%w: wallet adapter has no public key", common.ErrRPC)
	}
	walletSigner, ok := wallet.(TransactionSigner)
	if !ok {
		return solana.Signature{}, fmt.Errorf("%w: wallet adapter cannot sign transactions", common.ErrRPC)
	}
	if len(instructions) == 0 {
		return solana.Signature{}, fmt.Errorf("%w: no instructions", common.ErrRPC)
	}

	blockhash, err := conn.LatestBlockhash(ctx)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("%w: latest blockhash: %w", common.ErrRPC, err)
	}

	tx, err := solana.NewTransaction(instructions, blockhash, solana.TransactionPayer(payer))
	if err != nil {
		return solana.Signature{}, fmt.Errorf("%w: build transaction: %w", common.ErrRPC, err)
	}

	if err := PartialSign(tx, signers...); err != nil {
		return solana.Signature{}, fmt.Errorf("%w: %w", common.ErrRPC, err)
	}
	if err := walletSigner.SignTransaction(ctx, tx); err != nil {
		return solana.Signature{}, fmt.Errorf("%w: wallet sign: %w", common.ErrRPC, err)
	}

	sig, err := conn.SendTransaction(ctx, tx)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("%w: send transaction: %w", common.ErrRPC, err)
	}
	return sig, nil
}

// PartialSign adds signatures for keys to tx, leaving other required
// signatures untouched. Every key must be a required signer of the message.
func PartialSign(tx *solana.Transaction, keys ...solana.PrivateKey) error {
	if len(keys) == 0 {
		return nil
	}

	msg, err := tx.Message.MarshalBinary()
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	required := int(tx.Message.Header.NumRequiredSignatures)
	if len(tx.Signatures) < required {
		sigs := make([]solana.Signature, required)
		copy(sigs, tx.Signatures)
		tx.Signatures = sigs
	}

	for _, key := range keys {
		pub := key.PublicKey()
		idx := -1
		for i := 0; i < required && i < len(tx.Message.AccountKeys); i++ {
			if tx.Message.AccountKeys[i].Equals(pub) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("signer %s is not required by the transaction", pub)
		}

		sig, err := key.Sign(msg)
		if err != nil {
			return fmt.Errorf("sign with %s: %w", pub, err)
		}
		tx.Signatures[idx] = sig
	}
	return nil
}

// KeypairWallet is a WalletAdapter backed by an in-process private key.
// It is meant for tests and local tooling.
type KeypairWallet struct {
	key solana.PrivateKey
}

func NewKeypairWallet(key solana.PrivateKey) *KeypairWallet {
	return &KeypairWallet{key: key}
}

func (w *KeypairWallet) PublicKey() solana.PublicKey {
	return w.key.PublicKey()
}

func (w *KeypairWallet) SignTransaction(_ context.Context, tx *solana.Transaction) error {
	return PartialSign(tx, w.key)
}

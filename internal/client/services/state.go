package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/zkvault/internal/chain"
	"github.com/dmitrijs2005/zkvault/internal/client/coordinator"
	"github.com/dmitrijs2005/zkvault/internal/client/models"
	"github.com/dmitrijs2005/zkvault/internal/common"
	"github.com/dmitrijs2005/zkvault/internal/cryptox"
	"github.com/dmitrijs2005/zkvault/internal/logging"
	"github.com/gagliardetto/solana-go"
)

// ProofCoordinator is the part of the coordinator client StateService uses.
type ProofCoordinator interface {
	GenerateProof(ctx context.Context, req coordinator.GenerateProofRequest) (*models.Proof, error)
}

// StateService manages private-state records.
//
// Contract:
//   - DefineSchema: register a schema (last write wins).
//   - CreateState / UpdateState: encrypt data, commit to the ciphertext and,
//     with a program id and a wallet, send one chain instruction.
//   - GenerateProof: ask the coordinator, or return a mock proof offline.
//   - SubmitProof: send the proof to the private-state program.
//   - GetStateCommitment: on-chain lookup placeholder; always reports absent.
//   - DecryptWithKey: open an envelope with tagged key material.
type StateService interface {
	DefineSchema(schema models.Schema) error
	CreateState(ctx context.Context, params CreateStateParams, wallet chain.WalletAdapter) (*StateResult, error)
	UpdateState(ctx context.Context, params UpdateStateParams, wallet chain.WalletAdapter) (*StateResult, error)
	GenerateProof(ctx context.Context, params GenerateProofParams) (*models.Proof, error)
	SubmitProof(ctx context.Context, params SubmitProofParams, wallet chain.WalletAdapter) (string, error)
	GetStateCommitment(ctx context.Context, stateID string) (string, bool, error)
	DecryptWithKey(env *cryptox.Envelope, km cryptox.KeyMaterial, v any) error
}

type CreateStateParams struct {
	SchemaID string
	// Owner is the owner's public key string.
	Owner string
	Data  any
	Key   cryptox.KeyMaterial
}

type UpdateStateParams struct {
	SchemaID string
	Owner    string
	Data     any
	Key      cryptox.KeyMaterial
	// PreviousCommitment is passed to the program as-is; it is not checked.
	PreviousCommitment string
	// StateID optionally names the record being updated.
	StateID string
}

type GenerateProofParams struct {
	StateID  string
	Circuit  string
	Envelope *cryptox.Envelope
}

type SubmitProofParams struct {
	StateID string
	Circuit string
	Proof   models.Proof
}

// StateResult is returned by CreateState and UpdateState.
type StateResult struct {
	Handle   models.StateHandle
	Envelope *cryptox.Envelope
}

type stateService struct {
	registry    *Registry
	conn        chain.Connection
	programID   solana.PublicKey
	coordinator ProofCoordinator
	logger      logging.Logger
}

// NewStateService builds a StateService. A zero programID disables chain
// instructions; a nil coord selects the offline mock proof.
func NewStateService(registry *Registry, conn chain.Connection, programID solana.PublicKey, coord ProofCoordinator, logger logging.Logger) StateService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &stateService{
		registry:    registry,
		conn:        conn,
		programID:   programID,
		coordinator: coord,
		logger:      logger.With("component", "state"),
	}
}

func (s *stateService) DefineSchema(schema models.Schema) error {
	return s.registry.DefineSchema(schema)
}

func (s *stateService) CreateState(ctx context.Context, params CreateStateParams, wallet chain.WalletAdapter) (*StateResult, error) {
	return s.write(ctx, chain.StatePayload{Op: chain.OpCreate, SchemaID: params.SchemaID, Owner: params.Owner},
		params.Data, params.Key, wallet)
}

func (s *stateService) UpdateState(ctx context.Context, params UpdateStateParams, wallet chain.WalletAdapter) (*StateResult, error) {
	return s.write(ctx, chain.StatePayload{
		Op:                 chain.OpUpdate,
		SchemaID:           params.SchemaID,
		Owner:              params.Owner,
		PreviousCommitment: params.PreviousCommitment,
		StateID:            params.StateID,
	}, params.Data, params.Key, wallet)
}

// write is the shared body of create and update; payload carries the op and
// the caller-supplied fields, the commitment is filled in here.
func (s *stateService) write(ctx context.Context, payload chain.StatePayload, data any, km cryptox.KeyMaterial, wallet chain.WalletAdapter) (*StateResult, error) {
	if _, ok := s.registry.Schema(payload.SchemaID); !ok {
		return nil, fmt.Errorf("schema %q: %w", payload.SchemaID, common.ErrNotFound)
	}

	key, err := cryptox.NormalizeKey(km)
	if err != nil {
		return nil, err
	}

	env, err := cryptox.Encrypt(data, key)
	if err != nil {
		return nil, fmt.Errorf("encryption error: %w", err)
	}

	payload.Commitment = env.Commitment()
	handle := models.StateHandle{
		ID:         cryptox.DeriveID(payload.Commitment, payload.Owner),
		Commitment: payload.Commitment,
		Owner:      payload.Owner,
	}

	if !s.programID.IsZero() && wallet != nil {
		sig, err := s.send(ctx, wallet, payload)
		if err != nil {
			return nil, err
		}
		handle.Signature = sig
	}

	s.logger.Info(ctx, "state written", "op", payload.Op, "state_id", handle.ID, "schema_id", payload.SchemaID, "on_chain", handle.Signature != "")

	return &StateResult{Handle: handle, Envelope: env}, nil
}

func (s *stateService) send(ctx context.Context, wallet chain.WalletAdapter, payload any) (string, error) {
	ix, err := chain.NewPayloadInstruction(s.programID, wallet.PublicKey(), payload)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrRPC, err)
	}
	sig, err := chain.BuildAndSend(ctx, s.conn, wallet, []solana.Instruction{ix})
	if err != nil {
		return "", err
	}
	return sig.String(), nil
}

// MockProof is the deterministic stand-in proof returned when no coordinator
// is configured. It carries no cryptographic meaning and must never be sent
// to a real verifier.
func MockProof(stateID, circuit string, env *cryptox.Envelope) *models.Proof {
	commitment := env.Commitment()
	return &models.Proof{
		Proof:        fmt.Sprintf("mock-proof:%s:%s:%s", circuit, stateID, commitment[:16]),
		PublicInputs: []string{stateID, commitment},
	}
}

func (s *stateService) GenerateProof(ctx context.Context, params GenerateProofParams) (*models.Proof, error) {
	if params.Envelope == nil {
		return nil, fmt.Errorf("%w: envelope is required to generate a proof", common.ErrCrypto)
	}

	if s.coordinator == nil {
		s.logger.Warn(ctx, "no proving service configured, returning mock proof", "state_id", params.StateID)
		return MockProof(params.StateID, params.Circuit, params.Envelope), nil
	}

	iv, ct, tag := coordinator.WireFields(params.Envelope)
	proof, err := s.coordinator.GenerateProof(ctx, coordinator.GenerateProofRequest{
		StateID:    params.StateID,
		Circuit:    params.Circuit,
		Ciphertext: ct,
		IV:         iv,
		Tag:        tag,
	})
	if err != nil {
		return nil, fmt.Errorf("proof generation failed: %w", err)
	}
	return proof, nil
}

func (s *stateService) SubmitProof(ctx context.Context, params SubmitProofParams, wallet chain.WalletAdapter) (string, error) {
	if s.programID.IsZero() {
		return "", fmt.Errorf("%w: program id is required to submit a proof", common.ErrConfig)
	}
	if wallet == nil {
		return "", fmt.Errorf("%w: wallet adapter is required to submit a proof", common.ErrConfig)
	}

	sig, err := s.send(ctx, wallet, chain.ProofPayload{
		Op:           chain.OpSubmitProof,
		StateID:      params.StateID,
		Circuit:      params.Circuit,
		Proof:        params.Proof.Proof,
		PublicInputs: params.Proof.PublicInputs,
	})
	if err != nil {
		return "", err
	}

	s.logger.Info(ctx, "proof submitted", "state_id", params.StateID, "signature", sig)
	return sig, nil
}

// GetStateCommitment would read the state account from chain. The lookup is
// not implemented, so it reports ("", false, nil) whether or not a program id
// is configured; callers cannot tell "not configured" from "not found".
func (s *stateService) GetStateCommitment(ctx context.Context, stateID string) (string, bool, error) {
	if !s.programID.IsZero() {
		s.logger.Debug(ctx, "on-chain state lookup not implemented", "state_id", stateID)
	}
	return "", false, nil
}

func (s *stateService) DecryptWithKey(env *cryptox.Envelope, km cryptox.KeyMaterial, v any) error {
	return cryptox.DecryptWith(env, km, v)
}

package chain

import (
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/zkvault/internal/common"
	"github.com/gagliardetto/solana-go"
)

// Op names the action an instruction asks the on-chain program to perform.
type Op string

const (
	OpCreate      Op = "create"
	OpUpdate      Op = "update"
	OpSubmitJob   Op = "submit_job"
	OpSubmitProof Op = "submit_proof"
)

// StatePayload is the instruction data for create and update.
type StatePayload struct {
	Op                 Op     `json:"op"`
	SchemaID           string `json:"schemaId"`
	Commitment         string `json:"commitment"`
	Owner              string `json:"owner"`
	PreviousCommitment string `json:"previousCommitment,omitempty"`
	StateID            string `json:"stateId,omitempty"`
}

// JobPayload is the instruction data for submit_job.
type JobPayload struct {
	Op         Op     `json:"op"`
	JobID      string `json:"jobId"`
	JobType    string `json:"jobType"`
	Commitment string `json:"commitment"`
	Owner      string `json:"owner"`
}

// ProofPayload is the instruction data for submit_proof.
type ProofPayload struct {
	Op           Op       `json:"op"`
	StateID      string   `json:"stateId"`
	Circuit      string   `json:"circuit"`
	Proof        string   `json:"proof"`
	PublicInputs []string `json:"publicInputs,omitempty"`
}

// ParseProgramID decodes a base58 program address. An empty string yields
// the zero key and no error, meaning "not configured".
func ParseProgramID(s string) (solana.PublicKey, error) {
	if s == "" {
		return solana.PublicKey{}, nil
	}
	pk, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: program id %q: %v", common.ErrConfig, s, err)
	}
	return pk, nil
}

// NewPayloadInstruction JSON-encodes payload as instruction data for
// programID. The signer account is the only account passed; its exact
// layout is owned by the on-chain program.
func NewPayloadInstruction(programID, signer solana.PublicKey, payload any) (solana.Instruction, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode instruction payload: %w", err)
	}
	accounts := solana.AccountMetaSlice{solana.NewAccountMeta(signer, true, true)}
	return solana.NewInstruction(programID, accounts, data), nil
}

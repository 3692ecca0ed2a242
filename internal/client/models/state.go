package models

// StateHandle references a private-state record.
type StateHandle struct {
	// ID is DeriveID(Commitment, Owner); not guaranteed unique.
	ID         string `json:"id"`
	Commitment string `json:"commitment"`
	Owner      string `json:"owner"`
	// Signature of the chain transaction, if one was sent.
	Signature string `json:"signature,omitempty"`
}

// Proof is what the coordinator returns for a state proof request.
type Proof struct {
	Proof        string   `json:"proof"`
	PublicInputs []string `json:"publicInputs"`
}

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/zkvault/internal/client/models"
	"github.com/dmitrijs2005/zkvault/internal/client/services"
)

// readJSON prompts for a multi-line JSON document.
func (a *App) readJSON(prompt string) (any, error) {
	text, err := GetMultiline(a.reader, prompt, a.out)
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return v, nil
}

func (a *App) DefineSchema(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Schema id", a.out)
	if err != nil {
		return err
	}
	name, err := GetSimpleText(a.reader, "Schema name", a.out)
	if err != nil {
		return err
	}
	fields, err := GetFields(a.reader, a.out)
	if err != nil {
		return err
	}

	if err := a.state.DefineSchema(models.Schema{ID: id, Name: name, Fields: fields}); err != nil {
		return err
	}
	a.printf("Schema %s defined\n", id)
	return nil
}

func (a *App) CreateState(ctx context.Context) error {
	km, err := a.keyMaterial()
	if err != nil {
		return err
	}
	schemaID, err := GetSimpleText(a.reader, "Schema id", a.out)
	if err != nil {
		return err
	}
	data, err := a.readJSON("State data (JSON)")
	if err != nil {
		return err
	}

	res, err := a.state.CreateState(ctx, services.CreateStateParams{SchemaID: schemaID, Owner: a.owner, Data: data, Key: km}, a.wallet)
	if err != nil {
		return err
	}
	a.envelopes[res.Handle.ID] = res.Envelope
	a.printHandle(res.Handle)
	return nil
}

func (a *App) UpdateState(ctx context.Context) error {
	km, err := a.keyMaterial()
	if err != nil {
		return err
	}
	stateID, err := GetSimpleText(a.reader, "State id", a.out)
	if err != nil {
		return err
	}
	schemaID, err := GetSimpleText(a.reader, "Schema id", a.out)
	if err != nil {
		return err
	}
	previous, err := GetSimpleText(a.reader, "Previous commitment", a.out)
	if err != nil {
		return err
	}
	data, err := a.readJSON("New state data (JSON)")
	if err != nil {
		return err
	}

	res, err := a.state.UpdateState(ctx, services.UpdateStateParams{
		SchemaID:           schemaID,
		Owner:              a.owner,
		Data:               data,
		Key:                km,
		PreviousCommitment: previous,
		StateID:            stateID,
	}, a.wallet)
	if err != nil {
		return err
	}
	a.envelopes[res.Handle.ID] = res.Envelope
	a.printHandle(res.Handle)
	return nil
}

func (a *App) printHandle(h models.StateHandle) {
	a.printf("State id:   %s\nCommitment: %s\n", h.ID, h.Commitment)
	if h.Signature != "" {
		a.printf("Signature:  %s\n", h.Signature)
	}
}

// Prove requests a proof for a state created or updated in this session.
func (a *App) Prove(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: prove <state-id>")
	}
	stateID := args[0]
	env, ok := a.envelopes[stateID]
	if !ok {
		return fmt.Errorf("state %s was not created in this session", stateID)
	}
	circuit, err := GetSimpleText(a.reader, "Circuit", a.out)
	if err != nil {
		return err
	}

	proof, err := a.state.GenerateProof(ctx, services.GenerateProofParams{StateID: stateID, Circuit: circuit, Envelope: env})
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(proof, "", "  ")
	if err != nil {
		return err
	}
	a.printf("%s\n", out)

	if a.wallet == nil {
		return nil
	}
	submit, err := GetSimpleText(a.reader, "Submit proof on chain? (y/N)", a.out)
	if err != nil || (submit != "y" && submit != "Y") {
		return err
	}
	sig, err := a.state.SubmitProof(ctx, services.SubmitProofParams{StateID: stateID, Circuit: circuit, Proof: *proof}, a.wallet)
	if err != nil {
		return err
	}
	a.printf("Signature: %s\n", sig)
	return nil
}

package models

import (
	"testing"

	"github.com/dmitrijs2005/zkvault/internal/common"
	"github.com/stretchr/testify/assert"
)

func TestSchema_Validate(t *testing.T) {
	good := Schema{ID: "s1", Name: "Balance", Fields: []Field{{Name: "balance", Type: FieldTypeU64}}}

	tests := []struct {
		name    string
		mutate  func(s *Schema)
		wantErr bool
	}{
		{name: "ok", mutate: func(s *Schema) {}},
		{name: "no id", mutate: func(s *Schema) { s.ID = "" }, wantErr: true},
		{name: "no name", mutate: func(s *Schema) { s.Name = "" }, wantErr: true},
		{name: "no fields", mutate: func(s *Schema) { s.Fields = nil }, wantErr: true},
		{name: "unnamed field", mutate: func(s *Schema) { s.Fields = []Field{{Type: FieldTypeBytes}} }, wantErr: true},
		{name: "unknown type", mutate: func(s *Schema) { s.Fields = []Field{{Name: "x", Type: "f64"}} }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := good
			s.Fields = append([]Field(nil), good.Fields...)
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrSchema)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestJobStatus(t *testing.T) {
	assert.True(t, JobStatusCompleted.IsTerminal())
	assert.True(t, JobStatusFailed.IsTerminal())
	assert.False(t, JobStatusPending.IsTerminal())
	assert.False(t, JobStatusRunning.IsTerminal())

	assert.True(t, JobStatusRunning.Valid())
	assert.False(t, JobStatus("DONE").Valid())
}

func TestJobDefinition_Validate(t *testing.T) {
	assert.ErrorIs(t, JobDefinition{}.Validate(), common.ErrSchema)
	assert.NoError(t, JobDefinition{Name: "score"}.Validate())
}

// Package models defines the client-side data model of the zkvault SDK:
// schemas, state handles, job definitions and job records.
package models

import (
	"fmt"

	"github.com/dmitrijs2005/zkvault/internal/common"
)

// FieldType is the type tag of a schema field.
type FieldType string

const (
	FieldTypeU64     FieldType = "u64"
	FieldTypeString  FieldType = "string"
	FieldTypeBytes   FieldType = "bytes"
	FieldTypeBoolean FieldType = "boolean"
)

// Valid reports whether t is one of the known field type tags.
func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeU64, FieldTypeString, FieldTypeBytes, FieldTypeBoolean:
		return true
	}
	return false
}

// Field is one named, typed column of a schema.
type Field struct {
	Name string    `json:"name"`
	Type FieldType `json:"type"`
}

// Schema describes the fields of a private-state record. Schemas live only
// in the memory of the client that registered them.
type Schema struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`
}

// Validate returns ErrSchema unless id, name and at least one well-formed
// field are present.
func (s Schema) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("%w: schema id is required", common.ErrSchema)
	}
	if s.Name == "" {
		return fmt.Errorf("%w: schema %q: name is required", common.ErrSchema, s.ID)
	}
	if len(s.Fields) == 0 {
		return fmt.Errorf("%w: schema %q: at least one field is required", common.ErrSchema, s.ID)
	}
	for i, f := range s.Fields {
		if f.Name == "" {
			return fmt.Errorf("%w: schema %q: field %d has no name", common.ErrSchema, s.ID, i)
		}
		if !f.Type.Valid() {
			return fmt.Errorf("%w: schema %q: field %q has unknown type %q", common.ErrSchema, s.ID, f.Name, f.Type)
		}
	}
	return nil
}

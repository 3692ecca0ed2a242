package services

import (
	"sort"
	"sync"

	"github.com/dmitrijs2005/zkvault/internal/client/models"
)

// Registry holds the schemas and job types registered with one SDK client.
// Registration is last-write-wins; nothing is persisted.
type Registry struct {
	mu       sync.RWMutex
	schemas  map[string]models.Schema
	jobTypes map[string]models.JobDefinition
}

func NewRegistry() *Registry {
	return &Registry{
		schemas:  make(map[string]models.Schema),
		jobTypes: make(map[string]models.JobDefinition),
	}
}

// DefineSchema validates and stores schema under its id.
func (r *Registry) DefineSchema(schema models.Schema) error {
	if err := schema.Validate(); err != nil {
		return err
	}
	schema.Fields = append([]models.Field(nil), schema.Fields...)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemas[schema.ID] = schema
	return nil
}

func (r *Registry) Schema(id string) (models.Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[id]
	return s, ok
}

// RegisterJobType validates and stores def under its name.
func (r *Registry) RegisterJobType(def models.JobDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobTypes[def.Name] = def
	return nil
}

func (r *Registry) JobType(name string) (models.JobDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.jobTypes[name]
	return d, ok
}

// SchemaIDs returns the registered schema ids in sorted order.
func (r *Registry) SchemaIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.schemas))
	for id := range r.schemas {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// JobTypeNames returns the registered job type names in sorted order.
func (r *Registry) JobTypeNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.jobTypes))
	for name := range r.jobTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reset drops every registration. The SDK client calls it on Close.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.schemas)
	clear(r.jobTypes)
}

package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrDefinitionInvalid indicates a collection definition failed validation.
var ErrDefinitionInvalid = errors.New("schema: collection definition invalid")

// ErrDefinitionExists indicates a duplicate collection id.
var ErrDefinitionExists = errors.New("schema: collection definition already registered")

// ErrDefinitionNotFound indicates an unknown collection id.
var ErrDefinitionNotFound = errors.New("schema: collection definition not found")

// definitionSchema constrains registered definitions: lowercase ids, at least
// one logical field, snake-case field names that cannot collide with the
// bookkeeping columns.
const definitionSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["id", "fields"],
	"properties": {
		"id": {"type": "string", "pattern": "^[a-z][a-z0-9_-]*$"},
		"table": {"type": "string", "pattern": "^([a-z][a-z0-9_]*)?$"},
		"fields": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["name"],
				"properties": {
					"name": {
						"type": "string",
						"pattern": "^[a-z][a-z0-9_]*$",
						"not": {"enum": ["id", "display_order", "active"]}
					},
					"required": {"type": "boolean"}
				}
			}
		}
	}
}`

var compiledDefinitionSchema = jsonschema.MustCompileString("collection-definition.json", definitionSchema)

// Validate checks a definition against the registry schema.
func Validate(def Definition) error {
	payload, err := json.Marshal(def.normalized())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDefinitionInvalid, err)
	}
	var doc any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrDefinitionInvalid, err)
	}
	if err := compiledDefinitionSchema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrDefinitionInvalid, err)
	}
	seen := map[string]struct{}{}
	for _, f := range def.normalized().Fields {
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("%w: duplicate field %q", ErrDefinitionInvalid, f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}

// Registry holds the collection definitions configured for the site.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]Definition
}

// NewRegistry builds a registry from the provided definitions.
func NewRegistry(defs ...Definition) (*Registry, error) {
	reg := &Registry{defs: make(map[string]Definition, len(defs))}
	for _, def := range defs {
		if err := reg.Register(def); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Register validates and stores a definition.
func (r *Registry) Register(def Definition) error {
	if err := Validate(def); err != nil {
		return err
	}
	def = def.normalized()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.defs[def.ID]; ok {
		return fmt.Errorf("%w: %q", ErrDefinitionExists, def.ID)
	}
	r.defs[def.ID] = def
	return nil
}

// Get returns the definition for a collection id.
func (r *Registry) Get(id string) (Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[id]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", ErrDefinitionNotFound, id)
	}
	return def, nil
}

// List returns all definitions sorted by id.
func (r *Registry) List() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Definition, 0, len(r.defs))
	for _, def := range r.defs {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

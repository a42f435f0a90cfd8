package core

import (
	"slices"

	"github.com/aretw0/introspection"
)

// NoteState exposes internal state for observability.
type NoteState struct {
	Loaded       bool     `json:"loaded"`
	Source       string   `json:"source,omitempty"`
	BodyLength   int      `json:"body_length"`
	MetadataKeys []string `json:"metadata_keys,omitempty"`
	Transforms   int      `json:"transforms"`
}

// State implements introspection.Introspectable.
func (n *Note) State() any {
	state := NoteState{
		Loaded:     n.loaded,
		Source:     n.source,
		BodyLength: len(n.body),
		Transforms: n.transforms,
	}
	if n.metadata != nil {
		state.MetadataKeys = slices.Clone(n.metadata.Keys())
	}
	return state
}

// ComponentType implements introspection.Component.
func (n *Note) ComponentType() string {
	return "note"
}

var _ introspection.Introspectable = (*Note)(nil)
var _ introspection.Component = (*Note)(nil)

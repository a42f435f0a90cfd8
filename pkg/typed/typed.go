// Package typed offers a type-safe view over note metadata.
// Metadata is converted to and from T through its JSON form, so struct tags
// decide the key names.
package typed

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/notekit/pkg/adapters/frontmatter"
	"github.com/aretw0/notekit/pkg/core"
)

// Model is a typed view of a note snapshot.
type Model[T any] struct {
	Body string
	Data T
}

// Decode converts a snapshot into a Model.
func Decode[T any](snap core.Snapshot) (*Model[T], error) {
	data, err := Metadata[T](snap)
	if err != nil {
		return nil, err
	}
	return &Model[T]{Body: snap.Body, Data: data}, nil
}

// Metadata decodes the metadata of snap into T.
func Metadata[T any](snap core.Snapshot) (T, error) {
	var out struct {
		Metadata T `json:"metadata"`
	}
	raw, err := core.Marshal(snap, 0)
	if err != nil {
		return out.Metadata, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out.Metadata, fmt.Errorf("unmarshal to target type failed: %w", err)
	}
	return out.Metadata, nil
}

// Merge builds a transform that writes every field of v into the metadata,
// key by key. Keys that v does not produce are left untouched.
func Merge[T any](v T) (core.Transform, error) {
	md, err := toMetadata(v)
	if err != nil {
		return nil, err
	}
	fields := make([]core.MetadataField, 0, len(md.Keys()))
	for _, k := range md.Keys() {
		val, _ := md.Get(k)
		fields = append(fields, core.Key(k, core.Set(val)))
	}
	return core.FieldTransform{Metadata: core.MergeMetadata(fields...)}, nil
}

// Transform lifts fn into a core.Transform. The current metadata is decoded
// into T, passed to fn and the result merged back key by key.
// If the metadata cannot be decoded into T, or the result cannot be encoded,
// the metadata is left unchanged; use Note.Update to observe such errors.
func Transform[T any](fn func(T) T) core.Transform {
	return core.FieldTransform{
		Metadata: core.ReplaceMetadata(func(current core.Metadata) core.Metadata {
			v, err := Metadata[T](core.Snapshot{Metadata: current})
			if err != nil {
				return nil
			}
			next, err := toMetadata(fn(v))
			if err != nil {
				return nil
			}
			if current == nil {
				current = core.NewMetadata()
			}
			for _, k := range next.Keys() {
				val, _ := next.Get(k)
				current.Set(k, val)
			}
			return current
		}),
	}
}

// toMetadata re-reads the JSON form of v with the frontmatter decoder so the
// values have the same types as loaded metadata.
func toMetadata[T any](v T) (core.Metadata, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal typed data: %w", err)
	}
	md, err := frontmatter.NewDecoder().Decode(string(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to convert typed data to metadata: %w", err)
	}
	return md, nil
}

// Note wraps a core.Note to provide type-safe access.
type Note[T any] struct {
	note *core.Note
}

// NewNote creates a typed wrapper around an existing note.
func NewNote[T any](n *core.Note) *Note[T] {
	return &Note[T]{note: n}
}

// Get returns the current state of the note as a Model.
func (n *Note[T]) Get() (*Model[T], error) {
	snap, err := n.note.Snapshot()
	if err != nil {
		return nil, err
	}
	return Decode[T](snap)
}

// Update decodes the metadata, applies fn and merges the result back.
func (n *Note[T]) Update(fn func(T) T) error {
	model, err := n.Get()
	if err != nil {
		return err
	}
	t, err := Merge(fn(model.Data))
	if err != nil {
		return err
	}
	return n.note.Transform(t)
}

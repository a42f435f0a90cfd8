package notekit

import (
	"context"
	"log/slog"

	"github.com/aretw0/notekit/internal/platform"
	"github.com/aretw0/notekit/pkg/core"
	"github.com/aretw0/notekit/pkg/typed"
)

// --- Types ---

type (
	// Note is a text body preceded by ordered metadata.
	Note = core.Note
	// Snapshot is a copy of a note's state.
	Snapshot = core.Snapshot
	// Partial is the result of a WholeTransform.
	Partial = core.Partial
	// Transform reshapes a note.
	Transform = core.Transform
	// WholeTransform receives the full snapshot and returns the fields to replace.
	WholeTransform = core.WholeTransform
	// FieldTransform reshapes the body and the metadata independently.
	FieldTransform = core.FieldTransform
	// MetadataTransform replaces or merges metadata.
	MetadataTransform = core.MetadataTransform
	// MetadataField pairs a key with its Field.
	MetadataField = core.MetadataField
	// Metadata is the insertion-ordered frontmatter of a note.
	Metadata = core.Metadata
	// ExportOptions configures Note.Export.
	ExportOptions = core.ExportOptions
	// WriteOptions are forwarded to the export sink.
	WriteOptions = core.WriteOptions
)

// Field describes how a single field is replaced.
type Field[T any] = core.Field[T]

// TypedNote is a type-safe view over a note's metadata.
type TypedNote[T any] = typed.Note[T]

// --- Field constructors ---

// Set replaces a field with v, even when v is the zero value.
func Set[T any](v T) Field[T] {
	return core.Set(v)
}

// Apply replaces a field with fn(current).
func Apply[T any](fn func(T) T) Field[T] {
	return core.Apply(fn)
}

// Key builds a MetadataField.
func Key(name string, f Field[any]) MetadataField {
	return core.Key(name, f)
}

// MergeMetadata updates only the named keys.
func MergeMetadata(fields ...MetadataField) MetadataTransform {
	return core.MergeMetadata(fields...)
}

// ReplaceMetadata replaces the whole metadata with fn(current).
func ReplaceMetadata(fn func(Metadata) Metadata) MetadataTransform {
	return core.ReplaceMetadata(fn)
}

// Chain applies transforms in order as a single transform.
func Chain(ts ...Transform) Transform {
	return core.Chain(ts...)
}

// --- Configuration ---

// Option defines a functional option for configuring a note.
type Option = platform.Option

// WithLogger sets the logger shared by the note and its adapters.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRoot makes note identifiers relative to dir.
func WithRoot(dir string) Option {
	return platform.WithRoot(dir)
}

// WithRequireFrontmatter rejects sources without a frontmatter block.
func WithRequireFrontmatter(require bool) Option {
	return platform.WithRequireFrontmatter(require)
}

// WithReader injects a custom source reader.
func WithReader(r core.Reader) Option {
	return platform.WithReader(r)
}

// WithDecoder injects a custom frontmatter decoder.
func WithDecoder(d core.Decoder) Option {
	return platform.WithDecoder(d)
}

// WithSink injects a custom export sink.
func WithSink(s core.Sink) Option {
	return platform.WithSink(s)
}

// --- Factory ---

// New creates an unloaded note.
func New(opts ...Option) *Note {
	return platform.New(opts...)
}

// Open creates a note and loads source into it.
func Open(ctx context.Context, source string, opts ...Option) (*Note, error) {
	n := platform.New(opts...)
	if err := n.Load(ctx, source); err != nil {
		return nil, err
	}
	return n, nil
}

// NewTyped wraps a note with a type-safe view of its metadata.
func NewTyped[T any](n *Note) *TypedNote[T] {
	return typed.NewNote[T](n)
}

// FindRoot recursively looks upwards for a project root indicator.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}

// Package core holds the note entity and its transform engine.
// It is agnostic to storage format: reading, frontmatter decoding and writing
// are delegated to the Reader, Decoder and Sink ports.
package core

import (
	"context"
	"errors"
	"log/slog"
	"maps"
)

// Note is a text body preceded by ordered metadata.
//
// A Note starts uninitialized; Load must succeed before any other operation.
// It is meant for sequential use and holds no lock: callers running Transform
// and Export concurrently must serialize the calls themselves.
type Note struct {
	reader  Reader
	decoder Decoder
	sink    Sink
	logger  *slog.Logger

	loaded     bool
	source     string
	body       string
	metadata   Metadata
	transforms int
}

// NoteOption configures a Note.
type NoteOption func(*Note)

// WithLogger sets the logger used by the note.
func WithLogger(logger *slog.Logger) NoteOption {
	return func(n *Note) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// NewNote creates an uninitialized note bound to its collaborators.
func NewNote(reader Reader, decoder Decoder, sink Sink, opts ...NoteOption) *Note {
	n := &Note{
		reader:  reader,
		decoder: decoder,
		sink:    sink,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// LoadOption configures a single Load call.
type LoadOption func(*loadOptions)

type loadOptions struct {
	transform Transform
}

// WithTransform applies t right after the note is loaded.
func WithTransform(t Transform) LoadOption {
	return func(o *loadOptions) {
		o.transform = t
	}
}

// Load reads source and replaces the note's state with its content.
// The "file" metadata key is set from the reader's identifier; a "file" key in
// the frontmatter is ignored.
//
// On failure the previous state is kept. Reader and decoder failures are
// reported as *LoadError, an invalid load transform as *TransformTypeError.
func (n *Note) Load(ctx context.Context, source string, opts ...LoadOption) error {
	o := loadOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	if n.reader == nil || n.decoder == nil {
		return &LoadError{Source: source, Err: errors.New("no reader or decoder configured")}
	}
	if o.transform != nil {
		if err := validateTransform(o.transform); err != nil {
			return err
		}
	}

	raw, err := n.reader.ReadNote(ctx, source)
	if err != nil {
		return &LoadError{Source: source, Err: err}
	}

	decoded, err := n.decoder.Decode(raw.Frontmatter)
	if err != nil {
		return &LoadError{Source: source, Err: err}
	}

	md := NewMetadata()
	md.Set(FileKey, raw.File)
	if decoded != nil {
		for _, k := range decoded.Keys() {
			if k == FileKey {
				n.logger.Warn("ignoring reserved frontmatter key", "key", k, "source", source)
				continue
			}
			v, _ := decoded.Get(k)
			md.Set(k, v)
		}
	}

	next := Snapshot{Body: raw.Body, Metadata: md}
	if o.transform != nil {
		next = applyTransform(o.transform, next)
	}

	n.source = source
	n.body = next.Body
	n.metadata = next.Metadata
	n.loaded = true
	n.transforms = 0
	if o.transform != nil {
		n.transforms = 1
	}

	n.logger.Debug("note loaded", "source", source, "file", raw.File, "keys", len(md.Keys()))
	return nil
}

// Loaded reports whether Load has succeeded at least once.
func (n *Note) Loaded() bool {
	return n.loaded
}

// Transform reshapes the note in place. Either every field is updated or, on
// error, none is.
func (n *Note) Transform(t Transform) error {
	if !n.loaded {
		return ErrNotLoaded
	}
	if err := validateTransform(t); err != nil {
		return err
	}

	next := applyTransform(t, Snapshot{Body: n.body, Metadata: n.metadata})
	n.body = next.Body
	n.metadata = next.Metadata
	n.transforms++

	n.logger.Debug("note transformed", "source", n.source, "count", n.transforms)
	return nil
}

// Snapshot returns a copy of the current state.
func (n *Note) Snapshot() (Snapshot, error) {
	if !n.loaded {
		return Snapshot{}, ErrNotLoaded
	}
	return Snapshot{Body: n.body, Metadata: CloneMetadata(n.metadata)}, nil
}

// ExportOptions configures Export.
type ExportOptions struct {
	// Transform is applied to the exported snapshot only. It must be a
	// WholeTransform.
	Transform Transform
	// Space is the JSON indentation width.
	Space int
	// Write is forwarded to the sink, minus the reserved keys.
	Write WriteOptions
}

// Export serializes the note as JSON and hands it to the sink. The note
// itself is never modified.
func (n *Note) Export(ctx context.Context, destination string, opts ExportOptions) error {
	if !n.loaded {
		return ErrNotLoaded
	}

	data := Snapshot{Body: n.body, Metadata: CloneMetadata(n.metadata)}
	if opts.Transform != nil {
		wt, ok := opts.Transform.(WholeTransform)
		if !ok || wt == nil {
			return &TransformTypeError{Reason: "export transform must be a function"}
		}
		data = applyTransform(wt, data)
	}

	payload, err := Marshal(data, opts.Space)
	if err != nil {
		return err
	}

	if n.sink == nil {
		return &WriteError{Destination: destination, Err: errors.New("no sink configured")}
	}
	if err := n.sink.Write(ctx, destination, payload, sinkOptions(opts.Write)); err != nil {
		return &WriteError{Destination: destination, Err: err}
	}

	n.logger.Debug("note exported", "source", n.source, "destination", destination, "bytes", len(payload))
	return nil
}

// sinkOptions copies opts without the reserved export keys.
func sinkOptions(opts WriteOptions) WriteOptions {
	out := make(WriteOptions, len(opts))
	maps.Copy(out, opts)
	delete(out, OptionTransform)
	delete(out, OptionSpace)
	return out
}

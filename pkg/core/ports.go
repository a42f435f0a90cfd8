package core

import "context"

// RawNote is what a Reader extracts from a note source, before decoding.
type RawNote struct {
	// File identifies the source (e.g. a path relative to the vault root).
	File string
	// Frontmatter is the undecoded text between the frontmatter fences.
	Frontmatter string
	Body        string
}

// Reader loads a note source and splits its frontmatter from its body.
// Adhering to this interface keeps the core independent of the storage
// mechanism (Filesystem, memory, network).
type Reader interface {
	ReadNote(ctx context.Context, source string) (RawNote, error)
}

// Decoder turns raw frontmatter into ordered metadata.
// Empty frontmatter decodes to an empty Metadata.
type Decoder interface {
	Decode(raw string) (Metadata, error)
}

// WriteOptions are sink specific settings (e.g. "mode", "flag", "encoding").
type WriteOptions map[string]any

// Reserved export option keys. They are never forwarded to a Sink.
const (
	OptionTransform = "transform"
	OptionSpace     = "space"
)

// Sink persists an exported note.
type Sink interface {
	Write(ctx context.Context, destination string, data []byte, opts WriteOptions) error
}

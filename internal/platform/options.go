package platform

import (
	"log/slog"

	"github.com/aretw0/notekit/pkg/core"
)

// options holds the internal configuration for building a note.
type options struct {
	reader             core.Reader
	decoder            core.Decoder
	sink               core.Sink
	logger             *slog.Logger
	root               string
	requireFrontmatter bool
}

// Option defines a functional option for configuring a note.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		logger: slog.New(slog.DiscardHandler),
	}
}

// WithLogger sets the logger shared by the note and its adapters.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithReader injects a custom source reader (e.g. mock, remote store).
// If provided, the filesystem reader is skipped.
func WithReader(r core.Reader) Option {
	return func(o *options) {
		o.reader = r
	}
}

// WithDecoder injects a custom frontmatter decoder. Defaults to YAML.
func WithDecoder(d core.Decoder) Option {
	return func(o *options) {
		o.decoder = d
	}
}

// WithSink injects a custom export sink. Defaults to the filesystem sink.
func WithSink(s core.Sink) Option {
	return func(o *options) {
		o.sink = s
	}
}

// WithRoot makes note identifiers relative to dir.
func WithRoot(dir string) Option {
	return func(o *options) {
		o.root = dir
	}
}

// WithRequireFrontmatter rejects sources without a frontmatter block.
func WithRequireFrontmatter(require bool) Option {
	return func(o *options) {
		o.requireFrontmatter = require
	}
}

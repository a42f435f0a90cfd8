package platform

import (
	"github.com/aretw0/notekit/pkg/adapters/frontmatter"
	"github.com/aretw0/notekit/pkg/adapters/fs"
	"github.com/aretw0/notekit/pkg/core"
)

// New builds an unloaded note wired to the filesystem adapters, unless
// replaced through options.
//
//	n := notekit.New(notekit.WithRoot("./vault"))
//	err := n.Load(ctx, "./vault/ideas/todo.md")
func New(opts ...Option) *core.Note {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	cfg := fs.Config{
		Root:               o.root,
		RequireFrontmatter: o.requireFrontmatter,
		Logger:             o.logger,
	}

	reader := o.reader
	if reader == nil {
		reader = fs.NewReader(cfg)
	}
	decoder := o.decoder
	if decoder == nil {
		decoder = frontmatter.NewDecoder()
	}
	sink := o.sink
	if sink == nil {
		sink = fs.NewSink(cfg)
	}

	return core.NewNote(reader, decoder, sink, core.WithLogger(o.logger))
}

// Package fs implements the note collaborators on top of the local filesystem:
// a Reader that splits frontmatter from body, a Sink that writes exports
// atomically and a Watch helper that reacts to file changes.
package fs

import "log/slog"

// Config holds the configuration for the filesystem adapters.
type Config struct {
	// Root makes note identifiers relative to this directory (slash separated).
	// Sources outside Root keep their cleaned path.
	Root string
	// RequireFrontmatter makes the Reader reject files without a frontmatter block.
	RequireFrontmatter bool
	Logger             *slog.Logger
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.DiscardHandler)
}

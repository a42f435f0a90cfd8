// Package stream provides a core.Sink that writes exports to an io.Writer.
package stream

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/aretw0/notekit/pkg/core"
)

// OptionNewline appends a trailing newline after each export when true.
const OptionNewline = "newline"

// Sink writes every export to the same writer, ignoring the destination.
type Sink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewSink creates a writer-backed sink.
func NewSink(w io.Writer) *Sink {
	return &Sink{w: w}
}

var _ core.Sink = (*Sink)(nil)

// Write implements core.Sink.
func (s *Sink) Write(ctx context.Context, destination string, data []byte, opts core.WriteOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.w.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", destination, err)
	}
	if newline, _ := opts[OptionNewline].(bool); newline {
		if _, err := io.WriteString(s.w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

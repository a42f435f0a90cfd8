// Package lifecycle bridges filesystem note changes to lifecycle event sources.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/notekit/pkg/adapters/fs"
)

// ChangeEvent reports that a watched note file was created or written.
type ChangeEvent struct {
	Path string
}

// String implements lifecycle.Event.
func (e ChangeEvent) String() string {
	return "note changed: " + e.Path
}

type watchSource struct {
	config   fs.Config
	patterns []string
	out      chan lifecycle.Event
}

// NewWatchSource creates a lifecycle.Source that emits a ChangeEvent for every
// settled change to a file matching patterns.
//
// Events are delivered on a single channel, so a consumer handling them in
// one goroutine never processes two changes at once. The channel is not
// closed; consumers stop when their context is done.
func NewWatchSource(config fs.Config, patterns []string) lifecycle.Source {
	return &watchSource{
		config:   config,
		patterns: patterns,
		out:      make(chan lifecycle.Event),
	}
}

func (s *watchSource) Events() <-chan lifecycle.Event {
	return s.out
}

// Start begins watching. It returns once the watcher is running.
func (s *watchSource) Start(ctx context.Context) error {
	return fs.Watch(ctx, s.config, s.patterns, func(ctx context.Context, path string) error {
		select {
		case s.out <- ChangeEvent{Path: path}:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
}

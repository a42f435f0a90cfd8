package stream_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notekit/pkg/adapters/stream"
	"github.com/aretw0/notekit/pkg/core"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestSink(t *testing.T) {
	var buf bytes.Buffer
	s := stream.NewSink(&buf)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "-", []byte(`{"a":1}`), nil))
	require.NoError(t, s.Write(ctx, "-", []byte(`{"b":2}`), core.WriteOptions{stream.OptionNewline: true}))
	assert.Equal(t, "{\"a\":1}{\"b\":2}\n", buf.String())

	err := stream.NewSink(failingWriter{}).Write(ctx, "-", []byte("x"), nil)
	assert.ErrorContains(t, err, "disk full")

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, s.Write(cctx, "-", []byte("x"), nil), context.Canceled)
}

package fs

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notekit/pkg/core"
)

func TestSink_Write(t *testing.T) {
	ctx := context.Background()
	sink := NewSink(Config{})

	t.Run("Default Replaces File", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "out.json")
		require.NoError(t, sink.Write(ctx, dest, []byte("one"), nil))
		require.NoError(t, sink.Write(ctx, dest, []byte("two"), core.WriteOptions{}))

		got, err := os.ReadFile(dest)
		require.NoError(t, err)
		assert.Equal(t, "two", string(got))
	})

	t.Run("Append Flag", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "out.jsonl")
		opts := core.WriteOptions{OptionFlag: "a"}
		require.NoError(t, sink.Write(ctx, dest, []byte("1\n"), opts))
		require.NoError(t, sink.Write(ctx, dest, []byte("2\n"), opts))

		got, _ := os.ReadFile(dest)
		assert.Equal(t, "1\n2\n", string(got))
	})

	t.Run("Exclusive Flag", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "out.json")
		opts := core.WriteOptions{OptionFlag: "wx"}
		require.NoError(t, sink.Write(ctx, dest, []byte("first"), opts))
		err := sink.Write(ctx, dest, []byte("second"), opts)
		assert.ErrorIs(t, err, os.ErrExist)
	})

	t.Run("Mode Option", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("permission bits are limited on windows")
		}
		for _, mode := range []any{os.FileMode(0600), 0600, "0600"} {
			dest := filepath.Join(t.TempDir(), "out.json")
			require.NoError(t, sink.Write(ctx, dest, []byte("x"), core.WriteOptions{OptionMode: mode}))
			info, err := os.Stat(dest)
			require.NoError(t, err)
			assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "mode %v", mode)
		}
	})

	t.Run("Overwrite Keeps Private Mode", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("permission bits are limited on windows")
		}
		dest := filepath.Join(t.TempDir(), "private.json")
		require.NoError(t, os.WriteFile(dest, []byte("old"), 0600))

		require.NoError(t, sink.Write(ctx, dest, []byte("new"), nil))

		info, err := os.Stat(dest)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
		got, _ := os.ReadFile(dest)
		assert.Equal(t, "new", string(got))
	})

	t.Run("Mkdir Option", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "a", "b", "out.json")
		require.Error(t, sink.Write(ctx, dest, []byte("x"), nil))
		require.NoError(t, sink.Write(ctx, dest, []byte("x"), core.WriteOptions{OptionMkdir: true}))
		assert.FileExists(t, dest)
	})

	t.Run("Invalid Options", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "out.json")
		bad := []core.WriteOptions{
			{OptionEncoding: "latin1"},
			{OptionFlag: "r"},
			{OptionMode: 3.5},
			{OptionMode: "rwx"},
			{OptionMkdir: "yes"},
		}
		for _, opts := range bad {
			assert.Error(t, sink.Write(ctx, dest, []byte("x"), opts), "options %v", opts)
		}
		assert.NoFileExists(t, dest)
	})

	t.Run("Unknown Options Are Ignored", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "out.json")
		opts := core.WriteOptions{"signal": "abort", OptionEncoding: "UTF-8"}
		require.NoError(t, sink.Write(ctx, dest, []byte("x"), opts))
	})

	t.Run("Empty Destination", func(t *testing.T) {
		assert.Error(t, sink.Write(ctx, "", []byte("x"), nil))
	})
}

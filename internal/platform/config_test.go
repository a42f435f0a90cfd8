package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("Reads JSON With Comments", func(t *testing.T) {
		dir := t.TempDir()
		nested := filepath.Join(dir, "notes", "daily")
		require.NoError(t, os.MkdirAll(nested, 0755))
		want := writeConfig(t, dir, `{
			// exported next to the sources
			"root": "notes",
			"out": "dist",
			"space": 2,
			"mode": "0600",
			"require_frontmatter": true,
		}`)

		cfg, path, err := LoadConfig(nested)
		require.NoError(t, err)
		assert.Equal(t, want, path)
		assert.Equal(t, Config{
			Root:               filepath.Join(dir, "notes"),
			Out:                "dist",
			Space:              2,
			Mode:               "0600",
			RequireFrontmatter: true,
		}, cfg)
	})

	t.Run("Absolute Root Is Kept", func(t *testing.T) {
		dir := t.TempDir()
		abs := filepath.Join(t.TempDir(), "elsewhere")
		writeConfig(t, dir, `{"root": "`+filepath.ToSlash(abs)+`"}`)

		cfg, _, err := LoadConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Clean(abs), filepath.Clean(cfg.Root))
	})

	t.Run("Git Root Without Config", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0755))

		cfg, path, err := LoadConfig(dir)
		require.NoError(t, err)
		assert.Empty(t, path)
		assert.Equal(t, Config{}, cfg)
	})

	t.Run("Invalid Config", func(t *testing.T) {
		tests := []struct {
			name    string
			content string
		}{
			{"Syntax", `{"out": }`},
			{"Unknown Field", `{"output": "dist"}`},
			{"Negative Space", `{"space": -1}`},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				dir := t.TempDir()
				writeConfig(t, dir, tt.content)

				_, _, err := LoadConfig(dir)
				require.ErrorIs(t, err, errConfigInvalid)
			})
		}
	})
}

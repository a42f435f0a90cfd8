package platform

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

// Config holds the project settings read from .notekit.json.
// Comments and trailing commas are allowed.
type Config struct {
	// Root makes note identifiers relative to this directory. Relative paths
	// are resolved against the directory holding the config file.
	Root string `json:"root,omitempty"`
	// Out is the default export directory; "-" writes to stdout.
	Out string `json:"out,omitempty"`
	// Space is the default JSON indentation width.
	Space int `json:"space,omitempty"`
	// Mode is the default permission of exported files, in octal.
	Mode string `json:"mode,omitempty"`
	// RequireFrontmatter rejects sources without a frontmatter block.
	RequireFrontmatter bool `json:"require_frontmatter,omitempty"` //nolint:tagliatelle // snake_case for config file
}

var errConfigInvalid = errors.New("invalid config")

// LoadConfig finds the project root above dir and reads its config file.
// It returns the config, the path it was read from (empty when there is
// none) and any error. A missing root or file is not an error.
func LoadConfig(dir string) (Config, string, error) {
	root, err := FindRoot(dir)
	if errors.Is(err, ErrRootNotFound) {
		return Config{}, "", nil
	}
	if err != nil {
		return Config{}, "", err
	}

	path := filepath.Join(root, ConfigFileName)
	data, err := os.ReadFile(path) //nolint:gosec // path is derived from the working directory
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, "", nil
		}
		return Config{}, "", fmt.Errorf("read config %s: %w", path, err)
	}

	cfg, err := parseConfig(data)
	if err != nil {
		return Config{}, "", fmt.Errorf("%w %s: %w", errConfigInvalid, path, err)
	}
	if cfg.Root != "" && !filepath.IsAbs(cfg.Root) {
		cfg.Root = filepath.Join(root, cfg.Root)
	}
	return cfg, path, nil
}

func parseConfig(data []byte) (Config, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config
	dec := json.NewDecoder(bytes.NewReader(standardized))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.Space < 0 {
		return Config{}, fmt.Errorf("space must not be negative, got %d", cfg.Space)
	}
	return cfg, nil
}

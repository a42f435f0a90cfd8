package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aretw0/notekit/pkg/core"
)

// Write options understood by Sink.
const (
	OptionMode     = "mode"     // os.FileMode, int or octal string ("0600"); default 0644
	OptionFlag     = "flag"     // "w" (atomic replace, default), "a" (append) or "wx" (fail if exists)
	OptionEncoding = "encoding" // only "utf8"/"utf-8"
	OptionMkdir    = "mkdir"    // bool, create parent directories
)

const defaultFileMode os.FileMode = 0644

// Sink implements core.Sink by writing files.
type Sink struct {
	config Config
}

// NewSink creates a filesystem sink.
func NewSink(config Config) *Sink {
	return &Sink{config: config}
}

var _ core.Sink = (*Sink)(nil)

type writeOptions struct {
	mode    os.FileMode
	modeSet bool
	flag    string
	mkdir   bool
}

// Write stores data at destination according to opts.
func (s *Sink) Write(ctx context.Context, destination string, data []byte, opts core.WriteOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if destination == "" {
		return fmt.Errorf("destination is empty")
	}

	wo, err := s.parseOptions(opts)
	if err != nil {
		return err
	}

	if wo.mkdir {
		if err := os.MkdirAll(filepath.Dir(destination), 0755); err != nil {
			return fmt.Errorf("failed to create directories: %w", err)
		}
	}

	switch wo.flag {
	case "a":
		err = appendFile(destination, data, wo.mode)
	case "wx":
		err = createFile(destination, data, wo.mode)
	default:
		err = writeFileAtomic(destination, data, wo.mode, wo.modeSet)
	}
	if err != nil {
		return err
	}

	s.config.logger().Debug("export written", "destination", destination, "flag", wo.flag, "bytes", len(data))
	return nil
}

func (s *Sink) parseOptions(opts core.WriteOptions) (writeOptions, error) {
	wo := writeOptions{mode: defaultFileMode, flag: "w"}

	for key, val := range opts {
		switch key {
		case OptionMode:
			mode, err := parseMode(val)
			if err != nil {
				return wo, err
			}
			wo.mode = mode
			wo.modeSet = true
		case OptionFlag:
			flag, ok := val.(string)
			if !ok || (flag != "w" && flag != "a" && flag != "wx") {
				return wo, fmt.Errorf("unsupported flag %v", val)
			}
			wo.flag = flag
		case OptionEncoding:
			enc, _ := val.(string)
			switch strings.ToLower(enc) {
			case "utf8", "utf-8":
			default:
				return wo, fmt.Errorf("unsupported encoding %v", val)
			}
		case OptionMkdir:
			mkdir, ok := val.(bool)
			if !ok {
				return wo, fmt.Errorf("mkdir must be a bool, got %T", val)
			}
			wo.mkdir = mkdir
		default:
			s.config.logger().Debug("ignoring unknown write option", "key", key)
		}
	}

	return wo, nil
}

func parseMode(val any) (os.FileMode, error) {
	switch v := val.(type) {
	case os.FileMode:
		return v.Perm(), nil
	case int:
		return os.FileMode(v).Perm(), nil
	case uint32:
		return os.FileMode(v).Perm(), nil
	case string:
		n, err := strconv.ParseUint(v, 8, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid mode %q: %w", v, err)
		}
		return os.FileMode(n).Perm(), nil
	default:
		return 0, fmt.Errorf("unsupported mode type %T", val)
	}
}

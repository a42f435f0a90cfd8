package fs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/notekit/pkg/core"
)

var (
	// ErrUnclosedFrontmatter is returned when an opening fence has no closing one.
	ErrUnclosedFrontmatter = errors.New("frontmatter started but no closing delimiter found")
	// ErrNoFrontmatter is returned in RequireFrontmatter mode for files without a fence.
	ErrNoFrontmatter = errors.New("no frontmatter delimiter found")
)

const fence = "---"

// Reader implements core.Reader for files on disk.
type Reader struct {
	config Config
}

// NewReader creates a filesystem note reader.
func NewReader(config Config) *Reader {
	return &Reader{config: config}
}

var _ core.Reader = (*Reader)(nil)

// ReadNote reads the file at source and splits it into frontmatter and body.
func (r *Reader) ReadNote(ctx context.Context, source string) (core.RawNote, error) {
	if err := ctx.Err(); err != nil {
		return core.RawNote{}, err
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return core.RawNote{}, err
	}

	frontmatter, body, found, err := Split(data)
	if err != nil {
		return core.RawNote{}, fmt.Errorf("failed to parse %s: %w", source, err)
	}
	if !found && r.config.RequireFrontmatter {
		return core.RawNote{}, fmt.Errorf("failed to parse %s: %w", source, ErrNoFrontmatter)
	}

	r.config.logger().Debug("note read", "source", source, "frontmatter", found, "bytes", len(data))
	return core.RawNote{
		File:        r.identify(source),
		Frontmatter: frontmatter,
		Body:        body,
	}, nil
}

// identify maps a source path to the note's file identifier.
func (r *Reader) identify(source string) string {
	clean := filepath.Clean(source)
	if r.config.Root == "" {
		return filepath.ToSlash(clean)
	}

	absRoot, err := filepath.Abs(r.config.Root)
	if err != nil {
		return filepath.ToSlash(clean)
	}
	absSource, err := filepath.Abs(clean)
	if err != nil {
		return filepath.ToSlash(clean)
	}
	rel, err := filepath.Rel(absRoot, absSource)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(clean)
	}
	return filepath.ToSlash(rel)
}

// Split separates a leading frontmatter block from the body.
//
// The block must open on the very first line with "---" and close with a line
// holding only "---" (or "..."). Without an opening fence the whole input is
// the body and found is false. A UTF-8 BOM and CRLF line endings are accepted.
func Split(data []byte) (frontmatter, body string, found bool, err error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	first, rest, ok := cutLine(data)
	if !isFence(first, false) {
		return "", string(data), false, nil
	}
	if !ok {
		return "", "", false, ErrUnclosedFrontmatter
	}

	offset := 0
	for {
		line, next, more := cutLine(rest[offset:])
		if isFence(line, true) {
			fm := string(rest[:offset])
			bodyStart := len(rest) - len(next)
			if !more {
				bodyStart = len(rest)
			}
			return fm, string(rest[bodyStart:]), true, nil
		}
		if !more {
			return "", "", false, ErrUnclosedFrontmatter
		}
		offset = len(rest) - len(next)
	}
}

// cutLine returns the first line without its terminator, the remainder and
// whether a line terminator was found.
func cutLine(b []byte) (line, rest []byte, ok bool) {
	i := bytes.IndexByte(b, '\n')
	if i < 0 {
		return b, nil, false
	}
	return bytes.TrimSuffix(b[:i], []byte("\r")), b[i+1:], true
}

func isFence(line []byte, closing bool) bool {
	s := strings.TrimRight(string(line), " \t\r")
	if s == fence {
		return true
	}
	return closing && s == "..."
}

package fs

import (
	"bytes"
	"fmt"
	"os"

	"github.com/natefinch/atomic"
)

// writeFileAtomic replaces filename with data through a temp file and rename,
// so readers never observe a partial export. A new file gets perm; an existing
// one keeps its permissions unless force is set.
func writeFileAtomic(filename string, data []byte, perm os.FileMode, force bool) error {
	_, statErr := os.Stat(filename)
	existed := statErr == nil

	// atomic.WriteFile carries over the mode of the file it replaces
	if err := atomic.WriteFile(filename, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write %s atomically: %w", filename, err)
	}
	if existed && !force {
		return nil
	}

	if err := os.Chmod(filename, perm); err != nil {
		return fmt.Errorf("failed to chmod %s: %w", filename, err)
	}

	return nil
}

// appendFile appends data to filename, creating it with perm if needed.
func appendFile(filename string, data []byte, perm os.FileMode) error {
	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, perm)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("failed to append to %s: %w", filename, err)
	}
	return f.Close()
}

// createFile writes data to filename, failing if it already exists.
func createFile(filename string, data []byte, perm os.FileMode) error {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_EXCL|os.O_WRONLY, perm)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(filename)
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return f.Close()
}

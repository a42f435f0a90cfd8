package core

import (
	"errors"
	"fmt"
)

// ErrNotLoaded is returned by every operation on a note that was never loaded.
var ErrNotLoaded = errors.New("note is not loaded")

// LoadError reports that a note source could not be read or decoded.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// TransformTypeError reports a transform argument of the wrong shape.
type TransformTypeError struct {
	Reason string
}

func (e *TransformTypeError) Error() string {
	return "invalid transform: " + e.Reason
}

// WriteError reports that the export sink failed.
type WriteError struct {
	Destination string
	Err         error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Destination, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// SerializationError reports data that cannot be represented as JSON.
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("serialize note: %v", e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

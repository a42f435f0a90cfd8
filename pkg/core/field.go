package core

type fieldKind uint8

const (
	fieldUnset fieldKind = iota
	fieldValue
	fieldFunc
)

// Field describes how a single field is replaced: by a literal value or by a
// function of its current value. The zero Field leaves the field untouched.
type Field[T any] struct {
	kind  fieldKind
	value T
	fn    func(T) (T, bool)
}

// Set replaces the field with v, even when v is the zero value.
func Set[T any](v T) Field[T] {
	return Field[T]{kind: fieldValue, value: v}
}

// Apply replaces the field with fn(current).
func Apply[T any](fn func(T) T) Field[T] {
	if fn == nil {
		return Field[T]{kind: fieldFunc}
	}
	return Field[T]{kind: fieldFunc, fn: func(cur T) (T, bool) { return fn(cur), true }}
}

// ApplyOpt is like Apply but fn may report that it produced no value,
// in which case the field keeps its current value.
func ApplyOpt[T any](fn func(T) (T, bool)) Field[T] {
	return Field[T]{kind: fieldFunc, fn: fn}
}

// IsSet reports whether the field carries a replacement.
func (f Field[T]) IsSet() bool {
	return f.kind != fieldUnset
}

func (f Field[T]) validate(name string) error {
	if f.kind == fieldFunc && f.fn == nil {
		return &TransformTypeError{Reason: name + " transform function is nil"}
	}
	return nil
}

// resolve returns the replacement for current and whether one was produced.
func (f Field[T]) resolve(current T) (T, bool) {
	switch f.kind {
	case fieldValue:
		return f.value, true
	case fieldFunc:
		return f.fn(current)
	default:
		var zero T
		return zero, false
	}
}

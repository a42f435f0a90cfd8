package core

import (
	"reflect"

	"github.com/keboola/go-utils/pkg/orderedmap"
)

// FileKey is the reserved metadata key holding the note's source identifier.
const FileKey = "file"

// Metadata is the insertion-ordered frontmatter of a note.
// Values are string, int, float64, bool, nil, nested Metadata or []any.
type Metadata = *orderedmap.OrderedMap

// NewMetadata returns an empty Metadata.
func NewMetadata() Metadata {
	return orderedmap.New()
}

type metadataKind uint8

const (
	metadataUnset metadataKind = iota
	metadataReplace
	metadataMerge
)

// MetadataField pairs a metadata key with the Field applied to its value.
type MetadataField struct {
	Key   string
	Field Field[any]
}

// Key builds a MetadataField.
func Key(name string, f Field[any]) MetadataField {
	return MetadataField{Key: name, Field: f}
}

// MetadataTransform describes how the metadata of a note is reshaped: either
// replaced wholesale by a function, or merged key by key.
// The zero MetadataTransform leaves the metadata untouched.
type MetadataTransform struct {
	kind   metadataKind
	fn     func(Metadata) Metadata
	fields []MetadataField
}

// ReplaceMetadata replaces the whole metadata with fn(current).
// Keys omitted by fn are dropped, including "file". A nil result keeps the
// current metadata.
func ReplaceMetadata(fn func(Metadata) Metadata) MetadataTransform {
	return MetadataTransform{kind: metadataReplace, fn: fn}
}

// MergeMetadata resolves each field against the current value at its key and
// writes the result back. Keys that are not named are left untouched.
func MergeMetadata(fields ...MetadataField) MetadataTransform {
	return MetadataTransform{kind: metadataMerge, fields: fields}
}

// IsSet reports whether the transform changes anything.
func (t MetadataTransform) IsSet() bool {
	return t.kind != metadataUnset
}

func (t MetadataTransform) validate() error {
	switch t.kind {
	case metadataReplace:
		if t.fn == nil {
			return &TransformTypeError{Reason: "metadata transform function is nil"}
		}
	case metadataMerge:
		for _, f := range t.fields {
			if err := f.Field.validate("metadata." + f.Key); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolve computes the next metadata without touching current.
func (t MetadataTransform) resolve(current Metadata) (Metadata, bool) {
	switch t.kind {
	case metadataReplace:
		next := t.fn(CloneMetadata(current))
		if next == nil {
			return nil, false
		}
		return next, true
	case metadataMerge:
		next := CloneMetadata(current)
		if next == nil {
			next = NewMetadata()
		}
		changed := false
		for _, f := range t.fields {
			cur, _ := next.Get(f.Key)
			if v, ok := f.Field.resolve(cur); ok {
				next.Set(f.Key, v)
				changed = true
			}
		}
		return next, changed
	default:
		return nil, false
	}
}

// CloneMetadata returns a deep copy of m. Shared and cyclic references are
// preserved in the copy.
func CloneMetadata(m Metadata) Metadata {
	if m == nil {
		return nil
	}
	c := &cloner{seen: make(map[any]any)}
	return c.clone(m).(Metadata)
}

// CloneValue returns a deep copy of a single metadata value.
func CloneValue(v any) any {
	c := &cloner{seen: make(map[any]any)}
	return c.clone(v)
}

type sliceID struct {
	ptr uintptr
	len int
}

type cloner struct {
	seen map[any]any
}

func (c *cloner) clone(v any) any {
	switch val := v.(type) {
	case *orderedmap.OrderedMap:
		if val == nil {
			return val
		}
		if done, ok := c.seen[val]; ok {
			return done
		}
		out := orderedmap.New()
		c.seen[val] = out
		for _, k := range val.Keys() {
			item, _ := val.Get(k)
			out.Set(k, c.clone(item))
		}
		return out
	case map[string]any:
		if val == nil {
			return val
		}
		id := reflect.ValueOf(val).Pointer()
		if done, ok := c.seen[id]; ok {
			return done
		}
		out := make(map[string]any, len(val))
		c.seen[id] = out
		for k, item := range val {
			out[k] = c.clone(item)
		}
		return out
	case []any:
		if val == nil {
			return val
		}
		id := sliceID{ptr: reflect.ValueOf(val).Pointer(), len: len(val)}
		if done, ok := c.seen[id]; ok && len(val) > 0 {
			return done
		}
		out := make([]any, len(val))
		c.seen[id] = out
		for i, item := range val {
			out[i] = c.clone(item)
		}
		return out
	default:
		return v
	}
}

package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/keboola/go-utils/pkg/orderedmap"
)

// MaxSpace is the widest indentation Marshal honours.
const MaxSpace = 10

var errCycle = errors.New("encountered a cycle")

// Marshal encodes a snapshot as a JSON object with the keys "body" and
// "metadata", in that order. Metadata keys keep their insertion order.
// space is the indentation width (clamped to 0..MaxSpace); 0 yields compact
// output.
func Marshal(s Snapshot, space int) ([]byte, error) {
	e := &encoder{active: make(map[any]struct{})}

	e.buf.WriteString(`{"body":`)
	if err := e.encodeString(s.Body); err != nil {
		return nil, &SerializationError{Err: err}
	}
	e.buf.WriteString(`,"metadata":`)
	var md any = s.Metadata
	if s.Metadata == nil {
		md = NewMetadata()
	}
	if err := e.encode(md, "metadata"); err != nil {
		return nil, &SerializationError{Err: err}
	}
	e.buf.WriteByte('}')

	space = min(max(space, 0), MaxSpace)
	if space == 0 {
		return e.buf.Bytes(), nil
	}

	var out bytes.Buffer
	if err := json.Indent(&out, e.buf.Bytes(), "", strings.Repeat(" ", space)); err != nil {
		return nil, &SerializationError{Err: err}
	}
	return out.Bytes(), nil
}

type encoder struct {
	buf    bytes.Buffer
	active map[any]struct{}
}

func (e *encoder) enter(id any, path string) error {
	if _, ok := e.active[id]; ok {
		return fmt.Errorf("%w at %s", errCycle, path)
	}
	e.active[id] = struct{}{}
	return nil
}

func (e *encoder) encode(v any, path string) error {
	switch val := v.(type) {
	case nil:
		e.buf.WriteString("null")
	case string:
		return e.encodeString(val)
	case bool:
		e.buf.WriteString(strconv.FormatBool(val))
	case int:
		e.buf.WriteString(strconv.FormatInt(int64(val), 10))
	case int64:
		e.buf.WriteString(strconv.FormatInt(val, 10))
	case uint64:
		e.buf.WriteString(strconv.FormatUint(val, 10))
	case float64:
		return e.encodeFloat(val, path)
	case float32:
		return e.encodeFloat(float64(val), path)
	case *orderedmap.OrderedMap:
		if val == nil {
			e.buf.WriteString("null")
			return nil
		}
		if err := e.enter(val, path); err != nil {
			return err
		}
		defer delete(e.active, val)
		return e.encodeObject(val.Keys(), func(k string) any {
			item, _ := val.Get(k)
			return item
		}, path)
	case map[string]any:
		if val == nil {
			e.buf.WriteString("null")
			return nil
		}
		id := reflect.ValueOf(val).Pointer()
		if err := e.enter(id, path); err != nil {
			return err
		}
		defer delete(e.active, id)
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return e.encodeObject(keys, func(k string) any { return val[k] }, path)
	case []any:
		if val == nil {
			e.buf.WriteString("null")
			return nil
		}
		id := sliceID{ptr: reflect.ValueOf(val).Pointer(), len: len(val)}
		if len(val) > 0 {
			if err := e.enter(id, path); err != nil {
				return err
			}
			defer delete(e.active, id)
		}
		e.buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				e.buf.WriteByte(',')
			}
			if err := e.encode(item, path+"["+strconv.Itoa(i)+"]"); err != nil {
				return err
			}
		}
		e.buf.WriteByte(']')
	default:
		return e.encodeOther(val, path)
	}
	return nil
}

func (e *encoder) encodeObject(keys []string, get func(string) any, path string) error {
	e.buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		if err := e.encodeString(k); err != nil {
			return err
		}
		e.buf.WriteByte(':')
		if err := e.encode(get(k), path+"."+k); err != nil {
			return err
		}
	}
	e.buf.WriteByte('}')
	return nil
}

func (e *encoder) encodeFloat(f float64, path string) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("unsupported value %v at %s", f, path)
	}
	return e.encodeOther(f, path)
}

func (e *encoder) encodeString(s string) error {
	return e.encodeOther(s, "")
}

// encodeOther falls back to encoding/json without HTML escaping.
func (e *encoder) encodeOther(v any, path string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		if path == "" {
			return err
		}
		return fmt.Errorf("%s: %w", path, err)
	}
	e.buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}

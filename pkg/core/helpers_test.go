package core

import (
	"github.com/google/go-cmp/cmp"
	"github.com/keboola/go-utils/pkg/orderedmap"
)

type entry struct {
	Key   string
	Value any
}

// orderedEntries lets go-cmp compare ordered maps by their key order and values.
var orderedEntries = cmp.Transformer("Entries", func(m *orderedmap.OrderedMap) []entry {
	if m == nil {
		return nil
	}
	out := make([]entry, 0, len(m.Keys()))
	for _, k := range m.Keys() {
		v, _ := m.Get(k)
		out = append(out, entry{Key: k, Value: v})
	}
	return out
})

// md builds metadata from alternating keys and values.
func md(kv ...any) Metadata {
	m := NewMetadata()
	for i := 0; i+1 < len(kv); i += 2 {
		m.Set(kv[i].(string), kv[i+1])
	}
	return m
}

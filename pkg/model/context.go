package model

import (
	"encoding/json"
	"sort"
)

// Context is the ordered map of already-bound, non-secret sibling variables
// at the moment a value is used, serialized with sorted keys so that two
// contexts holding the same pairs always produce the same JSON regardless of
// binding order.
type Context map[string]string

// MarshalJSON emits keys in sorted order for a stable, comparable encoding.
func (c Context) MarshalJSON() ([]byte, error) {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf []byte
	buf = append(buf, '{')
	for i, k := range keys {
		if i > 0 {
			buf = append(buf, ',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(c[k])
		if err != nil {
			return nil, err
		}
		buf = append(buf, kb...)
		buf = append(buf, ':')
		buf = append(buf, vb...)
	}
	buf = append(buf, '}')
	return buf, nil
}

// Encode serializes the context to its canonical JSON string form, used as
// the stored usage-row key.
func (c Context) Encode() string {
	b, err := c.MarshalJSON()
	if err != nil {
		// Context only ever holds strings; marshaling cannot fail.
		return "{}"
	}
	return string(b)
}

// DecodeContext parses a canonical JSON string previously produced by Encode.
// An empty string decodes to an empty Context.
func DecodeContext(s string) (Context, error) {
	if s == "" {
		return Context{}, nil
	}
	var c Context
	if err := json.Unmarshal([]byte(s), &c); err != nil {
		return nil, err
	}
	return c, nil
}

// Overlap returns the fraction of pairs in c that appear identically in
// other: 0 when c is empty, otherwise |matching pairs| / |c|.
func (c Context) Overlap(other Context) float64 {
	if len(c) == 0 {
		return 0
	}
	matches := 0
	for k, v := range c {
		if other[k] == v {
			matches++
		}
	}
	return float64(matches) / float64(len(c))
}

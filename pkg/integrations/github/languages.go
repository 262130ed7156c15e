package github

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// Language is one entry of the languages breakdown.
type Language struct {
	Name  string
	Bytes int64
}

// Languages is the languages breakdown in response order.
//
// It decodes from the API's JSON object while keeping key order, which a Go
// map would lose. A repeated key keeps its first position and takes the
// last value.
type Languages []Language

// UnmarshalJSON decodes a {"name": bytes, ...} object preserving key order.
func (l *Languages) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*l = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("languages: expected object, got %v", tok)
	}

	var out Languages
	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("languages: expected key, got %v", tok)
		}
		var n int64
		if err := dec.Decode(&n); err != nil {
			return fmt.Errorf("languages: byte count for %q: %w", name, err)
		}
		if i, seen := index[name]; seen {
			out[i].Bytes = n
			continue
		}
		index[name] = len(out)
		out = append(out, Language{Name: name, Bytes: n})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	*l = out
	return nil
}

// Ranked returns language names ordered by descending byte count.
// Ties keep response order. The receiver is not modified.
func (l Languages) Ranked() []string {
	sorted := slices.Clone(l)
	slices.SortStableFunc(sorted, func(a, b Language) int {
		switch {
		case a.Bytes > b.Bytes:
			return -1
		case a.Bytes < b.Bytes:
			return 1
		default:
			return 0
		}
	})

	names := make([]string, len(sorted))
	for i, lang := range sorted {
		names[i] = lang.Name
	}
	return names
}

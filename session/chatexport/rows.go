package chatexport

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// Row is one result record from an AI query: an ordered mapping from field
// name to a scalar (string, number, bool or null). The server decides the
// shape; the client only constrains the value kinds and remembers key order.
type Row struct {
	keys []string
	vals map[string]interface{}
}

// Keys returns the row's field names in their wire order.
func (r Row) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

// Get returns the value for a field and whether the field is present.
// The value is one of string, float64, bool or nil.
func (r Row) Get(key string) (interface{}, bool) {
	v, ok := r.vals[key]
	return v, ok
}

func (r Row) Len() int { return len(r.keys) }

func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return errors.Wrap(err, "decoding result row")
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("result row is not an object")
	}

	r.keys = r.keys[:0]
	r.vals = make(map[string]interface{})
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return errors.Wrap(err, "decoding result row key")
		}
		key := keyTok.(string)

		valTok, err := dec.Token()
		if err != nil {
			return errors.Wrap(err, "decoding result row value")
		}
		var val interface{}
		switch v := valTok.(type) {
		case string:
			val = v
		case json.Number:
			f, err := v.Float64()
			if err != nil {
				return errors.Wrapf(err, "decoding number for field %q", key)
			}
			val = f
		case bool:
			val = v
		case nil:
			val = nil
		default:
			// nested objects/arrays are outside the contract
			return errors.Errorf("field %q: unsupported value kind", key)
		}

		if _, seen := r.vals[key]; !seen {
			r.keys = append(r.keys, key)
		}
		r.vals[key] = val
	}
	// consume the closing '}'
	if _, err = dec.Token(); err != nil {
		return errors.Wrap(err, "decoding result row")
	}
	return nil
}

func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.vals[key])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Columns is the display column set for a result set: the union of all row
// keys, ordered by first appearance.
func Columns(rows []Row) []string {
	var cols []string
	seen := make(map[string]bool)
	for _, row := range rows {
		for _, key := range row.keys {
			if !seen[key] {
				seen[key] = true
				cols = append(cols, key)
			}
		}
	}
	return cols
}

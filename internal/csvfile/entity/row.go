package entity

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// OverflowKey holds the cells of a record that has more cells than headers.
const OverflowKey = "_extra"

var errRowNotObject = errors.New("row data must be a JSON object")

// Field is one named cell. A nil Value means the record had no cell for it.
type Field struct {
	Name  string
	Value *string
}

// Row is one data record keyed by header name, in header order.
type Row struct {
	Fields []Field
	Extra  []string
}

// NewRow pairs headers with the cells of one record.
//
// Headers without a cell get a nil value, surplus cells go to Extra and a
// repeated header keeps its first position with the value of its last column.
func NewRow(headers, record []string) Row {
	row := Row{Fields: make([]Field, 0, len(headers))}
	for i, name := range headers {
		var value *string
		if i < len(record) {
			cell := record[i]
			value = &cell
		}
		row.Set(name, value)
	}

	if len(record) > len(headers) {
		row.Extra = append([]string(nil), record[len(headers):]...)
	}

	return row
}

// Set replaces the value of name in place, or appends it.
func (r *Row) Set(name string, value *string) {
	for i := range r.Fields {
		if r.Fields[i].Name == name {
			r.Fields[i].Value = value
			return
		}
	}
	r.Fields = append(r.Fields, Field{Name: name, Value: value})
}

func (r Row) Get(name string) (*string, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Cells lays the row back out in headers order, followed by any overflow
// cells. Missing values become empty strings.
func (r Row) Cells(headers []string) []string {
	out := make([]string, 0, len(headers)+len(r.Extra))
	for _, name := range headers {
		value, _ := r.Get(name)
		if value == nil {
			out = append(out, "")
			continue
		}
		out = append(out, *value)
	}
	return append(out, r.Extra...)
}

func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, f := range r.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		if f.Value == nil {
			buf.WriteString("null")
			continue
		}

		value, err := json.Marshal(*f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}

	if len(r.Extra) > 0 {
		if len(r.Fields) > 0 {
			buf.WriteByte(',')
		}

		extra, err := json.Marshal(r.Extra)
		if err != nil {
			return nil, err
		}
		buf.WriteString(`"` + OverflowKey + `":`)
		buf.Write(extra)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON keeps the key order of the encoded object. An array under
// OverflowKey is read back as Extra; any other value must be a string or null.
func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errRowNotObject
	}

	out := Row{Fields: []Field{}}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return errRowNotObject
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		raw = bytes.TrimSpace(raw)

		switch {
		case name == OverflowKey && len(raw) > 0 && raw[0] == '[':
			if err := json.Unmarshal(raw, &out.Extra); err != nil {
				return fmt.Errorf("row overflow: %w", err)
			}
		case bytes.Equal(raw, []byte("null")):
			out.Set(name, nil)
		default:
			var value string
			if err := json.Unmarshal(raw, &value); err != nil {
				return fmt.Errorf("row field %q: %w", name, err)
			}
			out.Set(name, &value)
		}
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*r = out
	return nil
}

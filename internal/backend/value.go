package backend

import (
	"fmt"

	"github.com/desertthunder/lipl/internal/shared"
)

// Kind discriminates the five scalar variants a statement parameter or row
// column can hold.
type Kind int

const (
	KindNull Kind = iota
	KindInteger
	KindReal
	KindText
	KindBlob
)

// Value is a database scalar. Parameters are bound and columns are read
// exactly as their variant, with no implicit numeric widening.
type Value struct {
	kind    Kind
	integer int64
	real    float64
	text    string
	blob    []byte
}

// Null returns the NULL scalar.
func Null() Value { return Value{kind: KindNull} }

// Integer wraps a 64-bit integer scalar.
func Integer(i int64) Value { return Value{kind: KindInteger, integer: i} }

// Real wraps a 64-bit float scalar.
func Real(f float64) Value { return Value{kind: KindReal, real: f} }

// Text wraps a text scalar.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Blob wraps a byte-slice scalar.
func Blob(b []byte) Value { return Value{kind: KindBlob, blob: b} }

// Kind returns the variant this value holds.
func (v Value) Kind() Kind { return v.kind }

// Int returns the integer variant's payload.
func (v Value) Int() (int64, bool) { return v.integer, v.kind == KindInteger }

// Float returns the real variant's payload.
func (v Value) Float() (float64, bool) { return v.real, v.kind == KindReal }

// Text returns the text variant's payload.
func (v Value) Text() (string, bool) { return v.text, v.kind == KindText }

// Blob returns the blob variant's payload.
func (v Value) Blob() ([]byte, bool) { return v.blob, v.kind == KindBlob }

// arg converts the value to the form database/sql binds.
func (v Value) arg() any {
	switch v.kind {
	case KindInteger:
		return v.integer
	case KindReal:
		return v.real
	case KindText:
		return v.text
	case KindBlob:
		return v.blob
	default:
		return nil
	}
}

// fromDriver converts a scanned driver value into its Value variant.
func fromDriver(src any) Value {
	switch t := src.(type) {
	case nil:
		return Null()
	case int64:
		return Integer(t)
	case float64:
		return Real(t)
	case string:
		return Text(t)
	case []byte:
		// Copy: drivers may reuse the buffer between rows.
		b := make([]byte, len(t))
		copy(b, t)
		return Blob(b)
	default:
		return Text(fmt.Sprintf("%v", t))
	}
}

// args converts a parameter list for binding.
func args(params []Value) []any {
	out := make([]any, len(params))
	for i, p := range params {
		out[i] = p.arg()
	}
	return out
}

// Row is a single result row with named-column lookup. Column names keep
// their declaration order.
type Row struct {
	columns []string
	values  []Value
}

// NewRow builds a row from parallel column-name and value slices.
func NewRow(columns []string, values []Value) Row {
	return Row{columns: columns, values: values}
}

// Column looks up a value by column name.
func (r Row) Column(name string) (Value, error) {
	for i, c := range r.columns {
		if c == name && i < len(r.values) {
			return r.values[i], nil
		}
	}
	return Value{}, fmt.Errorf("%w: %s", shared.ErrMissingColumn, name)
}

// Index returns the value at position i.
func (r Row) Index(i int) (Value, bool) {
	if i < 0 || i >= len(r.values) {
		return Value{}, false
	}
	return r.values[i], true
}

package value

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"
)

// errTrailingData is reported when a json value holds more than one document.
var errTrailingData = errors.New("unexpected data after json document")

// Value is a decoded setting value. The concrete type is one of Text,
// Integer, Float, Boolean or JSON.
type Value interface {
	// Type returns the declared type of the value.
	Type() ValueType
	// Any returns the native Go payload.
	Any() any
	// Raw returns the textual storage representation.
	Raw() string

	sealed()
}

// Text holds string, email, url, color, date and datetime values.
type Text struct {
	Kind ValueType
	S    string
}

// Integer holds an integer value.
type Integer int64

// Float holds a decimal value.
type Float float64

// Boolean holds a boolean value.
type Boolean bool

// JSON holds a decoded JSON document.
type JSON struct {
	Doc any
}

// String returns a TypeString text value.
func String(s string) Text { return Text{Kind: TypeString, S: s} }

// Type implements Value.
func (t Text) Type() ValueType {
	if t.Kind == "" {
		return TypeString
	}

	return t.Kind
}

// Any implements Value.
func (t Text) Any() any { return t.S }

// Raw implements Value.
func (t Text) Raw() string { return t.S }

func (Text) sealed() {}

// Type implements Value.
func (Integer) Type() ValueType { return TypeInteger }

// Any implements Value.
func (i Integer) Any() any { return int64(i) }

// Raw implements Value.
func (i Integer) Raw() string { return strconv.FormatInt(int64(i), 10) }

func (Integer) sealed() {}

// Type implements Value.
func (Float) Type() ValueType { return TypeFloat }

// Any implements Value.
func (f Float) Any() any { return float64(f) }

// Raw implements Value.
func (f Float) Raw() string { return strconv.FormatFloat(float64(f), 'f', -1, 64) }

func (Float) sealed() {}

// Type implements Value.
func (Boolean) Type() ValueType { return TypeBoolean }

// Any implements Value.
func (b Boolean) Any() any { return bool(b) }

// Raw implements Value.
func (b Boolean) Raw() string { return strconv.FormatBool(bool(b)) }

func (Boolean) sealed() {}

// Type implements Value.
func (JSON) Type() ValueType { return TypeJSON }

// Any implements Value.
func (j JSON) Any() any { return j.Doc }

// Raw implements Value.
func (j JSON) Raw() string {
	out, err := marshalJSON(j.Doc)
	if err != nil {
		return ""
	}

	return out
}

func (JSON) sealed() {}

// truthy words for boolean coercion.
var trueWords = map[string]struct{}{ //nolint:gochecknoglobals
	"true": {},
	"1":    {},
	"yes":  {},
}

// boolean words accepted at write time.
var boolWords = map[string]struct{}{ //nolint:gochecknoglobals
	"true":  {},
	"false": {},
	"1":     {},
	"0":     {},
	"yes":   {},
	"no":    {},
}

// Decode coerces the storage text raw into a Value of type t.
// Integer, float and json failures return a *TypeMismatchError; booleans
// never fail and anything not in {true, 1, yes} reads as false.
func Decode(t ValueType, raw string) (Value, error) {
	switch t.Normalize() {
	case TypeInteger:
		i, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, &TypeMismatchError{Type: TypeInteger, Raw: raw, Err: err}
		}

		return Integer(i), nil
	case TypeFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, &TypeMismatchError{Type: TypeFloat, Raw: raw, Err: err}
		}

		return Float(f), nil
	case TypeBoolean:
		_, ok := trueWords[strings.ToLower(strings.TrimSpace(raw))]
		return Boolean(ok), nil
	case TypeJSON:
		doc, err := decodeJSON(raw)
		if err != nil {
			return nil, &TypeMismatchError{Type: TypeJSON, Raw: raw, Err: err}
		}

		return JSON{Doc: doc}, nil
	default:
		return Text{Kind: t.Normalize(), S: raw}, nil
	}
}

// decodeJSON reads exactly one document. Numbers stay json.Number so
// integers beyond float64 precision survive a re-encode.
func decodeJSON(raw string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err //nolint:wrapcheck
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errTrailingData
	}

	return doc, nil
}

// Equal reports whether a and b hold the same type and storage text.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return a.Type() == b.Type() && a.Raw() == b.Raw()
}

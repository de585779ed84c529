// Package value implements the typed values stored in application settings.
//
// A setting is persisted as text plus a ValueType tag. Decode turns that text
// into a Value, Encode turns a Go value back into its storage text and
// Validate checks text before it is written.
package value

import "strings"

// ValueType is the declared type of a setting value.
type ValueType string

const (
	// TypeString is free text.
	TypeString ValueType = "string"
	// TypeInteger is a base 10 integer.
	TypeInteger ValueType = "integer"
	// TypeFloat is a decimal number.
	TypeFloat ValueType = "float"
	// TypeBoolean is a boolean flag.
	TypeBoolean ValueType = "boolean"
	// TypeJSON is a JSON document.
	TypeJSON ValueType = "json"
	// TypeEmail is an email address.
	TypeEmail ValueType = "email"
	// TypeURL is an absolute URL.
	TypeURL ValueType = "url"
	// TypeColor is a css color (#rrggbb, rgb(), hsl(), ...).
	TypeColor ValueType = "color"
	// TypeDate is a calendar date (YYYY-MM-DD).
	TypeDate ValueType = "date"
	// TypeDateTime is a timestamp.
	TypeDateTime ValueType = "datetime"
)

// Types lists every supported value type.
var Types = []ValueType{ //nolint:gochecknoglobals
	TypeString,
	TypeInteger,
	TypeFloat,
	TypeBoolean,
	TypeJSON,
	TypeEmail,
	TypeURL,
	TypeColor,
	TypeDate,
	TypeDateTime,
}

// legacy names written by older deployments.
var aliases = map[string]ValueType{ //nolint:gochecknoglobals
	"int":  TypeInteger,
	"bool": TypeBoolean,
}

// ParseValueType returns the ValueType for name.
// An empty name is treated as TypeString.
func ParseValueType(name string) (ValueType, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return TypeString, nil
	}

	if t, ok := aliases[n]; ok {
		return t, nil
	}

	for _, t := range Types {
		if string(t) == n {
			return t, nil
		}
	}

	return "", &ValidationError{Type: ValueType(name), Reason: "unknown value type"}
}

// Valid reports whether t is one of the supported types.
func (t ValueType) Valid() bool {
	_, err := ParseValueType(string(t))
	return err == nil && t != ""
}

// Normalize maps legacy aliases to their canonical type.
func (t ValueType) Normalize() ValueType {
	if n, err := ParseValueType(string(t)); err == nil {
		return n
	}

	return t
}

// IsText reports whether values of t are returned verbatim as strings.
func (t ValueType) IsText() bool {
	switch t.Normalize() {
	case TypeInteger, TypeFloat, TypeBoolean, TypeJSON:
		return false
	default:
		return true
	}
}

package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the storage layout of TypeDate values.
const DateLayout = "2006-01-02"

// Encode serializes v into the storage text of a setting of type t.
// Booleans are stored as "true"/"false", json values through the JSON encoder
// and everything else in its plain string form. A nil v encodes to the empty
// string, which makes readers fall back to the default value.
func Encode(t ValueType, v any) (string, error) {
	t = t.Normalize()
	if v == nil {
		return "", nil
	}

	if val, ok := v.(Value); ok {
		if val.Type() == t || (t.IsText() && val.Type().IsText()) {
			return val.Raw(), nil
		}

		v = val.Any()
	}

	switch t {
	case TypeBoolean:
		return encodeBool(v)
	case TypeJSON:
		out, err := marshalJSON(v)
		if err != nil {
			return "", &ValidationError{Type: t, Reason: err.Error()}
		}

		return out, nil
	case TypeDate:
		if tm, ok := v.(time.Time); ok {
			return tm.Format(DateLayout), nil
		}
	case TypeDateTime:
		if tm, ok := v.(time.Time); ok {
			return tm.Format(time.RFC3339), nil
		}
	}

	return stringify(v), nil
}

func encodeBool(v any) (string, error) {
	var b bool

	switch x := v.(type) {
	case bool:
		b = x
	case string:
		w := strings.ToLower(strings.TrimSpace(x))
		if _, ok := boolWords[w]; !ok {
			return "", &ValidationError{Type: TypeBoolean, Reason: fmt.Sprintf("%q is not a boolean", x)}
		}

		_, b = trueWords[w]
	case int:
		b = x != 0
	case int64:
		b = x != 0
	default:
		return "", &ValidationError{Type: TypeBoolean, Reason: fmt.Sprintf("unsupported %T", v)}
	}

	return strconv.FormatBool(b), nil
}

func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(v)
	}
}

// marshalJSON encodes without html escaping so stored documents stay readable.
func marshalJSON(v any) (string, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(v); err != nil {
		return "", err //nolint:wrapcheck
	}

	return strings.TrimRight(buf.String(), "\n"), nil
}

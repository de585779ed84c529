package value

import (
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	formatValidator     *validator.Validate //nolint:gochecknoglobals
	formatValidatorOnce sync.Once           //nolint:gochecknoglobals
)

// format tags checked by go-playground/validator.
var formatTags = map[ValueType]string{ //nolint:gochecknoglobals
	TypeEmail: "email",
	TypeURL:   "url",
	TypeColor: "iscolor",
}

// DateTimeLayouts are the layouts accepted for TypeDateTime values.
var DateTimeLayouts = []string{ //nolint:gochecknoglobals
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

func getFormatValidator() *validator.Validate {
	formatValidatorOnce.Do(func() {
		formatValidator = validator.New()
	})

	return formatValidator
}

// Validate checks raw before it is persisted as a value of type t.
// Empty text is always accepted: readers fall back to the default value.
// When rule is set, raw must match the whole regular expression.
func Validate(t ValueType, raw, rule string) error {
	if raw == "" {
		return nil
	}

	if err := ValidateType(t, raw); err != nil {
		return err
	}

	if rule == "" {
		return nil
	}

	re, err := regexp.Compile(`^(?:` + rule + `)$`)
	if err != nil {
		return &ValidationError{Type: t, Reason: "invalid validation rule: " + err.Error()}
	}

	if !re.MatchString(raw) {
		return &ValidationError{Type: t, Rule: rule}
	}

	return nil
}

// ValidateType checks raw against the parse rule and format of type t.
func ValidateType(t ValueType, raw string) error {
	n, err := ParseValueType(string(t))
	if err != nil {
		return err //nolint:wrapcheck
	}

	switch n {
	case TypeInteger, TypeFloat, TypeJSON:
		if _, err := Decode(n, raw); err != nil {
			return &ValidationError{Type: n, Reason: err.Error()}
		}
	case TypeBoolean:
		if _, ok := boolWords[strings.ToLower(strings.TrimSpace(raw))]; !ok {
			return &ValidationError{Type: n, Reason: "expected one of true, false, 1, 0, yes, no"}
		}
	case TypeEmail, TypeURL, TypeColor:
		if err := getFormatValidator().Var(raw, formatTags[n]); err != nil {
			return &ValidationError{Type: n, Reason: "malformed " + string(n)}
		}
	case TypeDate:
		if _, err := time.Parse(DateLayout, raw); err != nil {
			return &ValidationError{Type: n, Reason: "expected " + DateLayout}
		}
	case TypeDateTime:
		if !parsesAsDateTime(raw) {
			return &ValidationError{Type: n, Reason: "expected an RFC 3339 timestamp"}
		}
	}

	return nil
}

func parsesAsDateTime(raw string) bool {
	for _, layout := range DateTimeLayouts {
		if _, err := time.Parse(layout, raw); err == nil {
			return true
		}
	}

	return false
}

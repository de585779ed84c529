package settings

import (
	"encoding/json"
	"errors"

	"github.com/OpticaApp/OpticaApp/internal/cache"
	"github.com/OpticaApp/OpticaApp/internal/settings/value"
)

// entry is what the resolver stores in the cache.
//
// An inherit entry is stored under a tenant identity when the tenant has no
// setting of its own and the global setting resolved. It sends readers on to
// the global entry, so a write to the global setting is visible to every
// inheriting tenant as soon as the global entry is evicted.
type entry struct {
	Value   value.Value
	Inherit bool
}

// wireEntry is the serialized form of entry.
type wireEntry struct {
	Type    value.ValueType `json:"t,omitempty"`
	Raw     string          `json:"v,omitempty"`
	Inherit bool            `json:"i,omitempty"`
}

// ErrNotAnEntry is returned by Codec.Marshal for foreign values.
var ErrNotAnEntry = errors.New("value is not a settings cache entry")

// Codec encodes resolver cache entries for the redis and storage backends.
type Codec struct{}

var _ cache.Codec = Codec{}

// Marshal implements cache.Codec.
func (Codec) Marshal(v any) ([]byte, error) {
	e, ok := v.(entry)
	if !ok {
		return nil, ErrNotAnEntry
	}

	w := wireEntry{Inherit: e.Inherit}
	if !e.Inherit && e.Value != nil {
		w.Type = e.Value.Type()
		w.Raw = e.Value.Raw()
	}

	return json.Marshal(w) //nolint:wrapcheck
}

// Unmarshal implements cache.Codec.
func (Codec) Unmarshal(data []byte) (any, error) {
	var w wireEntry
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err //nolint:wrapcheck
	}

	if w.Inherit {
		return entry{Inherit: true}, nil
	}

	v, err := value.Decode(w.Type, w.Raw)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	return entry{Value: v}, nil
}

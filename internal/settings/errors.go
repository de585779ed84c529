package settings

import (
	"errors"

	"github.com/OpticaApp/OpticaApp/internal/db/controller/setting"
)

var (
	// ErrKeyEmpty is returned for lookups and writes without a key.
	ErrKeyEmpty = setting.ErrSettingKeyEmpty

	// ErrDuplicateKey is returned when a concurrent insert won the race for
	// the same key and tenant. Retrying the write updates that row.
	ErrDuplicateKey = setting.ErrDuplicateKey

	// ErrUnexpectedType is wrapped by typed getters when a setting is declared
	// with a different type than the one requested.
	ErrUnexpectedType = errors.New("setting is declared with a different type")
)

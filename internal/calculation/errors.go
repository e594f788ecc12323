package calculation

import (
	"errors"
	"fmt"
)

// ErrItemNotFound is returned when a schedule is requested for an unknown record id
var ErrItemNotFound = errors.New("item not found")

// ConfigError reports a lookup the tax parameters cannot satisfy.
// These are surfaced rather than defaulted: a missing rate would silently
// produce a wrong outcome.
type ConfigError struct {
	Table string
	Key   string
	Msg   string
}

func (e *ConfigError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("tax parameters: %s: %s", e.Table, e.Msg)
	}
	return fmt.Sprintf("tax parameters: %s[%q]: %s", e.Table, e.Key, e.Msg)
}

func configError(table, key, msg string) error {
	return &ConfigError{Table: table, Key: key, Msg: msg}
}

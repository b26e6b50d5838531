package config

import (
	"fmt"
	"strconv"
)

// Key identifies a recognized runtime configuration setting.
type Key string

const (
	MaxRetries                Key = "max_retries"
	BackoffBase                Key = "backoff_base"
	PollIntervalMs             Key = "poll_interval_ms"
	DBPath                     Key = "db_path"
	StaleWorkerTimeoutSeconds Key = "stale_worker_timeout_seconds"
)

// Default values, as strings, matching the typed storage representation of
// every ConfigEntry.
var defaults = map[Key]string{
	MaxRetries:                "3",
	BackoffBase:                "2",
	PollIntervalMs:             "500",
	DBPath:                     ".data/queuectl.db",
	StaleWorkerTimeoutSeconds: "30",
}

// order fixes a stable display order for `config list`.
var order = []Key{
	MaxRetries,
	BackoffBase,
	PollIntervalMs,
	DBPath,
	StaleWorkerTimeoutSeconds,
}

// Keys returns every recognized key in a stable order.
func Keys() []Key {
	ret := make([]Key, len(order))
	copy(ret, order)
	return ret
}

// Known reports whether k is a recognized configuration key.
func Known(k Key) bool {
	_, ok := defaults[k]
	return ok
}

// Default returns the default string value for k.
func Default(k Key) string {
	return defaults[k]
}

// ValidateValue checks that value parses according to k's schema, without
// returning the parsed value. It is used by `config set` to reject bad
// input before writing.
func ValidateValue(k Key, value string) error {
	switch k {
	case MaxRetries, PollIntervalMs, StaleWorkerTimeoutSeconds:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("config: %s must be an integer: %w", k, err)
		}
		if n < 0 {
			return fmt.Errorf("config: %s must be non-negative, got %d", k, n)
		}
	case BackoffBase:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("config: %s must be an integer: %w", k, err)
		}
		if n < 1 {
			return fmt.Errorf("config: %s must be >= 1, got %d", k, n)
		}
	case DBPath:
		if value == "" {
			return fmt.Errorf("config: %s must not be empty", k)
		}
	default:
		return fmt.Errorf("config: unknown key %q", k)
	}
	return nil
}

// Int parses value as a base-10 integer. It does not consult the schema;
// callers must only use it for values of integer-typed keys.
func Int(value string) (int, error) {
	return strconv.Atoi(value)
}

// Package config declares the schema of recognized runtime configuration
// keys: their defaults and parse rules. The schema is storage-agnostic; the
// store package persists ConfigEntry rows as strings and consults this
// schema to reject unknown keys and invalid values; callers parse values
// at read time with Int.
package config

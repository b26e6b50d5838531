package store

import (
	"context"

	queuectl "github.com/queuectl/queuectl"
	"github.com/queuectl/queuectl/config"
)

// GetConfig returns key's current value, falling back to its schema
// default if never explicitly set. See queuectl.Store.
func (s *SQLStore) GetConfig(ctx context.Context, key config.Key) (string, error) {
	if !config.Known(key) {
		return "", queuectl.NewValidationError("unknown config key %q", key)
	}
	var m configModel
	err := s.db.NewSelect().Model(&m).Where("key = ?", string(key)).Scan(ctx)
	if isNoRows(err) {
		return config.Default(key), nil
	}
	if err != nil {
		return "", &queuectl.StoreError{Op: "get_config", Err: err}
	}
	return m.Value, nil
}

// SetConfig validates and persists value for key. See queuectl.Store.
func (s *SQLStore) SetConfig(ctx context.Context, key config.Key, value string) error {
	if !config.Known(key) {
		return queuectl.NewValidationError("unknown config key %q", key)
	}
	if err := config.ValidateValue(key, value); err != nil {
		return &queuectl.ValidationError{Message: err.Error()}
	}
	model := &configModel{Key: string(key), Value: value}
	_, err := s.db.NewInsert().
		Model(model).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Exec(ctx)
	if err != nil {
		return &queuectl.StoreError{Op: "set_config", Err: err}
	}
	return nil
}

// ListConfig returns every recognized key's effective value. See
// queuectl.Store.
func (s *SQLStore) ListConfig(ctx context.Context) (map[config.Key]string, error) {
	var models []*configModel
	if err := s.db.NewSelect().Model(&models).Scan(ctx); err != nil {
		return nil, &queuectl.StoreError{Op: "list_config", Err: err}
	}
	overrides := make(map[string]string, len(models))
	for _, m := range models {
		overrides[m.Key] = m.Value
	}
	ret := make(map[config.Key]string, len(config.Keys()))
	for _, k := range config.Keys() {
		if v, ok := overrides[string(k)]; ok {
			ret[k] = v
		} else {
			ret[k] = config.Default(k)
		}
	}
	return ret, nil
}

package prefstore

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/ByLCY/textfit/layout"
)

var storageKeys = map[layout.TextRole]string{
	layout.RoleTitle:       "hqcc.titleFittingPrefs",
	layout.RoleStatHeading: "hqcc.statHeadingFittingPrefs",
}

// StorageKey returns the KV key used for a role.
func StorageKey(role layout.TextRole) string {
	if key, ok := storageKeys[role]; ok {
		return key
	}
	return "hqcc." + role.String() + "FittingPrefs"
}

// Store reads and writes role preferences. Read failures yield the role defaults and
// write failures are logged and dropped, so callers never handle errors.
type Store struct {
	kv     KV
	logger *slog.Logger
}

// NewStore wraps kv. A nil logger uses layout.Logger().
func NewStore(kv KV, logger *slog.Logger) *Store {
	return &Store{kv: kv, logger: logger}
}

func (s *Store) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return layout.Logger()
}

// Defaults returns the role defaults.
func (s *Store) Defaults(role layout.TextRole) layout.Preferences {
	return layout.DefaultPreferences(role)
}

// Get loads the stored preferences for role merged over its defaults.
func (s *Store) Get(ctx context.Context, role layout.TextRole) layout.Preferences {
	defaults := layout.DefaultPreferences(role)
	if s == nil || s.kv == nil {
		return defaults
	}
	data, ok, err := s.kv.Get(ctx, StorageKey(role))
	if err != nil {
		s.log().Warn("load text fitting preferences failed", "role", role.String(), "error", err)
		return defaults
	}
	if !ok || len(data) == 0 {
		return defaults
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		s.log().Warn("stored text fitting preferences are corrupt", "role", role.String(), "error", err)
		return defaults
	}
	return defaults.Overlay(layout.SanitizeMap(role, raw))
}

// Set persists prefs for role after sanitizing them. Errors are logged, not returned.
func (s *Store) Set(ctx context.Context, role layout.TextRole, prefs layout.Preferences) {
	if s == nil || s.kv == nil {
		return
	}
	data, err := json.Marshal(prefs.Sanitize(role))
	if err != nil {
		s.log().Warn("encode text fitting preferences failed", "role", role.String(), "error", err)
		return
	}
	if err := s.kv.Set(ctx, StorageKey(role), data); err != nil {
		s.log().Warn("store text fitting preferences failed", "role", role.String(), "error", err)
	}
}

// Reset removes the stored preferences so Get returns the defaults again.
func (s *Store) Reset(ctx context.Context, role layout.TextRole) {
	if s == nil || s.kv == nil {
		return
	}
	if err := s.kv.Delete(ctx, StorageKey(role)); err != nil {
		s.log().Warn("reset text fitting preferences failed", "role", role.String(), "error", err)
	}
}

// Merge overlays updates onto base and sanitizes the result for role.
func (s *Store) Merge(role layout.TextRole, base, updates layout.Preferences) layout.Preferences {
	return layout.MergePreferences(role, base, updates)
}

// Update loads, merges and stores in one step, returning the merged value.
func (s *Store) Update(ctx context.Context, role layout.TextRole, updates layout.Preferences) layout.Preferences {
	merged := s.Merge(role, s.Get(ctx, role), updates)
	s.Set(ctx, role, merged)
	return merged
}

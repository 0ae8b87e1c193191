// Package settings manages persistent user settings for the onboard CLI.
package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
)

// DefaultRedisDB is the inventory database used when none is configured.
const DefaultRedisDB = 0

// Settings holds persistent user preferences
type Settings struct {
	// FieldMapDir holds field-map YAML files that override the built-in maps
	FieldMapDir string `json:"fieldmap_dir,omitempty"`

	// SyncVLANs and SyncVRFs are the default sync scope when no flag is given
	SyncVLANs bool `json:"sync_vlans,omitempty"`
	SyncVRFs  bool `json:"sync_vrfs,omitempty"`

	// RedisAddr is the inventory Redis used for serial lookups
	RedisAddr string `json:"redis_addr,omitempty"`
	RedisDB   int    `json:"redis_db,omitempty"`

	// SerialsFile is a JSON host -> serial table used instead of Redis
	SerialsFile string `json:"serials_file,omitempty"`
}

// DefaultSettingsPath returns the default path for the settings file
func DefaultSettingsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "netonboard_settings.json"
	}
	return filepath.Join(home, ".netonboard", "settings.json")
}

// Load reads settings from the default location
func Load() (*Settings, error) {
	return LoadFrom(DefaultSettingsPath())
}

// LoadFrom reads settings from a specific path
func LoadFrom(path string) (*Settings, error) {
	s := &Settings{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty settings if file doesn't exist
			return s, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, s); err != nil {
		return nil, err
	}

	return s, nil
}

// Save writes settings to the default location
func (s *Settings) Save() error {
	return s.SaveTo(DefaultSettingsPath())
}

// SaveTo writes settings to a specific path
func (s *Settings) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Keys lists the setting names accepted by Get and Set.
var Keys = []string{"fieldmap_dir", "sync_vlans", "sync_vrfs", "redis_addr", "redis_db", "serials_file"}

// Get returns a setting by its JSON name.
func (s *Settings) Get(key string) (string, bool) {
	switch key {
	case "fieldmap_dir":
		return s.FieldMapDir, true
	case "sync_vlans":
		return strconv.FormatBool(s.SyncVLANs), true
	case "sync_vrfs":
		return strconv.FormatBool(s.SyncVRFs), true
	case "redis_addr":
		return s.RedisAddr, true
	case "redis_db":
		return strconv.Itoa(s.RedisDB), true
	case "serials_file":
		return s.SerialsFile, true
	}
	return "", false
}

// Set assigns a setting by its JSON name. It reports false for unknown keys
// or values that do not parse.
func (s *Settings) Set(key, value string) bool {
	switch key {
	case "fieldmap_dir":
		s.FieldMapDir = value
	case "sync_vlans":
		return parseBool(value, &s.SyncVLANs)
	case "sync_vrfs":
		return parseBool(value, &s.SyncVRFs)
	case "redis_addr":
		s.RedisAddr = value
	case "redis_db":
		db, err := strconv.Atoi(value)
		if err != nil || db < 0 {
			return false
		}
		s.RedisDB = db
	case "serials_file":
		s.SerialsFile = value
	default:
		return false
	}
	return true
}

func parseBool(value string, dst *bool) bool {
	switch value {
	case "true", "yes", "on", "1":
		*dst = true
	case "false", "no", "off", "0":
		*dst = false
	default:
		return false
	}
	return true
}

// Clear resets all settings to defaults
func (s *Settings) Clear() {
	*s = Settings{}
}

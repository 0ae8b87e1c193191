package settings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSettings_Defaults(t *testing.T) {
	s := &Settings{}

	if s.FieldMapDir != "" {
		t.Errorf("FieldMapDir should be empty, got %q", s.FieldMapDir)
	}
	if s.SyncVLANs || s.SyncVRFs {
		t.Error("sync scope should default to off")
	}
	if s.RedisDB != DefaultRedisDB {
		t.Errorf("RedisDB = %d, want %d", s.RedisDB, DefaultRedisDB)
	}
}

func TestSettings_Set(t *testing.T) {
	tests := []struct {
		key, value string
		ok         bool
		check      func(*Settings) bool
	}{
		{"fieldmap_dir", "/etc/netonboard/fieldmaps", true, func(s *Settings) bool { return s.FieldMapDir == "/etc/netonboard/fieldmaps" }},
		{"sync_vlans", "true", true, func(s *Settings) bool { return s.SyncVLANs }},
		{"sync_vrfs", "yes", true, func(s *Settings) bool { return s.SyncVRFs }},
		{"sync_vrfs", "maybe", false, func(s *Settings) bool { return !s.SyncVRFs }},
		{"redis_addr", "10.0.0.5:6379", true, func(s *Settings) bool { return s.RedisAddr == "10.0.0.5:6379" }},
		{"redis_db", "4", true, func(s *Settings) bool { return s.RedisDB == 4 }},
		{"redis_db", "-1", false, func(s *Settings) bool { return s.RedisDB == 0 }},
		{"serials_file", "serials.json", true, func(s *Settings) bool { return s.SerialsFile == "serials.json" }},
		{"unknown", "x", false, func(s *Settings) bool { return true }},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			s := &Settings{}
			if got := s.Set(tt.key, tt.value); got != tt.ok {
				t.Errorf("Set(%q, %q) = %v, want %v", tt.key, tt.value, got, tt.ok)
			}
			if !tt.check(s) {
				t.Errorf("unexpected settings after Set: %+v", s)
			}
		})
	}
}

func TestSettings_GetRoundTrip(t *testing.T) {
	s := &Settings{}
	values := map[string]string{
		"fieldmap_dir": "/srv/maps",
		"sync_vlans":   "true",
		"sync_vrfs":    "false",
		"redis_addr":   "127.0.0.1:6379",
		"redis_db":     "3",
		"serials_file": "/srv/serials.json",
	}
	for _, key := range Keys {
		if !s.Set(key, values[key]) {
			t.Fatalf("Set(%q) rejected %q", key, values[key])
		}
	}
	for _, key := range Keys {
		got, ok := s.Get(key)
		if !ok || got != values[key] {
			t.Errorf("Get(%q) = %q, %v; want %q", key, got, ok, values[key])
		}
	}
	if _, ok := s.Get("nope"); ok {
		t.Error("Get should reject unknown keys")
	}
}

func TestSettings_Clear(t *testing.T) {
	s := &Settings{
		FieldMapDir: "/path",
		SyncVLANs:   true,
		RedisAddr:   "localhost:6379",
		RedisDB:     2,
	}

	s.Clear()

	if *s != (Settings{}) {
		t.Errorf("Clear() should reset all fields, got %+v", s)
	}
}

func TestSettings_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")

	original := &Settings{
		FieldMapDir: "/etc/netonboard/fieldmaps",
		SyncVLANs:   true,
		SyncVRFs:    true,
		RedisAddr:   "10.0.0.5:6379",
		RedisDB:     3,
		SerialsFile: "/tmp/serials.json",
	}

	if err := original.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() failed: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() failed: %v", err)
	}
	if *loaded != *original {
		t.Errorf("loaded %+v, want %+v", loaded, original)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"fieldmap_dir": "/etc/netonboard/fieldmaps"`) {
		t.Errorf("settings file not indented JSON:\n%s", data)
	}
}

func TestSettings_LoadMissing(t *testing.T) {
	s, err := LoadFrom(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("LoadFrom() on missing file: %v", err)
	}
	if *s != (Settings{}) {
		t.Errorf("expected empty settings, got %+v", s)
	}
}

func TestSettings_LoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestDefaultSettingsPath(t *testing.T) {
	path := DefaultSettingsPath()
	if filepath.Base(path) != "settings.json" && path != "netonboard_settings.json" {
		t.Errorf("unexpected settings path %q", path)
	}
}

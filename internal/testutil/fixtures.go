// Package testutil provides fixtures and helpers shared by package tests.
package testutil

import (
	"embed"
	"encoding/json"
	"fmt"
	"testing"
)

//go:embed testdata/*.json
var fixtures embed.FS

// Hosts used by the command-output fixtures. The address matches the
// management interface in each fixture.
const (
	IOSHost  = "192.0.2.10"
	NXOSHost = "192.0.2.20"
)

// Outputs returns a fresh copy of the parsed command outputs recorded for
// platform, keyed by command string.
func Outputs(t testing.TB, platform string) map[string]any {
	t.Helper()
	out, err := LoadOutputs(platform)
	if err != nil {
		t.Fatalf("loading fixture: %v", err)
	}
	return out
}

// LoadOutputs decodes the fixture for platform.
func LoadOutputs(platform string) (map[string]any, error) {
	data, err := fixtures.ReadFile("testdata/" + platform + ".json")
	if err != nil {
		return nil, fmt.Errorf("no fixture for platform %s: %w", platform, err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parsing fixture %s: %w", platform, err)
	}
	return out, nil
}

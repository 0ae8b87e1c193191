package inventory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newtron-network/netonboard/pkg/model"
)

type failingLookup struct{}

func (failingLookup) Serial(context.Context, string, model.Aggregate) (string, error) {
	return "", errors.New("inventory down")
}

func TestStaticLookup(t *testing.T) {
	l := StaticLookup{"10.0.0.1": " FOC123 "}
	ctx := context.Background()

	serial, err := l.Serial(ctx, "10.0.0.1", nil)
	require.NoError(t, err)
	assert.Equal(t, "FOC123", serial)

	serial, err = l.Serial(ctx, "10.0.0.2", nil)
	require.NoError(t, err)
	assert.Empty(t, serial)
}

func TestLoadStatic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "serials.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"10.0.0.1": "FOC123"}`), 0o644))

	l, err := LoadStatic(path)
	require.NoError(t, err)
	assert.Equal(t, StaticLookup{"10.0.0.1": "FOC123"}, l)

	require.NoError(t, os.WriteFile(path, []byte(`[1, 2]`), 0o644))
	_, err = LoadStatic(path)
	assert.Error(t, err)

	_, err = LoadStatic(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestFromAggregate(t *testing.T) {
	tests := []struct {
		name string
		agg  model.Aggregate
		want string
	}{
		{"string", model.Aggregate{"serial": "FOC123"}, "FOC123"},
		{"singleton list", model.Aggregate{"serial": []any{"FOC123"}}, "FOC123"},
		{"degraded", model.Aggregate{"serial": ""}, ""},
		{"several", model.Aggregate{"serial": []any{"A", "B"}}, ""},
		{"absent", model.Aggregate{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromAggregate{}.Serial(context.Background(), "h", tt.agg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChain(t *testing.T) {
	ctx := context.Background()
	agg := model.Aggregate{"serial": "FROM-DEVICE"}

	c := Chain{StaticLookup{"a": "STATIC"}, FromAggregate{}}
	serial, err := c.Serial(ctx, "a", agg)
	require.NoError(t, err)
	assert.Equal(t, "STATIC", serial)

	serial, err = c.Serial(ctx, "b", agg)
	require.NoError(t, err)
	assert.Equal(t, "FROM-DEVICE", serial)

	_, err = Chain{StaticLookup{}, failingLookup{}, FromAggregate{}}.Serial(ctx, "b", agg)
	assert.EqualError(t, err, "inventory down")

	serial, err = Chain{}.Serial(ctx, "b", agg)
	require.NoError(t, err)
	assert.Empty(t, serial)
}

func TestDeviceKey(t *testing.T) {
	assert.Equal(t, "DEVICE|10.0.0.1", deviceKey("10.0.0.1"))
}

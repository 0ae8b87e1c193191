//go:build integration

package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newtron-network/netonboard/internal/testutil"
)

func TestRedisLookup(t *testing.T) {
	testutil.SkipIfNoRedis(t)
	addr := testutil.RedisAddr()
	testutil.FlushDB(t, addr, 0)
	testutil.SeedSerials(t, addr, 0, map[string]string{"10.0.0.1": "FOC123"})

	ctx := testutil.Context(t)
	l := NewRedisLookup(addr, 0)
	require.NoError(t, l.Connect(ctx))
	t.Cleanup(func() { l.Close() })

	serial, err := l.Serial(ctx, "10.0.0.1", nil)
	require.NoError(t, err)
	assert.Equal(t, "FOC123", serial)

	serial, err = l.Serial(ctx, "10.0.0.2", nil)
	require.NoError(t, err)
	assert.Empty(t, serial)

	require.NoError(t, l.SetSerial(ctx, "10.0.0.2", "FDO456"))
	all, err := l.Serials(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"10.0.0.1": "FOC123", "10.0.0.2": "FDO456"}, all)
}

func TestRedisLookupUnreachable(t *testing.T) {
	l := NewRedisLookup("127.0.0.1:1", 0)
	defer l.Close()
	assert.Error(t, l.Connect(testutil.Context(t)))
}

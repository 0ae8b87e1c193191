package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-redis/redis/v8"

	"github.com/newtron-network/netonboard/pkg/model"
)

// Inventory table layout: one hash per device at DEVICE|<host>.
const (
	DeviceTable = "DEVICE"
	SerialField = "serial"
)

// RedisLookup reads device serials from a Redis-backed inventory.
type RedisLookup struct {
	client *redis.Client
}

// NewRedisLookup creates a lookup against the given Redis address and DB.
func NewRedisLookup(addr string, db int) *RedisLookup {
	return &RedisLookup{
		client: redis.NewClient(&redis.Options{
			Addr: addr,
			DB:   db,
		}),
	}
}

// Connect tests the connection.
func (r *RedisLookup) Connect(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("connecting to inventory: %w", err)
	}
	return nil
}

// Close closes the connection.
func (r *RedisLookup) Close() error {
	return r.client.Close()
}

func deviceKey(host string) string {
	return DeviceTable + "|" + host
}

// Serial reads the serial field of the host's DEVICE entry. A missing entry
// or field yields "".
func (r *RedisLookup) Serial(ctx context.Context, host string, _ model.Aggregate) (string, error) {
	v, err := r.client.HGet(ctx, deviceKey(host), SerialField).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading serial for %s: %w", host, err)
	}
	return strings.TrimSpace(v), nil
}

// SetSerial records host's serial.
func (r *RedisLookup) SetSerial(ctx context.Context, host, serial string) error {
	if err := r.client.HSet(ctx, deviceKey(host), SerialField, serial).Err(); err != nil {
		return fmt.Errorf("writing serial for %s: %w", host, err)
	}
	return nil
}

// Serials returns every host with a DEVICE entry and its serial.
func (r *RedisLookup) Serials(ctx context.Context) (map[string]string, error) {
	keys, err := scanKeys(ctx, r.client, DeviceTable+"|*", 100)
	if err != nil {
		return nil, fmt.Errorf("listing devices: %w", err)
	}
	sort.Strings(keys)

	out := make(map[string]string, len(keys))
	for _, key := range keys {
		host := strings.TrimPrefix(key, DeviceTable+"|")
		serial, err := r.Serial(ctx, host, nil)
		if err != nil {
			return nil, err
		}
		out[host] = serial
	}
	return out, nil
}

// scanKeys collects keys matching pattern with cursor-based SCAN.
func scanKeys(ctx context.Context, client *redis.Client, pattern string, countHint int64) ([]string, error) {
	var cursor uint64
	var keys []string
	for {
		batch, nextCursor, err := client.Scan(ctx, cursor, pattern, countHint).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, batch...)
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	return keys, nil
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/newtron-network/netonboard/pkg/extract"
	"github.com/newtron-network/netonboard/pkg/fieldmap"
	"github.com/newtron-network/netonboard/pkg/inventory"
	"github.com/newtron-network/netonboard/pkg/util"
)

// hostInput is one entry of a run input file.
type hostInput struct {
	Platform string         `json:"platform"`
	Defaults map[string]any `json:"defaults,omitempty"`
	Outputs  map[string]any `json:"outputs"`
}

// loadFieldMaps returns the built-in maps overlaid with --fieldmaps.
func loadFieldMaps() (*fieldmap.Set, error) {
	set, err := fieldmap.Default()
	if err != nil {
		return nil, fmt.Errorf("loading built-in field maps: %w", err)
	}
	if fieldMapDir == "" {
		return set, nil
	}
	extra, err := fieldmap.LoadDir(fieldMapDir)
	if err != nil {
		return nil, err
	}
	set.Merge(extra)
	util.Debugf("field maps: merged %s over built-ins", fieldMapDir)
	return set, nil
}

// baseScope is the sync scope selected by flags and settings.
func baseScope() extract.Scope {
	return extract.Scope{SyncVLANs: syncVLANs, SyncVRFs: syncVRFs}
}

// hostScope widens base with any scope a host's defaults enable.
func hostScope(base extract.Scope, defaults map[string]any) extract.Scope {
	h := extract.ScopeFromDefaults(defaults)
	return extract.Scope{
		SyncVLANs: base.SyncVLANs || h.SyncVLANs,
		SyncVRFs:  base.SyncVRFs || h.SyncVRFs,
	}
}

// serialLookup builds the inventory chain: serials file, then Redis, then
// the serial the device reported. The returned func releases connections.
func serialLookup(ctx context.Context) (inventory.SerialLookup, func(), error) {
	var chain inventory.Chain
	closer := func() {}

	if serialsFile != "" {
		static, err := inventory.LoadStatic(serialsFile)
		if err != nil {
			return nil, closer, err
		}
		chain = append(chain, static)
	}
	if redisAddr != "" {
		r := inventory.NewRedisLookup(redisAddr, redisDB)
		if err := r.Connect(ctx); err != nil {
			return nil, closer, err
		}
		closer = func() { r.Close() }
		chain = append(chain, r)
		util.Infof("inventory: serial lookups use Redis %s db %d", redisAddr, redisDB)
	}
	chain = append(chain, inventory.FromAggregate{})
	return chain, closer, nil
}

// connectInventory opens the Redis inventory named by --redis.
func connectInventory(ctx context.Context) (*inventory.RedisLookup, error) {
	if redisAddr == "" {
		return nil, fmt.Errorf("no inventory configured (use --redis or 'onboard settings set redis_addr <addr>')")
	}
	r := inventory.NewRedisLookup(redisAddr, redisDB)
	if err := r.Connect(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// readJSON decodes a JSON file; "-" reads stdin.
func readJSON(path string, v any) error {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

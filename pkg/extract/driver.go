package extract

import (
	"fmt"
	"sort"

	"github.com/newtron-network/netonboard/pkg/fieldmap"
	"github.com/newtron-network/netonboard/pkg/metrics"
	"github.com/newtron-network/netonboard/pkg/model"
	"github.com/newtron-network/netonboard/pkg/render"
	"github.com/newtron-network/netonboard/pkg/util"
)

// Defaults keys that enable the optional sync scopes.
const (
	DefaultSyncVLANs = "sync_vlans"
	DefaultSyncVRFs  = "sync_vrfs"
)

// Scope selects which optional field groups are extracted.
type Scope struct {
	SyncVLANs bool
	SyncVRFs  bool
}

// ScopeFromDefaults reads the scope flags from a host's defaults data.
// Missing or non-boolean entries count as false.
func ScopeFromDefaults(defaults map[string]any) Scope {
	vlans, _ := defaults[DefaultSyncVLANs].(bool)
	vrfs, _ := defaults[DefaultSyncVRFs].(bool)
	return Scope{SyncVLANs: vlans, SyncVRFs: vrfs}
}

// Includes reports whether fields of scope s should be extracted.
func (sc Scope) Includes(s fieldmap.Scope) bool {
	switch s {
	case fieldmap.ScopeVLANs:
		return sc.SyncVLANs
	case fieldmap.ScopeVRFs:
		return sc.SyncVRFs
	}
	return true
}

// Driver runs every field of a domain against one host's command outputs.
// A Driver holds no per-host state and is safe for concurrent use.
type Driver struct {
	Recorder *metrics.Recorder
}

// NewDriver returns a driver reporting to rec, which may be nil.
func NewDriver(rec *metrics.Recorder) *Driver {
	return &Driver{Recorder: rec}
}

// run holds the state of one ExtractAll call.
type run struct {
	d        *Driver
	host     string
	platform string
	outputs  map[string]any
	agg      model.Aggregate
	roots    map[string][]string
}

// ExtractHost resolves the platform's domain in set and extracts it. The
// returned aggregate carries the platform under the platform key.
func (d *Driver) ExtractHost(host, platform, domainName string, set *fieldmap.Set, outputs map[string]any, scope Scope) (model.Aggregate, error) {
	domain, err := set.Domain(platform, domainName)
	if err != nil {
		return nil, err
	}
	agg := d.extract(host, platform, domain, outputs, scope)
	agg[model.KeyPlatform] = platform
	return agg, nil
}

// ExtractAll evaluates every in-scope field of domain and returns the
// aggregate. Root-key fields are evaluated before all others so that nested
// fields always see their iteration keys. Extraction problems never fail the
// call; the affected field is left empty.
func (d *Driver) ExtractAll(host string, domain *fieldmap.Domain, outputs map[string]any, scope Scope) model.Aggregate {
	return d.extract(host, "", domain, outputs, scope)
}

func (d *Driver) extract(host, platform string, domain *fieldmap.Domain, outputs map[string]any, scope Scope) model.Aggregate {
	r := &run{
		d:        d,
		host:     host,
		platform: platform,
		outputs:  outputs,
		agg:      model.Aggregate{},
		roots:    map[string][]string{},
	}

	var rest []*fieldmap.Field
	for i := range domain.Fields {
		f := &domain.Fields[i]
		if !scope.Includes(f.EffectiveScope()) {
			util.WithDevice(host).Debugf("Skipping %s: scope %s disabled", f.Name, f.EffectiveScope())
			continue
		}
		if providesRoots(f) {
			r.field(f)
			continue
		}
		rest = append(rest, f)
	}
	for _, f := range rest {
		r.field(f)
	}
	return r.agg
}

func providesRoots(f *fieldmap.Field) bool {
	for i := range f.Commands {
		if f.IsRootKey(&f.Commands[i]) {
			return true
		}
	}
	return false
}

func (r *run) field(f *fieldmap.Field) {
	cmds := make([]fieldmap.Command, len(f.Commands))
	copy(cmds, f.Commands)

	for i := range cmds {
		cmd := &cmds[i]
		output, ok := r.outputs[cmd.Command]
		if !ok {
			util.WithExtraction(r.host, f.Name, cmd.Command).Debug("No output collected for command")
		}

		switch {
		case f.IsRootKey(cmd):
			pre, post := r.eval(f, cmd, output, render.HostVars(r.host))
			r.roots[f.Name] = iterationKeys(pre)
			r.agg[f.Name] = post
		case f.Nested():
			outer, inner, _ := f.Split()
			keys, ok := r.roots[outer]
			if !ok {
				util.WithExtraction(r.host, f.Name, cmd.Command).Debugf("No iteration keys for %s", outer)
				continue
			}
			vars := render.HostVars(r.host)
			for _, key := range keys {
				_, post := r.eval(f, cmd, output, vars.WithKey(key))
				r.setNested(outer, key, inner, post)
			}
		default:
			_, post := r.eval(f, cmd, output, render.HostVars(r.host))
			r.agg[f.Name] = post
		}
	}
}

func (r *run) eval(f *fieldmap.Field, cmd *fieldmap.Command, output any, vars render.Vars) (pre, post any) {
	pre, post, err := Extract(output, cmd, vars)
	if err != nil {
		util.WithExtraction(r.host, f.Name, cmd.Command).Debugf("Extraction degraded to empty: %v", err)
		r.d.Recorder.FieldDegraded(r.platform, f.Name)
		return pre, post
	}
	r.d.Recorder.FieldExtracted(r.platform)
	return pre, post
}

// setNested writes agg[outer][key][inner], creating the intermediate
// mappings. A flat list stored under outer by its root-key field is replaced
// by a mapping seeded with the list's names.
func (r *run) setNested(outer, key, inner string, value any) {
	byKey, ok := r.agg[outer].(map[string]any)
	if !ok {
		byKey = seed(r.agg[outer])
		r.agg[outer] = byKey
	}
	attrs, ok := byKey[key].(map[string]any)
	if !ok {
		attrs = map[string]any{}
		byKey[key] = attrs
	}
	attrs[inner] = value
}

func seed(v any) map[string]any {
	out := map[string]any{}
	switch t := v.(type) {
	case []any:
		for _, e := range t {
			if name, ok := scalarKey(e); ok {
				out[name] = map[string]any{}
			}
		}
	case string:
		if t != "" {
			out[t] = map[string]any{}
		}
	}
	return out
}

// iterationKeys turns a root-key field's pre-processing value into the keys
// nested fields iterate over.
func iterationKeys(pre any) []string {
	switch t := pre.(type) {
	case []any:
		keys := make([]string, 0, len(t))
		for _, e := range t {
			if k, ok := scalarKey(e); ok {
				keys = append(keys, k)
			}
		}
		return keys
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return keys
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	}
	return nil
}

func scalarKey(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, t != ""
	case int, float64, bool:
		return fmt.Sprint(t), true
	}
	return "", false
}

// Package fieldmap defines the per-platform configuration that tells the
// extraction driver which command output feeds which canonical field, and
// loads it from YAML.
package fieldmap

import (
	"fmt"
	"sort"
	"strings"

	"github.com/newtron-network/netonboard/pkg/query"
	"github.com/newtron-network/netonboard/pkg/util"
)

// Well-known sync domains.
const (
	DomainSyncDevices     = "sync_devices"
	DomainSyncNetworkData = "sync_network_data"
)

// NestingSeparator splits a compound field name into outer and inner parts:
// interfaces__mtu nests mtu under each key of interfaces.
const NestingSeparator = "__"

// IterableType declares the empty/singleton shape of a command's result.
type IterableType string

const (
	IterableNone IterableType = ""
	IterableDict IterableType = "dict"
	IterableStr  IterableType = "str"
)

// Valid reports whether t is a known iterable type.
func (t IterableType) Valid() bool {
	switch t {
	case IterableNone, IterableDict, IterableStr:
		return true
	}
	return false
}

// Parser names the tool that turned raw command text into the structured
// output a field reads. It documents the expected row shape.
type Parser string

const (
	ParserUnspecified Parser = ""
	ParserTextFSM     Parser = "textfsm"
	ParserTTP         Parser = "ttp"
	ParserGenie       Parser = "genie"
)

// Valid reports whether p is a known parser.
func (p Parser) Valid() bool {
	switch p {
	case ParserUnspecified, ParserTextFSM, ParserTTP, ParserGenie:
		return true
	}
	return false
}

// Scope ties a field to an optional sync domain; scoped fields are only
// extracted when that domain is requested for the run.
type Scope string

const (
	ScopeAlways Scope = ""
	ScopeVLANs  Scope = "vlans"
	ScopeVRFs   Scope = "vrfs"
)

// Valid reports whether s is a known scope.
func (s Scope) Valid() bool {
	switch s {
	case ScopeAlways, ScopeVLANs, ScopeVRFs:
		return true
	}
	return false
}

// Command is one source of a field: which command output to read and how to
// pull the value out of it.
type Command struct {
	Command       string         `yaml:"command" json:"command"`
	Parser        Parser         `yaml:"parser,omitempty" json:"parser,omitempty"`
	JPath         string         `yaml:"jpath" json:"jpath"`
	Language      query.Language `yaml:"language,omitempty" json:"language,omitempty"`
	PostProcessor string         `yaml:"post_processor,omitempty" json:"post_processor,omitempty"`
	IterableType  IterableType   `yaml:"iterable_type,omitempty" json:"iterable_type,omitempty"`
	RootKey       bool           `yaml:"root_key,omitempty" json:"root_key,omitempty"`
}

// Field maps one target field to its commands.
type Field struct {
	Name     string    `json:"name"`
	RootKey  bool      `json:"root_key,omitempty"`
	Scope    Scope     `json:"scope,omitempty"`
	Commands []Command `json:"commands"`
}

// Split returns the outer and inner names of a compound field. ok is false
// for flat fields.
func (f *Field) Split() (outer, inner string, ok bool) {
	parts := strings.Split(f.Name, NestingSeparator)
	if len(parts) != 2 {
		return f.Name, "", false
	}
	return parts[0], parts[1], true
}

// Nested reports whether the field name is compound.
func (f *Field) Nested() bool {
	return strings.Contains(f.Name, NestingSeparator)
}

// IsRootKey reports whether cmd supplies the outer iteration keys, either
// because the field or the command itself is marked as a root key.
func (f *Field) IsRootKey(cmd *Command) bool {
	return f.RootKey || cmd.RootKey
}

// EffectiveScope returns the field's declared scope, falling back to the
// scope implied by the well-known nested VLAN and VRF field names.
func (f *Field) EffectiveScope() Scope {
	if f.Scope != ScopeAlways {
		return f.Scope
	}
	switch f.Name {
	case "interfaces__tagged_vlans", "interfaces__untagged_vlan":
		return ScopeVLANs
	case "interfaces__vrf":
		return ScopeVRFs
	}
	return ScopeAlways
}

// Domain is the ordered set of fields extracted for one sync domain.
type Domain struct {
	Name   string
	Fields []Field
}

// Field returns the named field.
func (d *Domain) Field(name string) (*Field, bool) {
	for i := range d.Fields {
		if d.Fields[i].Name == name {
			return &d.Fields[i], true
		}
	}
	return nil, false
}

// Commands returns the distinct command strings the domain reads, sorted.
// Schedulers use it to know which commands to run on a device.
func (d *Domain) Commands() []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range d.Fields {
		for _, c := range f.Commands {
			if !seen[c.Command] {
				seen[c.Command] = true
				out = append(out, c.Command)
			}
		}
	}
	sort.Strings(out)
	return out
}

// Platform holds the domains configured for one OS platform.
type Platform struct {
	Name    string
	Domains map[string]*Domain
}

// Set is a loaded collection of platforms. A Set is read-only once loaded
// and may be shared between concurrent extractions.
type Set struct {
	Platforms map[string]*Platform
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{Platforms: make(map[string]*Platform)}
}

// Domain looks up the domain for a platform.
func (s *Set) Domain(platform, domain string) (*Domain, error) {
	p, ok := s.Platforms[platform]
	if !ok {
		return nil, &util.UnsupportedPlatformError{Platform: platform}
	}
	d, ok := p.Domains[domain]
	if !ok {
		return nil, fmt.Errorf("platform %s has no %s field map: %w", platform, domain, util.ErrNotFound)
	}
	return d, nil
}

// PlatformNames returns the configured platforms, sorted.
func (s *Set) PlatformNames() []string {
	names := make([]string, 0, len(s.Platforms))
	for name := range s.Platforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Merge overlays other onto s. A domain present in other replaces the same
// domain in s; other domains of the platform are kept.
func (s *Set) Merge(other *Set) {
	for name, p := range other.Platforms {
		cur, ok := s.Platforms[name]
		if !ok {
			cur = &Platform{Name: name, Domains: make(map[string]*Domain)}
			s.Platforms[name] = cur
		}
		for dname, d := range p.Domains {
			cur.Domains[dname] = d
		}
	}
}

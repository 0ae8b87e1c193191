package fieldmap

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/newtron-network/netonboard/pkg/query"
	"github.com/newtron-network/netonboard/pkg/render"
	"github.com/newtron-network/netonboard/pkg/util"
)

//go:embed defaults/*.yml
var defaultFiles embed.FS

// rawField is the YAML shape of one field entry. commands is kept as a node
// because it may be a single mapping or a list of mappings.
type rawField struct {
	RootKey  bool      `yaml:"root_key"`
	Scope    Scope     `yaml:"scope"`
	Commands yaml.Node `yaml:"commands"`
}

// Default returns the built-in field maps for the supported Cisco platforms.
func Default() (*Set, error) {
	return loadFS(defaultFiles, "defaults")
}

// LoadDir loads every *.yml and *.yaml file in dir, in name order, into one
// set. Later files replace domains defined by earlier ones.
func LoadDir(dir string) (*Set, error) {
	return loadFS(os.DirFS(dir), ".")
}

func loadFS(fsys fs.FS, dir string) (*Set, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading field map dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if !e.IsDir() && (ext == ".yml" || ext == ".yaml") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	set := NewSet()
	for _, name := range names {
		data, err := fs.ReadFile(fsys, filepath.ToSlash(filepath.Join(dir, name)))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		s, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", name, err)
		}
		set.Merge(s)
	}
	return set, nil
}

// LoadFile loads a single field-map file.
func LoadFile(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a field-map document of the form
// platform -> domain -> field -> {root_key, scope, commands}. Field order
// within a domain follows the document.
func Parse(data []byte) (*Set, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing field map: %w", err)
	}
	set := NewSet()
	if len(doc.Content) == 0 {
		return set, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("field map must be a mapping of platforms: %w", util.ErrInvalidConfig)
	}

	v := &util.ValidationBuilder{}
	for i := 0; i+1 < len(root.Content); i += 2 {
		platformName := root.Content[i].Value
		platform := &Platform{Name: platformName, Domains: make(map[string]*Domain)}
		domains := root.Content[i+1]
		if domains.Kind != yaml.MappingNode {
			v.AddErrorf("platform '%s' (line %d) must be a mapping of domains", platformName, domains.Line)
			continue
		}
		for j := 0; j+1 < len(domains.Content); j += 2 {
			domainName := domains.Content[j].Value
			d, err := parseDomain(domainName, domains.Content[j+1])
			if err != nil {
				v.AddErrorf("%s/%s: %v", platformName, domainName, err)
				continue
			}
			validateDomain(v, platformName, d)
			platform.Domains[domainName] = d
		}
		set.Platforms[platformName] = platform
	}
	if err := v.Build(); err != nil {
		return nil, err
	}
	return set, nil
}

func parseDomain(name string, node *yaml.Node) (*Domain, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: domain must be a mapping of fields", node.Line)
	}
	d := &Domain{Name: name}
	seen := make(map[string]bool)
	for i := 0; i+1 < len(node.Content); i += 2 {
		fieldName := node.Content[i].Value
		if seen[fieldName] {
			return nil, fmt.Errorf("line %d: duplicate field '%s'", node.Content[i].Line, fieldName)
		}
		seen[fieldName] = true

		var raw rawField
		if err := node.Content[i+1].Decode(&raw); err != nil {
			return nil, fmt.Errorf("field '%s': %w", fieldName, err)
		}
		cmds, err := decodeCommands(&raw.Commands)
		if err != nil {
			return nil, fmt.Errorf("field '%s': %w", fieldName, err)
		}
		d.Fields = append(d.Fields, Field{
			Name:     fieldName,
			RootKey:  raw.RootKey,
			Scope:    raw.Scope,
			Commands: cmds,
		})
	}
	return d, nil
}

// decodeCommands accepts a single command mapping or a list of them.
func decodeCommands(node *yaml.Node) ([]Command, error) {
	switch node.Kind {
	case 0:
		return nil, nil
	case yaml.MappingNode:
		var c Command
		if err := node.Decode(&c); err != nil {
			return nil, err
		}
		return []Command{c}, nil
	case yaml.SequenceNode:
		var cmds []Command
		if err := node.Decode(&cmds); err != nil {
			return nil, err
		}
		return cmds, nil
	}
	return nil, fmt.Errorf("line %d: commands must be a mapping or a list", node.Line)
}

func validateDomain(v *util.ValidationBuilder, platform string, d *Domain) {
	prefix := platform + "/" + d.Name
	for i := range d.Fields {
		f := &d.Fields[i]
		where := fmt.Sprintf("%s field '%s'", prefix, f.Name)

		v.Add(len(f.Commands) > 0, where+": at least one command is required")
		v.Add(f.Scope.Valid(), fmt.Sprintf("%s: unknown scope '%s'", where, f.Scope))

		if f.Nested() {
			outer, inner, ok := f.Split()
			if !ok || outer == "" || inner == "" {
				v.AddErrorf("%s: only one level of nesting is supported", where)
			} else if root, found := d.Field(outer); !found || !hasRootKey(root) {
				v.AddErrorf("%s: nested field needs a root_key field named '%s'", where, outer)
			}
		}

		for j := range f.Commands {
			c := &f.Commands[j]
			cwhere := fmt.Sprintf("%s command[%d]", where, j)
			if f.Nested() && f.IsRootKey(c) {
				v.AddErrorf("%s: a root_key source must be a flat field", cwhere)
			}
			v.Add(strings.TrimSpace(c.Command) != "", cwhere+": command is required")
			v.Add(strings.TrimSpace(c.JPath) != "", cwhere+": jpath is required")
			v.Add(c.IterableType.Valid(), fmt.Sprintf("%s: unknown iterable_type '%s'", cwhere, c.IterableType))
			v.Add(c.Parser.Valid(), fmt.Sprintf("%s: unknown parser '%s'", cwhere, c.Parser))
			if !c.Language.Valid() {
				v.AddErrorf("%s: unknown language '%s'", cwhere, c.Language)
			} else if strings.TrimSpace(c.JPath) != "" {
				// Templated queries can only be compiled once rendered.
				if err := render.Check(c.JPath); err != nil {
					v.AddErrorf("%s: jpath template: %v", cwhere, err)
				} else if !strings.Contains(c.JPath, "{{") {
					if err := query.Compile(c.Language, c.JPath); err != nil {
						v.AddErrorf("%s: %v", cwhere, err)
					}
				}
			}
			if c.PostProcessor != "" {
				if err := render.Check(c.PostProcessor); err != nil {
					v.AddErrorf("%s: post_processor template: %v", cwhere, err)
				}
			}
		}
	}
}

func hasRootKey(f *Field) bool {
	if f.RootKey {
		return true
	}
	for i := range f.Commands {
		if f.Commands[i].RootKey {
			return true
		}
	}
	return false
}

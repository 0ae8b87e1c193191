package normalize

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/newtron-network/netonboard/pkg/model"
	"github.com/newtron-network/netonboard/pkg/util"
)

// dialect carries the platform-specific parts of normalization.
type dialect struct {
	// mode maps a switchport row to a trunking-mode indicator.
	mode func(r attrRow) string
	// vrfs returns the VRF membership of interfaces.
	vrfs func(agg model.Aggregate) ([]vrfMember, error)
}

// attrRow is one item of a per-field list. Only the attribute named by the
// list's field is read; the rest stay zero.
type attrRow struct {
	Interface     string `mapstructure:"interface"`
	MTU           string `mapstructure:"mtu"`
	Type          string `mapstructure:"type"`
	IPAddress     string `mapstructure:"ip_address"`
	PrefixLength  string `mapstructure:"prefix_length"`
	MACAddress    string `mapstructure:"mac_address"`
	Description   string `mapstructure:"description"`
	LinkStatus    any    `mapstructure:"link_status"`
	Mode          string `mapstructure:"mode"`
	AccessVLAN    string `mapstructure:"access_vlan"`
	TrunkingVLANs any    `mapstructure:"trunking_vlans"`
}

// vrfRow covers both the grouped (name + interfaces) and the flat
// (name + interface) VRF listings.
type vrfRow struct {
	Name       string   `mapstructure:"name"`
	RD         string   `mapstructure:"rd"`
	DefaultRD  string   `mapstructure:"default_rd"`
	Interface  string   `mapstructure:"interface"`
	Interfaces []string `mapstructure:"interfaces"`
}

// nestedAttrs is the per-interface data the driver builds under the
// interfaces key from compound fields.
type nestedAttrs struct {
	TaggedVLANs  []model.VLAN `mapstructure:"tagged_vlans"`
	UntaggedVLAN model.VLAN   `mapstructure:"untagged_vlan"`
	LAG          string       `mapstructure:"lag"`
	VRF          model.VRF    `mapstructure:"vrf"`
}

type vrfMember struct {
	Interface string
	VRF       model.VRF
}

type address struct {
	ip     string
	prefix string
}

// assembler folds per-field lists into interface records keyed by canonical
// name, remembering discovery order.
type assembler struct {
	records map[string]*model.InterfaceRecord
	order   []string
	addrs   map[string]*address
}

func newAssembler() *assembler {
	return &assembler{
		records: map[string]*model.InterfaceRecord{},
		addrs:   map[string]*address{},
	}
}

// normalize runs the shared pipeline for one device. Panics and structural
// errors become a FailureError carrying the device payload.
func normalize(platform string, agg model.Aggregate, d dialect) (rec *model.DeviceRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			rec, err = nil, failure(agg, fmt.Errorf("panic: %v", r))
		}
	}()

	a := newAssembler()
	if err := a.attributes(agg); err != nil {
		return nil, failure(agg, err)
	}
	if err := a.modes(agg, d); err != nil {
		return nil, failure(agg, err)
	}
	if err := a.nested(agg[model.KeyInterfaces]); err != nil {
		return nil, failure(agg, err)
	}
	members, err := d.vrfs(agg)
	if err != nil {
		return nil, failure(agg, err)
	}
	for _, m := range members {
		if _, r := a.get(m.Interface); r != nil {
			r.VRF = m.VRF
		}
	}
	a.finish()

	for _, key := range RequiredKeys {
		if _, ok := agg[key]; !ok {
			return nil, failure(agg, fmt.Errorf("%s was never extracted", key))
		}
	}

	return &model.DeviceRecord{
		Platform:   platform,
		Serial:     scalarString(agg[model.KeySerial]),
		Interfaces: a.list(),
	}, nil
}

func failure(agg model.Aggregate, err error) *model.FailureError {
	return model.NewFailure(err, "Formatting error for device %s", agg.String())
}

// get returns the record for name, creating it on first sight. Names are
// canonicalized before indexing. An empty name yields a nil record.
func (a *assembler) get(name string) (string, *model.InterfaceRecord) {
	name = util.CanonicalInterfaceName(name)
	if name == "" {
		return "", nil
	}
	rec, ok := a.records[name]
	if !ok {
		r := model.NewInterfaceRecord()
		r.Type = ""
		rec = &r
		a.records[name] = rec
		a.order = append(a.order, name)
	}
	return name, rec
}

func (a *assembler) addr(name string) *address {
	ad, ok := a.addrs[name]
	if !ok {
		ad = &address{}
		a.addrs[name] = ad
	}
	return ad
}

func (a *assembler) attributes(agg model.Aggregate) error {
	keys := []string{KeyMTU, KeyType, KeyIPAddresses, KeyPrefixLength, KeyMACAddress, KeyDescription, KeyLinkStatus}
	for _, key := range keys {
		rows, err := decodeRows[attrRow](agg[key])
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		for _, r := range rows {
			name, rec := a.get(r.Interface)
			if rec == nil {
				continue
			}
			switch key {
			case KeyMTU:
				rec.MTU = parseMTU(r.MTU)
			case KeyType:
				rec.Type = InterfaceType(r.Type, name)
			case KeyIPAddresses:
				a.addr(name).ip = strings.TrimSpace(r.IPAddress)
			case KeyPrefixLength:
				a.addr(name).prefix = strings.TrimSpace(r.PrefixLength)
			case KeyMACAddress:
				rec.MACAddress = util.CanonicalMAC(r.MACAddress)
			case KeyDescription:
				rec.Description = strings.TrimSpace(r.Description)
			case KeyLinkStatus:
				rec.LinkStatus = linkUp(r.LinkStatus)
			}
		}
	}
	return nil
}

func (a *assembler) modes(agg model.Aggregate, d dialect) error {
	rows, err := decodeRows[attrRow](agg[KeyMode])
	if err != nil {
		return fmt.Errorf("%s: %w", KeyMode, err)
	}
	for _, r := range rows {
		if _, rec := a.get(r.Interface); rec != nil {
			rec.Mode = d.mode(r)
		}
	}
	return nil
}

// nested merges the driver's interfaces value: either a bare list of names
// or a mapping of name to compound-field attributes.
func (a *assembler) nested(v any) error {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		a.get(t)
		return nil
	case []any:
		for _, e := range t {
			if name, ok := e.(string); ok {
				a.get(name)
			}
		}
		return nil
	case map[string]any:
		names := make([]string, 0, len(t))
		for name := range t {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			raw, ok := t[name].(map[string]any)
			if !ok {
				return fmt.Errorf("interfaces: %s: expected a mapping, got %T", name, t[name])
			}
			var attrs nestedAttrs
			if err := decode(cleanNested(raw), &attrs); err != nil {
				return fmt.Errorf("interfaces: %s: %w", name, err)
			}
			_, rec := a.get(name)
			if rec == nil {
				continue
			}
			for _, vlan := range attrs.TaggedVLANs {
				if !vlan.IsZero() {
					rec.TaggedVLANs = append(rec.TaggedVLANs, vlan)
				}
			}
			if !attrs.UntaggedVLAN.IsZero() {
				rec.UntaggedVLAN = attrs.UntaggedVLAN
			}
			if attrs.LAG != "" {
				rec.LAG = util.CanonicalInterfaceName(attrs.LAG)
			}
			if !attrs.VRF.IsZero() {
				rec.VRF = attrs.VRF
			}
		}
		return nil
	}
	return fmt.Errorf("interfaces: unexpected %T", v)
}

// cleanNested drops degraded (empty) values and lifts a bare VRF name into a
// mapping so the remainder decodes cleanly.
func cleanNested(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		if v == nil || v == "" {
			continue
		}
		if k == "vrf" {
			if name, ok := v.(string); ok {
				v = map[string]any{"name": name}
			}
		}
		out[k] = v
	}
	return out
}

// finish resolves addresses and interface types for every record.
func (a *assembler) finish() {
	for _, name := range a.order {
		rec := a.records[name]
		if rec.Type == "" {
			rec.Type = InterfaceType("", name)
		}
		if ad, ok := a.addrs[name]; ok && ad.ip != "" {
			rec.IPAddresses = []model.IPAddress{makeAddress(ad.ip, ad.prefix)}
		}
	}
}

func (a *assembler) list() []map[string]model.InterfaceRecord {
	out := make([]map[string]model.InterfaceRecord, 0, len(a.order))
	for _, name := range a.order {
		out = append(out, map[string]model.InterfaceRecord{name: *a.records[name]})
	}
	return out
}

// makeAddress combines an address with its prefix length. The address may
// carry the length itself in CIDR form; with no length at all the host
// length is used.
func makeAddress(ip, prefix string) model.IPAddress {
	if strings.Contains(ip, "/") {
		addr, length := util.SplitIPMask(ip)
		return model.IPAddress{IPAddress: addr, PrefixLength: length}
	}
	if length, ok := util.PrefixLength(prefix); ok {
		return model.IPAddress{IPAddress: ip, PrefixLength: length}
	}
	return model.IPAddress{IPAddress: ip, PrefixLength: util.HostPrefixLength(ip)}
}

// groupedVRFs expands rows that list their member interfaces.
func groupedVRFs(v any, member func(string) string) ([]vrfMember, error) {
	rows, err := decodeRows[vrfRow](v)
	if err != nil {
		return nil, err
	}
	var out []vrfMember
	for _, r := range rows {
		vrf := model.VRF{Name: strings.TrimSpace(r.Name), RD: normalizeRD(r.DefaultRD, r.RD)}
		if vrf.Name == "" {
			continue
		}
		for _, name := range r.Interfaces {
			if name = strings.TrimSpace(name); name != "" {
				out = append(out, vrfMember{Interface: member(name), VRF: vrf})
			}
		}
		if r.Interface != "" {
			out = append(out, vrfMember{Interface: member(r.Interface), VRF: vrf})
		}
	}
	return out, nil
}

// normalizeRD returns the first configured route distinguisher. Placeholder
// values shown for VRFs without one count as unset.
func normalizeRD(candidates ...string) string {
	for _, rd := range candidates {
		rd = strings.TrimSpace(rd)
		switch strings.ToLower(rd) {
		case "", "<not set>", "not set", "0:0":
			continue
		}
		return rd
	}
	return ""
}

// decodeRows coerces a per-field value to a list of rows: nil and the
// degraded "" are empty, a single mapping is a one-item list.
func decodeRows[T any](v any) ([]T, error) {
	var items []any
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		if strings.TrimSpace(t) == "" {
			return nil, nil
		}
		return nil, fmt.Errorf("expected a list of mappings, got string %q", t)
	case map[string]any:
		items = []any{t}
	case []any:
		items = t
	default:
		return nil, fmt.Errorf("expected a list of mappings, got %T", v)
	}

	out := make([]T, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("item %d: expected a mapping, got %T", i, item)
		}
		var row T
		if err := decode(m, &row); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out = append(out, row)
	}
	return out, nil
}

func decode(in map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}

func parseMTU(s string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return nil
	}
	return &n
}

func linkUp(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "up", "connected", "true", "yes", "1":
			return true
		}
	}
	return false
}

// scalarString renders a serial-like value, unwrapping a one-item list.
func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		if len(t) == 1 {
			return scalarString(t[0])
		}
	case float64, int:
		return fmt.Sprint(t)
	}
	return ""
}

// vlanList flattens a trunking_vlans value, which may be a string or a list
// of strings, into one comma-separated string.
func vlanList(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			if s := strings.TrimSpace(fmt.Sprint(e)); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ",")
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}

package tech

import (
	"cmp"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/siliconmark/logocell/pkg/errors"
)

// Format identifies the encoding of a constraint document.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the format from the file extension; anything but
// .toml is read as JSON.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatJSON
}

// entry is one raw document entry. Pointers distinguish absent fields.
type entry struct {
	Layer      *int     `json:"layer" toml:"layer"`
	Datatype   *int     `json:"datatype" toml:"datatype"`
	MinWidth   float64  `json:"min_width" toml:"min_width"`
	MinArea    float64  `json:"min_area" toml:"min_area"`
	MinSpacing float64  `json:"min_spacing" toml:"min_spacing"`
	Width      float64  `json:"width" toml:"width"`
	Height     float64  `json:"height" toml:"height"`
	Spacing    *float64 `json:"spacing" toml:"spacing"`
	LEFName    string   `json:"lef_name" toml:"lef_name"`
	Connects   []string `json:"connects" toml:"connects"`
}

var (
	metalName     = regexp.MustCompile(`^(?i:metal)(\d+)$`)
	viaName       = regexp.MustCompile(`^(?i:via)(\d+)$`)
	exclusionName = regexp.MustCompile(`^DM(\d+)EXCL$`)
)

// maxLayerNumber is the largest GDSII layer or datatype value.
const maxLayerNumber = 32767

// Load reads and validates a constraint document from disk.
func Load(path string) (*Tech, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read constraints %s", path)
	}
	return Parse(data, FormatFromPath(path))
}

// Parse decodes and validates a constraint document.
func Parse(data []byte, format Format) (*Tech, error) {
	raw := make(map[string]entry)
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode TOML constraints")
		}
	case FormatJSON, "":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode JSON constraints")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown constraint format %q", format)
	}
	return build(raw)
}

func build(raw map[string]entry) (*Tech, error) {
	t := &Tech{layers: make(map[string]Layer), outline: DefaultOutline}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		e := raw[name]
		l := Layer{Name: name, LEFName: e.LEFName}

		var numbered *regexp.Regexp
		switch {
		case metalName.MatchString(name):
			l.Kind = KindMetal
			numbered = metalName
			l.Metal = MetalRules{MinWidth: e.MinWidth, MinArea: e.MinArea, MinSpacing: e.MinSpacing}
		case viaName.MatchString(name):
			l.Kind = KindVia
			numbered = viaName
			l.Via = ViaRules{Width: e.Width, Height: e.Height, Spacing: e.Width}
			if e.Spacing != nil {
				l.Via.Spacing = *e.Spacing
			}
		case strings.EqualFold(name, "logo"):
			l.Kind = KindOutline
		case exclusionName.MatchString(name):
			l.Kind = KindExclusion
			numbered = exclusionName
			l.Metal = MetalRules{MinWidth: e.MinWidth, MinArea: e.MinArea}
		default:
			t.ignored = append(t.ignored, name)
			continue
		}
		if numbered != nil {
			n, err := number(numbered, name)
			if err != nil {
				return nil, err
			}
			l.Number = n
		}

		if err := e.assignNumbers(&l); err != nil {
			return nil, err
		}
		if err := validateRules(l); err != nil {
			return nil, err
		}
		t.layers[name] = l
	}

	t.metals = namesOfKind(t.layers, KindMetal)
	t.vias = namesOfKind(t.layers, KindVia)
	t.exclusions = namesOfKind(t.layers, KindExclusion)
	for _, l := range t.layers {
		if l.Kind == KindOutline {
			t.outline = l
		}
	}

	if len(t.metals) == 0 {
		return nil, errors.New(errors.ErrCodeMissingConstraint, "constraint document defines no metal layer")
	}
	if err := t.linkVias(raw); err != nil {
		return nil, err
	}
	return t, nil
}

func (e entry) assignNumbers(l *Layer) error {
	if e.Layer == nil {
		return errors.New(errors.ErrCodeInvalidInput, "layer %q: missing \"layer\" number", l.Name)
	}
	datatype := 0
	if e.Datatype != nil {
		datatype = *e.Datatype
	}
	if *e.Layer < 0 || *e.Layer > maxLayerNumber {
		return errors.New(errors.ErrCodeInvalidInput, "layer %q: GDS layer %d outside [0, %d]", l.Name, *e.Layer, maxLayerNumber)
	}
	if datatype < 0 || datatype > maxLayerNumber {
		return errors.New(errors.ErrCodeInvalidInput, "layer %q: datatype %d outside [0, %d]", l.Name, datatype, maxLayerNumber)
	}
	l.GDSLayer = int16(*e.Layer)
	l.Datatype = int16(datatype)
	return nil
}

func validateRules(l Layer) error {
	switch l.Kind {
	case KindMetal, KindExclusion:
		m := l.Metal
		if m.MinWidth < 0 || m.MinArea < 0 || m.MinSpacing < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "layer %q: metal rules must be non-negative", l.Name)
		}
	case KindVia:
		v := l.Via
		if v.Width <= 0 || v.Height <= 0 {
			return errors.New(errors.ErrCodeInvalidInput, "layer %q: via width and height must be > 0", l.Name)
		}
		if v.Spacing < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "layer %q: via spacing must be non-negative", l.Name)
		}
	}
	return nil
}

// linkVias fills Connects for every via layer, from the explicit field or
// from the via<N> -> metal<N>/metal<N+1> naming convention.
func (t *Tech) linkVias(raw map[string]entry) error {
	for _, name := range t.vias {
		v := t.layers[name]
		if c := raw[name].Connects; len(c) > 0 {
			if len(c) != 2 {
				return errors.New(errors.ErrCodeInvalidInput, "via %q: connects must name exactly two layers", name)
			}
			for _, m := range c {
				if l, ok := t.layers[m]; !ok || l.Kind != KindMetal {
					return errors.New(errors.ErrCodeMissingConstraint, "via %q connects unknown metal layer %q", name, m)
				}
			}
			v.Connects = [2]string{c[0], c[1]}
		} else {
			v.Connects = [2]string{t.metalNumbered(v.Number), t.metalNumbered(v.Number + 1)}
		}
		t.layers[name] = v
	}
	return nil
}

// metalNumbered returns the document name of metal<n>, or the canonical
// spelling when the document has no such layer.
func (t *Tech) metalNumbered(n int) string {
	for _, name := range t.metals {
		if t.layers[name].Number == n {
			return name
		}
	}
	return fmt.Sprintf("metal%d", n)
}

func number(re *regexp.Regexp, name string) (int, error) {
	n, err := strconv.Atoi(re.FindStringSubmatch(name)[1])
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "layer %q: number out of range", name)
	}
	return n, nil
}

func namesOfKind(layers map[string]Layer, kind Kind) []string {
	var out []string
	for name, l := range layers {
		if l.Kind == kind {
			out = append(out, name)
		}
	}
	slices.SortFunc(out, func(a, b string) int {
		if c := cmp.Compare(layers[a].Number, layers[b].Number); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return out
}

package style

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// paletteFile is the on-disk shape of a palette override:
//
//	colors:
//	  Work: "#1f77b4"
//	  Commute: gray
//	order: [Work, Commute]
type paletteFile struct {
	Colors map[string]string `yaml:"colors"`
	Order  []string          `yaml:"order"`
}

// Palette is a parsed override table.
type Palette struct {
	Colors map[string]Color
	Order  []string
}

// Registry builds a registry with the palette taking precedence over the
// default table.
func (p *Palette) Registry() *Registry {
	if p == nil {
		return NewRegistry(nil)
	}
	return NewRegistryWithOrder(p.Colors, p.Order)
}

// LoadPalette reads a YAML palette file. An empty path yields an empty
// palette.
func LoadPalette(path string) (*Palette, error) {
	if path == "" {
		return &Palette{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read palette: %w", err)
	}
	return ParsePalette(data)
}

// ParsePalette parses palette YAML and normalizes every color.
func ParsePalette(data []byte) (*Palette, error) {
	var f paletteFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse palette: %w", err)
	}

	p := &Palette{
		Colors: make(map[string]Color, len(f.Colors)),
		Order:  f.Order,
	}
	for _, name := range sortedKeys(f.Colors) {
		c, err := ParseColor(f.Colors[name])
		if err != nil {
			return nil, fmt.Errorf("palette category %q: %w", name, err)
		}
		p.Colors[name] = c
	}
	return p, nil
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

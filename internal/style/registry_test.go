package style

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_DefaultTable(t *testing.T) {
	r := NewRegistry(nil)

	assert.Equal(t, Color("#00008b"), r.Color("Sen"))
	assert.Equal(t, Color("#8b008b"), r.Color("Praca"))
	assert.Equal(t, Color("#ff0000"), r.Color("Gym"))
	assert.Equal(t, r.Color("Sen"), r.Color("Sleep"))
	assert.True(t, r.Known("Transport"))
}

func TestRegistry_UnknownFallsBackDeterministically(t *testing.T) {
	r := NewRegistry(nil)
	first := r.Color("Knitting")
	assert.Equal(t, FallbackColor, first)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, r.Color("Knitting"))
	}
	assert.False(t, r.Known("Knitting"))
}

func TestRegistry_OverridesTakePrecedence(t *testing.T) {
	r := NewRegistry(map[string]Color{
		"Work":    "#123456",
		"Commute": "#abcdef",
	})
	assert.Equal(t, Color("#123456"), r.Color("Work"))
	assert.Equal(t, Color("#abcdef"), r.Color("Commute"))
	assert.Equal(t, Color("#00008b"), r.Color("Sleep"))

	declared := r.Declared()
	assert.Equal(t, "Sen", declared[0])
	assert.Equal(t, "Commute", declared[len(declared)-1])
}

func TestRegistry_DeclaredOrderFirst(t *testing.T) {
	r := NewRegistryWithOrder(nil, []string{"Work", "Sleep", "Work"})
	declared := r.Declared()
	assert.Equal(t, []string{"Work", "Sleep", "Sen"}, declared[:3])

	declared[0] = "mutated"
	assert.Equal(t, "Work", r.Declared()[0])
}

func TestParseColor(t *testing.T) {
	cases := map[string]Color{
		"darkblue":  "#00008b",
		" Gray ":    "#808080",
		"#ABCDEF":   "#abcdef",
		"#abc":      "#aabbcc",
		"lightgray": FallbackColor,
	}
	for in, want := range cases {
		got, err := ParseColor(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "notacolor", "#12345", "#ggg"} {
		_, err := ParseColor(bad)
		assert.Error(t, err, bad)
	}
}

func TestColor_RGB(t *testing.T) {
	r, g, b := Color("#8b4513").RGB()
	assert.Equal(t, []uint8{0x8b, 0x45, 0x13}, []uint8{r, g, b})

	r, g, b = Color("bogus").RGB()
	assert.Equal(t, []uint8{0, 0, 0}, []uint8{r, g, b})
}

func TestLoadPalette(t *testing.T) {
	path := filepath.Join(t.TempDir(), "palette.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
colors:
  Work: "#1F77B4"
  Commute: gray
order: [Commute, Work]
`), 0o644))

	p, err := LoadPalette(path)
	require.NoError(t, err)
	assert.Equal(t, Color("#1f77b4"), p.Colors["Work"])
	assert.Equal(t, Color("#808080"), p.Colors["Commute"])

	r := p.Registry()
	assert.Equal(t, Color("#1f77b4"), r.Color("Work"))
	assert.Equal(t, []string{"Commute", "Work"}, r.Declared()[:2])
}

func TestLoadPalette_Errors(t *testing.T) {
	_, err := LoadPalette(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = ParsePalette([]byte("colors:\n  Work: chartreuse-ish\n"))
	assert.ErrorContains(t, err, `"Work"`)

	_, err = ParsePalette([]byte("colors: [not, a, map]"))
	assert.Error(t, err)
}

func TestLoadPalette_EmptyPath(t *testing.T) {
	p, err := LoadPalette("")
	require.NoError(t, err)
	assert.Equal(t, NewRegistry(nil).Declared(), p.Registry().Declared())
}

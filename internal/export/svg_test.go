package export

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alexanderramin/weekplot/internal/aggregate"
	"github.com/alexanderramin/weekplot/internal/domain"
	"github.com/alexanderramin/weekplot/internal/layout"
	"github.com/alexanderramin/weekplot/internal/panel"
	"github.com/alexanderramin/weekplot/internal/render"
	"github.com/alexanderramin/weekplot/internal/schedule"
	"github.com/alexanderramin/weekplot/internal/style"
	"github.com/alexanderramin/weekplot/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// goldenTest compares got against testdata/<name>. Set GOLDEN_UPDATE=1 to
// regenerate golden files.
func goldenTest(t *testing.T, name string, got []byte) {
	t.Helper()

	goldenPath := filepath.Join("testdata", name)

	if os.Getenv("GOLDEN_UPDATE") == "1" {
		require.NoError(t, os.MkdirAll("testdata", 0755))
		require.NoError(t, os.WriteFile(goldenPath, got, 0644))
		t.Logf("updated golden file: %s", goldenPath)
		return
	}

	expected, err := os.ReadFile(goldenPath)
	if os.IsNotExist(err) {
		t.Fatalf("golden file %s does not exist; run with GOLDEN_UPDATE=1 to create it", goldenPath)
	}
	require.NoError(t, err)

	assert.Equal(t, string(expected), string(got),
		"output does not match golden file %s; run with GOLDEN_UPDATE=1 to update", goldenPath)
}

func smallScene() render.Scene {
	return render.Scene{
		Width:      100,
		Height:     50,
		Background: "#ffffff",
		Elements: []render.Element{
			{Kind: render.KindRect, X: 10, Y: 5, W: 20.004, H: 10, Fill: "#8b008b", Opacity: 1,
				Category: "Work", Series: true, Hover: "Category: Work"},
			{Kind: render.KindSector, CX: 50, CY: 25, R0: 4, R1: 10, A0: 0, A1: math.Pi / 2,
				Fill: "#00008b", Stroke: "#ffffff", StrokeWidth: 1, Opacity: 1, Category: "Sleep"},
			{Kind: render.KindLine, X: 0, Y: 45, X2: 100, Y2: 45, Stroke: "#333333", StrokeWidth: 1, Opacity: 1},
			{Kind: render.KindText, X: 50, Y: 48, Text: "A & B <x>", FontSize: 12,
				Anchor: render.AnchorMiddle, Fill: "#333333", Opacity: 1},
			{Kind: render.KindText, X: 50, Y: 10, Text: "Title", FontSize: 24, Bold: true,
				Anchor: render.AnchorMiddle, Fill: "#000000", Opacity: 1},
		},
	}
}

func compositeCanvas(t *testing.T, records []schedule.Record) *layout.Canvas {
	t.Helper()
	reg := style.NewRegistry(nil)
	weekly := aggregate.WeeklyByCategory(records, reg.Declared())
	days := aggregate.PerDay(records, reg.Declared())

	timeline, _ := panel.Timeline(weekly, reg, domain.DisplayOrder(true))
	summary, _ := panel.Summary(weekly, reg)
	grid, _ := panel.ProportionGrid(days, reg)

	e, err := layout.NewEngine(layout.DefaultPlan())
	require.NoError(t, err)
	c, err := e.Compose(timeline, summary, grid)
	require.NoError(t, err)
	return c
}

func TestSVG_Golden(t *testing.T) {
	goldenTest(t, "scene.golden.svg", SVG(smallScene()))
}

func TestSVG_CompositeIsWellFormed(t *testing.T) {
	out := SVG(render.Build(compositeCanvas(t, testutil.SampleWeek())))

	dec := xml.NewDecoder(bytes.NewReader(out))
	var root string
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		if se, ok := tok.(xml.StartElement); ok && root == "" {
			root = se.Name.Local
		}
	}
	assert.Equal(t, "svg", root)
	assert.Contains(t, string(out), `width="1920" height="1080"`)
	assert.Contains(t, string(out), `data-category="Knitting"`)
	assert.Contains(t, string(out), `class="series"`)
}

func TestSVG_ByteIdenticalAcrossBuilds(t *testing.T) {
	a := SVG(render.Build(compositeCanvas(t, testutil.SampleWeek())))
	b := SVG(render.Build(compositeCanvas(t, testutil.SampleWeek())))
	assert.True(t, bytes.Equal(a, b))
}

func TestNum(t *testing.T) {
	assert.Equal(t, "0", num(-0.001))
	assert.Equal(t, "1.5", num(1.5))
	assert.Equal(t, "3.33", num(10.0/3))
	assert.Equal(t, "-2.25", num(-2.249))
}

func TestEscapeXML(t *testing.T) {
	assert.Equal(t, "Odpoczynek &amp; &quot;rozrywka&quot; &apos;x&apos;", escapeXML(`Odpoczynek & "rozrywka" 'x'`))
	assert.False(t, strings.Contains(escapeXML("<script>"), "<"))
}

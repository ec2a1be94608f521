package export

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/alexanderramin/weekplot/internal/highlight"
	"github.com/alexanderramin/weekplot/internal/render"
)

// The script mirrors highlight.Transition: a click outside any tagged mark
// clears the selection, a mark without a category keeps it, anything else
// selects the mark's category. Opacities are applied to timeline series.
var pageTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<link rel="stylesheet" href="https://fonts.googleapis.com/css2?family=Roboto:wght@400;700&family=Roboto+Slab:wght@400;700&display=swap">
<style>
body { margin: 0; background: #ffffff; font-family: Roboto, sans-serif; color: #333333; }
#report svg { display: block; max-width: 100%; height: auto; }
#report .series { cursor: pointer; }
.hint { margin: 8px 16px; font-size: 14px; }
</style>
</head>
<body>
<div id="report">
{{.SVG}}</div>
<p class="hint">Click a bar in the activity timeline to dim the other categories. Click empty space to reset.</p>
<script>
(function () {
  var selectedOpacity = {{.Selected}};
  var dimmedOpacity = {{.Dimmed}};
  var svg = document.querySelector("#report svg");
  var selected = null;

  function apply() {
    svg.querySelectorAll(".series").forEach(function (el) {
      var cat = el.getAttribute("data-category");
      var o = (selected === null || cat === selected) ? selectedOpacity : dimmedOpacity;
      el.setAttribute("opacity", String(o));
    });
  }

  svg.addEventListener("click", function (ev) {
    var mark = ev.target.closest("[data-category]");
    if (mark === null) {
      selected = null;
    } else {
      var cat = mark.getAttribute("data-category");
      if (!cat) {
        return;
      }
      selected = cat;
    }
    apply();
  });
})();
</script>
</body>
</html>
`))

type page struct {
	Title    string
	SVG      template.HTML
	Selected float64
	Dimmed   float64
}

// HTML renders scene as an interactive document with the SVG inlined.
func HTML(scene render.Scene, title string) ([]byte, error) {
	var svg bytes.Buffer
	writeSVGBody(&svg, scene)

	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, page{
		Title:    title,
		SVG:      template.HTML(svg.String()),
		Selected: highlight.SelectedOpacity,
		Dimmed:   highlight.DimmedOpacity,
	})
	if err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return buf.Bytes(), nil
}

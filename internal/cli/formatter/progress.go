package formatter

import (
	"fmt"
	"math"
	"strings"

	"github.com/alexanderramin/weekplot/internal/style"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderShare renders a share bar like [████░░░░]  45.0% in the category
// color. pct is a percentage in [0, 100].
func RenderShare(pct float64, width int, c style.Color) string {
	return fmt.Sprintf("[%s] %5.1f%%", RenderCompactBar(pct, width, c), math.Max(0, math.Min(100, pct)))
}

// RenderCompactBar renders the bar of RenderShare without brackets or
// percentage text.
func RenderCompactBar(pct float64, width int, c style.Color) string {
	pct = math.Max(0, math.Min(100, pct))
	if width < 2 {
		width = 2
	}

	filled := int(math.Round(pct / 100 * float64(width)))
	bar := CategoryStyle(c).Render(strings.Repeat(filledBlock, filled))
	return bar + StyleDim.Render(strings.Repeat(emptyBlock, width-filled))
}

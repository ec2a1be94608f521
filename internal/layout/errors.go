package layout

import (
	"fmt"

	"github.com/alexanderramin/weekplot/internal/domain"
)

// LayoutError reports a structural composition problem: an invalid plan, a
// missing or unexpected panel, or a wrong sub-panel count. It is never
// caused by schedule data.
type LayoutError struct {
	Role   domain.PanelKind
	Reason string
}

func (e *LayoutError) Error() string {
	if e.Role == "" {
		return fmt.Sprintf("layout: %s", e.Reason)
	}
	return fmt.Sprintf("layout: %s panel: %s", e.Role, e.Reason)
}

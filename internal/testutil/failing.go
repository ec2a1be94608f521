package testutil

import (
	"context"
	"sync/atomic"

	"github.com/alexanderramin/weekplot/internal/importer"
)

// FailOnNthSource wraps a ScheduleSource and injects Err on the Nth Load
// call. Calls are counted starting at 1.
type FailOnNthSource struct {
	Source importer.ScheduleSource
	FailOn int32
	Err    error

	count atomic.Int32
}

func (s *FailOnNthSource) Load(ctx context.Context) ([]importer.RawRecord, error) {
	n := s.count.Add(1)
	if n == s.FailOn {
		return nil, s.Err
	}
	return s.Source.Load(ctx)
}

// Calls returns how many times Load ran.
func (s *FailOnNthSource) Calls() int {
	return int(s.count.Load())
}

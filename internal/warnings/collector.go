// Package warnings implements the Warning Collector (§4.7): an
// insertion-ordered sink for non-fatal Diagnostics. The pipeline passes it
// to the typecheck phase (the only phase that raises warnings), so a
// warning reaches the caller alongside whatever result that phase produced.
package warnings

import "github.com/veil-lang/veil/internal/errors"

// Collector accumulates warning-severity Diagnostics in the order they were
// added. It is not safe for concurrent use — the pipeline is single-threaded
// per compilation unit (§5), so no locking is attempted.
type Collector struct {
	items []*errors.Diagnostic
}

// New returns an empty Collector.
func New() *Collector {
	return &Collector{}
}

// Add appends diag. Add panics if diag's Severity is not SeverityWarning —
// a fatal Diagnostic belongs on the (T, error) return path of whichever
// phase produced it, never in the collector.
func (c *Collector) Add(diag *errors.Diagnostic) {
	if diag.Severity != errors.SeverityWarning {
		panic("warnings: Collector.Add called with a non-warning Diagnostic: " + string(diag.Code))
	}
	c.items = append(c.items, diag)
}

// Drain returns every collected Diagnostic in insertion order and empties
// the Collector.
func (c *Collector) Drain() []*errors.Diagnostic {
	out := c.items
	c.items = nil
	return out
}

// Len reports how many warnings are currently held without draining them.
func (c *Collector) Len() int {
	return len(c.items)
}

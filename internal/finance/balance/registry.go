package balance

import (
	"log/slog"
	"sync"
)

// Registry hands out one View per company, so repeated queries for the same
// company reuse the memoized snapshot and overlapping refreshes share the
// same epoch guard.
type Registry struct {
	source Source
	logger *slog.Logger

	mu    sync.Mutex
	views map[int64]*View
}

func NewRegistry(source Source, logger *slog.Logger) *Registry {
	return &Registry{source: source, logger: logger, views: make(map[int64]*View)}
}

// For returns the view bound to the given company, creating it on first use.
func (r *Registry) For(companyID int64) *View {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.views[companyID]
	if !ok {
		v = NewView(r.source, r.logger)
		v.Select(companyID)
		r.views[companyID] = v
	}
	return v
}

// Invalidate drops the memoized inputs for one company, forcing the next
// refresh to recompute. Called when the ledger or account directory changes.
func (r *Registry) Invalidate(companyID int64) {
	r.mu.Lock()
	v, ok := r.views[companyID]
	r.mu.Unlock()
	if ok {
		v.Invalidate()
	}
}

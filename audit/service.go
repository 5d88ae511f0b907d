// audit/service.go

// Package audit implements the recurring compliance-audit and remediation
// workflow engine: reusable checklist templates, audit runs with a strictly
// forward lifecycle, remediation action plans with append-only status
// history, and the read-side due-date and overdue accounting the dashboards
// are built on. One parameterized service covers all audit categories; the
// per-category differences live in the category rule table.
package audit

// Actor identifies the caller as resolved by the surrounding application's
// identity layer. The engine treats the id as an opaque stable string.
type Actor struct {
	ID   string
	Name string
}

// Service is the engine. It has no internal threads or timers: due dates and
// overdue sets are computed lazily on read, and all mutations are single
// atomic store calls.
type Service struct {
	store  Store
	events EventSink
}

// NewService wires the engine to its persistence boundary. A nil sink
// disables event publication.
func NewService(store Store, events EventSink) *Service {
	if events == nil {
		events = noopSink{}
	}
	return &Service{store: store, events: events}
}

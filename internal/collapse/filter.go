package collapse

import "log/slog"

// EventFilter admits records of a single event type per run. Mixing
// event types (instructions against cycles, say) would sum unrelated
// quantities, so when no type is pinned the first one seen wins.
type EventFilter struct {
	value     string
	defaulted bool
	warned    bool
	log       *slog.Logger
}

// NewEventFilter creates a filter pinned to value, or an auto-detecting
// filter when value is empty.
func NewEventFilter(value string, log *slog.Logger) *EventFilter {
	if log == nil {
		log = slog.Default()
	}
	return &EventFilter{value: value, log: log}
}

// Admit reports whether a record bearing this event type may pass. The
// first type seen by an unpinned filter becomes the filter value. On the
// first rejection after auto-detection, the retained type is logged once.
func (f *EventFilter) Admit(event string) bool {
	if f.value == "" {
		f.value = event
		f.defaulted = true
		return true
	}
	if event == f.value {
		return true
	}
	if f.defaulted && !f.warned {
		f.log.Warn("input contains multiple event types, filtering", "event", f.value)
		f.warned = true
	}
	return false
}

// Value returns the active filter value, empty until pinned or detected.
func (f *EventFilter) Value() string {
	return f.value
}

package fold

import (
	"fmt"
	"io"
	"sort"
)

// Table accumulates occurrence counts keyed by folded stack string.
// It is owned by a single goroutine for the duration of a run.
type Table struct {
	counts map[string]int
}

// NewTable creates an empty aggregation table.
func NewTable() *Table {
	return &Table{counts: make(map[string]int)}
}

// Add increments the count for key by weight. Absent keys start at zero.
func (t *Table) Add(key string, weight int) {
	t.counts[key] += weight
}

// Len returns the number of distinct folded stacks seen so far.
func (t *Table) Len() int {
	return len(t.counts)
}

// Count returns the accumulated count for key, zero if never added.
func (t *Table) Count(key string) int {
	return t.counts[key]
}

// WriteTo emits every entry as "<key> <count>\n", sorted by key in
// byte-wise order. It implements io.WriterTo.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	keys := make([]string, 0, len(t.counts))
	for k := range t.counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var written int64
	for _, k := range keys {
		n, err := fmt.Fprintf(w, "%s %d\n", k, t.counts[k])
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

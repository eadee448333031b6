// Package collapse reconstructs call-stack records from classified
// profiler lines and folds them into an aggregation table.
//
// The Collapser is a single-owner state machine: frame lines arrive
// most-recent-call-first and are prepended to the open record's stack, a
// blank line seals the record, and the sealed stack joins the table under
// its semicolon-folded key. Records whose event type fails the filter, or
// whose header never parsed, are consumed and dropped.
package collapse

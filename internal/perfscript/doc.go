// Package perfscript classifies lines of a profiler's textual trace dump.
//
// The dump is record oriented: an event header line, one or more frame
// lines in most-recent-call-first order, and a blank terminator line,
// interleaved with # comments. Classify turns each raw line into a tagged
// Line value carrying its parsed fields, so the record state machine in
// internal/collapse never touches raw text.
package perfscript

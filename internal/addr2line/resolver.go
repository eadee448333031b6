// Package addr2line resolves a program counter in a binary to the chain
// of function names that compiler inlining collapsed into that address.
//
// Resolution shells out to an external addr2line-compatible tool once per
// frame line. The capability is exposed as a plain function type so the
// record state machine can be tested with a fake resolver.
package addr2line

import (
	"log/slog"
	"os/exec"
	"regexp"
	"strings"
)

// ResolveFunc returns the root-first inlined call chain at pc within
// module. An empty chain means resolution failed or produced nothing;
// callers treat that as "no frames from this line", never as an error.
type ResolveFunc func(pc, module string) []string

// Resolver invokes an external symbolizing tool.
type Resolver struct {
	tool        string
	withContext bool
	log         *slog.Logger
}

// New creates a Resolver using the given tool binary. With withContext
// set, each resolved frame carries its source location as "name:loc".
func New(tool string, withContext bool) *Resolver {
	return &Resolver{
		tool:        tool,
		withContext: withContext,
		log:         slog.With("component", "addr2line"),
	}
}

// Resolve runs the tool for one address. The subprocess blocks the
// pipeline until it exits; its stderr is discarded and any failure is
// reported as an empty chain.
func (r *Resolver) Resolve(pc, module string) []string {
	out, err := exec.Command(r.tool, "-a", pc, "-e", module, "-i", "-f", "-s", "-C").Output()
	if err != nil {
		r.log.Debug("inline resolution failed", "pc", pc, "module", module, "err", err)
		return nil
	}
	return parseOutput(string(out), r.withContext)
}

var discriminatorRe = regexp.MustCompile(`\s\(discriminator \d+\)`)

// parseOutput consumes the tool's output: an address echo line, then
// alternating function-name and location lines, innermost frame first.
// The returned chain is root first.
func parseOutput(out string, withContext bool) []string {
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) < 2 {
		return nil
	}
	// First line echoes the address back (the -a flag); skip it.
	lines = lines[1:]

	var chain []string
	for i := 0; i+1 < len(lines); i += 2 {
		name := lines[i]
		loc := discriminatorRe.ReplaceAllString(lines[i+1], "")
		if name == "??" {
			continue
		}
		frame := name
		if withContext {
			frame = name + ":" + loc
		}
		chain = append([]string{frame}, chain...)
	}
	return chain
}

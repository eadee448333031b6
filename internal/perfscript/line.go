package perfscript

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Kind identifies the shape of one input line.
type Kind int

const (
	// KindBlank terminates the current record.
	KindBlank Kind = iota
	// KindComment is a # line with no further meaning.
	KindComment
	// KindCmdline is the "# cmdline" metadata comment naming the
	// profiled invocation.
	KindCmdline
	// KindHeader opens a record: command, pid/tid, optional event type.
	KindHeader
	// KindFrame is one stack level: pc, raw function text, module.
	KindFrame
	// KindUnrecognized matches none of the known shapes.
	KindUnrecognized
)

// Line is one classified input line. Only the fields for its Kind are set.
type Line struct {
	Kind Kind

	// Header fields. PID is "?" when the header carried a single id,
	// which perf prints for the thread. Event is "" when the header has
	// no trailing event tag.
	Comm  string
	PID   string
	TID   string
	Event string

	// Cmdline field: basename of the last non-flag token.
	Target string

	// Frame fields.
	PC     string
	Func   string
	Module string
}

var (
	headerRe = regexp.MustCompile(`^(\S.+?)\s+(\d+)/*(\d+)*\s+`)
	// The optional digit run before the event name is the sample period;
	// it is recognized so the event tag anchors correctly, but every
	// record still counts once.
	eventRe = regexp.MustCompile(`:\s*(\d+)*\s+(\S+):\s*$`)
	frameRe = regexp.MustCompile(`^\s*(\w+)\s*(.+) \((.*)\)$`)
)

// Classify parses one raw input line into its tagged form. Classification
// order matters: cmdline before generic comments, comments before headers,
// headers before frames.
func Classify(raw string) Line {
	if strings.HasPrefix(raw, "#") {
		if strings.HasPrefix(raw, "# cmdline") || strings.HasPrefix(raw, "#cmdline") {
			return Line{Kind: KindCmdline, Target: cmdlineTarget(raw)}
		}
		return Line{Kind: KindComment}
	}

	if raw == "" {
		return Line{Kind: KindBlank}
	}

	if m := headerRe.FindStringSubmatch(raw); m != nil {
		ln := Line{Kind: KindHeader, Comm: m[1], PID: m[2], TID: m[3]}
		if ln.TID == "" {
			// Single id: perf printed only the tid.
			ln.TID = ln.PID
			ln.PID = "?"
		}
		if em := eventRe.FindStringSubmatch(raw); em != nil {
			ln.Event = em[2]
		}
		return ln
	}

	if m := frameRe.FindStringSubmatch(raw); m != nil {
		return Line{Kind: KindFrame, PC: m[1], Func: m[2], Module: m[3]}
	}

	return Line{Kind: KindUnrecognized}
}

// cmdlineTarget extracts the profiled process name from a "# cmdline"
// comment: the last token not starting with "-", path stripped.
func cmdlineTarget(raw string) string {
	var target string
	for i, tok := range strings.Fields(raw) {
		if i == 0 || tok == ":" || strings.HasSuffix(tok, "cmdline") {
			continue
		}
		if strings.HasPrefix(tok, "-") {
			continue
		}
		target = filepath.Base(tok)
	}
	return target
}

package collapse

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"stackfold/internal/addr2line"
	"stackfold/internal/config"
	"stackfold/internal/fold"
	"stackfold/internal/perfscript"
	"stackfold/internal/symbol"
)

// Frame lines are occasionally enormous (deep C++ template symbols), so
// the scanner gets generous room before a record would split.
const maxLineSize = 1 << 20

// Pseudo modules (JIT maps, kernel images, bracketed synthetic names)
// carry no debug info worth handing to the inline resolver.
var pseudoModuleRe = regexp.MustCompile(`(perf-\d+\.map|kernel\.|\[[^\]]+\])`)

// Collapser folds profiler records into an aggregation table. It owns
// all mutable run state; one Collapser serves one run, fed by a single
// goroutine.
type Collapser struct {
	opts    config.Options
	norm    *symbol.Normalizer
	filter  *EventFilter
	resolve addr2line.ResolveFunc
	table   *fold.Table
	log     *slog.Logger

	// Open-record state. An empty label means the current record's
	// header was filtered out or never seen, and its frames are being
	// discarded.
	stack  []string
	label  string
	target string
}

// New creates a Collapser writing into table. resolve may be nil; it is
// only consulted when inline resolution is enabled in opts.
func New(opts config.Options, table *fold.Table, resolve addr2line.ResolveFunc, log *slog.Logger) *Collapser {
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "collapse")
	return &Collapser{
		opts: opts,
		norm: symbol.NewNormalizer(symbol.Options{
			TidyGeneric:    opts.TidyGeneric,
			TidyJava:       opts.TidyJava,
			AnnotateKernel: opts.AnnotateKernel,
			AnnotateJit:    opts.AnnotateJit,
			IncludeAddrs:   opts.IncludeAddrs,
		}),
		filter:  NewEventFilter(opts.EventFilter, log),
		resolve: resolve,
		table:   table,
		log:     log,
	}
}

// Consume reads r to exhaustion, folding every complete record into the
// table. A record still open at EOF is sealed as if a terminator line
// followed, so truncated dumps lose nothing. Consume may be called again
// with further inputs; counts keep accumulating.
func (c *Collapser) Consume(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	for scanner.Scan() {
		c.handleLine(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	c.endRecord()
	return nil
}

// Target returns the process name remembered from the "# cmdline"
// metadata comment, if the input carried one. Diagnostic only.
func (c *Collapser) Target() string {
	return c.target
}

func (c *Collapser) handleLine(raw string) {
	ln := perfscript.Classify(raw)
	switch ln.Kind {
	case perfscript.KindCmdline:
		if ln.Target != "" {
			c.target = ln.Target
			c.log.Debug("profiled command", "target", c.target)
		}
	case perfscript.KindComment:
		// skip
	case perfscript.KindBlank:
		c.endRecord()
	case perfscript.KindHeader:
		c.handleHeader(ln)
	case perfscript.KindFrame:
		c.handleFrame(ln)
	default:
		c.log.Warn("unrecognized line", "line", raw)
	}
}

// handleHeader opens a record. A header whose event type fails the
// filter leaves the label unset so the record's frames are dropped.
func (c *Collapser) handleHeader(ln perfscript.Line) {
	if ln.Event != "" && !c.filter.Admit(ln.Event) {
		c.label = ""
		return
	}
	c.label = buildLabel(ln.Comm, ln.PID, ln.TID, c.opts)
}

// handleFrame prepends one frame line's functions to the open stack.
func (c *Collapser) handleFrame(ln perfscript.Line) {
	if c.label == "" {
		return
	}

	raw := symbol.StripOffset(ln.Func)

	if c.opts.ShowInline && c.resolve != nil && !pseudoModuleRe.MatchString(ln.Module) {
		if chain := c.resolve(ln.PC, ln.Module); len(chain) > 0 {
			c.stack = append(chain, c.stack...)
		}
		return
	}

	// Process-name noise sometimes shows up where a symbol belongs.
	if strings.HasPrefix(raw, "(") {
		return
	}

	parts := strings.Split(raw, "->")
	frames := make([]string, 0, len(parts))
	for i, part := range parts {
		name := c.norm.ResolveUnknown(part, ln.Module, ln.PC)
		name = c.norm.Clean(name, c.label)
		name = c.norm.Annotate(name, ln.Module, i > 0)
		frames = append(frames, name)
	}
	c.stack = append(frames, c.stack...)
}

// endRecord seals the open record into the table and resets for the
// next one. Records without a captured process identity are discarded.
func (c *Collapser) endRecord() {
	if c.label != "" {
		stack := c.stack
		if c.opts.IncludePname {
			stack = append([]string{c.label}, stack...)
		}
		if len(stack) > 0 {
			c.table.Add(strings.Join(stack, ";"), 1)
		}
	}
	c.stack = nil
	c.label = ""
}

// buildLabel renders the process identity per configuration. Spaces are
// replaced so downstream consumers that split output on whitespace do
// not mistake half a command name for a frame.
func buildLabel(comm, pid, tid string, opts config.Options) string {
	var label string
	switch {
	case opts.IncludeTID:
		label = fmt.Sprintf("%s-%s/%s", comm, pid, tid)
	case opts.IncludePID:
		label = fmt.Sprintf("%s-%s", comm, pid)
	default:
		label = comm
	}
	return strings.ReplaceAll(label, " ", "_")
}

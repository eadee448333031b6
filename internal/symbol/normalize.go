package symbol

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// UnknownToken is the placeholder the profiler prints when it could not
// resolve an address to a symbol.
const UnknownToken = "[unknown]"

// Options controls normalization and annotation behavior.
type Options struct {
	// TidyGeneric applies language-agnostic cleanup: ';' escaping and
	// signature stripping. On by default.
	TidyGeneric bool
	// TidyJava condenses Java mangled signatures when the owning process
	// is a Java runtime. On by default.
	TidyJava bool
	// AnnotateKernel appends _[k] to frames from kernel modules.
	AnnotateKernel bool
	// AnnotateJit appends _[j] to frames from JIT map files.
	AnnotateJit bool
	// IncludeAddrs keeps the raw program counter on unresolved frames.
	IncludeAddrs bool
}

// DefaultOptions matches the profiler's conventional cleanup: tidy
// everything, annotate nothing.
func DefaultOptions() Options {
	return Options{TidyGeneric: true, TidyJava: true}
}

// Normalizer cleans one raw frame token at a time. Safe for reuse across
// records; it carries no per-record state.
type Normalizer struct {
	opts Options
}

// NewNormalizer creates a Normalizer with the given options.
func NewNormalizer(opts Options) *Normalizer {
	return &Normalizer{opts: opts}
}

var (
	offsetRe = regexp.MustCompile(`\+0x[\da-f]+$`)
	// Go method symbols look like "pkg.(*Type).Method"; their parentheses
	// are part of the name, not a signature.
	goMethodRe = regexp.MustCompile(`\.\(.*\)\.`)
	jitModRe   = regexp.MustCompile(`/tmp/perf-\d+\.map`)
)

// StripOffset removes a trailing "+0x<hex>" symbol-offset artifact.
func StripOffset(raw string) string {
	return offsetRe.ReplaceAllString(raw, "")
}

// IsJavaLabel reports whether a process label denotes a Java runtime.
// Labels carry optional -PID/TID suffixes, so "java" and "java-123/7"
// both qualify.
func IsJavaLabel(label string) bool {
	return label == "java" || strings.HasPrefix(label, "java-")
}

// ResolveUnknown substitutes the unresolved-symbol placeholder with the
// module's base name when the module is known, bracketed either way.
// Other names pass through untouched.
func (n *Normalizer) ResolveUnknown(name, module, pc string) string {
	if name != UnknownToken {
		return name
	}
	resolved := "unknown"
	if module != UnknownToken {
		resolved = filepath.Base(module)
	}
	if n.opts.IncludeAddrs {
		return fmt.Sprintf("[%s <%s>]", resolved, pc)
	}
	return fmt.Sprintf("[%s]", resolved)
}

// Clean applies generic and runtime-specific cleanup to a function name.
// The process label gates Java cleanup only.
func (n *Normalizer) Clean(name, label string) string {
	if n.opts.TidyGeneric {
		name = strings.ReplaceAll(name, ";", ":")
		if !goMethodRe.MatchString(name) {
			name = truncateSignature(name)
		}
		name = strings.ReplaceAll(name, `"`, "")
		name = strings.ReplaceAll(name, "'", "")
	}
	if n.opts.TidyJava && IsJavaLabel(label) {
		// JVM symbol agents emit type descriptors like
		// "Lorg/example/Thing;method"; the leading L is noise.
		if strings.Contains(name, "/") {
			name = strings.TrimPrefix(name, "L")
		}
	}
	return name
}

// Annotate appends the frame's origin marker, at most one. Inlined wins
// over kernel, kernel over jitted.
func (n *Normalizer) Annotate(name, module string, inlined bool) string {
	switch {
	case inlined:
		if !strings.Contains(name, "_[i]") {
			name += "_[i]"
		}
	case n.opts.AnnotateKernel &&
		(strings.HasPrefix(module, "[") || strings.HasSuffix(module, "vmlinux")) &&
		!strings.Contains(module, "unknown"):
		name += "_[k]"
	case n.opts.AnnotateJit && jitModRe.MatchString(module):
		if !strings.Contains(name, "_[j]") {
			name += "_[j]"
		}
	}
	return name
}

// truncateSignature drops everything from the first parenthesis onward,
// except that a literal "(anonymous namespace)" component is part of the
// name and survives.
func truncateSignature(name string) string {
	const anonNS = "(anonymous namespace)"
	for i := 0; i < len(name); i++ {
		if name[i] != '(' {
			continue
		}
		if strings.HasPrefix(name[i:], anonNS) {
			i += len(anonNS) - 1
			continue
		}
		return name[:i]
	}
	return name
}

// Package config holds the run configuration for stackfold.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Options is the full set of processing knobs, populated from flags with
// environment defaults and passed explicitly through the pipeline.
type Options struct {
	// IncludePname prefixes each folded stack with its process label.
	IncludePname bool
	// IncludePID appends the process id to the process label.
	IncludePID bool
	// IncludeTID appends thread and process ids to the label. Implies
	// IncludePID.
	IncludeTID bool
	// ShowInline resolves inlined call chains through the external tool.
	ShowInline bool
	// ShowContext adds source file:line context to inline-resolved frames.
	ShowContext bool
	// AnnotateKernel marks kernel frames with _[k].
	AnnotateKernel bool
	// AnnotateJit marks JIT-compiled frames with _[j].
	AnnotateJit bool
	// IncludeAddrs keeps raw addresses on unresolved symbols.
	IncludeAddrs bool
	// TidyGeneric applies language-agnostic symbol cleanup.
	TidyGeneric bool
	// TidyJava condenses Java mangled signatures for Java processes.
	TidyJava bool
	// EventFilter pins the event type to aggregate. Empty means
	// auto-detect from the first record seen.
	EventFilter string
	// Addr2line is the external address resolution tool.
	Addr2line string
	// Verbose enables debug diagnostics on stderr.
	Verbose bool
}

// envOverrides are the environment defaults recognized before flag
// parsing. Flags always win.
type envOverrides struct {
	Addr2line   string `env:"STACKFOLD_ADDR2LINE"`
	EventFilter string `env:"STACKFOLD_EVENT_FILTER"`
}

// Default returns the conventional configuration: process names on,
// symbol tidying on, no annotations, stock addr2line.
func Default() Options {
	return Options{
		IncludePname: true,
		TidyGeneric:  true,
		TidyJava:     true,
		Addr2line:    "addr2line",
	}
}

// ApplyEnv overlays environment defaults onto o.
func (o *Options) ApplyEnv() error {
	var ov envOverrides
	if err := env.Parse(&ov); err != nil {
		return fmt.Errorf("parsing environment config: %w", err)
	}
	if ov.Addr2line != "" {
		o.Addr2line = ov.Addr2line
	}
	if ov.EventFilter != "" {
		o.EventFilter = ov.EventFilter
	}
	return nil
}

// Resolve settles inter-option implications: thread ids are only
// meaningful alongside process ids.
func (o *Options) Resolve() {
	if o.IncludeTID {
		o.IncludePID = true
	}
}

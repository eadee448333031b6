package perfscript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_Header(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Line
	}{
		{
			name: "pid and tid with event",
			line: "java 12688/12764 6544038.708352: cpu-clock:",
			want: Line{Kind: KindHeader, Comm: "java", PID: "12688", TID: "12764", Event: "cpu-clock"},
		},
		{
			name: "single id becomes tid",
			line: "swapper     0 [000] 158665.570607: cpu-clock:",
			want: Line{Kind: KindHeader, Comm: "swapper", PID: "?", TID: "0", Event: "cpu-clock"},
		},
		{
			name: "comm with spaces",
			line: "My App  100/200 158665.570607: cycles:",
			want: Line{Kind: KindHeader, Comm: "My App", PID: "100", TID: "200", Event: "cycles"},
		},
		{
			name: "period digits before event",
			line: "bash  1603/1603  2045.157759:     250000 cpu-clock:",
			want: Line{Kind: KindHeader, Comm: "bash", PID: "1603", TID: "1603", Event: "cpu-clock"},
		},
		{
			name: "no event tag",
			line: "bash  1603/1603  2045.157759",
			want: Line{Kind: KindHeader, Comm: "bash", PID: "1603", TID: "1603"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.line))
		})
	}
}

func TestClassify_Frame(t *testing.T) {
	ln := Classify("\tffffffff8104f45a native_safe_halt ([kernel.kallsyms])")
	require.Equal(t, KindFrame, ln.Kind)
	assert.Equal(t, "ffffffff8104f45a", ln.PC)
	assert.Equal(t, "native_safe_halt", ln.Func)
	assert.Equal(t, "[kernel.kallsyms]", ln.Module)
}

func TestClassify_FrameModuleIsLastParens(t *testing.T) {
	ln := Classify("    7f0e23a failed(int) const (/usr/lib/libstdc++.so.6)")
	require.Equal(t, KindFrame, ln.Kind)
	assert.Equal(t, "failed(int) const", ln.Func)
	assert.Equal(t, "/usr/lib/libstdc++.so.6", ln.Module)
}

func TestClassify_FrameWithOffset(t *testing.T) {
	ln := Classify("            ffffffff81173417 default_idle+0x17 (/lib/modules/vmlinux)")
	require.Equal(t, KindFrame, ln.Kind)
	// The offset stays attached here; stripping is the normalizer's job.
	assert.Equal(t, "default_idle+0x17", ln.Func)
}

func TestClassify_CommentAndBlank(t *testing.T) {
	assert.Equal(t, KindComment, Classify("# ========").Kind)
	assert.Equal(t, KindComment, Classify("# captured on: Thu Oct  6").Kind)
	assert.Equal(t, KindBlank, Classify("").Kind)
}

func TestClassify_Cmdline(t *testing.T) {
	ln := Classify("# cmdline : /usr/bin/perf record -g --call-graph dwarf /usr/local/bin/myapp")
	require.Equal(t, KindCmdline, ln.Kind)
	assert.Equal(t, "myapp", ln.Target)
}

func TestClassify_CmdlineAllFlags(t *testing.T) {
	ln := Classify("# cmdline : -g --all")
	require.Equal(t, KindCmdline, ln.Kind)
	assert.Empty(t, ln.Target)
}

func TestClassify_Unrecognized(t *testing.T) {
	assert.Equal(t, KindUnrecognized, Classify("   no module parens here").Kind)
}

func TestClassify_HeaderBeforeFrame(t *testing.T) {
	// A header whose tail happens to look like a frame module must still
	// classify as a header.
	ln := Classify("perf 1234 123.456: probe:foo (deadbeef)")
	assert.Equal(t, KindHeader, ln.Kind)
}

package addr2line

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOutput_SingleFrame(t *testing.T) {
	out := "0x0000000000401126\nmain\nmain.c:4\n"
	assert.Equal(t, []string{"main"}, parseOutput(out, false))
}

func TestParseOutput_InlineChainRootFirst(t *testing.T) {
	// The tool prints innermost first; the chain comes back root first.
	out := "0x0000000000401126\ninner\nutil.h:12\nmiddle\nutil.h:40\nouter\nmain.c:9\n"
	assert.Equal(t, []string{"outer", "middle", "inner"}, parseOutput(out, false))
}

func TestParseOutput_WithContext(t *testing.T) {
	out := "0x0000000000401126\ninner\nutil.h:12\nouter\nmain.c:9\n"
	assert.Equal(t, []string{"outer:main.c:9", "inner:util.h:12"}, parseOutput(out, true))
}

func TestParseOutput_StripsDiscriminator(t *testing.T) {
	out := "0x0000000000401126\ninner\nutil.h:12 (discriminator 3)\n"
	assert.Equal(t, []string{"inner:util.h:12"}, parseOutput(out, true))
}

func TestParseOutput_UnresolvedYieldsEmpty(t *testing.T) {
	assert.Empty(t, parseOutput("0x00000000deadbeef\n??\n??:0\n", false))
	assert.Empty(t, parseOutput("", false))
	assert.Empty(t, parseOutput("0x00000000deadbeef\n", false))
}

func TestResolve_MissingTool(t *testing.T) {
	r := New("definitely-not-a-real-tool-4d7a", false)
	assert.Empty(t, r.Resolve("401126", "/bin/true"))
}

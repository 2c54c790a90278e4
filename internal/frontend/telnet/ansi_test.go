package telnet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestColorize(t *testing.T) {
	result := Colorize(Red, "fumble")
	assert.Equal(t, "\033[31mfumble\033[0m", result)
}

func TestColorf(t *testing.T) {
	result := Colorf(Green, "sum: %d", 42)
	assert.Equal(t, "\033[32msum: 42\033[0m", result)
}

func TestPalette_Paint(t *testing.T) {
	assert.Equal(t, "\033[33mx\033[0m", Palette{Enabled: true}.Paint(Yellow, "x"))
	assert.Equal(t, "x", Palette{}.Paint(Yellow, "x"))
	assert.Equal(t, "", Palette{Enabled: true}.Paint(Yellow, ""))
}

func TestStripANSI(t *testing.T) {
	input := "\033[31mred\033[0m normal \033[1m\033[32mbold green\033[0m"
	assert.Equal(t, "red normal bold green", StripANSI(input))
}

func TestStripANSI_NoEscapes(t *testing.T) {
	input := "plain text"
	assert.Equal(t, input, StripANSI(input))
}

func TestStripANSI_Unterminated(t *testing.T) {
	input := "ok \033[31"
	assert.Equal(t, input, StripANSI(input))
}

func TestPropertyStripANSI_InvertsPaint(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.StringMatching(`[a-zA-Z0-9 \[\]+=→-]{0,40}`).Draw(t, "text")
		color := rapid.SampledFrom([]string{Red, Green, Yellow, Cyan, Bold, BrightWhite}).Draw(t, "color")
		painted := Palette{Enabled: true}.Paint(color, text)
		if got := StripANSI(painted); got != text {
			t.Fatalf("StripANSI(%q) = %q, want %q", painted, got, text)
		}
		if strings.Contains(StripANSI(painted), "\033") {
			t.Fatalf("escape left in %q", painted)
		}
	})
}

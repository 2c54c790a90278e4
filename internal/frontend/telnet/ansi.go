// Package telnet provides a line-oriented Telnet server with optional ANSI
// color for the dice table.
package telnet

import (
	"fmt"
	"strings"
)

// ANSI escape code constants for terminal styling.
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"
	Dim   = "\033[2m"

	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
	White  = "\033[37m"

	BrightGreen  = "\033[92m"
	BrightYellow = "\033[93m"
	BrightCyan   = "\033[96m"
	BrightWhite  = "\033[97m"
)

// Colorize wraps text with the given ANSI color code and a reset suffix.
//
// Precondition: color must be a valid ANSI escape sequence.
// Postcondition: Returns text wrapped with the color code and Reset.
func Colorize(color, text string) string {
	return color + text + Reset
}

// Colorf wraps a formatted string with the given ANSI color code.
func Colorf(color, format string, args ...any) string {
	return color + fmt.Sprintf(format, args...) + Reset
}

// Palette applies colors only when enabled, so clients that asked for
// plain text get no escape sequences.
type Palette struct {
	Enabled bool
}

// Paint colors text when the palette is enabled and returns it unchanged otherwise.
func (p Palette) Paint(color, text string) string {
	if !p.Enabled || text == "" {
		return text
	}
	return Colorize(color, text)
}

// StripANSI removes all ANSI escape sequences (ESC '[' ... 'm') from s.
// An unterminated sequence is kept verbatim.
func StripANSI(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for {
		i := strings.Index(s, "\033[")
		if i < 0 {
			b.WriteString(s)
			return b.String()
		}
		end := strings.IndexByte(s[i+2:], 'm')
		if end < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:i])
		s = s[i+2+end+1:]
	}
}

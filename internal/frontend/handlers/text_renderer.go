package handlers

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/rollkit/internal/frontend/telnet"
	"github.com/cory-johannsen/rollkit/internal/game/command"
)

// RenderOutput formats a shell Output for the player who ran the command.
// Rolls are highlighted; listings and help are plain.
func RenderOutput(p telnet.Palette, out command.Output) string {
	if out.Share {
		return p.Paint(telnet.BrightGreen, out.Text)
	}
	if out.Quit {
		return p.Paint(telnet.Yellow, out.Text)
	}
	return out.Text
}

// RenderError formats a command error as red Telnet text.
func RenderError(p telnet.Palette, err error) string {
	return p.Paint(telnet.Red, "error: "+err.Error())
}

// RenderShared formats another player's roll for the rest of the table.
func RenderShared(p telnet.Palette, name, text string) string {
	return p.Paint(telnet.BrightYellow, fmt.Sprintf("%s rolled %s", name, text))
}

// RenderArrival formats a join notice.
func RenderArrival(p telnet.Palette, name string) string {
	return p.Paint(telnet.Green, fmt.Sprintf("%s joins the table.", name))
}

// RenderDeparture formats a leave notice.
func RenderDeparture(p telnet.Palette, name string) string {
	return p.Paint(telnet.Yellow, fmt.Sprintf("%s leaves the table.", name))
}

// RenderPlayerList formats the names seated at the table.
func RenderPlayerList(p telnet.Palette, names []string) string {
	if len(names) == 0 {
		return p.Paint(telnet.Dim, "Nobody is at the table.")
	}
	return p.Paint(telnet.Green, "At the table: "+strings.Join(names, ", "))
}

// RenderPrompt returns the command prompt.
func RenderPrompt(p telnet.Palette) string {
	return p.Paint(telnet.BrightWhite, "> ")
}

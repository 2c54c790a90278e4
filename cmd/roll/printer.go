package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/cory-johannsen/rollkit/internal/game/command"
)

// record is the -json form of one executed command.
type record struct {
	Command string `json:"command"`
	Text    string `json:"text,omitempty"`
	Result  any    `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
}

// printer writes command results as text or JSON lines.
type printer struct {
	out    io.Writer
	errOut io.Writer
	json   bool
}

// execute runs line and prints its output or error.
//
// Postcondition: ok is false when the command failed.
func (p *printer) execute(ctx context.Context, sh *command.Shell, line string) (out command.Output, ok bool) {
	out, err := sh.Execute(ctx, line)
	if p.json {
		rec := record{Command: line, Text: out.Text, Result: out.Result}
		if err != nil {
			rec.Error = err.Error()
		}
		if encErr := json.NewEncoder(p.out).Encode(rec); encErr != nil {
			fmt.Fprintf(p.errOut, "encoding result: %v\n", encErr)
			return out, false
		}
		return out, err == nil
	}
	if err != nil {
		fmt.Fprintf(p.errOut, "error: %v\n", err)
		return out, false
	}
	if out.Text != "" {
		fmt.Fprintln(p.out, out.Text)
	}
	return out, true
}

// Package handlers provides Telnet session handling for the shared dice table.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/rollkit/internal/frontend/telnet"
	"github.com/cory-johannsen/rollkit/internal/game/command"
)

const welcomeBanner = `
  ROLLKIT dice table

  Every roll you make is shown to everyone at the table.
  Type help for commands, who to see who is here, color on|off to toggle color.
`

// validName accepts 1-24 letters, digits, '_' or '-'.
var validName = regexp.MustCompile(`^[\pL\pN_-]{1,24}$`)

// Executor runs one command line.
type Executor interface {
	Execute(ctx context.Context, line string) (command.Output, error)
}

// TableHandler implements telnet.SessionHandler: it seats the player at a
// shared Table and runs the command shell, broadcasting shared results.
type TableHandler struct {
	shell  Executor
	table  *Table
	logger *zap.Logger
}

// NewTableHandler creates a TableHandler.
//
// Precondition: shell, table and logger must be non-nil.
// Postcondition: Returns a handler ready to serve sessions.
func NewTableHandler(shell Executor, table *Table, logger *zap.Logger) *TableHandler {
	if shell == nil || table == nil || logger == nil {
		panic("handlers: NewTableHandler precondition violated: shell, table and logger must be non-nil")
	}
	return &TableHandler{shell: shell, table: table, logger: logger}
}

// session is the per-connection state. color is read by broadcasting goroutines.
type session struct {
	conn  *telnet.Conn
	color atomic.Bool
	name  string
}

func (s *session) palette() telnet.Palette {
	return telnet.Palette{Enabled: s.color.Load()}
}

// Send implements Sender by writing the notice on its own line followed by a fresh prompt.
func (s *session) Send(n Notice) error {
	p := s.palette()
	var text string
	switch n.Kind {
	case NoticeJoin:
		text = RenderArrival(p, n.From)
	case NoticeLeave:
		text = RenderDeparture(p, n.From)
	default:
		text = RenderShared(p, n.From, n.Text)
	}
	if err := s.conn.WriteLine("\r\n" + text); err != nil {
		return err
	}
	return s.conn.WritePrompt(RenderPrompt(p))
}

// HandleSession implements telnet.SessionHandler.
//
// Postcondition: Returns nil when the player quits, or the error that ended the session.
func (h *TableHandler) HandleSession(ctx context.Context, conn *telnet.Conn) error {
	start := time.Now()
	s := &session{conn: conn}
	s.color.Store(true)

	if err := conn.WriteLine(s.palette().Paint(telnet.BrightCyan, welcomeBanner)); err != nil {
		return fmt.Errorf("sending welcome: %w", err)
	}

	id, err := h.seat(ctx, s)
	if err != nil {
		return err
	}
	logger := h.logger.With(zap.String("session", id.String()), zap.String("name", s.name))

	h.table.Broadcast(id, Notice{Kind: NoticeJoin})
	defer func() {
		h.table.Broadcast(id, Notice{Kind: NoticeLeave})
		h.table.Leave(id)
		logger.Info("session closed", zap.Duration("duration", time.Since(start)))
	}()

	_ = conn.WriteLine(RenderPlayerList(s.palette(), h.table.Names()))

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteLine(s.palette().Paint(telnet.Yellow, "Server shutting down. Goodbye!"))
			return ctx.Err()
		default:
		}

		if err := conn.WritePrompt(RenderPrompt(s.palette())); err != nil {
			return fmt.Errorf("writing prompt: %w", err)
		}
		line, err := conn.ReadLine()
		if errors.Is(err, telnet.ErrLineTooLong) {
			_ = conn.WriteLine(RenderError(s.palette(), err))
			continue
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		quit, err := h.dispatch(ctx, id, s, line, logger)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

// seat asks for a name until one is free and joins the table.
func (h *TableHandler) seat(ctx context.Context, s *session) (uuid.UUID, error) {
	for {
		if err := ctx.Err(); err != nil {
			return uuid.Nil, err
		}
		if err := s.conn.WritePrompt("Your name: "); err != nil {
			return uuid.Nil, fmt.Errorf("writing name prompt: %w", err)
		}
		line, err := s.conn.ReadLine()
		if errors.Is(err, telnet.ErrLineTooLong) {
			continue
		}
		if err != nil {
			return uuid.Nil, fmt.Errorf("reading name: %w", err)
		}
		name := strings.TrimSpace(line)
		if !validName.MatchString(name) {
			_ = s.conn.WriteLine("Names are 1-24 letters, digits, '_' or '-'.")
			continue
		}
		id, err := h.table.Join(name, s)
		if errors.Is(err, ErrNameTaken) {
			_ = s.conn.WriteLine(fmt.Sprintf("%s is already at the table; pick another name.", name))
			continue
		}
		if err != nil {
			return uuid.Nil, err
		}
		s.name = name
		return id, nil
	}
}

// dispatch handles one input line.
//
// Postcondition: Returns quit=true when the session should end.
func (h *TableHandler) dispatch(ctx context.Context, id uuid.UUID, s *session, line string, logger *zap.Logger) (bool, error) {
	parsed := command.Parse(line)
	switch parsed.Command {
	case "":
		return false, nil
	case "who":
		return false, s.conn.WriteLine(RenderPlayerList(s.palette(), h.table.Names()))
	case "color", "colour":
		switch strings.ToLower(parsed.RawArgs) {
		case "on":
			s.color.Store(true)
		case "off":
			s.color.Store(false)
		default:
			return false, s.conn.WriteLine("Usage: color on|off")
		}
		return false, s.conn.WriteLine("Color " + strings.ToLower(parsed.RawArgs) + ".")
	}

	out, err := h.shell.Execute(ctx, line)
	if err != nil {
		logger.Debug("command failed", zap.String("line", line), zap.Error(err))
		return false, s.conn.WriteLine(RenderError(s.palette(), err))
	}
	if out.Text != "" {
		if err := s.conn.WriteLine(RenderOutput(s.palette(), out)); err != nil {
			return false, err
		}
	}
	if out.Share {
		n := h.table.Broadcast(id, Notice{Kind: NoticeRoll, Text: out.Text})
		logger.Debug("roll shared", zap.String("text", out.Text), zap.Int("recipients", n))
	}
	return out.Quit, nil
}

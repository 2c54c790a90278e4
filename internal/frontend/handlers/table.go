package handlers

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNameTaken is returned by Join when another member already uses the name.
var ErrNameTaken = errors.New("name already taken")

// NoticeKind identifies what a Notice reports.
type NoticeKind int

const (
	// NoticeRoll reports a shared command result.
	NoticeRoll NoticeKind = iota
	// NoticeJoin reports a player sitting down.
	NoticeJoin
	// NoticeLeave reports a player leaving.
	NoticeLeave
)

// Notice is an event delivered to the other members of a table.
type Notice struct {
	Kind NoticeKind
	// From is the name of the member the notice is about.
	From string
	// Text is the rendered command result for NoticeRoll.
	Text string
}

// Sender delivers notices to one member.
type Sender interface {
	Send(n Notice) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(n Notice) error

// Send calls f.
func (f SenderFunc) Send(n Notice) error { return f(n) }

type member struct {
	name   string
	sender Sender
}

// Table tracks the players sharing a dice table and fans out their rolls.
//
// Table is safe for concurrent use.
type Table struct {
	mu      sync.RWMutex
	members map[uuid.UUID]*member
	logger  *zap.Logger
}

// NewTable creates an empty Table.
//
// Precondition: logger must be non-nil.
func NewTable(logger *zap.Logger) *Table {
	if logger == nil {
		panic("handlers: NewTable precondition violated: logger must be non-nil")
	}
	return &Table{
		members: make(map[uuid.UUID]*member),
		logger:  logger,
	}
}

// Join seats name at the table and returns its session ID.
//
// Precondition: name must be non-empty; sender must be non-nil.
// Postcondition: Returns ErrNameTaken (wrapped) when the name is in use, compared case-insensitively.
func (t *Table) Join(name string, sender Sender) (uuid.UUID, error) {
	if name == "" || sender == nil {
		panic("handlers: Table.Join precondition violated: name and sender must be set")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, m := range t.members {
		if strings.EqualFold(m.name, name) {
			return uuid.Nil, fmt.Errorf("%w: %q", ErrNameTaken, name)
		}
	}
	id := uuid.New()
	t.members[id] = &member{name: name, sender: sender}
	t.logger.Info("player joined table",
		zap.String("session", id.String()),
		zap.String("name", name),
		zap.Int("members", len(t.members)),
	)
	return id, nil
}

// Leave removes the member with id. Unknown IDs are ignored.
func (t *Table) Leave(id uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	m, ok := t.members[id]
	if !ok {
		return
	}
	delete(t.members, id)
	t.logger.Info("player left table",
		zap.String("session", id.String()),
		zap.String("name", m.name),
		zap.Int("members", len(t.members)),
	)
}

// Names returns the seated names sorted alphabetically.
func (t *Table) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.members))
	for _, m := range t.members {
		names = append(names, m.name)
	}
	sort.Strings(names)
	return names
}

// Broadcast delivers n to every member except from, with n.From set to the
// sender's name. Send failures are logged and skipped.
//
// Postcondition: Returns the number of members n was delivered to; 0 when from is not seated.
func (t *Table) Broadcast(from uuid.UUID, n Notice) int {
	t.mu.RLock()
	sender, ok := t.members[from]
	if !ok {
		t.mu.RUnlock()
		return 0
	}
	n.From = sender.name
	targets := make(map[uuid.UUID]*member, len(t.members))
	for id, m := range t.members {
		if id != from {
			targets[id] = m
		}
	}
	t.mu.RUnlock()

	delivered := 0
	for id, m := range targets {
		if err := m.sender.Send(n); err != nil {
			t.logger.Warn("broadcast delivery failed",
				zap.String("session", id.String()),
				zap.String("name", m.name),
				zap.Error(err),
			)
			continue
		}
		delivered++
	}
	return delivered
}

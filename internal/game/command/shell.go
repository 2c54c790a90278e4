package command

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/rollkit/internal/game/dice"
	"github.com/cory-johannsen/rollkit/internal/game/rolltable"
)

var (
	// ErrUnknownCommand is returned for a line that is neither a command nor a dice notation.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrUsage is returned when a command is given the wrong arguments.
	ErrUsage = errors.New("usage")
	// ErrNoMacros is returned by macro commands when no macro runner is configured.
	ErrNoMacros = errors.New("no macros loaded")
)

// MacroRunner runs named macros.
//
//go:generate mockgen -package=mocks -destination=mocks/mock_macro_runner.go github.com/cory-johannsen/rollkit/internal/game/command MacroRunner
type MacroRunner interface {
	Macros() []string
	Call(ctx context.Context, name string, args ...string) (string, error)
}

// Output is the result of executing one line.
type Output struct {
	// Text is the rendered result shown to the user.
	Text string
	// Result is the structured result for JSON rendering; nil for listings.
	Result any
	// Share reports whether Text should be shown to everyone at the table.
	Share bool
	// Quit reports whether the session should end.
	Quit bool
}

// Shell executes command lines against a Roller, roll content and macros.
//
// Shell is safe for concurrent use when its Roller, Registry and MacroRunner are.
type Shell struct {
	registry *Registry
	roller   *dice.Roller
	tables   *rolltable.Registry
	macros   MacroRunner
	logger   *zap.Logger
}

// NewShell creates a Shell.
//
// Precondition: roller and logger must be non-nil. tables and macros may be nil.
// Postcondition: Returns a Shell with the built-in commands registered.
func NewShell(roller *dice.Roller, tables *rolltable.Registry, macros MacroRunner, logger *zap.Logger) *Shell {
	if roller == nil {
		panic("command: NewShell precondition violated: roller must be non-nil")
	}
	if logger == nil {
		panic("command: NewShell precondition violated: logger must be non-nil")
	}
	if tables == nil {
		tables, _ = rolltable.NewRegistry()
	}
	return &Shell{
		registry: DefaultRegistry(),
		roller:   roller,
		tables:   tables,
		macros:   macros,
		logger:   logger,
	}
}

// Execute parses and runs line. A line that is not a command but parses as a
// dice notation is rolled.
//
// Postcondition: A blank line returns an empty Output and nil error.
func (s *Shell) Execute(ctx context.Context, line string) (Output, error) {
	parsed := Parse(line)
	if parsed.Command == "" {
		return Output{}, nil
	}

	cmd, ok := s.registry.Resolve(parsed.Command)
	if !ok {
		notation := strings.TrimSpace(line)
		if _, err := dice.Parse(notation); err != nil {
			return Output{}, fmt.Errorf("%w %q (type help for a list)", ErrUnknownCommand, parsed.Command)
		}
		cmd, _ = s.registry.Resolve(HandlerRoll)
		parsed = ParseResult{Command: HandlerRoll, Args: []string{notation}, RawArgs: notation}
	}

	s.logger.Debug("executing command",
		zap.String("command", cmd.Name),
		zap.Strings("args", parsed.Args),
	)

	out, err := s.dispatch(ctx, cmd, parsed)
	if err != nil {
		return Output{}, err
	}
	out.Share = IsSharedHandler(cmd.Handler)
	return out, nil
}

func (s *Shell) dispatch(ctx context.Context, cmd *Command, p ParseResult) (Output, error) {
	switch cmd.Handler {
	case HandlerRoll:
		return s.handleRoll(p.RawArgs)
	case HandlerDie:
		return s.handleDie(cmd, p.Args)
	case HandlerDice:
		return s.handleDice(cmd, p.Args)
	case HandlerSum:
		return s.handleSum(cmd, p.Args)
	case HandlerBetween:
		return s.handleBetween(cmd, p.Args)
	case HandlerChoice:
		return s.handleChoice(p.Args)
	case HandlerShuffle:
		return s.handleShuffle(p.Args)
	case HandlerPreset:
		return s.handlePreset(cmd, p.Args)
	case HandlerPresets:
		return s.handlePresets(), nil
	case HandlerTable:
		return s.handleTable(cmd, p.Args)
	case HandlerTables:
		return s.handleTables(), nil
	case HandlerMacro:
		return s.handleMacro(ctx, cmd, p.Args)
	case HandlerMacros:
		return s.handleMacros()
	case HandlerHelp:
		return Output{Text: s.help()}, nil
	case HandlerQuit:
		return Output{Text: "Goodbye.", Quit: true}, nil
	default:
		return Output{}, fmt.Errorf("command %q has no handler %q", cmd.Name, cmd.Handler)
	}
}

func usage(cmd *Command) error {
	return fmt.Errorf("%w: %s", ErrUsage, cmd.Help)
}

// intArgs converts args to ints, filling missing trailing values from defaults.
func intArgs(cmd *Command, args []string, names []string, defaults []int) ([]int, error) {
	if len(args) > len(names) {
		return nil, usage(cmd)
	}
	out := append([]int(nil), defaults...)
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be a number, got %q", dice.ErrInvalidArgument, names[i], a)
		}
		out[i] = v
	}
	return out, nil
}

func formatInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func (s *Shell) handleRoll(notation string) (Output, error) {
	res, err := s.roller.RollNotation(notation)
	if err != nil {
		return Output{}, err
	}
	return Output{Text: res.String(), Result: res}, nil
}

func (s *Shell) handleDie(cmd *Command, args []string) (Output, error) {
	v, err := intArgs(cmd, args, []string{"max"}, []int{dice.DefaultSides})
	if err != nil {
		return Output{}, err
	}
	value, err := s.roller.RollDie(v[0])
	if err != nil {
		return Output{}, err
	}
	return Output{
		Text:   fmt.Sprintf("d%d → %d", v[0], value),
		Result: map[string]int{"max": v[0], "value": value},
	}, nil
}

func (s *Shell) handleDice(cmd *Command, args []string) (Output, error) {
	v, err := intArgs(cmd, args, []string{"count", "max"}, []int{dice.DefaultCount, dice.DefaultSides})
	if err != nil {
		return Output{}, err
	}
	rolls, err := s.roller.RollDice(v[0], v[1])
	if err != nil {
		return Output{}, err
	}
	return Output{
		Text:   fmt.Sprintf("%dd%d → %s", v[0], v[1], formatInts(rolls)),
		Result: map[string]any{"count": v[0], "max": v[1], "rolls": rolls},
	}, nil
}

func (s *Shell) handleSum(cmd *Command, args []string) (Output, error) {
	v, err := intArgs(cmd, args, []string{"count", "max"}, []int{dice.DefaultCount, dice.DefaultSides})
	if err != nil {
		return Output{}, err
	}
	res, err := s.roller.RollDiceWithSum(v[0], v[1])
	if err != nil {
		return Output{}, err
	}
	return Output{
		Text:   fmt.Sprintf("%dd%d → %s = %d", res.Count, res.Max, formatInts(res.Rolls), res.Sum),
		Result: res,
	}, nil
}

func (s *Shell) handleBetween(cmd *Command, args []string) (Output, error) {
	if len(args) != 2 {
		return Output{}, usage(cmd)
	}
	v, err := intArgs(cmd, args, []string{"min", "max"}, []int{0, 0})
	if err != nil {
		return Output{}, err
	}
	value, err := s.roller.RandomBetween(v[0], v[1])
	if err != nil {
		return Output{}, err
	}
	return Output{
		Text:   fmt.Sprintf("%d..%d → %d", v[0], v[1], value),
		Result: map[string]int{"min": v[0], "max": v[1], "value": value},
	}, nil
}

func (s *Shell) handleChoice(args []string) (Output, error) {
	v, err := dice.RandomChoice(s.roller.Source(), args)
	if err != nil {
		return Output{}, err
	}
	return Output{
		Text:   "choice → " + v,
		Result: map[string]string{"value": v},
	}, nil
}

func (s *Shell) handleShuffle(args []string) (Output, error) {
	shuffled := dice.Shuffle(s.roller.Source(), args)
	return Output{
		Text:   "shuffle → [" + strings.Join(shuffled, " ") + "]",
		Result: map[string][]string{"items": shuffled},
	}, nil
}

func (s *Shell) handlePreset(cmd *Command, args []string) (Output, error) {
	if len(args) != 1 {
		return Output{}, usage(cmd)
	}
	p, ok := s.tables.Preset(args[0])
	if !ok {
		return Output{}, fmt.Errorf("%w: %q (type presets for a list)", rolltable.ErrUnknownPreset, args[0])
	}
	res, err := s.tables.RollPreset(s.roller, p.ID)
	if err != nil {
		return Output{}, err
	}
	return Output{
		Text:   fmt.Sprintf("%s: %s", displayName(p.Name, p.ID), res),
		Result: map[string]any{"preset": p.ID, "roll": res},
	}, nil
}

func (s *Shell) handlePresets() Output {
	presets := s.tables.Presets()
	if len(presets) == 0 {
		return Output{Text: "No presets loaded."}
	}
	var b strings.Builder
	b.WriteString("Presets:")
	for _, p := range presets {
		fmt.Fprintf(&b, "\n  %-16s %-14s %s", p.ID, p.Notation, p.Name)
	}
	return Output{Text: b.String()}
}

func (s *Shell) handleTable(cmd *Command, args []string) (Output, error) {
	if len(args) != 1 {
		return Output{}, usage(cmd)
	}
	res, err := s.tables.RollTable(s.roller, args[0])
	if err != nil {
		if errors.Is(err, rolltable.ErrUnknownTable) {
			return Output{}, fmt.Errorf("%w (type tables for a list)", err)
		}
		return Output{}, err
	}
	result := map[string]any{"table": res.Table.ID, "roll": res.Roll, "result": nil}
	if res.Entry != nil {
		result["result"] = res.Entry.Result
	}
	return Output{Text: res.String(), Result: result}, nil
}

func (s *Shell) handleTables() Output {
	tables := s.tables.Tables()
	if len(tables) == 0 {
		return Output{Text: "No tables loaded."}
	}
	var b strings.Builder
	b.WriteString("Tables:")
	for _, t := range tables {
		fmt.Fprintf(&b, "\n  %-16s %-14s %s", t.ID, t.Notation, t.Name)
	}
	return Output{Text: b.String()}
}

func (s *Shell) handleMacro(ctx context.Context, cmd *Command, args []string) (Output, error) {
	if len(args) == 0 {
		return Output{}, usage(cmd)
	}
	if s.macros == nil {
		return Output{}, ErrNoMacros
	}
	name, margs := args[0], args[1:]
	out, err := s.macros.Call(ctx, name, margs...)
	if err != nil {
		return Output{}, err
	}
	call := strings.TrimSpace(name + " " + strings.Join(margs, " "))
	return Output{
		Text:   fmt.Sprintf("%s → %s", call, out),
		Result: map[string]any{"macro": name, "args": margs, "result": out},
	}, nil
}

func (s *Shell) handleMacros() (Output, error) {
	if s.macros == nil {
		return Output{Text: "No macros loaded."}, nil
	}
	names := s.macros.Macros()
	if len(names) == 0 {
		return Output{Text: "No macros loaded."}, nil
	}
	return Output{Text: "Macros: " + strings.Join(names, ", ")}, nil
}

var categoryTitles = []struct {
	category string
	title    string
}{
	{CategoryDice, "Dice"},
	{CategoryContent, "Content"},
	{CategorySystem, "System"},
}

func (s *Shell) help() string {
	cats := s.registry.CommandsByCategory()
	var b strings.Builder
	for i, ct := range categoryTitles {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(ct.title + ":")
		for _, c := range cats[ct.category] {
			name := c.Name
			if len(c.Aliases) > 0 {
				name += " (" + strings.Join(c.Aliases, ", ") + ")"
			}
			fmt.Fprintf(&b, "\n  %-16s %s", name, c.Help)
		}
	}
	b.WriteString("\nA bare notation such as 3d6+2 is rolled directly.")
	return b.String()
}

func displayName(name, id string) string {
	if name == "" {
		return id
	}
	return name
}

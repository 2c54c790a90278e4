// Package command provides the command registry, parser, built-in command
// definitions and the Shell that executes them against the dice engine.
package command

// Categories for organizing commands.
const (
	CategoryDice    = "dice"
	CategoryContent = "content"
	CategorySystem  = "system"
)

// Handler identifiers mapping commands to Shell handlers.
const (
	HandlerRoll    = "roll"
	HandlerDie     = "die"
	HandlerDice    = "dice"
	HandlerSum     = "sum"
	HandlerBetween = "between"
	HandlerChoice  = "choice"
	HandlerShuffle = "shuffle"
	HandlerPreset  = "preset"
	HandlerPresets = "presets"
	HandlerTable   = "table"
	HandlerTables  = "tables"
	HandlerMacro   = "macro"
	HandlerMacros  = "macros"
	HandlerHelp    = "help"
	HandlerQuit    = "quit"
)

// Command defines a player-invocable command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Help is the short help text displayed to players.
	Help string
	// Category groups the command (dice, content, system).
	Category string
	// Handler maps to the Shell handler.
	Handler string
}

// BuiltinCommands returns all built-in commands.
func BuiltinCommands() []Command {
	return []Command{
		// Dice commands
		{Name: "roll", Aliases: []string{"r"}, Help: "Roll dice notation (roll 3d6+2, roll max(2d20))", Category: CategoryDice, Handler: HandlerRoll},
		{Name: "die", Aliases: nil, Help: "Roll one die (die [sides])", Category: CategoryDice, Handler: HandlerDie},
		{Name: "dice", Aliases: nil, Help: "Roll several dice (dice [count] [sides])", Category: CategoryDice, Handler: HandlerDice},
		{Name: "sum", Aliases: nil, Help: "Roll several dice and total them (sum [count] [sides])", Category: CategoryDice, Handler: HandlerSum},
		{Name: "between", Aliases: []string{"rand"}, Help: "Pick a number in a range (between <min> <max>)", Category: CategoryDice, Handler: HandlerBetween},
		{Name: "choice", Aliases: []string{"pick"}, Help: "Pick one of the given words (choice <a> <b> ...)", Category: CategoryDice, Handler: HandlerChoice},
		{Name: "shuffle", Aliases: nil, Help: "Shuffle the given words (shuffle <a> <b> ...)", Category: CategoryDice, Handler: HandlerShuffle},

		// Content commands
		{Name: "preset", Aliases: []string{"p"}, Help: "Roll a named preset (preset <id>)", Category: CategoryContent, Handler: HandlerPreset},
		{Name: "presets", Aliases: nil, Help: "List roll presets", Category: CategoryContent, Handler: HandlerPresets},
		{Name: "table", Aliases: []string{"t"}, Help: "Roll on a range table (table <id>)", Category: CategoryContent, Handler: HandlerTable},
		{Name: "tables", Aliases: nil, Help: "List range tables", Category: CategoryContent, Handler: HandlerTables},
		{Name: "macro", Aliases: []string{"m"}, Help: "Run a Lua macro (macro <name> [args])", Category: CategoryContent, Handler: HandlerMacro},
		{Name: "macros", Aliases: nil, Help: "List Lua macros", Category: CategoryContent, Handler: HandlerMacros},

		// System commands
		{Name: "help", Aliases: []string{"?"}, Help: "Show available commands", Category: CategorySystem, Handler: HandlerHelp},
		{Name: "quit", Aliases: []string{"exit"}, Help: "End the session", Category: CategorySystem, Handler: HandlerQuit},
	}
}

// IsSharedHandler reports whether output of the handler is a roll that
// should be shown to everyone at the table.
func IsSharedHandler(handler string) bool {
	switch handler {
	case HandlerRoll, HandlerDie, HandlerDice, HandlerSum, HandlerBetween,
		HandlerChoice, HandlerShuffle, HandlerPreset, HandlerTable, HandlerMacro:
		return true
	default:
		return false
	}
}

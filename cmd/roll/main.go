// Package main provides the rollkit command-line roller. With arguments it
// runs one shell command; without, it reads commands from stdin.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cory-johannsen/rollkit/internal/app"
	"github.com/cory-johannsen/rollkit/internal/config"
	"github.com/cory-johannsen/rollkit/internal/game/command"
	"github.com/cory-johannsen/rollkit/internal/observability"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// options are the parsed command-line flags.
type options struct {
	configPath string
	seed       int64
	jsonOut    bool
	verbose    bool
	args       []string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("roll", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "config", "", "path to configuration file (defaults and ROLLKIT_* env when empty)")
	fs.Int64Var(&o.seed, "seed", 0, "seed for the seeded source; 0 keeps the configured seed")
	fs.BoolVar(&o.jsonOut, "json", false, "print one JSON object per command")
	fs.BoolVar(&o.verbose, "v", false, "log at the configured level instead of warn")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	o.args = fs.Args()
	return o, nil
}

// run is main without the process exit, so tests can drive it.
//
// Postcondition: Returns 0 on success, 1 when a one-shot command fails, 2 on
// bad flags, configuration or content.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return 2
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "loading config: %v\n", err)
		return 2
	}
	if o.seed != 0 {
		cfg.Dice.Source = "seeded"
		cfg.Dice.Seed = o.seed
	}
	if !o.verbose {
		cfg.Logging.Level = "warn"
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(stderr, "initializing logger: %v\n", err)
		return 2
	}
	defer func() { _ = logger.Sync() }()

	a, err := app.New(cfg, logger)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 2
	}
	defer a.Close()

	p := &printer{out: stdout, errOut: stderr, json: o.jsonOut}
	ctx := context.Background()

	if len(o.args) > 0 {
		if _, ok := p.execute(ctx, a.Shell, strings.Join(o.args, " ")); !ok {
			return 1
		}
		return 0
	}

	if err := repl(ctx, a.Shell, stdin, p); err != nil {
		fmt.Fprintf(stderr, "reading commands: %v\n", err)
		return 1
	}
	return 0
}

// repl executes stdin lines until EOF or a quit command. Failed commands are
// reported and the loop continues.
func repl(ctx context.Context, sh *command.Shell, in io.Reader, p *printer) error {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if out, _ := p.execute(ctx, sh, line); out.Quit {
			return nil
		}
	}
	return sc.Err()
}

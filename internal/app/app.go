// Package app assembles the roller, roll content, macros and command shell
// from configuration. Both rollkit binaries start from New.
package app

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/rollkit/internal/config"
	"github.com/cory-johannsen/rollkit/internal/game/command"
	"github.com/cory-johannsen/rollkit/internal/game/dice"
	"github.com/cory-johannsen/rollkit/internal/game/rolltable"
	"github.com/cory-johannsen/rollkit/internal/scripting"
)

// App holds the wired components.
type App struct {
	Roller *dice.Roller
	Tables *rolltable.Registry
	// Macros is nil when no macro directory is configured.
	Macros *scripting.Manager
	Shell  *command.Shell
	// Seed is the seed of a "seeded" source, 0 for the crypto source.
	Seed int64
}

// New builds an App from cfg.
//
// Precondition: cfg has passed Validate; logger must be non-nil.
// Postcondition: Returns a ready App, or an error naming the content that failed to load.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	start := time.Now()

	src, seed, err := NewSource(cfg.Dice)
	if err != nil {
		return nil, err
	}
	roller := dice.NewLoggedRoller(src, logger, dice.WithMaxCount(cfg.Dice.MaxCount))

	tables, err := loadTables(cfg.Content.RollsDir)
	if err != nil {
		return nil, err
	}

	a := &App{Roller: roller, Tables: tables, Seed: seed}
	var macros command.MacroRunner
	if cfg.Scripting.MacrosDir != "" {
		a.Macros = scripting.NewManager(roller, logger, cfg.Scripting.InstructionLimit)
		if err := a.Macros.LoadDir(cfg.Scripting.MacrosDir); err != nil {
			return nil, fmt.Errorf("loading macros: %w", err)
		}
		macros = a.Macros
	}
	a.Shell = command.NewShell(roller, tables, macros, logger)

	logger.Info("rollkit initialized",
		zap.String("source", cfg.Dice.Source),
		zap.Int64("seed", seed),
		zap.Int("presets", len(tables.Presets())),
		zap.Int("tables", len(tables.Tables())),
		zap.Int("macros", a.macroCount()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return a, nil
}

// Close releases the macro VM.
func (a *App) Close() {
	if a.Macros != nil {
		a.Macros.Close()
	}
}

func (a *App) macroCount() int {
	if a.Macros == nil {
		return 0
	}
	return len(a.Macros.Macros())
}

// NewSource returns the random source selected by cfg and the seed it uses.
// A "seeded" source with seed 0 draws a fresh seed.
func NewSource(cfg config.DiceConfig) (dice.Source, int64, error) {
	switch cfg.Source {
	case "crypto":
		return dice.NewCryptoSource(), 0, nil
	case "seeded":
		seed := cfg.Seed
		if seed == 0 {
			var err error
			if seed, err = dice.NewSeed(); err != nil {
				return nil, 0, err
			}
		}
		return dice.NewSeededSource(seed), seed, nil
	default:
		return nil, 0, fmt.Errorf("unknown dice source %q", cfg.Source)
	}
}

func loadTables(dir string) (*rolltable.Registry, error) {
	if dir == "" {
		return rolltable.NewRegistry()
	}
	sets, err := rolltable.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("loading roll content: %w", err)
	}
	reg, err := rolltable.NewRegistry(sets...)
	if err != nil {
		return nil, fmt.Errorf("indexing roll content: %w", err)
	}
	return reg, nil
}

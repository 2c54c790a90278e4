package rolltable

import (
	"fmt"
	"sort"

	"github.com/cory-johannsen/rollkit/internal/game/dice"
)

// Registry provides lookup of presets and tables by ID across rule sets.
type Registry struct {
	presets map[string]*Preset
	tables  map[string]*Table
}

// NewRegistry indexes the presets and tables of sets.
//
// Precondition: each set has passed Validate.
// Postcondition: Returns a Registry, or an error if two presets or two tables share an ID.
func NewRegistry(sets ...*RuleSet) (*Registry, error) {
	r := &Registry{
		presets: make(map[string]*Preset),
		tables:  make(map[string]*Table),
	}
	for _, rs := range sets {
		for _, p := range rs.Presets {
			if _, exists := r.presets[p.ID]; exists {
				return nil, fmt.Errorf("duplicate preset id %q in rule set %q", p.ID, rs.ID)
			}
			r.presets[p.ID] = p
		}
		for _, t := range rs.Tables {
			if _, exists := r.tables[t.ID]; exists {
				return nil, fmt.Errorf("duplicate table id %q in rule set %q", t.ID, rs.ID)
			}
			r.tables[t.ID] = t
		}
	}
	return r, nil
}

// Preset returns the preset registered under id.
func (r *Registry) Preset(id string) (*Preset, bool) {
	p, ok := r.presets[id]
	return p, ok
}

// Table returns the table registered under id.
func (r *Registry) Table(id string) (*Table, bool) {
	t, ok := r.tables[id]
	return t, ok
}

// Presets returns all presets sorted by ID.
func (r *Registry) Presets() []*Preset {
	out := make([]*Preset, 0, len(r.presets))
	for _, p := range r.presets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Tables returns all tables sorted by ID.
func (r *Registry) Tables() []*Table {
	out := make([]*Table, 0, len(r.tables))
	for _, t := range r.tables {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// RollPreset rolls the notation of preset id.
//
// Postcondition: Returns ErrUnknownPreset (wrapped) when id is not registered.
func (r *Registry) RollPreset(roller *dice.Roller, id string) (dice.NotationResult, error) {
	p, ok := r.presets[id]
	if !ok {
		return dice.NotationResult{}, fmt.Errorf("%w: %q", ErrUnknownPreset, id)
	}
	res, err := roller.RollNotation(p.Notation)
	if err != nil {
		return dice.NotationResult{}, fmt.Errorf("rolling preset %q: %w", id, err)
	}
	return res, nil
}

// RollTable rolls table id and resolves the entry covering the sum.
//
// Postcondition: Returns ErrUnknownTable (wrapped) when id is not registered.
func (r *Registry) RollTable(roller *dice.Roller, id string) (TableResult, error) {
	t, ok := r.tables[id]
	if !ok {
		return TableResult{}, fmt.Errorf("%w: %q", ErrUnknownTable, id)
	}
	res, err := roller.RollNotation(t.Notation)
	if err != nil {
		return TableResult{}, fmt.Errorf("rolling table %q: %w", id, err)
	}
	entry, _ := t.Lookup(res.Sum)
	return TableResult{Table: t, Roll: res, Entry: entry}, nil
}

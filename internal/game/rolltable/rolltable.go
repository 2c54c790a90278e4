// Package rolltable loads named roll presets and range tables from YAML and
// resolves them against a dice.Roller.
package rolltable

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/cory-johannsen/rollkit/internal/game/dice"
)

// Preset is a named notation, e.g. "attribute: max(2d100)".
type Preset struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Notation string `yaml:"notation"`
}

// Entry maps an inclusive range of roll sums to a result.
type Entry struct {
	Min    int    `yaml:"min"`
	Max    int    `yaml:"max"`
	Result string `yaml:"result"`
}

// Covers reports whether value lies in [e.Min, e.Max].
func (e Entry) Covers(value int) bool {
	return value >= e.Min && value <= e.Max
}

// Table is rolled with Notation and the sum looked up in Entries.
type Table struct {
	ID       string  `yaml:"id"`
	Name     string  `yaml:"name"`
	Notation string  `yaml:"notation"`
	Entries  []Entry `yaml:"entries"`
}

// Lookup returns the entry covering value.
//
// Postcondition: Returns (entry, true) if some entry covers value, or (nil, false).
func (t *Table) Lookup(value int) (*Entry, bool) {
	for i := range t.Entries {
		if t.Entries[i].Covers(value) {
			return &t.Entries[i], true
		}
	}
	return nil, false
}

// RuleSet is the content of one YAML file.
type RuleSet struct {
	ID      string    `yaml:"id"`
	Name    string    `yaml:"name"`
	Presets []*Preset `yaml:"presets"`
	Tables  []*Table  `yaml:"tables"`
}

// Validate checks IDs, notations and table ranges, and sorts each table's
// entries by Min.
//
// Postcondition: Returns nil or an error describing every violation.
func (rs *RuleSet) Validate() error {
	var errs []string
	if rs.ID == "" {
		errs = append(errs, "rule set id must not be empty")
	}
	for i, p := range rs.Presets {
		if p == nil {
			errs = append(errs, fmt.Sprintf("presets[%d]: empty entry", i))
			continue
		}
		if p.ID == "" {
			errs = append(errs, fmt.Sprintf("presets[%d]: id must not be empty", i))
		}
		if _, err := dice.Parse(p.Notation); err != nil || p.Notation == "" {
			errs = append(errs, fmt.Sprintf("preset %q: invalid notation %q", p.ID, p.Notation))
		}
	}
	for i, t := range rs.Tables {
		if t == nil {
			errs = append(errs, fmt.Sprintf("tables[%d]: empty entry", i))
			continue
		}
		if t.ID == "" {
			errs = append(errs, fmt.Sprintf("tables[%d]: id must not be empty", i))
		}
		errs = append(errs, validateTable(t)...)
	}
	if len(errs) > 0 {
		return fmt.Errorf("rule set %q: %s", rs.ID, strings.Join(errs, "; "))
	}
	return nil
}

func validateTable(t *Table) []string {
	var errs []string
	n, err := dice.Parse(t.Notation)
	if err != nil || t.Notation == "" {
		return append(errs, fmt.Sprintf("table %q: invalid notation %q", t.ID, t.Notation))
	}
	if len(t.Entries) == 0 {
		return append(errs, fmt.Sprintf("table %q: must have at least one entry", t.ID))
	}

	sort.SliceStable(t.Entries, func(i, j int) bool { return t.Entries[i].Min < t.Entries[j].Min })

	lo, hi := n.Bounds()
	for i, e := range t.Entries {
		if e.Min > e.Max {
			errs = append(errs, fmt.Sprintf("table %q: entry %q has min %d > max %d", t.ID, e.Result, e.Min, e.Max))
		}
		if e.Max < lo || e.Min > hi {
			errs = append(errs, fmt.Sprintf("table %q: entry %q [%d, %d] is unreachable by %s [%d, %d]",
				t.ID, e.Result, e.Min, e.Max, n, lo, hi))
		}
		if i > 0 && e.Min <= t.Entries[i-1].Max {
			errs = append(errs, fmt.Sprintf("table %q: entry %q overlaps %q", t.ID, e.Result, t.Entries[i-1].Result))
		}
	}
	return errs
}

var (
	// ErrUnknownPreset is returned when no preset has the requested ID.
	ErrUnknownPreset = errors.New("rolltable: unknown preset")
	// ErrUnknownTable is returned when no table has the requested ID.
	ErrUnknownTable = errors.New("rolltable: unknown table")
)

// TableResult is the outcome of rolling on a table.
//
// Postcondition: Entry is nil when no entry covers Roll.Sum.
type TableResult struct {
	Table *Table
	Roll  dice.NotationResult
	Entry *Entry
}

// String renders the roll audit line followed by the resolved entry.
func (r TableResult) String() string {
	result := "no result"
	if r.Entry != nil {
		result = r.Entry.Result
	}
	name := r.Table.Name
	if name == "" {
		name = r.Table.ID
	}
	return fmt.Sprintf("%s: %s ⇒ %s", name, r.Roll, result)
}

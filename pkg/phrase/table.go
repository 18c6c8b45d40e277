// Package phrase matches short, case-insensitive phrases inside free text.
//
// A Table is an ordered list of phrases compiled into one Aho-Corasick
// automaton. Matching is plain substring containment on the lower-cased
// text; when several phrases occur, the one declared first in the table
// wins, regardless of where it appears in the text.
package phrase

import (
	"fmt"
	"strings"

	"github.com/coregx/ahocorasick"
)

// Entry maps a phrase to the value it stands for.
type Entry struct {
	Phrase string
	Value  string
}

type Table struct {
	ac      *ahocorasick.Automaton
	entries []Entry
}

// NewTable compiles the entries in the given order. Phrases are folded to
// lower case; empty phrases are rejected.
func NewTable(entries []Entry) (*Table, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("phrase table needs at least one entry")
	}

	patterns := make([]string, len(entries))
	folded := make([]Entry, len(entries))
	for i, e := range entries {
		p := strings.ToLower(e.Phrase)
		if strings.TrimSpace(p) == "" {
			return nil, fmt.Errorf("phrase table entry %d is empty", i)
		}
		patterns[i] = p
		folded[i] = Entry{Phrase: p, Value: e.Value}
	}

	automaton, err := ahocorasick.NewBuilder().
		AddStrings(patterns).
		SetPrefilter(true).
		Build()
	if err != nil {
		return nil, fmt.Errorf("compile phrase table: %w", err)
	}

	return &Table{ac: automaton, entries: folded}, nil
}

// MustTable is NewTable for tables declared in code.
func MustTable(entries []Entry) *Table {
	t, err := NewTable(entries)
	if err != nil {
		panic(err)
	}
	return t
}

// Phrases is a convenience for tables whose entries carry no value.
func Phrases(phrases ...string) []Entry {
	entries := make([]Entry, len(phrases))
	for i, p := range phrases {
		entries[i] = Entry{Phrase: p, Value: p}
	}
	return entries
}

// Contains reports whether any phrase of the table occurs in text.
func (t *Table) Contains(text string) bool {
	_, ok := t.First(text)
	return ok
}

// First returns the earliest-declared entry whose phrase occurs in text.
func (t *Table) First(text string) (Entry, bool) {
	if text == "" {
		return Entry{}, false
	}

	best := -1
	for _, m := range t.ac.FindAllOverlapping([]byte(strings.ToLower(text))) {
		if best == -1 || m.PatternID < best {
			best = m.PatternID
		}
	}
	if best < 0 || best >= len(t.entries) {
		return Entry{}, false
	}
	return t.entries[best], true
}

// All returns every entry whose phrase occurs in text, in table order.
func (t *Table) All(text string) []Entry {
	if text == "" {
		return nil
	}

	seen := make([]bool, len(t.entries))
	for _, m := range t.ac.FindAllOverlapping([]byte(strings.ToLower(text))) {
		if m.PatternID >= 0 && m.PatternID < len(seen) {
			seen[m.PatternID] = true
		}
	}

	var out []Entry
	for i, hit := range seen {
		if hit {
			out = append(out, t.entries[i])
		}
	}
	return out
}

package deck

import (
	"sort"
	"strings"
)

// Deck is the parsed representation of a deck file. The last non-blank
// line is the Commander; every parseable line before it is the Library.
type Deck struct {
	Lines []Line

	// trailingNewline records whether the source text ended with '\n',
	// so String reproduces the input byte-for-byte.
	trailingNewline bool
}

// Parse parses deck file content. Malformed lines are preserved as
// opaque lines, never rejected.
func Parse(content string) *Deck {
	d := &Deck{}
	if content == "" {
		return d
	}
	if strings.HasSuffix(content, "\n") {
		d.trailingNewline = true
		content = strings.TrimSuffix(content, "\n")
	}
	for _, raw := range strings.Split(content, "\n") {
		d.Lines = append(d.Lines, ParseLine(raw))
	}
	return d
}

// String serializes the deck back to its text form.
func (d *Deck) String() string {
	raws := make([]string, len(d.Lines))
	for i, ln := range d.Lines {
		raws[i] = ln.Raw
	}
	out := strings.Join(raws, "\n")
	if d.trailingNewline {
		out += "\n"
	}
	return out
}

// commanderIndex returns the index of the last non-blank line, or -1.
// That line is the commander slot whether or not it parses; callers that
// need a card name must additionally check Kind == LineEntry.
func (d *Deck) commanderIndex() int {
	for i := len(d.Lines) - 1; i >= 0; i-- {
		if d.Lines[i].Kind != LineBlank {
			return i
		}
	}
	return -1
}

// Commander returns the commander entry, if the last non-blank line
// parses as one.
func (d *Deck) Commander() (Line, bool) {
	i := d.commanderIndex()
	if i < 0 || d.Lines[i].Kind != LineEntry {
		return Line{}, false
	}
	return d.Lines[i], true
}

// Library returns the parseable entries before the commander slot, in order.
func (d *Deck) Library() []Line {
	ci := d.commanderIndex()
	var entries []Line
	for i, ln := range d.Lines {
		if i == ci {
			break
		}
		if ln.Kind == LineEntry {
			entries = append(entries, ln)
		}
	}
	return entries
}

// OutcomeKind classifies the result of a Modify call.
type OutcomeKind int

const (
	OutcomeUpdated OutcomeKind = iota
	OutcomeRemoved
	OutcomeAdded
	OutcomeNotFound
)

// Outcome describes what Modify did to the deck.
type Outcome struct {
	Kind        OutcomeKind
	Name        string // card name as written in the deck (or as requested)
	OldQuantity int
	NewQuantity int
}

// Modify adjusts the quantity of a library card by delta. The commander
// slot is excluded from matching and re-appended after a single blank
// separator. Matching is case-insensitive against entry lines only.
//
// Positive delta on a missing card appends a new entry to the library;
// non-positive delta on a missing card reports OutcomeNotFound and
// leaves the content unchanged. A quantity driven to zero or below
// removes the entry entirely.
func (d *Deck) Modify(name string, delta int) Outcome {
	ci := d.commanderIndex()

	var body []Line
	if ci >= 0 {
		body = append(body, d.Lines[:ci]...)
		// Drop the single blank separator before the commander; it is
		// recreated on rebuild.
		if n := len(body); n > 0 && body[n-1].Kind == LineBlank {
			body = body[:n-1]
		}
	} else {
		body = append(body, d.Lines...)
	}

	out := Outcome{Kind: OutcomeNotFound, Name: name}
	found := false
	kept := make([]Line, 0, len(body)+1)
	for _, ln := range body {
		if ln.Kind != LineEntry || !strings.EqualFold(ln.Name, name) {
			kept = append(kept, ln)
			continue
		}
		found = true
		newQuantity := ln.Quantity + delta
		if newQuantity > 0 {
			kept = append(kept, NewEntry(newQuantity, ln.Name))
			out = Outcome{Kind: OutcomeUpdated, Name: ln.Name, OldQuantity: ln.Quantity, NewQuantity: newQuantity}
		} else {
			out = Outcome{Kind: OutcomeRemoved, Name: ln.Name, OldQuantity: ln.Quantity}
		}
	}

	if !found && delta > 0 {
		kept = append(kept, NewEntry(delta, name))
		out = Outcome{Kind: OutcomeAdded, Name: name, NewQuantity: delta}
	}

	if ci >= 0 {
		kept = append(kept, Line{Kind: LineBlank}, d.Lines[ci])
	}
	d.Lines = kept
	d.trailingNewline = true
	return out
}

// Stats summarizes deck composition.
type Stats struct {
	TotalCards     int
	UniqueCards    int
	Commander      string
	MultipleCopies map[string]int // library entries with quantity > 1
}

// Stats computes basic deck statistics. The commander always counts as
// one card regardless of its written quantity.
func (d *Deck) Stats() Stats {
	st := Stats{MultipleCopies: make(map[string]int)}

	commander, hasCommander := d.Commander()
	for _, ln := range d.Library() {
		st.TotalCards += ln.Quantity
		st.UniqueCards++
		if ln.Quantity > 1 && !strings.EqualFold(ln.Name, commander.Name) {
			st.MultipleCopies[ln.Name] = ln.Quantity
		}
	}
	if hasCommander {
		st.Commander = commander.Name
		st.TotalCards++
		st.UniqueCards++
	}
	return st
}

// MultipleCopyNames returns the multiple-copy card names sorted for
// stable display.
func (s Stats) MultipleCopyNames() []string {
	names := make([]string, 0, len(s.MultipleCopies))
	for name := range s.MultipleCopies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

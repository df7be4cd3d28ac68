package deck

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleDeck = "2 Sol Ring\n1 Arcane Signet\n\n1 Atraxa, Praetors' Voice\n"

func writeDeck(t *testing.T, content string) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deck.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return NewStore(path, nil)
}

func TestParseRoundTrip(t *testing.T) {
	cases := []string{
		sampleDeck,
		"",
		"1 Sol Ring",
		"garbage line\n2 Counterspell\n\n1 Kenrith, the Returned King\n",
		"\n\n3 Brainstorm\n\n\n1 Niv-Mizzet, Parun\n",
	}
	for _, content := range cases {
		if got := Parse(content).String(); got != content {
			t.Errorf("round trip changed content:\nwant %q\ngot  %q", content, got)
		}
	}
}

func TestParseClassification(t *testing.T) {
	d := Parse("2 Sol Ring\nnot a card line\n\n1 Atraxa, Praetors' Voice\n")

	lib := d.Library()
	if len(lib) != 1 {
		t.Fatalf("expected 1 library entry, got %d", len(lib))
	}
	if lib[0].Quantity != 2 || lib[0].Name != "Sol Ring" {
		t.Errorf("unexpected library entry: %+v", lib[0])
	}

	commander, ok := d.Commander()
	if !ok {
		t.Fatal("expected a commander")
	}
	if commander.Name != "Atraxa, Praetors' Voice" {
		t.Errorf("unexpected commander: %q", commander.Name)
	}

	if d.Lines[1].Kind != LineOpaque {
		t.Errorf("expected opaque line, got kind %d", d.Lines[1].Kind)
	}
}

func TestParseSingleLineIsCommander(t *testing.T) {
	d := Parse("1 Sol Ring\n")
	if _, ok := d.Commander(); !ok {
		t.Fatal("single line should be the commander")
	}
	if len(d.Library()) != 0 {
		t.Errorf("expected empty library, got %d entries", len(d.Library()))
	}
}

func TestParseEmptyFile(t *testing.T) {
	d := Parse("")
	if _, ok := d.Commander(); ok {
		t.Error("empty deck should have no commander")
	}
	if len(d.Library()) != 0 {
		t.Error("empty deck should have no library")
	}
}

func TestModifyRemoveEntirely(t *testing.T) {
	s := writeDeck(t, sampleDeck)

	out, err := s.Modify("Sol Ring", -2)
	if err != nil {
		t.Fatal(err)
	}
	if out.Kind != OutcomeRemoved || out.OldQuantity != 2 {
		t.Errorf("unexpected outcome: %+v", out)
	}

	content, err := s.ReadRaw()
	if err != nil {
		t.Fatal(err)
	}
	want := "1 Arcane Signet\n\n1 Atraxa, Praetors' Voice\n"
	if content != want {
		t.Errorf("deck after removal:\nwant %q\ngot  %q", want, content)
	}
}

func TestModifyAddNewCard(t *testing.T) {
	s := writeDeck(t, sampleDeck)

	out, err := s.Modify("Counterspell", 3)
	if err != nil {
		t.Fatal(err)
	}
	if out.Kind != OutcomeAdded || out.NewQuantity != 3 {
		t.Errorf("unexpected outcome: %+v", out)
	}

	content, _ := s.ReadRaw()
	want := "2 Sol Ring\n1 Arcane Signet\n3 Counterspell\n\n1 Atraxa, Praetors' Voice\n"
	if content != want {
		t.Errorf("deck after add:\nwant %q\ngot  %q", want, content)
	}
}

func TestModifyUpdateQuantity(t *testing.T) {
	s := writeDeck(t, sampleDeck)

	out, err := s.Modify("sol ring", 1) // case-insensitive match
	if err != nil {
		t.Fatal(err)
	}
	if out.Kind != OutcomeUpdated || out.OldQuantity != 2 || out.NewQuantity != 3 {
		t.Errorf("unexpected outcome: %+v", out)
	}
	if out.Name != "Sol Ring" {
		t.Errorf("outcome should carry the deck's spelling, got %q", out.Name)
	}
}

func TestModifyAddThenRemoveRestores(t *testing.T) {
	s := writeDeck(t, sampleDeck)
	before, _ := s.ReadRaw()

	if _, err := s.Modify("Sol Ring", 2); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Modify("Sol Ring", -2); err != nil {
		t.Fatal(err)
	}

	after, _ := s.ReadRaw()
	if after != before {
		t.Errorf("+2/-2 should restore content:\nwant %q\ngot  %q", before, after)
	}
}

func TestModifyRemovedThenReAdded(t *testing.T) {
	s := writeDeck(t, sampleDeck)

	if _, err := s.Modify("Arcane Signet", -1); err != nil {
		t.Fatal(err)
	}
	out, err := s.Modify("Arcane Signet", 1)
	if err != nil {
		t.Fatal(err)
	}
	// The entry was removed, so re-adding recreates it at the end of
	// the library rather than in its original position.
	if out.Kind != OutcomeAdded {
		t.Errorf("expected re-add outcome, got %+v", out)
	}
	content, _ := s.ReadRaw()
	want := "2 Sol Ring\n1 Arcane Signet\n\n1 Atraxa, Praetors' Voice\n"
	if content != want {
		t.Errorf("deck after remove/re-add:\nwant %q\ngot  %q", want, content)
	}
}

func TestModifyNotFoundLeavesDeckIntact(t *testing.T) {
	s := writeDeck(t, sampleDeck)

	out, err := s.Modify("Counterspell", -1)
	if err != nil {
		t.Fatal(err)
	}
	if out.Kind != OutcomeNotFound {
		t.Errorf("expected not-found outcome, got %+v", out)
	}
	content, _ := s.ReadRaw()
	if content != sampleDeck {
		t.Errorf("deck should be untouched:\nwant %q\ngot  %q", sampleDeck, content)
	}
}

func TestModifyNeverTouchesCommander(t *testing.T) {
	s := writeDeck(t, sampleDeck)

	out, err := s.Modify("Atraxa, Praetors' Voice", -1)
	if err != nil {
		t.Fatal(err)
	}
	if out.Kind != OutcomeNotFound {
		t.Errorf("commander must not be matchable, got %+v", out)
	}
	content, _ := s.ReadRaw()
	if !strings.Contains(content, "1 Atraxa, Praetors' Voice") {
		t.Error("commander line must survive unchanged")
	}
}

func TestModifyPreservesOpaqueLines(t *testing.T) {
	s := writeDeck(t, "// maybeboard\n2 Sol Ring\n\n1 Atraxa, Praetors' Voice\n")

	if _, err := s.Modify("Sol Ring", 1); err != nil {
		t.Fatal(err)
	}
	content, _ := s.ReadRaw()
	want := "// maybeboard\n3 Sol Ring\n\n1 Atraxa, Praetors' Voice\n"
	if content != want {
		t.Errorf("opaque line lost:\nwant %q\ngot  %q", want, content)
	}
}

func TestModifyDeckWithoutLibrary(t *testing.T) {
	s := writeDeck(t, "1 Atraxa, Praetors' Voice\n")

	out, err := s.Modify("Sol Ring", 1)
	if err != nil {
		t.Fatal(err)
	}
	if out.Kind != OutcomeAdded {
		t.Fatalf("expected add, got %+v", out)
	}
	content, _ := s.ReadRaw()
	want := "1 Sol Ring\n\n1 Atraxa, Praetors' Voice\n"
	if content != want {
		t.Errorf("deck after add:\nwant %q\ngot  %q", want, content)
	}
}

func TestReadMissingFile(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "missing.txt"), nil)
	if _, err := s.Read(); err == nil {
		t.Fatal("expected error for missing deck file")
	} else if !strings.Contains(err.Error(), "deck file not found") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestStats(t *testing.T) {
	d := Parse("2 Sol Ring\n1 Arcane Signet\n3 Rampant Growth\n\n1 Atraxa, Praetors' Voice\n")
	st := d.Stats()

	if st.TotalCards != 7 {
		t.Errorf("total cards: want 7, got %d", st.TotalCards)
	}
	if st.UniqueCards != 4 {
		t.Errorf("unique cards: want 4, got %d", st.UniqueCards)
	}
	if st.Commander != "Atraxa, Praetors' Voice" {
		t.Errorf("commander: got %q", st.Commander)
	}
	if len(st.MultipleCopies) != 2 {
		t.Errorf("multiple copies: want 2 entries, got %v", st.MultipleCopies)
	}
	if st.MultipleCopies["Sol Ring"] != 2 || st.MultipleCopies["Rampant Growth"] != 3 {
		t.Errorf("unexpected multiple copies: %v", st.MultipleCopies)
	}
}

func TestStatsEmptyDeck(t *testing.T) {
	st := Parse("").Stats()
	if st.TotalCards != 0 || st.UniqueCards != 0 || st.Commander != "" {
		t.Errorf("unexpected stats for empty deck: %+v", st)
	}
}

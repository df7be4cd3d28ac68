package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/peterkuimelis/deckhand/internal/curve"
	"github.com/peterkuimelis/deckhand/internal/deck"
	"github.com/peterkuimelis/deckhand/internal/log"
	"github.com/peterkuimelis/deckhand/internal/scryfall"
)

const sampleDeck = "2 Sol Ring\n1 Counterspell\n3 Forest\n\n1 Atraxa, Praetors' Voice\n"

var testCards = map[string]map[string]any{
	"Sol Ring": {
		"name": "Sol Ring", "mana_cost": "{1}", "cmc": 1.0,
		"type_line":   "Artifact",
		"oracle_text": "{T}: Add {C}{C}.",
	},
	"Counterspell": {
		"name": "Counterspell", "mana_cost": "{U}{U}", "cmc": 2.0,
		"type_line":   "Instant",
		"oracle_text": "Counter target spell.",
	},
	"Forest": {
		"name": "Forest", "mana_cost": "", "cmc": 0.0,
		"type_line":   "Basic Land — Forest",
		"oracle_text": "",
	},
	"Atraxa, Praetors' Voice": {
		"name": "Atraxa, Praetors' Voice", "mana_cost": "{G}{W}{U}{B}", "cmc": 4.0,
		"type_line":   "Legendary Creature — Phyrexian Angel Horror",
		"oracle_text": "Flying, vigilance, deathtouch, lifelink",
		"power":       "4", "toughness": "4",
	},
}

func fakeScryfallServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		card, ok := testCards[r.URL.Query().Get("exact")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(card)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestToolkit(t *testing.T) *Toolkit {
	t.Helper()
	dir := t.TempDir()

	deckPath := filepath.Join(dir, "deck.txt")
	if err := os.WriteFile(deckPath, []byte(sampleDeck), 0o644); err != nil {
		t.Fatal(err)
	}

	srv := fakeScryfallServer(t)
	logger := log.NewMemoryLogger()
	client := scryfall.NewClient(scryfall.Config{BaseURL: srv.URL})
	cards := scryfall.NewCache(filepath.Join(dir, "cards"), client, logger,
		scryfall.WithRequestDelay(0))

	return &Toolkit{
		Store:    deck.NewStore(deckPath, logger),
		Cards:    cards,
		Curve:    curve.NewCalculator(cards, filepath.Join(dir, "curve"), logger),
		ImageDir: filepath.Join(dir, "images"),
	}
}

func TestModifyCardMessages(t *testing.T) {
	kit := newTestToolkit(t)

	if got := kit.ModifyCard("Sol Ring", 1); got != "✅ Sol Ring: 2 → 3" {
		t.Errorf("update message: %q", got)
	}
	if got := kit.ModifyCard("Counterspell", -1); got != "🗑️ Counterspell removed from deck (quantity: 1 → 0)" {
		t.Errorf("remove message: %q", got)
	}
	if got := kit.ModifyCard("Lightning Greaves", 1); got != "➕ Lightning Greaves added to deck (quantity: 1)" {
		t.Errorf("add message: %q", got)
	}
	if got := kit.ModifyCard("Black Lotus", -1); got != "❌ Error: Card 'Black Lotus' not found in deck" {
		t.Errorf("not-found message: %q", got)
	}
}

func TestModifyCardNeverTouchesCommander(t *testing.T) {
	kit := newTestToolkit(t)

	out := kit.ModifyCard("Atraxa, Praetors' Voice", -1)
	if !strings.HasPrefix(out, "❌") {
		t.Errorf("commander must not be modifiable, got %q", out)
	}
}

func TestModifyCardMissingDeckFile(t *testing.T) {
	kit := newTestToolkit(t)
	if err := os.Remove(kit.Store.Path()); err != nil {
		t.Fatal(err)
	}
	out := kit.ModifyCard("Sol Ring", 1)
	if !strings.HasPrefix(out, "❌ Error modifying deck:") {
		t.Errorf("file error must surface as a status string, got %q", out)
	}
}

func TestViewDeck(t *testing.T) {
	kit := newTestToolkit(t)

	out := kit.ViewDeck()
	if !strings.HasPrefix(out, "📋 **CURRENT DECK** (Total: 7 cards)\nCommander: Atraxa, Praetors' Voice\n\n") {
		t.Errorf("unexpected header:\n%s", out)
	}
	if !strings.HasSuffix(out, sampleDeck) {
		t.Errorf("raw content must follow the header:\n%s", out)
	}
}

func TestDeckStats(t *testing.T) {
	kit := newTestToolkit(t)

	out := kit.DeckStats()
	for _, want := range []string{
		"📊 **DECK STATISTICS**",
		"• Total cards: 7",
		"• Unique cards: 4",
		"• Commander: Atraxa, Praetors' Voice",
		"🔢 **Cards with multiple copies:**",
		"• Forest: 3x",
		"• Sol Ring: 2x",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("stats missing %q:\n%s", want, out)
		}
	}
}

func TestDeckStatsSingleton(t *testing.T) {
	kit := newTestToolkit(t)
	content := "1 Sol Ring\n\n1 Atraxa, Praetors' Voice\n"
	if err := os.WriteFile(kit.Store.Path(), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	out := kit.DeckStats()
	if !strings.Contains(out, "✅ All cards (except basic lands) are singleton") {
		t.Errorf("expected singleton note:\n%s", out)
	}
}

func TestCardInfo(t *testing.T) {
	kit := newTestToolkit(t)

	out := kit.CardInfo(context.Background(), "Atraxa, Praetors' Voice")
	for _, want := range []string{
		"🃏 **Atraxa, Praetors' Voice**",
		"• Mana Cost: {G}{W}{U}{B}",
		"• CMC: 4",
		"• Type: Legendary Creature — Phyrexian Angel Horror",
		"• Power/Toughness: 4/4",
		"• Text: Flying, vigilance, deathtouch, lifelink",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("card info missing %q:\n%s", want, out)
		}
	}

	// Noncreatures omit the power/toughness line.
	if out := kit.CardInfo(context.Background(), "Sol Ring"); strings.Contains(out, "Power/Toughness") {
		t.Errorf("artifact must not list power/toughness:\n%s", out)
	}
}

func TestCardInfoNotFound(t *testing.T) {
	kit := newTestToolkit(t)

	got := kit.CardInfo(context.Background(), "Definitely Fake")
	if got != "❌ Card information not found: Definitely Fake" {
		t.Errorf("not-found message: %q", got)
	}
}

func TestRefreshCard(t *testing.T) {
	kit := newTestToolkit(t)
	ctx := context.Background()

	if got := kit.RefreshCard(ctx, "Sol Ring"); got != "✅ Information updated for: Sol Ring" {
		t.Errorf("refresh message: %q", got)
	}
	if got := kit.RefreshCard(ctx, "Definitely Fake"); got != "❌ Could not get updated information for: Definitely Fake" {
		t.Errorf("failed refresh message: %q", got)
	}
}

func TestManaCurve(t *testing.T) {
	kit := newTestToolkit(t)

	out := kit.ManaCurve(context.Background())
	for _, want := range []string{
		"📊 **MANA CURVE**",
		"• Lands: 3",
		"• Spells: 3",
		"• Commander (CMC 4)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("curve missing %q:\n%s", want, out)
		}
	}
}

func TestManaCurveMissingDeckFile(t *testing.T) {
	kit := newTestToolkit(t)
	if err := os.Remove(kit.Store.Path()); err != nil {
		t.Fatal(err)
	}
	if out := kit.ManaCurve(context.Background()); !strings.HasPrefix(out, "❌ Error reading deck:") {
		t.Errorf("missing file must surface as a status string, got %q", out)
	}
}

func TestEnhancedDeckInfo(t *testing.T) {
	kit := newTestToolkit(t)
	content := "1 Sol Ring\n1 Definitely Fake\n\n1 Atraxa, Praetors' Voice\n"
	if err := os.WriteFile(kit.Store.Path(), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	out := kit.EnhancedDeckInfo(context.Background())
	for _, want := range []string{
		"📋 **CURRENT DECK**",
		"⚠️ Cards not found in Scryfall (will show N/A): 1",
		"1 Sol Ring (mana_cost: {1}) - Oracle: {T}: Add {C}{C}.",
		"1 Definitely Fake (mana_cost: N/A) - Oracle: N/A",
		"📊 **MANA CURVE**",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("enhanced info missing %q:\n%s", want, out)
		}
	}
}

func TestTruncateOracle(t *testing.T) {
	short := "Counter target spell."
	if got := truncateOracle(short); got != short {
		t.Errorf("short text must pass through, got %q", got)
	}

	long := strings.Repeat("x", oracleLimit+50)
	got := truncateOracle(long)
	if len(got) != oracleLimit {
		t.Errorf("truncated length: want %d, got %d", oracleLimit, len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated text must end with ellipsis: %q", got)
	}
}

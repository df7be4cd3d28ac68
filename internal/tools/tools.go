package tools

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/peterkuimelis/deckhand/internal/config"
	"github.com/peterkuimelis/deckhand/internal/curve"
	"github.com/peterkuimelis/deckhand/internal/deck"
	"github.com/peterkuimelis/deckhand/internal/log"
	"github.com/peterkuimelis/deckhand/internal/scryfall"
)

// Toolkit is the textual tool surface the orchestration layer calls.
// Every method returns a human-readable, status-prefixed string; no
// error ever crosses this boundary as a Go error.
type Toolkit struct {
	Store    *deck.Store
	Cards    *scryfall.Cache
	Curve    *curve.Calculator
	ImageDir string
}

// New wires a Toolkit from configuration.
func New(cfg config.Config, logger log.EventLogger) *Toolkit {
	logger = log.Ensure(logger)
	client := scryfall.NewClient(scryfall.Config{
		BaseURL:        cfg.Scryfall.BaseURL,
		UserAgent:      cfg.Scryfall.UserAgent,
		TimeoutSeconds: cfg.Scryfall.TimeoutSeconds,
	})
	cards := scryfall.NewCache(cfg.CardCacheDir, client, logger,
		scryfall.WithRequestDelay(time.Duration(cfg.Scryfall.RequestDelayMS)*time.Millisecond))
	return &Toolkit{
		Store:    deck.NewStore(cfg.DeckFile, logger),
		Cards:    cards,
		Curve:    curve.NewCalculator(cards, cfg.CurveCacheDir, logger),
		ImageDir: cfg.ImageCacheDir,
	}
}

// ModifyCard adjusts the quantity of a library card and reports what
// happened. The commander line is never matchable.
func (t *Toolkit) ModifyCard(name string, delta int) string {
	out, err := t.Store.Modify(name, delta)
	if err != nil {
		return fmt.Sprintf("❌ Error modifying deck: %v", err)
	}
	switch out.Kind {
	case deck.OutcomeUpdated:
		return fmt.Sprintf("✅ %s: %d → %d", out.Name, out.OldQuantity, out.NewQuantity)
	case deck.OutcomeRemoved:
		return fmt.Sprintf("🗑️ %s removed from deck (quantity: %d → 0)", out.Name, out.OldQuantity)
	case deck.OutcomeAdded:
		return fmt.Sprintf("➕ %s added to deck (quantity: %d)", out.Name, out.NewQuantity)
	default:
		return fmt.Sprintf("❌ Error: Card '%s' not found in deck", name)
	}
}

// ViewDeck returns the raw deck content with a totals header.
func (t *Toolkit) ViewDeck() string {
	content, err := t.Store.ReadRaw()
	if err != nil {
		return fmt.Sprintf("❌ Error reading deck: %v", err)
	}
	st := deck.Parse(content).Stats()

	commander := st.Commander
	if commander == "" {
		commander = "(none)"
	}
	return fmt.Sprintf("📋 **CURRENT DECK** (Total: %d cards)\nCommander: %s\n\n%s",
		st.TotalCards, commander, content)
}

// DeckStats returns formatted deck statistics.
func (t *Toolkit) DeckStats() string {
	d, err := t.Store.Read()
	if err != nil {
		return fmt.Sprintf("❌ Error calculating statistics: %v", err)
	}
	st := d.Stats()

	var sb strings.Builder
	sb.WriteString("📊 **DECK STATISTICS**\n")
	fmt.Fprintf(&sb, "• Total cards: %d\n", st.TotalCards)
	fmt.Fprintf(&sb, "• Unique cards: %d\n", st.UniqueCards)
	fmt.Fprintf(&sb, "• Commander: %s\n", st.Commander)

	if len(st.MultipleCopies) > 0 {
		sb.WriteString("\n🔢 **Cards with multiple copies:**\n")
		for _, name := range st.MultipleCopyNames() {
			fmt.Fprintf(&sb, "• %s: %dx\n", name, st.MultipleCopies[name])
		}
	} else {
		sb.WriteString("\n✅ All cards (except basic lands) are singleton\n")
	}
	return sb.String()
}

// CardInfo returns formatted details for a single card.
func (t *Toolkit) CardInfo(ctx context.Context, name string) string {
	card, err := t.Cards.Get(ctx, name)
	if err != nil {
		return fmt.Sprintf("❌ Card information not found: %s", name)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🃏 **%s**\n", card.Name)
	fmt.Fprintf(&sb, "• Mana Cost: %s\n", card.ManaCost)
	fmt.Fprintf(&sb, "• CMC: %s\n", formatCMC(card.CMC))
	fmt.Fprintf(&sb, "• Type: %s\n", card.TypeLine)
	if card.Power != "" && card.Toughness != "" {
		fmt.Fprintf(&sb, "• Power/Toughness: %s/%s\n", card.Power, card.Toughness)
	}
	fmt.Fprintf(&sb, "• Text: %s\n", card.OracleText)
	return sb.String()
}

// RefreshCard drops the cached record for a card and re-fetches it.
func (t *Toolkit) RefreshCard(ctx context.Context, name string) string {
	if _, err := t.Cards.Refresh(ctx, name); err != nil {
		return fmt.Sprintf("❌ Could not get updated information for: %s", name)
	}
	return fmt.Sprintf("✅ Information updated for: %s", name)
}

// ManaCurve computes and formats the curve for the current deck file.
func (t *Toolkit) ManaCurve(ctx context.Context) string {
	lines, err := t.Store.Lines()
	if err != nil {
		return fmt.Sprintf("❌ Error reading deck: %v", err)
	}
	return t.FormatCurve(ctx, lines)
}

// FormatCurve computes and formats the curve for arbitrary deck lines.
func (t *Toolkit) FormatCurve(ctx context.Context, lines []string) string {
	result, err := t.Curve.Compute(ctx, lines)
	if err != nil {
		return fmt.Sprintf("❌ Error calculating mana curve: %v", err)
	}
	return curve.Format(result)
}

// DownloadImage fetches the card's image into the image cache.
func (t *Toolkit) DownloadImage(ctx context.Context, name string) string {
	path, err := t.Cards.DownloadImage(ctx, name, t.ImageDir)
	if err != nil {
		return fmt.Sprintf("❌ Could not download image for %s: %v", name, err)
	}
	return fmt.Sprintf("🖼️ Image for %s saved to: %s", name, path)
}

// oracleLimit truncates oracle text in the enriched deck view.
const oracleLimit = 200

// EnhancedDeckInfo returns the enriched deck listing plus the mana
// curve: the full context block a conversational agent receives with
// every prompt.
func (t *Toolkit) EnhancedDeckInfo(ctx context.Context) string {
	lines, err := t.Store.Lines()
	if err != nil {
		return fmt.Sprintf("❌ Error reading deck: %v", err)
	}

	var enriched []string
	missing := 0
	for _, raw := range lines {
		ln := deck.ParseLine(raw)
		switch ln.Kind {
		case deck.LineBlank:
			continue
		case deck.LineOpaque:
			enriched = append(enriched, strings.TrimSpace(raw))
			continue
		}

		card, err := t.Cards.Get(ctx, ln.Name)
		if err != nil {
			missing++
			enriched = append(enriched, fmt.Sprintf("%d %s (mana_cost: N/A) - Oracle: N/A", ln.Quantity, ln.Name))
			continue
		}
		enriched = append(enriched, fmt.Sprintf("%d %s (mana_cost: %s) - Oracle: %s",
			ln.Quantity, ln.Name, card.ManaCost, truncateOracle(card.OracleText)))
	}

	header := "📋 **CURRENT DECK**"
	if missing > 0 {
		header += fmt.Sprintf("\n\n⚠️ Cards not found in Scryfall (will show N/A): %d", missing)
	}

	return fmt.Sprintf("%s\n%s\n\n%s", header, strings.Join(enriched, "\n"), t.FormatCurve(ctx, lines))
}

func truncateOracle(text string) string {
	if len(text) <= oracleLimit {
		return text
	}
	return strings.TrimRight(text[:oracleLimit-3], " ") + "..."
}

// formatCMC prints a mana value without a trailing .0 for whole numbers.
func formatCMC(cmc float64) string {
	return strconv.FormatFloat(cmc, 'f', -1, 64)
}

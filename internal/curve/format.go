package curve

import (
	"fmt"
	"strconv"
	"strings"
)

// maxBarWidth caps each distribution bar at 20 characters.
const maxBarWidth = 20

// maxFailedExamples limits how many unresolvable card names are listed.
const maxFailedExamples = 5

// Format renders a curve result as the human-readable summary shown to
// the user: totals, a bar-chart distribution, and unresolvable cards.
func Format(r *Result) string {
	var sb strings.Builder

	sb.WriteString("📊 **MANA CURVE**\n")
	fmt.Fprintf(&sb, "• Lands: %d\n", r.Lands)
	fmt.Fprintf(&sb, "• Spells: %d\n", r.Nonlands)
	fmt.Fprintf(&sb, "• Average CMC: %.1f\n", r.AverageCMC)
	fmt.Fprintf(&sb, "• Commander (CMC %s)\n\n", formatCMC(r.CommanderCMC))

	sb.WriteString("**Distribution by CMC:**\n")
	for _, bucket := range Buckets {
		count := r.Curve[bucket]
		if count == 0 {
			continue
		}
		fmt.Fprintf(&sb, "• %s: %2d %s\n", bucket, count, bar(count))
	}

	if len(r.FailedCards) > 0 {
		fmt.Fprintf(&sb, "\n⚠️ **Cards not found in Scryfall:** %d\n", len(r.FailedCards))
		for i, name := range r.FailedCards {
			if i == maxFailedExamples {
				fmt.Fprintf(&sb, "• ... and %d more\n", len(r.FailedCards)-maxFailedExamples)
				break
			}
			fmt.Fprintf(&sb, "• %s\n", name)
		}
	}

	return sb.String()
}

func bar(count int) string {
	if count > maxBarWidth {
		count = maxBarWidth
	}
	return strings.Repeat("█", count)
}

// formatCMC prints a mana value without a trailing .0 for whole numbers.
func formatCMC(cmc float64) string {
	return strconv.FormatFloat(cmc, 'f', -1, 64)
}

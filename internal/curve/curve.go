package curve

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterkuimelis/deckhand/internal/deck"
	"github.com/peterkuimelis/deckhand/internal/log"
	"github.com/peterkuimelis/deckhand/internal/scryfall"
)

// CardSource resolves card metadata by exact name. *scryfall.Cache
// satisfies it; tests script their own.
type CardSource interface {
	Get(ctx context.Context, name string) (*scryfall.Card, error)
}

// Buckets are the mana-value buckets, in display order.
var Buckets = []string{"0", "1", "2", "3", "4", "5", "6", "7+"}

// Result is the computed mana curve for one deck content hash.
type Result struct {
	Curve        map[string]int `json:"curve"`
	TotalCards   int            `json:"total_cards"`
	Lands        int            `json:"lands"`
	Nonlands     int            `json:"nonlands"`
	CommanderCMC float64        `json:"commander_cmc"`
	AverageCMC   float64        `json:"average_cmc"`
	FailedCards  []string       `json:"failed_cards"`

	// Cached marks a result served from the curve cache. Not persisted.
	Cached bool `json:"-"`
}

// Calculator computes and caches mana curves, one cache file per
// distinct deck content hash. Old entries are never garbage-collected.
type Calculator struct {
	cards    CardSource
	cacheDir string
	logger   log.EventLogger
}

// NewCalculator creates a calculator caching results under cacheDir.
func NewCalculator(cards CardSource, cacheDir string, logger log.EventLogger) *Calculator {
	return &Calculator{cards: cards, cacheDir: cacheDir, logger: log.Ensure(logger)}
}

// DeckHash returns the content hash for a deck: MD5 over the
// whitespace-trimmed lines joined by newlines, case-sensitive.
func DeckHash(lines []string) string {
	trimmed := make([]string, len(lines))
	for i, line := range lines {
		trimmed[i] = strings.TrimSpace(line)
	}
	return fmt.Sprintf("%x", md5.Sum([]byte(strings.Join(trimmed, "\n"))))
}

// CacheFile returns the curve cache path for a deck hash.
func (c *Calculator) CacheFile(hash string) string {
	return filepath.Join(c.cacheDir, "mana_curve_"+hash+".json")
}

// Compute returns the mana curve for the given deck lines, serving a
// persisted result when the deck content hash matches a previous run.
// The last non-blank parseable line is always treated as the commander.
func (c *Calculator) Compute(ctx context.Context, lines []string) (*Result, error) {
	hash := DeckHash(lines)

	if cached := c.loadCached(hash); cached != nil {
		cached.Cached = true
		c.logger.Log(log.NewCurveCacheHitEvent(hash))
		return cached, nil
	}

	result := &Result{
		Curve:       emptyCurve(),
		FailedCards: []string{},
	}

	lastIdx := -1
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) != "" {
			lastIdx = i
			break
		}
	}

	for i, raw := range lines {
		ln := deck.ParseLine(raw)
		if ln.Kind != deck.LineEntry {
			continue
		}

		card, err := c.cards.Get(ctx, ln.Name)
		if err != nil {
			// Unresolvable cards are reported but excluded from every
			// numeric aggregate.
			result.FailedCards = append(result.FailedCards, ln.Name)
			continue
		}

		switch {
		case i == lastIdx:
			result.CommanderCMC = card.CMC
		case card.IsLand():
			result.Lands += ln.Quantity
		default:
			result.Nonlands += ln.Quantity
			result.Curve[bucketKey(card.CMC)] += ln.Quantity
		}
		result.TotalCards += ln.Quantity
	}

	result.AverageCMC = averageCMC(result.Curve, result.Nonlands)

	c.saveCached(hash, result)
	return result, nil
}

func emptyCurve() map[string]int {
	curve := make(map[string]int, len(Buckets))
	for _, b := range Buckets {
		curve[b] = 0
	}
	return curve
}

// bucketKey maps a mana value to its curve bucket: integer buckets 0-6,
// everything at 7 or above in "7+". Fractional values truncate.
func bucketKey(cmc float64) string {
	if cmc >= 7 {
		return "7+"
	}
	b := int(cmc)
	if b < 0 {
		b = 0
	}
	return strconv.Itoa(b)
}

// averageCMC averages the bucketed nonland mana values, counting the
// "7+" bucket as 7. Returns 0.0 for a deck with no nonland cards.
func averageCMC(curve map[string]int, nonlands int) float64 {
	if nonlands == 0 {
		return 0.0
	}
	total := 0
	for bucket, count := range curve {
		if bucket == "7+" {
			total += 7 * count
			continue
		}
		v, err := strconv.Atoi(bucket)
		if err != nil {
			continue
		}
		total += v * count
	}
	return float64(total) / float64(nonlands)
}

func (c *Calculator) loadCached(hash string) *Result {
	path := c.CacheFile(hash)
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			c.logger.Log(log.NewCurveCacheErrorEvent(hash, err))
		}
		return nil
	}
	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		c.logger.Log(log.NewCurveCacheErrorEvent(hash, err))
		return nil
	}
	if result.Curve == nil {
		result.Curve = emptyCurve()
	}
	return &result
}

// saveCached persists a computed result. Failures are logged and do not
// break the calculation.
func (c *Calculator) saveCached(hash string, result *Result) {
	path := c.CacheFile(hash)
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		c.logger.Log(log.NewCurveCacheErrorEvent(hash, err))
		return
	}
	if err := os.MkdirAll(c.cacheDir, 0o755); err != nil {
		c.logger.Log(log.NewCurveCacheErrorEvent(hash, err))
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		c.logger.Log(log.NewCurveCacheErrorEvent(hash, err))
		return
	}
	c.logger.Log(log.NewCurveComputedEvent(hash, path))
}

package scryfall

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/peterkuimelis/deckhand/internal/log"
)

// defaultRequestDelay is the minimum interval between consecutive
// Scryfall requests; Scryfall asks for 50-100ms between calls.
const defaultRequestDelay = 100 * time.Millisecond

// Cache persists Scryfall card records on disk, one JSON file per card,
// and rate-limits remote lookups behind a single process-wide gate.
//
// The rate-limit gate is a plain read-sleep-record sequence against the
// lastRequest field. That is correct for the intended single-threaded,
// synchronous use; a Cache must not be shared across goroutines.
type Cache struct {
	dir          string
	client       *Client
	logger       log.EventLogger
	requestDelay time.Duration
	lastRequest  time.Time
}

// CacheOption customizes the cache.
type CacheOption func(*Cache)

// WithRequestDelay overrides the minimum interval between remote calls.
// Zero disables the gate (useful for tests).
func WithRequestDelay(d time.Duration) CacheOption {
	return func(c *Cache) {
		c.requestDelay = d
	}
}

// NewCache creates a card info cache rooted at dir.
func NewCache(dir string, client *Client, logger log.EventLogger, opts ...CacheOption) *Cache {
	c := &Cache{
		dir:          dir,
		client:       client,
		logger:       log.Ensure(logger),
		requestDelay: defaultRequestDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CacheFile returns the on-disk path for a card's cached record: a safe
// transliteration of the name plus an MD5 of the lowercased name, so
// distinct names never collide on punctuation stripping.
func (c *Cache) CacheFile(name string) string {
	sum := md5.Sum([]byte(strings.ToLower(name)))
	return filepath.Join(c.dir, fmt.Sprintf("%s_%x.json", safeName(name), sum))
}

func safeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// Get returns the card record for an exact name, consulting the on-disk
// cache first. Remote failures of any kind map to ErrNotFound; negative
// results are never cached, so an unknown card re-hits the API on every
// lookup.
func (c *Cache) Get(ctx context.Context, name string) (*Card, error) {
	path := c.CacheFile(name)

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		card, parseErr := parseCard(data)
		if parseErr == nil {
			c.logger.Log(log.NewCacheHitEvent(name, path))
			return card, nil
		}
		// Corrupt cache entries degrade to a miss.
		c.logger.Log(log.NewCacheReadErrorEvent(name, path, parseErr))
	case errors.Is(err, fs.ErrNotExist):
		c.logger.Log(log.NewCacheMissEvent(name))
	default:
		c.logger.Log(log.NewCacheReadErrorEvent(name, path, err))
	}

	return c.fetch(ctx, name, path)
}

// Refresh deletes the cached record for a card, if present, then
// re-runs Get so the next value comes from Scryfall.
func (c *Cache) Refresh(ctx context.Context, name string) (*Card, error) {
	if err := os.Remove(c.CacheFile(name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		c.logger.Log(log.NewCacheWriteErrorEvent(name, c.CacheFile(name), err))
	}
	return c.Get(ctx, name)
}

func (c *Cache) fetch(ctx context.Context, name, path string) (*Card, error) {
	c.waitForRateLimit()

	body, err := c.client.Named(ctx, name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.logger.Log(log.NewRemoteNotFoundEvent(name))
		} else {
			c.logger.Log(log.NewRemoteErrorEvent(name, err))
		}
		return nil, ErrNotFound
	}

	card, err := parseCard(body)
	if err != nil {
		c.logger.Log(log.NewRemoteErrorEvent(name, err))
		return nil, ErrNotFound
	}

	// Persist the remote payload verbatim. A write failure is logged
	// but the fetched value is still returned.
	if err := c.persist(path, body); err != nil {
		c.logger.Log(log.NewCacheWriteErrorEvent(name, path, err))
	}

	c.logger.Log(log.NewRemoteFetchEvent(name))
	return card, nil
}

func (c *Cache) persist(path string, body []byte) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}
	return nil
}

func parseCard(data []byte) (*Card, error) {
	var card Card
	if err := json.Unmarshal(data, &card); err != nil {
		return nil, fmt.Errorf("parse card record: %w", err)
	}
	return &card, nil
}

func (c *Cache) waitForRateLimit() {
	if c.requestDelay <= 0 {
		return
	}
	if elapsed := time.Since(c.lastRequest); elapsed < c.requestDelay {
		wait := c.requestDelay - elapsed
		c.logger.Log(log.NewRateLimitWaitEvent(wait))
		time.Sleep(wait)
	}
	c.lastRequest = time.Now()
}

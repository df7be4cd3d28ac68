package scryfall

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/peterkuimelis/deckhand/internal/log"
)

// ErrNoImage is returned when a resolved card exposes no image URL.
var ErrNoImage = errors.New("no image available")

// DownloadImage resolves the card's image URL and streams it into
// destDir. The download is idempotent: an existing file of the derived
// name is never overwritten, and its path is returned as-is.
func (c *Cache) DownloadImage(ctx context.Context, name, destDir string) (string, error) {
	card, err := c.Get(ctx, name)
	if err != nil {
		return "", err
	}

	imageURL := card.ImageURL()
	if imageURL == "" {
		c.logger.Log(log.NewImageErrorEvent(name, ErrNoImage))
		return "", ErrNoImage
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create image directory: %w", err)
	}

	dest := filepath.Join(destDir, safeName(name)+imageExt(imageURL))
	if _, err := os.Stat(dest); err == nil {
		c.logger.Log(log.NewImageCachedEvent(name, dest))
		return dest, nil
	}

	f, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	if err := c.client.Download(ctx, imageURL, f); err != nil {
		f.Close()
		os.Remove(dest) // drop the partial file
		c.logger.Log(log.NewImageErrorEvent(name, err))
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close image file: %w", err)
	}

	c.logger.Log(log.NewImageDownloadedEvent(name, dest))
	return dest, nil
}

// imageExt derives a file extension from the image URL path, query
// stripped, defaulting to .png.
func imageExt(rawURL string) string {
	trimmed := rawURL
	if i := strings.IndexByte(trimmed, '?'); i >= 0 {
		trimmed = trimmed[:i]
	}
	if ext := path.Ext(trimmed); ext != "" {
		return ext
	}
	return ".png"
}

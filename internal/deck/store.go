package deck

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/peterkuimelis/deckhand/internal/log"
)

// ErrNotFound is returned when the deck file does not exist.
var ErrNotFound = errors.New("deck file not found")

// Store owns the deck file on disk. All mutation is a whole-file
// read-modify-write with no locking; concurrent callers must serialize
// access externally or the last writer wins.
type Store struct {
	path   string
	logger log.EventLogger
}

// NewStore creates a store for the deck file at path.
func NewStore(path string, logger log.EventLogger) *Store {
	return &Store{path: path, logger: log.Ensure(logger)}
}

// Path returns the deck file path.
func (s *Store) Path() string { return s.path }

// Read parses the deck file.
func (s *Store) Read() (*Deck, error) {
	content, err := s.ReadRaw()
	if err != nil {
		return nil, err
	}
	d := Parse(content)
	s.logger.Log(log.NewDeckReadEvent(s.path, len(d.Library())))
	return d, nil
}

// ReadRaw returns the deck file content verbatim.
func (s *Store) ReadRaw() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, s.path)
		}
		return "", fmt.Errorf("read deck file: %w", err)
	}
	return string(data), nil
}

// Lines returns the deck file split into raw lines, trailing newline
// trimmed — the input shape the mana curve engine consumes.
func (s *Store) Lines() ([]string, error) {
	content, err := s.ReadRaw()
	if err != nil {
		return nil, err
	}
	return strings.Split(strings.TrimSuffix(content, "\n"), "\n"), nil
}

// Write serializes the deck back to disk, replacing the file.
func (s *Store) Write(d *Deck) error {
	if err := os.WriteFile(s.path, []byte(d.String()), 0o644); err != nil {
		return fmt.Errorf("write deck file: %w", err)
	}
	s.logger.Log(log.NewDeckWrittenEvent(s.path))
	return nil
}

// Modify applies a quantity change to a library card and rewrites the
// file. The file is rewritten even when the outcome is NotFound, which
// leaves it byte-identical apart from separator normalization.
func (s *Store) Modify(name string, delta int) (Outcome, error) {
	d, err := s.Read()
	if err != nil {
		return Outcome{}, err
	}
	out := d.Modify(name, delta)
	if err := s.Write(d); err != nil {
		return Outcome{}, err
	}
	return out, nil
}

package log

import (
	"fmt"
	"io"
	"time"
)

// EventLogger is the interface for logging deckhand operations.
type EventLogger interface {
	Log(event Event)
	Events() []Event
}

// --- NopLogger: discards everything, default for callers that pass nil ---

type NopLogger struct{}

func NewNopLogger() *NopLogger { return &NopLogger{} }

func (l *NopLogger) Log(Event)       {}
func (l *NopLogger) Events() []Event { return nil }

// Ensure returns the logger, or a NopLogger when nil.
func Ensure(l EventLogger) EventLogger {
	if l == nil {
		return NewNopLogger()
	}
	return l
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	events []Event
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event Event) {
	l.seq++
	event.Seq = l.seq
	if event.Time.IsZero() {
		event.Time = time.Now()
	}
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []Event {
	return l.events
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []Event {
	var result []Event
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() Event {
	if len(l.events) == 0 {
		return Event{}
	}
	return l.events[len(l.events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event Event) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- Formatting ---

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e Event) string {
	t := e.Type.String()
	// Pad type to 18 chars for alignment
	for len(t) < 18 {
		t += " "
	}
	return fmt.Sprintf("%s| %s", t, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []Event) string {
	out := ""
	for _, e := range events {
		out += FormatEvent(e) + "\n"
	}
	return out
}

// --- Helper constructors for common events ---

func NewCacheHitEvent(card, path string) Event {
	return Event{
		Type:    EventCacheHit,
		Card:    card,
		Details: fmt.Sprintf("%s loaded from cache (%s)", card, path),
	}
}

func NewCacheMissEvent(card string) Event {
	return Event{
		Type:    EventCacheMiss,
		Card:    card,
		Details: fmt.Sprintf("%s not in cache", card),
	}
}

func NewCacheReadErrorEvent(card, path string, err error) Event {
	return Event{
		Type:    EventCacheReadError,
		Card:    card,
		Details: fmt.Sprintf("reading cache for %s (%s): %v", card, path, err),
	}
}

func NewCacheWriteErrorEvent(card, path string, err error) Event {
	return Event{
		Type:    EventCacheWriteError,
		Card:    card,
		Details: fmt.Sprintf("saving cache for %s (%s): %v", card, path, err),
	}
}

func NewRemoteFetchEvent(card string) Event {
	return Event{
		Type:    EventRemoteFetch,
		Card:    card,
		Details: fmt.Sprintf("%s fetched from Scryfall", card),
	}
}

func NewRemoteNotFoundEvent(card string) Event {
	return Event{
		Type:    EventRemoteNotFound,
		Card:    card,
		Details: fmt.Sprintf("%s not found in Scryfall", card),
	}
}

func NewRemoteErrorEvent(card string, err error) Event {
	return Event{
		Type:    EventRemoteError,
		Card:    card,
		Details: fmt.Sprintf("fetching %s: %v", card, err),
	}
}

func NewRateLimitWaitEvent(d time.Duration) Event {
	return Event{
		Type:    EventRateLimitWait,
		Details: fmt.Sprintf("waiting %s before next Scryfall request", d),
	}
}

func NewCurveCacheHitEvent(hash string) Event {
	return Event{
		Type:    EventCurveCacheHit,
		Details: fmt.Sprintf("mana curve %s loaded from cache", hash),
	}
}

func NewCurveComputedEvent(hash, path string) Event {
	return Event{
		Type:    EventCurveComputed,
		Details: fmt.Sprintf("mana curve %s computed and saved to %s", hash, path),
	}
}

func NewCurveCacheErrorEvent(hash string, err error) Event {
	return Event{
		Type:    EventCurveCacheError,
		Details: fmt.Sprintf("mana curve cache %s: %v", hash, err),
	}
}

func NewImageCachedEvent(card, path string) Event {
	return Event{
		Type:    EventImageCached,
		Card:    card,
		Details: fmt.Sprintf("image for %s already cached at %s", card, path),
	}
}

func NewImageDownloadedEvent(card, path string) Event {
	return Event{
		Type:    EventImageDownloaded,
		Card:    card,
		Details: fmt.Sprintf("image for %s saved to %s", card, path),
	}
}

func NewImageErrorEvent(card string, err error) Event {
	return Event{
		Type:    EventImageError,
		Card:    card,
		Details: fmt.Sprintf("downloading image for %s: %v", card, err),
	}
}

func NewDeckReadEvent(path string, entries int) Event {
	return Event{
		Type:    EventDeckRead,
		Details: fmt.Sprintf("read %s (%d entries)", path, entries),
	}
}

func NewDeckWrittenEvent(path string) Event {
	return Event{
		Type:    EventDeckWritten,
		Details: fmt.Sprintf("wrote %s", path),
	}
}

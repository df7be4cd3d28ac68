package log

import "time"

// EventType enumerates all observable deckhand operations.
type EventType int

const (
	EventCacheHit EventType = iota
	EventCacheMiss
	EventCacheReadError
	EventCacheWriteError
	EventRemoteFetch
	EventRemoteNotFound
	EventRemoteError
	EventRateLimitWait
	EventCurveCacheHit
	EventCurveComputed
	EventCurveCacheError
	EventImageCached
	EventImageDownloaded
	EventImageError
	EventDeckRead
	EventDeckWritten
)

func (e EventType) String() string {
	switch e {
	case EventCacheHit:
		return "CacheHit"
	case EventCacheMiss:
		return "CacheMiss"
	case EventCacheReadError:
		return "CacheReadError"
	case EventCacheWriteError:
		return "CacheWriteError"
	case EventRemoteFetch:
		return "RemoteFetch"
	case EventRemoteNotFound:
		return "RemoteNotFound"
	case EventRemoteError:
		return "RemoteError"
	case EventRateLimitWait:
		return "RateLimitWait"
	case EventCurveCacheHit:
		return "CurveCacheHit"
	case EventCurveComputed:
		return "CurveComputed"
	case EventCurveCacheError:
		return "CurveCacheError"
	case EventImageCached:
		return "ImageCached"
	case EventImageDownloaded:
		return "ImageDownloaded"
	case EventImageError:
		return "ImageError"
	case EventDeckRead:
		return "DeckRead"
	case EventDeckWritten:
		return "DeckWritten"
	default:
		return "Unknown"
	}
}

// Event represents a single observable operation.
type Event struct {
	Seq     int       // monotonic sequence number
	Time    time.Time // when the event was logged
	Type    EventType // event type
	Card    string    // card name (if applicable)
	Details string    // human-readable detail string
}

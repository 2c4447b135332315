package thread

import (
	"context"
	"sync"
)

type EventKind int

const (
	EventLoaded EventKind = iota + 1
	EventInserted
	EventScoreUpdated
	EventRemoved
	EventAlert
)

func (k EventKind) String() string {
	switch k {
	case EventLoaded:
		return "loaded"
	case EventInserted:
		return "inserted"
	case EventScoreUpdated:
		return "score_updated"
	case EventRemoved:
		return "removed"
	case EventAlert:
		return "alert"
	default:
		return "unknown"
	}
}

// Event describes one confirmed change of a Tree, or a message for the user.
type Event struct {
	Kind      EventKind
	ContentID int64

	Comment   Comment // EventInserted
	CommentID int64   // EventScoreUpdated
	Score     int64   // EventScoreUpdated
	Removed   []int64 // EventRemoved
	Count     int     // EventLoaded
	Message   string  // EventAlert
}

// Bus fans thread events out to in-process subscribers of a content item.
// Subscribers that fall behind lose events rather than block publishers.
type Bus struct {
	mu sync.RWMutex
	// contentID -> subscriber channels
	subs map[int64]map[chan Event]struct{}
	buf  int
}

func NewBus(buf int) *Bus {
	if buf <= 0 {
		buf = 64
	}
	return &Bus{
		subs: make(map[int64]map[chan Event]struct{}),
		buf:  buf,
	}
}

// Subscribe returns a channel of events for contentID. The channel is closed
// once ctx is done.
func (b *Bus) Subscribe(ctx context.Context, contentID int64) <-chan Event {
	ch := make(chan Event, b.buf)

	b.mu.Lock()
	if b.subs[contentID] == nil {
		b.subs[contentID] = make(map[chan Event]struct{})
	}
	b.subs[contentID][ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		if set := b.subs[contentID]; set != nil {
			delete(set, ch)
			if len(set) == 0 {
				delete(b.subs, contentID)
			}
		}
		b.mu.Unlock()
		close(ch)
	}()

	return ch
}

func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subs[e.ContentID] {
		select {
		case ch <- e:
		default:
		}
	}
}

func (b *Bus) Subscribers(contentID int64) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[contentID])
}

package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Artexxx/pair-overlap/internal/dto"
	"github.com/puzpuzpuz/xsync/v4"
	"github.com/rs/zerolog"
)

var ErrHubClosed = errors.New("broadcast hub is closed")

const defaultBuffer = 16

// Event — уже сериализованное событие для отправки подписчикам.
type Event struct {
	Name string
	Data []byte
}

type subscriber struct {
	mu     sync.RWMutex
	closed bool
	ch     chan Event
}

func (s *subscriber) send(ev Event) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false
	}

	select {
	case s.ch <- ev:
		return true
	default:
		return false
	}
}

func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// Hub fans notifications out to every connected listener.
type Hub struct {
	subscribers *xsync.Map[uint64, *subscriber]
	nextID      atomic.Uint64
	closed      atomic.Bool
	buffer      int
	log         zerolog.Logger
}

func NewHub(buffer int, log zerolog.Logger) *Hub {
	if buffer <= 0 {
		buffer = defaultBuffer
	}

	return &Hub{
		subscribers: xsync.NewMap[uint64, *subscriber](),
		buffer:      buffer,
		log:         log.With().Str("component", "BroadcastHub").Logger(),
	}
}

// Subscribe registers a listener. The channel is closed on Unsubscribe or Close.
func (h *Hub) Subscribe() (uint64, <-chan Event, error) {
	if h.closed.Load() {
		return 0, nil, ErrHubClosed
	}

	id := h.nextID.Add(1)
	sub := &subscriber{ch: make(chan Event, h.buffer)}
	h.subscribers.Store(id, sub)

	// Close мог пройти Range до Store: такой подписчик закрываем сами
	if h.closed.Load() {
		if late, ok := h.subscribers.LoadAndDelete(id); ok {
			late.close()
		}
		return 0, nil, ErrHubClosed
	}

	h.log.Debug().Uint64("subscriber", id).Int("total", h.subscribers.Size()).Msg("listener subscribed")

	return id, sub.ch, nil
}

func (h *Hub) Unsubscribe(id uint64) {
	if sub, ok := h.subscribers.LoadAndDelete(id); ok {
		sub.close()
		h.log.Debug().Uint64("subscriber", id).Msg("listener unsubscribed")
	}
}

func (h *Hub) Size() int {
	return h.subscribers.Size()
}

// Publish delivers ev to every listener without blocking; slow listeners miss it.
func (h *Hub) Publish(ev Event) int {
	if h.closed.Load() {
		return 0
	}

	delivered := 0
	h.subscribers.Range(func(id uint64, sub *subscriber) bool {
		if sub.send(ev) {
			delivered++
		} else {
			h.log.Warn().Uint64("subscriber", id).Str("event", ev.Name).Msg("listener is too slow, event dropped")
		}
		return true
	})

	return delivered
}

// Notify serializes n and publishes it under its event name.
func (h *Hub) Notify(_ context.Context, n dto.Notification) error {
	if h.closed.Load() {
		return ErrHubClosed
	}

	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	delivered := h.Publish(Event{Name: n.Event, Data: data})

	h.log.Info().
		Str("event", n.Event).
		Str("upload_id", n.UploadID.String()).
		Int("listeners", delivered).
		Msg("notification broadcast")

	return nil
}

func (h *Hub) Close() {
	if !h.closed.CompareAndSwap(false, true) {
		return
	}

	h.subscribers.Range(func(id uint64, sub *subscriber) bool {
		h.subscribers.Delete(id)
		sub.close()
		return true
	})
}

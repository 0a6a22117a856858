package realtime

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meetscribe/meetscribe/internal/domain/entities"
)

// Event kinds pushed to connected clients.
const (
	KindMeetingProgress = "meeting:progress"
	KindNewActionItems  = "action:new-items"
)

// ProgressEvent reports pipeline progress for one meeting.
type ProgressEvent struct {
	MeetingID string `json:"meetingId"`
	Percent   int    `json:"percent"`
}

// NewItemsEvent announces freshly extracted action items. It carries the
// persisted records so clients can render them without refetching.
type NewItemsEvent struct {
	MeetingID string                 `json:"meetingId"`
	Items     []*entities.ActionItem `json:"items"`
}

// Envelope wraps every event with its kind so clients can dispatch on it.
type Envelope struct {
	Kind    string      `json:"kind"`
	Payload interface{} `json:"payload"`
}

// Broadcaster is the event fan-out the pipeline publishes into.
type Broadcaster interface {
	PublishProgress(userID uuid.UUID, ev ProgressEvent)
	PublishNewItems(userID uuid.UUID, ev NewItemsEvent)
}

// subscriber is one connected client's outbound queue.
type subscriber struct {
	userID uuid.UUID
	ch     chan Envelope
}

// Hub fans events out to per-user subscribers. A slow subscriber drops
// events rather than blocking the pipeline.
type Hub struct {
	mu     sync.RWMutex
	subs   map[*subscriber]struct{}
	closed bool
	logger *zap.Logger
}

// NewHub creates a hub
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		subs:   make(map[*subscriber]struct{}),
		logger: logger,
	}
}

// Subscribe registers a client for one user's events. The returned channel
// is buffered; the unsubscribe func must be called exactly once.
func (h *Hub) Subscribe(userID uuid.UUID) (<-chan Envelope, func()) {
	sub := &subscriber{
		userID: userID,
		ch:     make(chan Envelope, 16),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(sub.ch)
		return sub.ch, func() {}
	}
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			h.mu.Lock()
			if _, ok := h.subs[sub]; ok {
				delete(h.subs, sub)
				close(sub.ch)
			}
			h.mu.Unlock()
		})
	}
	return sub.ch, unsubscribe
}

// PublishProgress sends a progress event to the meeting owner's clients
func (h *Hub) PublishProgress(userID uuid.UUID, ev ProgressEvent) {
	h.publish(userID, Envelope{Kind: KindMeetingProgress, Payload: ev})
}

// PublishNewItems sends a new-items event to the meeting owner's clients
func (h *Hub) PublishNewItems(userID uuid.UUID, ev NewItemsEvent) {
	h.publish(userID, Envelope{Kind: KindNewActionItems, Payload: ev})
}

func (h *Hub) publish(userID uuid.UUID, env Envelope) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return
	}

	for sub := range h.subs {
		if sub.userID != userID {
			continue
		}
		select {
		case sub.ch <- env:
		default:
			// Slow consumer: drop rather than stall the publisher
			if h.logger != nil {
				h.logger.Warn("⚠️ Dropping realtime event for slow subscriber",
					zap.String("user_id", userID.String()),
					zap.String("kind", env.Kind),
				)
			}
		}
	}
}

// Close shuts the hub down and closes every subscriber channel. Publishes
// after Close are no-ops.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for sub := range h.subs {
		close(sub.ch)
		delete(h.subs, sub)
	}
}

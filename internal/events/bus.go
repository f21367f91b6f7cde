// Package events carries post-commit job notifications from services to the
// realtime fan-out: websocket clients, the notification store, email and the
// Postgres bridge. Delivery is best effort and never feeds back into state.
package events

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/tungtase04539/sangtaophaisinh/internal/logger"
	"github.com/tungtase04539/sangtaophaisinh/internal/models"
)

type EventType string

const (
	JobCreated       EventType = "job.created"
	JobLocked        EventType = "job.locked"
	JobReleased      EventType = "job.released"
	JobSubmitted     EventType = "job.submitted"
	JobReviewed      EventType = "job.reviewed"
	JobCompleted     EventType = "job.completed"
	JobStatusChanged EventType = "job.status_changed"
	JobOverdue       EventType = "job.overdue"
	CTVVerified      EventType = "ctv.verified"
	BalanceCredited  EventType = "balance.credited"
)

type Event struct {
	ID      string    `json:"id"`
	Type    EventType `json:"type"`
	JobID   string    `json:"job_id,omitempty"`
	ActorID string    `json:"actor_id,omitempty"`
	// Recipients get a persisted notification. Audience roles only get the
	// realtime push.
	Recipients []string          `json:"recipients,omitempty"`
	Audience   []models.UserRole `json:"audience,omitempty"`
	Title      string            `json:"title"`
	Message    string            `json:"message"`
	Payload    map[string]any    `json:"payload,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
	Origin     string            `json:"origin"`
	// Remote is set on events received from another instance.
	Remote bool `json:"-"`
}

// Publisher is what services depend on.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

type Subscriber interface {
	Name() string
	Handle(ctx context.Context, event Event) error
}

// Bus is an in-process fan-out with a bounded queue. Publish never blocks:
// when the queue is full the event is dropped and counted.
type Bus struct {
	origin      string
	queue       chan Event
	mu          sync.RWMutex
	subscribers []Subscriber
	dropped     atomic.Int64
	wg          sync.WaitGroup
}

func NewBus(bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	return &Bus{
		origin: uuid.NewString(),
		queue:  make(chan Event, bufferSize),
	}
}

// Origin identifies this process on the bridge.
func (b *Bus) Origin() string {
	return b.origin
}

func (b *Bus) Subscribe(s Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, s)
}

func (b *Bus) Publish(ctx context.Context, event Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	if event.Origin == "" {
		event.Origin = b.origin
	}
	b.enqueue(ctx, event)
}

// PublishRemote injects an event that another instance already handled.
func (b *Bus) PublishRemote(ctx context.Context, event Event) {
	event.Remote = true
	b.enqueue(ctx, event)
}

func (b *Bus) Dropped() int64 {
	return b.dropped.Load()
}

func (b *Bus) enqueue(ctx context.Context, event Event) {
	select {
	case b.queue <- event:
	default:
		b.dropped.Add(1)
		logger.CtxWarn(ctx, "Event dropped, bus queue full", "type", event.Type, "job_id", event.JobID)
	}
}

// Start dispatches until ctx is cancelled. Call Wait to block on shutdown.
func (b *Bus) Start(ctx context.Context) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for {
			select {
			case <-ctx.Done():
				logger.WorkerLog("event_bus", "stopped", nil)
				return
			case event := <-b.queue:
				b.dispatch(ctx, event)
			}
		}
	}()
}

func (b *Bus) Wait() {
	b.wg.Wait()
}

func (b *Bus) dispatch(ctx context.Context, event Event) {
	b.mu.RLock()
	subscribers := make([]Subscriber, len(b.subscribers))
	copy(subscribers, b.subscribers)
	b.mu.RUnlock()

	for _, s := range subscribers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("Event subscriber panicked", "subscriber", s.Name(), "type", event.Type, "panic", r)
				}
			}()
			if err := s.Handle(ctx, event); err != nil {
				logger.Warn("Event subscriber failed",
					"subscriber", s.Name(),
					"type", event.Type,
					"job_id", event.JobID,
					"error", err,
				)
			}
		}()
	}
}

// Nop discards events. Used where no realtime fan-out is wired.
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}

package workspace

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/focusdesk/internal/domain"
)

// Event types published on the workspace channel.
const (
	EventTasksChanged = "tasks.changed"
	EventTimerChanged = "timer.changed"
	EventTimerExpired = "timer.expired"
	EventThemeChanged = "theme.changed"
)

// Event is a real-time workspace update.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

type TasksPayload struct {
	Tasks     []domain.Task `json:"tasks"`
	Remaining int           `json:"remaining"`
}

type ExpiryPayload struct {
	From       domain.Mode `json:"from"`
	To         domain.Mode `json:"to"`
	CycleCount int         `json:"cycle_count"`
	Running    bool        `json:"running"`
}

type ThemePayload struct {
	Theme domain.Theme `json:"theme"`
}

// Publisher delivers encoded events to a channel. Both the in-process broker
// and the Redis pub/sub satisfy it.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

const eventQueueSize = 1024

// dispatcher publishes events in order from a single goroutine so callers
// holding the workspace lock never wait on the broker.
type dispatcher struct {
	publisher Publisher
	channel   string
	timeout   time.Duration
	queue     chan Event
	done      chan struct{}
}

func newDispatcher(publisher Publisher, channel string, timeout time.Duration) *dispatcher {
	return &dispatcher{
		publisher: publisher,
		channel:   channel,
		timeout:   timeout,
		queue:     make(chan Event, eventQueueSize),
		done:      make(chan struct{}),
	}
}

func (d *dispatcher) emit(ev Event) {
	if d.publisher == nil {
		return
	}
	select {
	case d.queue <- ev:
	default:
		log.Debug().Str("type", ev.Type).Msg("event queue full, dropping event")
	}
}

func (d *dispatcher) run(ctx context.Context) {
	defer close(d.done)
	for {
		select {
		case ev := <-d.queue:
			d.publish(ev)
		case <-ctx.Done():
			for {
				select {
				case ev := <-d.queue:
					d.publish(ev)
				default:
					return
				}
			}
		}
	}
}

func (d *dispatcher) publish(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("type", ev.Type).Msg("encode event")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := d.publisher.Publish(ctx, d.channel, payload); err != nil {
		log.Debug().Err(err).Str("type", ev.Type).Msg("publish event")
	}
}

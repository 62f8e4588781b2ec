package ws

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/coder/websocket"

	"github.com/gosuda/focusdesk/internal/workspace"
)

// Broker is the pub/sub surface shared by the hub, which subscribes, and the
// workspace, which publishes. Both *redis.PubSub and *memory.PubSub satisfy it.
type Broker interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, func(), error)
}

// StateSource provides the snapshot sent when a client connects.
type StateSource interface {
	State() workspace.State
}

// EventState is the type of the first message on every connection.
const EventState = "state"

// Hub streams workspace events to WebSocket clients.
type Hub struct {
	broker  Broker
	channel string
	state   StateSource
	origins []string
}

// NewHub creates a hub that relays messages published on channel.
// originPatterns is passed to websocket.Accept; nil allows same-origin only.
func NewHub(broker Broker, channel string, state StateSource, originPatterns []string) *Hub {
	return &Hub{broker: broker, channel: channel, state: state, origins: originPatterns}
}

// ServeEvents handles WebSocket connections for workspace updates.
// Sends a state snapshot, then every event published on the workspace channel.
func (h *Hub) ServeEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: h.origins})
	if err != nil {
		log.Error().Err(err).Msg("websocket accept")
		return
	}
	defer conn.CloseNow()

	// Client messages are ignored; CloseRead cancels ctx once the peer goes away.
	ctx := conn.CloseRead(r.Context())

	messages, cleanup, err := h.broker.Subscribe(ctx, h.channel)
	if err != nil {
		log.Error().Err(err).Msg("websocket subscribe")
		_ = conn.Close(websocket.StatusInternalError, "subscribe failed")
		return
	}
	defer cleanup()

	if h.state != nil {
		snapshot, err := json.Marshal(workspace.Event{Type: EventState, Data: h.state.State()})
		if err != nil {
			log.Error().Err(err).Msg("websocket encode state")
			_ = conn.Close(websocket.StatusInternalError, "encode failed")
			return
		}
		if err := conn.Write(ctx, websocket.MessageText, snapshot); err != nil {
			log.Debug().Err(err).Msg("websocket write")
			return
		}
	}

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "connection closed")
			return
		case msg, msgOK := <-messages:
			if !msgOK {
				_ = conn.Close(websocket.StatusNormalClosure, "channel closed")
				return
			}
			if writeErr := conn.Write(ctx, websocket.MessageText, msg); writeErr != nil {
				log.Debug().Err(writeErr).Msg("websocket write")
				return
			}
		}
	}
}

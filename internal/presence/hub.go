package presence

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

// Event types broadcast on an organization's presence channel.
const (
	EventJoin         = "join"
	EventLeave        = "leave"
	EventNotification = "notification"
)

// Event is the wire format on the presence channel.
type Event struct {
	Type   string `json:"type"`
	UserID string `json:"user_id,omitempty"`
	Title  string `json:"title,omitempty"`
	Body   string `json:"body,omitempty"`
}

// ChannelForOrg names the Redis pub/sub channel for an organization.
func ChannelForOrg(orgID string) string {
	return "presence:org:" + orgID
}

func rosterKey(orgID string) string {
	return "presence:org:" + orgID + ":members"
}

// Hub bridges websocket clients and the per-organization Redis channel.
// All fan-out happens through Redis so multiple server instances share one
// presence view.
type Hub struct {
	client   *redis.Client
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewHub constructs a Hub.
func NewHub(client *redis.Client, logger *slog.Logger) *Hub {
	return &Hub{
		client: client,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Publish broadcasts an event on the organization channel.
func (h *Hub) Publish(ctx context.Context, orgID string, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return h.client.Publish(ctx, ChannelForOrg(orgID), data).Err()
}

// Roster returns the user ids currently connected for the organization.
func (h *Hub) Roster(ctx context.Context, orgID string) ([]string, error) {
	members, err := h.client.SMembers(ctx, rosterKey(orgID)).Result()
	if err != nil {
		return nil, err
	}
	return members, nil
}

// Serve upgrades the request to a websocket and relays the organization
// channel until the client disconnects. Join and leave events bracket the
// connection lifetime.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, orgID, userID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		if h.logger != nil {
			h.logger.Warn("presence upgrade", slog.Any("error", err))
		}
		return
	}

	ctx := r.Context()
	sub := h.client.Subscribe(ctx, ChannelForOrg(orgID))

	if err := h.join(ctx, orgID, userID); err != nil && h.logger != nil {
		h.logger.Warn("presence join", slog.Any("error", err))
	}

	done := make(chan struct{})

	// Read pump: we never expect client payloads, only close frames.
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// Write pump relays channel events to the client.
	ch := sub.Channel()
loop:
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				break loop
			}
			if err := conn.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
				break loop
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				break loop
			}
		case <-done:
			break loop
		case <-ctx.Done():
			break loop
		}
	}

	_ = sub.Close()
	_ = conn.Close()

	// The request context may already be cancelled here.
	leaveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.leave(leaveCtx, orgID, userID); err != nil && h.logger != nil {
		h.logger.Warn("presence leave", slog.Any("error", err))
	}
}

func (h *Hub) join(ctx context.Context, orgID, userID string) error {
	if err := h.client.SAdd(ctx, rosterKey(orgID), userID).Err(); err != nil {
		return err
	}
	return h.Publish(ctx, orgID, Event{Type: EventJoin, UserID: userID})
}

func (h *Hub) leave(ctx context.Context, orgID, userID string) error {
	if err := h.client.SRem(ctx, rosterKey(orgID), userID).Err(); err != nil {
		return err
	}
	return h.Publish(ctx, orgID, Event{Type: EventLeave, UserID: userID})
}

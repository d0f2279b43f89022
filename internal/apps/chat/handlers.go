package chat

import (
	"encoding/json"
	"log/slog"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// inboundEnvelope defers payload decoding until the event is known.
type inboundEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type Handler struct {
	hub *Hub
}

func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

// Upgrade gates the route to genuine websocket upgrade requests.
func Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Serve runs one connection's event loop. Events are handled in
// arrival order for this connection; connections interleave freely.
func (h *Handler) Serve(c *websocket.Conn) {
	defer func() {
		h.hub.Disconnect(c)
		c.Close()
	}()

	for {
		_, raw, err := c.ReadMessage()
		if err != nil {
			// normal close or network drop; subscriptions die with us
			return
		}

		var env inboundEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			h.writeError(c, "malformed event")
			continue
		}

		switch env.Event {
		case EventJoinRoom:
			var payload JoinRoomPayload
			if err := json.Unmarshal(env.Data, &payload); err != nil || payload.RoomID == "" {
				h.writeError(c, "invalid joinRoom payload")
				continue
			}
			h.hub.Join(c, payload)

		case EventSendMessage:
			var payload SendMessagePayload
			if err := json.Unmarshal(env.Data, &payload); err != nil || payload.RoomID == "" || payload.Message == "" {
				h.writeError(c, "invalid sendMessage payload")
				continue
			}
			h.hub.Send(payload)

		default:
			slog.Warn("chat: unknown event", "event", env.Event)
		}
	}
}

func (h *Handler) writeError(c *websocket.Conn, msg string) {
	if err := h.hub.WriteTo(c, Envelope{Event: EventError, Data: msg}); err != nil {
		slog.Error("chat error write failed", "error", err)
	}
}

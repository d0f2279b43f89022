package chat

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Conn is the slice of a websocket connection the hub needs. The
// concrete type is *websocket.Conn; tests substitute fakes.
type Conn interface {
	WriteJSON(v interface{}) error
}

// subscriber pairs a connection with its write lock. Websocket
// connections allow one concurrent writer, so every outbound frame
// for a registered connection must go through write.
type subscriber struct {
	conn Conn
	mu   sync.Mutex
}

func (s *subscriber) write(env Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(env)
}

// Hub is the process-wide relay registry: which connection is
// subscribed to which rooms. It is owned by the server and passed to
// handlers explicitly; there is no package-level instance.
//
// Consistency window: sendMessage broadcasts to live subscribers
// before the message is queued for persistence, so a message can be
// seen live and still be missing from history if the write later
// fails. Failures are logged and never surfaced to clients.
type Hub struct {
	store MessageStore

	mu    sync.RWMutex
	conns map[Conn]*subscriber
	rooms map[string]map[*subscriber]struct{}

	queue chan ChatMessage
	done  chan struct{}
	wg    sync.WaitGroup
}

// NewHub builds a hub whose async writer drains queueSize pending
// messages. The writer starts immediately.
func NewHub(store MessageStore, queueSize int) *Hub {
	if queueSize <= 0 {
		queueSize = 256
	}
	h := &Hub{
		store: store,
		conns: make(map[Conn]*subscriber),
		rooms: make(map[string]map[*subscriber]struct{}),
		queue: make(chan ChatMessage, queueSize),
		done:  make(chan struct{}),
	}
	h.wg.Add(1)
	go h.writeLoop()
	return h
}

// Join subscribes conn to roomID and replays the room's history to
// that connection only.
func (h *Hub) Join(conn Conn, payload JoinRoomPayload) {
	h.mu.Lock()
	sub, ok := h.conns[conn]
	if !ok {
		sub = &subscriber{conn: conn}
		h.conns[conn] = sub
	}
	subs, ok := h.rooms[payload.RoomID]
	if !ok {
		subs = make(map[*subscriber]struct{})
		h.rooms[payload.RoomID] = subs
	}
	subs[sub] = struct{}{}
	h.mu.Unlock()

	slog.Info("chat join", "room", payload.RoomID, "user", payload.UserID, "role", payload.Role)

	history, err := h.store.History(context.Background(), payload.RoomID)
	if err != nil {
		slog.Error("failed to fetch chat history", "error", err, "room", payload.RoomID)
		return
	}
	if err := sub.write(Envelope{Event: EventPreviousMessages, Data: history}); err != nil {
		slog.Error("failed to replay chat history", "error", err, "room", payload.RoomID)
	}
}

// Send broadcasts the message to every subscriber of the room,
// including the sender, then enqueues it for persistence. Broadcast
// strictly precedes the durable write.
func (h *Hub) Send(payload SendMessagePayload) {
	now := time.Now()
	out := Envelope{
		Event: EventReceiveMessage,
		Data: ReceiveMessagePayload{
			SenderID:   payload.SenderID,
			SenderName: payload.SenderName,
			Message:    payload.Message,
			Timestamp:  now.UnixMilli(),
			RoomID:     payload.RoomID,
		},
	}
	h.broadcast(payload.RoomID, out)

	msg := ChatMessage{
		ID:        uuid.New(),
		RoomID:    payload.RoomID,
		Sender:    payload.SenderID,
		Receiver:  payload.ReceiverID,
		Message:   payload.Message,
		Timestamp: now,
	}
	select {
	case h.queue <- msg:
	default:
		// queue full: the message was already delivered live, history
		// loses it, same contract as a failed write
		slog.Error("chat persistence queue full, message dropped from history",
			"room", payload.RoomID, "sender", payload.SenderID)
	}
}

// Disconnect drops every subscription held by conn. No leave event is
// required; closing the socket is enough.
func (h *Hub) Disconnect(conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	sub, ok := h.conns[conn]
	if !ok {
		return
	}
	delete(h.conns, conn)
	for roomID, subs := range h.rooms {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

// WriteTo sends one envelope to conn through its per-connection lock
// so the frame cannot interleave with a concurrent broadcast. A
// connection the hub has never seen is written directly; until it
// joins a room only its reader goroutine touches it.
func (h *Hub) WriteTo(conn Conn, env Envelope) error {
	h.mu.RLock()
	sub, ok := h.conns[conn]
	h.mu.RUnlock()
	if ok {
		return sub.write(env)
	}
	return conn.WriteJSON(env)
}

// Stop drains the persistence queue and stops the writer.
func (h *Hub) Stop() {
	close(h.done)
	h.wg.Wait()
}

// Subscribers reports the current subscriber count for a room.
func (h *Hub) Subscribers(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

func (h *Hub) broadcast(roomID string, env Envelope) {
	h.mu.RLock()
	subs := make([]*subscriber, 0, len(h.rooms[roomID]))
	for sub := range h.rooms[roomID] {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()

	for _, sub := range subs {
		if err := sub.write(env); err != nil {
			slog.Error("chat broadcast write failed", "error", err, "room", roomID)
		}
	}
}

func (h *Hub) writeLoop() {
	defer h.wg.Done()
	for {
		select {
		case msg := <-h.queue:
			h.persist(msg)
		case <-h.done:
			// drain what is already queued before exiting
			for {
				select {
				case msg := <-h.queue:
					h.persist(msg)
				default:
					return
				}
			}
		}
	}
}

func (h *Hub) persist(msg ChatMessage) {
	if err := h.store.Save(context.Background(), &msg); err != nil {
		slog.Error("failed to persist chat message", "error", err,
			"room", msg.RoomID, "sender", msg.Sender)
	}
}

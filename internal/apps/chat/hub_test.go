package chat

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu      sync.Mutex
	history []ChatMessage
	saved   []ChatMessage
	saveErr error
}

func (s *fakeStore) History(_ context.Context, roomID string) ([]ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ChatMessage, 0, len(s.history))
	for _, m := range s.history {
		if m.RoomID == roomID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *fakeStore) Save(_ context.Context, msg *ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, *msg)
	return nil
}

func (s *fakeStore) savedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

type fakeConn struct {
	mu     sync.Mutex
	writes []Envelope
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes = append(c.writes, v.(Envelope))
	return nil
}

func (c *fakeConn) events(name string) []Envelope {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Envelope
	for _, e := range c.writes {
		if e.Event == name {
			out = append(out, e)
		}
	}
	return out
}

func TestHubJoinReplaysHistoryToJoinerOnly(t *testing.T) {
	room := RoomID("u1", "u2")
	store := &fakeStore{
		history: []ChatMessage{
			{RoomID: room, Sender: "u2", Message: "hello", Timestamp: time.Unix(1, 0)},
			{RoomID: room, Sender: "u1", Message: "hi", Timestamp: time.Unix(2, 0)},
		},
	}
	hub := NewHub(store, 8)
	defer hub.Stop()

	first := &fakeConn{}
	hub.Join(first, JoinRoomPayload{RoomID: room, UserID: "u2", Role: "Doctor"})

	joiner := &fakeConn{}
	hub.Join(joiner, JoinRoomPayload{RoomID: room, UserID: "u1", Role: "Patient"})

	replays := joiner.events(EventPreviousMessages)
	require.Len(t, replays, 1)

	msgs, ok := replays[0].Data.([]ChatMessage)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, "hello", msgs[0].Message)
	assert.Equal(t, "hi", msgs[1].Message)

	// the other subscriber got its own replay at join time, not the joiner's
	assert.Len(t, first.events(EventPreviousMessages), 1)
	assert.Empty(t, first.events(EventReceiveMessage))
}

func TestHubSendBroadcastsToAllSubscribersIncludingSender(t *testing.T) {
	room := RoomID("doc", "pat")
	store := &fakeStore{}
	hub := NewHub(store, 8)

	sender := &fakeConn{}
	receiver := &fakeConn{}
	hub.Join(sender, JoinRoomPayload{RoomID: room, UserID: "pat"})
	hub.Join(receiver, JoinRoomPayload{RoomID: room, UserID: "doc"})

	hub.Send(SendMessagePayload{
		RoomID:     room,
		SenderID:   "pat",
		SenderName: "Pat",
		ReceiverID: "doc",
		Message:    "I have a question",
	})

	for _, conn := range []*fakeConn{sender, receiver} {
		got := conn.events(EventReceiveMessage)
		require.Len(t, got, 1)
		payload, ok := got[0].Data.(ReceiveMessagePayload)
		require.True(t, ok)
		assert.Equal(t, "pat", payload.SenderID)
		assert.Equal(t, "Pat", payload.SenderName)
		assert.Equal(t, "I have a question", payload.Message)
		assert.Equal(t, room, payload.RoomID)
		assert.NotZero(t, payload.Timestamp)
	}

	// Stop drains the queue, so the send is durable afterwards.
	hub.Stop()
	require.Equal(t, 1, store.savedCount())
	assert.Equal(t, "I have a question", store.saved[0].Message)
	assert.Equal(t, "doc", store.saved[0].Receiver)
}

func TestHubBroadcastSurvivesPersistenceFailure(t *testing.T) {
	room := RoomID("a", "b")
	store := &fakeStore{saveErr: errors.New("db down")}
	hub := NewHub(store, 8)

	conn := &fakeConn{}
	hub.Join(conn, JoinRoomPayload{RoomID: room, UserID: "a"})

	hub.Send(SendMessagePayload{RoomID: room, SenderID: "a", Message: "lost to history"})
	hub.Stop()

	// delivered live exactly once, never durable
	assert.Len(t, conn.events(EventReceiveMessage), 1)
	assert.Zero(t, store.savedCount())
}

func TestHubDisconnectDropsSubscriptions(t *testing.T) {
	room := RoomID("x", "y")
	hub := NewHub(&fakeStore{}, 8)
	defer hub.Stop()

	conn := &fakeConn{}
	other := &fakeConn{}
	hub.Join(conn, JoinRoomPayload{RoomID: room, UserID: "x"})
	hub.Join(other, JoinRoomPayload{RoomID: room, UserID: "y"})
	require.Equal(t, 2, hub.Subscribers(room))

	hub.Disconnect(conn)
	assert.Equal(t, 1, hub.Subscribers(room))

	hub.Send(SendMessagePayload{RoomID: room, SenderID: "y", Message: "still here?"})
	assert.Empty(t, conn.events(EventReceiveMessage))
	assert.Len(t, other.events(EventReceiveMessage), 1)
}

func TestHubQueueFullDropsFromHistoryNotFromLiveDelivery(t *testing.T) {
	room := RoomID("m", "n")
	// a store that blocks forever so the writer never drains
	blocked := &blockingStore{release: make(chan struct{})}
	hub := NewHub(blocked, 1)

	conn := &fakeConn{}
	hub.Join(conn, JoinRoomPayload{RoomID: room, UserID: "m"})

	// first send occupies the writer, second fills the queue, third drops
	for i := 0; i < 3; i++ {
		hub.Send(SendMessagePayload{RoomID: room, SenderID: "m", Message: "burst"})
	}

	assert.Len(t, conn.events(EventReceiveMessage), 3)
	close(blocked.release)
	hub.Stop()
}

// overlapConn flags whenever two WriteJSON calls run at once, the
// condition websocket connections forbid.
type overlapConn struct {
	inFlight int32
	overlaps int32
	writes   int32
}

func (c *overlapConn) WriteJSON(interface{}) error {
	if atomic.AddInt32(&c.inFlight, 1) > 1 {
		atomic.AddInt32(&c.overlaps, 1)
	}
	time.Sleep(time.Millisecond)
	atomic.AddInt32(&c.writes, 1)
	atomic.AddInt32(&c.inFlight, -1)
	return nil
}

func TestHubSerializesWritesToASharedConnection(t *testing.T) {
	room := RoomID("doc", "pat")
	hub := NewHub(&fakeStore{}, 64)
	defer hub.Stop()

	conn := &overlapConn{}
	hub.Join(conn, JoinRoomPayload{RoomID: room, UserID: "doc"})

	const senders, perSender = 8, 5
	var wg sync.WaitGroup
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perSender; j++ {
				hub.Send(SendMessagePayload{RoomID: room, SenderID: "pat", Message: "ping"})
			}
		}()
	}
	wg.Wait()

	// one history replay plus every broadcast, none of them concurrent
	assert.Equal(t, int32(1+senders*perSender), atomic.LoadInt32(&conn.writes))
	assert.Zero(t, atomic.LoadInt32(&conn.overlaps))
}

type blockingStore struct {
	release chan struct{}
}

func (s *blockingStore) History(context.Context, string) ([]ChatMessage, error) {
	return nil, nil
}

func (s *blockingStore) Save(context.Context, *ChatMessage) error {
	<-s.release
	return nil
}

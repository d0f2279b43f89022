package chat

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is the durable record of one relayed message. Rows are
// append-only; nothing mutates or deletes them.
type ChatMessage struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RoomID    string    `gorm:"size:100;not null;index" json:"room_id"`
	Sender    string    `gorm:"size:36;not null" json:"sender"`
	Receiver  string    `gorm:"size:36;not null" json:"receiver"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
	CreatedAt time.Time `json:"created_at"`
}

// --- wire events ---

// Envelope frames every frame on the socket in both directions.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Client → server event names.
const (
	EventJoinRoom    = "joinRoom"
	EventSendMessage = "sendMessage"
)

// Server → client event names.
const (
	EventPreviousMessages = "previousMessages"
	EventReceiveMessage   = "receiveMessage"
	EventError            = "error"
)

type JoinRoomPayload struct {
	RoomID string `json:"roomId"`
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

type SendMessagePayload struct {
	RoomID     string `json:"roomId"`
	SenderID   string `json:"senderId"`
	SenderName string `json:"senderName"`
	ReceiverID string `json:"receiverId"`
	Message    string `json:"message"`
}

// ReceiveMessagePayload is fanned out to every room subscriber,
// including the sender; clients identify their own messages by
// comparing senderId. Timestamp is epoch milliseconds.
type ReceiveMessagePayload struct {
	SenderID   string `json:"senderId"`
	SenderName string `json:"senderName"`
	Message    string `json:"message"`
	Timestamp  int64  `json:"timestamp"`
	RoomID     string `json:"roomId"`
}

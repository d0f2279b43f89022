package community

import (
	"time"

	"github.com/curelink/curelink-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// problemTTL is how long a question stays on the board.
const problemTTL = 7 * 24 * time.Hour

// Problem is a community question. ExpiresAt stands in for the
// document-store TTL index: reads filter on it and a daily sweep
// deletes what has lapsed.
type Problem struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title       string         `gorm:"not null;size:255" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Tags        datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"tags"`
	AuthorID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"author_id"`
	ExpiresAt   time.Time      `gorm:"not null;index" json:"expires_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Author      models.User    `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Answers     []Answer       `gorm:"foreignKey:ProblemID" json:"answers"`
}

type Answer struct {
	ID        uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProblemID uuid.UUID   `gorm:"type:uuid;not null;index" json:"problem_id"`
	Content   string      `gorm:"type:text;not null" json:"content"`
	AuthorID  uuid.UUID   `gorm:"type:uuid;not null;index" json:"author_id"`
	CreatedAt time.Time   `json:"created_at"`
	Author    models.User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

// --- DTOs ---

type CreateProblemRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

type AnswerRequest struct {
	Content string `json:"content"`
}

type ProblemDetail struct {
	Problem *Problem `json:"problem"`
	Answers []Answer `json:"answers"`
}

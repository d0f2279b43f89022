package tasks

import (
	"time"

	"github.com/google/uuid"
)

// Task is one checklist item. Date is stored as an ISO date string
// (YYYY-MM-DD) so lexicographic range queries match calendar order.
type Task struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string    `gorm:"not null;size:255" json:"name"`
	Completed bool      `gorm:"not null;default:false" json:"completed"`
	Date      string    `gorm:"size:10;not null;index" json:"date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// --- DTOs ---

type CreateTaskRequest struct {
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
	Date      string `json:"date"`
}

type BulkCreateRequest struct {
	Tasks []string `json:"tasks"`
	Date  string   `json:"date"`
}

type ToggleRequest struct {
	Completed bool `json:"completed"`
}

type SuggestRequest struct {
	Goal string `json:"goal"`
}

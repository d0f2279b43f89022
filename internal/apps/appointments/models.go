package appointments

import (
	"time"

	"github.com/curelink/curelink-backend/internal/models"
	"github.com/google/uuid"
)

// Appointment status values.
const (
	StatusPending   = "pending"
	StatusAccepted  = "accepted"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

type Appointment struct {
	ID        uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DoctorID  uuid.UUID   `gorm:"type:uuid;not null;index" json:"doctor_id"`
	PatientID uuid.UUID   `gorm:"type:uuid;not null;index" json:"patient_id"`
	Reason    string      `gorm:"type:text;not null" json:"reason"`
	Status    string      `gorm:"size:20;not null;default:'pending'" json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	Doctor    models.User `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Patient   models.User `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

// --- DTOs ---

type BookRequest struct {
	DoctorID string `json:"doctorId"`
	Reason   string `json:"reason"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ContactEntry is one row of the patient's chat-contact list: an
// accepted appointment with the doctor's display data joined in.
type ContactEntry struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	DoctorID      uuid.UUID `json:"doctor_id"`
	DoctorName    string    `json:"doctor_name"`
	Reason        string    `json:"reason"`
	CreatedAt     time.Time `json:"created_at"`
}

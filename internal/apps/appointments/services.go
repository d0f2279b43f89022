package appointments

import (
	"errors"

	"github.com/curelink/curelink-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrMissingFields     = errors.New("doctorId and reason are required")
	ErrDoctorNotFound    = errors.New("doctor not found")
	ErrNotFound          = errors.New("appointment not found")
	ErrInvalidStatus     = errors.New("status must be pending, accepted, rejected or cancelled")
	ErrNotParticipant    = errors.New("you are not a party to this appointment")
	ErrForbiddenStatus   = errors.New("only the appointment's doctor may accept or reject")
	ErrInvalidTransition = errors.New("invalid status transition")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Book creates a pending appointment for the calling patient. Repeat
// bookings against the same doctor are allowed; there is no time-slot
// model to collide with.
func (s *Service) Book(patientID uuid.UUID, req BookRequest) (*Appointment, error) {
	if req.DoctorID == "" || req.Reason == "" {
		return nil, ErrMissingFields
	}

	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return nil, ErrDoctorNotFound
	}

	var doctor models.User
	if err := s.db.Where("id = ? AND role = ?", doctorID, models.RoleDoctor).First(&doctor).Error; err != nil {
		return nil, ErrDoctorNotFound
	}

	appt := Appointment{
		ID:        uuid.New(),
		DoctorID:  doctorID,
		PatientID: patientID,
		Reason:    req.Reason,
		Status:    StatusPending,
	}
	if err := s.db.Create(&appt).Error; err != nil {
		return nil, err
	}
	return &appt, nil
}

// ListForDoctor returns every appointment addressed to the doctor with
// the patient profile preloaded, newest first.
func (s *Service) ListForDoctor(doctorID uuid.UUID) ([]Appointment, error) {
	var appts []Appointment
	err := s.db.Preload("Patient").
		Where("doctor_id = ?", doctorID).
		Order("created_at DESC").
		Find(&appts).Error
	return appts, err
}

// ListAcceptedForPatient returns the patient's accepted appointments
// with the doctor joined in. This feeds the chat-contact list.
func (s *Service) ListAcceptedForPatient(patientID uuid.UUID) ([]ContactEntry, error) {
	var appts []Appointment
	err := s.db.Preload("Doctor").
		Where("patient_id = ? AND status = ?", patientID, StatusAccepted).
		Order("created_at DESC").
		Find(&appts).Error
	if err != nil {
		return nil, err
	}

	contacts := make([]ContactEntry, 0, len(appts))
	for _, a := range appts {
		contacts = append(contacts, ContactEntry{
			AppointmentID: a.ID,
			DoctorID:      a.DoctorID,
			DoctorName:    a.Doctor.Name,
			Reason:        a.Reason,
			CreatedAt:     a.CreatedAt,
		})
	}
	return contacts, nil
}

// UpdateStatus transitions an appointment. Accept/reject is reserved
// for the appointment's doctor and only from pending; cancel is open
// to either party from pending or accepted.
func (s *Service) UpdateStatus(callerID uuid.UUID, apptID uuid.UUID, status string) (*Appointment, error) {
	if !validStatus(status) {
		return nil, ErrInvalidStatus
	}

	var appt Appointment
	if err := s.db.First(&appt, "id = ?", apptID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if callerID != appt.DoctorID && callerID != appt.PatientID {
		return nil, ErrNotParticipant
	}

	if err := checkTransition(&appt, callerID, status); err != nil {
		return nil, err
	}

	if err := s.db.Model(&appt).Update("status", status).Error; err != nil {
		return nil, err
	}
	appt.Status = status
	return &appt, nil
}

func checkTransition(appt *Appointment, callerID uuid.UUID, status string) error {
	switch status {
	case StatusAccepted, StatusRejected:
		if callerID != appt.DoctorID {
			return ErrForbiddenStatus
		}
		if appt.Status != StatusPending {
			return ErrInvalidTransition
		}
	case StatusCancelled:
		if appt.Status != StatusPending && appt.Status != StatusAccepted {
			return ErrInvalidTransition
		}
	default:
		// pending is only ever the initial state
		return ErrInvalidTransition
	}
	return nil
}

func validStatus(status string) bool {
	switch status {
	case StatusPending, StatusAccepted, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

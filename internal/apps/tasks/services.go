package tasks

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNameRequired = errors.New("task name is required")
	ErrBadDate      = errors.New("date must be formatted YYYY-MM-DD")
	ErrEmptyBulk    = errors.New("tasks list is empty")
	ErrNotFound     = errors.New("task not found")
)

// maxDistinctDates caps how many calendar dates a user's checklist
// spans. Introducing a date beyond the cap evicts the oldest date's
// tasks in bulk. The cap counts dates, not tasks; rows within an
// existing date grow freely.
const maxDistinctDates = 7

const dateLayout = "2006-01-02"

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Create inserts a task, running date eviction first when the task's
// date is new for this user.
func (s *Service) Create(userID uuid.UUID, req CreateTaskRequest) (*Task, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	date, err := normalizeDate(req.Date)
	if err != nil {
		return nil, err
	}

	if err := s.evictIfNeeded(userID, date); err != nil {
		return nil, err
	}

	task := Task{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Completed: req.Completed,
		Date:      date,
	}
	if err := s.db.Create(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// BulkCreate ingests a flat list of task names, all on one date. This
// is the ingestion path for AI-suggested tasks. The eviction check
// runs once for the shared date.
func (s *Service) BulkCreate(userID uuid.UUID, req BulkCreateRequest) ([]Task, error) {
	names := make([]string, 0, len(req.Tasks))
	for _, n := range req.Tasks {
		if trimmed := strings.TrimSpace(n); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	if len(names) == 0 {
		return nil, ErrEmptyBulk
	}

	date, err := normalizeDate(req.Date)
	if err != nil {
		return nil, err
	}

	if err := s.evictIfNeeded(userID, date); err != nil {
		return nil, err
	}

	batch := make([]Task, 0, len(names))
	for _, n := range names {
		batch = append(batch, Task{
			ID:     uuid.New(),
			UserID: userID,
			Name:   n,
			Date:   date,
		})
	}
	if err := s.db.Create(&batch).Error; err != nil {
		return nil, err
	}
	return batch, nil
}

// ListLast7Days returns the caller's tasks dated within the rolling
// window [today-6, today], newest date first. ISO date strings sort
// lexicographically in calendar order, so a string range is safe.
func (s *Service) ListLast7Days(userID uuid.UUID) ([]Task, error) {
	start, end := window(time.Now().UTC())

	var result []Task
	err := s.db.
		Where("user_id = ? AND date >= ? AND date <= ?", userID, start, end).
		Order("date DESC").
		Find(&result).Error
	return result, err
}

// ToggleCompletion flips the completed flag on a task the caller owns.
// A wrong id and a wrong owner are reported identically as not found.
func (s *Service) ToggleCompletion(userID uuid.UUID, taskID uuid.UUID, completed bool) (*Task, error) {
	result := s.db.Model(&Task{}).
		Where("id = ? AND user_id = ?", taskID, userID).
		Update("completed", completed)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	var task Task
	if err := s.db.First(&task, "id = ?", taskID).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// evictIfNeeded deletes the oldest date's tasks when date is new for
// the user and the distinct-date cap is already reached.
func (s *Service) evictIfNeeded(userID uuid.UUID, date string) error {
	var dates []string
	err := s.db.Model(&Task{}).
		Where("user_id = ?", userID).
		Distinct().
		Pluck("date", &dates).Error
	if err != nil {
		return err
	}

	evict, oldest := evictionTarget(dates, date)
	if !evict {
		return nil
	}

	result := s.db.Where("user_id = ? AND date = ?", userID, oldest).Delete(&Task{})
	if result.Error != nil {
		return result.Error
	}
	slog.Info("task retention evicted oldest date",
		"user_id", userID.String(), "date", oldest, "deleted", result.RowsAffected)
	return nil
}

// evictionTarget decides whether inserting newDate requires evicting,
// and if so which existing date goes. Pure so the retention policy is
// testable without a database.
func evictionTarget(existing []string, newDate string) (bool, string) {
	oldest := ""
	for _, d := range existing {
		if d == newDate {
			return false, ""
		}
		if oldest == "" || d < oldest {
			oldest = d
		}
	}
	if len(existing) < maxDistinctDates {
		return false, ""
	}
	return true, oldest
}

// window returns the inclusive [today-6, today] date-string range.
func window(now time.Time) (string, string) {
	end := now.Format(dateLayout)
	start := now.AddDate(0, 0, -6).Format(dateLayout)
	return start, end
}

// normalizeDate validates an incoming date or defaults it to today.
func normalizeDate(date string) (string, error) {
	if date == "" {
		return time.Now().UTC().Format(dateLayout), nil
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return "", ErrBadDate
	}
	return date, nil
}

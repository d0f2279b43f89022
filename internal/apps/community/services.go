package community

import (
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrTitleRequired   = errors.New("title is required")
	ErrContentRequired = errors.New("content is required")
	ErrProblemNotFound = errors.New("problem not found")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) CreateProblem(authorID uuid.UUID, req CreateProblemRequest) (*Problem, error) {
	if req.Title == "" {
		return nil, ErrTitleRequired
	}

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return nil, err
	}

	problem := Problem{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Tags:        datatypes.JSON(tagsJSON),
		AuthorID:    authorID,
		ExpiresAt:   time.Now().Add(problemTTL),
	}
	if err := s.db.Create(&problem).Error; err != nil {
		return nil, err
	}
	return &problem, nil
}

// AnswerProblem creates the answer, then touches the parent problem so
// its updated_at reflects activity. The two writes are not atomic; a
// crash in between leaves an answer that still resolves through the
// problem_id foreign key on the next read.
func (s *Service) AnswerProblem(authorID uuid.UUID, problemID uuid.UUID, req AnswerRequest) (*Answer, error) {
	if req.Content == "" {
		return nil, ErrContentRequired
	}

	var problem Problem
	if err := s.liveProblems().First(&problem, "id = ?", problemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProblemNotFound
		}
		return nil, err
	}

	answer := Answer{
		ID:        uuid.New(),
		ProblemID: problemID,
		Content:   req.Content,
		AuthorID:  authorID,
	}
	if err := s.db.Create(&answer).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&problem).Update("updated_at", time.Now()).Error; err != nil {
		slog.Error("failed to touch problem after answer", "error", err, "problem_id", problemID.String())
	}

	if err := s.db.Preload("Author").First(&answer, "id = ?", answer.ID).Error; err != nil {
		return nil, err
	}
	return &answer, nil
}

// ListProblems returns the non-expired board, newest first, with
// author names and nested answer authors populated.
func (s *Service) ListProblems() ([]Problem, error) {
	var problems []Problem
	err := s.liveProblems().
		Preload("Author").
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("answers.created_at ASC")
		}).
		Preload("Answers.Author").
		Order("created_at DESC").
		Find(&problems).Error
	return problems, err
}

func (s *Service) GetProblem(problemID uuid.UUID) (*ProblemDetail, error) {
	var problem Problem
	err := s.liveProblems().Preload("Author").First(&problem, "id = ?", problemID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProblemNotFound
		}
		return nil, err
	}

	var answers []Answer
	err = s.db.Preload("Author").
		Where("problem_id = ?", problemID).
		Order("created_at ASC").
		Find(&answers).Error
	if err != nil {
		return nil, err
	}

	return &ProblemDetail{Problem: &problem, Answers: answers}, nil
}

// liveProblems scopes queries to questions that have not expired yet.
func (s *Service) liveProblems() *gorm.DB {
	return s.db.Where("expires_at > ?", time.Now())
}

// StartExpirySweep runs a daily goroutine that deletes expired
// problems and cascades their answers. The cascade is a second write;
// an answer orphaned by a crash between the two is removed on the
// next sweep.
func (s *Service) StartExpirySweep(done chan struct{}) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.sweepExpired()
			case <-done:
				return
			}
		}
	}()
}

func (s *Service) sweepExpired() {
	var expired []uuid.UUID
	err := s.db.Model(&Problem{}).
		Where("expires_at <= ?", time.Now()).
		Pluck("id", &expired).Error
	if err != nil {
		slog.Error("community expiry sweep failed", "error", err)
		return
	}
	if len(expired) == 0 {
		return
	}

	if err := s.db.Where("problem_id IN ?", expired).Delete(&Answer{}).Error; err != nil {
		slog.Error("community answer cascade failed", "error", err)
	}
	result := s.db.Where("id IN ?", expired).Delete(&Problem{})
	if result.Error != nil {
		slog.Error("community problem expiry failed", "error", result.Error)
		return
	}
	slog.Info("community expiry sweep completed", "deleted", result.RowsAffected)
}

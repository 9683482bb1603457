package services

import (
	"errors"
	"time"

	"examhub/apperrors"
	"examhub/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// questionOrder is the display and grading order everywhere: author-assigned
// number ascending, ties broken by insertion order.
const questionOrder = "question_number ASC, created_at ASC, id ASC"

// ExamService owns the authoring side: exam and question CRUD plus the
// draft/published state machine. Every successful mutation invalidates the
// delivery cache for the touched exam.
type ExamService struct {
	db    *gorm.DB
	cache *ExamCache
}

func NewExamService(db *gorm.DB, cache *ExamCache) *ExamService {
	return &ExamService{db: db, cache: cache}
}

type CreateExamRequest struct {
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description"`
	Subject      string `json:"subject" binding:"required"`
	Duration     int    `json:"duration" binding:"required"`
	Status       string `json:"status"`
	Year         string `json:"year"`
	Province     string `json:"province"`
	Type         string `json:"type"`
	Difficulty   string `json:"difficulty"`
	Grade        string `json:"grade"`
	ThumbnailURL string `json:"thumbnail_url"`
	TopicID      string `json:"topic_id"`
}

type UpdateExamRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Subject      *string `json:"subject"`
	Duration     *int    `json:"duration"`
	Year         *string `json:"year"`
	Province     *string `json:"province"`
	Type         *string `json:"type"`
	Difficulty   *string `json:"difficulty"`
	Grade        *string `json:"grade"`
	ThumbnailURL *string `json:"thumbnail_url"`
	TopicID      *string `json:"topic_id"`
}

type QuestionRequest struct {
	QuestionNumber   int             `json:"question_number" binding:"required"`
	QuestionText     string          `json:"question_text" binding:"required"`
	QuestionImageURL string          `json:"question_image_url"`
	Options          []models.Option `json:"options" binding:"required"`
	CorrectAnswer    string          `json:"correct_answer" binding:"required"`
	Explanation      string          `json:"explanation"`
}

type UpdateQuestionRequest struct {
	QuestionNumber   *int             `json:"question_number"`
	QuestionText     *string          `json:"question_text"`
	QuestionImageURL *string          `json:"question_image_url"`
	Options          *[]models.Option `json:"options"`
	CorrectAnswer    *string          `json:"correct_answer"`
	Explanation      *string          `json:"explanation"`
}

func (s *ExamService) CreateExam(req *CreateExamRequest) (*models.Exam, error) {
	// Unlike bulk import, authoring rejects an unknown status outright.
	status := models.ExamStatusDraft
	if req.Status != "" {
		if req.Status != models.ExamStatusDraft && req.Status != models.ExamStatusPublished {
			return nil, apperrors.Validationf("status must be %q or %q", models.ExamStatusDraft, models.ExamStatusPublished)
		}
		status = req.Status
	}

	exam := &models.Exam{
		ID:           uuid.New().String(),
		Title:        req.Title,
		Description:  req.Description,
		Subject:      req.Subject,
		Duration:     req.Duration,
		Status:       status,
		Year:         req.Year,
		Province:     req.Province,
		Type:         req.Type,
		Difficulty:   req.Difficulty,
		Grade:        req.Grade,
		ThumbnailURL: req.ThumbnailURL,
		TopicID:      req.TopicID,
	}

	if err := exam.Validate(); err != nil {
		return nil, err
	}
	if err := s.db.Create(exam).Error; err != nil {
		return nil, err
	}

	s.cache.InvalidateListing()
	return exam, nil
}

// ListExams is the admin listing: every exam regardless of status.
func (s *ExamService) ListExams() ([]models.Exam, error) {
	var exams []models.Exam
	err := s.db.Order("created_at DESC").Find(&exams).Error
	return exams, err
}

// GetExam is the admin projection: full fields including correct answers.
func (s *ExamService) GetExam(examID string) (*models.Exam, error) {
	var exam models.Exam
	err := s.db.Where("id = ?", examID).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order(questionOrder)
		}).
		First(&exam).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFoundf("exam %s does not exist", examID)
	}
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

func (s *ExamService) UpdateExam(examID string, req *UpdateExamRequest) (*models.Exam, error) {
	exam, err := s.GetExam(examID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		exam.Title = *req.Title
	}
	if req.Description != nil {
		exam.Description = *req.Description
	}
	if req.Subject != nil {
		exam.Subject = *req.Subject
	}
	if req.Duration != nil {
		exam.Duration = *req.Duration
	}
	if req.Year != nil {
		exam.Year = *req.Year
	}
	if req.Province != nil {
		exam.Province = *req.Province
	}
	if req.Type != nil {
		exam.Type = *req.Type
	}
	if req.Difficulty != nil {
		exam.Difficulty = *req.Difficulty
	}
	if req.Grade != nil {
		exam.Grade = *req.Grade
	}
	if req.ThumbnailURL != nil {
		exam.ThumbnailURL = *req.ThumbnailURL
	}
	if req.TopicID != nil {
		exam.TopicID = *req.TopicID
	}

	if err := exam.Validate(); err != nil {
		return nil, err
	}
	if err := s.db.Omit("Questions").Save(exam).Error; err != nil {
		return nil, err
	}

	s.cache.Invalidate(examID)
	return exam, nil
}

// DeleteExam removes the exam and all of its questions. Submissions that
// reference the exam are historical records and stay untouched.
func (s *ExamService) DeleteExam(examID string) error {
	exam, err := s.GetExam(examID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("exam_id = ?", examID).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Exam{}, "id = ?", exam.ID).Error
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(examID)
	return nil
}

// SetStatus is a pure two-state transition between draft and published. No
// side effects beyond visibility; repeated toggles are always legal.
func (s *ExamService) SetStatus(examID, status string) (*models.Exam, error) {
	if status != models.ExamStatusDraft && status != models.ExamStatusPublished {
		return nil, apperrors.Validationf("status must be %q or %q", models.ExamStatusDraft, models.ExamStatusPublished)
	}

	var exam models.Exam
	if err := s.db.Where("id = ?", examID).First(&exam).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("exam %s does not exist", examID)
		}
		return nil, err
	}

	exam.Status = status
	if err := s.db.Omit("Questions").Save(&exam).Error; err != nil {
		return nil, err
	}

	s.cache.Invalidate(examID)
	return &exam, nil
}

func (s *ExamService) AddQuestion(examID string, req *QuestionRequest) (*models.Question, error) {
	if _, err := s.examExists(examID); err != nil {
		return nil, err
	}

	question := &models.Question{
		ID:               uuid.New().String(),
		ExamID:           examID,
		QuestionNumber:   req.QuestionNumber,
		QuestionText:     req.QuestionText,
		QuestionImageURL: req.QuestionImageURL,
		Options:          req.Options,
		CorrectAnswer:    req.CorrectAnswer,
		Explanation:      req.Explanation,
	}

	if err := question.Validate(); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(question).Error; err != nil {
			return err
		}
		return s.touchExam(tx, examID)
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(examID)
	return question, nil
}

// UpdateQuestion applies a partial update. Options and CorrectAnswer may
// arrive separately, so the answer-key invariant is re-checked against the
// resulting combined state, never a single field in isolation.
func (s *ExamService) UpdateQuestion(questionID string, req *UpdateQuestionRequest) (*models.Question, error) {
	var question models.Question
	if err := s.db.Where("id = ?", questionID).First(&question).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("question %s does not exist", questionID)
		}
		return nil, err
	}

	if req.QuestionNumber != nil {
		question.QuestionNumber = *req.QuestionNumber
	}
	if req.QuestionText != nil {
		question.QuestionText = *req.QuestionText
	}
	if req.QuestionImageURL != nil {
		question.QuestionImageURL = *req.QuestionImageURL
	}
	if req.Options != nil {
		question.Options = *req.Options
	}
	if req.CorrectAnswer != nil {
		question.CorrectAnswer = *req.CorrectAnswer
	}
	if req.Explanation != nil {
		question.Explanation = *req.Explanation
	}

	if err := question.Validate(); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&question).Error; err != nil {
			return err
		}
		return s.touchExam(tx, question.ExamID)
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(question.ExamID)
	return &question, nil
}

func (s *ExamService) DeleteQuestion(questionID string) error {
	var question models.Question
	if err := s.db.Where("id = ?", questionID).First(&question).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFoundf("question %s does not exist", questionID)
		}
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Question{}, "id = ?", questionID).Error; err != nil {
			return err
		}
		return s.touchExam(tx, question.ExamID)
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(question.ExamID)
	return nil
}

// ExamExists reports whether the exam is present, without loading its
// question set. Used by callers that only need an existence check.
func (s *ExamService) ExamExists(examID string) error {
	_, err := s.examExists(examID)
	return err
}

func (s *ExamService) examExists(examID string) (*models.Exam, error) {
	var exam models.Exam
	if err := s.db.Where("id = ?", examID).First(&exam).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("exam %s does not exist", examID)
		}
		return nil, err
	}
	return &exam, nil
}

// touchExam bumps the exam's updated_at when one of its questions changes.
func (s *ExamService) touchExam(tx *gorm.DB, examID string) error {
	return tx.Model(&models.Exam{}).Where("id = ?", examID).
		Update("updated_at", time.Now()).Error
}

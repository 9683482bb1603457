package services

import (
	"strings"

	"examhub/apperrors"
	"examhub/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ImportService turns an externally supplied exam document into a persisted
// exam in one operation. Validation is two-phase: the whole document is
// checked first with every failure collected, and only a fully valid document
// is persisted, as one transaction. Partial imports never happen.
type ImportService struct {
	db    *gorm.DB
	cache *ExamCache
}

func NewImportService(db *gorm.DB, cache *ExamCache) *ImportService {
	return &ImportService{db: db, cache: cache}
}

type ImportDocument struct {
	ExamInfo  ImportExamInfo   `json:"exam_info" binding:"required"`
	Questions []ImportQuestion `json:"questions"`
}

type ImportExamInfo struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Subject     string `json:"subject"`
	Duration    int    `json:"duration"`
	Status      string `json:"status"`
}

type ImportQuestion struct {
	QuestionNumber   int             `json:"question_number"`
	QuestionText     string          `json:"question_text"`
	QuestionImageURL string          `json:"question_image_url"`
	Options          []models.Option `json:"options"`
	CorrectAnswer    string          `json:"correct_answer"`
	Explanation      string          `json:"explanation"`
}

// ImportExam validates and persists the document. On validation failure it
// returns an *apperrors.ImportValidationError carrying every offending
// question number, so the caller can fix the document in one round trip.
func (s *ImportService) ImportExam(doc *ImportDocument) (*models.Exam, error) {
	exam := &models.Exam{
		ID:          uuid.New().String(),
		Title:       doc.ExamInfo.Title,
		Description: doc.ExamInfo.Description,
		Subject:     doc.ExamInfo.Subject,
		Duration:    doc.ExamInfo.Duration,
		Status:      normalizeStatus(doc.ExamInfo.Status),
	}

	var importErrs []apperrors.ImportError
	if err := exam.Validate(); err != nil {
		importErrs = append(importErrs, apperrors.ImportError{
			QuestionNumber: 0,
			Message:        validationMessage(err),
		})
	}

	questions := make([]models.Question, 0, len(doc.Questions))
	for _, entry := range doc.Questions {
		question := models.Question{
			ID:               uuid.New().String(),
			ExamID:           exam.ID,
			QuestionNumber:   entry.QuestionNumber,
			QuestionText:     entry.QuestionText,
			QuestionImageURL: entry.QuestionImageURL,
			Options:          entry.Options,
			CorrectAnswer:    entry.CorrectAnswer,
			Explanation:      entry.Explanation,
		}
		if err := question.Validate(); err != nil {
			importErrs = append(importErrs, apperrors.ImportError{
				QuestionNumber: entry.QuestionNumber,
				Message:        validationMessage(err),
			})
			continue
		}
		questions = append(questions, question)
	}

	if len(importErrs) > 0 {
		return nil, &apperrors.ImportValidationError{Errors: importErrs}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(exam).Error; err != nil {
			return err
		}
		if len(questions) == 0 {
			return nil
		}
		return tx.Create(&questions).Error
	})
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateListing()
	exam.Questions = questions
	return exam, nil
}

// validationMessage strips the shared sentinel prefix so import reports read
// as plain messages.
func validationMessage(err error) string {
	return strings.TrimPrefix(err.Error(), apperrors.ErrValidation.Error()+": ")
}

// normalizeStatus implements the import default: anything that is not a
// recognized status becomes draft.
func normalizeStatus(status string) string {
	if status == models.ExamStatusPublished {
		return models.ExamStatusPublished
	}
	return models.ExamStatusDraft
}

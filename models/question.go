package models

import (
	"time"

	"examhub/apperrors"

	"gorm.io/datatypes"
)

type Question struct {
	ID               string                      `json:"id" gorm:"primaryKey;size:36"`
	ExamID           string                      `json:"exam_id" gorm:"size:36;not null;index"`
	QuestionNumber   int                         `json:"question_number" gorm:"not null"`
	QuestionText     string                      `json:"question_text" gorm:"not null"`
	QuestionImageURL string                      `json:"question_image_url,omitempty"`
	Options          datatypes.JSONSlice[Option] `json:"options" gorm:"not null"`
	CorrectAnswer    string                      `json:"correct_answer" gorm:"not null"`
	Explanation      string                      `json:"explanation,omitempty"`
	CreatedAt        time.Time                   `json:"created_at"`
	UpdatedAt        time.Time                   `json:"updated_at"`
}

// Validate re-checks the answer-key invariant against the question's current
// combined state. Runs on every write that touches Options or CorrectAnswer.
func (q *Question) Validate() error {
	if q.QuestionText == "" {
		return apperrors.Validationf("question text is required")
	}
	if q.QuestionNumber <= 0 {
		return apperrors.Validationf("question number must be positive")
	}
	return ValidateAnswerKey(q.Options, q.CorrectAnswer)
}

package models

import (
	"time"

	"gorm.io/datatypes"
)

// AnswerMap maps question ids to the selected option id. A nil value (or a
// missing key) means the question was left unanswered.
type AnswerMap map[string]*string

// Submission records one graded attempt. It is created exactly once by the
// grading engine and never mutated afterwards; a re-take produces a new
// Submission. ExamID carries no foreign key on purpose: submissions are
// historical records and survive deletion of their exam.
type Submission struct {
	ID             string                            `json:"id" gorm:"primaryKey;size:36"`
	UserID         string                            `json:"user_id" gorm:"size:36;not null;index"`
	ExamID         string                            `json:"exam_id" gorm:"size:36;not null;index"`
	Score          int                               `json:"score" gorm:"not null"`
	TotalQuestions int                               `json:"total_questions" gorm:"not null"`
	Answers        datatypes.JSONType[AnswerMap]     `json:"answers"`
	Details        datatypes.JSONSlice[AnswerDetail] `json:"details"`
	SubmittedAt    time.Time                         `json:"submitted_at" gorm:"not null"`
	CreatedAt      time.Time                         `json:"created_at"`
	UpdatedAt      time.Time                         `json:"updated_at"`
}

// AnswerDetail is the per-question grading snapshot embedded in a submission.
// It is an owned copy of the question as it stood at grading time, not a live
// reference: later edits to the question never change a stored detail.
type AnswerDetail struct {
	QuestionID     string   `json:"question_id"`
	QuestionNumber int      `json:"question_number"`
	QuestionText   string   `json:"question_text"`
	Options        []Option `json:"options"`
	UserAnswer     *string  `json:"user_answer"`
	CorrectAnswer  string   `json:"correct_answer"`
	IsCorrect      bool     `json:"is_correct"`
	Explanation    string   `json:"explanation,omitempty"`
}

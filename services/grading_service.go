package services

import (
	"errors"
	"time"

	"examhub/apperrors"
	"examhub/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ResultsBroadcaster publishes a graded-submission summary to live
// subscribers. Implemented by the results hub; nil disables broadcasting.
type ResultsBroadcaster interface {
	BroadcastResult(examID string, payload interface{})
}

// GradingService turns a candidate's answer map into a scored, persisted
// Submission. Grading always reads the exam's question set at the moment of
// submission, not at the moment the candidate loaded the exam.
type GradingService struct {
	db  *gorm.DB
	hub ResultsBroadcaster
}

func NewGradingService(db *gorm.DB, hub ResultsBroadcaster) *GradingService {
	return &GradingService{db: db, hub: hub}
}

// ResultSummary is the payload pushed to the live results feed.
type ResultSummary struct {
	SubmissionID   string    `json:"submission_id"`
	UserID         string    `json:"user_id"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

// SubmitAnswers grades the answer map against the exam's current question set
// and persists the resulting Submission. Only published exams are gradeable;
// a draft exam behaves like a missing one. Absent or null answers count as
// incorrect. Each call produces its own Submission: repeated and concurrent
// submissions by the same user are all kept as independent attempts.
func (s *GradingService) SubmitAnswers(examID, userID string, answers models.AnswerMap) (*models.Submission, error) {
	var exam models.Exam
	err := s.db.Where("id = ? AND status = ?", examID, models.ExamStatusPublished).
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

	if answers == nil {
		answers = models.AnswerMap{}
	}

	now := time.Now()
	score := 0
	details := make([]models.AnswerDetail, 0, len(exam.Questions))
	for _, q := range exam.Questions {
		userAnswer := answers[q.ID]
		isCorrect := userAnswer != nil && *userAnswer == q.CorrectAnswer
		if isCorrect {
			score++
		}
		// Own copy of the options: the detail must keep the wording as it
		// stands right now even if the question is edited later.
		options := make([]models.Option, len(q.Options))
		copy(options, q.Options)
		details = append(details, models.AnswerDetail{
			QuestionID:     q.ID,
			QuestionNumber: q.QuestionNumber,
			QuestionText:   q.QuestionText,
			Options:        options,
			UserAnswer:     userAnswer,
			CorrectAnswer:  q.CorrectAnswer,
			IsCorrect:      isCorrect,
			Explanation:    q.Explanation,
		})
	}

	submission := &models.Submission{
		ID:             uuid.New().String(),
		UserID:         userID,
		ExamID:         exam.ID,
		Score:          score,
		TotalQuestions: len(exam.Questions),
		Answers:        datatypes.NewJSONType(answers),
		Details:        details,
		SubmittedAt:    now,
	}

	if err := s.db.Create(submission).Error; err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.BroadcastResult(exam.ID, ResultSummary{
			SubmissionID:   submission.ID,
			UserID:         submission.UserID,
			Score:          submission.Score,
			TotalQuestions: submission.TotalQuestions,
			SubmittedAt:    submission.SubmittedAt,
		})
	}

	return submission, nil
}

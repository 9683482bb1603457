package services

import (
	"errors"
	"sort"

	"examhub/apperrors"
	"examhub/models"

	"gorm.io/gorm"
)

// ResultService reads persisted submissions back out for result review. It
// never recomputes anything: a submission's details are a frozen snapshot and
// stay valid even after the exam or its questions change or disappear.
type ResultService struct {
	db *gorm.DB
}

func NewResultService(db *gorm.DB) *ResultService {
	return &ResultService{db: db}
}

// GetSubmission returns the stored submission with details ordered by
// question number for display. Authorization is the caller's concern.
func (s *ResultService) GetSubmission(submissionID string) (*models.Submission, error) {
	var submission models.Submission
	if err := s.db.Where("id = ?", submissionID).First(&submission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("submission %s does not exist", submissionID)
		}
		return nil, err
	}

	sort.SliceStable(submission.Details, func(i, j int) bool {
		return submission.Details[i].QuestionNumber < submission.Details[j].QuestionNumber
	})
	return &submission, nil
}

// ListUserSubmissions returns a user's attempt history, newest first.
func (s *ResultService) ListUserSubmissions(userID string) ([]models.Submission, error) {
	var submissions []models.Submission
	err := s.db.Where("user_id = ?", userID).
		Order("submitted_at DESC").
		Find(&submissions).Error
	return submissions, err
}

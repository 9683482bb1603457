package models

import (
	"time"

	"examhub/apperrors"
)

const (
	ExamStatusDraft     = "draft"
	ExamStatusPublished = "published"
)

type Exam struct {
	ID          string `json:"id" gorm:"primaryKey;size:36"`
	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description,omitempty"`
	Subject     string `json:"subject" gorm:"not null"`
	Duration    int    `json:"duration" gorm:"not null"` // minutes
	Status      string `json:"status" gorm:"not null;default:'draft'"` // draft, published

	// Optional catalog metadata
	Year         string `json:"year,omitempty"`
	Province     string `json:"province,omitempty"`
	Type         string `json:"type,omitempty"`
	Difficulty   string `json:"difficulty,omitempty"`
	Grade        string `json:"grade,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	TopicID      string `json:"topic_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:ExamID;constraint:OnDelete:CASCADE"`
}

// Validate checks the authoring rules shared by create, update and import.
func (e *Exam) Validate() error {
	if e.Title == "" {
		return apperrors.Validationf("title is required")
	}
	if e.Subject == "" {
		return apperrors.Validationf("subject is required")
	}
	if e.Duration <= 0 {
		return apperrors.Validationf("duration must be greater than 0 minutes")
	}
	return nil
}

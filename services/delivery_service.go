package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"examhub/apperrors"
	"examhub/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	takingCachePrefix = "exam_taking:"
	takingCacheTTL    = 10 * time.Minute
)

// ExamCache holds the Redis-backed cache of taking projections. The cache is
// best effort: failures are logged and the request falls through to the
// database. A nil cache (or nil client) disables caching entirely.
type ExamCache struct {
	client *redis.Client
}

func NewExamCache(client *redis.Client) *ExamCache {
	return &ExamCache{client: client}
}

// cachedProjection pairs a taking projection with the exam's version token
// (updated_at) captured when the projection was built. A cached entry whose
// version no longer matches the stored exam is dead: an invalidation that
// raced with an older read can never be served.
type cachedProjection struct {
	Version int64      `json:"version"`
	Exam    TakingExam `json:"exam"`
}

func (c *ExamCache) getTaking(examID string, version int64) (*TakingExam, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	data, err := c.client.Get(context.Background(), takingCachePrefix+examID).Bytes()
	if err != nil {
		return nil, false
	}
	var entry cachedProjection
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}
	if entry.Version != version {
		return nil, false
	}
	return &entry.Exam, true
}

func (c *ExamCache) setTaking(examID string, exam *TakingExam, version int64) {
	if c == nil || c.client == nil {
		return
	}
	data, err := json.Marshal(cachedProjection{Version: version, Exam: *exam})
	if err != nil {
		return
	}
	if err := c.client.Set(context.Background(), takingCachePrefix+examID, data, takingCacheTTL).Err(); err != nil {
		log.Printf("Failed to cache taking projection for exam %s: %v", examID, err)
	}
}

// Invalidate drops the cached taking projection after an authoring write.
func (c *ExamCache) Invalidate(examID string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(context.Background(), takingCachePrefix+examID).Err(); err != nil {
		log.Printf("Failed to invalidate cache for exam %s: %v", examID, err)
	}
}

// InvalidateListing exists for symmetry with Invalidate; the published
// listing is not cached today, so this is a no-op.
func (c *ExamCache) InvalidateListing() {}

// DeliveryService serves published exams to exam-taking sessions. Its
// projections never carry correct answers or explanations.
type DeliveryService struct {
	db    *gorm.DB
	cache *ExamCache
}

func NewDeliveryService(db *gorm.DB, cache *ExamCache) *DeliveryService {
	return &DeliveryService{db: db, cache: cache}
}

type TakingOption struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	ImageURL string `json:"image_url,omitempty"`
}

// TakingQuestion is the delivery projection of a question. CorrectAnswer and
// Explanation stay in storage and never cross this boundary.
type TakingQuestion struct {
	ID               string         `json:"id"`
	QuestionNumber   int            `json:"question_number"`
	QuestionText     string         `json:"question_text"`
	QuestionImageURL string         `json:"question_image_url,omitempty"`
	Options          []TakingOption `json:"options"`
}

type TakingExam struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Description  string           `json:"description,omitempty"`
	Subject      string           `json:"subject"`
	Duration     int              `json:"duration"`
	Year         string           `json:"year,omitempty"`
	Province     string           `json:"province,omitempty"`
	Type         string           `json:"type,omitempty"`
	Difficulty   string           `json:"difficulty,omitempty"`
	Grade        string           `json:"grade,omitempty"`
	ThumbnailURL string           `json:"thumbnail_url,omitempty"`
	TopicID      string           `json:"topic_id,omitempty"`
	Questions    []TakingQuestion `json:"questions"`
}

// ListPublishedExams returns published exam summaries, newest first, without
// questions. Draft exams are invisible here regardless of caller.
func (s *DeliveryService) ListPublishedExams() ([]models.Exam, error) {
	var exams []models.Exam
	err := s.db.Where("status = ?", models.ExamStatusPublished).
		Order("created_at DESC").
		Find(&exams).Error
	return exams, err
}

// GetExamForTaking returns the ordered question set of a published exam with
// grading fields stripped. A draft exam behaves exactly like a missing one,
// even when addressed by id. The published/draft decision is always made
// against the database; the cache only short-circuits the question load, and
// a cached projection is used only when its version token still matches the
// stored exam's updated_at.
func (s *DeliveryService) GetExamForTaking(examID string) (*TakingExam, error) {
	var exam models.Exam
	err := s.db.Where("id = ? AND status = ?", examID, models.ExamStatusPublished).
		First(&exam).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFoundf("exam %s does not exist", examID)
	}
	if err != nil {
		return nil, err
	}

	version := exam.UpdatedAt.UnixNano()
	if cached, ok := s.cache.getTaking(examID, version); ok {
		return cached, nil
	}

	var questions []models.Question
	if err := s.db.Where("exam_id = ?", examID).Order(questionOrder).Find(&questions).Error; err != nil {
		return nil, err
	}
	exam.Questions = questions

	taking := &TakingExam{
		ID:           exam.ID,
		Title:        exam.Title,
		Description:  exam.Description,
		Subject:      exam.Subject,
		Duration:     exam.Duration,
		Year:         exam.Year,
		Province:     exam.Province,
		Type:         exam.Type,
		Difficulty:   exam.Difficulty,
		Grade:        exam.Grade,
		ThumbnailURL: exam.ThumbnailURL,
		TopicID:      exam.TopicID,
		Questions:    make([]TakingQuestion, 0, len(exam.Questions)),
	}
	for _, q := range exam.Questions {
		options := make([]TakingOption, 0, len(q.Options))
		for _, o := range q.Options {
			options = append(options, TakingOption{ID: o.ID, Text: o.Text, ImageURL: o.ImageURL})
		}
		taking.Questions = append(taking.Questions, TakingQuestion{
			ID:               q.ID,
			QuestionNumber:   q.QuestionNumber,
			QuestionText:     q.QuestionText,
			QuestionImageURL: q.QuestionImageURL,
			Options:          options,
		})
	}

	s.cache.setTaking(examID, taking, version)
	return taking, nil
}

package services

import (
	"fmt"
	"testing"

	"examhub/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a per-test in-memory sqlite database. The shared-cache
// name keeps every pooled connection pointed at the same memory database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Exam{},
		&models.Question{},
		&models.Submission{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func strPtr(s string) *string { return &s }

func twoOptions() []models.Option {
	return []models.Option{
		{ID: "A", Text: "Option A"},
		{ID: "B", Text: "Option B"},
	}
}

// seedExam creates an exam with the given status and two questions whose
// correct answers are "A" (question 1) and "B" (question 2).
func seedExam(t *testing.T, db *gorm.DB, status string) *models.Exam {
	t.Helper()
	svc := NewExamService(db, nil)
	exam, err := svc.CreateExam(&CreateExamRequest{
		Title:    "Algebra Basics",
		Subject:  "Math",
		Duration: 60,
		Status:   status,
	})
	if err != nil {
		t.Fatalf("seed exam: %v", err)
	}
	if _, err := svc.AddQuestion(exam.ID, &QuestionRequest{
		QuestionNumber: 1,
		QuestionText:   "What is 1+1?",
		Options: []models.Option{
			{ID: "A", Text: "2"},
			{ID: "B", Text: "3"},
			{ID: "C", Text: "4"},
		},
		CorrectAnswer: "A",
	}); err != nil {
		t.Fatalf("seed question 1: %v", err)
	}
	if _, err := svc.AddQuestion(exam.ID, &QuestionRequest{
		QuestionNumber: 2,
		QuestionText:   "What is 2*2?",
		Options: []models.Option{
			{ID: "A", Text: "2"},
			{ID: "B", Text: "4"},
		},
		CorrectAnswer: "B",
	}); err != nil {
		t.Fatalf("seed question 2: %v", err)
	}
	return exam
}

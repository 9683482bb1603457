package services

import (
	"errors"
	"testing"

	"examhub/apperrors"
	"examhub/models"
)

func TestCreateExamValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewExamService(db, nil)

	tests := []struct {
		name    string
		req     CreateExamRequest
		wantErr bool
	}{
		{name: "valid", req: CreateExamRequest{Title: "T", Subject: "Math", Duration: 30}},
		{name: "empty title", req: CreateExamRequest{Subject: "Math", Duration: 30}, wantErr: true},
		{name: "empty subject", req: CreateExamRequest{Title: "T", Duration: 30}, wantErr: true},
		{name: "zero duration", req: CreateExamRequest{Title: "T", Subject: "Math"}, wantErr: true},
		{name: "negative duration", req: CreateExamRequest{Title: "T", Subject: "Math", Duration: -5}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateExam(&tt.req)
			if tt.wantErr {
				if !errors.Is(err, apperrors.ErrValidation) {
					t.Errorf("CreateExam() error = %v, want validation error", err)
				}
				return
			}
			if err != nil {
				t.Errorf("CreateExam() unexpected error: %v", err)
			}
		})
	}
}

func TestCreateExamStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := NewExamService(db, nil)

	// Omitted status defaults to draft.
	exam, err := svc.CreateExam(&CreateExamRequest{Title: "T", Subject: "S", Duration: 10})
	if err != nil {
		t.Fatalf("CreateExam() error: %v", err)
	}
	if exam.Status != models.ExamStatusDraft {
		t.Errorf("status = %q, want %q", exam.Status, models.ExamStatusDraft)
	}

	published, err := svc.CreateExam(&CreateExamRequest{Title: "T", Subject: "S", Duration: 10, Status: models.ExamStatusPublished})
	if err != nil {
		t.Fatalf("CreateExam(published) error: %v", err)
	}
	if published.Status != models.ExamStatusPublished {
		t.Errorf("status = %q, want %q", published.Status, models.ExamStatusPublished)
	}

	// Unlike bulk import, authoring rejects an unknown status instead of
	// silently coercing it.
	if _, err := svc.CreateExam(&CreateExamRequest{Title: "T", Subject: "S", Duration: 10, Status: "archived"}); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("CreateExam(archived) error = %v, want validation error", err)
	}
}

func TestExamExists(t *testing.T) {
	db := setupTestDB(t)
	svc := NewExamService(db, nil)

	exam, err := svc.CreateExam(&CreateExamRequest{Title: "T", Subject: "S", Duration: 10})
	if err != nil {
		t.Fatalf("CreateExam() error: %v", err)
	}
	if err := svc.ExamExists(exam.ID); err != nil {
		t.Errorf("ExamExists(existing) error = %v, want nil", err)
	}
	if err := svc.ExamExists("no-such-exam"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("ExamExists(missing) error = %v, want not-found error", err)
	}
}

func TestAddQuestionValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewExamService(db, nil)
	exam, err := svc.CreateExam(&CreateExamRequest{Title: "T", Subject: "S", Duration: 10})
	if err != nil {
		t.Fatalf("CreateExam() error: %v", err)
	}

	tests := []struct {
		name    string
		req     QuestionRequest
		wantErr bool
	}{
		{
			name: "valid",
			req:  QuestionRequest{QuestionNumber: 1, QuestionText: "Q?", Options: twoOptions(), CorrectAnswer: "A"},
		},
		{
			name:    "single option",
			req:     QuestionRequest{QuestionNumber: 1, QuestionText: "Q?", Options: []models.Option{{ID: "A", Text: "x"}}, CorrectAnswer: "A"},
			wantErr: true,
		},
		{
			name: "duplicate option ids",
			req: QuestionRequest{QuestionNumber: 1, QuestionText: "Q?", Options: []models.Option{
				{ID: "A", Text: "x"}, {ID: "A", Text: "y"},
			}, CorrectAnswer: "A"},
			wantErr: true,
		},
		{
			name:    "correct answer not among options",
			req:     QuestionRequest{QuestionNumber: 1, QuestionText: "Q?", Options: twoOptions(), CorrectAnswer: "Z"},
			wantErr: true,
		},
		{
			name:    "empty question text",
			req:     QuestionRequest{QuestionNumber: 1, Options: twoOptions(), CorrectAnswer: "A"},
			wantErr: true,
		},
		{
			name:    "non-positive question number",
			req:     QuestionRequest{QuestionNumber: 0, QuestionText: "Q?", Options: twoOptions(), CorrectAnswer: "A"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddQuestion(exam.ID, &tt.req)
			if tt.wantErr {
				if !errors.Is(err, apperrors.ErrValidation) {
					t.Errorf("AddQuestion() error = %v, want validation error", err)
				}
				return
			}
			if err != nil {
				t.Errorf("AddQuestion() unexpected error: %v", err)
			}
		})
	}
}

func TestAddQuestionToMissingExam(t *testing.T) {
	db := setupTestDB(t)
	svc := NewExamService(db, nil)

	_, err := svc.AddQuestion("no-such-exam", &QuestionRequest{
		QuestionNumber: 1, QuestionText: "Q?", Options: twoOptions(), CorrectAnswer: "A",
	})
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("AddQuestion() error = %v, want not-found error", err)
	}
}

// A partial update that changes only the correct answer must be re-validated
// against the stored options, and a rejected update must leave the stored
// question untouched.
func TestUpdateQuestionRevalidatesCombinedState(t *testing.T) {
	db := setupTestDB(t)
	svc := NewExamService(db, nil)
	exam := seedExam(t, db, models.ExamStatusDraft)

	full, err := svc.GetExam(exam.ID)
	if err != nil {
		t.Fatalf("GetExam() error: %v", err)
	}
	q := full.Questions[0]

	_, err = svc.UpdateQuestion(q.ID, &UpdateQuestionRequest{CorrectAnswer: strPtr("Z")})
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("UpdateQuestion() error = %v, want validation error", err)
	}

	var stored models.Question
	if err := db.First(&stored, "id = ?", q.ID).Error; err != nil {
		t.Fatalf("reload question: %v", err)
	}
	if stored.CorrectAnswer != q.CorrectAnswer {
		t.Errorf("stored correct answer changed to %q after rejected update", stored.CorrectAnswer)
	}

	// Changing only the options so they no longer contain the stored correct
	// answer must fail the same way.
	_, err = svc.UpdateQuestion(q.ID, &UpdateQuestionRequest{
		Options: &[]models.Option{{ID: "X", Text: "x"}, {ID: "Y", Text: "y"}},
	})
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("UpdateQuestion(options only) error = %v, want validation error", err)
	}

	// A consistent combined update passes.
	updated, err := svc.UpdateQuestion(q.ID, &UpdateQuestionRequest{
		Options:       &[]models.Option{{ID: "X", Text: "x"}, {ID: "Y", Text: "y"}},
		CorrectAnswer: strPtr("Y"),
	})
	if err != nil {
		t.Fatalf("UpdateQuestion(combined) error: %v", err)
	}
	if updated.CorrectAnswer != "Y" {
		t.Errorf("correct answer = %q, want Y", updated.CorrectAnswer)
	}
}

func TestSetStatusToggle(t *testing.T) {
	db := setupTestDB(t)
	svc := NewExamService(db, nil)
	exam, err := svc.CreateExam(&CreateExamRequest{Title: "T", Subject: "S", Duration: 10})
	if err != nil {
		t.Fatalf("CreateExam() error: %v", err)
	}

	// draft -> published -> draft, twice in a row, always succeeds
	for i := 0; i < 2; i++ {
		if _, err := svc.SetStatus(exam.ID, models.ExamStatusPublished); err != nil {
			t.Fatalf("publish round %d: %v", i, err)
		}
		if _, err := svc.SetStatus(exam.ID, models.ExamStatusDraft); err != nil {
			t.Fatalf("unpublish round %d: %v", i, err)
		}
	}

	if _, err := svc.SetStatus(exam.ID, "archived"); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("SetStatus(archived) error = %v, want validation error", err)
	}
	if _, err := svc.SetStatus("no-such-exam", models.ExamStatusPublished); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("SetStatus(missing exam) error = %v, want not-found error", err)
	}
}

func TestDeleteExamCascadesQuestionsButKeepsSubmissions(t *testing.T) {
	db := setupTestDB(t)
	svc := NewExamService(db, nil)
	grading := NewGradingService(db, nil)
	results := NewResultService(db)

	exam := seedExam(t, db, models.ExamStatusPublished)
	submission, err := grading.SubmitAnswers(exam.ID, "user-1", models.AnswerMap{})
	if err != nil {
		t.Fatalf("SubmitAnswers() error: %v", err)
	}

	if err := svc.DeleteExam(exam.ID); err != nil {
		t.Fatalf("DeleteExam() error: %v", err)
	}

	var questionCount int64
	if err := db.Model(&models.Question{}).Where("exam_id = ?", exam.ID).Count(&questionCount).Error; err != nil {
		t.Fatalf("count questions: %v", err)
	}
	if questionCount != 0 {
		t.Errorf("question count after delete = %d, want 0", questionCount)
	}

	got, err := results.GetSubmission(submission.ID)
	if err != nil {
		t.Fatalf("GetSubmission() after exam delete: %v", err)
	}
	if got.ExamID != exam.ID {
		t.Errorf("submission exam id = %q, want %q", got.ExamID, exam.ID)
	}
}

func TestGetExamOrdersQuestions(t *testing.T) {
	db := setupTestDB(t)
	svc := NewExamService(db, nil)
	exam, err := svc.CreateExam(&CreateExamRequest{Title: "T", Subject: "S", Duration: 10})
	if err != nil {
		t.Fatalf("CreateExam() error: %v", err)
	}

	// Added out of order; display order follows question_number ascending.
	for _, n := range []int{3, 1, 2} {
		if _, err := svc.AddQuestion(exam.ID, &QuestionRequest{
			QuestionNumber: n,
			QuestionText:   "Q?",
			Options:        twoOptions(),
			CorrectAnswer:  "A",
		}); err != nil {
			t.Fatalf("AddQuestion(%d) error: %v", n, err)
		}
	}

	full, err := svc.GetExam(exam.ID)
	if err != nil {
		t.Fatalf("GetExam() error: %v", err)
	}
	want := []int{1, 2, 3}
	for i, q := range full.Questions {
		if q.QuestionNumber != want[i] {
			t.Errorf("question[%d].number = %d, want %d", i, q.QuestionNumber, want[i])
		}
	}
}

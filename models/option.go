package models

import "examhub/apperrors"

// Option is one selectable choice within a question. ID is a short
// author-assigned token (e.g. "A", "B") and is what CorrectAnswer and
// submitted answers reference. Options live inline on their question as a
// JSON column, never as independent rows.
type Option struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	ImageURL string `json:"image_url,omitempty"`
}

// ValidateAnswerKey checks the (options, correctAnswer) pair as one unit:
// at least two options, non-empty unique option ids, non-empty option texts,
// and a correctAnswer naming one of the options. Callers must pass the
// combined state resulting from a write, never one field in isolation.
func ValidateAnswerKey(options []Option, correctAnswer string) error {
	if len(options) < 2 {
		return apperrors.Validationf("question must have at least 2 options")
	}
	seen := make(map[string]bool, len(options))
	for i, opt := range options {
		if opt.ID == "" {
			return apperrors.Validationf("option %d has an empty id", i+1)
		}
		if opt.Text == "" {
			return apperrors.Validationf("option %q has empty text", opt.ID)
		}
		if seen[opt.ID] {
			return apperrors.Validationf("duplicate option id %q", opt.ID)
		}
		seen[opt.ID] = true
	}
	if correctAnswer == "" {
		return apperrors.Validationf("correct answer is required")
	}
	if !seen[correctAnswer] {
		return apperrors.Validationf("correct answer %q is not among the option ids", correctAnswer)
	}
	return nil
}

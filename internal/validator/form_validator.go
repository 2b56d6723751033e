package validator

import (
	"fmt"

	"github.com/zamzam-app/feedback-service/internal/models"
)

// FormValidator enforces the structural invariants of a form document
// before it is persisted. The editor itself never rejects an edit; the
// save path is where shape is checked.
type FormValidator struct{}

// NewFormValidator creates a new form validator
func NewFormValidator() *FormValidator {
	return &FormValidator{}
}

// ValidateQuestions checks every question in storage order.
func (v *FormValidator) ValidateQuestions(questions models.QuestionList) ValidationErrors {
	var errs ValidationErrors

	seen := make(map[string]bool, len(questions))
	for i, q := range questions {
		field := fmt.Sprintf("questions[%d]", i)

		if q.ID == "" {
			errs = append(errs, *NewValidationError(field+"._id", "is required", q.ID))
		} else if seen[q.ID] {
			errs = append(errs, *NewValidationError(field+"._id", "duplicate question id", q.ID))
		}
		seen[q.ID] = true

		if err := v.validateQuestion(field, q); err != nil {
			errs = append(errs, err...)
		}
	}

	return errs
}

func (v *FormValidator) validateQuestion(field string, q models.Question) ValidationErrors {
	var errs ValidationErrors

	switch q.Type {
	case models.ShortAnswer, models.Paragraph:
		if len(q.Options) > 0 {
			errs = append(errs, *NewValidationError(field+".options", "options are only allowed on multiple_choice and checkbox questions", q.Type))
		}
	case models.MultipleChoice, models.Checkbox:
		if len(q.Options) == 0 {
			errs = append(errs, *NewValidationError(field+".options", "must have at least 1 option", nil))
		}
		errs = append(errs, v.validateOptions(field, q.Options)...)
	case models.Rating:
		if len(q.Options) > 0 {
			errs = append(errs, *NewValidationError(field+".options", "options are only allowed on multiple_choice and checkbox questions", q.Type))
		}
		switch q.MaxRating {
		case 3, 5, 10:
		default:
			errs = append(errs, *NewValidationError(field+".maxRating", "must be 3, 5, or 10", q.MaxRating))
		}
	default:
		errs = append(errs, *NewValidationError(field+".type", "must be a valid question type (short_answer, paragraph, multiple_choice, checkbox, rating)", q.Type))
	}

	return errs
}

func (v *FormValidator) validateOptions(field string, options []models.Option) ValidationErrors {
	var errs ValidationErrors

	seen := make(map[string]bool, len(options))
	for i, opt := range options {
		optField := fmt.Sprintf("%s.options[%d]", field, i)
		if opt.ID == "" {
			errs = append(errs, *NewValidationError(optField+"._id", "is required", opt.ID))
		} else if seen[opt.ID] {
			errs = append(errs, *NewValidationError(optField+"._id", "duplicate option id within question", opt.ID))
		}
		seen[opt.ID] = true
	}

	return errs
}

// ValidateProtectedTransition rejects edits that retype or drop the
// protected seed question of a stored form.
func (v *FormValidator) ValidateProtectedTransition(stored, incoming models.QuestionList) ValidationErrors {
	var errs ValidationErrors

	for _, prev := range stored {
		if !prev.Protected {
			continue
		}
		var next *models.Question
		for i := range incoming {
			if incoming[i].ID == prev.ID {
				next = &incoming[i]
				break
			}
		}
		if next == nil {
			errs = append(errs, *NewValidationError("questions", "protected question cannot be removed", prev.ID))
			continue
		}
		if next.Type != prev.Type {
			errs = append(errs, *NewValidationError("questions", "protected question cannot change type", prev.ID))
		}
	}

	return errs
}

// Package forms implements the form engine: pure editing transforms
// over a working Form value and capture-time response encoding. The
// service layer owns persistence; nothing here touches storage.
package forms

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/zamzam-app/feedback-service/internal/models"
)

const (
	// SeedQuestionTitle is the title of the rating question injected
	// into a form that is opened with no questions.
	SeedQuestionTitle = "Overall Rating"

	// SeedMaxRating is the star count of the injected rating question.
	SeedMaxRating = 5
)

// NewID generates a question/option id. Ids are client-generated and
// stay stable across edits so stored responses can reference them.
func NewID() string {
	return uuid.NewString()
}

// QuestionPatch is a partial update for a single question. Nil fields
// are left untouched; set fields are merged as-is. There is no
// validation failure mode on merge, the save path validates shape.
type QuestionPatch struct {
	Type      *models.QuestionType `json:"type,omitempty"`
	Title     *string              `json:"title,omitempty"`
	Hint      *string              `json:"hint,omitempty"`
	Required  *bool                `json:"required,omitempty"`
	Options   []models.Option      `json:"options,omitempty"`
	MaxRating *int                 `json:"maxRating,omitempty"`
}

// Open prepares a working copy for editing. A form opened with zero
// questions gets one protected rating question; once opened a form
// never reaches an empty-questions state. Legacy documents that mark
// the seed question by its reserved id are normalized to the
// Protected flag.
func Open(form models.Form) models.Form {
	out := clone(form)
	for i := range out.Questions {
		if out.Questions[i].ID == models.LegacySeedQuestionID {
			out.Questions[i].Protected = true
		}
	}
	if len(out.Questions) == 0 {
		out.Questions = append(out.Questions, models.Question{
			ID:        NewID(),
			Type:      models.Rating,
			Title:     SeedQuestionTitle,
			Required:  true,
			Protected: true,
			MaxRating: SeedMaxRating,
		})
	}
	return out
}

// AddQuestion appends a new short_answer question with a fresh id,
// empty title and hint, required false.
func AddQuestion(form models.Form) models.Form {
	out := clone(form)
	out.Questions = append(out.Questions, models.Question{
		ID:   NewID(),
		Type: models.ShortAnswer,
	})
	return out
}

// UpdateQuestion merges patch into the question matching questionID.
// No-op if the id is unknown. The protected question keeps its type
// regardless of the patch.
func UpdateQuestion(form models.Form, questionID string, patch QuestionPatch) models.Form {
	out := clone(form)
	q := out.Question(questionID)
	if q == nil {
		return out
	}
	if patch.Type != nil && !q.Protected {
		q.Type = *patch.Type
	}
	if patch.Title != nil {
		q.Title = *patch.Title
	}
	if patch.Hint != nil {
		q.Hint = *patch.Hint
	}
	if patch.Required != nil {
		q.Required = *patch.Required
	}
	if patch.Options != nil {
		q.Options = patch.Options
	}
	if patch.MaxRating != nil {
		q.MaxRating = *patch.MaxRating
	}
	return out
}

// AddOption appends an option labeled "Option {n+1}" to the matching
// question. No-op for types that do not carry options.
func AddOption(form models.Form, questionID string) models.Form {
	out := clone(form)
	q := out.Question(questionID)
	if q == nil || !q.Type.HasOptions() {
		return out
	}
	q.Options = append(q.Options, models.Option{
		ID:   NewID(),
		Text: fmt.Sprintf("Option %d", len(q.Options)+1),
	})
	return out
}

// RemoveOption removes the matching option. No-op if either id is
// unknown.
func RemoveOption(form models.Form, questionID, optionID string) models.Form {
	out := clone(form)
	q := out.Question(questionID)
	if q == nil {
		return out
	}
	kept := q.Options[:0]
	for _, opt := range q.Options {
		if opt.ID != optionID {
			kept = append(kept, opt)
		}
	}
	q.Options = kept
	return out
}

// RemoveQuestion removes the matching question. The protected seed
// question is never removed.
func RemoveQuestion(form models.Form, questionID string) models.Form {
	out := clone(form)
	kept := out.Questions[:0]
	for _, q := range out.Questions {
		if q.ID == questionID && !q.Protected {
			continue
		}
		kept = append(kept, q)
	}
	out.Questions = kept
	return out
}

// clone deep-copies the question list so transforms never alias the
// caller's slices.
func clone(form models.Form) models.Form {
	out := form
	out.Questions = make(models.QuestionList, len(form.Questions))
	copy(out.Questions, form.Questions)
	for i := range out.Questions {
		if len(out.Questions[i].Options) > 0 {
			opts := make([]models.Option, len(out.Questions[i].Options))
			copy(opts, out.Questions[i].Options)
			out.Questions[i].Options = opts
		}
	}
	return out
}

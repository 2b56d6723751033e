package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type QuestionType string

const (
	ShortAnswer    QuestionType = "short_answer"
	Paragraph      QuestionType = "paragraph"
	MultipleChoice QuestionType = "multiple_choice"
	Checkbox       QuestionType = "checkbox"
	Rating         QuestionType = "rating"
)

// OtherOptionLabel marks the free-text option of a choice question.
// Answers for it are encoded as "other:<typed text>" on the wire.
const OtherOptionLabel = "Other:"

// LegacySeedQuestionID is the reserved id older form documents used to
// mark the protected seed question. New documents carry Protected
// instead; loaders normalize the legacy id into the flag.
const LegacySeedQuestionID = "delTest"

type Option struct {
	ID   string `json:"_id"`
	Text string `json:"text"`
}

// Question is one prompt within a form. Options are meaningful only
// for multiple_choice/checkbox, MaxRating only for rating.
type Question struct {
	ID        string       `json:"_id"`
	Type      QuestionType `json:"type" validate:"omitempty,question_type"`
	Title     string       `json:"title"`
	Hint      string       `json:"hint"`
	Required  bool         `json:"required"`
	Protected bool         `json:"protected,omitempty"`
	Options   []Option     `json:"options,omitempty"`
	MaxRating int          `json:"maxRating,omitempty" validate:"omitempty,max_rating"`
}

// QuestionList is the ordered question sequence of a form, stored as a
// single jsonb column. Display order and storage order are identical.
type QuestionList []Question

func (q QuestionList) Value() (driver.Value, error) {
	if q == nil {
		return "[]", nil
	}
	data, err := json.Marshal(q)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (q *QuestionList) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case nil:
		*q = nil
		return nil
	default:
		return fmt.Errorf("unsupported type %T for QuestionList", value)
	}
	return json.Unmarshal(data, q)
}

type Form struct {
	ID        uint         `json:"id" gorm:"primaryKey"`
	Title     string       `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Questions QuestionList `json:"questions" gorm:"type:jsonb"`

	// Metadata
	CreatedBy string         `json:"created_by" gorm:"size:100;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Computed fields (not stored)
	ResponseCount int `json:"response_count" gorm:"-"`
}

// FormSummary is the list-view projection returned by GET /forms.
type FormSummary struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	QuestionCount int       `json:"question_count"`
	ResponseCount int       `json:"response_count"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Form) TableName() string {
	return "forms"
}

// Summary builds the list projection from a loaded form.
func (f *Form) Summary() FormSummary {
	return FormSummary{
		ID:            f.ID,
		Title:         f.Title,
		QuestionCount: len(f.Questions),
		ResponseCount: f.ResponseCount,
		UpdatedAt:     f.UpdatedAt,
	}
}

// HasOptions reports whether the question type carries an options list.
func (t QuestionType) HasOptions() bool {
	return t == MultipleChoice || t == Checkbox
}

// Question returns the question with the given id, or nil.
func (f *Form) Question(id string) *Question {
	for i := range f.Questions {
		if f.Questions[i].ID == id {
			return &f.Questions[i]
		}
	}
	return nil
}

// Normalize upgrades legacy documents in place: the reserved seed id
// becomes the Protected flag. Safe to call on every load.
func (f *Form) Normalize() {
	for i := range f.Questions {
		if f.Questions[i].ID == LegacySeedQuestionID {
			f.Questions[i].Protected = true
		}
	}
}

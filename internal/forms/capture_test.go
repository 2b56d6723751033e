package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zamzam-app/feedback-service/internal/models"
)

func choiceQuestion(id string, qtype models.QuestionType, labels ...string) models.Question {
	q := models.Question{ID: id, Type: qtype}
	for i, label := range labels {
		q.Options = append(q.Options, models.Option{ID: "opt" + string(rune('a'+i)), Text: label})
	}
	return q
}

func TestCapture_Text(t *testing.T) {
	form := models.Form{Questions: models.QuestionList{
		{ID: "q1", Type: models.ShortAnswer},
		{ID: "q2", Type: models.Paragraph},
	}}
	c := NewCapture(form)

	c.SetText("q1", "Jane")
	c.SetText("q2", "Great coffee, slow queue.")

	assert.Equal(t, "Jane", c.Response()["q1"])
	assert.Equal(t, "Great coffee, slow queue.", c.Response()["q2"])
}

func TestCapture_RatingIsAbsoluteNotAdditive(t *testing.T) {
	form := models.Form{Questions: models.QuestionList{
		{ID: "r1", Type: models.Rating, MaxRating: 10},
	}}
	c := NewCapture(form)

	c.SetRating("r1", 7)
	assert.Equal(t, 7, c.Response()["r1"])

	c.SetRating("r1", 3)
	assert.Equal(t, 3, c.Response()["r1"])
}

func TestCapture_RatingOutOfRangeIgnored(t *testing.T) {
	form := models.Form{Questions: models.QuestionList{
		{ID: "r1", Type: models.Rating, MaxRating: 5},
	}}
	c := NewCapture(form)

	c.SetRating("r1", 0)
	c.SetRating("r1", 6)

	_, answered := c.Response()["r1"]
	assert.False(t, answered)
}

func TestCapture_MultipleChoicePositionalEncoding(t *testing.T) {
	form := models.Form{Questions: models.QuestionList{
		choiceQuestion("m1", models.MultipleChoice, "A", "B", models.OtherOptionLabel),
	}}
	c := NewCapture(form)

	c.ChooseOther("m1", "Bar")
	assert.Equal(t, "other:Bar", c.Response()["m1"])

	// Switching to a regular option replaces the prior value with the
	// option's positional index, not its id.
	c.ChooseOption("m1", 1)
	assert.Equal(t, "1", c.Response()["m1"])
}

func TestCapture_MultipleChoiceToggleOff(t *testing.T) {
	form := models.Form{Questions: models.QuestionList{
		choiceQuestion("m1", models.MultipleChoice, "A", "B"),
	}}
	c := NewCapture(form)

	c.ChooseOption("m1", 0)
	c.ChooseOption("m1", 0)

	_, answered := c.Response()["m1"]
	assert.False(t, answered)
}

func TestCapture_CheckboxEncoding(t *testing.T) {
	form := models.Form{Questions: models.QuestionList{
		choiceQuestion("c1", models.Checkbox, "A", "B", models.OtherOptionLabel),
	}}
	c := NewCapture(form)

	c.ToggleOption("c1", 0)
	c.SetOther("c1", "Foo")
	assert.Equal(t, []string{"0", "other:Foo"}, c.Response()["c1"])

	c.ToggleOption("c1", 0)
	assert.Equal(t, []string{"other:Foo"}, c.Response()["c1"])
}

func TestCapture_CheckboxSingleOtherEntry(t *testing.T) {
	form := models.Form{Questions: models.QuestionList{
		choiceQuestion("c1", models.Checkbox, "A", models.OtherOptionLabel),
	}}
	c := NewCapture(form)

	c.SetOther("c1", "Foo")
	c.ToggleOption("c1", 0)
	c.SetOther("c1", "Bar")

	// The other entry is replaced in place, never duplicated.
	assert.Equal(t, []string{"other:Bar", "0"}, c.Response()["c1"])
}

func TestCapture_CheckboxClearOther(t *testing.T) {
	form := models.Form{Questions: models.QuestionList{
		choiceQuestion("c1", models.Checkbox, "A", models.OtherOptionLabel),
	}}
	c := NewCapture(form)

	c.ToggleOption("c1", 0)
	c.SetOther("c1", "Foo")
	c.ClearOther("c1")

	assert.Equal(t, []string{"0"}, c.Response()["c1"])
}

func TestCapture_OtherRequiresDesignatedOption(t *testing.T) {
	form := models.Form{Questions: models.QuestionList{
		choiceQuestion("m1", models.MultipleChoice, "A", "B"),
		choiceQuestion("c1", models.Checkbox, "A", "B"),
	}}
	c := NewCapture(form)

	c.ChooseOther("m1", "Foo")
	c.SetOther("c1", "Foo")

	assert.Empty(t, c.Response())
}

func TestCapture_UnknownQuestionNeverRejects(t *testing.T) {
	c := NewCapture(models.Form{})

	c.SetText("ghost", "hello")
	c.SetRating("ghost", 3)
	c.ChooseOption("ghost", 0)
	c.ToggleOption("ghost", 0)

	assert.Empty(t, c.Response())
}

func TestCapture_RatingFromProtectedQuestion(t *testing.T) {
	form := models.Form{Questions: models.QuestionList{
		{ID: "seed", Type: models.Rating, MaxRating: 5, Protected: true},
		{ID: "q2", Type: models.ShortAnswer},
	}}
	c := NewCapture(form)

	assert.Equal(t, 0, c.Rating())

	c.SetRating("seed", 4)
	c.SetText("q2", "ok")

	require.Equal(t, 4, c.Rating())
}

// The positional encoding is order-sensitive: deleting or reordering
// options between capture and decode shifts the meaning of recorded
// numeric entries. The capture layer preserves the recorded index
// verbatim; this test pins the hazard down rather than fixing it.
func TestCapture_PositionalEncodingIsOrderSensitive(t *testing.T) {
	form := models.Form{Questions: models.QuestionList{
		choiceQuestion("m1", models.MultipleChoice, "A", "B", "C"),
	}}
	c := NewCapture(form)
	c.ChooseOption("m1", 1) // "B"

	assert.Equal(t, "1", c.Response()["m1"])

	// If option "A" were removed before decode, index 1 would now
	// name "C". The response still carries "1".
	reordered := RemoveOption(form, "m1", form.Questions[0].Options[0].ID)
	assert.Equal(t, "B", form.Questions[0].Options[1].Text)
	assert.Equal(t, "C", reordered.Questions[0].Options[1].Text)
	assert.Equal(t, "1", c.Response()["m1"])
}

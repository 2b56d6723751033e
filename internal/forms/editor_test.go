package forms

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zamzam-app/feedback-service/internal/models"
)

func TestOpen_SeedsRatingQuestion(t *testing.T) {
	form := Open(models.Form{Title: "Untitled Form"})

	require.Len(t, form.Questions, 1)
	seed := form.Questions[0]
	assert.Equal(t, models.Rating, seed.Type)
	assert.Equal(t, SeedQuestionTitle, seed.Title)
	assert.Equal(t, SeedMaxRating, seed.MaxRating)
	assert.True(t, seed.Required)
	assert.True(t, seed.Protected)
	assert.NotEmpty(t, seed.ID)
}

func TestOpen_DoesNotReseedNonEmptyForm(t *testing.T) {
	form := models.Form{
		Questions: models.QuestionList{
			{ID: "q1", Type: models.ShortAnswer, Title: "Name"},
		},
	}

	opened := Open(form)

	require.Len(t, opened.Questions, 1)
	assert.Equal(t, "q1", opened.Questions[0].ID)
}

func TestOpen_NormalizesLegacySeedID(t *testing.T) {
	form := models.Form{
		Questions: models.QuestionList{
			{ID: models.LegacySeedQuestionID, Type: models.Rating, MaxRating: 5},
		},
	}

	opened := Open(form)

	require.Len(t, opened.Questions, 1)
	assert.True(t, opened.Questions[0].Protected)
}

func TestAddQuestion_Defaults(t *testing.T) {
	form := Open(models.Form{})

	form = AddQuestion(form)

	require.Len(t, form.Questions, 2)
	added := form.Questions[1]
	assert.Equal(t, models.ShortAnswer, added.Type)
	assert.Empty(t, added.Title)
	assert.Empty(t, added.Hint)
	assert.False(t, added.Required)
	assert.False(t, added.Protected)
}

func TestAddQuestion_UniqueIDs(t *testing.T) {
	form := Open(models.Form{})
	for i := 0; i < 50; i++ {
		form = AddQuestion(form)
	}

	seen := make(map[string]bool)
	for _, q := range form.Questions {
		assert.False(t, seen[q.ID], "duplicate question id %s", q.ID)
		seen[q.ID] = true
	}
}

func TestUpdateQuestion(t *testing.T) {
	title := "How was your visit?"
	required := true
	mc := models.MultipleChoice

	form := Open(models.Form{})
	form = AddQuestion(form)
	id := form.Questions[1].ID

	form = UpdateQuestion(form, id, QuestionPatch{
		Type:     &mc,
		Title:    &title,
		Required: &required,
	})

	q := form.Question(id)
	require.NotNil(t, q)
	assert.Equal(t, models.MultipleChoice, q.Type)
	assert.Equal(t, title, q.Title)
	assert.True(t, q.Required)
}

func TestUpdateQuestion_UnknownIDIsNoop(t *testing.T) {
	form := Open(models.Form{})
	title := "ignored"

	updated := UpdateQuestion(form, "missing", QuestionPatch{Title: &title})

	assert.Equal(t, form.Questions, updated.Questions)
}

func TestUpdateQuestion_ProtectedTypeIsFrozen(t *testing.T) {
	form := Open(models.Form{})
	seedID := form.Questions[0].ID
	para := models.Paragraph

	form = UpdateQuestion(form, seedID, QuestionPatch{Type: &para})

	assert.Equal(t, models.Rating, form.Question(seedID).Type)
}

func TestAddOption_Labels(t *testing.T) {
	mc := models.MultipleChoice
	form := Open(models.Form{})
	form = AddQuestion(form)
	id := form.Questions[1].ID
	form = UpdateQuestion(form, id, QuestionPatch{Type: &mc})

	for i := 0; i < 3; i++ {
		form = AddOption(form, id)
	}

	q := form.Question(id)
	require.Len(t, q.Options, 3)
	for i, opt := range q.Options {
		assert.Equal(t, fmt.Sprintf("Option %d", i+1), opt.Text)
		assert.NotEmpty(t, opt.ID)
	}
}

func TestAddOption_NoopForOptionlessType(t *testing.T) {
	form := Open(models.Form{})
	form = AddQuestion(form)
	id := form.Questions[1].ID

	form = AddOption(form, id)

	assert.Empty(t, form.Question(id).Options)
}

func TestRemoveOption(t *testing.T) {
	mc := models.MultipleChoice
	form := Open(models.Form{})
	form = AddQuestion(form)
	id := form.Questions[1].ID
	form = UpdateQuestion(form, id, QuestionPatch{Type: &mc})
	form = AddOption(form, id)
	form = AddOption(form, id)
	removed := form.Question(id).Options[0].ID

	form = RemoveOption(form, id, removed)

	q := form.Question(id)
	require.Len(t, q.Options, 1)
	assert.Equal(t, "Option 2", q.Options[0].Text)
}

func TestRemoveQuestion(t *testing.T) {
	form := Open(models.Form{})
	form = AddQuestion(form)
	id := form.Questions[1].ID

	form = RemoveQuestion(form, id)

	assert.Len(t, form.Questions, 1)
	assert.Nil(t, form.Question(id))
}

func TestRemoveQuestion_ProtectedIsKept(t *testing.T) {
	form := Open(models.Form{})
	seedID := form.Questions[0].ID

	form = RemoveQuestion(form, seedID)

	require.Len(t, form.Questions, 1)
	assert.Equal(t, seedID, form.Questions[0].ID)
}

func TestTransformsDoNotAliasInput(t *testing.T) {
	mc := models.MultipleChoice
	form := Open(models.Form{})
	form = AddQuestion(form)
	id := form.Questions[1].ID
	form = UpdateQuestion(form, id, QuestionPatch{Type: &mc})
	form = AddOption(form, id)

	before := form.Question(id).Options[0].Text
	_ = AddOption(form, id)
	_ = RemoveOption(form, id, form.Question(id).Options[0].ID)

	assert.Equal(t, before, form.Question(id).Options[0].Text)
	assert.Len(t, form.Question(id).Options, 1)
}

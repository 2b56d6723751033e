package forms

import (
	"strconv"
	"strings"

	"github.com/zamzam-app/feedback-service/internal/models"
)

// OtherPrefix tags free-text answers of the designated "Other:"
// option on the wire.
const OtherPrefix = "other:"

// Response maps question ids to encoded answers. Entry shape follows
// the question type: string for short_answer/paragraph and
// multiple_choice, []string for checkbox, int for rating.
type Response map[string]interface{}

// Capture accumulates answers for one form. Option identity in the
// encoding is the option's positional index at capture time, not its
// id: reordering or deleting options before a response is finalized
// changes the meaning of already-recorded numeric entries. This is a
// known hazard carried over for compatibility with stored responses;
// do not switch to id-based keys without a data migration.
type Capture struct {
	form models.Form
	resp Response
}

// NewCapture starts an empty response for the given form. The form is
// read-only to the capture; it never rejects an answer.
func NewCapture(form models.Form) *Capture {
	return &Capture{form: form, resp: Response{}}
}

// SetText records the raw typed string for a short_answer or
// paragraph question.
func (c *Capture) SetText(questionID, text string) {
	q := c.question(questionID)
	if q == nil || (q.Type != models.ShortAnswer && q.Type != models.Paragraph) {
		return
	}
	c.resp[questionID] = text
}

// SetRating records the clicked star. Clicking star k sets the value
// to k outright, it is not additive.
func (c *Capture) SetRating(questionID string, star int) {
	q := c.question(questionID)
	if q == nil || q.Type != models.Rating {
		return
	}
	if star < 1 || star > q.MaxRating {
		return
	}
	c.resp[questionID] = star
}

// ChooseOption records a multiple_choice selection by positional
// index. Choosing the already-selected index toggles it off.
func (c *Capture) ChooseOption(questionID string, index int) {
	q := c.question(questionID)
	if q == nil || q.Type != models.MultipleChoice || index < 0 || index >= len(q.Options) {
		return
	}
	encoded := strconv.Itoa(index)
	if prev, ok := c.resp[questionID].(string); ok && prev == encoded {
		delete(c.resp, questionID)
		return
	}
	c.resp[questionID] = encoded
}

// ChooseOther records the free-text answer of a multiple_choice
// question's "Other:" option, replacing any prior value.
func (c *Capture) ChooseOther(questionID, text string) {
	q := c.question(questionID)
	if q == nil || q.Type != models.MultipleChoice || !hasOtherOption(q) {
		return
	}
	c.resp[questionID] = OtherPrefix + text
}

// ToggleOption toggles a checkbox selection by positional index,
// appending on select and removing the encoded entry on deselect.
// Other entries keep their relative order.
func (c *Capture) ToggleOption(questionID string, index int) {
	q := c.question(questionID)
	if q == nil || q.Type != models.Checkbox || index < 0 || index >= len(q.Options) {
		return
	}
	encoded := strconv.Itoa(index)
	entries := c.checkboxEntries(questionID)
	for i, e := range entries {
		if e == encoded {
			c.storeCheckbox(questionID, append(entries[:i], entries[i+1:]...))
			return
		}
	}
	c.storeCheckbox(questionID, append(entries, encoded))
}

// SetOther records the "Other:" checkbox with its typed text. At most
// one other entry is retained: a prior one is replaced in place.
func (c *Capture) SetOther(questionID, text string) {
	q := c.question(questionID)
	if q == nil || q.Type != models.Checkbox || !hasOtherOption(q) {
		return
	}
	encoded := OtherPrefix + text
	entries := c.checkboxEntries(questionID)
	for i, e := range entries {
		if strings.HasPrefix(e, OtherPrefix) {
			entries[i] = encoded
			c.storeCheckbox(questionID, entries)
			return
		}
	}
	c.storeCheckbox(questionID, append(entries, encoded))
}

// ClearOther removes the "Other:" entry of a checkbox question.
func (c *Capture) ClearOther(questionID string) {
	entries := c.checkboxEntries(questionID)
	for i, e := range entries {
		if strings.HasPrefix(e, OtherPrefix) {
			c.storeCheckbox(questionID, append(entries[:i], entries[i+1:]...))
			return
		}
	}
}

// Response returns the accumulated answer map.
func (c *Capture) Response() Response {
	return c.resp
}

// Rating extracts the protected rating question's answer, or 0 if it
// was not answered.
func (c *Capture) Rating() int {
	return ExtractRating(c.form, c.resp)
}

// ExtractRating reads the protected rating question's answer out of a
// response map, or 0 if absent. Handles both native ints and the
// float64 that JSON decoding produces.
func ExtractRating(form models.Form, resp Response) int {
	for _, q := range form.Questions {
		if !q.Protected || q.Type != models.Rating {
			continue
		}
		switch v := resp[q.ID].(type) {
		case int:
			return v
		case float64:
			return int(v)
		}
	}
	return 0
}

func (c *Capture) question(id string) *models.Question {
	return c.form.Question(id)
}

func (c *Capture) checkboxEntries(questionID string) []string {
	if v, ok := c.resp[questionID].([]string); ok {
		return v
	}
	return nil
}

func (c *Capture) storeCheckbox(questionID string, entries []string) {
	if len(entries) == 0 {
		delete(c.resp, questionID)
		return
	}
	c.resp[questionID] = entries
}

func hasOtherOption(q *models.Question) bool {
	for _, opt := range q.Options {
		if opt.Text == models.OtherOptionLabel {
			return true
		}
	}
	return false
}

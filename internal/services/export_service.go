package services

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/zamzam-app/feedback-service/internal/forms"
	"github.com/zamzam-app/feedback-service/internal/models"
	"github.com/zamzam-app/feedback-service/internal/repositories"
)

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger,
	}
}

// ExportResponses streams all responses of a form as a spreadsheet.
// One row per review, one column per question, answers decoded from
// their stored positional encoding into the option labels the question
// had at export time.
func (s *exportService) ExportResponses(ctx context.Context, formID uint, format ExportFormat, w io.Writer) error {
	s.logger.Info("Exporting responses", "form_id", formID, "format", format)

	form, err := s.repo.Form().GetByID(ctx, formID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrFormNotFound
		}
		return fmt.Errorf("failed to get form: %w", err)
	}
	form.Normalize()

	reviews, err := s.repo.Review().GetAllByForm(ctx, formID)
	if err != nil {
		return fmt.Errorf("failed to get reviews: %w", err)
	}

	headers := append([]string{"Review ID", "Outlet ID", "Submitted At"}, questionTitles(form)...)

	rows := make([][]string, 0, len(reviews))
	for _, review := range reviews {
		row, err := s.reviewRow(form, review)
		if err != nil {
			s.logger.Warn("Skipping undecodable review", "review_id", review.ID, "error", err)
			continue
		}
		rows = append(rows, row)
	}

	switch format {
	case ExportFormatCSV:
		return writeCSV(w, headers, rows)
	case ExportFormatXLSX:
		return writeXLSX(w, headers, rows)
	default:
		return NewValidationError("format", "must be xlsx or csv", string(format))
	}
}

func questionTitles(form *models.Form) []string {
	titles := make([]string, len(form.Questions))
	for i, q := range form.Questions {
		titles[i] = q.Title
	}
	return titles
}

func (s *exportService) reviewRow(form *models.Form, review *models.Review) ([]string, error) {
	var answers forms.Response
	if err := json.Unmarshal(review.Answers, &answers); err != nil {
		return nil, fmt.Errorf("failed to decode answers: %w", err)
	}

	row := []string{
		strconv.FormatUint(uint64(review.ID), 10),
		strconv.FormatUint(uint64(review.OutletID), 10),
		review.SubmittedAt.Format("2006-01-02 15:04:05"),
	}
	for _, q := range form.Questions {
		row = append(row, decodeAnswer(&q, answers[q.ID]))
	}
	return row, nil
}

// decodeAnswer renders one stored answer as a human-readable cell.
// Positional entries resolve against the question's current option
// order; an index past the end renders as the raw entry so reordered
// forms stay inspectable.
func decodeAnswer(q *models.Question, raw interface{}) string {
	if raw == nil {
		return ""
	}

	switch q.Type {
	case models.ShortAnswer, models.Paragraph:
		if v, ok := raw.(string); ok {
			return v
		}
	case models.Rating:
		switch v := raw.(type) {
		case float64:
			return strconv.Itoa(int(v))
		case int:
			return strconv.Itoa(v)
		}
	case models.MultipleChoice:
		if v, ok := raw.(string); ok {
			return decodeChoiceEntry(q, v)
		}
	case models.Checkbox:
		entries := stringEntries(raw)
		decoded := make([]string, len(entries))
		for i, e := range entries {
			decoded[i] = decodeChoiceEntry(q, e)
		}
		return strings.Join(decoded, "; ")
	}

	return fmt.Sprintf("%v", raw)
}

func decodeChoiceEntry(q *models.Question, entry string) string {
	if text, ok := strings.CutPrefix(entry, forms.OtherPrefix); ok {
		return "Other: " + text
	}
	index, err := strconv.Atoi(entry)
	if err != nil || index < 0 || index >= len(q.Options) {
		return entry
	}
	return q.Options[index].Text
}

// stringEntries flattens a decoded checkbox answer. JSON round-trips
// turn []string into []interface{}.
func stringEntries(raw interface{}) []string {
	switch v := raw.(type) {
	case []string:
		return v
	case []interface{}:
		entries := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				entries = append(entries, s)
			}
		}
		return entries
	}
	return nil
}

func writeCSV(w io.Writer, headers []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeXLSX(w io.Writer, headers []string, rows [][]string) error {
	f := excelize.NewFile()
	sheetName := "Responses"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)

	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("failed to build cell name: %w", err)
		}
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, row := range rows {
		for colIndex, value := range row {
			cell, err := excelize.CoordinatesToCellName(colIndex+1, rowIndex+2)
			if err != nil {
				return fmt.Errorf("failed to build cell name: %w", err)
			}
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

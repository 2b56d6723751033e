package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/zamzam-app/feedback-service/internal/services"
)

type stubExportService struct {
	err     error
	payload []byte
}

func (s *stubExportService) ExportResponses(ctx context.Context, formID uint, format services.ExportFormat, w io.Writer) error {
	if s.err != nil {
		return s.err
	}
	_, err := w.Write(s.payload)
	return err
}

func newExportTestRouter(export services.ExportService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewFormHandler(nil, nil, export, testHandlerLogger())
	r := gin.New()
	r.GET("/forms/:id/export", handler.ExportResponses)
	return r
}

func TestFormHandler_ExportResponses(t *testing.T) {
	t.Run("successful export is served as an attachment", func(t *testing.T) {
		router := newExportTestRouter(&stubExportService{payload: []byte("id,rating\n1,5\n")})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/forms/1/export?format=csv", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment; filename=responses-1-")
		assert.Equal(t, "id,rating\n1,5\n", w.Body.String())
	})

	t.Run("export failure returns error JSON without attachment headers", func(t *testing.T) {
		router := newExportTestRouter(&stubExportService{err: services.ErrFormNotFound})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/forms/99/export?format=csv", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Empty(t, w.Header().Get("Content-Disposition"))
		assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
		assert.Contains(t, w.Body.String(), "message")
	})

	t.Run("unknown format is a bad request", func(t *testing.T) {
		router := newExportTestRouter(&stubExportService{err: services.NewValidationError("format", "must be xlsx or csv", "pdf")})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/forms/1/export?format=pdf", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, w.Header().Get("Content-Disposition"))
	})
}

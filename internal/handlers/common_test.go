package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/zamzam-app/feedback-service/internal/utils"
)

func testHandlerLogger() utils.Logger {
	return utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestParseIDParam(t *testing.T) {
	base := NewBaseHandler(testHandlerLogger())

	testCases := []struct {
		name       string
		param      string
		wantID     uint
		wantStatus int
	}{
		{name: "valid id", param: "42", wantID: 42, wantStatus: http.StatusOK},
		{name: "zero id rejected", param: "0", wantStatus: http.StatusBadRequest},
		{name: "non-numeric", param: "abc", wantStatus: http.StatusBadRequest},
		{name: "negative", param: "-1", wantStatus: http.StatusBadRequest},
		{name: "overflows uint32", param: "4294967296", wantStatus: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, w := newTestContext(t)
			c.Params = gin.Params{{Key: "id", Value: tc.param}}

			id := base.parseIDParam(c, "id")

			assert.Equal(t, tc.wantID, id)
			assert.Equal(t, tc.wantStatus, w.Code)
		})
	}
}

func TestParsePagination(t *testing.T) {
	base := NewBaseHandler(testHandlerLogger())

	c, _ := newTestContext(t)
	c.Request = httptest.NewRequest(http.MethodGet, "/?limit=-3&offset=-7", nil)

	limit, offset := base.parsePagination(c)

	assert.Equal(t, 20, limit)
	assert.Equal(t, 0, offset)
}

package response

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/Naya-01/PAE/internal/apierr"
)

func TestFromError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"forbidden", fmt.Errorf("assign: %w", apierr.Forbidden("object is given")), http.StatusForbidden, "assign: object is given"},
		{"not found", apierr.NotFound("offer 3 not found"), http.StatusNotFound, "offer 3 not found"},
		{"conflict", apierr.Conflict("interest already exists"), http.StatusConflict, "interest already exists"},
		{"unavailable", apierr.Unavailable("no picture storage configured"), http.StatusServiceUnavailable, "no picture storage configured"},
		{"internal", errors.New("pq: connection refused"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			FromError(c, tc.err)

			assert.Equal(t, tc.status, w.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"success":false,"error":%q,"code":%d}`, tc.body, tc.status), w.Body.String())
		})
	}
}

func TestSuccessResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	SuccessResponse(c, http.StatusCreated, "created", gin.H{"id": 1})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"created","data":{"id":1}}`, w.Body.String())
}

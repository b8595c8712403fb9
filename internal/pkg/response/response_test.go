// internal/pkg/response/response_test.go
package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	xerrors "insurica-service/internal/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestSuccess(t *testing.T) {
	c, w := testContext()
	Success(c, http.StatusCreated, "created", gin.H{"id": 1})

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "created", resp.Message)
	assert.Empty(t, resp.Error)
}

func TestErrorAborts(t *testing.T) {
	c, w := testContext()
	Error(c, http.StatusBadRequest, "bad input", errors.New("field missing"))

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "field missing", resp.Error)
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", xerrors.ErrNotFound, http.StatusNotFound},
		{"unauthorized", xerrors.ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", xerrors.ErrForbidden, http.StatusForbidden},
		{"conflict", xerrors.ErrConflict, http.StatusConflict},
		{"invalid input", xerrors.ErrInvalidInput, http.StatusBadRequest},
		{"rate limited", xerrors.ErrRateLimited, http.StatusTooManyRequests},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := testContext()
			FromError(c, tt.err, "fallback message")
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestFromErrorWrapped(t *testing.T) {
	c, w := testContext()
	FromError(c, errors.Join(errors.New("ctx"), xerrors.ErrNotFound), "fallback")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

package errresponse

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"bloglist/internal/auth"
	"bloglist/store"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
)

func TestFromError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		text   string
	}{
		{store.ErrMalformedID, http.StatusBadRequest, "malformatted id"},
		{fmt.Errorf("get: %w", store.ErrNotFound), http.StatusNotFound, "resource not found"},
		{auth.ErrUnknownUser, http.StatusUnauthorized, "user not found"},
		{fmt.Errorf("%w: expired", auth.ErrInvalidToken), http.StatusUnauthorized, "token missing or invalid"},
		{errors.New("connection reset"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range cases {
		resp, ok := FromError(tc.err).(*ErrResponse)
		if assert.True(t, ok) {
			assert.Equal(t, tc.status, resp.HTTPStatusCode, tc.err.Error())
			assert.Equal(t, tc.text, resp.ErrorText)
		}
	}
}

func TestRenderWritesStatusAndBody(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	assert.NoError(t, render.Render(rec, req, ErrInvalidRequest(errors.New("title is required"))))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"title is required"}`, rec.Body.String())
}

package errresponse

import (
	"errors"
	"net/http"

	"bloglist/internal/auth"
	"bloglist/pkg/logger"
	"bloglist/store"

	"github.com/go-chi/render"
)

// ErrResponse renderer type for handling all sorts of errors.
type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	ErrorText string `json:"error"` // user-level message
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		ErrorText:      err.Error(),
	}
}

func ErrMalformedID(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		ErrorText:      "malformatted id",
	}
}

func ErrUnauthorized(message string) render.Renderer {
	return &ErrResponse{
		HTTPStatusCode: http.StatusUnauthorized,
		ErrorText:      message,
	}
}

// ErrInternal hides err from the client; callers log it.
func ErrInternal(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		ErrorText:      "internal server error",
	}
}

var ErrNotFound = &ErrResponse{HTTPStatusCode: http.StatusNotFound, ErrorText: "resource not found"}

// FromError maps store and auth errors onto responses. Anything else is
// logged and reported as 500.
func FromError(err error) render.Renderer {
	switch {
	case errors.Is(err, store.ErrMalformedID):
		return ErrMalformedID(err)
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, auth.ErrUnknownUser):
		return ErrUnauthorized(auth.ErrUnknownUser.Error())
	case errors.Is(err, auth.ErrMissingToken), errors.Is(err, auth.ErrInvalidToken):
		return ErrUnauthorized("token missing or invalid")
	}
	logger.Sugar.Errorf("Request failed: %v", err)
	return ErrInternal(err)
}

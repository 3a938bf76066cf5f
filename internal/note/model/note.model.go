package model

import (
	"net/http"
	"time"

	"bloglist/internal/request"
)

type Owner struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

type Note struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Important bool      `json:"important"`
	Date      time.Time `json:"date"`
	UserID    string    `json:"-"`
	User      *Owner    `json:"user,omitempty"`
}

type CreateNoteRequest struct {
	Content   string `json:"content" validate:"required,min=5"`
	Important *bool  `json:"important"`
}

func (n *CreateNoteRequest) Bind(r *http.Request) error {
	return request.Validate(n)
}

// NotePatch carries the mutable fields of a note. Nil fields keep their
// stored value.
type NotePatch struct {
	Content   *string `json:"content" validate:"omitempty,min=5"`
	Important *bool   `json:"important"`
}

func (p *NotePatch) Bind(r *http.Request) error {
	return request.Validate(p)
}

func (p NotePatch) Apply(existing Note) Note {
	updated := existing
	if p.Content != nil {
		updated.Content = *p.Content
	}
	if p.Important != nil {
		updated.Important = *p.Important
	}
	return updated
}

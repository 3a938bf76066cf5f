package model

import (
	"net/http"
	"time"

	"bloglist/internal/request"
)

// BlogRef and NoteRef are the populated forms of a user's references.
type BlogRef struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Likes  int    `json:"likes"`
}

type NoteRef struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Important bool      `json:"important"`
	Date      time.Time `json:"date"`
}

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	BlogIDs      []string  `json:"-"`
	NoteIDs      []string  `json:"-"`
	Blogs        []BlogRef `json:"blogs"`
	Notes        []NoteRef `json:"notes"`
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Name     string `json:"name"`
	Password string `json:"password" validate:"required,min=3"`
}

func (u *CreateUserRequest) Bind(r *http.Request) error {
	return request.Validate(u)
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (l *LoginRequest) Bind(r *http.Request) error {
	return request.Validate(l)
}

type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

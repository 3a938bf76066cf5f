package model

import (
	"net/http"
	"time"

	"bloglist/internal/request"
)

// Owner is the public part of the user a blog is attributed to.
type Owner struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

type Blog struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	URL       string    `json:"url"`
	Likes     int       `json:"likes"`
	UserID    string    `json:"-"`
	User      *Owner    `json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateBlogRequest struct {
	Title  string `json:"title" validate:"required"`
	Author string `json:"author"`
	URL    string `json:"url" validate:"required"`
	Likes  *int   `json:"likes" validate:"omitempty,gte=0"`
}

func (b *CreateBlogRequest) Bind(r *http.Request) error {
	return request.Validate(b)
}

// BlogPatch carries the mutable fields of a blog. Nil fields keep their
// stored value.
type BlogPatch struct {
	Likes *int `json:"likes" validate:"omitempty,gte=0"`
}

func (p *BlogPatch) Bind(r *http.Request) error {
	return request.Validate(p)
}

// Apply returns the replacement record for existing.
func (p BlogPatch) Apply(existing Blog) Blog {
	updated := existing
	if p.Likes != nil {
		updated.Likes = *p.Likes
	}
	return updated
}

type AuthorBlogs struct {
	Author string `json:"author"`
	Blogs  int    `json:"blogs"`
}

type AuthorLikes struct {
	Author string `json:"author"`
	Likes  int    `json:"likes"`
}

type Stats struct {
	TotalLikes   int          `json:"totalLikes"`
	FavoriteBlog *Blog        `json:"favoriteBlog"`
	MostBlogs    *AuthorBlogs `json:"mostBlogs"`
	MostLikes    *AuthorLikes `json:"mostLikes"`
}

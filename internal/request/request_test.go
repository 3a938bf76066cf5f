package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type payload struct {
	Title string `json:"title" validate:"required"`
	URL   string `json:"url" validate:"required"`
	Likes *int   `json:"likes" validate:"omitempty,gte=0"`
	Name  string `json:"username" validate:"omitempty,min=3"`
}

func TestValidate(t *testing.T) {
	likes := 3
	assert.NoError(t, Validate(&payload{Title: "t", URL: "u", Likes: &likes}))
	assert.NoError(t, Validate(&payload{Title: "t", URL: "u"}))

	err := Validate(&payload{Title: "t"})
	assert.EqualError(t, err, "url is required")

	err = Validate(&payload{})
	assert.EqualError(t, err, "title is required; url is required")

	negative := -1
	err = Validate(&payload{Title: "t", URL: "u", Likes: &negative})
	assert.EqualError(t, err, "likes must be 0 or greater")

	err = Validate(&payload{Title: "t", URL: "u", Name: "ab"})
	assert.EqualError(t, err, "username must be at least 3 characters long")
}

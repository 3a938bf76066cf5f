package service

import (
	"context"

	"bloglist/internal/user/model"
)

type Repository interface {
	Create(ctx context.Context, u *model.User) error
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
}

// TokenIssuer signs bearer tokens for logged in users.
type TokenIssuer interface {
	Issue(userID, username string) (string, error)
}

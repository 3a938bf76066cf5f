package service

import (
	"context"

	"bloglist/internal/blog/model"
	"bloglist/socket"
)

type Repository interface {
	List(ctx context.Context) ([]model.Blog, error)
	Get(ctx context.Context, id string) (*model.Blog, error)
	CreateForUser(ctx context.Context, blog *model.Blog) error
	Replace(ctx context.Context, blog model.Blog) error
	Delete(ctx context.Context, id string) (ownerID string, deleted bool, err error)
}

// Publisher receives an event after every committed write.
type Publisher interface {
	Publish(ev socket.Event)
}

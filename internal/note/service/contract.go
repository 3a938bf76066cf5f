package service

import (
	"context"

	"bloglist/internal/note/model"
	"bloglist/socket"
)

type Repository interface {
	List(ctx context.Context) ([]model.Note, error)
	Get(ctx context.Context, id string) (*model.Note, error)
	CreateForUser(ctx context.Context, note *model.Note) error
	Replace(ctx context.Context, note model.Note) error
	Delete(ctx context.Context, id string) (ownerID string, deleted bool, err error)
}

type Publisher interface {
	Publish(ev socket.Event)
}

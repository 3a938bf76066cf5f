package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bloglist/internal/auth"
	"bloglist/internal/blog/model"
	"bloglist/internal/blog/stats"
	"bloglist/socket"
	"bloglist/store"
)

type BlogService struct {
	Repo   Repository
	Events Publisher
	Now    func() time.Time
}

func NewBlogService(repo Repository, events Publisher) *BlogService {
	return &BlogService{Repo: repo, Events: events, Now: time.Now}
}

func (s *BlogService) List(ctx context.Context) ([]model.Blog, error) {
	return s.Repo.List(ctx)
}

func (s *BlogService) Get(ctx context.Context, id string) (*model.Blog, error) {
	if err := store.CheckID(id); err != nil {
		return nil, err
	}
	return s.Repo.Get(ctx, id)
}

// Create attributes a new blog to the authenticated user. The blog row and
// the user's back-reference are written together or not at all.
func (s *BlogService) Create(ctx context.Context, identity auth.Identity, req model.CreateBlogRequest) (*model.Blog, error) {
	if err := store.CheckID(identity.UserID); err != nil {
		return nil, auth.ErrUnknownUser
	}

	blog := &model.Blog{
		ID:        store.NewID(),
		Title:     req.Title,
		Author:    req.Author,
		URL:       req.URL,
		UserID:    identity.UserID,
		CreatedAt: s.Now().UTC().Truncate(time.Microsecond),
	}
	if req.Likes != nil {
		blog.Likes = *req.Likes
	}

	if err := s.Repo.CreateForUser(ctx, blog); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, auth.ErrUnknownUser
		}
		return nil, fmt.Errorf("create blog: %w", err)
	}

	s.publish(socket.CreatedType, blog.ID, blog.UserID, blog)
	return blog, nil
}

// Update copies the stored blog, applies patch and persists the result as
// a full replacement.
func (s *BlogService) Update(ctx context.Context, id string, patch model.BlogPatch) (*model.Blog, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := patch.Apply(*existing)
	if err := s.Repo.Replace(ctx, updated); err != nil {
		return nil, err
	}

	s.publish(socket.UpdatedType, updated.ID, updated.UserID, updated)
	return &updated, nil
}

// Delete is idempotent: removing a missing blog succeeds.
func (s *BlogService) Delete(ctx context.Context, id string) error {
	if err := store.CheckID(id); err != nil {
		return err
	}
	ownerID, deleted, err := s.Repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if deleted {
		s.publish(socket.DeletedType, id, ownerID, nil)
	}
	return nil
}

func (s *BlogService) Stats(ctx context.Context) (model.Stats, error) {
	blogs, err := s.Repo.List(ctx)
	if err != nil {
		return model.Stats{}, err
	}
	return stats.Summarize(blogs), nil
}

func (s *BlogService) publish(typ, id, userID string, payload interface{}) {
	if s.Events == nil {
		return
	}
	s.Events.Publish(socket.NewEvent(typ, socket.ResourceBlogs, id, userID, payload))
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bloglist/internal/auth"
	"bloglist/internal/note/model"
	"bloglist/socket"
	"bloglist/store"
)

type NoteService struct {
	Repo   Repository
	Events Publisher
	Now    func() time.Time
}

func NewNoteService(repo Repository, events Publisher) *NoteService {
	return &NoteService{Repo: repo, Events: events, Now: time.Now}
}

func (s *NoteService) List(ctx context.Context) ([]model.Note, error) {
	return s.Repo.List(ctx)
}

func (s *NoteService) Get(ctx context.Context, id string) (*model.Note, error) {
	if err := store.CheckID(id); err != nil {
		return nil, err
	}
	return s.Repo.Get(ctx, id)
}

func (s *NoteService) Create(ctx context.Context, identity auth.Identity, req model.CreateNoteRequest) (*model.Note, error) {
	if err := store.CheckID(identity.UserID); err != nil {
		return nil, auth.ErrUnknownUser
	}

	note := &model.Note{
		ID:      store.NewID(),
		Content: req.Content,
		Date:    s.Now().UTC().Truncate(time.Microsecond),
		UserID:  identity.UserID,
	}
	if req.Important != nil {
		note.Important = *req.Important
	}

	if err := s.Repo.CreateForUser(ctx, note); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, auth.ErrUnknownUser
		}
		return nil, fmt.Errorf("create note: %w", err)
	}

	s.publish(socket.CreatedType, note.ID, note.UserID, note)
	return note, nil
}

func (s *NoteService) Update(ctx context.Context, id string, patch model.NotePatch) (*model.Note, error) {
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

func (s *NoteService) Delete(ctx context.Context, id string) error {
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

func (s *NoteService) publish(typ, id, userID string, payload interface{}) {
	if s.Events == nil {
		return
	}
	s.Events.Publish(socket.NewEvent(typ, socket.ResourceNotes, id, userID, payload))
}

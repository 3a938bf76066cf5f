package service

import (
	"context"
	"errors"
	"fmt"

	"bloglist/internal/user/model"
	"bloglist/store"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrDuplicateUsername  = errors.New("expected `username` to be unique")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

type UserService struct {
	Repo   Repository
	Tokens TokenIssuer
	Cost   int
}

func NewUserService(repo Repository, tokens TokenIssuer) *UserService {
	return &UserService{Repo: repo, Tokens: tokens, Cost: bcrypt.DefaultCost}
}

func (s *UserService) Register(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.Cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{
		ID:           store.NewID(),
		Username:     req.Username,
		Name:         req.Name,
		PasswordHash: string(hash),
		Blogs:        []model.BlogRef{},
		Notes:        []model.NoteRef{},
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.Repo.List(ctx)
}

// Login checks the password and returns a signed token. Unknown users and
// wrong passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	u, err := s.Repo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.Tokens.Issue(u.ID, u.Username)
	if err != nil {
		return nil, err
	}
	return &model.LoginResponse{Token: token, Username: u.Username, Name: u.Name}, nil
}

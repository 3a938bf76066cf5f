package service

import (
	"context"
	"testing"
	"time"

	"bloglist/internal/auth"
	"bloglist/internal/user/model"
	"bloglist/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeRepo struct {
	users map[string]model.User
}

func (f *fakeRepo) Create(ctx context.Context, u *model.User) error {
	if _, ok := f.users[u.Username]; ok {
		return store.ErrDuplicate
	}
	f.users[u.Username] = *u
	return nil
}

func (f *fakeRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (f *fakeRepo) List(ctx context.Context) ([]model.User, error) {
	out := []model.User{}
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func newService() (*UserService, *fakeRepo, *auth.Issuer) {
	repo := &fakeRepo{users: make(map[string]model.User)}
	issuer := auth.NewIssuer("test-secret", time.Hour)
	svc := NewUserService(repo, issuer)
	svc.Cost = bcrypt.MinCost
	return svc, repo, issuer
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, repo, _ := newService()

	u, err := svc.Register(context.Background(), model.CreateUserRequest{Username: "mluukkai", Name: "Matti Luukkainen", Password: "salainen"})
	require.NoError(t, err)

	assert.NoError(t, store.CheckID(u.ID))
	assert.NotEqual(t, "salainen", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.users["mluukkai"].PasswordHash), []byte("salainen")))
	assert.NotNil(t, u.Blogs)
	assert.NotNil(t, u.Notes)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, repo, _ := newService()
	_, err := svc.Register(context.Background(), model.CreateUserRequest{Username: "root", Password: "sekret"})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), model.CreateUserRequest{Username: "root", Password: "other"})
	assert.ErrorIs(t, err, ErrDuplicateUsername)
	assert.Len(t, repo.users, 1)
}

func TestLogin(t *testing.T) {
	svc, _, issuer := newService()
	u, err := svc.Register(context.Background(), model.CreateUserRequest{Username: "root", Name: "Superuser", Password: "sekret"})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), model.LoginRequest{Username: "root", Password: "sekret"})
	require.NoError(t, err)
	assert.Equal(t, "root", resp.Username)
	assert.Equal(t, "Superuser", resp.Name)

	identity, err := issuer.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, identity.UserID)
	assert.Equal(t, "root", identity.Username)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, _ := newService()
	_, err := svc.Register(context.Background(), model.CreateUserRequest{Username: "root", Password: "sekret"})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), model.LoginRequest{Username: "root", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), model.LoginRequest{Username: "nobody", Password: "sekret"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

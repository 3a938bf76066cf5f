package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"bloglist/internal/blog/model"
	"bloglist/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	blogID  = "6f1b6f64-3c1e-4c4a-9a57-0d3c0e3f9a11"
	ownerID = "0b8f6c2e-5d4a-4f7e-8e2b-1f9d3a7c6e55"
)

var blogColumns = []string{"id", "title", "author", "url", "likes", "user_id", "created_at", "username", "name"}

func newMock(t *testing.T) (*BlogRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewBlogRepository(db), mock
}

func TestListPopulatesOwner(t *testing.T) {
	repo, mock := newMock(t)
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	rows := sqlmock.NewRows(blogColumns).
		AddRow(blogID, "testBlog1", "anon", "http://a", 3, ownerID, created, "root", "Superuser").
		AddRow("7a2c1d9e-0000-4000-8000-000000000002", "testBlog2", "anon", "http://b", 9, nil, created, nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT b.id, b.title, b.author, b.url, b.likes, b.user_id, b.created_at, u.username, u.name FROM blogs b LEFT JOIN users u ON u.id = b.user_id ORDER BY b.created_at, b.id")).
		WillReturnRows(rows)

	blogs, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, blogs, 2)

	assert.Equal(t, "testBlog1", blogs[0].Title)
	require.NotNil(t, blogs[0].User)
	assert.Equal(t, model.Owner{ID: ownerID, Username: "root", Name: "Superuser"}, *blogs[0].User)
	assert.Equal(t, 9, blogs[1].Likes)
	assert.Nil(t, blogs[1].User)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListEmptyIsNotNil(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery("SELECT (.+) FROM blogs b").WillReturnRows(sqlmock.NewRows(blogColumns))

	blogs, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, blogs)
	assert.Empty(t, blogs)
}

func TestGet(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM blogs b LEFT JOIN users u ON u.id = b.user_id WHERE b.id = $1")).
		WithArgs(blogID).
		WillReturnRows(sqlmock.NewRows(blogColumns).
			AddRow(blogID, "testBlog1", "anon", "http://a", 3, ownerID, time.Now(), "root", "Superuser"))

	b, err := repo.Get(context.Background(), blogID)
	require.NoError(t, err)
	assert.Equal(t, blogID, b.ID)
	assert.Equal(t, ownerID, b.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetNotFound(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery("SELECT (.+) FROM blogs b").
		WithArgs(blogID).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), blogID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetMalformedID(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery("SELECT (.+) FROM blogs b").
		WithArgs("nope").
		WillReturnError(&pq.Error{Code: "22P02"})

	_, err := repo.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, store.ErrMalformedID)
}

func TestCreateForUserLinksOwnerInOneTransaction(t *testing.T) {
	repo, mock := newMock(t)
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	blog := &model.Blog{ID: blogID, Title: "t", Author: "a", URL: "u", Likes: 0, UserID: ownerID, CreatedAt: created}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO blogs").
		WithArgs(blogID, "t", "a", "u", 0, ownerID, created).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE users SET blog_ids = array_append(blog_ids, $1) WHERE id = $2 RETURNING username, name")).
		WithArgs(blogID, ownerID).
		WillReturnRows(sqlmock.NewRows([]string{"username", "name"}).AddRow("root", "Superuser"))
	mock.ExpectCommit()

	require.NoError(t, repo.CreateForUser(context.Background(), blog))
	require.NotNil(t, blog.User)
	assert.Equal(t, "root", blog.User.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateForUserRollsBackWhenOwnerMissing(t *testing.T) {
	repo, mock := newMock(t)
	blog := &model.Blog{ID: blogID, Title: "t", URL: "u", UserID: ownerID}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO blogs").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("UPDATE users SET blog_ids").WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := repo.CreateForUser(context.Background(), blog)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Nil(t, blog.User)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateForUserRollsBackOnInsertFailure(t *testing.T) {
	repo, mock := newMock(t)
	blog := &model.Blog{ID: blogID, Title: "t", URL: "u", UserID: ownerID}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO blogs").WillReturnError(&pq.Error{Code: "23503", Constraint: "blogs_user_id_fkey"})
	mock.ExpectRollback()

	err := repo.CreateForUser(context.Background(), blog)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplace(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE blogs SET title = $1, author = $2, url = $3, likes = $4 WHERE id = $5")).
		WithArgs("t", "a", "u", 10, blogID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Replace(context.Background(), model.Blog{ID: blogID, Title: "t", Author: "a", URL: "u", Likes: 10})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceMissing(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec("UPDATE blogs").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Replace(context.Background(), model.Blog{ID: blogID})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteUnlinksOwner(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM blogs WHERE id = $1 RETURNING user_id")).
		WithArgs(blogID).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(ownerID))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET blog_ids = array_remove(blog_ids, $1) WHERE id = $2")).
		WithArgs(blogID, ownerID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	owner, deleted, err := repo.Delete(context.Background(), blogID)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, ownerID, owner)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMissingIsNotAnError(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("DELETE FROM blogs").WithArgs(blogID).WillReturnError(sql.ErrNoRows)
	mock.ExpectCommit()

	owner, deleted, err := repo.Delete(context.Background(), blogID)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Empty(t, owner)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteWithoutOwner(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("DELETE FROM blogs").
		WithArgs(blogID).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(nil))
	mock.ExpectCommit()

	owner, deleted, err := repo.Delete(context.Background(), blogID)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Empty(t, owner)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteRollsBackWhenUnlinkFails(t *testing.T) {
	repo, mock := newMock(t)
	boom := errors.New("connection reset")

	mock.ExpectBegin()
	mock.ExpectQuery("DELETE FROM blogs").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(ownerID))
	mock.ExpectExec("UPDATE users SET blog_ids").WillReturnError(boom)
	mock.ExpectRollback()

	owner, deleted, err := repo.Delete(context.Background(), blogID)
	assert.ErrorIs(t, err, boom)
	assert.False(t, deleted)
	assert.Empty(t, owner)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"bloglist/internal/user/model"
	"bloglist/pkg/logger"
	"bloglist/store"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
)

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (id, username, name, password_hash) VALUES ($1, $2, $3, $4)`,
		u.ID, u.Username, u.Name, u.PasswordHash)
	if err != nil {
		logger.Sugar.Errorf("Failed to create user %s: %v", u.Username, err)
		return store.MapError(err)
	}
	return nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, username, name, password_hash FROM users WHERE username = $1`, username).
		Scan(&u.ID, &u.Username, &u.Name, &u.PasswordHash)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Sugar.Errorf("Failed to get user %s: %v", username, err)
		}
		return nil, store.MapError(err)
	}
	return &u, nil
}

// List returns every user with blogs and notes populated in the order the
// user's reference arrays hold them. Dangling references are skipped.
func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	query, args, err := squirrel.
		Select("id", "username", "name", "blog_ids", "note_ids").
		From("users").
		OrderBy("username").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Sugar.Errorf("Failed to list users: %v", err)
		return nil, store.MapError(err)
	}
	defer rows.Close()

	users := []model.User{}
	var blogIDs, noteIDs []string
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Name, pq.Array(&u.BlogIDs), pq.Array(&u.NoteIDs)); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		blogIDs = append(blogIDs, u.BlogIDs...)
		noteIDs = append(noteIDs, u.NoteIDs...)
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	if len(users) == 0 {
		return users, nil
	}

	blogs, err := r.blogsByID(ctx, blogIDs)
	if err != nil {
		return nil, err
	}
	notes, err := r.notesByID(ctx, noteIDs)
	if err != nil {
		return nil, err
	}

	for i := range users {
		users[i].Blogs = []model.BlogRef{}
		for _, id := range users[i].BlogIDs {
			if b, ok := blogs[id]; ok {
				users[i].Blogs = append(users[i].Blogs, b)
			}
		}
		users[i].Notes = []model.NoteRef{}
		for _, id := range users[i].NoteIDs {
			if n, ok := notes[id]; ok {
				users[i].Notes = append(users[i].Notes, n)
			}
		}
	}
	return users, nil
}

func (r *UserRepository) blogsByID(ctx context.Context, ids []string) (map[string]model.BlogRef, error) {
	out := make(map[string]model.BlogRef, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, title, author, url, likes FROM blogs WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		logger.Sugar.Errorf("Failed to load referenced blogs: %v", err)
		return nil, store.MapError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var b model.BlogRef
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.URL, &b.Likes); err != nil {
			return nil, fmt.Errorf("failed to scan blog: %w", err)
		}
		out[b.ID] = b
	}
	return out, rows.Err()
}

func (r *UserRepository) notesByID(ctx context.Context, ids []string) (map[string]model.NoteRef, error) {
	out := make(map[string]model.NoteRef, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, content, important, date FROM notes WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		logger.Sugar.Errorf("Failed to load referenced notes: %v", err)
		return nil, store.MapError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var n model.NoteRef
		if err := rows.Scan(&n.ID, &n.Content, &n.Important, &n.Date); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		out[n.ID] = n
	}
	return out, rows.Err()
}

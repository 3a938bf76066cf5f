package repository

import (
	"context"
	"database/sql"
	"fmt"

	"bloglist/internal/blog/model"
	"bloglist/pkg/logger"
	"bloglist/store"

	"github.com/Masterminds/squirrel"
)

type BlogRepository struct {
	DB *sql.DB
}

func NewBlogRepository(db *sql.DB) *BlogRepository {
	return &BlogRepository{DB: db}
}

func selectBlogs() squirrel.SelectBuilder {
	return squirrel.
		Select("b.id",
			"b.title",
			"b.author",
			"b.url",
			"b.likes",
			"b.user_id",
			"b.created_at",
			"u.username",
			"u.name").
		From("blogs b").
		LeftJoin("users u ON u.id = b.user_id").
		PlaceholderFormat(squirrel.Dollar)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBlog(row rowScanner) (model.Blog, error) {
	var (
		b        model.Blog
		userID   sql.NullString
		username sql.NullString
		name     sql.NullString
	)
	if err := row.Scan(&b.ID, &b.Title, &b.Author, &b.URL, &b.Likes, &userID, &b.CreatedAt, &username, &name); err != nil {
		return model.Blog{}, err
	}
	if userID.Valid {
		b.UserID = userID.String
		b.User = &model.Owner{ID: userID.String, Username: username.String, Name: name.String}
	}
	return b, nil
}

// List returns every blog with its owner populated, oldest first.
func (r *BlogRepository) List(ctx context.Context) ([]model.Blog, error) {
	query, args, err := selectBlogs().OrderBy("b.created_at", "b.id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Sugar.Errorf("Failed to list blogs: %v", err)
		return nil, store.MapError(err)
	}
	defer rows.Close()

	blogs := []model.Blog{}
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan blog: %w", err)
		}
		blogs = append(blogs, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate blogs: %w", err)
	}
	return blogs, nil
}

func (r *BlogRepository) Get(ctx context.Context, id string) (*model.Blog, error) {
	query, args, err := selectBlogs().Where(squirrel.Eq{"b.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	b, err := scanBlog(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Sugar.Errorf("Failed to get blog %s: %v", id, err)
		}
		return nil, store.MapError(err)
	}
	return &b, nil
}

// CreateForUser inserts blog and appends its id to the owner's blog_ids in
// one transaction. blog.User is filled from the owner row.
func (r *BlogRepository) CreateForUser(ctx context.Context, blog *model.Blog) error {
	return store.RunInTx(ctx, r.DB, func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO blogs (id, title, author, url, likes, user_id, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			blog.ID, blog.Title, blog.Author, blog.URL, blog.Likes, blog.UserID, blog.CreatedAt)
		if err != nil {
			logger.Sugar.Errorf("Failed to create blog: %v", err)
			return store.MapError(err)
		}

		owner := model.Owner{ID: blog.UserID}
		err = tx.QueryRowContext(ctx,
			`UPDATE users SET blog_ids = array_append(blog_ids, $1) WHERE id = $2 RETURNING username, name`,
			blog.ID, blog.UserID).Scan(&owner.Username, &owner.Name)
		if err != nil {
			logger.Sugar.Errorf("Failed to link blog %s to user %s: %v", blog.ID, blog.UserID, err)
			return store.MapError(err)
		}
		blog.User = &owner
		return nil
	})
}

// Replace overwrites every stored field of blog except its owner and
// creation time.
func (r *BlogRepository) Replace(ctx context.Context, blog model.Blog) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE blogs SET title = $1, author = $2, url = $3, likes = $4 WHERE id = $5`,
		blog.Title, blog.Author, blog.URL, blog.Likes, blog.ID)
	if err != nil {
		logger.Sugar.Errorf("Failed to update blog %s: %v", blog.ID, err)
		return store.MapError(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Delete removes the blog and its id from the owner's blog_ids and returns
// that owner. A missing blog is not an error; the returned bool reports
// whether a row was removed.
func (r *BlogRepository) Delete(ctx context.Context, id string) (string, bool, error) {
	var ownerID string
	deleted := false
	err := store.RunInTx(ctx, r.DB, func(ctx context.Context, tx *sql.Tx) error {
		var userID sql.NullString
		err := tx.QueryRowContext(ctx, `DELETE FROM blogs WHERE id = $1 RETURNING user_id`, id).Scan(&userID)
		if err == sql.ErrNoRows {
			return nil
		}
		if err != nil {
			logger.Sugar.Errorf("Failed to delete blog %s: %v", id, err)
			return store.MapError(err)
		}
		deleted = true

		if !userID.Valid {
			return nil
		}
		ownerID = userID.String
		if _, err := tx.ExecContext(ctx,
			`UPDATE users SET blog_ids = array_remove(blog_ids, $1) WHERE id = $2`, id, userID.String); err != nil {
			logger.Sugar.Errorf("Failed to unlink blog %s from user %s: %v", id, userID.String, err)
			return store.MapError(err)
		}
		return nil
	})
	if err != nil {
		return "", false, err
	}
	return ownerID, deleted, nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"bloglist/internal/note/model"
	"bloglist/pkg/logger"
	"bloglist/store"

	"github.com/Masterminds/squirrel"
)

type NoteRepository struct {
	DB *sql.DB
}

func NewNoteRepository(db *sql.DB) *NoteRepository {
	return &NoteRepository{DB: db}
}

func selectNotes() squirrel.SelectBuilder {
	return squirrel.
		Select("n.id",
			"n.content",
			"n.important",
			"n.date",
			"n.user_id",
			"u.username",
			"u.name").
		From("notes n").
		LeftJoin("users u ON u.id = n.user_id").
		PlaceholderFormat(squirrel.Dollar)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanNote(row rowScanner) (model.Note, error) {
	var (
		n        model.Note
		userID   sql.NullString
		username sql.NullString
		name     sql.NullString
	)
	if err := row.Scan(&n.ID, &n.Content, &n.Important, &n.Date, &userID, &username, &name); err != nil {
		return model.Note{}, err
	}
	if userID.Valid {
		n.UserID = userID.String
		n.User = &model.Owner{ID: userID.String, Username: username.String, Name: name.String}
	}
	return n, nil
}

func (r *NoteRepository) List(ctx context.Context) ([]model.Note, error) {
	query, args, err := selectNotes().OrderBy("n.date", "n.id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Sugar.Errorf("Failed to list notes: %v", err)
		return nil, store.MapError(err)
	}
	defer rows.Close()

	notes := []model.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notes: %w", err)
	}
	return notes, nil
}

func (r *NoteRepository) Get(ctx context.Context, id string) (*model.Note, error) {
	query, args, err := selectNotes().Where(squirrel.Eq{"n.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	n, err := scanNote(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Sugar.Errorf("Failed to get note %s: %v", id, err)
		}
		return nil, store.MapError(err)
	}
	return &n, nil
}

// CreateForUser inserts note and appends its id to the owner's note_ids in
// one transaction.
func (r *NoteRepository) CreateForUser(ctx context.Context, note *model.Note) error {
	return store.RunInTx(ctx, r.DB, func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO notes (id, content, important, date, user_id) VALUES ($1, $2, $3, $4, $5)`,
			note.ID, note.Content, note.Important, note.Date, note.UserID)
		if err != nil {
			logger.Sugar.Errorf("Failed to create note: %v", err)
			return store.MapError(err)
		}

		owner := model.Owner{ID: note.UserID}
		err = tx.QueryRowContext(ctx,
			`UPDATE users SET note_ids = array_append(note_ids, $1) WHERE id = $2 RETURNING username, name`,
			note.ID, note.UserID).Scan(&owner.Username, &owner.Name)
		if err != nil {
			logger.Sugar.Errorf("Failed to link note %s to user %s: %v", note.ID, note.UserID, err)
			return store.MapError(err)
		}
		note.User = &owner
		return nil
	})
}

func (r *NoteRepository) Replace(ctx context.Context, note model.Note) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE notes SET content = $1, important = $2 WHERE id = $3`,
		note.Content, note.Important, note.ID)
	if err != nil {
		logger.Sugar.Errorf("Failed to update note %s: %v", note.ID, err)
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

func (r *NoteRepository) Delete(ctx context.Context, id string) (string, bool, error) {
	var ownerID string
	deleted := false
	err := store.RunInTx(ctx, r.DB, func(ctx context.Context, tx *sql.Tx) error {
		var userID sql.NullString
		err := tx.QueryRowContext(ctx, `DELETE FROM notes WHERE id = $1 RETURNING user_id`, id).Scan(&userID)
		if err == sql.ErrNoRows {
			return nil
		}
		if err != nil {
			logger.Sugar.Errorf("Failed to delete note %s: %v", id, err)
			return store.MapError(err)
		}
		deleted = true

		if !userID.Valid {
			return nil
		}
		ownerID = userID.String
		if _, err := tx.ExecContext(ctx,
			`UPDATE users SET note_ids = array_remove(note_ids, $1) WHERE id = $2`, id, userID.String); err != nil {
			logger.Sugar.Errorf("Failed to unlink note %s from user %s: %v", id, userID.String, err)
			return store.MapError(err)
		}
		return nil
	})
	if err != nil {
		return "", false, err
	}
	return ownerID, deleted, nil
}

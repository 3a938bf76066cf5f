package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrMalformedID = errors.New("malformatted id")
	ErrDuplicate   = errors.New("duplicate value")
)

const (
	uniqueViolation           = "23505"
	foreignKeyViolation       = "23503"
	invalidTextRepresentation = "22P02"
)

// MapError translates driver errors into the store's sentinel errors.
// The original error stays in the chain.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case uniqueViolation:
			return fmt.Errorf("%w: %s: %v", ErrDuplicate, pqErr.Constraint, err)
		case foreignKeyViolation:
			return fmt.Errorf("%w: %s: %v", ErrNotFound, pqErr.Constraint, err)
		case invalidTextRepresentation:
			return fmt.Errorf("%w: %v", ErrMalformedID, err)
		}
	}

	return err
}

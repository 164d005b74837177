package sqlite

import (
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"parley/internal/domain"
)

// translate maps driver errors onto the domain sentinels so callers never
// match on driver types. Unique and primary key violations become ErrConflict
// and foreign key violations ErrInvalidInput; any other driver fault surfaces
// as ErrUnavailable.
func translate(op string, err error) error {
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%s: %w", op, domain.ErrConflict)
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%s: %w", op, domain.ErrInvalidInput)
		}
	}
	return fmt.Errorf("%s: %w: %v", op, domain.ErrUnavailable, err)
}

package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"parley/internal/domain"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// translate maps driver errors onto the domain sentinels so callers never
// match on SQLSTATEs. Unique violations become ErrConflict and foreign key
// violations ErrInvalidInput; any other driver fault surfaces as
// ErrUnavailable.
func translate(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%s: %w", op, domain.ErrConflict)
		case codeForeignKeyViolation:
			return fmt.Errorf("%s: %w", op, domain.ErrInvalidInput)
		}
	}
	return fmt.Errorf("%s: %w: %v", op, domain.ErrUnavailable, err)
}

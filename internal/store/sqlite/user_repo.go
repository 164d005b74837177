package sqlite

import (
	"context"
	"database/sql"
	"time"

	"parley/internal/domain"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

var _ domain.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (username, hashed_password, created_at)
		VALUES (?, ?, ?)
	`
	res, err := r.db.ExecContext(ctx, query, u.Username, u.HashedPassword, u.CreatedAt.UnixNano())
	if err != nil {
		return translate("insert user", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return translate("last insert id", err)
	}
	u.ID = id
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT id, username, hashed_password, created_at FROM users WHERE id = ?`
	return r.scanUser(ctx, query, id)
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT id, username, hashed_password, created_at FROM users WHERE username = ?`
	return r.scanUser(ctx, query, username)
}

func (r *UserRepo) scanUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	u := &domain.User{}
	var nanos int64
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID,
		&u.Username,
		&u.HashedPassword,
		&nanos,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, translate("scan user", err)
	}
	u.CreatedAt = time.Unix(0, nanos).UTC()
	return u, nil
}

package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/aerayy/fithub-backend/internal/apperr"
	"github.com/aerayy/fithub-backend/internal/models"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// GetUser loads the account behind a token subject.
func (s *UserStore) GetUser(ctx context.Context, id int64) (models.User, error) {
	var (
		u    models.User
		name sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, full_name, role FROM users WHERE id = $1`, id).Scan(&u.ID, &u.Email, &name, &u.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, apperr.NotFound("user not found")
	}
	if err != nil {
		return models.User{}, mapErr("get user", err)
	}
	u.FullName = name.String
	return u, nil
}

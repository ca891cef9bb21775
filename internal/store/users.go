package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/atharvakonge/stocksim/internal/db"
	"github.com/atharvakonge/stocksim/internal/models"
)

// UserStore persists credentials.
type UserStore struct {
	db *db.DB
}

// NewUserStore creates a user store backed by d.
func NewUserStore(d *db.DB) *UserStore {
	return &UserStore{db: d}
}

// Create inserts a user. A duplicate username yields models.ErrUsernameTaken.
func (s *UserStore) Create(ctx context.Context, username, hash string, cash decimal.Decimal) (*models.User, error) {
	u := &models.User{
		Username:  username,
		Hash:      hash,
		Cash:      cash,
		CreatedAt: time.Now().UTC(),
	}
	err := s.db.QueryRowContext(ctx,
		s.db.Rebind("INSERT INTO users (username, hash, cash, created_at) VALUES (?, ?, ?, ?) RETURNING id"),
		u.Username, u.Hash, u.Cash, u.CreatedAt,
	).Scan(&u.ID)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, models.ErrUsernameTaken
		}
		return nil, fmt.Errorf("%w: create user: %w", models.ErrPersistence, err)
	}
	return u, nil
}

// ByUsername is an exact, case-sensitive lookup.
func (s *UserStore) ByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.one(ctx, "SELECT id, username, hash, cash, created_at FROM users WHERE username = ?", username)
}

func (s *UserStore) ByID(ctx context.Context, id int64) (*models.User, error) {
	return s.one(ctx, "SELECT id, username, hash, cash, created_at FROM users WHERE id = ?", id)
}

func (s *UserStore) one(ctx context.Context, query string, arg any) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, s.db.Rebind(query), arg).
		Scan(&u.ID, &u.Username, &u.Hash, &u.Cash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load user: %w", models.ErrPersistence, err)
	}
	return &u, nil
}

// Package auth registers users and checks their credentials.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/atharvakonge/stocksim/internal/metrics"
	"github.com/atharvakonge/stocksim/internal/models"
)

// UserRepository is the credential store the service needs.
type UserRepository interface {
	Create(ctx context.Context, username, hash string, cash decimal.Decimal) (*models.User, error)
	ByUsername(ctx context.Context, username string) (*models.User, error)
}

// Service implements registration and login.
type Service struct {
	users        UserRepository
	startingCash decimal.Decimal
	cost         int
}

// NewService creates an auth service that credits new accounts with startingCash.
func NewService(users UserRepository, startingCash decimal.Decimal) *Service {
	return &Service{users: users, startingCash: startingCash, cost: bcrypt.DefaultCost}
}

// WithCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (s *Service) WithCost(cost int) *Service {
	s.cost = cost
	return s
}

// Register creates an account credited with the starting cash.
func (s *Service) Register(ctx context.Context, username, password, confirmation string) (user *models.User, err error) {
	defer func() { metrics.AuthEventsTotal.WithLabelValues("register", outcome(err)).Inc() }()

	username = strings.TrimSpace(username)
	switch {
	case username == "":
		return nil, fmt.Errorf("%w: must provide username", models.ErrValidation)
	case password == "":
		return nil, fmt.Errorf("%w: must provide password", models.ErrValidation)
	case password != confirmation:
		return nil, fmt.Errorf("%w: passwords must match", models.ErrValidation)
	}

	// Checked up front for a clean error; the unique index still guards
	// the race between two registrations of the same name.
	if _, err := s.users.ByUsername(ctx, username); err == nil {
		return nil, models.ErrUsernameTaken
	} else if !errors.Is(err, models.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return s.users.Create(ctx, username, string(hash), s.startingCash)
}

// Login returns the user whose password matches. Unknown usernames and
// wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (user *models.User, err error) {
	defer func() { metrics.AuthEventsTotal.WithLabelValues("login", outcome(err)).Inc() }()

	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: must provide username", models.ErrAuthentication)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: must provide password", models.ErrAuthentication)
	}

	u, err := s.users.ByUsername(ctx, username)
	if errors.Is(err, models.ErrUserNotFound) {
		return nil, models.ErrAuthentication
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, models.ErrAuthentication
	}
	return u, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, models.ErrValidation):
		return "invalid_input"
	case errors.Is(err, models.ErrUsernameTaken):
		return "username_taken"
	case errors.Is(err, models.ErrAuthentication):
		return "bad_credentials"
	default:
		return "error"
	}
}

package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/atharvakonge/stocksim/internal/db"
	"github.com/atharvakonge/stocksim/internal/models"
	"github.com/atharvakonge/stocksim/internal/store"
)

type stubUserRepo struct {
	users  map[string]*models.User
	nextID int64
	err    error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*models.User)}
}

func (r *stubUserRepo) Create(_ context.Context, username, hash string, cash decimal.Decimal) (*models.User, error) {
	if _, exists := r.users[username]; exists {
		return nil, models.ErrUsernameTaken
	}
	r.nextID++
	u := &models.User{ID: r.nextID, Username: username, Hash: hash, Cash: cash}
	r.users[username] = u
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) ByUsername(_ context.Context, username string) (*models.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[username]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func newTestService(repo UserRepository) *Service {
	return NewService(repo, decimal.NewFromInt(10000)).WithCost(bcrypt.MinCost)
}

func TestRegister_Success(t *testing.T) {
	svc := newTestService(newStubUserRepo())

	u, err := svc.Register(context.Background(), "alice", "pass123", "pass123")
	require.NoError(t, err)
	assert.NotEqual(t, "pass123", u.Hash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte("pass123")))
	assert.True(t, u.Cash.Equal(decimal.NewFromInt(10000)))
}

func TestRegister_Validation(t *testing.T) {
	svc := newTestService(newStubUserRepo())
	ctx := context.Background()

	tests := []struct {
		name                             string
		username, password, confirmation string
	}{
		{"empty username", "", "pw", "pw"},
		{"blank username", "   ", "pw", "pw"},
		{"empty password", "bob", "", ""},
		{"mismatch", "bob", "pw", "wp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.username, tt.password, tt.confirmation)
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc := newTestService(newStubUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "pw", "pw")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "alice", "other", "other")
	assert.ErrorIs(t, err, models.ErrUsernameTaken)
}

func TestRegister_StoreFailure(t *testing.T) {
	repo := newStubUserRepo()
	repo.err = errors.New("db down")
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), "alice", "pw", "pw")
	assert.EqualError(t, err, "db down")
}

func TestLogin(t *testing.T) {
	svc := newTestService(newStubUserRepo())
	ctx := context.Background()
	registered, err := svc.Register(ctx, "alice", "pass123", "pass123")
	require.NoError(t, err)

	u, err := svc.Login(ctx, "alice", "pass123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)

	_, err = svc.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, models.ErrAuthentication)

	_, err = svc.Login(ctx, "nobody", "pass123")
	assert.ErrorIs(t, err, models.ErrAuthentication)

	_, err = svc.Login(ctx, "ALICE", "pass123")
	assert.ErrorIs(t, err, models.ErrAuthentication, "usernames are case-sensitive")

	// Missing fields are refused like bad credentials, with their own message.
	_, err = svc.Login(ctx, "", "pass123")
	assert.ErrorIs(t, err, models.ErrAuthentication)
	assert.EqualError(t, err, "invalid username and/or password: must provide username")
	_, err = svc.Login(ctx, "alice", "")
	assert.ErrorIs(t, err, models.ErrAuthentication)
	assert.EqualError(t, err, "invalid username and/or password: must provide password")
}

func TestRegisterAndLoginAgainstDatabase(t *testing.T) {
	d := db.SetupTestDB(t)
	svc := newTestService(store.NewUserStore(d))
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "pw", "pw")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "alice", "pw", "pw")
	assert.ErrorIs(t, err, models.ErrUsernameTaken)

	u, err := svc.Login(ctx, "alice", "pw")
	require.NoError(t, err)
	assert.True(t, u.Cash.Equal(decimal.NewFromInt(10000)))
}

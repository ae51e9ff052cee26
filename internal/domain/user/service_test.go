package user

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, login, passwordHash string) (int, error) {
	args := m.Called(ctx, login, passwordHash)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) FindByLogin(ctx context.Context, login string) (User, error) {
	args := m.Called(ctx, login)
	return args.Get(0).(User), args.Error(1)
}

func newService(repo Repository) *Service {
	return NewService(repo, NewCredentialsValidator(), slog.Default())
}

func TestService_Register(t *testing.T) {
	t.Run("hashes the password before storing", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newService(repo)

		repo.On("Create", mock.Anything, "resident42", mock.MatchedBy(func(hash string) bool {
			return bcrypt.CompareHashAndPassword([]byte(hash), []byte("sunny street 9")) == nil
		})).Return(123, nil)

		userID, err := svc.Register(context.Background(), "resident42", "sunny street 9")
		require.NoError(t, err)
		assert.Equal(t, 123, userID)
		repo.AssertExpectations(t)
	})

	t.Run("rejects weak credentials before the repo", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newService(repo)

		_, err := svc.Register(context.Background(), "resident42", "short")
		assert.ErrorIs(t, err, ErrInvalidInput)
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("propagates repository errors", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newService(repo)

		repo.On("Create", mock.Anything, "resident42", mock.AnythingOfType("string")).
			Return(0, errors.New("duplicate login"))

		_, err := svc.Register(context.Background(), "resident42", "sunny street 9")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate login")
	})
}

func TestService_Authenticate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("sunny street 9"), bcrypt.DefaultCost)
	require.NoError(t, err)

	stored := User{ID: 123, Login: "resident42", Password: string(hash)}

	t.Run("success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newService(repo)

		repo.On("FindByLogin", mock.Anything, "resident42").Return(stored, nil)

		u, err := svc.Authenticate(context.Background(), "resident42", "sunny street 9")
		require.NoError(t, err)
		assert.Equal(t, stored, u)
	})

	t.Run("unknown user", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newService(repo)

		repo.On("FindByLogin", mock.Anything, "ghost").Return(User{}, ErrNotFound)

		_, err := svc.Authenticate(context.Background(), "ghost", "whatever1")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newService(repo)

		repo.On("FindByLogin", mock.Anything, "resident42").Return(stored, nil)

		_, err := svc.Authenticate(context.Background(), "resident42", "guess again")
		assert.ErrorIs(t, err, ErrInvalidAuth)
	})
}

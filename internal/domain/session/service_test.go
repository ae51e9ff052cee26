package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, userID int, tokenHash string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, tokenHash, expiresAt)
	return args.Error(0)
}

func (m *MockRepository) Validate(ctx context.Context, tokenHash string) (int, error) {
	args := m.Called(ctx, tokenHash)
	return args.Int(0), args.Error(1)
}

func TestService_Create(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, slog.Default())

	var storedHash string
	repo.On("Create", mock.Anything, 123, mock.MatchedBy(func(hash string) bool {
		storedHash = hash
		return hash != ""
	}), mock.MatchedBy(func(expiresAt time.Time) bool {
		return expiresAt.After(time.Now().Add(TTL - time.Minute))
	})).Return(nil)

	token, err := service.Create(context.Background(), 123)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// The raw token never reaches the repository, only its hash.
	sum := sha256.Sum256([]byte(token))
	assert.Equal(t, hex.EncodeToString(sum[:]), storedHash)
	repo.AssertExpectations(t)
}

func TestService_Create_RepositoryError(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, slog.Default())

	repo.On("Create", mock.Anything, 123, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
		Return(errors.New("database error"))

	_, err := service.Create(context.Background(), 123)
	assert.ErrorContains(t, err, "database error")
}

func TestService_Validate(t *testing.T) {
	t.Run("valid token", func(t *testing.T) {
		repo := new(MockRepository)
		service := NewService(repo, slog.Default())

		token := "some-opaque-token"
		sum := sha256.Sum256([]byte(token))

		repo.On("Validate", mock.Anything, hex.EncodeToString(sum[:])).Return(77, nil)

		userID, err := service.Validate(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, 77, userID)
	})

	t.Run("unknown or expired token", func(t *testing.T) {
		repo := new(MockRepository)
		service := NewService(repo, slog.Default())

		repo.On("Validate", mock.Anything, mock.AnythingOfType("string")).
			Return(0, errors.New("no rows"))

		_, err := service.Validate(context.Background(), "stale")
		assert.ErrorIs(t, err, ErrInvalidSession)
	})
}

package report

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, userID int, rep Report) error {
	args := m.Called(ctx, userID, rep)
	return args.Error(0)
}

func (m *MockRepository) List(ctx context.Context, userID int) ([]Report, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Report), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, userID int, reportID string) error {
	args := m.Called(ctx, userID, reportID)
	return args.Error(0)
}

func (m *MockRepository) Stats(ctx context.Context, userID int) (StatsResponse, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(StatsResponse), args.Error(1)
}

func newTestService(repo Repository) Servicer {
	return NewService(repo, slog.Default())
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns server id and keeps client timestamp", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo)

		repo.On("Create", mock.Anything, 7, mock.MatchedBy(func(r Report) bool {
			return !r.ID.IsLocal() && r.Timestamp == "2026-01-02T15:04:05Z"
		})).Return(nil)

		id, err := svc.Create(ctx, 7, CreateRequest{
			Description: "tire dump by the river",
			Location:    Coordinates{Latitude: 1, Longitude: 2},
			Timestamp:   "2026-01-02T15:04:05Z",
		})

		require.NoError(t, err)
		_, parseErr := uuid.Parse(id)
		assert.NoError(t, parseErr)
		repo.AssertExpectations(t)
	})

	t.Run("rejects invalid submission before touching the repo", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo)

		_, err := svc.Create(ctx, 7, CreateRequest{
			Description: " ",
			Location:    Coordinates{Latitude: 1, Longitude: 2},
		})

		assert.ErrorIs(t, err, ErrEmptyDescription)
		repo.AssertNotCalled(t, "Create")
	})
}

func TestService_List(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo)

	repo.On("List", mock.Anything, 7).Return(nil, nil)

	resp, err := svc.List(context.Background(), 7)
	require.NoError(t, err)
	assert.NotNil(t, resp.Reports)
	assert.Equal(t, 0, resp.Total)
}

func TestService_Delete(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo)

	repo.On("Delete", mock.Anything, 7, "missing").Return(ErrNotFound)

	err := svc.Delete(context.Background(), 7, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

// Service holds the server-side business logic for reports.
type Service struct {
	repo Repository
	log  *slog.Logger
}

type Servicer interface {
	Create(ctx context.Context, userID int, req CreateRequest) (string, error)
	List(ctx context.Context, userID int) (ListResponse, error)
	Delete(ctx context.Context, userID int, reportID string) error
	GetStats(ctx context.Context, userID int) (StatsResponse, error)
}

func NewService(repo Repository, log *slog.Logger) Servicer {
	return &Service{
		repo: repo,
		log:  log.With("component", "report_service"),
	}
}

// Create validates the submission, assigns a server ID and stores it.
// The returned ID replaces the client's temporary one.
func (s *Service) Create(ctx context.Context, userID int, req CreateRequest) (string, error) {
	draft := Draft{
		Description:   req.Description,
		Photos:        req.Photos,
		Location:      req.Location,
		NoiseLevel:    req.NoiseLevel,
		LightLevel:    req.LightLevel,
		Accelerometer: req.Accelerometer,
	}
	if err := draft.Validate(); err != nil {
		return "", err
	}

	timestamp := req.Timestamp
	if timestamp == "" {
		timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	rep := Report{
		ID:            RemoteID(uuid.NewString()),
		Description:   req.Description,
		Photos:        req.Photos,
		Location:      req.Location,
		Timestamp:     timestamp,
		NoiseLevel:    req.NoiseLevel,
		LightLevel:    req.LightLevel,
		Accelerometer: req.Accelerometer,
	}

	if err := s.repo.Create(ctx, userID, rep); err != nil {
		s.log.Error("failed to create report", "user_id", userID, "error", err)
		return "", fmt.Errorf("failed to create report: %w", err)
	}

	return rep.ID.String(), nil
}

func (s *Service) List(ctx context.Context, userID int) (ListResponse, error) {
	reports, err := s.repo.List(ctx, userID)
	if err != nil {
		s.log.Error("failed to list reports", "user_id", userID, "error", err)
		return ListResponse{}, fmt.Errorf("failed to list reports: %w", err)
	}

	if reports == nil {
		reports = []Report{}
	}

	return ListResponse{
		Reports: reports,
		Total:   len(reports),
	}, nil
}

func (s *Service) Delete(ctx context.Context, userID int, reportID string) error {
	if err := s.repo.Delete(ctx, userID, reportID); err != nil {
		s.log.Error("failed to delete report", "user_id", userID, "report_id", reportID, "error", err)
		return err
	}
	return nil
}

func (s *Service) GetStats(ctx context.Context, userID int) (StatsResponse, error) {
	stats, err := s.repo.Stats(ctx, userID)
	if err != nil {
		s.log.Error("failed to get report stats", "user_id", userID, "error", err)
		return StatsResponse{}, fmt.Errorf("failed to get report stats: %w", err)
	}
	return stats, nil
}

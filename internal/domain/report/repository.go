package report

import "context"

type Repository interface {
	Create(ctx context.Context, userID int, rep Report) error
	List(ctx context.Context, userID int) ([]Report, error)
	Delete(ctx context.Context, userID int, reportID string) error
	Stats(ctx context.Context, userID int) (StatsResponse, error)
}

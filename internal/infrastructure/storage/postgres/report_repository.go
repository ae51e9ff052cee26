package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cleanspot/internal/domain/report"

	"golang.org/x/exp/slog"
)

type ReportRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewReportRepository(db *Storage, log *slog.Logger) *ReportRepository {
	return &ReportRepository{
		db:  db,
		log: log,
	}
}

func (r *ReportRepository) Create(ctx context.Context, userID int, rep report.Report) error {
	capturedAt, err := time.Parse(time.RFC3339, rep.Timestamp)
	if err != nil {
		return fmt.Errorf("invalid capture timestamp: %w", err)
	}

	photos, err := json.Marshal(rep.Photos)
	if err != nil {
		return fmt.Errorf("serialize photos: %w", err)
	}

	var accelX, accelY, accelZ *float64
	if rep.Accelerometer != nil {
		accelX = &rep.Accelerometer.X
		accelY = &rep.Accelerometer.Y
		accelZ = &rep.Accelerometer.Z
	}

	_, err = r.db.Pool().Exec(ctx, `
		INSERT INTO reports (id, user_id, description, photos, latitude, longitude,
		                     captured_at, noise_level, light_level,
		                     accel_x, accel_y, accel_z)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, rep.ID.String(), userID, rep.Description, photos,
		rep.Location.Latitude, rep.Location.Longitude, capturedAt,
		rep.NoiseLevel, rep.LightLevel, accelX, accelY, accelZ)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

func (r *ReportRepository) List(ctx context.Context, userID int) ([]report.Report, error) {
	rows, err := r.db.Pool().Query(ctx, `
		SELECT id, description, photos, latitude, longitude, captured_at,
		       noise_level, light_level, accel_x, accel_y, accel_z
		FROM reports
		WHERE user_id = $1
		ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	var reports []report.Report
	for rows.Next() {
		var (
			id                     string
			photosRaw              []byte
			capturedAt             time.Time
			rep                    report.Report
			accelX, accelY, accelZ *float64
		)

		err := rows.Scan(&id, &rep.Description, &photosRaw,
			&rep.Location.Latitude, &rep.Location.Longitude, &capturedAt,
			&rep.NoiseLevel, &rep.LightLevel, &accelX, &accelY, &accelZ)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}

		rep.ID = report.RemoteID(id)
		rep.Timestamp = capturedAt.UTC().Format(time.RFC3339)
		if err := json.Unmarshal(photosRaw, &rep.Photos); err != nil {
			return nil, fmt.Errorf("parse photos: %w", err)
		}
		if accelX != nil && accelY != nil && accelZ != nil {
			rep.Accelerometer = &report.AccelerometerReading{X: *accelX, Y: *accelY, Z: *accelZ}
		}

		reports = append(reports, rep)
	}
	return reports, rows.Err()
}

func (r *ReportRepository) Delete(ctx context.Context, userID int, reportID string) error {
	tag, err := r.db.Pool().Exec(ctx,
		`DELETE FROM reports WHERE id = $1 AND user_id = $2`, reportID, userID)
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return report.ErrNotFound
	}
	return nil
}

func (r *ReportRepository) Stats(ctx context.Context, userID int) (report.StatsResponse, error) {
	var (
		stats       report.StatsResponse
		first, last *time.Time
	)

	err := r.db.Pool().QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(jsonb_array_length(photos)), 0),
		       MIN(captured_at),
		       MAX(captured_at)
		FROM reports
		WHERE user_id = $1
	`, userID).Scan(&stats.TotalReports, &stats.TotalPhotos, &first, &last)
	if err != nil {
		return report.StatsResponse{}, fmt.Errorf("report stats: %w", err)
	}

	if first != nil {
		stats.FirstReport = first.UTC().Format(time.RFC3339)
	}
	if last != nil {
		stats.LastReport = last.UTC().Format(time.RFC3339)
	}
	return stats, nil
}

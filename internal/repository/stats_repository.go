package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/studsovet/selection_api/internal/model"
)

type StatsRepository struct {
	pool *pgxpool.Pool
}

func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{pool: pool}
}

// CountSubmissions считает отправленные анкеты факультета
func (r *StatsRepository) CountSubmissions(ctx context.Context, facultyID int64) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM questionnaires WHERE faculty_id = $1`, facultyID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count submissions: %w", err)
	}
	return count, nil
}

// CountProgressByStatus группирует прогресс участников этапа по статусам
func (r *StatsRepository) CountProgressByStatus(ctx context.Context, facultyID int64, stage model.StageType) (map[model.SubmissionStatus]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT status, COUNT(*)
		FROM user_progress
		WHERE faculty_id = $1 AND stage_type = $2
		GROUP BY status
	`, facultyID, stage)
	if err != nil {
		return nil, fmt.Errorf("count progress by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.SubmissionStatus]int)
	for rows.Next() {
		var (
			status model.SubmissionStatus
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[status] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status counts: %w", err)
	}

	return counts, nil
}

// DailySubmissions считает анкеты по дням начиная с since
func (r *StatsRepository) DailySubmissions(ctx context.Context, facultyID int64, since time.Time) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DATE(submitted_at), COUNT(*)
		FROM questionnaires
		WHERE faculty_id = $1 AND submitted_at >= $2
		GROUP BY DATE(submitted_at)
		ORDER BY DATE(submitted_at)
	`, facultyID, since)
	if err != nil {
		return nil, fmt.Errorf("daily submissions: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			day   time.Time
			count int
		)
		if err := rows.Scan(&day, &count); err != nil {
			return nil, fmt.Errorf("scan daily count: %w", err)
		}
		counts[day.Format("2006-01-02")] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily counts: %w", err)
	}

	return counts, nil
}

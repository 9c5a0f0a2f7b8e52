package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/studsovet/selection_api/internal/model"
)

type VideoRepository struct {
	pool *pgxpool.Pool
}

func NewVideoRepository(pool *pgxpool.Pool) *VideoRepository {
	return &VideoRepository{pool: pool}
}

// Upsert сохраняет домашнее видео участника.
// Повторная отправка заменяет предыдущее видео и сбрасывает статус.
func (r *VideoRepository) Upsert(ctx context.Context, video *model.HomeVideo) error {
	query := `
		INSERT INTO home_videos (user_id, faculty_id, video_file_id, status)
		VALUES ($1, $2, $3, 'submitted')
		ON CONFLICT (user_id, faculty_id) DO UPDATE
		SET video_file_id = EXCLUDED.video_file_id, status = 'submitted', submitted_at = NOW()
		RETURNING id, status, submitted_at, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		video.UserID,
		video.FacultyID,
		video.VideoFileID,
	).Scan(&video.ID, &video.Status, &video.SubmittedAt, &video.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert home video: %w", err)
	}

	return nil
}

// GetByUser получает видео участника для факультета
func (r *VideoRepository) GetByUser(ctx context.Context, userID, facultyID int64) (*model.HomeVideo, error) {
	query := `
		SELECT id, user_id, faculty_id, video_file_id, status, submitted_at, created_at
		FROM home_videos
		WHERE user_id = $1 AND faculty_id = $2
	`

	var v model.HomeVideo
	err := r.pool.QueryRow(ctx, query, userID, facultyID).Scan(
		&v.ID, &v.UserID, &v.FacultyID, &v.VideoFileID, &v.Status, &v.SubmittedAt, &v.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get home video: %w", err)
	}

	return &v, nil
}

// SetStatus обновляет статус проверки видео
func (r *VideoRepository) SetStatus(ctx context.Context, id int64, status model.VideoStatus) error {
	result, err := r.pool.Exec(ctx, `UPDATE home_videos SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("set video status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("home video not found")
	}

	return nil
}

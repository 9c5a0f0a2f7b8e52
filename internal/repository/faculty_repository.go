package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/studsovet/selection_api/internal/model"
)

type FacultyRepository struct {
	pool *pgxpool.Pool
}

func NewFacultyRepository(pool *pgxpool.Pool) *FacultyRepository {
	return &FacultyRepository{pool: pool}
}

const facultyColumns = `id, name, description, current_stage, stage_status, stage_opened_at,
	video_chat_id, video_submission_open, created_at`

func scanFaculty(row pgx.Row) (*model.Faculty, error) {
	var f model.Faculty
	err := row.Scan(
		&f.ID,
		&f.Name,
		&f.Description,
		&f.CurrentStage,
		&f.StageStatus,
		&f.StageOpenedAt,
		&f.VideoChatID,
		&f.VideoSubmissionOpen,
		&f.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// Create создаёт новый факультет
func (r *FacultyRepository) Create(ctx context.Context, faculty *model.Faculty) error {
	query := `
		INSERT INTO faculty (name, description)
		VALUES ($1, $2)
		RETURNING id, current_stage, stage_status, created_at
	`

	err := r.pool.QueryRow(ctx, query, faculty.Name, faculty.Description).Scan(
		&faculty.ID,
		&faculty.CurrentStage,
		&faculty.StageStatus,
		&faculty.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create faculty: %w", err)
	}

	return nil
}

// GetByID получает факультет по ID
func (r *FacultyRepository) GetByID(ctx context.Context, id int64) (*model.Faculty, error) {
	query := `SELECT ` + facultyColumns + ` FROM faculty WHERE id = $1`

	faculty, err := scanFaculty(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get faculty by id: %w", err)
	}

	return faculty, nil
}

// List получает все факультеты
func (r *FacultyRepository) List(ctx context.Context) ([]*model.Faculty, error) {
	query := `SELECT ` + facultyColumns + ` FROM faculty ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list faculties: %w", err)
	}
	defer rows.Close()

	var faculties []*model.Faculty
	for rows.Next() {
		faculty, err := scanFaculty(rows)
		if err != nil {
			return nil, fmt.Errorf("scan faculty: %w", err)
		}
		faculties = append(faculties, faculty)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate faculties: %w", err)
	}

	return faculties, nil
}

// UpdateStage сохраняет состояние этапа факультета
func (r *FacultyRepository) UpdateStage(ctx context.Context, faculty *model.Faculty) error {
	query := `
		UPDATE faculty
		SET current_stage = $1, stage_status = $2, stage_opened_at = $3
		WHERE id = $4
	`

	result, err := r.pool.Exec(ctx, query,
		faculty.CurrentStage,
		faculty.StageStatus,
		faculty.StageOpenedAt,
		faculty.ID,
	)
	if err != nil {
		return fmt.Errorf("update faculty stage: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("faculty not found")
	}

	return nil
}

// SetVideoSubmissionOpen открывает или закрывает приём видео
func (r *FacultyRepository) SetVideoSubmissionOpen(ctx context.Context, facultyID int64, open bool) error {
	query := `UPDATE faculty SET video_submission_open = $1 WHERE id = $2`

	result, err := r.pool.Exec(ctx, query, open, facultyID)
	if err != nil {
		return fmt.Errorf("set video submission open: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("faculty not found")
	}

	return nil
}

// SetVideoChatID настраивает чат для домашних видео
func (r *FacultyRepository) SetVideoChatID(ctx context.Context, facultyID int64, chatID *int64) error {
	query := `UPDATE faculty SET video_chat_id = $1 WHERE id = $2`

	result, err := r.pool.Exec(ctx, query, chatID, facultyID)
	if err != nil {
		return fmt.Errorf("set video chat id: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("faculty not found")
	}

	return nil
}

package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/studsovet/selection_api/internal/model"
)

type TemplateRepository struct {
	pool *pgxpool.Pool
}

func NewTemplateRepository(pool *pgxpool.Pool) *TemplateRepository {
	return &TemplateRepository{pool: pool}
}

func scanTemplate(row pgx.Row) (*model.StageTemplate, error) {
	var (
		t            model.StageTemplate
		rawQuestions []byte
	)
	err := row.Scan(
		&t.ID,
		&t.FacultyID,
		&t.StageType,
		&t.Version,
		&rawQuestions,
		&t.IsActive,
		&t.CreatedBy,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(rawQuestions, &t.Questions); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	return &t, nil
}

// Create создаёт шаблон, деактивируя предыдущий активный той же пары
// (faculty_id, stage_type) в одной транзакции.
func (r *TemplateRepository) Create(ctx context.Context, template *model.StageTemplate) error {
	questions, err := json.Marshal(template.Questions)
	if err != nil {
		return fmt.Errorf("encode questions: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		UPDATE stage_templates SET is_active = FALSE
		WHERE faculty_id = $1 AND stage_type = $2 AND is_active
	`, template.FacultyID, template.StageType); err != nil {
		return fmt.Errorf("deactivate previous template: %w", err)
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO stage_templates (faculty_id, stage_type, version, questions, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, is_active, created_at
	`,
		template.FacultyID,
		template.StageType,
		template.Version,
		questions,
		template.CreatedBy,
	).Scan(&template.ID, &template.IsActive, &template.CreatedAt)
	if err != nil {
		return fmt.Errorf("create stage template: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// GetActive получает активный шаблон факультета для этапа
func (r *TemplateRepository) GetActive(ctx context.Context, facultyID int64, stage model.StageType) (*model.StageTemplate, error) {
	query := `
		SELECT id, faculty_id, stage_type, version, questions, is_active, created_by, created_at
		FROM stage_templates
		WHERE faculty_id = $1 AND stage_type = $2 AND is_active
	`

	template, err := scanTemplate(r.pool.QueryRow(ctx, query, facultyID, stage))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get active template: %w", err)
	}

	return template, nil
}

// GetByID получает шаблон по ID
func (r *TemplateRepository) GetByID(ctx context.Context, id int64) (*model.StageTemplate, error) {
	query := `
		SELECT id, faculty_id, stage_type, version, questions, is_active, created_by, created_at
		FROM stage_templates
		WHERE id = $1
	`

	template, err := scanTemplate(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get template by id: %w", err)
	}

	return template, nil
}

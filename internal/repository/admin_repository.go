package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/studsovet/selection_api/internal/model"
)

type AdminRepository struct {
	pool *pgxpool.Pool
}

func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{pool: pool}
}

const adminColumns = `id, telegram_id, username, full_name, faculty_id, role, added_by, is_active, created_at`

func scanAdmin(row pgx.Row) (*model.Administrator, error) {
	var a model.Administrator
	err := row.Scan(
		&a.ID,
		&a.TelegramID,
		&a.Username,
		&a.FullName,
		&a.FacultyID,
		&a.Role,
		&a.AddedBy,
		&a.IsActive,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create создаёт администратора
func (r *AdminRepository) Create(ctx context.Context, admin *model.Administrator) error {
	query := `
		INSERT INTO administrators (telegram_id, username, full_name, faculty_id, role, added_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, is_active, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		admin.TelegramID,
		admin.Username,
		admin.FullName,
		admin.FacultyID,
		admin.Role,
		admin.AddedBy,
	).Scan(&admin.ID, &admin.IsActive, &admin.CreatedAt)
	if err != nil {
		return fmt.Errorf("create administrator: %w", err)
	}

	return nil
}

// GetActiveByTelegram получает активного админа факультета по telegram_id
func (r *AdminRepository) GetActiveByTelegram(ctx context.Context, telegramID, facultyID int64) (*model.Administrator, error) {
	query := `
		SELECT ` + adminColumns + `
		FROM administrators
		WHERE telegram_id = $1 AND faculty_id = $2 AND is_active
	`

	admin, err := scanAdmin(r.pool.QueryRow(ctx, query, telegramID, facultyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get administrator: %w", err)
	}

	return admin, nil
}

// GetByID получает администратора по ID
func (r *AdminRepository) GetByID(ctx context.Context, id int64) (*model.Administrator, error) {
	query := `SELECT ` + adminColumns + ` FROM administrators WHERE id = $1`

	admin, err := scanAdmin(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get administrator by id: %w", err)
	}

	return admin, nil
}

// ListByFaculty получает активных администраторов факультета
func (r *AdminRepository) ListByFaculty(ctx context.Context, facultyID int64) ([]*model.Administrator, error) {
	query := `
		SELECT ` + adminColumns + `
		FROM administrators
		WHERE faculty_id = $1 AND is_active
		ORDER BY role, created_at
	`

	rows, err := r.pool.Query(ctx, query, facultyID)
	if err != nil {
		return nil, fmt.Errorf("list administrators: %w", err)
	}
	defer rows.Close()

	var admins []*model.Administrator
	for rows.Next() {
		admin, err := scanAdmin(rows)
		if err != nil {
			return nil, fmt.Errorf("scan administrator: %w", err)
		}
		admins = append(admins, admin)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate administrators: %w", err)
	}

	return admins, nil
}

// Deactivate отключает администратора, сохраняя историю
func (r *AdminRepository) Deactivate(ctx context.Context, id int64) error {
	query := `UPDATE administrators SET is_active = FALSE WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deactivate administrator: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("administrator not found")
	}

	return nil
}

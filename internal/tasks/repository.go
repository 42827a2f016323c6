package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gestio-erp/gestio-erp/internal/shared"
)

type Repository interface {
	ListByCompany(ctx context.Context, companyID int64, status Status) ([]Task, error)
	Get(ctx context.Context, id int64) (Task, error)
	Create(ctx context.Context, task Task) (Task, error)
	Update(ctx context.Context, id int64, task Task) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const taskColumns = `id, company_id, title, description, status, assigned_to, due_at, created_at, updated_at`

func (r *repository) ListByCompany(ctx context.Context, companyID int64, status Status) ([]Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE company_id = $1`
	args := []any{companyID}
	if status != "" {
		args = append(args, status)
		query += ` AND status = $2`
	}
	query += ` ORDER BY due_at NULLS LAST, created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("tasks: list: %w", err)
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Task, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	task, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Task{}, shared.ErrNotFound
	}
	return task, err
}

func (r *repository) Create(ctx context.Context, task Task) (Task, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO tasks (company_id, title, description, status, assigned_to, due_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+taskColumns,
		task.CompanyID, task.Title, task.Description, task.Status, task.AssignedTo, task.DueAt)
	return scanTask(row)
}

func (r *repository) Update(ctx context.Context, id int64, task Task) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE tasks
		SET title = $2, description = $3, status = $4, assigned_to = $5, due_at = $6, updated_at = now()
		WHERE id = $1`,
		id, task.Title, task.Description, task.Status, task.AssignedTo, task.DueAt)
	if err != nil {
		return fmt.Errorf("tasks: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("tasks: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanTask(row pgx.Row) (Task, error) {
	var t Task
	err := row.Scan(&t.ID, &t.CompanyID, &t.Title, &t.Description, &t.Status, &t.AssignedTo, &t.DueAt, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

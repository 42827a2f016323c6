package partners

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	mdshared "github.com/gestio-erp/gestio-erp/internal/masterdata/shared"
	"github.com/gestio-erp/gestio-erp/internal/shared"
)

type Repository interface {
	List(ctx context.Context, filters mdshared.ListFilters) ([]Partner, int, error)
	Get(ctx context.Context, id int64) (Partner, error)
	Create(ctx context.Context, partner Partner) (Partner, error)
	Update(ctx context.Context, id int64, partner Partner) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const partnerColumns = `id, company_id, code, name, cnpj, email, phone, address, kind, created_at, updated_at`

func (r *repository) List(ctx context.Context, filters mdshared.ListFilters) ([]Partner, int, error) {
	query := `SELECT ` + partnerColumns + ` FROM partners WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM partners WHERE 1=1`
	args := []any{}
	countArgs := []any{}

	if filters.CompanyID != nil {
		args = append(args, *filters.CompanyID)
		countArgs = append(countArgs, *filters.CompanyID)
		n := strconv.Itoa(len(args))
		query += ` AND company_id = $` + n
		countQuery += ` AND company_id = $` + strconv.Itoa(len(countArgs))
	}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		countArgs = append(countArgs, "%"+filters.Search+"%")
		n := strconv.Itoa(len(args))
		query += ` AND (name ILIKE $` + n + ` OR code ILIKE $` + n + `)`
		cn := strconv.Itoa(len(countArgs))
		countQuery += ` AND (name ILIKE $` + cn + ` OR code ILIKE $` + cn + `)`
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("partners: count: %w", err)
	}

	query += ` ORDER BY name ASC`
	if filters.Limit > 0 {
		args = append(args, filters.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
		offset := filters.Offset()
		if offset < 0 {
			offset = 0
		}
		args = append(args, offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("partners: list: %w", err)
	}
	defer rows.Close()

	var partners []Partner
	for rows.Next() {
		p, err := scanPartner(rows)
		if err != nil {
			return nil, 0, err
		}
		partners = append(partners, p)
	}
	return partners, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Partner, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+partnerColumns+` FROM partners WHERE id = $1`, id)
	p, err := scanPartner(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Partner{}, shared.ErrNotFound
	}
	return p, err
}

func (r *repository) Create(ctx context.Context, partner Partner) (Partner, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO partners (company_id, code, name, cnpj, email, phone, address, kind)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+partnerColumns,
		partner.CompanyID, partner.Code, partner.Name, partner.CNPJ,
		partner.Email, partner.Phone, partner.Address, partner.Kind)
	return scanPartner(row)
}

func (r *repository) Update(ctx context.Context, id int64, partner Partner) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE partners
		SET code = $2, name = $3, cnpj = $4, email = $5, phone = $6, address = $7, kind = $8, updated_at = now()
		WHERE id = $1`,
		id, partner.Code, partner.Name, partner.CNPJ, partner.Email, partner.Phone, partner.Address, partner.Kind)
	if err != nil {
		return fmt.Errorf("partners: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM partners WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("partners: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanPartner(row pgx.Row) (Partner, error) {
	var p Partner
	err := row.Scan(&p.ID, &p.CompanyID, &p.Code, &p.Name, &p.CNPJ, &p.Email, &p.Phone, &p.Address, &p.Kind, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

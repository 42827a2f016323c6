package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/gestio-erp/gestio-erp/internal/shared"
)

type Repository interface {
	ListByCompany(ctx context.Context, companyID int64) ([]Account, error)
	Get(ctx context.Context, id uuid.UUID) (Account, error)
	Create(ctx context.Context, account Account) (Account, error)
	Update(ctx context.Context, account Account) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) ListByCompany(ctx context.Context, companyID int64) ([]Account, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, company_id, name, bank_name, number, opening_balance::text, created_at, updated_at
		FROM bank_accounts WHERE company_id = $1 ORDER BY name`, companyID)
	if err != nil {
		return nil, fmt.Errorf("accounts: list: %w", err)
	}
	defer rows.Close()

	var out []Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, acc)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (Account, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, company_id, name, bank_name, number, opening_balance::text, created_at, updated_at
		FROM bank_accounts WHERE id = $1`, id)
	acc, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, shared.ErrNotFound
	}
	return acc, err
}

func (r *repository) Create(ctx context.Context, account Account) (Account, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO bank_accounts (id, company_id, name, bank_name, number, opening_balance)
		VALUES ($1, $2, $3, $4, $5, $6::numeric)
		RETURNING id, company_id, name, bank_name, number, opening_balance::text, created_at, updated_at`,
		account.ID, account.CompanyID, account.Name, account.BankName, account.Number, account.OpeningBalance.String())
	return scanAccount(row)
}

func (r *repository) Update(ctx context.Context, account Account) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE bank_accounts
		SET name = $2, bank_name = $3, number = $4, opening_balance = $5::numeric, updated_at = now()
		WHERE id = $1`,
		account.ID, account.Name, account.BankName, account.Number, account.OpeningBalance.String())
	if err != nil {
		return fmt.Errorf("accounts: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM bank_accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("accounts: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanAccount(row pgx.Row) (Account, error) {
	var (
		acc Account
		raw string
	)
	if err := row.Scan(&acc.ID, &acc.CompanyID, &acc.Name, &acc.BankName, &acc.Number, &raw, &acc.CreatedAt, &acc.UpdatedAt); err != nil {
		return Account{}, err
	}
	opening, err := decimal.NewFromString(raw)
	if err != nil {
		return Account{}, fmt.Errorf("accounts: parse opening balance: %w", err)
	}
	acc.OpeningBalance = opening
	return acc, nil
}

package transactions

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
	ListByCompany(ctx context.Context, companyID int64, filter ListFilter) ([]Transaction, error)
	// ListPaidWithAccount returns only settled, account-bound entries. The
	// balance aggregator re-applies the same filter, so callers may also feed
	// it unfiltered listings.
	ListPaidWithAccount(ctx context.Context, companyID int64) ([]Transaction, error)
	Get(ctx context.Context, id uuid.UUID) (Transaction, error)
	Create(ctx context.Context, txn Transaction) (Transaction, error)
	Update(ctx context.Context, txn Transaction) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ListFilter narrows company listings.
type ListFilter struct {
	Status    Status
	Kind      Kind
	AccountID *uuid.UUID
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const txnColumns = `id, company_id, account_id, kind, amount::text, status, reconciled, description, due_at, paid_at, created_at, updated_at`

func (r *repository) ListByCompany(ctx context.Context, companyID int64, filter ListFilter) ([]Transaction, error) {
	query := `SELECT ` + txnColumns + ` FROM ledger_transactions WHERE company_id = $1`
	args := []any{companyID}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Kind != "" {
		args = append(args, filter.Kind)
		query += fmt.Sprintf(" AND kind = $%d", len(args))
	}
	if filter.AccountID != nil {
		args = append(args, *filter.AccountID)
		query += fmt.Sprintf(" AND account_id = $%d", len(args))
	}
	query += " ORDER BY due_at DESC, created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("transactions: list: %w", err)
	}
	defer rows.Close()
	return collect(rows)
}

func (r *repository) ListPaidWithAccount(ctx context.Context, companyID int64) ([]Transaction, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+txnColumns+`
		FROM ledger_transactions
		WHERE company_id = $1 AND status = $2 AND account_id IS NOT NULL`,
		companyID, StatusPaid)
	if err != nil {
		return nil, fmt.Errorf("transactions: list paid: %w", err)
	}
	defer rows.Close()
	return collect(rows)
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (Transaction, error) {
	row := r.db.QueryRow(ctx, `SELECT `+txnColumns+` FROM ledger_transactions WHERE id = $1`, id)
	txn, err := scanTransaction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Transaction{}, shared.ErrNotFound
	}
	return txn, err
}

func (r *repository) Create(ctx context.Context, txn Transaction) (Transaction, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO ledger_transactions (id, company_id, account_id, kind, amount, status, reconciled, description, due_at, paid_at)
		VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8, $9, $10)
		RETURNING `+txnColumns,
		txn.ID, txn.CompanyID, txn.AccountID, txn.Kind, txn.Amount.String(), txn.Status,
		txn.Reconciled, txn.Description, txn.DueAt, txn.PaidAt)
	return scanTransaction(row)
}

func (r *repository) Update(ctx context.Context, txn Transaction) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE ledger_transactions
		SET account_id = $2, kind = $3, amount = $4::numeric, status = $5, reconciled = $6,
		    description = $7, due_at = $8, paid_at = $9, updated_at = now()
		WHERE id = $1`,
		txn.ID, txn.AccountID, txn.Kind, txn.Amount.String(), txn.Status,
		txn.Reconciled, txn.Description, txn.DueAt, txn.PaidAt)
	if err != nil {
		return fmt.Errorf("transactions: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM ledger_transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("transactions: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func collect(rows pgx.Rows) ([]Transaction, error) {
	var out []Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, txn)
	}
	return out, rows.Err()
}

func scanTransaction(row pgx.Row) (Transaction, error) {
	var (
		txn Transaction
		raw string
	)
	err := row.Scan(&txn.ID, &txn.CompanyID, &txn.AccountID, &txn.Kind, &raw, &txn.Status,
		&txn.Reconciled, &txn.Description, &txn.DueAt, &txn.PaidAt, &txn.CreatedAt, &txn.UpdatedAt)
	if err != nil {
		return Transaction{}, err
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return Transaction{}, fmt.Errorf("transactions: parse amount: %w", err)
	}
	txn.Amount = amount
	return txn, nil
}

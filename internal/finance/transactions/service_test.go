package transactions

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestio-erp/gestio-erp/internal/shared"
	_ "github.com/gestio-erp/gestio-erp/testing"
)

type mockRepository struct {
	txns map[uuid.UUID]Transaction

	getError    error
	updateError error
}

func newMockRepository() *mockRepository {
	return &mockRepository{txns: make(map[uuid.UUID]Transaction)}
}

func (m *mockRepository) ListByCompany(ctx context.Context, companyID int64, filter ListFilter) ([]Transaction, error) {
	var out []Transaction
	for _, txn := range m.txns {
		if txn.CompanyID != companyID {
			continue
		}
		if filter.Status != "" && txn.Status != filter.Status {
			continue
		}
		if filter.Kind != "" && txn.Kind != filter.Kind {
			continue
		}
		out = append(out, txn)
	}
	return out, nil
}

func (m *mockRepository) ListPaidWithAccount(ctx context.Context, companyID int64) ([]Transaction, error) {
	var out []Transaction
	for _, txn := range m.txns {
		if txn.CompanyID == companyID && txn.Settled() {
			out = append(out, txn)
		}
	}
	return out, nil
}

func (m *mockRepository) Get(ctx context.Context, id uuid.UUID) (Transaction, error) {
	if m.getError != nil {
		return Transaction{}, m.getError
	}
	txn, ok := m.txns[id]
	if !ok {
		return Transaction{}, shared.ErrNotFound
	}
	return txn, nil
}

func (m *mockRepository) Create(ctx context.Context, txn Transaction) (Transaction, error) {
	m.txns[txn.ID] = txn
	return txn, nil
}

func (m *mockRepository) Update(ctx context.Context, txn Transaction) error {
	if m.updateError != nil {
		return m.updateError
	}
	if _, ok := m.txns[txn.ID]; !ok {
		return shared.ErrNotFound
	}
	m.txns[txn.ID] = txn
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.txns[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.txns, id)
	return nil
}

type captureNotifier struct {
	companies []int64
}

func (c *captureNotifier) LedgerChanged(ctx context.Context, companyID int64) {
	c.companies = append(c.companies, companyID)
}

func newTestService(repo Repository, notifier Notifier) *Service {
	return NewService(repo, notifier, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCreateDefaultsAndNotifies(t *testing.T) {
	repo := newMockRepository()
	notifier := &captureNotifier{}
	svc := newTestService(repo, notifier)

	created, err := svc.Create(context.Background(), Transaction{
		CompanyID: 7,
		Kind:      KindRevenue,
		Amount:    decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, StatusPending, created.Status)
	assert.Nil(t, created.PaidAt)
	assert.Equal(t, []int64{7}, notifier.companies)
}

func TestCreatePaidStampsPaidAt(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)

	created, err := svc.Create(context.Background(), Transaction{
		CompanyID: 7,
		Kind:      KindExpense,
		Amount:    decimal.NewFromInt(50),
		Status:    StatusPaid,
	})
	require.NoError(t, err)
	require.NotNil(t, created.PaidAt)
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(newMockRepository(), nil)

	cases := []struct {
		name string
		txn  Transaction
	}{
		{"missing company", Transaction{Kind: KindRevenue, Amount: decimal.NewFromInt(1)}},
		{"bad kind", Transaction{CompanyID: 1, Kind: "transfer", Amount: decimal.NewFromInt(1)}},
		{"negative amount", Transaction{CompanyID: 1, Kind: KindRevenue, Amount: decimal.NewFromInt(-1)}},
		{"bad status", Transaction{CompanyID: 1, Kind: KindRevenue, Amount: decimal.NewFromInt(1), Status: "archived"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.txn)
			require.ErrorIs(t, err, shared.ErrValidation)
		})
	}
}

func TestMarkPaidSettlesAndNotifies(t *testing.T) {
	repo := newMockRepository()
	notifier := &captureNotifier{}
	svc := newTestService(repo, notifier)

	created, err := svc.Create(context.Background(), Transaction{
		CompanyID: 3,
		Kind:      KindRevenue,
		Amount:    decimal.NewFromInt(250),
	})
	require.NoError(t, err)

	paid, err := svc.MarkPaid(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, paid.Status)
	require.NotNil(t, paid.PaidAt)
	assert.Equal(t, []int64{3, 3}, notifier.companies)
}

func TestMarkPaidIdempotent(t *testing.T) {
	repo := newMockRepository()
	notifier := &captureNotifier{}
	svc := newTestService(repo, notifier)

	created, err := svc.Create(context.Background(), Transaction{
		CompanyID: 3,
		Kind:      KindRevenue,
		Amount:    decimal.NewFromInt(250),
		Status:    StatusPaid,
	})
	require.NoError(t, err)

	again, err := svc.MarkPaid(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.PaidAt, again.PaidAt)
	// Only the create notifies; an already-settled entry does not.
	assert.Equal(t, []int64{3}, notifier.companies)
}

func TestMarkPaidUnknownTransaction(t *testing.T) {
	svc := newTestService(newMockRepository(), nil)

	_, err := svc.MarkPaid(context.Background(), uuid.New())
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDeleteNotifiesOwningCompany(t *testing.T) {
	repo := newMockRepository()
	notifier := &captureNotifier{}
	svc := newTestService(repo, notifier)

	created, err := svc.Create(context.Background(), Transaction{
		CompanyID: 9,
		Kind:      KindExpense,
		Amount:    decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	assert.Equal(t, []int64{9, 9}, notifier.companies)
}

func TestUpdateRepoErrorSkipsNotify(t *testing.T) {
	repo := newMockRepository()
	repo.updateError = errors.New("connection reset")
	notifier := &captureNotifier{}
	svc := newTestService(repo, notifier)

	err := svc.Update(context.Background(), Transaction{
		ID:        uuid.New(),
		CompanyID: 2,
		Kind:      KindRevenue,
		Amount:    decimal.NewFromInt(5),
	})
	require.Error(t, err)
	assert.Empty(t, notifier.companies)
}

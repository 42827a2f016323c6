package balance

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestio-erp/gestio-erp/internal/finance/accounts"
	"github.com/gestio-erp/gestio-erp/internal/finance/transactions"
)

func newBalanceRouter(source Source) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(logger, NewRegistry(source, logger))
	r := chi.NewRouter()
	handler.Mount(r)
	return r
}

func TestListBalancesEndpoint(t *testing.T) {
	source := newStubSource()
	id := uuid.New()
	source.accts[1] = []accounts.Account{acct(id, "1000")}
	source.txns[1] = []transactions.Transaction{
		txn(&id, transactions.KindRevenue, "500", transactions.StatusPaid),
		txn(&id, transactions.KindExpense, "200", transactions.StatusPaid),
	}
	router := newBalanceRouter(source)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/companies/1/balances", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Balances  []json.RawMessage `json:"balances"`
		Total     string            `json:"total"`
		IsLoading bool              `json:"is_loading"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Balances, 1)
	assert.Equal(t, "1300", body.Total)
	assert.False(t, body.IsLoading)
}

func TestListBalancesInvalidCompany(t *testing.T) {
	router := newBalanceRouter(newStubSource())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/companies/abc/balances", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestShowBalanceUnknownAccount(t *testing.T) {
	source := newStubSource()
	id := uuid.New()
	source.accts[1] = []accounts.Account{acct(id, "0")}
	router := newBalanceRouter(source)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/companies/1/balances/"+uuid.NewString(), nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestShowBalanceBadAccountID(t *testing.T) {
	router := newBalanceRouter(newStubSource())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/companies/1/balances/not-a-uuid", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListBalancesServesStaleOnSourceFailure(t *testing.T) {
	source := newStubSource()
	id := uuid.New()
	source.accts[1] = []accounts.Account{acct(id, "100")}
	router := newBalanceRouter(source)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/companies/1/balances", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	source.mu.Lock()
	source.acctErr = errors.New("bank feed down")
	source.mu.Unlock()

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/companies/1/balances", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Total string `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "100", body.Total)
}

func TestListBalancesFirstLoadFailure(t *testing.T) {
	source := newStubSource()
	source.accts[1] = []accounts.Account{acct(uuid.New(), "1")}
	source.acctErr = errors.New("bank feed down")
	router := newBalanceRouter(source)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/companies/1/balances", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/gestio-erp/gestio-erp/internal/finance/accounts"
	"github.com/gestio-erp/gestio-erp/internal/finance/balance"
	"github.com/gestio-erp/gestio-erp/internal/finance/transactions"
	"github.com/gestio-erp/gestio-erp/internal/masterdata/companies"
	"github.com/gestio-erp/gestio-erp/internal/observability"
	"github.com/gestio-erp/gestio-erp/internal/partners"
	"github.com/gestio-erp/gestio-erp/internal/tasks"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger              *slog.Logger
	Config              *Config
	CompaniesHandler    *companies.Handler
	PartnersHandler     *partners.Handler
	TasksHandler        *tasks.Handler
	AccountsHandler     *accounts.Handler
	TransactionsHandler *transactions.Handler
	BalanceHandler      *balance.Handler
	JobsMount           func(chi.Router)
	Metrics             *observability.Metrics
}

// NewRouter constructs the chi.Router with Gestio defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		if params.CompaniesHandler != nil {
			params.CompaniesHandler.Mount(r)
		}
		if params.PartnersHandler != nil {
			params.PartnersHandler.Mount(r)
		}
		if params.TasksHandler != nil {
			params.TasksHandler.Mount(r)
		}
		if params.AccountsHandler != nil {
			params.AccountsHandler.Mount(r)
		}
		if params.TransactionsHandler != nil {
			params.TransactionsHandler.Mount(r)
		}
		if params.BalanceHandler != nil {
			params.BalanceHandler.Mount(r)
		}
		if params.JobsMount != nil {
			r.Route("/jobs", params.JobsMount)
		}
	})

	return r
}

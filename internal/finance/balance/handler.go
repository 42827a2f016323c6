package balance

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gestio-erp/gestio-erp/internal/platform/httpx"
)

type Handler struct {
	logger   *slog.Logger
	registry *Registry
}

func NewHandler(logger *slog.Logger, registry *Registry) *Handler {
	return &Handler{logger: logger, registry: registry}
}

// Mount registers the derived balance routes.
func (h *Handler) Mount(r chi.Router) {
	r.Route("/companies/{companyID}/balances", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{accountID}", h.Show)
	})
}

type summaryResponse struct {
	Balances  []AccountBalance `json:"balances"`
	Total     string           `json:"total"`
	IsLoading bool             `json:"is_loading"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	view, ok := h.viewFor(w, r)
	if !ok {
		return
	}
	if err := view.Refresh(r.Context()); err != nil {
		// Serve the stale snapshot when one exists; first load has nothing
		// to fall back to.
		if view.Balances() == nil {
			h.logger.Error("refresh balances", slog.Any("error", err), slog.Int64("company_id", view.CompanyID()))
			httpx.RespondError(w, err)
			return
		}
		h.logger.Warn("serving stale balances", slog.Any("error", err), slog.Int64("company_id", view.CompanyID()))
	}
	httpx.JSON(w, http.StatusOK, summaryResponse{
		Balances:  view.Balances(),
		Total:     view.Total().String(),
		IsLoading: view.IsLoading(),
	})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	view, ok := h.viewFor(w, r)
	if !ok {
		return
	}
	accountID, err := uuid.Parse(chi.URLParam(r, "accountID"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid account ID")
		return
	}
	if err := view.Refresh(r.Context()); err != nil && view.Balances() == nil {
		h.logger.Error("refresh balances", slog.Any("error", err), slog.Int64("company_id", view.CompanyID()))
		httpx.RespondError(w, err)
		return
	}
	bal, ok := view.Balance(accountID)
	if !ok {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "no balance for account")
		return
	}
	httpx.JSON(w, http.StatusOK, bal)
}

func (h *Handler) viewFor(w http.ResponseWriter, r *http.Request) (*View, bool) {
	companyID, err := strconv.ParseInt(chi.URLParam(r, "companyID"), 10, 64)
	if err != nil || companyID <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid company ID")
		return nil, false
	}
	return h.registry.For(companyID), true
}

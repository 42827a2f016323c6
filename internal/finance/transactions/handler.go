package transactions

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gestio-erp/gestio-erp/internal/platform/httpx"
)

type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// Mount registers the ledger routes.
func (h *Handler) Mount(r chi.Router) {
	r.Route("/companies/{companyID}/transactions", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
	})
	r.Route("/transactions/{id}", func(r chi.Router) {
		r.Get("/", h.Show)
		r.Put("/", h.Update)
		r.Post("/pay", h.MarkPaid)
		r.Delete("/", h.Delete)
	})
}

type transactionForm struct {
	AccountID   *uuid.UUID      `json:"account_id"`
	Kind        Kind            `json:"kind" validate:"required,oneof=revenue expense"`
	Amount      decimal.Decimal `json:"amount"`
	Status      Status          `json:"status" validate:"omitempty,oneof=pending paid cancelled"`
	Reconciled  bool            `json:"reconciled"`
	Description string          `json:"description" validate:"max=500"`
	DueAt       time.Time       `json:"due_at"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	companyID, err := strconv.ParseInt(chi.URLParam(r, "companyID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid company ID")
		return
	}
	filter := ListFilter{
		Status: Status(r.URL.Query().Get("status")),
		Kind:   Kind(r.URL.Query().Get("kind")),
	}
	if raw := r.URL.Query().Get("account_id"); raw != "" {
		accountID, err := uuid.Parse(raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid account ID filter")
			return
		}
		filter.AccountID = &accountID
	}
	list, err := h.service.ListByCompany(r.Context(), companyID, filter)
	if err != nil {
		h.logger.Error("list transactions", slog.Any("error", err), slog.Int64("company_id", companyID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"transactions": list})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid transaction ID")
		return
	}
	txn, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, txn)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	companyID, err := strconv.ParseInt(chi.URLParam(r, "companyID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid company ID")
		return
	}
	form, ok := h.decodeForm(w, r)
	if !ok {
		return
	}
	txn, err := h.service.Create(r.Context(), Transaction{
		CompanyID:   companyID,
		AccountID:   form.AccountID,
		Kind:        form.Kind,
		Amount:      form.Amount,
		Status:      form.Status,
		Reconciled:  form.Reconciled,
		Description: form.Description,
		DueAt:       form.DueAt,
	})
	if err != nil {
		h.logger.Error("create transaction", slog.Any("error", err), slog.Int64("company_id", companyID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, txn)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid transaction ID")
		return
	}
	current, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	form, ok := h.decodeForm(w, r)
	if !ok {
		return
	}
	current.AccountID = form.AccountID
	current.Kind = form.Kind
	current.Amount = form.Amount
	current.Status = form.Status
	current.Reconciled = form.Reconciled
	current.Description = form.Description
	current.DueAt = form.DueAt
	if err := h.service.Update(r.Context(), current); err != nil {
		h.logger.Error("update transaction", slog.Any("error", err), slog.String("id", id.String()))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, current)
}

func (h *Handler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid transaction ID")
		return
	}
	txn, err := h.service.MarkPaid(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, txn)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid transaction ID")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decodeForm(w http.ResponseWriter, r *http.Request) (transactionForm, bool) {
	var form transactionForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return form, false
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return form, false
	}
	return form, true
}

package companies

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	mdshared "github.com/gestio-erp/gestio-erp/internal/masterdata/shared"
	"github.com/gestio-erp/gestio-erp/internal/platform/httpx"
	"github.com/gestio-erp/gestio-erp/internal/shared"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
	prefs   shared.PreferenceStore
}

func NewHandler(logger *slog.Logger, service *Service, prefs shared.PreferenceStore) *Handler {
	return &Handler{logger: logger, service: service, prefs: prefs}
}

// Mount registers the company registry routes.
func (h *Handler) Mount(r chi.Router) {
	r.Route("/companies", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/selected", h.Selected)
		r.Get("/{id}", h.Show)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Post("/{id}/select", h.Select)
	})
}

type companyForm struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Address string `json:"address"`
	CNPJ    string `json:"cnpj"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	filters := mdshared.ListFilters{
		Page:    page,
		Limit:   limit,
		Search:  r.URL.Query().Get("search"),
		SortBy:  r.URL.Query().Get("sort"),
		SortDir: r.URL.Query().Get("dir"),
	}

	filters.Normalize()

	list, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list companies", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"companies":  list,
		"pagination": shared.NewPagination(filters.Page, filters.Limit, total),
	})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid company ID")
		return
	}
	company, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, company)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var form companyForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	company, err := h.service.Create(r.Context(), Company{
		Code:    form.Code,
		Name:    form.Name,
		Address: form.Address,
		CNPJ:    form.CNPJ,
	})
	if err != nil {
		h.logger.Error("create company", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, company)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid company ID")
		return
	}
	var form companyForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	company := Company{Code: form.Code, Name: form.Name, Address: form.Address, CNPJ: form.CNPJ}
	if err := h.service.Update(r.Context(), id, company); err != nil {
		h.logger.Error("update company", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	company.ID = id
	httpx.JSON(w, http.StatusOK, company)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid company ID")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Select remembers the caller's working company. The caller identifies
// itself with the X-User-ID header; authentication proper is handled by the
// gateway in front of this service.
func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid company ID")
		return
	}
	if _, err := h.service.Get(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "missing X-User-ID header")
		return
	}
	if err := shared.RememberCompany(r.Context(), h.prefs, userID, id); err != nil {
		h.logger.Error("remember company", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"selected_company": id})
}

// Selected returns the caller's remembered company, zero when none is set.
func (h *Handler) Selected(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "missing X-User-ID header")
		return
	}
	id, err := shared.SelectedCompany(r.Context(), h.prefs, userID)
	if err != nil {
		h.logger.Error("read selected company", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"selected_company": id})
}

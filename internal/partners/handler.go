package partners

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	mdshared "github.com/gestio-erp/gestio-erp/internal/masterdata/shared"
	"github.com/gestio-erp/gestio-erp/internal/platform/httpx"
	"github.com/gestio-erp/gestio-erp/internal/shared"
)

type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// Mount registers the partner registry routes.
func (h *Handler) Mount(r chi.Router) {
	r.Route("/companies/{companyID}/partners", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
	})
	r.Route("/partners/{id}", func(r chi.Router) {
		r.Get("/", h.Show)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
	})
}

type partnerForm struct {
	Code    string `json:"code"`
	Name    string `json:"name" validate:"required"`
	CNPJ    string `json:"cnpj" validate:"omitempty,len=14,numeric"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Kind    Kind   `json:"kind" validate:"omitempty,oneof=customer supplier both"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	companyID, err := strconv.ParseInt(chi.URLParam(r, "companyID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid company ID")
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	filters := mdshared.ListFilters{
		Page:      page,
		Limit:     limit,
		Search:    r.URL.Query().Get("search"),
		CompanyID: &companyID,
	}
	filters.Normalize()

	list, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list partners", slog.Any("error", err), slog.Int64("company_id", companyID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"partners":   list,
		"pagination": shared.NewPagination(filters.Page, filters.Limit, total),
	})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid partner ID")
		return
	}
	partner, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, partner)
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
	partner, err := h.service.Create(r.Context(), Partner{
		CompanyID: companyID,
		Code:      form.Code,
		Name:      form.Name,
		CNPJ:      form.CNPJ,
		Email:     form.Email,
		Phone:     form.Phone,
		Address:   form.Address,
		Kind:      form.Kind,
	})
	if err != nil {
		h.logger.Error("create partner", slog.Any("error", err), slog.Int64("company_id", companyID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, partner)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid partner ID")
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
	current.Code = form.Code
	current.Name = form.Name
	current.CNPJ = form.CNPJ
	current.Email = form.Email
	current.Phone = form.Phone
	current.Address = form.Address
	if form.Kind != "" {
		current.Kind = form.Kind
	}
	if err := h.service.Update(r.Context(), id, current); err != nil {
		h.logger.Error("update partner", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, current)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid partner ID")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decodeForm(w http.ResponseWriter, r *http.Request) (partnerForm, bool) {
	var form partnerForm
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

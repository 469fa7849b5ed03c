package drafts

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/meridian-erp/procure-gateway/internal/document"
	"github.com/meridian-erp/procure-gateway/internal/export"
	"github.com/meridian-erp/procure-gateway/internal/platform/httpx"
	"github.com/meridian-erp/procure-gateway/internal/upstream"
)

// Handler wires HTTP endpoints for draft sessions.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers draft routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/drafts", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/{id}", h.Show)
		r.Patch("/{id}", h.UpdateHeader)
		r.Post("/{id}/reset", h.Reset)
		r.Post("/{id}/submit", h.Submit)
		r.Get("/{id}/export", h.ExportCSV)
		r.Post("/{id}/lines", h.AddLine)
		r.Patch("/{id}/lines/{lineID}", h.UpdateLine)
		r.Delete("/{id}/lines/{lineID}", h.RemoveLine)
	})
	r.Route("/masterdata", func(r chi.Router) {
		r.Get("/suppliers", h.Suppliers)
		r.Get("/centers", h.Centers)
		r.Get("/products", h.Products)
	})
}

// Create opens a new draft session.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createDraftRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		h.respondInvalid(w, err)
		return
	}
	view, err := h.service.Create(r.Context(), document.Type(req.Type), req.BatchTracking, req.Date)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, view)
}

// Show returns one draft with derived totals.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

// AddLine adds or merges one line.
func (h *Handler) AddLine(w http.ResponseWriter, r *http.Request) {
	var req addLineRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		h.respondInvalid(w, err)
		return
	}
	view, err := h.service.AddLine(r.Context(), chi.URLParam(r, "id"), req.toInput())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

// UpdateLine applies a partial edit to one line.
func (h *Handler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	var req updateLineRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		h.respondInvalid(w, err)
		return
	}
	view, err := h.service.UpdateLine(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "lineID"), req.toUpdate())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

// RemoveLine deletes one line.
func (h *Handler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.RemoveLine(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "lineID"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

// UpdateHeader applies partial header edits.
func (h *Handler) UpdateHeader(w http.ResponseWriter, r *http.Request) {
	var req updateHeaderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		h.respondInvalid(w, err)
		return
	}
	view, err := h.service.UpdateHeader(r.Context(), chi.URLParam(r, "id"), req.toUpdate())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

// Reset clears the form.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Reset(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

// Submit posts the draft upstream.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	confirmation, err := h.service.Submit(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, confirmation)
}

// ExportCSV streams the current draft as CSV.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", view.Draft.Header.DocumentNumber+".csv"))
	if err := export.WriteDocumentCSV(w, view.Draft.Header, view.Draft.Lines); err != nil {
		h.logger.Error("write document csv", slog.Any("error", err))
	}
}

// Suppliers proxies the supplier master.
func (h *Handler) Suppliers(w http.ResponseWriter, r *http.Request) {
	refs, err := h.service.Suppliers(r.Context())
	if err != nil {
		h.logger.Warn("load suppliers failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "Upstream Failure", "supplier master data unavailable")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": refs})
}

// Centers proxies the center master.
func (h *Handler) Centers(w http.ResponseWriter, r *http.Request) {
	refs, err := h.service.Centers(r.Context())
	if err != nil {
		h.logger.Warn("load centers failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "Upstream Failure", "center master data unavailable")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": refs})
}

// Products lists catalog entries for the product picker.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	products, err := h.service.Products(r.Context(), r.URL.Query().Get("search"), limit)
	if err != nil {
		h.logger.Warn("load products failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "Upstream Failure", "product catalog unavailable")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": products})
}

func (h *Handler) respondInvalid(w http.ResponseWriter, err error) {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		httpx.FieldProblem(w, http.StatusBadRequest, "Validation Failed", fieldErrs[0].Error(), fieldErrs[0].Field())
		return
	}
	httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	var validationErr *document.ValidationError
	if errors.As(err, &validationErr) {
		httpx.FieldProblem(w, http.StatusBadRequest, "Validation Failed", validationErr.Error(), validationErr.Field)
		return
	}
	var submissionErr *upstream.SubmissionError
	if errors.As(err, &submissionErr) {
		status := http.StatusBadGateway
		if submissionErr.Validation() {
			status = http.StatusUnprocessableEntity
		}
		httpx.Problem(w, status, "Submission Failed", submissionErr.Message)
		return
	}
	if errors.Is(err, document.ErrLineNotFound) {
		err = fmt.Errorf("line not found: %w", httpx.ErrNotFound)
	}
	if !errors.Is(err, httpx.ErrNotFound) && !errors.Is(err, httpx.ErrConflict) {
		h.logger.Error("draft request failed", slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}

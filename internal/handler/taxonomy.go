// Package handler contains the HTTP handlers of the TaskMate API.
//
// HANDLER RESPONSIBILITIES:
// 1. Parse the incoming request (URL params, JSON body, cookies)
// 2. Call the service layer
// 3. Write the response (status code, headers, JSON body)
//
// Handlers hold no business rules; they translate between HTTP and the
// service package. Each handler type also builds its own chi sub-router so
// the server only mounts them.
package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/taskmate/internal/apperror"
	"github.com/sakif/taskmate/internal/service"
)

// TaxonomyHandler serves the category tree used by the provider form.
type TaxonomyHandler struct {
	svc    *service.TaxonomyService
	logger *slog.Logger
}

func NewTaxonomyHandler(svc *service.TaxonomyService, logger *slog.Logger) *TaxonomyHandler {
	return &TaxonomyHandler{svc: svc, logger: logger}
}

// Routes returns the public taxonomy router.
func (h *TaxonomyHandler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/categories", h.HandleListCategories)
	r.Get("/categories/{categoryId}/subcategories", h.HandleListSubcategories)
	return r
}

// HandleListCategories returns every category sorted by name.
//
// HTTP: GET /api/services/categories
func (h *TaxonomyHandler) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.ListCategories(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// HandleListSubcategories returns the subcategories of one category. An
// unknown category gives an empty list, not a 404.
//
// HTTP: GET /api/services/categories/{categoryId}/subcategories
func (h *TaxonomyHandler) HandleListSubcategories(w http.ResponseWriter, r *http.Request) {
	categoryID, err := strconv.ParseInt(chi.URLParam(r, "categoryId"), 10, 64)
	if err != nil {
		writeError(w, h.logger, apperror.ValidationFailed("categoryId", "Invalid category id"))
		return
	}

	subs, err := h.svc.ListSubcategories(r.Context(), categoryID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/heartclinicmelbourne/patient-resources/backend/internal/application/services"
	"github.com/heartclinicmelbourne/patient-resources/backend/internal/domain/repositories"
	apperrors "github.com/heartclinicmelbourne/patient-resources/backend/pkg/errors"
)

// ProcedureHandler handles procedure catalog HTTP requests
type ProcedureHandler struct {
	catalog *services.CatalogService
}

// NewProcedureHandler creates a new procedure handler
func NewProcedureHandler(catalog *services.CatalogService) *ProcedureHandler {
	return &ProcedureHandler{catalog: catalog}
}

// ListProcedures handles GET /api/procedures
func (h *ProcedureHandler) ListProcedures(w http.ResponseWriter, r *http.Request) {
	filter := repositories.ProcedureFilter{
		Category: r.URL.Query().Get("category"),
		Limit:    parseIntParam(r, "limit", 50),
		Offset:   parseIntParam(r, "offset", 0),
	}

	procedures, err := h.catalog.List(r.Context(), filter)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to list procedures")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"procedures": procedures,
		"count":      len(procedures),
	})
}

// GetProcedure handles GET /api/procedures/{id}
func (h *ProcedureHandler) GetProcedure(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "procedure ID is required")
		return
	}

	procedure, err := h.catalog.GetByID(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, procedure)
}

// ListBundles handles GET /api/bundles
func (h *ProcedureHandler) ListBundles(w http.ResponseWriter, r *http.Request) {
	bundles, err := h.catalog.ListBundles(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to list bundles")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"bundles": bundles,
		"count":   len(bundles),
	})
}

func parseIntParam(r *http.Request, name string, fallback int) int {
	if raw := r.URL.Query().Get(name); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value >= 0 {
			return value
		}
	}
	return fallback
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithServiceError maps the error taxonomy to HTTP statuses
func respondWithServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		switch appErr.Type {
		case apperrors.ErrorTypeNotFound:
			respondWithError(w, http.StatusNotFound, appErr.Message)
		case apperrors.ErrorTypeValidation:
			respondWithError(w, http.StatusBadRequest, appErr.Message)
		default:
			respondWithError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}
	respondWithError(w, http.StatusInternalServerError, "internal server error")
}

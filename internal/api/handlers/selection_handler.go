package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/heartclinicmelbourne/patient-resources/backend/internal/api/middleware"
	"github.com/heartclinicmelbourne/patient-resources/backend/internal/application/services"
	"github.com/heartclinicmelbourne/patient-resources/backend/internal/domain/entities"
)

// SelectionHandler handles selection HTTP requests. Every route operates on
// the visitor session established by the session middleware.
type SelectionHandler struct {
	selections *services.SelectionService
	guides     *services.GuideService
}

// NewSelectionHandler creates a new selection handler
func NewSelectionHandler(selections *services.SelectionService, guides *services.GuideService) *SelectionHandler {
	return &SelectionHandler{
		selections: selections,
		guides:     guides,
	}
}

// selectionPayload is the wire shape of a selection. Items stay in insertion
// order; isGenerating is advisory UI state, never a lock.
type selectionPayload struct {
	Items        []string `json:"items"`
	Bundles      []string `json:"bundles"`
	IsGenerating bool     `json:"isGenerating"`
}

func (h *SelectionHandler) payload(sessionID string, sel *entities.Selection) selectionPayload {
	items := sel.Items
	if items == nil {
		items = []string{}
	}
	bundles := sel.Bundles
	if bundles == nil {
		bundles = []string{}
	}
	return selectionPayload{
		Items:        items,
		Bundles:      bundles,
		IsGenerating: h.guides.IsGenerating(sessionID),
	}
}

// GetSelection handles GET /api/selection
func (h *SelectionHandler) GetSelection(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r.Context())

	sel, err := h.selections.Get(r.Context(), sessionID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, h.payload(sessionID, sel))
}

// AddItem handles POST /api/selection/items
func (h *SelectionHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ID == "" {
		respondWithError(w, http.StatusBadRequest, "procedure ID is required")
		return
	}

	sessionID := middleware.SessionID(r.Context())
	sel, err := h.selections.AddItem(r.Context(), sessionID, body.ID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, h.payload(sessionID, sel))
}

// RemoveItem handles DELETE /api/selection/items/{id}
func (h *SelectionHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "procedure ID is required")
		return
	}

	sessionID := middleware.SessionID(r.Context())
	sel, err := h.selections.RemoveItem(r.Context(), sessionID, id)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, h.payload(sessionID, sel))
}

// AddBundle handles POST /api/selection/bundles/{id}
func (h *SelectionHandler) AddBundle(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "bundle ID is required")
		return
	}

	sessionID := middleware.SessionID(r.Context())
	sel, err := h.selections.AddBundle(r.Context(), sessionID, id)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, h.payload(sessionID, sel))
}

// RemoveBundle handles DELETE /api/selection/bundles/{id}
func (h *SelectionHandler) RemoveBundle(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "bundle ID is required")
		return
	}

	sessionID := middleware.SessionID(r.Context())
	sel, err := h.selections.RemoveBundle(r.Context(), sessionID, id)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, h.payload(sessionID, sel))
}

// ClearSelection handles DELETE /api/selection
func (h *SelectionHandler) ClearSelection(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r.Context())

	if err := h.selections.Clear(r.Context(), sessionID); err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, selectionPayload{
		Items:   []string{},
		Bundles: []string{},
	})
}

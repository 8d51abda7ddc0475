package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/heartclinicmelbourne/patient-resources/backend/internal/api/middleware"
	"github.com/heartclinicmelbourne/patient-resources/backend/internal/application/services"
)

// GuideHandler handles guide generation HTTP requests
type GuideHandler struct {
	guides *services.GuideService
}

// NewGuideHandler creates a new guide handler
func NewGuideHandler(guides *services.GuideService) *GuideHandler {
	return &GuideHandler{guides: guides}
}

// GeneratePDF handles POST /api/guides/pdf. The response body is the PDF
// itself with a download disposition; the browser saves it under the
// selection-derived filename.
func (h *GuideHandler) GeneratePDF(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r.Context())

	guide, err := h.guides.Generate(r.Context(), sessionID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", guide.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(guide.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(guide.Data)
}

// ComposeEmail handles POST /api/guides/email. Mail clients cannot receive
// attachments through mailto links, so the frontend downloads the PDF
// separately and the composed body instructs manual attachment.
func (h *GuideHandler) ComposeEmail(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r.Context())

	uri, err := h.guides.ComposeEmail(r.Context(), sessionID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"mailto": uri,
	})
}

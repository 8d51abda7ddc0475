package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/heartclinicmelbourne/patient-resources/backend/internal/application/services"
	"github.com/heartclinicmelbourne/patient-resources/backend/internal/domain/entities"
)

// ReferralHandler handles referral composition HTTP requests
type ReferralHandler struct {
	referrals *services.ReferralService
}

// NewReferralHandler creates a new referral handler
func NewReferralHandler(referrals *services.ReferralService) *ReferralHandler {
	return &ReferralHandler{referrals: referrals}
}

// ComposeReferral handles POST /api/referrals
func (h *ReferralHandler) ComposeReferral(w http.ResponseWriter, r *http.Request) {
	var form entities.ReferralForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid referral form")
		return
	}

	uri, err := h.referrals.Compose(r.Context(), &form)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"mailto": uri,
	})
}

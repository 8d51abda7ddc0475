package services

import (
	"context"

	"github.com/heartclinicmelbourne/patient-resources/backend/internal/domain/entities"
	"github.com/heartclinicmelbourne/patient-resources/backend/internal/mailto"
	apperrors "github.com/heartclinicmelbourne/patient-resources/backend/pkg/errors"
)

// ReferralService composes referral mailto URIs from submitted forms. Pure
// templating: no delivery, no persistence, no retry. Field validation is
// intentionally minimal because the form enforces required fields upstream.
type ReferralService struct {
	mail *mailto.Composer
}

// NewReferralService creates a new referral service
func NewReferralService(mail *mailto.Composer) *ReferralService {
	return &ReferralService{mail: mail}
}

// Compose builds the referral mailto URI
func (s *ReferralService) Compose(ctx context.Context, form *entities.ReferralForm) (string, error) {
	if form == nil {
		return "", apperrors.NewValidationError("referral form is required")
	}
	return s.mail.ReferralEmail(form), nil
}

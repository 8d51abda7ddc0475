package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartclinicmelbourne/patient-resources/backend/internal/domain/entities"
	"github.com/heartclinicmelbourne/patient-resources/backend/internal/mailto"
)

func TestReferralService_Compose(t *testing.T) {
	clinic := clinicConfig()
	svc := NewReferralService(mailto.NewComposer(clinic.Name, clinic.ReferralEmail, clinic.GuideEmail))

	uri, err := svc.Compose(context.Background(), &entities.ReferralForm{
		PatientName:   "Jane Doe",
		DoctorName:    "Smith",
		ReferralTypes: []string{"Echocardiogram", "Holter Monitor"},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "mailto:reception@heartclinicmelbourne.com?"))
	assert.Contains(t, uri, "Jane%20Doe")
	assert.Contains(t, uri, "Smith")
}

func TestReferralService_NilForm(t *testing.T) {
	clinic := clinicConfig()
	svc := NewReferralService(mailto.NewComposer(clinic.Name, clinic.ReferralEmail, clinic.GuideEmail))

	_, err := svc.Compose(context.Background(), nil)
	assert.Error(t, err)
}

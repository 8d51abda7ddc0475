package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartclinicmelbourne/patient-resources/backend/internal/adapters/catalog"
	selectionstore "github.com/heartclinicmelbourne/patient-resources/backend/internal/adapters/selection"
	"github.com/heartclinicmelbourne/patient-resources/backend/internal/api/handlers"
	"github.com/heartclinicmelbourne/patient-resources/backend/internal/application/services"
	"github.com/heartclinicmelbourne/patient-resources/backend/internal/composer"
	"github.com/heartclinicmelbourne/patient-resources/backend/internal/domain/providers"
	"github.com/heartclinicmelbourne/patient-resources/backend/internal/infrastructure/notifications"
	"github.com/heartclinicmelbourne/patient-resources/backend/internal/mailto"
	"github.com/heartclinicmelbourne/patient-resources/backend/pkg/config"
)

// unreachableAssets simulates a clinic with no asset hosts configured
type unreachableAssets struct{}

func (unreachableAssets) FontPair(ctx context.Context) (*providers.FontPair, error) {
	return nil, errors.New("not configured")
}

func (unreachableAssets) Logo(ctx context.Context) (*providers.LogoImage, error) {
	return nil, errors.New("not configured")
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	cat, err := catalog.NewStaticAdapter()
	require.NoError(t, err)

	clinic := config.ClinicConfig{
		Name:          "Heart Clinic Melbourne",
		Phone:         "(03) 9509 5009",
		Website:       "heartclinicmelbourne.com.au",
		ReferralEmail: "reception@heartclinicmelbourne.com",
		GuideEmail:    "reception@heartclinicmelbourne.com.au",
	}

	selections := selectionstore.NewMemoryAdapter()
	mail := mailto.NewComposer(clinic.Name, clinic.ReferralEmail, clinic.GuideEmail)
	notifier := notifications.NewLogNotifier()

	selectionService := services.NewSelectionService(selections, cat, cat)
	guideService := services.NewGuideService(
		selections, cat, unreachableAssets{}, composer.NewFPDFRenderer(), notifier, mail, clinic, nil,
	)
	referralService := services.NewReferralService(mail)

	router := NewRouter(
		handlers.NewProcedureHandler(services.NewCatalogService(cat, cat)),
		handlers.NewSelectionHandler(selectionService, guideService),
		handlers.NewGuideHandler(guideService),
		handlers.NewReferralHandler(referralService),
		nil,
		config.SessionConfig{CookieName: "hcm_session", TTLSeconds: 86400},
		nil,
	)
	return router.SetupRoutes()
}

// client keeps the session cookie across requests like a browser would
type client struct {
	t       *testing.T
	handler http.Handler
	cookie  *http.Cookie
}

func (c *client) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	c.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}

	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "hcm_session" {
			c.cookie = cookie
		}
	}
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(out))
}

type selectionBody struct {
	Items        []string `json:"items"`
	Bundles      []string `json:"bundles"`
	IsGenerating bool     `json:"isGenerating"`
}

func TestRouter_Health(t *testing.T) {
	c := &client{t: t, handler: newTestHandler(t)}

	rec := c.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestRouter_SessionCookieIssued(t *testing.T) {
	c := &client{t: t, handler: newTestHandler(t)}

	c.do(http.MethodGet, "/api/selection", nil)
	require.NotNil(t, c.cookie)
	assert.True(t, c.cookie.HttpOnly)
	assert.NotEmpty(t, c.cookie.Value)
}

func TestRouter_ListProcedures(t *testing.T) {
	c := &client{t: t, handler: newTestHandler(t)}

	rec := c.do(http.MethodGet, "/api/procedures", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Procedures []map[string]interface{} `json:"procedures"`
		Count      int                      `json:"count"`
	}
	decode(t, rec, &body)
	assert.Greater(t, body.Count, 0)
	assert.Len(t, body.Procedures, body.Count)
}

func TestRouter_ListProceduresByCategory(t *testing.T) {
	c := &client{t: t, handler: newTestHandler(t)}

	rec := c.do(http.MethodGet, "/api/procedures?category=Imaging", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Procedures []struct {
			Category string `json:"category"`
		} `json:"procedures"`
	}
	decode(t, rec, &body)
	require.NotEmpty(t, body.Procedures)
	for _, p := range body.Procedures {
		assert.Equal(t, "Imaging", p.Category)
	}
}

func TestRouter_GetProcedure(t *testing.T) {
	c := &client{t: t, handler: newTestHandler(t)}

	rec := c.do(http.MethodGet, "/api/procedures/echocardiogram", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	decode(t, rec, &body)
	assert.Equal(t, "echocardiogram", body.ID)
	assert.Equal(t, "Echocardiogram", body.Name)

	rec = c.do(http.MethodGet, "/api/procedures/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_SelectionLifecycle(t *testing.T) {
	c := &client{t: t, handler: newTestHandler(t)}

	// Start empty
	rec := c.do(http.MethodGet, "/api/selection", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var sel selectionBody
	decode(t, rec, &sel)
	assert.Empty(t, sel.Items)
	assert.False(t, sel.IsGenerating)

	// Add two items, order preserved
	rec = c.do(http.MethodPost, "/api/selection/items", map[string]string{"id": "holter"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = c.do(http.MethodPost, "/api/selection/items", map[string]string{"id": "echocardiogram"})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &sel)
	assert.Equal(t, []string{"holter", "echocardiogram"}, sel.Items)

	// Unknown procedure rejected
	rec = c.do(http.MethodPost, "/api/selection/items", map[string]string{"id": "appendectomy"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Remove one
	rec = c.do(http.MethodDelete, "/api/selection/items/holter", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &sel)
	assert.Equal(t, []string{"echocardiogram"}, sel.Items)

	// Bundle add and remove
	rec = c.do(http.MethodPost, "/api/selection/bundles/new-patient-workup", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &sel)
	assert.Equal(t, []string{"new-patient-workup"}, sel.Bundles)
	assert.Contains(t, sel.Items, "ecg")

	rec = c.do(http.MethodDelete, "/api/selection/bundles/new-patient-workup", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &sel)
	assert.Empty(t, sel.Bundles)

	// Clear
	rec = c.do(http.MethodDelete, "/api/selection", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &sel)
	assert.Empty(t, sel.Items)
}

func TestRouter_SelectionIsPerSession(t *testing.T) {
	handler := newTestHandler(t)
	alice := &client{t: t, handler: handler}
	bob := &client{t: t, handler: handler}

	rec := alice.do(http.MethodPost, "/api/selection/items", map[string]string{"id": "ecg"})
	require.Equal(t, http.StatusOK, rec.Code)

	var sel selectionBody
	rec = bob.do(http.MethodGet, "/api/selection", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &sel)
	assert.Empty(t, sel.Items)
}

func TestRouter_GeneratePDF(t *testing.T) {
	c := &client{t: t, handler: newTestHandler(t)}

	rec := c.do(http.MethodPost, "/api/selection/items", map[string]string{"id": "echocardiogram"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = c.do(http.MethodPost, "/api/guides/pdf", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="echocardiogram-guide.pdf"`)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}

func TestRouter_GeneratePDFMultiProcedureFilename(t *testing.T) {
	c := &client{t: t, handler: newTestHandler(t)}

	c.do(http.MethodPost, "/api/selection/items", map[string]string{"id": "echocardiogram"})
	c.do(http.MethodPost, "/api/selection/items", map[string]string{"id": "holter"})

	rec := c.do(http.MethodPost, "/api/guides/pdf", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="heart-clinic-procedures.pdf"`)
}

func TestRouter_GeneratePDFEmptySelection(t *testing.T) {
	c := &client{t: t, handler: newTestHandler(t)}

	rec := c.do(http.MethodPost, "/api/guides/pdf", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_GuideEmail(t *testing.T) {
	c := &client{t: t, handler: newTestHandler(t)}

	c.do(http.MethodPost, "/api/selection/items", map[string]string{"id": "ecg"})

	rec := c.do(http.MethodPost, "/api/guides/email", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Mailto string `json:"mailto"`
	}
	decode(t, rec, &body)
	assert.True(t, strings.HasPrefix(body.Mailto, "mailto:reception@heartclinicmelbourne.com.au?"))
	assert.Contains(t, body.Mailto, "Electrocardiogram")
}

func TestRouter_Referral(t *testing.T) {
	c := &client{t: t, handler: newTestHandler(t)}

	rec := c.do(http.MethodPost, "/api/referrals", map[string]interface{}{
		"patientName":   "Jane Doe",
		"doctorName":    "Smith",
		"referralTypes": []string{"Echocardiogram", "Holter Monitor"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Mailto string `json:"mailto"`
	}
	decode(t, rec, &body)
	assert.True(t, strings.HasPrefix(body.Mailto, "mailto:reception@heartclinicmelbourne.com?"))
	assert.Contains(t, body.Mailto, "Jane%20Doe")
}

func TestRouter_CORSPreflight(t *testing.T) {
	c := &client{t: t, handler: newTestHandler(t)}

	req := httptest.NewRequest(http.MethodOptions, "/api/procedures", nil)
	req.Header.Set("Origin", "https://heartclinicmelbourne.com.au")
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Methods"))
}

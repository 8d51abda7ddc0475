package composer

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartclinicmelbourne/patient-resources/backend/internal/domain/entities"
	"github.com/heartclinicmelbourne/patient-resources/backend/internal/domain/providers"
)

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFPDFRenderer_EmptyDocumentFails(t *testing.T) {
	renderer := NewFPDFRenderer()

	_, err := renderer.Render(nil, RenderAssets{})
	assert.Error(t, err)

	_, err = renderer.Render(&entities.RenderedDocument{}, RenderAssets{})
	assert.Error(t, err)
}

func TestFPDFRenderer_RendersWithBuiltinFonts(t *testing.T) {
	engine := NewEngine(LayoutConfig{
		ClinicName: "Heart Clinic Melbourne",
		Phone:      "(03) 9000 0000",
		Website:    "heartclinicmelbourne.com",
		Now:        func() time.Time { return time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC) },
	})
	doc, err := engine.Layout([]*entities.ProcedureRecord{record("a", "Echocardiogram")})
	require.NoError(t, err)

	data, err := NewFPDFRenderer().Render(doc, RenderAssets{})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
	assert.Greater(t, len(data), 500)
}

func TestFPDFRenderer_EmbedsLogo(t *testing.T) {
	engine := NewEngine(LayoutConfig{
		ClinicName: "Heart Clinic Melbourne",
		HasLogo:    true,
	})
	doc, err := engine.Layout([]*entities.ProcedureRecord{record("a", "Echocardiogram")})
	require.NoError(t, err)

	data, err := NewFPDFRenderer().Render(doc, RenderAssets{
		Logo: &providers.LogoImage{Format: "png", Data: tinyPNG(t)},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestFPDFRenderer_SkipsMalformedLogo(t *testing.T) {
	engine := NewEngine(LayoutConfig{
		ClinicName: "Heart Clinic Melbourne",
		HasLogo:    true,
	})
	doc, err := engine.Layout([]*entities.ProcedureRecord{record("a", "Echocardiogram")})
	require.NoError(t, err)

	// Garbage image bytes must not abort rendering; the op is skipped
	data, err := NewFPDFRenderer().Render(doc, RenderAssets{
		Logo: &providers.LogoImage{Format: "png", Data: []byte("not-a-png")},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestFPDFRenderer_MultiPage(t *testing.T) {
	engine := NewEngine(LayoutConfig{ClinicName: "Heart Clinic Melbourne"})

	var records []*entities.ProcedureRecord
	for i := 0; i < 8; i++ {
		records = append(records, record("p", "Coronary Angiogram"))
	}
	doc, err := engine.Layout(records)
	require.NoError(t, err)
	require.Greater(t, len(doc.Pages), 1)

	data, err := NewFPDFRenderer().Render(doc, RenderAssets{})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

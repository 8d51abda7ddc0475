package composer

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartclinicmelbourne/patient-resources/backend/internal/domain/entities"
)

// fixedEstimator makes wrap points deterministic and font-size independent
func fixedEstimator(text string, _ float64) float64 {
	return float64(len([]rune(text))) * 6
}

func testEngine() *Engine {
	return NewEngine(LayoutConfig{
		ClinicName: "Heart Clinic Melbourne",
		Phone:      "(03) 9000 0000",
		Website:    "heartclinicmelbourne.com",
		Estimator:  fixedEstimator,
		Now:        func() time.Time { return time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC) },
	})
}

func record(id, name string) *entities.ProcedureRecord {
	return &entities.ProcedureRecord{
		ID:      id,
		Name:    name,
		Summary: "A short summary of the " + name + " procedure for patients.",
		NeedToKnow: []string{
			"Do not eat or drink for four hours beforehand.",
			"Bring your referral and Medicare card.",
		},
		Steps: []entities.ProcedureStep{
			{ID: 1, Title: "Arrival", Duration: "15 minutes", Description: "Check in at reception and complete your paperwork."},
			{ID: 2, Title: "The test", Duration: "45 minutes", Description: "A sonographer performs the scan while you lie on your side."},
		},
	}
}

func pageTexts(page *entities.DocumentPage) []string {
	var texts []string
	for _, op := range page.Ops {
		if t, ok := op.(entities.TextOp); ok {
			texts = append(texts, t.Text)
		}
	}
	return texts
}

func TestLayout_EmptyInputFails(t *testing.T) {
	_, err := testEngine().Layout(nil)
	assert.Error(t, err)
}

func TestLayout_PreservesRecordOrder(t *testing.T) {
	doc, err := testEngine().Layout([]*entities.ProcedureRecord{
		record("b", "Holter Monitor"),
		record("a", "Echocardiogram"),
		record("c", "Stress Echocardiogram"),
	})
	require.NoError(t, err)

	var all []string
	for _, page := range doc.Pages {
		all = append(all, pageTexts(page)...)
	}
	joined := strings.Join(all, "\n")

	holter := strings.Index(joined, "Holter Monitor")
	echo := strings.Index(joined, "Echocardiogram")
	stress := strings.Index(joined, "Stress Echocardiogram")
	require.GreaterOrEqual(t, holter, 0)
	require.GreaterOrEqual(t, echo, 0)
	require.GreaterOrEqual(t, stress, 0)
	assert.Less(t, holter, echo)
	assert.Less(t, echo, stress)
}

func TestLayout_PaginatesWhenContentOverflows(t *testing.T) {
	var records []*entities.ProcedureRecord
	for i := 0; i < 6; i++ {
		records = append(records, record("p", "Coronary Angiogram"))
	}

	doc, err := testEngine().Layout(records)
	require.NoError(t, err)
	assert.Greater(t, len(doc.Pages), 1)

	// Content never renders below the bottom margin; footers live beneath it
	for _, page := range doc.Pages {
		for _, op := range page.Ops {
			if t2, ok := op.(entities.TextOp); ok && t2.Size > sizeFooter {
				assert.GreaterOrEqual(t, t2.Y, 64.0)
			}
		}
	}
}

func TestLayout_IsDeterministic(t *testing.T) {
	records := []*entities.ProcedureRecord{
		record("a", "Echocardiogram"),
		record("b", "Holter Monitor"),
		record("c", "Cardioversion"),
	}

	first, err := testEngine().Layout(records)
	require.NoError(t, err)
	second, err := testEngine().Layout(records)
	require.NoError(t, err)

	require.Equal(t, len(first.Pages), len(second.Pages))
	for i := range first.Pages {
		assert.Equal(t, first.Pages[i].Ops, second.Pages[i].Ops)
	}
}

func TestLayout_FooterOnEveryPage(t *testing.T) {
	var records []*entities.ProcedureRecord
	for i := 0; i < 6; i++ {
		records = append(records, record("p", "Pacemaker Implantation"))
	}

	doc, err := testEngine().Layout(records)
	require.NoError(t, err)
	require.Greater(t, len(doc.Pages), 1)

	for _, page := range doc.Pages {
		joined := strings.Join(pageTexts(page), "\n")
		assert.Contains(t, joined, "Generated on 14 March 2025")
		assert.Contains(t, joined, "(03) 9000 0000")
		assert.Contains(t, joined, "Page ")
	}
}

func TestLayout_TruncatesLongNames(t *testing.T) {
	long := record("x", strings.Repeat("Transoesophageal Echocardiogram ", 6))

	doc, err := testEngine().Layout([]*entities.ProcedureRecord{long})
	require.NoError(t, err)

	truncated := false
	for _, text := range pageTexts(doc.Pages[0]) {
		if strings.HasSuffix(text, "...") {
			truncated = true
			assert.Less(t, len(text), len(long.Name))
		}
	}
	assert.True(t, truncated, "over-long procedure name should be truncated with an ellipsis")
}

func TestLayout_WrapsLongParagraphs(t *testing.T) {
	r := record("x", "Echocardiogram")
	r.Summary = strings.Repeat("An ultrasound scan of the heart performed by a trained sonographer. ", 4)

	doc, err := testEngine().Layout([]*entities.ProcedureRecord{r})
	require.NoError(t, err)

	wrapped := 0
	for _, text := range pageTexts(doc.Pages[0]) {
		if strings.Contains(text, "sonographer") {
			wrapped++
			assert.LessOrEqual(t, fixedEstimator(text, sizeBody), contentWidth)
		}
	}
	assert.Greater(t, wrapped, 1, "summary should wrap onto multiple lines")
}

func TestLayout_LogoOnlyWhenAvailable(t *testing.T) {
	hasImage := func(doc *entities.RenderedDocument) bool {
		for _, op := range doc.Pages[0].Ops {
			if _, ok := op.(entities.ImageOp); ok {
				return true
			}
		}
		return false
	}

	withLogo := NewEngine(LayoutConfig{
		ClinicName: "Heart Clinic Melbourne",
		Estimator:  fixedEstimator,
		HasLogo:    true,
	})
	doc, err := withLogo.Layout([]*entities.ProcedureRecord{record("a", "Echocardiogram")})
	require.NoError(t, err)
	assert.True(t, hasImage(doc))

	doc, err = testEngine().Layout([]*entities.ProcedureRecord{record("a", "Echocardiogram")})
	require.NoError(t, err)
	assert.False(t, hasImage(doc))
}

func TestDefaultWidthEstimator(t *testing.T) {
	assert.Equal(t, 0.0, DefaultWidthEstimator("", 12))
	assert.Equal(t, 60.0, DefaultWidthEstimator("hello", 24))
	// Multi-byte runes count once, not per byte
	assert.Equal(t, DefaultWidthEstimator("aaaa", 12), DefaultWidthEstimator("éééé", 12))
}

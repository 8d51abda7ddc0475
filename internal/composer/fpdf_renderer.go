package composer

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/heartclinicmelbourne/patient-resources/backend/internal/domain/entities"
	"github.com/heartclinicmelbourne/patient-resources/backend/internal/domain/providers"
	apperrors "github.com/heartclinicmelbourne/patient-resources/backend/pkg/errors"
)

// fallbackFamily is the built-in face used when the external font pair could
// not be fetched. Built-in fonts need no embedding, so rendering always has a
// working font available.
const fallbackFamily = "Helvetica"

// RenderAssets carries the optional fetched assets into a render pass. Nil
// fields mean the corresponding fallback applies: built-in fonts, no logo.
type RenderAssets struct {
	Fonts *providers.FontPair
	Logo  *providers.LogoImage
}

// Renderer serializes a laid-out document to PDF bytes
type Renderer interface {
	Render(doc *entities.RenderedDocument, assets RenderAssets) ([]byte, error)
}

// FPDFRenderer renders documents with the fpdf backend. Draw ops use a
// bottom-left origin; fpdf uses top-left, so every y coordinate is mirrored
// against the page height during rendering.
type FPDFRenderer struct{}

// NewFPDFRenderer creates a new fpdf render backend
func NewFPDFRenderer() Renderer {
	return &FPDFRenderer{}
}

// Render serializes the document. Asset problems never surface here: the
// caller decides the fallback before calling, and unregistered image ops are
// skipped. Only backend serialization failures return an error.
func (r *FPDFRenderer) Render(doc *entities.RenderedDocument, assets RenderAssets) ([]byte, error) {
	if doc == nil || len(doc.Pages) == 0 {
		return nil, apperrors.NewValidationError("document has no pages")
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: doc.Width, Ht: doc.Height},
	})
	pdf.SetAutoPageBreak(false, 0)

	family := fallbackFamily
	if assets.Fonts != nil {
		family = assets.Fonts.Family
		pdf.AddUTF8FontFromBytes(family, "", assets.Fonts.Regular)
		pdf.AddUTF8FontFromBytes(family, "B", assets.Fonts.Bold)
	}

	// Core fonts are cp1252; UTF-8 text has to be translated for them
	translate := func(s string) string { return s }
	if assets.Fonts == nil {
		translate = pdf.UnicodeTranslatorFromDescriptor("")
	}

	// A malformed logo must not poison the document; fpdf errors are sticky,
	// so clear the error state and render without the image instead
	logoRegistered := false
	if assets.Logo != nil {
		pdf.RegisterImageOptionsReader("logo", fpdf.ImageOptions{
			ImageType: assets.Logo.Format,
		}, bytes.NewReader(assets.Logo.Data))
		if pdf.Err() {
			pdf.ClearError()
		} else {
			logoRegistered = true
		}
	}

	for _, page := range doc.Pages {
		pdf.AddPage()
		for _, op := range page.Ops {
			switch o := op.(type) {
			case entities.TextOp:
				gray := int(o.Gray)
				pdf.SetFont(family, string(o.Style), o.Size)
				pdf.SetTextColor(gray, gray, gray)
				pdf.Text(o.X, doc.Height-o.Y, translate(o.Text))

			case entities.LineOp:
				pdf.SetLineWidth(o.Width)
				pdf.SetDrawColor(180, 180, 180)
				pdf.Line(o.X1, doc.Height-o.Y1, o.X2, doc.Height-o.Y2)

			case entities.RectOp:
				gray := int(o.Gray)
				pdf.SetFillColor(gray, gray, gray)
				pdf.Rect(o.X, doc.Height-o.Y, o.W, o.H, "F")

			case entities.ImageOp:
				if o.Name == "logo" && !logoRegistered {
					continue
				}
				pdf.ImageOptions(o.Name, o.X, doc.Height-o.Y, o.W, o.H, false, fpdf.ImageOptions{}, 0, "")
			}
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, apperrors.NewInternalError(fmt.Sprintf("pdf serialization failed: %v", err), err)
	}
	return buf.Bytes(), nil
}

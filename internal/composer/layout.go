// Package composer turns resolved procedure records into a paginated
// document and serializes it to PDF. The layout engine emits positioned draw
// primitives only; the render backend owns fonts, images and byte output.
package composer

import (
	"fmt"
	"time"

	"github.com/heartclinicmelbourne/patient-resources/backend/internal/domain/entities"
)

// WidthEstimator estimates the rendered width in points of a text run at the
// given font size. The default is a per-character heuristic, not true glyph
// measurement; wrap points are therefore approximate for proportional fonts.
type WidthEstimator func(text string, fontSize float64) float64

// charWidthFactor approximates the average glyph advance of the guide fonts
// as a fraction of the font size.
const charWidthFactor = 0.5

// DefaultWidthEstimator is the production estimator
func DefaultWidthEstimator(text string, fontSize float64) float64 {
	return float64(len([]rune(text))) * fontSize * charWidthFactor
}

// Page geometry in points, bottom-left origin
const (
	marginLeft   = 48.0
	marginRight  = 48.0
	topY         = entities.PageHeight - 64.0
	bottomMargin = 64.0
	contentWidth = entities.PageWidth - marginLeft - marginRight

	bulletIndent = 14.0
	stepIndent   = 10.0
	footerY      = 40.0
)

// Font sizes for the fixed visual template
const (
	sizeTitle     = 20.0
	sizeSubtitle  = 11.0
	sizeProcedure = 17.0
	sizeSection   = 12.5
	sizeStepTitle = 11.5
	sizeBody      = 10.5
	sizeDetail    = 9.5
	sizeFooter    = 8.5
)

const mutedGray = 110

// LayoutConfig holds the fixed page furniture and the injectable pieces the
// engine depends on
type LayoutConfig struct {
	ClinicName string
	Phone      string
	Website    string

	// Estimator defaults to DefaultWidthEstimator when nil
	Estimator WidthEstimator

	// Now defaults to time.Now; injected in tests for a stable footer
	Now func() time.Time

	// HasLogo controls whether the first-page header reserves space for
	// the clinic logo. The renderer skips the op when no logo was fetched.
	HasLogo bool
}

// Engine lays procedure records out onto fixed-size pages
type Engine struct {
	cfg       LayoutConfig
	estimator WidthEstimator
	now       func() time.Time
}

// NewEngine creates a layout engine
func NewEngine(cfg LayoutConfig) *Engine {
	estimator := cfg.Estimator
	if estimator == nil {
		estimator = DefaultWidthEstimator
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{cfg: cfg, estimator: estimator, now: now}
}

// layoutState tracks the vertical cursor across pages during one layout run
type layoutState struct {
	doc *entities.RenderedDocument
	y   float64
}

// Layout produces a rendered document from an ordered, non-empty list of
// resolved records. Records appear in input order. Unknown IDs must already
// have been filtered by the caller.
func (e *Engine) Layout(records []*entities.ProcedureRecord) (*entities.RenderedDocument, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("layout requires at least one procedure record")
	}

	st := &layoutState{
		doc: &entities.RenderedDocument{
			Width:       entities.PageWidth,
			Height:      entities.PageHeight,
			GeneratedAt: e.now(),
		},
		y: topY,
	}
	st.doc.AddPage()

	e.drawHeader(st)

	for i, record := range records {
		if i > 0 {
			st.y -= 26
		}
		e.drawProcedure(st, record)
	}

	e.drawFooters(st.doc)

	return st.doc, nil
}

// drawHeader draws the first-page masthead: logo, clinic name, subtitle and
// a rule. Subsequent pages flow content from the top margin with no header.
func (e *Engine) drawHeader(st *layoutState) {
	page := st.doc.CurrentPage()

	x := marginLeft
	if e.cfg.HasLogo {
		page.Ops = append(page.Ops, entities.ImageOp{
			Name: "logo",
			X:    marginLeft,
			Y:    st.y + 14,
			W:    54,
			H:    54,
		})
		x += 66
	}

	page.Ops = append(page.Ops, entities.TextOp{
		X: x, Y: st.y - 14, Size: sizeTitle, Style: entities.FontBold,
		Text: e.cfg.ClinicName,
	})
	page.Ops = append(page.Ops, entities.TextOp{
		X: x, Y: st.y - 30, Size: sizeSubtitle, Gray: mutedGray,
		Text: "Your personalised procedure guide",
	})

	ruleY := st.y - 48
	page.Ops = append(page.Ops, entities.LineOp{
		X1: marginLeft, Y1: ruleY,
		X2: entities.PageWidth - marginRight, Y2: ruleY,
		Width: 1.2,
	})

	st.y = ruleY - 30
}

func (e *Engine) drawProcedure(st *layoutState, record *entities.ProcedureRecord) {
	// Procedure name: single line, truncated rather than wrapped
	e.line(st, entities.TextOp{
		Size: sizeProcedure, Style: entities.FontBold,
		Text: e.truncate(record.Name, sizeProcedure, contentWidth),
	}, 24)

	if record.Summary != "" {
		e.paragraph(st, record.Summary, sizeBody, 0)
	}
	if record.Description != "" && record.Description != record.Summary {
		e.paragraph(st, record.Description, sizeBody, 0)
	}

	if len(record.NeedToKnow) > 0 {
		e.sectionHeading(st, "Key Information")
		for _, fact := range record.NeedToKnow {
			e.bullet(st, fact, sizeBody, marginLeft)
		}
		st.y -= 6
	}

	if len(record.Steps) > 0 {
		e.sectionHeading(st, "Steps")
		for _, step := range record.Steps {
			e.drawStep(st, step)
		}
	}

	if record.Detail != "" {
		st.y -= 4
		e.paragraph(st, record.Detail, sizeDetail, 0)
	}
}

func (e *Engine) drawStep(st *layoutState, step entities.ProcedureStep) {
	title := fmt.Sprintf("%d. %s", step.ID, step.Title)
	if step.Subtitle != "" {
		title = fmt.Sprintf("%s (%s)", title, step.Subtitle)
	}
	e.line(st, entities.TextOp{
		X:    marginLeft + stepIndent,
		Size: sizeStepTitle, Style: entities.FontBold,
		Text: e.truncate(title, sizeStepTitle, contentWidth-stepIndent),
	}, 17)

	if step.Duration != "" {
		e.line(st, entities.TextOp{
			X:    marginLeft + stepIndent,
			Size: sizeDetail, Gray: mutedGray,
			Text: e.truncate("Duration: "+step.Duration, sizeDetail, contentWidth-stepIndent),
		}, 13)
	}

	if step.Description != "" {
		e.paragraphAt(st, step.Description, sizeBody, marginLeft+stepIndent)
	}

	for _, detail := range step.Details {
		e.bullet(st, detail, sizeDetail, marginLeft+stepIndent)
	}

	st.y -= 8
}

// sectionHeading draws a shaded banner with a bold heading
func (e *Engine) sectionHeading(st *layoutState, heading string) {
	e.ensureSpace(st, 22)
	page := st.doc.CurrentPage()
	page.Ops = append(page.Ops, entities.RectOp{
		X: marginLeft, Y: st.y + 14, W: contentWidth, H: 18,
		Gray: 235,
	})
	page.Ops = append(page.Ops, entities.TextOp{
		X: marginLeft + 6, Y: st.y + 1, Size: sizeSection, Style: entities.FontBold,
		Text: heading,
	})
	st.y -= 22
}

// paragraph word-wraps text across the full content width
func (e *Engine) paragraph(st *layoutState, text string, size float64, extraGap float64) {
	e.paragraphAt(st, text, size, marginLeft)
	st.y -= extraGap
}

func (e *Engine) paragraphAt(st *layoutState, text string, size float64, x float64) {
	width := contentWidth - (x - marginLeft)
	for _, lineText := range e.wrap(text, size, width) {
		e.line(st, entities.TextOp{X: x, Size: size, Text: lineText}, size+4)
	}
	st.y -= 4
}

// bullet draws a bulleted fact with hanging indent for continuation lines
func (e *Engine) bullet(st *layoutState, text string, size float64, x float64) {
	width := contentWidth - (x - marginLeft) - bulletIndent
	for i, lineText := range e.wrap(text, size, width) {
		if i == 0 {
			// Keep the glyph on the same page as its first line
			e.ensureSpace(st, size+4)
			e.line(st, entities.TextOp{X: x, Size: size, Text: "•"}, 0)
		}
		e.line(st, entities.TextOp{X: x + bulletIndent, Size: size, Text: lineText}, size+4)
	}
}

// line draws one text op at the cursor, paginating first when the cursor has
// fallen below the bottom margin. advance is subtracted afterwards; ops with
// X zero inherit the left margin.
func (e *Engine) line(st *layoutState, op entities.TextOp, advance float64) {
	e.ensureSpace(st, advance)
	if op.X == 0 {
		op.X = marginLeft
	}
	op.Y = st.y
	page := st.doc.CurrentPage()
	page.Ops = append(page.Ops, op)
	st.y -= advance
}

// ensureSpace starts a new page when the cursor is below the bottom margin,
// continuing the current logical section without re-drawing headers.
func (e *Engine) ensureSpace(st *layoutState, needed float64) {
	if st.y-needed < bottomMargin {
		st.doc.AddPage()
		st.y = topY
	}
}

// wrap splits text into lines within width using the estimator. Greedy word
// wrap; a single word longer than the whole line is kept intact and left for
// the renderer to overflow, matching the approximate-wrapping contract.
func (e *Engine) wrap(text string, size float64, width float64) []string {
	words := fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if e.estimator(candidate, size) > width {
			lines = append(lines, current)
			current = word
			continue
		}
		current = candidate
	}
	lines = append(lines, current)
	return lines
}

// truncate shortens single-line fields with an ellipsis when they exceed the
// estimated line width. Single-line fields are never wrapped.
func (e *Engine) truncate(text string, size float64, width float64) string {
	if e.estimator(text, size) <= width {
		return text
	}

	runes := []rune(text)
	for len(runes) > 1 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "..."
		if e.estimator(candidate, size) <= width {
			return candidate
		}
	}
	return "..."
}

// drawFooters appends the repeating footer to every page: generation date,
// clinic contact details and a page number over a light rule.
func (e *Engine) drawFooters(doc *entities.RenderedDocument) {
	generated := doc.GeneratedAt.Format("2 January 2006")
	contact := fmt.Sprintf("%s  |  %s  |  %s", e.cfg.ClinicName, e.cfg.Phone, e.cfg.Website)

	for _, page := range doc.Pages {
		page.Ops = append(page.Ops,
			entities.LineOp{
				X1: marginLeft, Y1: footerY + 12,
				X2: entities.PageWidth - marginRight, Y2: footerY + 12,
				Width: 0.5,
			},
			entities.TextOp{
				X: marginLeft, Y: footerY, Size: sizeFooter, Gray: mutedGray,
				Text: fmt.Sprintf("Generated on %s", generated),
			},
			entities.TextOp{
				X: marginLeft, Y: footerY - 11, Size: sizeFooter, Gray: mutedGray,
				Text: contact,
			},
			entities.TextOp{
				X: entities.PageWidth - marginRight - 50, Y: footerY, Size: sizeFooter, Gray: mutedGray,
				Text: fmt.Sprintf("Page %d of %d", page.Number, len(doc.Pages)),
			},
		)
	}
}

// fields splits on spaces without pulling in strings for a single call site
func fields(text string) []string {
	var words []string
	start := -1
	for i, r := range text {
		if r == ' ' || r == '\n' || r == '\t' {
			if start >= 0 {
				words = append(words, text[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		words = append(words, text[start:])
	}
	return words
}

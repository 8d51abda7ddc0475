package entities

import "time"

// Page dimensions in points, A4
const (
	PageWidth  = 595.28
	PageHeight = 841.89
)

// FontStyle selects between the regular and bold face of the document font
type FontStyle string

const (
	FontRegular FontStyle = ""
	FontBold    FontStyle = "B"
)

// DrawOp is one positioned draw primitive on a page. All coordinates use a
// bottom-left-origin point system; content is laid out top to bottom, so the
// vertical cursor decreases as ops are emitted.
type DrawOp interface {
	isDrawOp()
}

// TextOp places a single run of text with its baseline at (X, Y)
type TextOp struct {
	X, Y  float64
	Size  float64
	Style FontStyle
	Gray  uint8 // 0 is black; used for muted footer and duration lines
	Text  string
}

// LineOp draws a straight line, used for header and footer rules
type LineOp struct {
	X1, Y1, X2, Y2 float64
	Width          float64
}

// RectOp draws a filled rectangle, used for section banners
type RectOp struct {
	X, Y, W, H float64
	Gray       uint8 // fill shade
}

// ImageOp places a registered image with its top edge at Y
type ImageOp struct {
	Name       string
	X, Y, W, H float64
}

func (TextOp) isDrawOp()  {}
func (LineOp) isDrawOp()  {}
func (RectOp) isDrawOp()  {}
func (ImageOp) isDrawOp() {}

// DocumentPage is one fixed-size page of positioned draw primitives
type DocumentPage struct {
	Number int
	Ops    []DrawOp
}

// RenderedDocument is the output artifact of the layout engine: an ordered
// page sequence ready for a render backend to serialize. It is produced
// fresh on every generate action and never cached.
type RenderedDocument struct {
	Pages       []*DocumentPage
	Width       float64
	Height      float64
	GeneratedAt time.Time
}

// CurrentPage returns the page ops are currently being drawn onto
func (d *RenderedDocument) CurrentPage() *DocumentPage {
	return d.Pages[len(d.Pages)-1]
}

// AddPage appends a fresh page and returns it
func (d *RenderedDocument) AddPage() *DocumentPage {
	page := &DocumentPage{Number: len(d.Pages) + 1}
	d.Pages = append(d.Pages, page)
	return page
}

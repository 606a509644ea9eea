package render

import (
	"bytes"
	"io"

	"github.com/go-pdf/fpdf"

	apperrors "github.com/anujkumar2005/smart-ats-ultimate/internal/errors"
	"github.com/anujkumar2005/smart-ats-ultimate/internal/types"
)

// Letter page with 0.5in top/bottom and 0.7in left/right margins, in points.
const (
	verticalMargin   = 0.5 * 72
	horizontalMargin = 0.7 * 72
)

const baseFont = "Helvetica"

// Render produces the PDF byte sequence for a structured resume. Content
// shape never fails a render; missing fields simply omit their sections.
func Render(content types.StructuredResume) ([]byte, error) {
	var buf bytes.Buffer
	if err := RenderTo(&buf, content); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderTo writes the rendered PDF to the given destination. Fails with a
// render error only when writing the output fails.
func RenderTo(w io.Writer, content types.StructuredResume) error {
	doc := fpdf.New("P", "pt", "Letter", "")
	doc.SetMargins(horizontalMargin, verticalMargin, horizontalMargin)
	doc.SetAutoPageBreak(true, verticalMargin)
	doc.AddPage()

	translate := doc.UnicodeTranslatorFromDescriptor("")

	for _, f := range buildStory(content) {
		switch f.kind {
		case flowParagraph:
			writeParagraph(doc, translate, f)
		case flowSpacer:
			doc.SetY(doc.GetY() + f.height)
		case flowRule:
			writeRule(doc, f)
		}
	}

	if err := doc.Output(w); err != nil {
		return apperrors.NewRenderError(apperrors.ErrCodeRenderFailed,
			"failed to write rendered document", err)
	}
	return nil
}

func fontStyle(s textStyle) string {
	if s.bold {
		return "B"
	}
	return ""
}

func alignString(a alignment) string {
	switch a {
	case alignCenter:
		return "C"
	case alignJustify:
		return "J"
	default:
		return "L"
	}
}

func contentWidth(doc *fpdf.Fpdf) float64 {
	pageWidth, _ := doc.GetPageSize()
	left, _, right, _ := doc.GetMargins()
	return pageWidth - left - right
}

func writeParagraph(doc *fpdf.Fpdf, translate func(string) string, f flowable) {
	s := f.style
	if s.spaceBefore > 0 {
		doc.SetY(doc.GetY() + s.spaceBefore)
	}
	doc.SetTextColor(s.color.r, s.color.g, s.color.b)

	left, _, _, _ := doc.GetMargins()
	width := contentWidth(doc)

	if f.boldPrefix != "" {
		doc.SetX(left)
		doc.SetFont(baseFont, "B", s.size)
		doc.Write(s.leading, translate(f.boldPrefix))
		doc.SetFont(baseFont, "", s.size)
		doc.Write(s.leading, translate(f.text))
		doc.Ln(s.leading)
	} else {
		doc.SetFont(baseFont, fontStyle(s), s.size)
		doc.SetX(left + s.leftIndent)
		doc.MultiCell(width-s.leftIndent, s.leading, translate(f.text), "", alignString(s.align), false)
	}

	if s.spaceAfter > 0 {
		doc.SetY(doc.GetY() + s.spaceAfter)
	}
}

func writeRule(doc *fpdf.Fpdf, f flowable) {
	pageWidth, _ := doc.GetPageSize()
	left, _, right, _ := doc.GetMargins()
	y := doc.GetY()

	doc.SetLineWidth(f.thickness)
	doc.SetDrawColor(f.color.r, f.color.g, f.color.b)
	doc.Line(left, y, pageWidth-right, y)
	doc.SetY(y + f.spaceAfter)
}

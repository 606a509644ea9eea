// Package extract converts uploaded resume documents (PDF or DOCX byte
// streams) into normalized plain text for downstream parsing and scoring.
package extract

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	apperrors "github.com/anujkumar2005/smart-ats-ultimate/internal/errors"
)

// Format identifies a supported document format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// FormatFromFilename maps a filename extension to a supported format. The
// check is case-insensitive. Unsupported extensions are a caller-level
// validation error, not an extraction error.
func FormatFromFilename(filename string) (Format, error) {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return "", apperrors.NewValidationError(apperrors.ErrCodeInvalidExtension,
			"file has no extension, expected .pdf or .docx", nil).
			WithContext("filename", filename)
	}
	switch strings.ToLower(filename[idx+1:]) {
	case "pdf":
		return FormatPDF, nil
	case "docx":
		return FormatDOCX, nil
	default:
		return "", apperrors.NewValidationError(apperrors.ErrCodeInvalidExtension,
			"unsupported file extension, expected .pdf or .docx", nil).
			WithContext("filename", filename)
	}
}

// Text extracts normalized plain text from a document of the given format.
// The input bytes are fully consumed and never retained.
func Text(format Format, data []byte) (string, error) {
	switch format {
	case FormatPDF:
		return pdfText(data)
	case FormatDOCX:
		return docxText(data)
	default:
		return "", apperrors.NewValidationError(apperrors.ErrCodeInvalidExtension,
			"unsupported document format", nil).WithContext("format", string(format))
	}
}

// pdfText extracts text from every page in document order, joined by
// newlines. Pages yielding no text contribute nothing; the document is an
// error only when every page does.
func pdfText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", apperrors.NewExtractionError(apperrors.ErrCodeExtractionFailed,
			"failed to parse PDF document", err)
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if strings.TrimSpace(text) != "" {
			pages = append(pages, text)
		}
	}

	if len(pages) == 0 {
		return "", apperrors.NewExtractionError(apperrors.ErrCodeEmptyDocument,
			"no extractable text in PDF document", nil)
	}

	return normalize(strings.Join(pages, "\n")), nil
}

// docxText extracts paragraph text in document order, then appends table-cell
// text (row-major, cell-major) after all paragraph content.
func docxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", apperrors.NewExtractionError(apperrors.ErrCodeExtractionFailed,
			"failed to parse DOCX document", err)
	}
	defer func() { _ = doc.Close() }()

	paragraphs, cells, err := splitDocumentXML(doc.Editable().GetContent())
	if err != nil {
		return "", apperrors.NewExtractionError(apperrors.ErrCodeExtractionFailed,
			"failed to parse DOCX document body", err)
	}

	lines := append(paragraphs, cells...)
	if len(lines) == 0 {
		return "", apperrors.NewExtractionError(apperrors.ErrCodeEmptyDocument,
			"no extractable text in DOCX document", nil)
	}

	return normalize(strings.Join(lines, "\n")), nil
}

// splitDocumentXML walks the WordprocessingML body and separates body
// paragraphs from table-cell text. Cell text comes out in document order,
// which for well-formed documents is row-major, cell-major.
func splitDocumentXML(content string) (paragraphs, cells []string, err error) {
	decoder := xml.NewDecoder(strings.NewReader(content))

	tableDepth := 0
	var paragraph strings.Builder
	var cell strings.Builder

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}

		switch element := token.(type) {
		case xml.StartElement:
			switch element.Name.Local {
			case "tbl":
				tableDepth++
			case "tc":
				cell.Reset()
			case "t":
				var text string
				if err := decoder.DecodeElement(&text, &element); err != nil {
					return nil, nil, err
				}
				if tableDepth > 0 {
					cell.WriteString(text)
				} else {
					paragraph.WriteString(text)
				}
			}
		case xml.EndElement:
			switch element.Name.Local {
			case "tbl":
				tableDepth--
			case "tc":
				if text := strings.TrimSpace(cell.String()); text != "" {
					cells = append(cells, text)
				}
			case "p":
				if tableDepth == 0 {
					if text := strings.TrimSpace(paragraph.String()); text != "" {
						paragraphs = append(paragraphs, text)
					}
					paragraph.Reset()
				}
			}
		}
	}

	return paragraphs, cells, nil
}

// normalize trims the document and collapses intra-document whitespace so
// logical lines are separated by single newlines.
func normalize(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return strings.Join(lines, "\n")
}

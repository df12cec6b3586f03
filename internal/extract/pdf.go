package extract

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// TextExtractor turns a raw document into plain text.
type TextExtractor interface {
	ExtractText(documentBytes []byte) (string, error)
}

// PDFExtractor extracts concatenated plain text from a PDF document.
type PDFExtractor struct{}

// NewPDFExtractor creates a new PDF text extractor
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// ExtractText parses the PDF and returns the text of all pages concatenated.
func (e *PDFExtractor) ExtractText(documentBytes []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(documentBytes), int64(len(documentBytes)))
	if err != nil {
		return "", fmt.Errorf("failed to parse PDF: %w", err)
	}

	textReader, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract PDF text: %w", err)
	}

	var sb strings.Builder
	if _, err := io.Copy(&sb, textReader); err != nil {
		return "", fmt.Errorf("failed to read PDF text: %w", err)
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("document contains no extractable text")
	}
	return text, nil
}

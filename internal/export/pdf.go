// Package export renders document content to PDF.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
)

const (
	pageSize   = "Letter"
	fontFamily = "Times"
	fontSize   = 12.0
	margin     = 50.0
	lineHeight = 16.0
)

// ErrEmptyContent indicates there is nothing to render.
var ErrEmptyContent = errors.New("export: content is required")

// PDFRenderer lays content out as left-aligned Times text, flowing onto new
// pages when it does not fit.
type PDFRenderer struct {
	author string
}

func NewPDFRenderer(author string) *PDFRenderer {
	return &PDFRenderer{author: author}
}

// Render returns the PDF bytes for content.
func (r *PDFRenderer) Render(content string) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	document := fpdf.New("P", "pt", pageSize, "")
	document.SetMargins(margin, margin, margin)
	document.SetAutoPageBreak(true, margin)
	if r.author != "" {
		document.SetAuthor(r.author, true)
	}
	document.SetCreator("aetherpress", true)
	document.AddPage()
	document.SetFont(fontFamily, "", fontSize)
	document.SetTextColor(0, 0, 0)

	// Core fonts are cp1252; runes outside it are substituted.
	translate := document.UnicodeTranslatorFromDescriptor("")
	document.MultiCell(0, lineHeight, translate(content), "", "L", false)

	var buffer bytes.Buffer
	if err := document.Output(&buffer); err != nil {
		return nil, fmt.Errorf("export: render pdf: %w", err)
	}
	return buffer.Bytes(), nil
}

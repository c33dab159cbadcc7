// Package layout renders the HTML preview page for generated content.
package layout

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
)

const defaultTitle = "AetherPress Preview"

//go:embed template.html
var pageTemplateSource string

// Page is the data rendered into the preview template.
type Page struct {
	Title     string
	Content   string
	ImageURLs []string
}

// Renderer fills the preview template. It is safe for concurrent use.
type Renderer struct {
	page *template.Template
}

func NewRenderer() (*Renderer, error) {
	page, err := template.New("preview").Parse(pageTemplateSource)
	if err != nil {
		return nil, fmt.Errorf("layout: parse template: %w", err)
	}
	return &Renderer{page: page}, nil
}

// Render substitutes content and image URLs into the page. Content is escaped.
func (r *Renderer) Render(content string, imageURLs ...string) (string, error) {
	page := Page{Title: defaultTitle, Content: content, ImageURLs: imageURLs}
	var buffer bytes.Buffer
	if err := r.page.Execute(&buffer, page); err != nil {
		return "", fmt.Errorf("layout: render: %w", err)
	}
	return buffer.String(), nil
}

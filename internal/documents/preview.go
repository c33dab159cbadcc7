package documents

import "html"

const (
	previewOpen  = `<div class="preview">`
	previewClose = `</div>`
)

// RenderPreview wraps content in the preview fragment stored alongside a document.
// The content is HTML-escaped, so preview_html never carries markup from the caller.
func RenderPreview(content string) string {
	return previewOpen + html.EscapeString(content) + previewClose
}

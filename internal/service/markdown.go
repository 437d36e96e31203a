package service

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	htmlSanitizer = bluemonday.UGCPolicy()
	textSanitizer = bluemonday.StrictPolicy()
)

// RenderMarkdown converts markdown to sanitized HTML. A render failure
// falls back to the stripped plain text.
func RenderMarkdown(source string) string {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(source), &buf); err != nil {
		return textSanitizer.Sanitize(source)
	}
	return htmlSanitizer.Sanitize(buf.String())
}

// SanitizeText strips every HTML tag from user-supplied free text.
func SanitizeText(source string) string {
	return textSanitizer.Sanitize(source)
}

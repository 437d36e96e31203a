package service

import (
	"strings"
	"testing"
)

func TestRenderMarkdown(t *testing.T) {
	html := RenderMarkdown("## 시공 범위\n- 철거\n- 목공")
	if !strings.Contains(html, "<h2") || !strings.Contains(html, "<li>") {
		t.Fatalf("markdown not rendered: %q", html)
	}

	html = RenderMarkdown(`<script>alert(1)</script>본문`)
	if strings.Contains(html, "<script>") {
		t.Fatalf("script survived sanitization: %q", html)
	}
	if !strings.Contains(html, "본문") {
		t.Fatalf("text content lost: %q", html)
	}
}

func TestSanitizeText(t *testing.T) {
	got := SanitizeText(`<b>강조</b> 텍스트<img src=x onerror=alert(1)>`)
	if strings.ContainsAny(got, "<>") {
		t.Fatalf("tags survived strict sanitization: %q", got)
	}
	if !strings.Contains(got, "강조") || !strings.Contains(got, "텍스트") {
		t.Fatalf("text content lost: %q", got)
	}
}

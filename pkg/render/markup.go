package render

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

var (
	policiesOnce   sync.Once
	helpPolicy     *bluemonday.Policy
	richTextPolicy *bluemonday.Policy
	iconPolicy     *bluemonday.Policy
)

var helpMarkdown = goldmark.New(
	goldmark.WithExtensions(
		extension.Strikethrough,
		extension.Linkify,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithHardWraps(),
	),
)

func initPolicies() {
	policiesOnce.Do(func() {
		helpPolicy = bluemonday.NewPolicy()
		helpPolicy.AllowStandardURLs()
		helpPolicy.AllowElements("p", "br", "strong", "b", "em", "i", "del", "code", "ul", "ol", "li")
		helpPolicy.AllowAttrs("href").OnElements("a")
		helpPolicy.RequireNoFollowOnLinks(true)
		helpPolicy.AddTargetBlankToFullyQualifiedLinks(true)

		richTextPolicy = bluemonday.UGCPolicy()
		richTextPolicy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("p", "span", "pre", "code")

		iconPolicy = bluemonday.StrictPolicy()
		iconPolicy.AllowElements("svg", "g", "path", "circle", "rect", "line", "polyline", "polygon", "title", "i", "span")
		iconPolicy.AllowAttrs(
			"xmlns", "viewBox", "width", "height", "fill", "stroke",
			"stroke-width", "stroke-linecap", "stroke-linejoin", "aria-hidden", "focusable",
		).OnElements("svg")
		for _, el := range []string{"path", "circle", "rect", "line", "polyline", "polygon"} {
			iconPolicy.AllowAttrs(
				"d", "cx", "cy", "r", "x", "y", "x1", "y1", "x2", "y2",
				"points", "rx", "ry", "fill", "stroke", "stroke-width",
			).OnElements(el)
		}
		iconPolicy.AllowAttrs("class", "aria-hidden").OnElements("svg", "i", "span")
	})
}

// MarkdownHelp converts help text written in Markdown into sanitised HTML.
// Only inline formatting, lists and links survive.
func MarkdownHelp(source string) (string, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return "", nil
	}
	initPolicies()

	var buf bytes.Buffer
	if err := helpMarkdown.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("render: convert help markdown: %w", err)
	}
	return strings.TrimSpace(helpPolicy.Sanitize(buf.String())), nil
}

// SanitizeRichText strips scripts, event handlers and unsafe URLs from rich
// text editor values while keeping user-generated formatting.
func SanitizeRichText(html string) string {
	initPolicies()
	return richTextPolicy.Sanitize(html)
}

// SanitizeIcon keeps inline SVG or icon-font markup used for slot icons. Plain
// class names (for example "bi bi-person") are returned unchanged.
func SanitizeIcon(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || !strings.Contains(trimmed, "<") {
		return trimmed
	}
	initPolicies()
	return strings.TrimSpace(iconPolicy.Sanitize(trimmed))
}

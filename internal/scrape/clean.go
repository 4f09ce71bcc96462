// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrape

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// removedSelector lists the elements dropped before text extraction.
const removedSelector = "script, style, noscript, link, head, image, img"

// CleanHTML converts an HTML document to whitespace-normalized text.
// Non-content elements are removed, the remaining tree is rendered as
// markdown-like text, and whitespace is collapsed so that paragraphs and
// inline runs end up separated by single spaces.
func CleanHTML(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}
	doc.Find(removedSelector).Remove()

	var sb strings.Builder
	for _, n := range doc.Nodes {
		renderText(&sb, n)
	}
	return collapseWhitespace(sb.String()), nil
}

func renderText(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.CommentNode, html.DoctypeNode:
		return
	case html.ElementNode:
		before, after := blockMarkers(n.Data)
		sb.WriteString(before)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			renderText(sb, c)
		}
		sb.WriteString(after)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		renderText(sb, c)
	}
}

// blockMarkers returns the text written before and after an element's
// children.
func blockMarkers(tag string) (string, string) {
	switch tag {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		level := int(tag[1] - '0')
		return "\n\n" + strings.Repeat("#", level) + " ", "\n\n"
	case "li":
		return "\n- ", "\n"
	case "br":
		return "\n", ""
	case "td", "th":
		return " ", " "
	case "p", "div", "section", "article", "main", "header", "footer", "nav",
		"aside", "blockquote", "pre", "table", "tr", "ul", "ol", "dl", "dt", "dd",
		"figure", "figcaption", "form", "hr":
		return "\n\n", "\n\n"
	}
	return "", ""
}

// collapseWhitespace trims every line, joins the non-empty ones with a
// double space, then splits on double spaces and rejoins the non-empty
// trimmed fragments with a single space.
func collapseWhitespace(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	joined := strings.Join(lines, "  ")

	var parts []string
	for _, part := range strings.Split(joined, "  ") {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " ")
}

package fetch

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
)

// noiseSelectors are removed before conversion.
var noiseSelectors = []string{
	"script", "style", "noscript",
	"nav", "footer", "header",
	"iframe", "svg", "canvas",
	"form", "button", "input", "select", "textarea",
}

// ExtractMain returns the outer HTML of the page's main content container
// (<main>, then <article>, then <body>) with noise elements removed.
func ExtractMain(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}

	for _, tag := range []string{"main", "article", "body"} {
		if sel := doc.Find(tag); sel.Length() > 0 {
			out, err := goquery.OuterHtml(sel.First())
			if err != nil {
				return "", fmt.Errorf("serializing content: %w", err)
			}
			return out, nil
		}
	}
	return "", fmt.Errorf("no content container found in HTML")
}

// HTMLToMarkdown converts a full HTML page to markdown.
func HTMLToMarkdown(html string) (string, error) {
	fragment, err := ExtractMain(html)
	if err != nil {
		return "", err
	}
	md, err := htmltomarkdown.ConvertString(fragment)
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return strings.TrimSpace(md), nil
}

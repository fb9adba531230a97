package blocks

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// RenderMarkdown renders blocks to HTML and converts the result to Markdown.
func RenderMarkdown(blocks []Block) (string, error) {
	return HTMLToMarkdown(RenderHTML(blocks))
}

// HTMLToMarkdown converts an HTML fragment to Markdown.
func HTMLToMarkdown(fragment string) (string, error) {
	if strings.TrimSpace(fragment) == "" {
		return "", nil
	}
	md, err := htmltomarkdown.ConvertString(fragment)
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return strings.TrimSpace(md), nil
}

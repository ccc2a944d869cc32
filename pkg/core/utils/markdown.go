package utils

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var markdownRenderer = goldmark.New(goldmark.WithExtensions(extension.Table))

// MarkdownToHTML renders GitHub-flavored Markdown (tables included) to an HTML fragment
func MarkdownToHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := markdownRenderer.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("MARKDOWN_RENDER_FAILED: %w", err)
	}
	return buf.String(), nil
}

// MarkdownTable formats a pipe table. Cells are escaped; alignments are "l", "r" or ""
// per column.
func MarkdownTable(headers []string, align []string, rows [][]string) string {
	var sb strings.Builder

	sb.WriteString("|")
	for _, h := range headers {
		sb.WriteString(" " + escapeCell(h) + " |")
	}
	sb.WriteString("\n|")
	for i := range headers {
		a := ""
		if i < len(align) {
			a = align[i]
		}
		switch a {
		case "r":
			sb.WriteString(" ---: |")
		case "l":
			sb.WriteString(" :--- |")
		default:
			sb.WriteString(" --- |")
		}
	}
	sb.WriteString("\n")

	for _, row := range rows {
		sb.WriteString("|")
		for i := range headers {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			sb.WriteString(" " + escapeCell(cell) + " |")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

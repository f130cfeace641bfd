package services

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"golang.org/x/net/html"
)

// TranscriptExtractor converts uploaded transcript files (plain text, PDF
// exports, or saved HTML pages) into plain text ready for summarization.
type TranscriptExtractor struct{}

// NewTranscriptExtractor creates a new transcript extractor
func NewTranscriptExtractor() *TranscriptExtractor {
	return &TranscriptExtractor{}
}

// Extract detects the format from the content and returns plain text
func (t *TranscriptExtractor) Extract(filename string, content []byte) (string, error) {
	switch {
	case bytes.HasPrefix(content, []byte("%PDF-")):
		return t.extractPDF(content)
	case strings.HasSuffix(strings.ToLower(filename), ".html"),
		strings.HasSuffix(strings.ToLower(filename), ".htm"),
		looksLikeHTML(content):
		return t.extractHTML(content)
	default:
		if !utf8.Valid(content) {
			return "", fmt.Errorf("unsupported transcript format for %s", filename)
		}
		return strings.TrimSpace(string(content)), nil
	}
}

// extractPDF pulls plain text out of a PDF export. Web-downloaded PDFs
// often carry trailing garbage after %%EOF, so the content is truncated to
// the last valid end marker first.
func (t *TranscriptExtractor) extractPDF(content []byte) (string, error) {
	content = sanitizePDF(content)

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var sb strings.Builder
	totalPages := reader.NumPage()
	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	result := strings.TrimSpace(sb.String())
	if result == "" {
		return "", fmt.Errorf("no extractable text in PDF (%d pages)", totalPages)
	}
	return result, nil
}

func sanitizePDF(content []byte) []byte {
	eofMarker := []byte("%%EOF")
	lastEOF := bytes.LastIndex(content, eofMarker)
	if lastEOF == -1 {
		return content
	}

	pdfEnd := lastEOF + len(eofMarker)
	for pdfEnd < len(content) && (content[pdfEnd] == '\n' || content[pdfEnd] == '\r') {
		pdfEnd++
	}
	return content[:pdfEnd]
}

// extractHTML collects the text nodes of an HTML document, skipping
// script and style content.
func (t *TranscriptExtractor) extractHTML(content []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				sb.WriteString(text)
				sb.WriteString("\n")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	result := strings.TrimSpace(sb.String())
	if result == "" {
		return "", fmt.Errorf("no extractable text in HTML document")
	}
	return result, nil
}

func looksLikeHTML(content []byte) bool {
	head := bytes.ToLower(bytes.TrimSpace(content))
	return bytes.HasPrefix(head, []byte("<!doctype html")) || bytes.HasPrefix(head, []byte("<html"))
}

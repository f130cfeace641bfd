package services

import (
	"strings"
	"testing"
)

func TestExtractPlainText(t *testing.T) {
	extractor := NewTranscriptExtractor()

	got, err := extractor.Extract("notes.txt", []byte("  Alice: let's ship Friday.\nBob: agreed.  \n"))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if got != "Alice: let's ship Friday.\nBob: agreed." {
		t.Errorf("unexpected text: %q", got)
	}
}

func TestExtractHTMLSkipsScriptAndStyle(t *testing.T) {
	extractor := NewTranscriptExtractor()

	page := `<!DOCTYPE html>
<html>
<head>
<title>Standup transcript</title>
<style>body { color: red; }</style>
<script>console.log("tracking");</script>
</head>
<body>
<p>Alice: the deploy is done.</p>
<p>Bob: starting the migration next.</p>
</body>
</html>`

	got, err := extractor.Extract("export.html", []byte(page))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if !strings.Contains(got, "Alice: the deploy is done.") {
		t.Errorf("missing body text: %q", got)
	}
	if !strings.Contains(got, "Bob: starting the migration next.") {
		t.Errorf("missing body text: %q", got)
	}
	if strings.Contains(got, "color: red") || strings.Contains(got, "tracking") {
		t.Errorf("style/script content leaked into transcript: %q", got)
	}
}

func TestExtractDetectsHTMLWithoutExtension(t *testing.T) {
	extractor := NewTranscriptExtractor()

	got, err := extractor.Extract("download", []byte("<html><body><p>Minutes here</p></body></html>"))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if !strings.Contains(got, "Minutes here") {
		t.Errorf("unexpected text: %q", got)
	}
}

func TestExtractRejectsBinaryGarbage(t *testing.T) {
	extractor := NewTranscriptExtractor()

	if _, err := extractor.Extract("audio.bin", []byte{0xff, 0xfe, 0x00, 0x81, 0x90}); err == nil {
		t.Error("expected invalid UTF-8 content to be rejected")
	}
}

func TestSanitizePDFTruncatesTrailingGarbage(t *testing.T) {
	content := []byte("%PDF-1.4 fake body %%EOF\nGARBAGE APPENDED BY PROXY")
	got := sanitizePDF(content)
	if string(got) != "%PDF-1.4 fake body %%EOF\n" {
		t.Errorf("unexpected sanitized content: %q", got)
	}
}

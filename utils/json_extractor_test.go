package utils

import (
	"errors"
	"testing"
)

func TestExtractJSONFromMarkdownFence(t *testing.T) {
	response := "Here are the action items:\n```json\n[{\"title\": \"Send report\"}]\n```\nLet me know if you need more."

	got, err := ExtractJSON(response)
	if err != nil {
		t.Fatalf("ExtractJSON failed: %v", err)
	}
	if got != `[{"title": "Send report"}]` {
		t.Errorf("unexpected extraction: %q", got)
	}
}

func TestExtractJSONFromProse(t *testing.T) {
	response := `Sure! The summary is {"summary": "Quarterly planning", "count": 3} as requested.`

	got, err := ExtractJSON(response)
	if err != nil {
		t.Fatalf("ExtractJSON failed: %v", err)
	}
	if got != `{"summary": "Quarterly planning", "count": 3}` {
		t.Errorf("unexpected extraction: %q", got)
	}
}

func TestExtractJSONHandlesBracketsInsideStrings(t *testing.T) {
	response := `{"note": "see [1] and {2}", "done": true}`

	got, err := ExtractJSON(response)
	if err != nil {
		t.Fatalf("ExtractJSON failed: %v", err)
	}
	if got != response {
		t.Errorf("unexpected extraction: %q", got)
	}
}

func TestExtractJSONToUnmarshals(t *testing.T) {
	response := "```json\n[{\"title\": \"Book room\", \"priority\": \"high\"}]\n```"

	var items []struct {
		Title    string `json:"title"`
		Priority string `json:"priority"`
	}
	if err := ExtractJSONTo(response, &items); err != nil {
		t.Fatalf("ExtractJSONTo failed: %v", err)
	}
	if len(items) != 1 || items[0].Title != "Book room" || items[0].Priority != "high" {
		t.Errorf("unexpected result: %+v", items)
	}
}

func TestExtractJSONRejectsPlainProse(t *testing.T) {
	_, err := ExtractJSON("I could not find any action items in this transcript.")
	if !errors.Is(err, ErrNoJSONFound) {
		t.Errorf("expected ErrNoJSONFound, got %v", err)
	}
}

package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/smartmeet/meeting-assistant-api/services/llm"
)

type fakeCompleter struct {
	content string
	err     error
	lastMsg []llm.Message
}

func (f *fakeCompleter) ChatCompletion(_ context.Context, messages []llm.Message, _ llm.Options) (*llm.Result, error) {
	f.lastMsg = messages
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Result{Content: f.content}, nil
}

func TestGenerateSummaryIncludesTranscriptInPrompt(t *testing.T) {
	completer := &fakeCompleter{content: "Executive Summary: the team aligned on the release date."}
	service := NewSummaryService(completer)

	got, err := service.GenerateSummary(context.Background(), "Alice: let's ship on Friday.", "Release planning")
	if err != nil {
		t.Fatalf("GenerateSummary failed: %v", err)
	}
	if got != "Executive Summary: the team aligned on the release date." {
		t.Errorf("unexpected summary: %q", got)
	}

	if len(completer.lastMsg) != 2 {
		t.Fatalf("expected system + user message, got %d", len(completer.lastMsg))
	}
	userPrompt := completer.lastMsg[1].Content
	if !strings.Contains(userPrompt, "Alice: let's ship on Friday.") || !strings.Contains(userPrompt, "Release planning") {
		t.Error("prompt should contain the transcript and the meeting title")
	}
}

func TestExtractActionItemsParsesFencedJSON(t *testing.T) {
	completer := &fakeCompleter{content: "Here you go:\n```json\n" +
		`[{"title": "Send release notes", "assignee": "Bob", "due_date": "2026-09-04", "priority": "high", "description": "Draft and circulate"}]` +
		"\n```"}
	service := NewSummaryService(completer)

	items, err := service.ExtractActionItems(context.Background(), "transcript text", []string{"Alice", "Bob"})
	if err != nil {
		t.Fatalf("ExtractActionItems failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected one item, got %d", len(items))
	}
	if items[0].Title != "Send release notes" || items[0].Assignee != "Bob" || items[0].Priority != "high" {
		t.Errorf("unexpected item: %+v", items[0])
	}
}

func TestExtractActionItemsToleratesUnparseableResponse(t *testing.T) {
	completer := &fakeCompleter{content: "I could not find any concrete action items in this discussion."}
	service := NewSummaryService(completer)

	items, err := service.ExtractActionItems(context.Background(), "ramble ramble", nil)
	if err != nil {
		t.Fatalf("unparseable responses must not error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected empty list, got %+v", items)
	}
}

func TestSummaryServicePropagatesCompleterErrors(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("upstream timeout")}
	service := NewSummaryService(completer)

	if _, err := service.GenerateSummary(context.Background(), "t", "m"); err == nil {
		t.Error("expected completer error to propagate")
	}
	if _, err := service.ExtractActionItems(context.Background(), "t", nil); err == nil {
		t.Error("expected completer error to propagate")
	}
}

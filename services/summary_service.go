package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/smartmeet/meeting-assistant-api/services/llm"
	"github.com/smartmeet/meeting-assistant-api/utils"
)

// Completer is the LLM surface the summary service needs
type Completer interface {
	ChatCompletion(ctx context.Context, messages []llm.Message, opts llm.Options) (*llm.Result, error)
}

// SummaryService turns meeting transcripts into summaries, action items,
// and highlights via templated prompts against a completion API.
type SummaryService struct {
	completer Completer
}

// NewSummaryService creates a new summary service
func NewSummaryService(completer Completer) *SummaryService {
	return &SummaryService{completer: completer}
}

// ExtractedActionItem is one action item pulled from a transcript
type ExtractedActionItem struct {
	Title       string `json:"title"`
	Assignee    string `json:"assignee"`
	DueDate     string `json:"due_date"`
	Priority    string `json:"priority"`
	Description string `json:"description"`
}

// GenerateSummary produces a structured meeting summary
func (s *SummaryService) GenerateSummary(ctx context.Context, transcript, meetingTitle string) (string, error) {
	prompt := fmt.Sprintf(`Generate a concise and professional summary of the following meeting transcript.

Meeting Title: %s

Transcript:
%s

Please provide:
1. Executive Summary (2-3 sentences)
2. Key Discussion Points (bullet list)
3. Decisions Made (bullet list)
4. Next Steps (bullet list)`, meetingTitle, transcript)

	result, err := s.completer.ChatCompletion(ctx, []llm.Message{
		{Role: "system", Content: "You are a professional meeting assistant. Create clear, concise, and actionable meeting summaries."},
		{Role: "user", Content: prompt},
	}, llm.Options{Temperature: 0.7, MaxTokens: 500})
	if err != nil {
		return "", fmt.Errorf("failed to generate summary: %w", err)
	}

	log.Printf("Summary generated (%d tokens)", result.Usage.TotalTokens)
	return result.Content, nil
}

// ExtractActionItems pulls structured action items out of the transcript.
// A response that cannot be parsed yields an empty list, not an error: a
// meeting without recognizable action items is a normal outcome.
func (s *SummaryService) ExtractActionItems(ctx context.Context, transcript string, participants []string) ([]ExtractedActionItem, error) {
	participantList := "team members"
	if len(participants) > 0 {
		participantList = strings.Join(participants, ", ")
	}

	prompt := fmt.Sprintf(`Extract all action items from the following meeting transcript. For each action item, identify what needs to be done, who is responsible, and when it should be completed.

Participants: %s

Transcript:
%s

Return the action items as a JSON array with this structure:
[
  {
    "title": "Action item description",
    "assignee": "Person responsible",
    "due_date": "YYYY-MM-DD",
    "priority": "high/medium/low",
    "description": "Detailed description"
  }
]

Only return valid JSON.`, participantList, transcript)

	result, err := s.completer.ChatCompletion(ctx, []llm.Message{
		{Role: "system", Content: "You are an expert at identifying action items from meeting transcripts. Always return valid JSON."},
		{Role: "user", Content: prompt},
	}, llm.Options{Temperature: 0.5, MaxTokens: 800})
	if err != nil {
		return nil, fmt.Errorf("failed to extract action items: %w", err)
	}

	var items []ExtractedActionItem
	if err := utils.ExtractJSONTo(result.Content, &items); err != nil {
		log.Printf("Failed to parse action items JSON: %v", err)
		return []ExtractedActionItem{}, nil
	}

	return items, nil
}

// GenerateKeyHighlights produces the most notable moments of the meeting
func (s *SummaryService) GenerateKeyHighlights(ctx context.Context, transcript string) (string, error) {
	prompt := fmt.Sprintf(`List the 3-5 most important highlights from the following meeting transcript as short bullet points.

Transcript:
%s`, transcript)

	result, err := s.completer.ChatCompletion(ctx, []llm.Message{
		{Role: "system", Content: "You are a professional meeting assistant. Pick only the genuinely notable moments."},
		{Role: "user", Content: prompt},
	}, llm.Options{Temperature: 0.5, MaxTokens: 300})
	if err != nil {
		return "", fmt.Errorf("failed to generate highlights: %w", err)
	}

	return result.Content, nil
}

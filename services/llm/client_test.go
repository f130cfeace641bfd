package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestChatCompletion(t *testing.T) {
	var gotAuth string
	var gotBody chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "The meeting covered the Q3 roadmap."}},
			},
			"usage": map[string]int{"prompt_tokens": 120, "completion_tokens": 30, "total_tokens": 150},
		})
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "sk-test", BaseURL: server.URL, Model: "gpt-4o-mini"})

	result, err := client.ChatCompletion(context.Background(), []Message{
		{Role: "system", Content: "You are a meeting assistant."},
		{Role: "user", Content: "Summarize this."},
	}, Options{Temperature: 0.7, MaxTokens: 500})
	if err != nil {
		t.Fatalf("ChatCompletion failed: %v", err)
	}

	if result.Content != "The meeting covered the Q3 roadmap." {
		t.Errorf("unexpected content: %q", result.Content)
	}
	if result.Usage.TotalTokens != 150 {
		t.Errorf("unexpected usage: %+v", result.Usage)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("unexpected auth header: %q", gotAuth)
	}
	if gotBody.Model != "gpt-4o-mini" || len(gotBody.Messages) != 2 {
		t.Errorf("unexpected request body: %+v", gotBody)
	}
}

func TestChatCompletionJSONMode(t *testing.T) {
	var gotBody chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "{}"}},
			},
		})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	if _, err := client.ChatCompletion(context.Background(), []Message{{Role: "user", Content: "hi"}}, Options{JSONMode: true}); err != nil {
		t.Fatalf("ChatCompletion failed: %v", err)
	}
	if gotBody.ResponseFormat == nil || gotBody.ResponseFormat.Type != "json_object" {
		t.Errorf("expected json_object response format, got %+v", gotBody.ResponseFormat)
	}
}

func TestChatCompletionSurfacesAPIErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "Rate limit reached", "type": "rate_limit_error"},
		})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	_, err := client.ChatCompletion(context.Background(), []Message{{Role: "user", Content: "hi"}}, Options{})
	if err == nil {
		t.Fatal("expected an error for a 429 response")
	}
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient(Config{APIKey: "sk"})
	if client.baseURL != DefaultBaseURL {
		t.Errorf("expected default base URL, got %s", client.baseURL)
	}
	if client.model != DefaultModel {
		t.Errorf("expected default model, got %s", client.model)
	}
}

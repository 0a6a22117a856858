package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Groq model selectors. The variant "model" column stores the short alias,
// not the provider model name.
const (
	groqModelDefault  = "llama-3.1-8b-instant"
	groqModelEnhanced = "llama-3.3-70b-versatile"
)

// ExtractedItem is one action item as returned by the LLM.
type ExtractedItem struct {
	Text     string `json:"text"`
	Assignee string `json:"assignee,omitempty"`
	Priority string `json:"priority,omitempty"`
	DueDate  string `json:"dueDate,omitempty"`
}

// Extractor pulls action items out of a transcript.
type Extractor interface {
	ExtractActionItems(ctx context.Context, transcript, model, prompt string) ([]ExtractedItem, error)
	GenerateDescription(ctx context.Context, itemText string) (string, error)
}

// GroqClient is a minimal client for Groq chat completions
type GroqClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewGroqClient creates a Groq client
func NewGroqClient(apiKey, baseURL string) *GroqClient {
	if baseURL == "" {
		baseURL = "https://api.groq.com/openai/v1"
	}
	return &GroqClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// ChatRequest is the shape for chat completion requests
type ChatRequest struct {
	Model       string      `json:"model,omitempty"`
	Messages    interface{} `json:"messages,omitempty"`
	Temperature float64     `json:"temperature,omitempty"`
	MaxTokens   int         `json:"max_tokens,omitempty"`
}

// ChatResponse is a minimal response shape
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// resolveModel maps the variant's model alias onto a Groq model name.
func resolveModel(alias string) string {
	if alias == "enhanced" {
		return groqModelEnhanced
	}
	return groqModelDefault
}

// ExtractActionItems sends the transcript through the variant's prompt and
// parses the returned JSON. A response the model mangles yields an empty
// list, not an error.
func (g *GroqClient) ExtractActionItems(ctx context.Context, transcript, model, prompt string) ([]ExtractedItem, error) {
	content, err := g.chat(ctx, resolveModel(model), fmt.Sprintf("%s\n\nTranscript:\n%s", prompt, transcript))
	if err != nil {
		return nil, err
	}

	var parsed struct {
		ActionItems []ExtractedItem `json:"actionItems"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &parsed); err != nil {
		return []ExtractedItem{}, nil
	}
	return parsed.ActionItems, nil
}

// GenerateDescription asks the LLM to expand an action item into a short
// actionable description.
func (g *GroqClient) GenerateDescription(ctx context.Context, itemText string) (string, error) {
	prompt := fmt.Sprintf(
		"Write a short, actionable description (2-3 sentences) for the following task. Reply with plain text only.\n\nTask: %s",
		itemText,
	)
	content, err := g.chat(ctx, groqModelDefault, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

func (g *GroqClient) chat(ctx context.Context, model, prompt string) (string, error) {
	reqBody := ChatRequest{
		Model:       model,
		Messages:    []map[string]string{{"role": "user", "content": prompt}},
		Temperature: 0.3,
		MaxTokens:   8000,
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := g.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("groq returned status %d", resp.StatusCode)
	}

	var cr ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", err
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("empty response from groq")
	}
	return cr.Choices[0].Message.Content, nil
}

// stripCodeFence unwraps ```json ... ``` blocks the model sometimes adds.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

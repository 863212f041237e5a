// Package ai implements the AI classification collaborator over the Gemini
// API. Malformed or invalid responses degrade to "no opinion" and are never
// surfaced as errors to the pipeline.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hareeshnagaraj/poiseed/internal/classify"
	"github.com/hareeshnagaraj/poiseed/internal/domain/model"
)

// GeminiClient talks to the Gemini generateContent endpoint.
type GeminiClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGeminiClient creates a client for the flash model.
func NewGeminiClient(apiKey string) *GeminiClient {
	return &GeminiClient{
		apiKey:  apiKey,
		baseURL: "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.5-flash:generateContent",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GeminiRequest is the request body for generateContent.
type GeminiRequest struct {
	Contents []Content `json:"contents"`
}

// Content is one message in the request.
type Content struct {
	Parts []Part `json:"parts"`
}

// Part is a text fragment.
type Part struct {
	Text string `json:"text"`
}

// GeminiResponse is the response body for generateContent.
type GeminiResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// Candidate is one generated answer.
type Candidate struct {
	Content Content `json:"content"`
}

// classificationAnswer is the JSON shape the prompt asks the model to emit.
type classificationAnswer struct {
	Category    string  `json:"category"`
	Confidence  float64 `json:"confidence"`
	Reasoning   string  `json:"reasoning"`
	IsValid     bool    `json:"is_valid"`
	Alternative string  `json:"alternative_category"`
}

// ClassifyPlace asks the model for a category suggestion. Transport errors
// are returned so the pipeline can log them; a well-formed call with a
// malformed or non-taxonomy answer returns (nil, nil).
func (c *GeminiClient) ClassifyPlace(ctx context.Context, place *model.RawPlace) (*classify.Suggestion, error) {
	prompt := buildPrompt(place)

	content, err := c.generateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	answer := parseAnswer(content)
	if answer == nil {
		return nil, nil
	}
	if !model.IsValidCategory(answer.Category) {
		return nil, nil
	}

	suggestion := &classify.Suggestion{
		Category:   model.Category(answer.Category),
		Confidence: answer.Confidence,
		Reasoning:  answer.Reasoning,
		IsValid:    answer.IsValid,
	}
	if model.IsValidCategory(answer.Alternative) {
		suggestion.Alternative = model.Category(answer.Alternative)
	}
	return suggestion, nil
}

func buildPrompt(place *model.RawPlace) string {
	var b strings.Builder
	b.WriteString("Classify this place into exactly one of these categories: ")
	for i, cat := range model.AllCategories() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(string(cat))
	}
	b.WriteString(".\n\n")
	fmt.Fprintf(&b, "Name: %s\n", place.Name)
	if place.Vicinity != "" {
		fmt.Fprintf(&b, "Vicinity: %s\n", place.Vicinity)
	}
	if len(place.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n", strings.Join(place.Tags, ", "))
	}
	if place.Rating != nil {
		fmt.Fprintf(&b, "Rating: %.1f\n", *place.Rating)
	}
	b.WriteString("\nRespond with only a JSON object: ")
	b.WriteString(`{"category": "...", "confidence": 0.0, "reasoning": "...", "is_valid": true, "alternative_category": ""}`)
	return b.String()
}

// generateContent performs one generateContent call and returns the first
// candidate's text.
func (c *GeminiClient) generateContent(ctx context.Context, prompt string) (string, error) {
	req := GeminiRequest{
		Contents: []Content{
			{
				Parts: []Part{
					{Text: prompt},
				},
			},
		},
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to serialize request: %w", err)
	}

	url := fmt.Sprintf("%s?key=%s", c.baseURL, c.apiKey)

	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("API call error (status: %d): %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var geminiResp GeminiResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no valid response was generated")
	}

	return geminiResp.Candidates[0].Content.Parts[0].Text, nil
}

// parseAnswer extracts the JSON object from the model output, tolerating
// markdown code fences. Returns nil when no parseable answer exists.
func parseAnswer(content string) *classificationAnswer {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return nil
	}

	var answer classificationAnswer
	if err := json.Unmarshal([]byte(content[start:end+1]), &answer); err != nil {
		return nil
	}
	return &answer
}

package agent

import (
	"context"
	"fmt"
	"strings"

	"kitabi-buddy/backend/internal/agent/deps"

	"google.golang.org/genai"
)

// GeminiLLMClient implements deps.LLMClient using the Gemini API directly
type GeminiLLMClient struct {
	client      *genai.Client
	model       string
	temperature float32
}

// NewGeminiLLMClient creates a new GeminiLLMClient
func NewGeminiLLMClient(client *genai.Client, model string, temperature float32) *GeminiLLMClient {
	return &GeminiLLMClient{
		client:      client,
		model:       model,
		temperature: temperature,
	}
}

// GenerateContent sends the prompt and the inline image as one user turn
func (c *GeminiLLMClient) GenerateContent(ctx context.Context, prompt string, image deps.InlineImage) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(c.temperature),
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, []*genai.Content{
		userContent(prompt, image),
	}, config)
	if err != nil {
		return "", err
	}

	text := responseText(resp)
	if text == "" {
		reason := "unknown"
		if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason != "" {
			reason = string(resp.Candidates[0].FinishReason)
		}
		return "", fmt.Errorf("no text in model response (finish reason: %s)", reason)
	}
	return text, nil
}

// userContent builds the single user turn carrying prompt and image
func userContent(prompt string, image deps.InlineImage) *genai.Content {
	return &genai.Content{
		Role: "user",
		Parts: []*genai.Part{
			{Text: prompt},
			{InlineData: &genai.Blob{MIMEType: image.MIMEType, Data: image.Data}},
		},
	}
}

// responseText joins the non-thought text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" && !part.Thought {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

package agent

import (
	"context"
	"fmt"
	"log"

	"kitabi-buddy/backend/internal/agent/deps"
	"kitabi-buddy/backend/internal/config"

	"google.golang.org/genai"
)

// NewLLMClient creates the model client selected by cfg.ModelBackend
func NewLLMClient(ctx context.Context, cfg *config.Config) (deps.LLMClient, error) {
	switch cfg.ModelBackend {
	case config.BackendADK:
		c, err := NewAgentLLMClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		log.Printf("[INFO] Using ADK runner backend model=%s", cfg.Model)
		return c, nil

	case config.BackendGenAI, "":
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create genai client: %w", err)
		}
		log.Printf("[INFO] Using genai backend model=%s", cfg.Model)
		return NewGeminiLLMClient(client, cfg.Model, cfg.ModelTemperature), nil

	default:
		return nil, fmt.Errorf("unsupported model backend %q", cfg.ModelBackend)
	}
}

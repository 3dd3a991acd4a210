package agent

import (
	"context"
	"fmt"
	"log"
	"strings"

	"kitabi-buddy/backend/internal/agent/deps"
	"kitabi-buddy/backend/internal/agent/prompt"
	"kitabi-buddy/backend/internal/config"

	"github.com/google/uuid"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"
)

const agentAppName = "kitabi_buddy"

// AgentLLMClient implements deps.LLMClient on top of an ADK runner.
// Every call gets its own throwaway session so concurrent scans never share history.
type AgentLLMClient struct {
	runner         *runner.Runner
	sessionService session.Service
}

// NewAgentLLMClient creates the cover-reading ADK agent and its runner
func NewAgentLLMClient(ctx context.Context, cfg *config.Config) (*AgentLLMClient, error) {
	geminiModel, err := gemini.NewModel(ctx, cfg.Model, &genai.ClientConfig{
		APIKey: cfg.GeminiAPIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini model: %w", err)
	}

	llmAgent, err := llmagent.New(llmagent.Config{
		Name:        "cover_reader",
		Model:       geminiModel,
		Description: "Reads the title and author from a photograph of a book cover.",
		Instruction: prompt.NewBuilder().BuildAgentInstruction(),
		GenerateContentConfig: &genai.GenerateContentConfig{
			Temperature: genai.Ptr(cfg.ModelTemperature),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM agent: %w", err)
	}

	sessionService := session.InMemoryService()

	r, err := runner.New(runner.Config{
		AppName:        agentAppName,
		Agent:          llmAgent,
		SessionService: sessionService,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create runner: %w", err)
	}

	return &AgentLLMClient{
		runner:         r,
		sessionService: sessionService,
	}, nil
}

// GenerateContent runs the agent once over the prompt and inline image
func (c *AgentLLMClient) GenerateContent(ctx context.Context, prompt string, image deps.InlineImage) (string, error) {
	userID := "scan_" + uuid.NewString()

	created, err := c.sessionService.Create(ctx, &session.CreateRequest{
		AppName: agentAppName,
		UserID:  userID,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	sessionID := created.Session.ID()

	defer func() {
		if err := c.sessionService.Delete(context.WithoutCancel(ctx), &session.DeleteRequest{
			AppName:   agentAppName,
			UserID:    userID,
			SessionID: sessionID,
		}); err != nil {
			log.Printf("[AI] Warning: Failed to delete session %s: %v", sessionID, err)
		}
	}()

	runConfig := agent.RunConfig{
		StreamingMode: agent.StreamingModeNone,
	}

	var sb strings.Builder
	for event, err := range c.runner.Run(ctx, userID, sessionID, userContent(prompt, image), runConfig) {
		if err != nil {
			return "", fmt.Errorf("agent run error: %w", err)
		}
		if event.Content == nil || event.Content.Role == "user" {
			continue
		}
		for _, part := range event.Content.Parts {
			if part != nil && part.Text != "" && !part.Thought {
				sb.WriteString(part.Text)
			}
		}
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("no response from agent")
	}
	return sb.String(), nil
}

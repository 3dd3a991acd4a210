package agent

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"math"
	"time"

	"kitabi-buddy/backend/internal/agent/deps"
	"kitabi-buddy/backend/internal/agent/prompt"
	"kitabi-buddy/backend/internal/agent/response"
	"kitabi-buddy/backend/internal/config"
	"kitabi-buddy/backend/internal/model"
)

// Recognizer extracts a book's title and author from an enhanced cover image
// with a single call to a multimodal model
type Recognizer struct {
	llm     deps.LLMClient
	prompts *prompt.Builder
	timeout time.Duration
}

// NewRecognizer creates a Recognizer calling llm, bounded by cfg.ModelTimeout
func NewRecognizer(llm deps.LLMClient, cfg *config.Config) *Recognizer {
	timeout := cfg.ModelTimeout
	if timeout <= 0 {
		timeout = config.DefaultModelTimeout
	}
	return &Recognizer{
		llm:     llm,
		prompts: prompt.NewBuilder(),
		timeout: timeout,
	}
}

// Extract encodes img, asks the model for the title and author, and parses
// the reply. It never returns an error and never panics: every failure is
// reported through the result's Error and Outcome.
func (r *Recognizer) Extract(ctx context.Context, img image.Image) (result model.RecognitionResult) {
	var start time.Time

	defer func() {
		if rec := recover(); rec != nil {
			result = r.failure(fmt.Errorf("panic: %v", rec), start)
		}
	}()

	payload, err := EncodeInline(img)
	if err != nil {
		return r.failure(err, start)
	}

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	log.Printf("[AI] Sending cover to model (jpeg=%d bytes, inline=%d chars)", len(payload.Data), payload.EncodedLen())

	start = time.Now()
	text, err := r.llm.GenerateContent(callCtx, r.prompts.BuildCoverPrompt(), payload)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			log.Printf("[AI] Model call timed out after %v", r.timeout)
		}
		if isRateLimitError(err) {
			log.Printf("[QUOTA] Gemini API rate limit exceeded")
		}
		return r.failure(err, start)
	}

	book := response.Parse(text)
	result = model.RecognitionResult{
		Title:              book.Title,
		Author:             book.Author,
		Error:              book.Error,
		Outcome:            book.Outcome,
		AIProcessingTimeMs: elapsedMs(start),
	}

	if book.Outcome != model.OutcomeSuccess {
		log.Printf("[AI] Reply not fully parsed (%s): %s", book.Outcome, truncateForLog(text, 200))
	}
	log.Printf("[PERF] Recognition %s in %dms", result.Outcome, result.AIProcessingTimeMs)
	return result
}

// failure builds the hard-failure result for err
func (r *Recognizer) failure(err error, start time.Time) model.RecognitionResult {
	log.Printf("[AI] Recognition failed: %v", err)
	return model.RecognitionResult{
		Title:              model.Unknown,
		Author:             model.Unknown,
		Error:              model.ErrAIProcessingPrefix + err.Error(),
		Outcome:            model.OutcomeFailed,
		AIProcessingTimeMs: elapsedMs(start),
	}
}

// elapsedMs returns the milliseconds since start rounded to the nearest
// integer, or 0 if the model call never started
func elapsedMs(start time.Time) int64 {
	if start.IsZero() {
		return 0
	}
	return int64(math.Round(float64(time.Since(start)) / float64(time.Millisecond)))
}

// truncateForLog truncates a string for logging purposes
func truncateForLog(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen]) + "..."
	}
	return s
}

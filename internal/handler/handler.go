package handler

import (
	"context"
	"image"

	"kitabi-buddy/backend/internal/config"
	"kitabi-buddy/backend/internal/model"
)

// Recognizer extracts book details from an enhanced cover image
type Recognizer interface {
	Extract(ctx context.Context, img image.Image) model.RecognitionResult
}

// Handler serves the book scanning API
type Handler struct {
	recognizer     Recognizer
	maxUploadBytes int64
}

// New creates a Handler. A nil recognizer leaves the service running in a
// degraded state where scans are refused.
func New(recognizer Recognizer, cfg *config.Config) *Handler {
	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = config.DefaultMaxUploadBytes
	}
	return &Handler{
		recognizer:     recognizer,
		maxUploadBytes: maxUpload,
	}
}

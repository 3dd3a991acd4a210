package deps

import (
	"context"
	"encoding/base64"
)

// InlineImage is an encoded image sent inline with a model request.
// The SDK base64-encodes Data when it serializes the request body.
type InlineImage struct {
	MIMEType string
	Data     []byte
}

// EncodedLen returns the length of the base64 text carried on the wire
func (i InlineImage) EncodedLen() int {
	return base64.StdEncoding.EncodedLen(len(i.Data))
}

// LLMClient abstracts the multimodal model call used for cover recognition
type LLMClient interface {
	GenerateContent(ctx context.Context, prompt string, image InlineImage) (string, error)
}

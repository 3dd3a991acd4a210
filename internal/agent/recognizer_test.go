package agent

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"kitabi-buddy/backend/internal/agent/deps"
	"kitabi-buddy/backend/internal/config"
	"kitabi-buddy/backend/internal/model"
)

type fakeLLM struct {
	reply  string
	err    error
	block  bool
	panics bool

	calls  int
	prompt string
	image  deps.InlineImage
}

func (f *fakeLLM) GenerateContent(ctx context.Context, prompt string, image deps.InlineImage) (string, error) {
	f.calls++
	f.prompt = prompt
	f.image = image
	if f.panics {
		panic("boom")
	}
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.reply, f.err
}

func testCover() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 16), uint8(y * 16), 90, 255})
		}
	}
	return img
}

func newTestRecognizer(llm deps.LLMClient, timeout time.Duration) *Recognizer {
	return NewRecognizer(llm, &config.Config{ModelTimeout: timeout})
}

var ignoreTiming = cmpopts.IgnoreFields(model.RecognitionResult{}, "AIProcessingTimeMs", "TotalProcessingTimeMs")

func TestRecognizerExtract(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
		want  model.RecognitionResult
	}{
		{
			name:  "plain json",
			reply: `{"title": "Dune", "author": "Frank Herbert"}`,
			want:  model.RecognitionResult{Title: "Dune", Author: "Frank Herbert", Outcome: model.OutcomeSuccess},
		},
		{
			name:  "fenced json",
			reply: "Here you go:\n```json\n{\"title\": \"Dune\", \"author\": \"Frank Herbert\"}\n```",
			want:  model.RecognitionResult{Title: "Dune", Author: "Frank Herbert", Outcome: model.OutcomeSuccess},
		},
		{
			name:  "unable to understand",
			reply: `{"title": "unable to understand", "author": "unable to understand"}`,
			want: model.RecognitionResult{
				Title: "unable to understand", Author: "unable to understand", Outcome: model.OutcomeSuccess,
			},
		},
		{
			name:  "missing author",
			reply: `{"title": "Dune"}`,
			want: model.RecognitionResult{
				Title:   model.UnknownTitle,
				Author:  model.UnknownAuthor,
				Error:   model.ErrIncompleteResponse,
				Outcome: model.OutcomeIncomplete,
			},
		},
		{
			name:  "truncated json",
			reply: `{"title": "Dune", "author": "Frank Her`,
			want: model.RecognitionResult{
				Title:   "Dune",
				Author:  model.UnknownAuthor,
				Error:   model.ErrResponseParsing,
				Outcome: model.OutcomeRecovered,
			},
		},
		{
			name: "network error",
			err:  errors.New("connection reset"),
			want: model.RecognitionResult{
				Title:   model.Unknown,
				Author:  model.Unknown,
				Error:   "AI processing error: connection reset",
				Outcome: model.OutcomeFailed,
			},
		},
		{
			name: "quota exhausted",
			err:  status.Error(codes.ResourceExhausted, "quota exceeded"),
			want: model.RecognitionResult{
				Title:   model.Unknown,
				Author:  model.Unknown,
				Error:   "AI processing error: rpc error: code = ResourceExhausted desc = quota exceeded",
				Outcome: model.OutcomeFailed,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &fakeLLM{reply: tt.reply, err: tt.err}
			got := newTestRecognizer(llm, time.Second).Extract(context.Background(), testCover())

			if diff := cmp.Diff(tt.want, got, ignoreTiming); diff != "" {
				t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
			}
			if got.AIProcessingTimeMs < 0 {
				t.Errorf("AIProcessingTimeMs = %d, want >= 0", got.AIProcessingTimeMs)
			}
			if llm.calls != 1 {
				t.Errorf("model called %d times, want 1", llm.calls)
			}
		})
	}
}

func TestRecognizerSendsPromptAndJPEG(t *testing.T) {
	llm := &fakeLLM{reply: `{"title": "Dune", "author": "Frank Herbert"}`}
	newTestRecognizer(llm, time.Second).Extract(context.Background(), testCover())

	if !strings.Contains(llm.prompt, "ONLY") || !strings.Contains(llm.prompt, `"title"`) {
		t.Errorf("prompt does not ask for the JSON reply: %q", llm.prompt)
	}
	if llm.image.MIMEType != "image/jpeg" {
		t.Errorf("MIMEType = %q, want image/jpeg", llm.image.MIMEType)
	}
	decoded, err := jpeg.Decode(bytes.NewReader(llm.image.Data))
	if err != nil {
		t.Fatalf("inline data is not a JPEG: %v", err)
	}
	if got := decoded.Bounds(); got != image.Rect(0, 0, 16, 16) {
		t.Errorf("decoded bounds = %v, want 16x16", got)
	}
}

func TestRecognizerIsRepeatable(t *testing.T) {
	llm := &fakeLLM{reply: `{"title": "Dune", "author": "Frank Herbert"}`}
	r := newTestRecognizer(llm, time.Second)
	cover := testCover()

	first := r.Extract(context.Background(), cover)
	second := r.Extract(context.Background(), cover)
	if diff := cmp.Diff(first, second, ignoreTiming); diff != "" {
		t.Errorf("repeated Extract() differs (-first +second):\n%s", diff)
	}
}

func TestRecognizerTimeout(t *testing.T) {
	llm := &fakeLLM{block: true}
	got := newTestRecognizer(llm, 20*time.Millisecond).Extract(context.Background(), testCover())

	if !got.Failed() {
		t.Fatalf("Outcome = %q, want failed", got.Outcome)
	}
	if !strings.HasPrefix(got.Error, model.ErrAIProcessingPrefix) || !strings.Contains(got.Error, "deadline exceeded") {
		t.Errorf("Error = %q, want a deadline failure", got.Error)
	}
	if got.AIProcessingTimeMs < 10 {
		t.Errorf("AIProcessingTimeMs = %d, want roughly the timeout", got.AIProcessingTimeMs)
	}
}

func TestRecognizerRecoversFromPanic(t *testing.T) {
	llm := &fakeLLM{panics: true}
	got := newTestRecognizer(llm, time.Second).Extract(context.Background(), testCover())

	want := model.RecognitionResult{
		Title:   model.Unknown,
		Author:  model.Unknown,
		Error:   "AI processing error: panic: boom",
		Outcome: model.OutcomeFailed,
	}
	if diff := cmp.Diff(want, got, ignoreTiming); diff != "" {
		t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
	}
}

func TestRecognizerRejectsMissingImage(t *testing.T) {
	tests := []struct {
		name string
		img  image.Image
	}{
		{name: "nil", img: nil},
		{name: "empty bounds", img: image.NewRGBA(image.Rect(0, 0, 0, 0))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &fakeLLM{}
			got := newTestRecognizer(llm, time.Second).Extract(context.Background(), tt.img)

			if !got.Failed() {
				t.Errorf("Outcome = %q, want failed", got.Outcome)
			}
			if got.AIProcessingTimeMs != 0 {
				t.Errorf("AIProcessingTimeMs = %d, want 0 when the model was never called", got.AIProcessingTimeMs)
			}
			if llm.calls != 0 {
				t.Errorf("model called %d times, want 0", llm.calls)
			}
		})
	}
}

func TestNewRecognizerDefaultsTimeout(t *testing.T) {
	r := NewRecognizer(&fakeLLM{}, &config.Config{})
	if r.timeout != config.DefaultModelTimeout {
		t.Errorf("timeout = %v, want %v", r.timeout, config.DefaultModelTimeout)
	}
}

func TestIsRateLimitError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{status.Error(codes.ResourceExhausted, "slow down"), true},
		{errors.New("Error 429, Message: Resource has been exhausted"), true},
		{errors.New("daily quota reached"), true},
		{status.Error(codes.Unavailable, "backend down"), false},
		{errors.New("connection reset"), false},
	}
	for _, tt := range tests {
		if got := isRateLimitError(tt.err); got != tt.want {
			t.Errorf("isRateLimitError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

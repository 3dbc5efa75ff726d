// Package summarizer produces the highlight/closing summary of a transcript. It defines a
// provider-agnostic Summarizer capability with backends for an external command, OpenAI and
// Gemini, plus a scriptable mock for tests. Prompt construction and clean-up of generated text
// live here too.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrSummarizerFailed = errors.New("summarizer request failed")
	ErrInvalidConfig    = errors.New("invalid summarizer configuration")
)

// Summarizer turns a prompt into summary text.
// A failed attempt returns an error; a successful attempt may still return empty text.
type Summarizer interface {
	Run(ctx context.Context, prompt string) (string, error)
}

// Provider names accepted by New.
const (
	ProviderCommand = "command"
	ProviderOpenAI  = "openai"
	ProviderGemini  = "gemini"
)

// Options selects and configures a backend.
type Options struct {
	Provider string

	// Command backend
	Interpreter string
	Script      string

	// API backends
	APIKey string
	Model  string

	// Timeout bounds one Run call (0 = no bound)
	Timeout time.Duration
}

// New builds the backend named by opts.Provider. An empty provider selects the command backend.
func New(ctx context.Context, opts Options) (Summarizer, error) {
	provider := strings.ToLower(strings.TrimSpace(opts.Provider))
	if provider == "" {
		provider = ProviderCommand
	}

	var (
		s   Summarizer
		err error
	)
	switch provider {
	case ProviderCommand:
		s, err = NewCommandSummarizer(opts.Interpreter, opts.Script, opts.Timeout)
	case ProviderOpenAI:
		s, err = NewOpenAISummarizer(opts.APIKey, opts.Model, opts.Timeout)
	case ProviderGemini:
		s, err = NewGeminiSummarizer(ctx, opts.APIKey, opts.Model, opts.Timeout)
	default:
		return nil, fmt.Errorf("%w: unsupported provider %q", ErrInvalidConfig, opts.Provider)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// withTimeout derives a bounded context when d > 0.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

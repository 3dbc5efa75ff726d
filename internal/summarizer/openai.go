package summarizer

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// OpenAISummarizer implements Summarizer using OpenAI's chat completions.
type OpenAISummarizer struct {
	client  openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAISummarizer creates an OpenAI-backed summarizer.
// Returns an error if the API key or model is missing.
func NewOpenAISummarizer(apiKey, model string, timeout time.Duration) (*OpenAISummarizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: missing API key (set OPENAI_API_KEY)", ErrInvalidConfig)
	}
	if model == "" {
		return nil, fmt.Errorf("%w: missing model name", ErrInvalidConfig)
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
	)

	return &OpenAISummarizer{
		client:  client,
		model:   model,
		timeout: timeout,
	}, nil
}

// Run sends the prompt to OpenAI and returns the generated text.
func (o *OpenAISummarizer) Run(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("%w: prompt cannot be empty", ErrInvalidConfig)
	}

	ctx, cancel := withTimeout(ctx, o.timeout)
	defer cancel()

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}

	completion, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSummarizerFailed, err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: no response generated", ErrSummarizerFailed)
	}

	return completion.Choices[0].Message.Content, nil
}

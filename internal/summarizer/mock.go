package summarizer

import (
	"context"
	"fmt"
	"strings"
)

// MockStep is one scripted outcome of a MockSummarizer call.
type MockStep struct {
	Text string
	Err  error
}

// MockSummarizer is a deterministic Summarizer for testing.
// Scripted steps are consumed in order; after they run out, Error or Response applies.
type MockSummarizer struct {
	// Steps are returned one per call, first to last
	Steps []MockStep

	// Response is the fixed text returned once Steps are exhausted.
	// If empty, a default summary is generated from the prompt.
	Response string

	// Error, if set, is returned once Steps are exhausted instead of a response
	Error error

	// Calls counts Run invocations
	Calls int

	// LastPrompt stores the most recent prompt passed to Run
	LastPrompt string
}

// NewMockSummarizer creates a mock returning a fixed response.
func NewMockSummarizer(response string) *MockSummarizer {
	return &MockSummarizer{Response: response}
}

// NewMockSummarizerWithError creates a mock that always fails.
func NewMockSummarizerWithError(err error) *MockSummarizer {
	return &MockSummarizer{Error: err}
}

// Run returns the next scripted step or the configured response.
func (m *MockSummarizer) Run(ctx context.Context, prompt string) (string, error) {
	m.Calls++
	m.LastPrompt = prompt

	if m.Calls <= len(m.Steps) {
		step := m.Steps[m.Calls-1]
		return step.Text, step.Err
	}

	if m.Error != nil {
		return "", m.Error
	}

	if m.Response != "" {
		return m.Response, nil
	}

	return generateMockSummary(prompt), nil
}

// generateMockSummary builds a well-formed summary that mentions the video title.
func generateMockSummary(prompt string) string {
	title := "untitled"
	if start := strings.Index(prompt, "《"); start >= 0 {
		rest := prompt[start+len("《"):]
		if end := strings.Index(rest, "》"); end >= 0 {
			title = rest[:end]
		}
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("- **%s**：影片主題概述\n", title))
	b.WriteString("- **重點**：逐字稿的主要內容\n")
	b.WriteString(fmt.Sprintf("總結：本影片《%s》的內容整理。", title))
	return b.String()
}

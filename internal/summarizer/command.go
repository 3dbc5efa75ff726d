package summarizer

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// outputMarkers prefix the stdout line naming the file that holds the generated text.
var outputMarkers = []string{"已輸出到:", "已輸出到："}

// waitDelay bounds how long Run waits for orphaned output pipes after the process is killed.
const waitDelay = time.Second

// CommandSummarizer runs an external script once per attempt, passing the prompt as its only
// argument. The script reports where it wrote its result on stdout.
type CommandSummarizer struct {
	interpreter string
	script      string
	timeout     time.Duration
}

// NewCommandSummarizer checks that script exists and returns a summarizer invoking
// "<interpreter> <script> <prompt>".
func NewCommandSummarizer(interpreter, script string, timeout time.Duration) (*CommandSummarizer, error) {
	if script == "" {
		return nil, fmt.Errorf("%w: missing summarizer script path", ErrInvalidConfig)
	}
	if _, err := os.Stat(script); err != nil {
		return nil, fmt.Errorf("%w: summarizer script not found at %s", ErrInvalidConfig, script)
	}
	if interpreter == "" {
		interpreter = "python"
	}

	return &CommandSummarizer{
		interpreter: interpreter,
		script:      script,
		timeout:     timeout,
	}, nil
}

// Run executes the script and returns the trimmed contents of the file it reports.
func (c *CommandSummarizer) Run(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.interpreter, c.script, prompt)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%w: %s exited: %w: %s", ErrSummarizerFailed, c.script, err, strings.TrimSpace(stderr.String()))
	}

	outPath := findOutputPath(stdout.String())
	if outPath == "" {
		return "", fmt.Errorf("%w: cannot locate output file from stdout: %s", ErrSummarizerFailed, strings.TrimSpace(stdout.String()))
	}

	content, err := os.ReadFile(outPath)
	if err != nil {
		return "", fmt.Errorf("%w: read output file: %w", ErrSummarizerFailed, err)
	}

	return strings.TrimSpace(string(content)), nil
}

// findOutputPath returns the path from the first output marker line, or "".
func findOutputPath(stdout string) string {
	scanner := bufio.NewScanner(strings.NewReader(stdout))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		for _, marker := range outputMarkers {
			if rest, ok := strings.CutPrefix(line, marker); ok {
				return strings.TrimSpace(rest)
			}
		}
	}
	return ""
}

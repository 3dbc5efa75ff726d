package orchestrator

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Outcome is the terminal state of one page.
type Outcome string

const (
	OutcomeDone                   Outcome = "done"
	OutcomeSkippedAlready         Outcome = "skipped_already"
	OutcomeSkippedNoTranscript    Outcome = "skipped_no_transcript"
	OutcomeSkippedEmptySummary    Outcome = "skipped_empty_summary"
	OutcomeSkippedEmptyAfterClean Outcome = "skipped_empty_after_clean"
	OutcomeFailedAfterRetry       Outcome = "failed_after_retry"
	OutcomeFailed                 Outcome = "failed"
)

// Skipped reports whether the page was left untouched on purpose.
func (o Outcome) Skipped() bool {
	return strings.HasPrefix(string(o), "skipped_")
}

// Failed reports whether the page hit an error.
func (o Outcome) Failed() bool {
	return o == OutcomeFailed || o == OutcomeFailedAfterRetry
}

// Result records what happened to one page.
type Result struct {
	PageID  string
	Title   string
	Outcome Outcome

	// Attempts is the number of summarizer calls made
	Attempts int

	Archived        int
	ArchiveFailures int
	Appended        int

	Err error
}

func (r Result) with(o Outcome) Result {
	r.Outcome = o
	return r
}

func (r Result) fail(err error) Result {
	r.Outcome = OutcomeFailed
	r.Err = err
	return r
}

// Report summarizes a batch run.
type Report struct {
	Limit      int
	Candidates int
	Results    []Result
}

// Done counts pages that reached OutcomeDone.
func (r *Report) Done() int {
	return r.Count(OutcomeDone)
}

// Count returns how many results ended in o.
func (r *Report) Count(o Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == o {
			n++
		}
	}
	return n
}

// ExportFormat represents supported export formats
type ExportFormat string

const (
	FormatJSON ExportFormat = "json"
)

// ResultExport is the serialized form of a Result
type ResultExport struct {
	PageID          string  `json:"page_id"`
	Title           string  `json:"title"`
	Outcome         Outcome `json:"outcome"`
	Attempts        int     `json:"attempts"`
	Archived        int     `json:"archived"`
	ArchiveFailures int     `json:"archive_failures"`
	Appended        int     `json:"appended"`
	Error           string  `json:"error,omitempty"`
}

// ReportExport is the serialized form of a Report
type ReportExport struct {
	Limit      int             `json:"limit"`
	Candidates int             `json:"candidates"`
	Done       int             `json:"done"`
	Results    []ResultExport  `json:"results"`
	Outcomes   map[Outcome]int `json:"outcomes"`
}

// Export writes the report in the given format (json only).
func (r *Report) Export(w io.Writer, format string) error {
	if ExportFormat(strings.ToLower(format)) != FormatJSON {
		return fmt.Errorf("unsupported export format: %s (supported: json)", format)
	}

	out := ReportExport{
		Limit:      r.Limit,
		Candidates: r.Candidates,
		Done:       r.Done(),
		Results:    make([]ResultExport, len(r.Results)),
		Outcomes:   map[Outcome]int{},
	}
	for i, res := range r.Results {
		out.Results[i] = exportResult(res)
		out.Outcomes[res.Outcome]++
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func exportResult(res Result) ResultExport {
	e := ResultExport{
		PageID:          res.PageID,
		Title:           res.Title,
		Outcome:         res.Outcome,
		Attempts:        res.Attempts,
		Archived:        res.Archived,
		ArchiveFailures: res.ArchiveFailures,
		Appended:        res.Appended,
	}
	if res.Err != nil {
		e.Error = res.Err.Error()
	}
	return e
}

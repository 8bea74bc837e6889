package scan

import (
	"time"

	"github.com/google/uuid"

	"vidsweep/internal/remediate"
)

// Report is the result of a full scan. TotalScanned counts every listed
// record, including trashed ones from earlier runs; those are not checked
// again and are also counted in Skipped.
type Report struct {
	RunID        string              `json:"run_id"`
	Timestamp    time.Time           `json:"timestamp"`
	Duration     time.Duration       `json:"duration"`
	TotalScanned int                 `json:"total_scanned"`
	Skipped      int                 `json:"skipped"`
	BrokenCount  int                 `json:"broken_count"`
	Outcomes     []remediate.Outcome `json:"broken_videos"`
	Errors       []string            `json:"errors"`
}

// BatchResult is the partial result of one page.
type BatchResult struct {
	Index     int                 `json:"index"`
	Size      int                 `json:"size"`
	Processed int                 `json:"processed"`
	Skipped   int                 `json:"skipped"`
	Broken    []remediate.Outcome `json:"broken_videos"`
	Errors    []string            `json:"errors"`
}

// Last reports whether the page was short, meaning no later page has records.
func (b BatchResult) Last() bool {
	return b.Processed < b.Size
}

func newReport(start time.Time) Report {
	return Report{
		RunID:     uuid.NewString(),
		Timestamp: start.UTC(),
		Outcomes:  []remediate.Outcome{},
		Errors:    []string{},
	}
}

// Merge folds batch results, in order, into one Report stamped with a fresh
// run id and the current time.
func Merge(results ...BatchResult) Report {
	report := newReport(time.Now())
	for _, res := range results {
		report.TotalScanned += res.Processed
		report.Skipped += res.Skipped
		report.Outcomes = append(report.Outcomes, res.Broken...)
		report.Errors = append(report.Errors, res.Errors...)
	}
	report.BrokenCount = len(report.Outcomes)
	return report
}

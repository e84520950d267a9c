package reconcile

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Stats are the counters of a run or of one target.
type Stats struct {
	Scanned        int `json:"scanned"`
	ChangedRecords int `json:"changed_records"`
	FieldChanges   int `json:"field_changes"`
	Applied        int `json:"applied"`
	Failed         int `json:"failed"`
}

func (s *Stats) add(o Stats) {
	s.Scanned += o.Scanned
	s.ChangedRecords += o.ChangedRecords
	s.FieldChanges += o.FieldChanges
	s.Applied += o.Applied
	s.Failed += o.Failed
}

// String renders the counters the way run logs print them.
func (s Stats) String() string {
	return fmt.Sprintf("scanned=%d, changed_records=%d, field_changes=%d, applied=%d, failed=%d",
		s.Scanned, s.ChangedRecords, s.FieldChanges, s.Applied, s.Failed)
}

// TargetStats are the counters of one target.
type TargetStats struct {
	Target string `json:"target"`
	Stats
	// Cursor is the last id visited in this run.
	Cursor string `json:"cursor,omitempty"`
	// ResumedFrom is the checkpoint the scan started from, if any.
	ResumedFrom string `json:"resumed_from,omitempty"`
	// Completed is true when the scan reached the end of the collection.
	Completed bool `json:"completed"`
}

// Sample is one field change kept verbatim for review. Values are rendered
// as JSON and truncated.
type Sample struct {
	Target   string `json:"target"`
	RecordID string `json:"record_id"`
	Field    string `json:"field"`
	Before   string `json:"before"`
	After    string `json:"after"`
}

// Report is the outcome of a run.
type Report struct {
	RunID        string        `json:"run_id"`
	Mode         Mode          `json:"mode"`
	State        State         `json:"state"`
	StartedAt    time.Time     `json:"started_at"`
	FinishedAt   time.Time     `json:"finished_at"`
	Targets      []TargetStats `json:"targets"`
	Total        Stats         `json:"total"`
	Samples      []Sample      `json:"samples"`
	Errors       []RecordError `json:"-"`
	TargetErrors []TargetError `json:"-"`
}

// Duration returns how long the run took.
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Interrupted reports whether the run was cancelled before it finished.
func (r *Report) Interrupted() bool {
	return r.State == StateInterrupted
}

// HasErrors reports whether any write or page read failed.
func (r *Report) HasErrors() bool {
	return r.Total.Failed > 0 || len(r.TargetErrors) > 0
}

// Err joins every recorded failure, or returns nil.
func (r *Report) Err() error {
	errs := make([]error, 0, len(r.Errors)+len(r.TargetErrors))
	for i := range r.TargetErrors {
		errs = append(errs, &r.TargetErrors[i])
	}
	for i := range r.Errors {
		errs = append(errs, &r.Errors[i])
	}
	return errors.Join(errs...)
}

// Target returns the stats of the named target.
func (r *Report) Target(name string) (TargetStats, bool) {
	for _, t := range r.Targets {
		if t.Target == name {
			return t, true
		}
	}
	return TargetStats{}, false
}

// Summary returns a one-line description of the run totals.
func (r *Report) Summary() string {
	return fmt.Sprintf("%s (%s): %s", r.State, r.Mode, r.Total)
}

type errorJSON struct {
	Target   string `json:"target"`
	RecordID string `json:"record_id,omitempty"`
	Error    string `json:"error"`
}

// MarshalJSON includes failures as plain strings.
func (r *Report) MarshalJSON() ([]byte, error) {
	type alias Report
	errs := make([]errorJSON, 0, len(r.Errors)+len(r.TargetErrors))
	for _, e := range r.TargetErrors {
		errs = append(errs, errorJSON{Target: e.Target, Error: e.Err.Error()})
	}
	for _, e := range r.Errors {
		errs = append(errs, errorJSON{Target: e.Target, RecordID: e.RecordID, Error: e.Err.Error()})
	}
	return json.Marshal(struct {
		*alias
		Duration string      `json:"duration"`
		Errors   []errorJSON `json:"errors"`
	}{
		alias:    (*alias)(r),
		Duration: r.Duration().String(),
		Errors:   errs,
	})
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

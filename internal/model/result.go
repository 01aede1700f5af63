package model

import (
	"sort"
	"time"
)

// Result is the outcome of verifying one problem inside a batch run.
type Result struct {
	// ProblemID is the caller-supplied ID or the short fingerprint.
	ProblemID string `json:"problem_id"`

	// Fingerprint is the SHA3-256 digest of the problem content.
	Fingerprint string `json:"fingerprint"`

	// Problem is the verified problem record.
	Problem *Problem `json:"problem,omitempty"`

	// Subject is the subject of the plugin that produced the verdict,
	// empty when no plugin produced one.
	Subject Subject `json:"subject,omitempty"`

	// Status is the tri-state answer status.
	Status AnswerStatus `json:"status"`

	// Verification is the full verdict, nil when unverified.
	Verification *Verification `json:"verification,omitempty"`

	// Error records a shell-level failure (e.g. storage), not a wrong answer.
	Error string `json:"error,omitempty"`

	// VerifiedAt is when verification finished.
	VerifiedAt time.Time `json:"verified_at"`

	// Duration is how long verification took.
	Duration time.Duration `json:"duration"`
}

// NewResult creates a Result for a problem with identity fields filled in.
func NewResult(p *Problem) *Result {
	return &Result{
		ProblemID:   p.DisplayID(),
		Fingerprint: p.Fingerprint(),
		Problem:     p,
		Status:      StatusNotApplicable,
	}
}

// SetVerification records the verdict and derives Subject and Status from it.
func (r *Result) SetVerification(v *Verification) {
	r.Verification = v
	r.Status = StatusOf(v)
	if v != nil {
		r.Subject = v.Subject
	} else {
		r.Subject = ""
	}
}

// Report is the outcome of one batch run.
//
// Design decision: Summary is recomputed from Results by Summarize instead of
// being updated incrementally. The batch processor fills Results concurrently
// and the summary is only needed once, when the report is rendered or saved.
type Report struct {
	// RunID identifies the run (a UUID).
	RunID string `json:"run_id"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the run ended.
	FinishedAt time.Time `json:"finished_at"`

	// Results holds one entry per problem in input order.
	Results []*Result `json:"results"`

	// Summary aggregates Results.
	Summary Summary `json:"summary"`
}

// NewReport creates an empty report for a run.
func NewReport(runID string) *Report {
	return &Report{
		RunID:     runID,
		StartedAt: time.Now(),
		Results:   make([]*Result, 0),
	}
}

// Summary holds aggregate counts for a run.
type Summary struct {
	Total      int `json:"total"`
	Matches    int `json:"matches"`
	Mismatches int `json:"mismatches"`
	Unverified int `json:"unverified"`
	Errors     int `json:"errors"`

	// BySubject counts verified problems per subject.
	BySubject map[Subject]int `json:"by_subject,omitempty"`
}

// Summarize recomputes the summary from the results.
func (r *Report) Summarize() {
	s := Summary{BySubject: make(map[Subject]int)}
	for _, res := range r.Results {
		if res == nil {
			continue
		}
		s.Total++
		if res.Error != "" {
			s.Errors++
		}
		switch res.Status {
		case StatusMatches:
			s.Matches++
		case StatusMismatch:
			s.Mismatches++
		default:
			s.Unverified++
		}
		if res.Subject != "" {
			s.BySubject[res.Subject]++
		}
	}
	r.Summary = s
}

// HasMismatches returns true if any answer was verified and wrong.
func (r *Report) HasMismatches() bool {
	for _, res := range r.Results {
		if res != nil && res.Status == StatusMismatch {
			return true
		}
	}
	return false
}

// ResultsByStatus returns all results with the given status.
func (r *Report) ResultsByStatus(status AnswerStatus) []*Result {
	var out []*Result
	for _, res := range r.Results {
		if res != nil && res.Status == status {
			out = append(out, res)
		}
	}
	return out
}

// SubjectCounts returns the per-subject totals sorted by descending count,
// then by name for a stable order.
func (s Summary) SubjectCounts() []SubjectCount {
	out := make([]SubjectCount, 0, len(s.BySubject))
	for subj, n := range s.BySubject {
		out = append(out, SubjectCount{Subject: subj, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Subject < out[j].Subject
	})
	return out
}

// SubjectCount pairs a subject with a count.
type SubjectCount struct {
	Subject Subject
	Count   int
}

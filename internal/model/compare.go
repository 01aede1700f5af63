package model

import (
	"sort"
	"time"
)

// Direction summarizes how a run changed against an earlier one.
type Direction string

const (
	// DirectionImproved means fewer wrong answers than before.
	DirectionImproved Direction = "improved"
	// DirectionWorsened means more wrong answers than before.
	DirectionWorsened Direction = "worsened"
	// DirectionUnchanged means the same number of wrong answers.
	DirectionUnchanged Direction = "unchanged"
)

// RunInfo is the identity and summary of one side of a comparison.
type RunInfo struct {
	RunID     string    `json:"run_id"`
	StartedAt time.Time `json:"started_at"`
	Summary   Summary   `json:"summary"`
}

// StatusChange records a problem whose status differs between two runs.
type StatusChange struct {
	ProblemID   string       `json:"problem_id"`
	Fingerprint string       `json:"fingerprint"`
	Subject     Subject      `json:"subject,omitempty"`
	Before      AnswerStatus `json:"before"`
	After       AnswerStatus `json:"after"`
}

// Comparison is the difference between two runs.
//
// Design decision: problems are matched by ProblemID. A corrected answer is
// re-submitted under the same ID, so matching by content fingerprint would
// report it as removed and added instead of fixed. Records without an ID
// fall back to their fingerprint prefix through DisplayID.
type Comparison struct {
	Previous RunInfo `json:"previous"`
	Current  RunInfo `json:"current"`

	// Fixed lists problems that were not matching before and match now.
	Fixed []StatusChange `json:"fixed,omitempty"`

	// Regressed lists problems that matched before and no longer do.
	Regressed []StatusChange `json:"regressed,omitempty"`

	// Changed lists every other status change.
	Changed []StatusChange `json:"changed,omitempty"`

	// Added and Removed hold problem IDs present in only one run.
	Added   []string `json:"added,omitempty"`
	Removed []string `json:"removed,omitempty"`

	UnchangedCount int       `json:"unchanged_count"`
	Direction      Direction `json:"direction"`

	// MismatchDelta is current minus previous mismatches.
	MismatchDelta int `json:"mismatch_delta"`
}

// CompareReports compares previous against current.
func CompareReports(previous, current *Report) *Comparison {
	previous.Summarize()
	current.Summarize()

	c := &Comparison{
		Previous: RunInfo{RunID: previous.RunID, StartedAt: previous.StartedAt, Summary: previous.Summary},
		Current:  RunInfo{RunID: current.RunID, StartedAt: current.StartedAt, Summary: current.Summary},
	}

	before := indexByID(previous)
	after := indexByID(current)

	for id, cur := range after {
		prev, ok := before[id]
		if !ok {
			c.Added = append(c.Added, cur.ProblemID)
			continue
		}
		if prev.Status == cur.Status {
			c.UnchangedCount++
			continue
		}
		change := StatusChange{
			ProblemID:   cur.ProblemID,
			Fingerprint: cur.Fingerprint,
			Subject:     cur.Subject,
			Before:      prev.Status,
			After:       cur.Status,
		}
		switch {
		case cur.Status == StatusMatches:
			c.Fixed = append(c.Fixed, change)
		case prev.Status == StatusMatches:
			c.Regressed = append(c.Regressed, change)
		default:
			c.Changed = append(c.Changed, change)
		}
	}
	for id, prev := range before {
		if _, ok := after[id]; !ok {
			c.Removed = append(c.Removed, prev.ProblemID)
		}
	}

	sortChanges(c.Fixed)
	sortChanges(c.Regressed)
	sortChanges(c.Changed)
	sort.Strings(c.Added)
	sort.Strings(c.Removed)

	c.MismatchDelta = current.Summary.Mismatches - previous.Summary.Mismatches
	switch {
	case c.MismatchDelta < 0:
		c.Direction = DirectionImproved
	case c.MismatchDelta > 0:
		c.Direction = DirectionWorsened
	default:
		c.Direction = DirectionUnchanged
	}
	return c
}

// HasChanges reports whether anything differs between the runs.
func (c *Comparison) HasChanges() bool {
	return len(c.Fixed)+len(c.Regressed)+len(c.Changed)+len(c.Added)+len(c.Removed) > 0
}

func indexByID(r *Report) map[string]*Result {
	out := make(map[string]*Result, len(r.Results))
	for _, res := range r.Results {
		if res != nil {
			out[res.ProblemID] = res
		}
	}
	return out
}

func sortChanges(cs []StatusChange) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].ProblemID != cs[j].ProblemID {
			return cs[i].ProblemID < cs[j].ProblemID
		}
		return cs[i].Fingerprint < cs[j].Fingerprint
	})
}

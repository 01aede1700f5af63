package model

// Subject identifies the academic domain a verification belongs to.
type Subject string

// Supported subjects, in the fixed declaration order used by the router's
// fallback pass.
const (
	SubjectAlgebra       Subject = "algebra"
	SubjectGeometry      Subject = "geometry"
	SubjectCalculus      Subject = "calculus"
	SubjectPhysics       Subject = "physics"
	SubjectCircuits      Subject = "circuits"
	SubjectThermo        Subject = "thermodynamics"
	SubjectHeatTransfer  Subject = "heat_transfer"
	SubjectFluids        Subject = "fluids"
	SubjectMaterials     Subject = "materials"
	SubjectStatics       Subject = "statics"
	SubjectChemistry     Subject = "chemistry"
	SubjectFinance       Subject = "finance"
	SubjectEconomics     Subject = "economics"
	SubjectAccounting    Subject = "accounting"
	SubjectStatistics    Subject = "statistics"
	SubjectLinearAlgebra Subject = "linear_algebra"
)

// Subjects returns every supported subject in declaration order.
func Subjects() []Subject {
	return []Subject{
		SubjectAlgebra,
		SubjectGeometry,
		SubjectCalculus,
		SubjectPhysics,
		SubjectCircuits,
		SubjectThermo,
		SubjectHeatTransfer,
		SubjectFluids,
		SubjectMaterials,
		SubjectStatics,
		SubjectChemistry,
		SubjectFinance,
		SubjectEconomics,
		SubjectAccounting,
		SubjectStatistics,
		SubjectLinearAlgebra,
	}
}

// ParseSubject resolves a subject name. It accepts the canonical names
// and a few common spellings ("thermo", "heat", "linalg", "stats").
func ParseSubject(name string) (Subject, bool) {
	switch name {
	case "thermo":
		return SubjectThermo, true
	case "heat":
		return SubjectHeatTransfer, true
	case "linalg", "linear-algebra":
		return SubjectLinearAlgebra, true
	case "stats", "probability":
		return SubjectStatistics, true
	case "heat-transfer":
		return SubjectHeatTransfer, true
	}
	for _, s := range Subjects() {
		if string(s) == name {
			return s, true
		}
	}
	return "", false
}

// Check is one atomic comparison between a recomputed value and the
// reported answer (or between the two sides of an equation).
type Check struct {
	// Label describes what was compared.
	Label string `json:"label"`

	// OK is true when the comparison passed.
	OK bool `json:"ok"`

	// LHS is the recomputed (or left-hand) value, if numeric.
	LHS *float64 `json:"lhs,omitempty"`

	// RHS is the reported (or right-hand) value, if numeric.
	RHS *float64 `json:"rhs,omitempty"`

	// Reason explains a failure, or how a pass was reached when that is
	// not obvious from the numbers.
	Reason string `json:"reason,omitempty"`
}

// NewCheck creates a Check carrying both numeric sides.
func NewCheck(label string, ok bool, lhs, rhs float64, reason string) Check {
	return Check{
		Label:  label,
		OK:     ok,
		LHS:    &lhs,
		RHS:    &rhs,
		Reason: reason,
	}
}

// FailedCheck creates a failing Check with no numeric sides.
func FailedCheck(label, reason string) Check {
	return Check{Label: label, OK: false, Reason: reason}
}

// Verification is the verdict of one domain plugin for one problem.
//
// Design decision: AllVerified is computed once in NewVerification rather
// than on demand so that the value serialized to JSON and stored in the
// database is exactly the value the engine decided on.
type Verification struct {
	// Subject is the domain of the plugin that produced the verdict.
	Subject Subject `json:"subject"`

	// Method names the technique used (e.g. "substitution", "closed-form").
	Method string `json:"method"`

	// AllVerified is true iff there is at least one check and every check passed.
	AllVerified bool `json:"all_verified"`

	// Checks is the audit trail of every comparison performed.
	Checks []Check `json:"checks"`
}

// NewVerification builds a Verification and derives AllVerified from the checks.
// It returns nil when there are no checks: absence of evidence is never
// reported as a pass or a fail.
func NewVerification(subject Subject, method string, checks []Check) *Verification {
	if len(checks) == 0 {
		return nil
	}
	all := true
	for _, c := range checks {
		if !c.OK {
			all = false
			break
		}
	}
	cs := make([]Check, len(checks))
	copy(cs, checks)
	return &Verification{
		Subject:     subject,
		Method:      method,
		AllVerified: all,
		Checks:      cs,
	}
}

// FailedChecks returns the checks that did not pass.
func (v *Verification) FailedChecks() []Check {
	var out []Check
	for _, c := range v.Checks {
		if !c.OK {
			out = append(out, c)
		}
	}
	return out
}

// AnswerStatus is the tri-state answer status the surrounding system sets
// from a verification.
type AnswerStatus string

const (
	// StatusMatches means every check passed.
	StatusMatches AnswerStatus = "matches"

	// StatusMismatch means at least one check failed.
	StatusMismatch AnswerStatus = "mismatch"

	// StatusNotApplicable means no verification was available.
	// This is "unverified", distinct from "verified and wrong".
	StatusNotApplicable AnswerStatus = ""
)

// String returns a display name for the status.
func (s AnswerStatus) String() string {
	if s == StatusNotApplicable {
		return "unverified"
	}
	return string(s)
}

// StatusOf maps a verification (possibly nil) to an answer status.
func StatusOf(v *Verification) AnswerStatus {
	switch {
	case v == nil:
		return StatusNotApplicable
	case v.AllVerified:
		return StatusMatches
	default:
		return StatusMismatch
	}
}

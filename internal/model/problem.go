package model

import (
	"encoding/hex"
	"encoding/json"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Step is one worked step of a solved problem as reported by the classifier.
// All fields are free text; any of them may be empty.
type Step struct {
	// Before is the expression or state before the step is applied.
	Before string `json:"before,omitempty" yaml:"before,omitempty"`

	// After is the expression or state after the step is applied.
	After string `json:"after,omitempty" yaml:"after,omitempty"`

	// Text is a free-form description of the step.
	Text string `json:"text,omitempty" yaml:"text,omitempty"`

	// Action names what was done (e.g. "subtract 3 from both sides").
	Action string `json:"action,omitempty" yaml:"action,omitempty"`
}

// Problem is the structured description of a solved problem.
// It is produced by an external classification step; solvecheck only
// consumes it and never validates how it was created.
type Problem struct {
	// ID is an optional caller-supplied identifier. When empty, the
	// fingerprint is used to identify the problem in reports and storage.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// Type is the classifier's subject hint (e.g. "physics"). It is used
	// only as extra routing text, never as a proof of subject identity.
	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	// Question is the problem statement.
	Question string `json:"question,omitempty" yaml:"question,omitempty"`

	// RawText is the OCR-like raw text of the captured image.
	RawText string `json:"raw_text,omitempty" yaml:"raw_text,omitempty"` //nolint:tagliatelle // upstream schema

	// Steps are the worked solution steps.
	Steps []Step `json:"steps,omitempty" yaml:"steps,omitempty"`

	// Final is the reported final answer in free text.
	Final string `json:"final,omitempty" yaml:"final,omitempty"`
}

// Fingerprint returns a stable SHA3-256 digest of the problem content.
// The ID field is excluded so that the same problem submitted under
// different identifiers is still recognized as the same problem.
func (p *Problem) Fingerprint() string {
	c := *p
	c.ID = ""
	data, err := json.Marshal(&c)
	if err != nil {
		// Problem contains only strings and slices of strings; Marshal cannot fail.
		data = []byte(c.Question + c.RawText + c.Final)
	}
	sum := sha3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// DisplayID returns the caller-supplied ID, or a short fingerprint prefix
// when no ID was supplied.
func (p *Problem) DisplayID() string {
	if id := strings.TrimSpace(p.ID); id != "" {
		return id
	}
	return p.Fingerprint()[:12]
}

// Equation is a "lhs = rhs" pair extracted from a problem.
type Equation struct {
	LHS string `json:"lhs"`
	RHS string `json:"rhs"`
}

// String renders the equation as "lhs = rhs".
func (e Equation) String() string {
	return e.LHS + " = " + e.RHS
}

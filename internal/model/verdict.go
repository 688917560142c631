package model

import (
	"fmt"
	"time"
)

// Verdict is the terminal tri-state outcome of one claim evaluation.
type Verdict string

const (
	VerdictProved    Verdict = "proved"
	VerdictDisproved Verdict = "disproved"
	VerdictUnknown   Verdict = "unknown"
)

// Attempt is the ephemeral record of one oracle query during the constant
// search. It survives only inside the run's transcript and report.
type Attempt struct {
	Piece    int    `json:"piece"`    // 1-based subrange/subdomain index
	Exponent int    `json:"exponent"` // Constant tried was 10^Exponent
	Outcome  string `json:"outcome"`  // "True", "False" or "Unknown"
}

// ProofResult is the output of a full controller run.
type ProofResult struct {
	Verdict         Verdict   `json:"verdict"`
	WitnessExponent *int      `json:"witness_exponent,omitempty"` // Set iff Verdict == proved
	Advice          string    `json:"advice,omitempty"`           // Set on unknown
	Attempts        []Attempt `json:"attempts,omitempty"`
	Transcript      []string  `json:"transcript,omitempty"`
}

// WitnessConstant renders the witness as the constant actually used in
// queries, e.g. "10^0".
func (r *ProofResult) WitnessConstant() string {
	if r.WitnessExponent == nil {
		return ""
	}
	return fmt.Sprintf("10^%d", *r.WitnessExponent)
}

// RunReport is the serializable record of one CLI invocation.
type RunReport struct {
	Claim      string        `json:"claim"`
	Kind       ClaimKind     `json:"kind"`
	Verdict    Verdict       `json:"verdict"`
	Witness    string        `json:"witness_constant,omitempty"`
	Advice     string        `json:"advice,omitempty"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration_ns"`
	Attempts   []Attempt     `json:"attempts,omitempty"`
	Transcript []string      `json:"transcript"`
}

// Package oracle defines the contracts for the two external collaborators:
// the proposal oracle that suggests decompositions and the resolution oracle
// that decides universally quantified real-domain comparisons.
//
// Both are injected interfaces. Tests supply stubs at construction time;
// nothing in this module rebinds an oracle through shared state at runtime.
package oracle

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/asymptotica/majorant/internal/model"
)

// Truth is the tri-state answer of a resolution query.
type Truth string

const (
	True    Truth = "True"
	False   Truth = "False"
	Unknown Truth = "Unknown"
)

// ParseTruth maps oracle output text onto the tri-state. Anything that is not
// a certified True or False is Unknown; it is never coerced to False.
func ParseTruth(s string) Truth {
	switch s {
	case "True":
		return True
	case "False":
		return False
	default:
		return Unknown
	}
}

// Proposer suggests candidate partitions for claims. Responses are free text
// expected to parse as a bracketed literal list; the partition validator
// tolerates or rejects what actually comes back.
type Proposer interface {
	Name() string
	ProposeSeriesPartition(ctx context.Context, claim model.SeriesBoundClaim) (string, error)
	ProposeSubdomains(ctx context.Context, claim model.InequalityClaim) (string, error)
}

// Resolver decides comparisons and evaluates batched estimate scripts.
// Calls are synchronous and may take seconds to minutes; any transport
// failure is returned as an error, which callers must treat as Unknown.
type Resolver interface {
	Name() string

	// ResolveForAll evaluates a query whose result is a boolean-like token.
	ResolveForAll(ctx context.Context, script string) (Truth, error)

	// EvaluateJSON evaluates a batched script whose result is a structured
	// payload of log lines plus per-piece estimates.
	EvaluateJSON(ctx context.Context, script string) (*EstimatePacket, error)
}

// TransportError wraps a failure to reach an oracle: process launch failure,
// network error or timeout. It is retryable at the controller level.
type TransportError struct {
	Oracle string // "proposer" or "resolver"
	Op     string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s oracle: %s: %v", e.Oracle, e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// EstimatePacket is the decoded result of a batched series evaluation:
// the accumulated log lines and either an overall certification or the
// per-piece resolution outcomes.
type EstimatePacket struct {
	Logs   []string        `json:"Logs"`
	Result json.RawMessage `json:"Result"`
}

// AllTrue reports whether the oracle certified every piece at once.
func (p *EstimatePacket) AllTrue() bool {
	var b bool
	if err := json.Unmarshal(p.Result, &b); err == nil {
		return b
	}
	return false
}

// PieceTruths returns the per-piece outcomes when the overall certification
// failed. A payload that is neither a boolean nor a list of tokens yields a
// single Unknown, never a False.
func (p *EstimatePacket) PieceTruths() []Truth {
	if p.AllTrue() {
		return nil
	}
	var tokens []json.RawMessage
	if err := json.Unmarshal(p.Result, &tokens); err != nil {
		return []Truth{Unknown}
	}
	out := make([]Truth, 0, len(tokens))
	for _, tok := range tokens {
		var s string
		if err := json.Unmarshal(tok, &s); err == nil {
			out = append(out, ParseTruth(s))
			continue
		}
		var b bool
		if err := json.Unmarshal(tok, &b); err == nil {
			if b {
				out = append(out, True)
			} else {
				out = append(out, False)
			}
			continue
		}
		// Symbolic residue such as an unresolved Resolve expression.
		out = append(out, Unknown)
	}
	return out
}

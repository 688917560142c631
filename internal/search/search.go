// Package search iterates candidate multiplicative constants C = 10^c and
// aggregates per-piece oracle verdicts into one claim-level outcome.
//
// Decision policy: a single certified False terminates the search as
// Disproved without trying larger constants. For this query family the
// dominant failure mode (a polynomial-degree mismatch inside Resolve) is
// constant-independent, so a larger constant cannot rescue a certified
// failure. The behavior is preserved from the system this tool replaces and
// is pinned by tests.
package search

import (
	"context"

	"github.com/asymptotica/majorant/internal/model"
	"github.com/asymptotica/majorant/internal/oracle"
	"github.com/asymptotica/majorant/internal/partition"
	"github.com/asymptotica/majorant/internal/query"
)

// Logf receives the deterministic transcript lines the search emits.
type Logf func(format string, args ...any)

// Outcome is the aggregate of one exponent sweep.
type Outcome struct {
	Verdict  model.Verdict
	Witness  int // Exponent that proved the claim; meaningful iff Verdict is proved
	Attempts []model.Attempt
}

// Exponents returns the inclusive ascending range [min, max].
func Exponents(min, max int) []int {
	if max < min {
		min, max = max, min
	}
	out := make([]int, 0, max-min+1)
	for c := min; c <= max; c++ {
		out = append(out, c)
	}
	return out
}

// Series sweeps the exponent range over a series claim's partition. All
// subrange estimates for one exponent travel in a single batched oracle
// round trip; the oracle's log lines are forwarded to the transcript.
// Transport errors propagate to the caller for a controller-level retry.
func Series(ctx context.Context, res oracle.Resolver, claim model.SeriesBoundClaim,
	part *partition.Series, local bool, exponents []int, logf Logf) (Outcome, error) {

	var attempts []model.Attempt
	for _, c := range exponents {
		script, err := query.SeriesEstimates(claim, part, c, local)
		if err != nil {
			return Outcome{}, err
		}
		packet, err := res.EvaluateJSON(ctx, script)
		if err != nil {
			return Outcome{Attempts: attempts}, err
		}
		for _, line := range packet.Logs {
			logf("%s", line)
		}
		if packet.AllTrue() {
			attempts = append(attempts, model.Attempt{Piece: 0, Exponent: c, Outcome: string(oracle.True)})
			logf("All estimates verified")
			return Outcome{Verdict: model.VerdictProved, Witness: c, Attempts: attempts}, nil
		}
		truths := packet.PieceTruths()
		for i, truth := range truths {
			attempts = append(attempts, model.Attempt{Piece: i + 1, Exponent: c, Outcome: string(truth)})
			if truth == oracle.False {
				logf("Subrange %d certified False under C = 10^%d", i+1, c)
				return Outcome{Verdict: model.VerdictDisproved, Attempts: attempts}, nil
			}
		}
		logf("Not verified under C = 10^%d", c)
	}
	return Outcome{Verdict: model.VerdictUnknown, Attempts: attempts}, nil
}

// Inequality sweeps the exponent range over an inequality claim's
// subdomains, one resolution query per piece. The first non-True piece ends
// the pass for that exponent; a certified False ends the whole search.
func Inequality(ctx context.Context, res oracle.Resolver, claim model.InequalityClaim,
	part *partition.Inequality, exponents []int, logf Logf) (Outcome, error) {

	var attempts []model.Attempt
	for _, c := range exponents {
		logf("Trying constant C = 10^%d", c)
		allTrue := true
		for i, sub := range part.Subdomains {
			script, err := query.WitnessBigO(claim.Variables, sub.Conjuncts, claim.LHS, claim.RHS, c)
			if err != nil {
				return Outcome{}, err
			}
			truth, err := res.ResolveForAll(ctx, script)
			if err != nil {
				return Outcome{Attempts: attempts}, err
			}
			attempts = append(attempts, model.Attempt{Piece: i + 1, Exponent: c, Outcome: string(truth)})
			logf("Subdomain %d (%s): %s", i+1, sub.Predicate(), truth)
			if truth == oracle.False {
				return Outcome{Verdict: model.VerdictDisproved, Attempts: attempts}, nil
			}
			if truth != oracle.True {
				allTrue = false
				break
			}
		}
		if allTrue {
			return Outcome{Verdict: model.VerdictProved, Witness: c, Attempts: attempts}, nil
		}
	}
	return Outcome{Verdict: model.VerdictUnknown, Attempts: attempts}, nil
}

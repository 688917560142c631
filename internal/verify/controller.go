// Package verify runs the full proof loop for one claim: request a
// decomposition proposal, validate it, sweep candidate constants against the
// resolution oracle and aggregate the per-piece verdicts.
//
// A Controller is a value per run. Independent claims may be proved
// concurrently with independent controllers; nothing here is shared.
package verify

import (
	"context"
	"errors"

	"github.com/asymptotica/majorant/internal/model"
	"github.com/asymptotica/majorant/internal/oracle"
	"github.com/asymptotica/majorant/internal/partition"
	"github.com/asymptotica/majorant/internal/search"
)

// retryAdvice is attached to every budget-exhausted Unknown result.
const retryAdvice = "Retry budget exhausted. Try a different decomposition " +
	"prompt, a wider constant range, or tighter claim conditions."

// Options configures a Controller.
type Options struct {
	Search      model.SearchConfig
	LocalOracle bool // Local transport: series scripts carry the paclet bootstrap
}

// Controller drives one claim through propose, validate, query and aggregate.
type Controller struct {
	proposer oracle.Proposer // nil means: use the trivial whole-range partition
	resolver oracle.Resolver
	opts     Options
}

// New builds a controller. The proposer may be nil, in which case every cycle
// uses the default single-piece partition. Zero search limits fall back to the
// built-in defaults.
func New(p oracle.Proposer, r oracle.Resolver, opts Options) *Controller {
	if opts.Search.MaxProposalCycles <= 0 {
		opts.Search = model.DefaultConfig().Search
	}
	return &Controller{proposer: p, resolver: r, opts: opts}
}

// ProveSeries verifies a series bound claim. The returned error is fatal
// (invalid claim); oracle failures are consumed by the retry loop and end in
// an Unknown result instead.
func (ctl *Controller) ProveSeries(ctx context.Context, claim model.SeriesBoundClaim) (*model.ProofResult, error) {
	if err := claim.Validate(); err != nil {
		return nil, err
	}
	t := &Transcript{}
	t.Logf("Series claim: Sum[%s, {%s, %s, %s}] = O(%s)",
		claim.Formula, claim.SummationIndex, claim.Bounds[0], claim.Bounds[1], claim.ConjecturedBound)

	result := &model.ProofResult{Verdict: model.VerdictUnknown}
	budget := ctl.opts.Search.MaxProposalCycles
	exponents := []int{ctl.opts.Search.SeriesExponent}

	for cycle := 1; cycle <= budget; cycle++ {
		t.Logf("Proposal cycle %d of %d", cycle, budget)

		part, retry := ctl.seriesPartition(ctx, claim, t)
		if retry {
			continue
		}
		for i, piece := range part.Pieces() {
			t.Logf("Subrange %d: %s <= %s <= %s", i+1, piece[0], claim.SummationIndex, piece[1])
		}

		out, err := search.Series(ctx, ctl.resolver, claim, part, ctl.opts.LocalOracle, exponents, t.Logf)
		result.Attempts = append(result.Attempts, out.Attempts...)
		if err != nil {
			if !retryable(err) {
				return nil, err
			}
			t.Logf("Oracle failure: %v; requesting a new partition", err)
			continue
		}
		if done := ctl.settle(result, out, t); done {
			break
		}
		if ctl.proposer == nil {
			t.Logf("No proposer configured; nothing further to try")
			break
		}
		t.Logf("Not resolved; requesting a new partition")
	}

	ctl.finish(result, t)
	return result, nil
}

// ProveInequality verifies an inequality claim. The first proposal cycle
// tries only C = 1; retry cycles widen the scan to the configured exponent
// range.
func (ctl *Controller) ProveInequality(ctx context.Context, claim model.InequalityClaim) (*model.ProofResult, error) {
	if err := claim.Validate(); err != nil {
		return nil, err
	}
	t := &Transcript{}
	t.Logf("Inequality claim: %s = O(%s) on %s", claim.LHS, claim.RHS,
		partition.Subdomain{Conjuncts: claim.Domain}.Predicate())

	result := &model.ProofResult{Verdict: model.VerdictUnknown}
	budget := ctl.opts.Search.MaxProposalCycles

	for cycle := 1; cycle <= budget; cycle++ {
		t.Logf("Proposal cycle %d of %d", cycle, budget)

		part, retry := ctl.inequalityPartition(ctx, claim, t)
		if retry {
			continue
		}
		for i, sub := range part.Subdomains {
			t.Logf("Subdomain %d: %s", i+1, sub.Predicate())
		}

		exponents := []int{0}
		if cycle > 1 {
			exponents = search.Exponents(ctl.opts.Search.MinExponent, ctl.opts.Search.MaxExponent)
		}
		out, err := search.Inequality(ctx, ctl.resolver, claim, part, exponents, t.Logf)
		result.Attempts = append(result.Attempts, out.Attempts...)
		if err != nil {
			if !retryable(err) {
				return nil, err
			}
			t.Logf("Oracle failure: %v; requesting a new partition", err)
			continue
		}
		if done := ctl.settle(result, out, t); done {
			break
		}
		if ctl.proposer == nil {
			t.Logf("No proposer configured; nothing further to try")
			break
		}
		t.Logf("Not resolved; requesting a new partition")
	}

	ctl.finish(result, t)
	return result, nil
}

// seriesPartition obtains this cycle's breakpoint partition. retry is true
// when the cycle is consumed without a usable partition.
func (ctl *Controller) seriesPartition(ctx context.Context, claim model.SeriesBoundClaim, t *Transcript) (*partition.Series, bool) {
	if ctl.proposer == nil {
		t.Logf("Using the full summation range {%s, %s}", claim.Bounds[0], claim.Bounds[1])
		return partition.DefaultSeries(claim.Bounds[0], claim.Bounds[1]), false
	}
	raw, err := ctl.proposer.ProposeSeriesPartition(ctx, claim)
	if err != nil {
		t.Logf("Proposal oracle failure: %v", err)
		return nil, true
	}
	part, err := partition.ValidateSeries(raw, claim.Bounds[0], claim.Bounds[1])
	if err != nil {
		t.Logf("Rejected proposal %q: %v", raw, err)
		return nil, true
	}
	t.Logf("Breakpoints: %s", part.List())
	return part, false
}

func (ctl *Controller) inequalityPartition(ctx context.Context, claim model.InequalityClaim, t *Transcript) (*partition.Inequality, bool) {
	if ctl.proposer == nil {
		t.Logf("Using the full base domain")
		return partition.DefaultInequality(claim.Domain), false
	}
	raw, err := ctl.proposer.ProposeSubdomains(ctx, claim)
	if err != nil {
		t.Logf("Proposal oracle failure: %v", err)
		return nil, true
	}
	part, err := partition.ValidateInequality(raw, claim.Domain)
	if err != nil {
		t.Logf("Rejected proposal %q: %v", raw, err)
		return nil, true
	}
	return part, false
}

// settle folds one sweep outcome into the result. It returns true when the
// run is terminal: proved, or disproved, which is never retried.
func (ctl *Controller) settle(result *model.ProofResult, out search.Outcome, t *Transcript) bool {
	switch out.Verdict {
	case model.VerdictProved:
		w := out.Witness
		result.Verdict = model.VerdictProved
		result.WitnessExponent = &w
		t.Logf("Proved with witness constant C = 10^%d", w)
		return true
	case model.VerdictDisproved:
		result.Verdict = model.VerdictDisproved
		t.Logf("Disproved: a piece was certified False")
		return true
	}
	return false
}

func (ctl *Controller) finish(result *model.ProofResult, t *Transcript) {
	if result.Verdict == model.VerdictUnknown {
		result.Advice = retryAdvice
		t.Logf("Verdict: unknown. %s", retryAdvice)
	} else {
		t.Logf("Verdict: %s", result.Verdict)
	}
	result.Transcript = t.Lines()
}

// retryable reports whether an oracle error should consume a proposal cycle
// rather than abort the run. Malformed proposals are filtered before queries
// are built, so only transport failures qualify; script construction errors
// are programming faults and propagate.
func retryable(err error) bool {
	var te *oracle.TransportError
	return errors.As(err, &te)
}

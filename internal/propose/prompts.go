package propose

import (
	"fmt"
	"strings"

	"github.com/asymptotica/majorant/internal/model"
)

const systemInstruction = "You decompose asymptotic-bound problems for a verification tool. " +
	"Return only a single bracketed list in Mathematica syntax. No prose, no markdown."

// SeriesPrompt asks for a minimal breakpoint list for a series claim.
func SeriesPrompt(claim model.SeriesBoundClaim) string {
	lower, upper := claim.Bounds[0], claim.Bounds[1]
	return fmt.Sprintf(`<code_editing_rules>
  <guiding_principles>
    - Be precise; avoid conflicting or circular instructions.
    - Choose natural breakpoint scales where the term behavior changes (dominance switches, monotonicity kicks in, easy comparison with p-series/geometric/integral bounds).
    - Minimize the number of breakpoints while ensuring the final bound is straightforward on each subrange.
    - Cover the full index range from %[1]s to %[2]s, with nonoverlapping, contiguous subranges.
    - Do not use Floor[]/Ceiling[]. Return natural algebraic expressions, algebraically simplified; for example Sqrt[a^2] can be written as a. Assume everything is positive.
    - Breakpoints may depend only on constants/parameters that appear in the series description.
    - Use only Mathematica-parsable expressions built from numbers, parameters, +, -, *, /, ^, Log[], Exp[], Sqrt[].
    - Output only the breakpoint list; no extra words, symbols, or justification.
  </guiding_principles>

  <task>
    We are given a series described by:
    - formula: %[3]s
    - summation index: %[4]s
    - summation bounds: [%[1]s, %[2]s]
    - conjectured upper asymptotic bound: %[5]s
    - Definition: given two functions f and g, f << g means that there exists a positive constant C>0 such that f <= C*g everywhere in the domain.

    Goal: return a minimal list of breakpoints [%[1]s, d_1, ..., d_n, %[2]s] such that proving
    Sum[formula, over each consecutive subrange] << conjectured upper asymptotic bound
    is trivial on every subrange (e.g. via a simple termwise bound, a direct comparison to a standard convergent series, or the integral test with monotonicity).
  </task>

  <requirements_for_breakpoints>
    - Start at %[1]s and end at %[2]s.
    - Strictly nondecreasing between the endpoints.
    - Each d_i must be a closed-form expression in the series parameters, using only the allowed constructors above.
    - Prefer canonical scales (powers/roots of parameters, thresholds defined by equating dominant terms) that make comparisons immediate.
    - Keep the list as short as possible while preserving triviality of the bound on each subrange.
  </requirements_for_breakpoints>

  <output_format>
    [%[1]s, d1, d2, ..., %[2]s]
  </output_format>
</code_editing_rules>`,
		lower, upper, claim.Formula, claim.SummationIndex, claim.ConjecturedBound)
}

// SubdomainPrompt asks for a covering list of subdomains on which an
// inequality claim becomes trivial.
func SubdomainPrompt(claim model.InequalityClaim) string {
	baseClause := "True"
	domainForPrompt := "True"
	outputFormat := "[subdomain1, subdomain2, ...]"
	if len(claim.Domain) > 0 {
		baseClause = strings.Join(claim.Domain, " && ")
		domainForPrompt = strings.Join(claim.Domain, ", ")
		outputFormat = fmt.Sprintf("[%[1]s && subdomain1, %[1]s && subdomain2, ...]", baseClause)
	}
	return fmt.Sprintf(`<code_editing_rules>
  <guiding_principles>
    - Be precise, avoid conflicting instructions
    - Use natural subdomains so the inequality proof is trivial
    - Minimize the number of subdomains while covering the whole domain
    - Output only Mathematica-parsable inequalities using <, >, <=, >=, Log[], Exp[]
  </guiding_principles>

  <task>
    Given domain: %s
    Inequality: %s <= %s
    Return a list of subdomains whose union is the domain and on which the proof is trivial.
    Find the simplest subdomains. Prioritize simplicity.
  </task>

  <output_format>
    %s
  </output_format>
</code_editing_rules>`,
		domainForPrompt, claim.LHS, claim.RHS, outputFormat)
}

package model

import (
	"fmt"
	"regexp"
	"strings"
)

// SeriesBoundClaim asserts that an infinite series is bounded above by a
// conjectured expression, up to a positive multiplicative constant.
//
// All expression fields use the resolution oracle grammar: infix + - * / ^,
// the heads Log[], Exp[], Sqrt[], the literal Infinity, and && conjunction.
type SeriesBoundClaim struct {
	Formula         string    `json:"formula" yaml:"formula"`                   // Summand in terms of the index
	SummationIndex  string    `json:"summation_index" yaml:"summation_index"`   // Single symbol, e.g. "d"
	OtherVariables  []string  `json:"other_variables" yaml:"other_variables"`   // Free parameters
	Conditions      string    `json:"conditions" yaml:"conditions"`             // Domain predicate, "" or "True" when unconstrained
	Bounds          [2]string `json:"summation_bounds" yaml:"summation_bounds"` // Lower, upper; signed infinities allowed
	ConjecturedBound string   `json:"conjectured_bound" yaml:"conjectured_bound"`
}

// InequalityClaim asserts that there is a constant C > 0 with lhs <= C*rhs
// for every assignment of the variables satisfying the domain.
type InequalityClaim struct {
	Variables []string `json:"variables" yaml:"variables"`
	Domain    []string `json:"domain" yaml:"domain"` // Conjuncts; empty means unconstrained
	LHS       string   `json:"lhs" yaml:"lhs"`
	RHS       string   `json:"rhs" yaml:"rhs"`
}

// ClaimKind tags the two claim shapes for reports and the CLI.
type ClaimKind string

const (
	KindSeries     ClaimKind = "series"
	KindInequality ClaimKind = "inequality"
)

var symbolPattern = regexp.MustCompile(`[A-Za-z][A-Za-z0-9_]*`)

// reservedHeads are grammar words, not free variables.
var reservedHeads = map[string]bool{
	"Log": true, "Exp": true, "Sqrt": true, "Integrate": true,
	"Infinity": true, "True": true, "E": true, "Pi": true,
}

// Symbols returns the free symbols appearing in expr, in first-seen order.
func Symbols(expr string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, s := range symbolPattern.FindAllString(expr, -1) {
		if reservedHeads[s] || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// Validate checks the structural invariants of a series claim: non-empty
// formula, index and bounds, and every symbol of the formula and conjectured
// bound drawn from {index} ∪ other variables.
func (c SeriesBoundClaim) Validate() error {
	if strings.TrimSpace(c.Formula) == "" {
		return fmt.Errorf("series claim: empty formula")
	}
	if strings.TrimSpace(c.SummationIndex) == "" {
		return fmt.Errorf("series claim: empty summation index")
	}
	if strings.TrimSpace(c.Bounds[0]) == "" || strings.TrimSpace(c.Bounds[1]) == "" {
		return fmt.Errorf("series claim: both summation bounds are required")
	}
	allowed := map[string]bool{c.SummationIndex: true}
	for _, v := range c.OtherVariables {
		allowed[v] = true
	}
	for _, expr := range []string{c.Formula, c.ConjecturedBound} {
		for _, sym := range Symbols(expr) {
			if !allowed[sym] {
				return fmt.Errorf("series claim: symbol %q is neither the index nor a declared variable", sym)
			}
		}
	}
	return nil
}

// BaseAssumptions renders the predicate every subrange query assumes: the
// index made positive, conjoined with the claim's conditions.
func (c SeriesBoundClaim) BaseAssumptions() string {
	parts := []string{c.SummationIndex + ">1"}
	if cond := strings.TrimSpace(c.Conditions); cond != "" && cond != "True" {
		parts = append(parts, cond)
	}
	return strings.Join(parts, " && ")
}

// Validate checks the structural invariants of an inequality claim.
func (c InequalityClaim) Validate() error {
	if strings.TrimSpace(c.LHS) == "" || strings.TrimSpace(c.RHS) == "" {
		return fmt.Errorf("inequality claim: both sides are required")
	}
	if len(c.Variables) == 0 {
		return fmt.Errorf("inequality claim: at least one variable is required")
	}
	allowed := make(map[string]bool, len(c.Variables))
	for _, v := range c.Variables {
		allowed[v] = true
	}
	for _, expr := range append([]string{c.LHS, c.RHS}, c.Domain...) {
		for _, sym := range Symbols(expr) {
			if !allowed[sym] {
				return fmt.Errorf("inequality claim: symbol %q is not a declared variable", sym)
			}
		}
	}
	return nil
}

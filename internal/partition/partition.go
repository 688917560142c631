// Package partition turns raw decomposition proposals into validated
// partitions of a claim's summation range or base domain.
//
// Coverage of the base domain by the union of subdomains is trusted, not
// mechanically verified; the transcript records every piece so a reviewer can
// audit the proposer's coverage claim.
package partition

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/asymptotica/majorant/internal/expr"
)

// Reason names the distinct malformation classes.
type Reason string

const (
	ReasonEmpty      Reason = "empty"
	ReasonUnbalanced Reason = "unbalanced"
	ReasonNotAList   Reason = "not_a_list"
	ReasonUnordered  Reason = "unordered"
)

// MalformedError reports an unusable proposal. It is non-fatal: the
// verification controller converts it into one consumed proposal cycle.
type MalformedError struct {
	Reason Reason
	Detail string
}

func (e *MalformedError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("malformed partition proposal: %s", e.Reason)
	}
	return fmt.Sprintf("malformed partition proposal: %s: %s", e.Reason, e.Detail)
}

func malformedFrom(err error) *MalformedError {
	if te, ok := err.(*expr.TokenizeError); ok {
		switch te.Reason {
		case expr.ReasonEmpty:
			return &MalformedError{Reason: ReasonEmpty}
		case expr.ReasonUnbalanced:
			return &MalformedError{Reason: ReasonUnbalanced, Detail: te.Detail}
		default:
			return &MalformedError{Reason: ReasonNotAList, Detail: te.Detail}
		}
	}
	return &MalformedError{Reason: ReasonNotAList, Detail: err.Error()}
}

// Series is a validated ordered breakpoint sequence. Breakpoints[0] equals
// the claim's lower bound and the final element its upper bound.
type Series struct {
	Breakpoints []string
}

// Pieces returns the consecutive subranges [b_i, b_{i+1}].
func (p *Series) Pieces() [][2]string {
	out := make([][2]string, 0, len(p.Breakpoints)-1)
	for i := 0; i+1 < len(p.Breakpoints); i++ {
		out = append(out, [2]string{p.Breakpoints[i], p.Breakpoints[i+1]})
	}
	return out
}

// List renders the breakpoints as a brace list, the form re-validation and
// the query builder consume.
func (p *Series) List() string {
	return expr.BraceList(p.Breakpoints)
}

// DefaultSeries is the partition used when no proposal is available: the
// single subrange spanning the claim's bounds.
func DefaultSeries(lower, upper string) *Series {
	return &Series{Breakpoints: []string{lower, upper}}
}

// ValidateSeries tokenizes a raw breakpoint proposal and anchors it to the
// claim's bounds, inserting either endpoint the proposer omitted. Numeric
// breakpoints must be nondecreasing; symbolic breakpoints are accepted as-is
// (their ordering is delegated to the resolution oracle's assumptions).
func ValidateSeries(raw, lower, upper string) (*Series, error) {
	items, err := expr.SplitList(raw)
	if err != nil {
		return nil, malformedFrom(err)
	}
	points := make([]string, 0, len(items)+2)
	for _, it := range items {
		points = append(points, expr.NormalizeHeads(it))
	}
	if len(points) == 0 || points[0] != lower {
		points = append([]string{lower}, points...)
	}
	if points[len(points)-1] != upper {
		points = append(points, upper)
	}
	if err := checkNumericOrder(points); err != nil {
		return nil, err
	}
	return &Series{Breakpoints: points}, nil
}

func checkNumericOrder(points []string) error {
	prev := 0.0
	havePrev := false
	for _, p := range points {
		v, ok := numericValue(p)
		if !ok {
			havePrev = false
			continue
		}
		if havePrev && v < prev {
			return &MalformedError{Reason: ReasonUnordered,
				Detail: fmt.Sprintf("numeric breakpoint %s after %g", p, prev)}
		}
		prev, havePrev = v, true
	}
	return nil
}

func numericValue(s string) (float64, bool) {
	switch s {
	case "Infinity":
		return 0, false // Always last by construction; skip
	case "-Infinity":
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v, err == nil
}

// Subdomain is one evaluable piece of an inequality claim's domain: the base
// conjuncts followed by the proposer's restriction, deduplicated.
type Subdomain struct {
	Conjuncts []string
}

// Predicate renders the subdomain as a single && conjunction.
func (s Subdomain) Predicate() string {
	return strings.Join(s.Conjuncts, " && ")
}

// Inequality is a validated subdomain list for an inequality claim.
type Inequality struct {
	Base       []string
	Subdomains []Subdomain
}

// DefaultInequality is the partition used when no proposal is available:
// the single subdomain covering the whole base domain.
func DefaultInequality(base []string) *Inequality {
	conjuncts := expr.DedupePreserve(append([]string{}, base...))
	if len(conjuncts) == 0 {
		conjuncts = []string{"True"}
	}
	return &Inequality{
		Base:       append([]string{}, base...),
		Subdomains: []Subdomain{{Conjuncts: conjuncts}},
	}
}

// echoedBase matches a leading brace-wrapped group followed by &&, the shape
// chat models use when they repeat the base domain before the actual
// restriction: "{x>0, y>1} && ...".
var echoedBase = regexp.MustCompile(`^(\{[^{}]*\})\s*&&\s*`)

// stripEchoedBase removes the leading brace group only when its conjuncts are
// exactly the base conjuncts. A genuine brace-wrapped restriction such as
// "{x>5} && y<2" is kept intact; an unmatched group stays in the predicate,
// which at worst restates part of the base domain.
func stripEchoedBase(s string, base []string) string {
	m := echoedBase.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	items, err := expr.SplitList(m[1])
	if err != nil {
		return s
	}
	var got []string
	for _, it := range items {
		got = append(got, expr.SplitConjuncts(expr.NormalizeHeads(it))...)
	}
	if len(got) != len(base) {
		return s
	}
	for i := range got {
		if squash(got[i]) != squash(base[i]) {
			return s
		}
	}
	return s[len(m[0]):]
}

func squash(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), " ", "")
}

// ValidateInequality tokenizes a raw subdomain proposal and produces concrete
// evaluable predicate sets: for each proposed restriction the base domain is
// stripped if echoed, conjuncts are deduplicated preserving first-seen order,
// and the base conjuncts are prepended.
func ValidateInequality(raw string, base []string) (*Inequality, error) {
	items, err := expr.SplitList(raw)
	if err != nil {
		return nil, malformedFrom(err)
	}
	if len(items) == 0 {
		return nil, &MalformedError{Reason: ReasonEmpty, Detail: "no subdomains proposed"}
	}
	subs := make([]Subdomain, 0, len(items))
	for _, it := range items {
		s := stripEchoedBase(strings.TrimSpace(it), base)
		if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
			s = strings.TrimSpace(s[1 : len(s)-1])
		}
		s = expr.NormalizeHeads(s)
		parts := expr.SplitConjuncts(s)
		for i, p := range parts {
			// Braces are list syntax, never valid inside a conjunct.
			if strings.HasPrefix(p, "{") && strings.HasSuffix(p, "}") {
				parts[i] = strings.TrimSpace(p[1 : len(p)-1])
			}
		}
		conjuncts := append(append([]string{}, base...), parts...)
		conjuncts = expr.DedupePreserve(conjuncts)
		if len(conjuncts) == 0 {
			return nil, &MalformedError{Reason: ReasonEmpty, Detail: "empty subdomain predicate"}
		}
		subs = append(subs, Subdomain{Conjuncts: conjuncts})
	}
	return &Inequality{Base: append([]string{}, base...), Subdomains: subs}, nil
}

// List renders the subdomains as the bracketed literal form the validator
// accepts, so that re-validation is a fixed point.
func (p *Inequality) List() string {
	parts := make([]string, len(p.Subdomains))
	for i, s := range p.Subdomains {
		parts[i] = s.Predicate()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

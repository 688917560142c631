// Package catalog holds the built-in named claims the CLI can prove without
// a claim file.
package catalog

import (
	"fmt"

	"github.com/asymptotica/majorant/internal/model"
)

// Entry is one named claim. Exactly one of Series and Inequality is set,
// matching Kind.
type Entry struct {
	Name       string
	Kind       model.ClaimKind
	Series     *model.SeriesBoundClaim
	Inequality *model.InequalityClaim
}

// Describe renders the claim in the bound notation used in reports.
func (e Entry) Describe() string {
	if e.Kind == model.KindSeries {
		c := e.Series
		return fmt.Sprintf("Sum[%s, {%s, %s, %s}] = O(%s)",
			c.Formula, c.SummationIndex, c.Bounds[0], c.Bounds[1], c.ConjecturedBound)
	}
	c := e.Inequality
	return fmt.Sprintf("%s = O(%s)", c.LHS, c.RHS)
}

var entries = []Entry{
	{
		Name: "series_1",
		Kind: model.KindSeries,
		Series: &model.SeriesBoundClaim{
			Formula:          "(2*d+1)/(2*h^2*(1+d*(d+1)/(h^2))*(1+d*(d+1)/(h^2*m^2))^2)",
			SummationIndex:   "d",
			OtherVariables:   []string{"h", "m"},
			Conditions:       "h > 1 && m > 1",
			Bounds:           [2]string{"0", "Infinity"},
			ConjecturedBound: "1+Log[m^2]",
		},
	},
	{
		Name: "series_2",
		Kind: model.KindSeries,
		Series: &model.SeriesBoundClaim{
			Formula:          "2^(((d/p) + 1 - a)*j)*Integrate[Exp[-2^(j)*s]*s^a/(1 + s^(2*a)), {s, 0, Infinity}]",
			SummationIndex:   "j",
			OtherVariables:   []string{"a", "d", "p", "s"}, // s is the integration dummy
			Conditions:       "d>1 && p>1 && a>d/p",
			Bounds:           [2]string{"-Infinity", "Infinity"},
			ConjecturedBound: "1",
		},
	},
	{
		Name: "inequality_1",
		Kind: model.KindInequality,
		Inequality: &model.InequalityClaim{
			Variables: []string{"x", "y"},
			Domain:    []string{"x>0", "y>1"},
			LHS:       "x*y",
			RHS:       "y*Log[y]+Exp[x]",
		},
	},
	{
		// AM-GM, three variables.
		Name: "inequality_2",
		Kind: model.KindInequality,
		Inequality: &model.InequalityClaim{
			Variables: []string{"x", "y", "z"},
			Domain:    []string{"x>0", "y>0", "z>0"},
			LHS:       "(x*y*z)^(1/3)",
			RHS:       "(x+y+z)/3",
		},
	},
	{
		// AM-GM, two variables.
		Name: "inequality_3",
		Kind: model.KindInequality,
		Inequality: &model.InequalityClaim{
			Variables: []string{"x", "y"},
			Domain:    []string{"x>0", "y>0"},
			LHS:       "(x*y)^(1/2)",
			RHS:       "(x+y)/2",
		},
	},
	{
		// x^2 is not O(x) on x>1; expected Disproved.
		Name: "inequality_4",
		Kind: model.KindInequality,
		Inequality: &model.InequalityClaim{
			Variables: []string{"x"},
			Domain:    []string{"x>1"},
			LHS:       "x^2",
			RHS:       "x",
		},
	},
}

// Names lists the catalog in definition order.
func Names() []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

// Lookup finds a catalog entry by name.
func Lookup(name string) (Entry, bool) {
	for _, e := range entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// All returns every entry in definition order.
func All() []Entry {
	return append([]Entry(nil), entries...)
}

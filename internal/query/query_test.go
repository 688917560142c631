package query

import (
	"strings"
	"testing"

	"github.com/asymptotica/majorant/internal/model"
	"github.com/asymptotica/majorant/internal/partition"
)

func TestWitnessBigO(t *testing.T) {
	script, err := WitnessBigO(
		[]string{"x", "y"},
		[]string{"x>0", "y>1", "x <= 2*log[y]"},
		"x*y", "y*log[y]+exp[x]", 0)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"witnessBigOAny[{x, y}, {x>0, y>1, x <= 2*Log[y]}, x*y, y*Log[y]+Exp[x], 0]",
		"Resolve[ForAll[vars, Implies[S, lhs <= 10^c*rhs]], Reals]",
	} {
		if !strings.Contains(script, want) {
			t.Errorf("script missing %q\n%s", want, script)
		}
	}
	if strings.Contains(script, "exp[") || strings.Contains(script, "log[") {
		t.Error("lowercase heads survived normalization")
	}
}

func TestWitnessBigO_PermutationFallback(t *testing.T) {
	script, err := WitnessBigO([]string{"x", "y"}, []string{"x>0"}, "x", "y", 0)
	if err != nil {
		t.Fatal(err)
	}

	// Reordered quantifiers may promote an unresolved result to True, but a
	// False or residue from the natural order must come back unchanged.
	for _, want := range []string{
		"AnyTrue[Rest[Permutations[vars]]",
		"If[TrueQ[r] || Length[vars] < 2, r,",
		"&], True, r]]]",
	} {
		if !strings.Contains(script, want) {
			t.Errorf("script missing %q\n%s", want, script)
		}
	}
	if !strings.HasSuffix(script, ", 0]") {
		t.Errorf("script does not end with the call line:\n%s", script)
	}
}

func TestWitnessBigO_EmptyDomain(t *testing.T) {
	script, err := WitnessBigO([]string{"x"}, nil, "x", "x", 2)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(script, "witnessBigOAny[{x}, {}, x, x, 2]") {
		t.Errorf("unexpected call line:\n%s", script)
	}
}

func TestWitnessBigO_RejectsNonASCII(t *testing.T) {
	if _, err := WitnessBigO([]string{"x"}, nil, "x", "x ≤ y", 0); err == nil {
		t.Error("expected non-ASCII rejection")
	}
}

func TestWitnessBigO_RejectsUnbalanced(t *testing.T) {
	if _, err := WitnessBigO([]string{"x"}, []string{"x > Log[1"}, "x", "x", 0); err == nil {
		t.Error("expected unbalanced rejection")
	}
}

func seriesClaim() model.SeriesBoundClaim {
	return model.SeriesBoundClaim{
		Formula:          "(2*d+1)/(2*h^2*(1+d*(d+1)/(h^2))*(1+d*(d+1)/(h^2*m^2))^2)",
		SummationIndex:   "d",
		OtherVariables:   []string{"h", "m"},
		Conditions:       "h > 1 && m > 1",
		Bounds:           [2]string{"0", "Infinity"},
		ConjecturedBound: "1+Log[m^2]",
	}
}

func TestSeriesEstimates(t *testing.T) {
	claim := seriesClaim()
	p, err := partition.ValidateSeries("[0, h, h*m, Infinity]", "0", "Infinity")
	if err != nil {
		t.Fatal(err)
	}

	script, err := SeriesEstimates(claim, p, 0, true)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"baseAssumptions = d>1 && h > 1 && m > 1;",
		"calculateEstimates[" + claim.Formula + ", baseAssumptions, {0, h, h*m, Infinity}]",
		"baseAssums && d > #[[1]] && d < #[[2]]",
		`log["Trying constant C = " <> ToString[10^0, InputForm]];`,
		"Implies[h > 1 && m > 1, # <= 10^0*(1+Log[m^2])]",
		`"Logs" -> logMessages`,
		`Needs["PacletManager` + "`" + `"];`,
	} {
		if !strings.Contains(script, want) {
			t.Errorf("script missing %q", want)
		}
	}
}

func TestSeriesEstimates_CloudPaclets(t *testing.T) {
	claim := seriesClaim()
	p := partition.DefaultSeries("0", "Infinity")

	script, err := SeriesEstimates(claim, p, 1, false)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(script, "PacletInstall") {
		t.Error("cloud script should not install paclets")
	}
	if !strings.Contains(script, "10^1") {
		t.Error("exponent not embedded")
	}
}

func TestSeriesEstimates_UnconstrainedDomain(t *testing.T) {
	claim := model.SeriesBoundClaim{
		Formula:          "1/d^4",
		SummationIndex:   "d",
		Conditions:       "True",
		Bounds:           [2]string{"1", "Infinity"},
		ConjecturedBound: "1",
	}
	p := partition.DefaultSeries("1", "Infinity")
	script, err := SeriesEstimates(claim, p, 0, false)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(script, "baseAssumptions = d>1;") {
		t.Errorf("unexpected base assumptions:\n%s", script)
	}
	if !strings.Contains(script, "Implies[True, # <= 10^0*(1)]") {
		t.Error("empty condition should resolve under True")
	}
}

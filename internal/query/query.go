// Package query builds the symbolic verification requests sent to the
// resolution oracle. The builder guarantees syntactic well-formedness of the
// emitted text (balanced delimiters, ASCII operators); semantic correctness
// is the oracle's responsibility.
package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/asymptotica/majorant/internal/expr"
	"github.com/asymptotica/majorant/internal/model"
	"github.com/asymptotica/majorant/internal/partition"
)

// WitnessBigO builds the direct resolution query for one inequality piece:
// does lhs <= 10^c * rhs hold for all variables under the conjuncts?
//
// Resolve can be sensitive to quantifier ordering: a predicate it leaves
// unresolved under the natural variable order sometimes certifies under a
// permutation. When the natural order does not yield True the script tries
// the remaining permutations, promoting to True if any succeeds and keeping
// the natural order's result otherwise, so a certified False or an
// unresolved residue survives unchanged.
func WitnessBigO(vars []string, conjuncts []string, lhs, rhs string, c int) (string, error) {
	lhsWL := expr.NormalizeHeads(lhs)
	rhsWL := expr.NormalizeHeads(rhs)
	conds := make([]string, len(conjuncts))
	for i, p := range conjuncts {
		conds[i] = expr.NormalizeHeads(p)
	}

	script := fmt.Sprintf(`witnessBigO[vars_, conds_, lhs_, rhs_, c_] :=
  Module[{S}, S = If[conds === {}, True, And @@ conds];
   Resolve[ForAll[vars, Implies[S, lhs <= 10^c*rhs]], Reals]];

witnessBigOAny[vars_, conds_, lhs_, rhs_, c_] :=
  Module[{r}, r = witnessBigO[vars, conds, lhs, rhs, c];
   If[TrueQ[r] || Length[vars] < 2, r,
    If[AnyTrue[Rest[Permutations[vars]],
      TrueQ@witnessBigO[#, conds, lhs, rhs, c] &], True, r]]];

witnessBigOAny[%s, %s, %s, %s, %d]`,
		expr.BraceList(vars), expr.BraceList(conds), lhsWL, rhsWL, c)

	if err := checkWellFormed(script); err != nil {
		return "", err
	}
	return script, nil
}

// seriesTemplate is the batched estimate script: per-subrange dominant-term
// reduction of the summand, integral estimates over each subrange, and a
// final resolution of every estimate against the conjectured bound. The
// oracle returns the accumulated log lines together with either an overall
// certification or the per-piece outcomes.
const seriesTemplate = `Clear[LeadingSummand, DominancePiecewise, expandPowersInProductNoNumbers,
 reducedFormIndexed, createAssums, calculateEstimates];

logMessages = Table[Null, 0];
log[s_String] := AppendTo[logMessages, s];
logForm[label_String, e_] := log[label <> ": " <> ToString[e, InputForm]];

@PACLETS@

termsOfSum[e_] :=
 Module[{x = Expand[e]}, If[Head[x] === Plus, List @@ x, {x}]];

LeadingSummand[sum_, assum_] :=
 Module[{terms, vars, dominatesQ, winners},
  terms = DeleteCases[termsOfSum[sum], 0];
  If[terms === {}, Return[0]];
  If[Length[terms] == 1, Return[First[terms]]];
  vars = Variables[{sum, assum}];
  dominatesQ[t_] :=
   Resolve[ForAll[vars,
     Implies[assum, And @@ Thread[t >= DeleteCases[terms, t, 1, 1]]]], Reals];
  winners = Select[terms, TrueQ@dominatesQ[#] &];
  Which[winners =!= {}, First[winners], True,
   Simplify[DominancePiecewise[terms, assum, vars], assum]]];

DominancePiecewise[terms_, assum_, vars_] :=
 Module[{conds},
  conds = Table[
    Reduce[assum && And @@ Thread[ti >= DeleteCases[terms, ti, 1, 1]],
     vars, Reals], {ti, terms}];
  Piecewise[Transpose[{terms, conds}]]];

expandPowersInProductNoNumbers[e_] :=
 Module[{factors},
  factors = If[Head[e] === Times, List @@ e, {e}];
  factors = factors /. Power[base_, n_Integer?Positive] :> ConstantArray[base, n];
  factors = Flatten[factors];
  Select[factors, Not@*NumericQ]];

reducedFormIndexed[e_, assum_, idx_] :=
 Module[{numr, denr, simpn, simpd},
  numr = expandPowersInProductNoNumbers@
    Numerator@Simplify[e, Assumptions -> assum];
  denr = expandPowersInProductNoNumbers@
    Denominator@Simplify[e, Assumptions -> assum];
  simpn = Times @@ (LeadingSummand[#, assum] & /@ numr);
  simpd = Times @@ (LeadingSummand[#, assum] & /@ denr);
  logForm["  Numerator factors", numr];
  logForm["  Denominator factors", denr];
  logForm["  Leading term in numerator in subdomain_" <> ToString[idx], simpn];
  logForm["  Leading term in denominator in subdomain_" <> ToString[idx], simpd];
  Simplify[simpn/simpd, Assumptions -> assum]];

createAssums[baseAssums_, points_] :=
 Module[{p}, p = Partition[points, 2, 1];
  baseAssums && @INDEX@ > #[[1]] && @INDEX@ < #[[2]] & /@ p];

calculateEstimates[e_, baseAssums_, points_] :=
 Module[{assums, part},
  assums = createAssums[baseAssums, points];
  part = Prepend[#, @INDEX@] & /@ Partition[points, 2, 1];
  log["== Verification run =="];
  logForm["Formula", e];
  logForm["Base assumptions", baseAssums];
  logForm["Breakpoints", points];
  Do[logForm["Subdomain " <> ToString[i], assums[[i]]], {i, Length[assums]}];
  MapThread[
   Integrate[reducedFormIndexed[e, #1, #3], #2, Assumptions -> #1] &,
   {assums, part, Range[Length[assums]]}]];

baseAssumptions = @BASE@;
res1 = Flatten@calculateEstimates[@FORMULA@, baseAssumptions, @POINTS@];

log["Trying constant C = " <> ToString[10^@C@, InputForm]];
res2 = Resolve[ForAll[@VARS@,
     Implies[@CONDS@, # <= 10^@C@*(@BOUND@)]], Reals] & /@ res1;
logForm["Resolve results", res2];

<|"Logs" -> logMessages, "Result" -> If[AllTrue[res2, TrueQ], True, res2]|>`

const localPacletSetup = `Needs["PacletManager` + "`" + `"];
Quiet[Check[PacletUninstall["UnitTable"], Null]];
Quiet[Check[PacletInstall["UnitTable"], Null]];`

const cloudPacletSetup = `Quiet[Check[Needs["UnitTable` + "`" + `"], Null]];`

// SeriesEstimates builds the batched script for one series claim, one
// validated partition and one constant exponent c (constant C = 10^c).
// When local is true the script carries the paclet bootstrap the local
// kernel needs; the cloud endpoint gets the quiet variant.
func SeriesEstimates(claim model.SeriesBoundClaim, p *partition.Series, c int, local bool) (string, error) {
	paclets := cloudPacletSetup
	if local {
		paclets = localPacletSetup
	}

	conds := strings.TrimSpace(expr.NormalizeHeads(claim.Conditions))
	if conds == "" {
		conds = "True"
	}
	vars := expr.BraceList(claim.OtherVariables)
	formula := expr.NormalizeHeads(claim.Formula)
	bound := expr.NormalizeHeads(claim.ConjecturedBound)

	script := strings.NewReplacer(
		"@PACLETS@", paclets,
		"@INDEX@", claim.SummationIndex,
		"@BASE@", claim.BaseAssumptions(),
		"@FORMULA@", formula,
		"@POINTS@", p.List(),
		"@VARS@", vars,
		"@CONDS@", conds,
		"@BOUND@", bound,
		"@C@", strconv.Itoa(c),
	).Replace(seriesTemplate)

	if err := checkWellFormed(script); err != nil {
		return "", err
	}
	return script, nil
}

func checkWellFormed(script string) error {
	if !expr.Balanced(script) {
		return fmt.Errorf("query builder: unbalanced delimiters in emitted script")
	}
	if !expr.ASCII(script) {
		return fmt.Errorf("query builder: non-ASCII content in emitted script")
	}
	return nil
}

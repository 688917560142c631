package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/asymptotica/majorant/internal/model"
	"github.com/asymptotica/majorant/internal/oracle"
	"github.com/asymptotica/majorant/internal/partition"
)

type stubResolver struct {
	resolve  func(script string) (oracle.Truth, error)
	evaluate func(script string) (*oracle.EstimatePacket, error)
	calls    int
}

func (s *stubResolver) Name() string { return "stub" }

func (s *stubResolver) ResolveForAll(_ context.Context, script string) (oracle.Truth, error) {
	s.calls++
	return s.resolve(script)
}

func (s *stubResolver) EvaluateJSON(_ context.Context, script string) (*oracle.EstimatePacket, error) {
	s.calls++
	return s.evaluate(script)
}

func packet(logs []string, result string) *oracle.EstimatePacket {
	return &oracle.EstimatePacket{Logs: logs, Result: json.RawMessage(result)}
}

func discard(string, ...any) {}

func logfTo(lines *[]string) Logf {
	return func(format string, args ...any) {
		*lines = append(*lines, fmt.Sprintf(format, args...))
	}
}

func identityClaim() model.InequalityClaim {
	return model.InequalityClaim{
		Variables: []string{"x"},
		Domain:    []string{"x>1"},
		LHS:       "x",
		RHS:       "x",
	}
}

func singleSubdomain(t *testing.T, claim model.InequalityClaim) *partition.Inequality {
	t.Helper()
	p, err := partition.ValidateInequality("[x>1]", claim.Domain)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestInequality_ProvedOnFirstExponent(t *testing.T) {
	claim := identityClaim()
	part := singleSubdomain(t, claim)
	res := &stubResolver{resolve: func(string) (oracle.Truth, error) { return oracle.True, nil }}

	out, err := Inequality(context.Background(), res, claim, part, []int{0, 1, 2}, discard)
	if err != nil {
		t.Fatal(err)
	}
	if out.Verdict != model.VerdictProved || out.Witness != 0 {
		t.Errorf("outcome = %+v, want proved with witness 0", out)
	}
	if res.calls != 1 {
		t.Errorf("resolver called %d times, want 1 (no scanning past a proof)", res.calls)
	}
}

func TestInequality_DisprovedShortCircuits(t *testing.T) {
	claim := model.InequalityClaim{Variables: []string{"x"}, Domain: []string{"x>1"}, LHS: "x^51", RHS: "x"}
	part := singleSubdomain(t, claim)
	res := &stubResolver{resolve: func(string) (oracle.Truth, error) { return oracle.False, nil }}

	out, err := Inequality(context.Background(), res, claim, part, Exponents(-2, 6), discard)
	if err != nil {
		t.Fatal(err)
	}
	if out.Verdict != model.VerdictDisproved {
		t.Errorf("verdict = %s, want disproved", out.Verdict)
	}
	if res.calls != 1 {
		t.Errorf("resolver called %d times: search must stop at the first certified False", res.calls)
	}
	want := []model.Attempt{{Piece: 1, Exponent: -2, Outcome: "False"}}
	if !reflect.DeepEqual(out.Attempts, want) {
		t.Errorf("attempts = %v, want %v", out.Attempts, want)
	}
}

func TestInequality_UnknownExhaustsRange(t *testing.T) {
	claim := identityClaim()
	part := singleSubdomain(t, claim)
	res := &stubResolver{resolve: func(string) (oracle.Truth, error) { return oracle.Unknown, nil }}

	out, err := Inequality(context.Background(), res, claim, part, []int{0, 1, 2}, discard)
	if err != nil {
		t.Fatal(err)
	}
	if out.Verdict != model.VerdictUnknown {
		t.Errorf("verdict = %s, want unknown", out.Verdict)
	}
	if res.calls != 3 {
		t.Errorf("resolver called %d times, want one per exponent", res.calls)
	}
}

func TestInequality_SecondExponentProves(t *testing.T) {
	claim := identityClaim()
	part := singleSubdomain(t, claim)
	res := &stubResolver{resolve: func(script string) (oracle.Truth, error) {
		if strings.Contains(script, ", 0]") {
			return oracle.Unknown, nil
		}
		return oracle.True, nil
	}}

	out, err := Inequality(context.Background(), res, claim, part, []int{0, 1}, discard)
	if err != nil {
		t.Fatal(err)
	}
	if out.Verdict != model.VerdictProved || out.Witness != 1 {
		t.Errorf("outcome = %+v, want proved with witness 1", out)
	}
}

func TestInequality_TransportErrorPropagates(t *testing.T) {
	claim := identityClaim()
	part := singleSubdomain(t, claim)
	transportErr := &oracle.TransportError{Oracle: "resolver", Op: "post code", Err: errors.New("timeout")}
	res := &stubResolver{resolve: func(string) (oracle.Truth, error) { return oracle.Unknown, transportErr }}

	_, err := Inequality(context.Background(), res, claim, part, []int{0}, discard)
	if !errors.Is(err, transportErr) {
		t.Errorf("expected transport error to propagate, got %v", err)
	}
}

func seriesClaim() model.SeriesBoundClaim {
	return model.SeriesBoundClaim{
		Formula:          "1/d^4",
		SummationIndex:   "d",
		Conditions:       "True",
		Bounds:           [2]string{"1", "Infinity"},
		ConjecturedBound: "1",
	}
}

func TestSeries_ProvedForwardsOracleLogs(t *testing.T) {
	claim := seriesClaim()
	part := partition.DefaultSeries("1", "Infinity")
	res := &stubResolver{evaluate: func(string) (*oracle.EstimatePacket, error) {
		return packet([]string{"Formula: 1/d^4", "Subdomain 1: d > 1"}, `true`), nil
	}}

	var lines []string
	out, err := Series(context.Background(), res, claim, part, false, []int{0}, logfTo(&lines))
	if err != nil {
		t.Fatal(err)
	}
	if out.Verdict != model.VerdictProved || out.Witness != 0 {
		t.Errorf("outcome = %+v, want proved with witness 0", out)
	}
	if res.calls != 1 {
		t.Errorf("resolver called %d times, want 1 batched round trip", res.calls)
	}
	joined := strings.Join(lines, "\n")
	for _, want := range []string{"Formula: 1/d^4", "Subdomain 1: d > 1", "All estimates verified"} {
		if !strings.Contains(joined, want) {
			t.Errorf("transcript missing %q in:\n%s", want, joined)
		}
	}
}

func TestSeries_PieceFalseDisproves(t *testing.T) {
	claim := seriesClaim()
	part := partition.DefaultSeries("1", "Infinity")
	res := &stubResolver{evaluate: func(string) (*oracle.EstimatePacket, error) {
		return packet(nil, `[true, false]`), nil
	}}

	out, err := Series(context.Background(), res, claim, part, false, []int{0, 1}, discard)
	if err != nil {
		t.Fatal(err)
	}
	if out.Verdict != model.VerdictDisproved {
		t.Errorf("verdict = %s, want disproved", out.Verdict)
	}
	if res.calls != 1 {
		t.Errorf("resolver called %d times, want 1", res.calls)
	}
}

func TestSeries_UnresolvedResidueIsUnknown(t *testing.T) {
	claim := seriesClaim()
	part := partition.DefaultSeries("1", "Infinity")
	res := &stubResolver{evaluate: func(string) (*oracle.EstimatePacket, error) {
		return packet(nil, `["Resolve[ForAll[{h}, h > 1]]"]`), nil
	}}

	out, err := Series(context.Background(), res, claim, part, false, []int{0}, discard)
	if err != nil {
		t.Fatal(err)
	}
	if out.Verdict != model.VerdictUnknown {
		t.Errorf("verdict = %s, want unknown (residue must never count as False)", out.Verdict)
	}
}

func TestExponents(t *testing.T) {
	if got := Exponents(-2, 1); !reflect.DeepEqual(got, []int{-2, -1, 0, 1}) {
		t.Errorf("Exponents(-2, 1) = %v", got)
	}
	if got := Exponents(0, 0); !reflect.DeepEqual(got, []int{0}) {
		t.Errorf("Exponents(0, 0) = %v", got)
	}
}

package partition

import (
	"errors"
	"reflect"
	"testing"
)

func TestValidateSeries_AnchorsEndpoints(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"full", "[0, Sqrt[h], h*m, Infinity]", []string{"0", "Sqrt[h]", "h*m", "Infinity"}},
		{"missing lower", "[Sqrt[h], Infinity]", []string{"0", "Sqrt[h]", "Infinity"}},
		{"missing upper", "[0, Sqrt[h]]", []string{"0", "Sqrt[h]", "Infinity"}},
		{"missing both", "[Sqrt[h]]", []string{"0", "Sqrt[h]", "Infinity"}},
		{"braces from model", "{0, h, Infinity}", []string{"0", "h", "Infinity"}},
		{"explicit empty list", "[]", []string{"0", "Infinity"}},
		{"lowercase heads", "[log[m], Infinity]", []string{"0", "Log[m]", "Infinity"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ValidateSeries(tt.raw, "0", "Infinity")
			if err != nil {
				t.Fatalf("ValidateSeries(%q) error: %v", tt.raw, err)
			}
			if !reflect.DeepEqual(p.Breakpoints, tt.want) {
				t.Errorf("breakpoints = %v, want %v", p.Breakpoints, tt.want)
			}
			if p.Breakpoints[0] != "0" || p.Breakpoints[len(p.Breakpoints)-1] != "Infinity" {
				t.Error("partition does not span the claim bounds")
			}
		})
	}
}

func TestValidateSeries_Idempotent(t *testing.T) {
	p, err := ValidateSeries("[Sqrt[h], h*m]", "0", "Infinity")
	if err != nil {
		t.Fatal(err)
	}
	again, err := ValidateSeries(p.List(), "0", "Infinity")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(again.Breakpoints, p.Breakpoints) {
		t.Errorf("re-validation changed breakpoints: %v vs %v", again.Breakpoints, p.Breakpoints)
	}
}

func TestValidateSeries_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		reason Reason
	}{
		{"blank", "", ReasonEmpty},
		{"prose", "the breakpoints are 0 and Infinity", ReasonNotAList},
		{"unbalanced", "[0, Log[m, Infinity]", ReasonUnbalanced},
		{"numeric regression", "[1, 5, 3]", ReasonUnordered},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateSeries(tt.raw, "0", "Infinity")
			var me *MalformedError
			if !errors.As(err, &me) {
				t.Fatalf("ValidateSeries(%q): expected MalformedError, got %v", tt.raw, err)
			}
			if me.Reason != tt.reason {
				t.Errorf("reason = %s, want %s", me.Reason, tt.reason)
			}
		})
	}
}

func TestSeries_Pieces(t *testing.T) {
	p := &Series{Breakpoints: []string{"0", "h", "Infinity"}}
	want := [][2]string{{"0", "h"}, {"h", "Infinity"}}
	if got := p.Pieces(); !reflect.DeepEqual(got, want) {
		t.Errorf("Pieces() = %v, want %v", got, want)
	}
}

func TestValidateInequality_BaseHandling(t *testing.T) {
	base := []string{"x>0", "y>1"}
	raw := "[{x>0, y>1} && x <= 2*Log[y], x>0 && y>1 && x > 2*Log[y]]"

	p, err := ValidateInequality(raw, base)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Subdomains) != 2 {
		t.Fatalf("expected 2 subdomains, got %d", len(p.Subdomains))
	}
	want0 := []string{"x>0", "y>1", "x <= 2*Log[y]"}
	if !reflect.DeepEqual(p.Subdomains[0].Conjuncts, want0) {
		t.Errorf("subdomain 0 = %v, want %v", p.Subdomains[0].Conjuncts, want0)
	}
	// The echoed base in the second entry must collapse through dedup.
	want1 := []string{"x>0", "y>1", "x > 2*Log[y]"}
	if !reflect.DeepEqual(p.Subdomains[1].Conjuncts, want1) {
		t.Errorf("subdomain 1 = %v, want %v", p.Subdomains[1].Conjuncts, want1)
	}
}

func TestValidateInequality_BraceRestrictionKept(t *testing.T) {
	// A brace group is only stripped when it restates the base domain; a
	// brace-wrapped restriction keeps its conjuncts.
	base := []string{"x>1"}
	p, err := ValidateInequality("[{x>5} && y<2, {x>1} && x <= 3]", base)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Subdomains) != 2 {
		t.Fatalf("expected 2 subdomains, got %d", len(p.Subdomains))
	}
	want0 := []string{"x>1", "x>5", "y<2"}
	if !reflect.DeepEqual(p.Subdomains[0].Conjuncts, want0) {
		t.Errorf("subdomain 0 = %v, want %v", p.Subdomains[0].Conjuncts, want0)
	}
	want1 := []string{"x>1", "x <= 3"}
	if !reflect.DeepEqual(p.Subdomains[1].Conjuncts, want1) {
		t.Errorf("subdomain 1 = %v, want %v", p.Subdomains[1].Conjuncts, want1)
	}
}

func TestValidateInequality_Idempotent(t *testing.T) {
	base := []string{"x>0", "y>1"}
	p, err := ValidateInequality("[x <= Log[y], x > Log[y]]", base)
	if err != nil {
		t.Fatal(err)
	}
	again, err := ValidateInequality(p.List(), base)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(again, p) {
		t.Errorf("re-validation not a fixed point:\n first %v\nsecond %v", p, again)
	}
}

func TestValidateInequality_Malformed(t *testing.T) {
	base := []string{"x>0"}
	for _, raw := range []string{"", "[]", "no list here", "[x>0 && (y]"} {
		if _, err := ValidateInequality(raw, base); err == nil {
			t.Errorf("ValidateInequality(%q): expected error", raw)
		} else {
			var me *MalformedError
			if !errors.As(err, &me) {
				t.Errorf("ValidateInequality(%q): error type %T", raw, err)
			}
		}
	}
}

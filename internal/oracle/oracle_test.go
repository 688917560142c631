package oracle

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestParseTruth(t *testing.T) {
	tests := []struct {
		in   string
		want Truth
	}{
		{"True", True},
		{"False", False},
		{"", Unknown},
		{"Resolve[ForAll[...]]", Unknown},
		{"$Failed", Unknown},
	}
	for _, tt := range tests {
		if got := ParseTruth(tt.in); got != tt.want {
			t.Errorf("ParseTruth(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestEstimatePacket_AllTrue(t *testing.T) {
	var p EstimatePacket
	if err := json.Unmarshal([]byte(`{"Logs":["a","b"],"Result":true}`), &p); err != nil {
		t.Fatal(err)
	}
	if !p.AllTrue() {
		t.Error("expected AllTrue")
	}
	if p.PieceTruths() != nil {
		t.Error("expected nil piece truths when certified")
	}
	if !reflect.DeepEqual(p.Logs, []string{"a", "b"}) {
		t.Errorf("logs = %v", p.Logs)
	}
}

func TestEstimatePacket_PieceTruths(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []Truth
	}{
		{"mixed tokens", `{"Logs":[],"Result":[true, false, "Resolve[...]"]}`, []Truth{True, False, Unknown}},
		{"string tokens", `{"Logs":[],"Result":["True","False","Indeterminate"]}`, []Truth{True, False, Unknown}},
		{"opaque payload", `{"Logs":[],"Result":"$Aborted"}`, []Truth{Unknown}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p EstimatePacket
			if err := json.Unmarshal([]byte(tt.raw), &p); err != nil {
				t.Fatal(err)
			}
			if got := p.PieceTruths(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PieceTruths() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Package expr holds the small text utilities shared by the partition
// validator and the query builder: head normalization, delimiter balance
// checks and the proposal-list tokenizer.
package expr

import "strings"

var headReplacer = strings.NewReplacer(
	"exp[", "Exp[",
	"log[", "Log[",
	"ln[", "Log[",
	"sqrt[", "Sqrt[",
)

// NormalizeHeads rewrites lowercase function heads to the oracle's expected
// capitalized forms without touching the mathematical content.
func NormalizeHeads(s string) string {
	return headReplacer.Replace(s)
}

// Balanced reports whether every (, [ and { in s is closed by the matching
// delimiter in the right order.
func Balanced(s string) bool {
	_, err := checkBalance(s)
	return err == nil
}

// ASCII reports whether s contains only ASCII runes. Queries sent to the
// resolution oracle must stay within its ASCII operator grammar.
func ASCII(s string) bool {
	for _, r := range s {
		if r > 127 {
			return false
		}
	}
	return true
}

// BraceList renders items as a Wolfram list literal: {a, b, c}.
func BraceList(items []string) string {
	return "{" + strings.Join(items, ", ") + "}"
}

// AsList coerces free-form text into a brace list. A bare comma-separated
// string is wrapped; an existing brace list is kept; "True" passes through
// when allowTrue is set, otherwise it means the unconstrained domain {}.
func AsList(text string, allowTrue bool) string {
	s := strings.TrimSpace(text)
	if s == "" || s == "{}" {
		return "{}"
	}
	if strings.EqualFold(s, "true") {
		if allowTrue {
			return "True"
		}
		return "{}"
	}
	if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
		inner := strings.TrimSpace(s[1 : len(s)-1])
		if inner == "" {
			return "{}"
		}
		return BraceList(splitTrim(inner))
	}
	parts := splitTrim(s)
	if len(parts) == 0 {
		return "{}"
	}
	return BraceList(parts)
}

func splitTrim(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SplitConjuncts splits a && conjunction at the top nesting level, trimming
// each conjunct. && inside any bracket pair is left alone.
func SplitConjuncts(s string) []string {
	var out []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case '&':
			if depth == 0 && i+1 < len(s) && s[i+1] == '&' {
				if part := strings.TrimSpace(s[start:i]); part != "" {
					out = append(out, part)
				}
				i++
				start = i + 1
			}
		}
	}
	if part := strings.TrimSpace(s[start:]); part != "" {
		out = append(out, part)
	}
	return out
}

// DedupePreserve drops repeated items, keeping first-seen order.
func DedupePreserve(items []string) []string {
	seen := make(map[string]bool, len(items))
	var out []string
	for _, it := range items {
		if !seen[it] {
			seen[it] = true
			out = append(out, it)
		}
	}
	return out
}

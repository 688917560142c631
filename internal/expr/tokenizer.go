package expr

import (
	"fmt"
	"strings"
)

// TokenizeReason names the distinct ways a proposal fails to tokenize.
type TokenizeReason string

const (
	ReasonEmpty      TokenizeReason = "empty"      // No content at all
	ReasonUnbalanced TokenizeReason = "unbalanced" // Mismatched or unclosed delimiter
	ReasonNotAList   TokenizeReason = "not_a_list" // Content outside a single [..] / {..} literal
)

// TokenizeError reports why proposal text could not be read as a list of
// expressions, with the byte offset of the offending character when known.
type TokenizeError struct {
	Reason TokenizeReason
	Pos    int
	Detail string
}

func (e *TokenizeError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("tokenize proposal: %s", e.Reason)
	}
	return fmt.Sprintf("tokenize proposal: %s: %s", e.Reason, e.Detail)
}

var closerFor = map[byte]byte{'(': ')', '[': ']', '{': '}'}

// checkBalance scans s and returns the position of the first delimiter fault,
// or nil when balanced.
func checkBalance(s string) (int, error) {
	var stack []byte
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '(', '[', '{':
			stack = append(stack, closerFor[c])
		case ')', ']', '}':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				return i, &TokenizeError{Reason: ReasonUnbalanced, Pos: i,
					Detail: fmt.Sprintf("unexpected %q at offset %d", c, i)}
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) != 0 {
		return len(s), &TokenizeError{Reason: ReasonUnbalanced, Pos: len(s),
			Detail: fmt.Sprintf("unclosed delimiter, expected %q", stack[len(stack)-1])}
	}
	return -1, nil
}

// StripFences removes a surrounding markdown code fence, which chat models
// sometimes wrap around the requested list.
func StripFences(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```")
	if i := strings.IndexByte(t, '\n'); i >= 0 && !strings.HasPrefix(t, "\n") && i < 16 {
		// Drop a language tag on the fence line.
		t = t[i+1:]
	}
	t = strings.TrimSuffix(strings.TrimSpace(t), "```")
	return strings.TrimSpace(t)
}

// SplitList reads raw proposal text as a bracketed list of expressions and
// returns the top-level elements in order. It tolerates either [..] or {..}
// as the outer literal and commas nested inside brackets. An explicit empty
// list yields a nil slice and no error; blank input is an error.
func SplitList(raw string) ([]string, error) {
	s := StripFences(raw)
	if s == "" {
		return nil, &TokenizeError{Reason: ReasonEmpty}
	}
	if _, err := checkBalance(s); err != nil {
		return nil, err.(*TokenizeError)
	}

	switch {
	case strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]"):
		s = s[1 : len(s)-1]
	case strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}"):
		s = s[1 : len(s)-1]
	default:
		return nil, &TokenizeError{Reason: ReasonNotAList,
			Detail: fmt.Sprintf("expected a bracketed list, got %.40q", s)}
	}
	// The outer pair must actually match: "[a], [b]" passes the prefix check
	// but is two literals, not one.
	if _, err := checkBalance(s); err != nil {
		return nil, &TokenizeError{Reason: ReasonNotAList, Detail: "multiple top-level literals"}
	}

	var items []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				if seg := strings.TrimSpace(s[start:i]); seg != "" {
					items = append(items, seg)
				}
				start = i + 1
			}
		}
	}
	if seg := strings.TrimSpace(s[start:]); seg != "" {
		items = append(items, seg)
	}
	return items, nil
}

// Package quality runs the judge and self-correction loop: every generated
// document is audited by a second model call, and a rejection buys exactly one
// corrective regeneration before the request fails.
package quality

import (
	"encoding/json"
	"fmt"
	"strings"

	"mithaq/internal/prompt"
)

// Decision is the judge's binary outcome.
type Decision string

const (
	DecisionApproved Decision = "APPROVED"
	DecisionRejected Decision = "REJECTED"
)

// Verdict is the judge's structured response.
type Verdict struct {
	Decision Decision             `json:"decision"`
	Reason   string               `json:"reason"`
	Errors   []prompt.ErrorRecord `json:"errors"`
}

// VerdictError reports a judge response that could not be parsed as a
// verdict. The loop fails closed on it: an unreadable verdict is never an
// approval.
type VerdictError struct {
	Raw string
}

func (e *VerdictError) Error() string {
	return "The quality judge returned an unreadable verdict, so the document cannot be accepted. Please try again."
}

// RejectedError is the terminal state after the retry budget is exhausted
// while the judge still rejects.
type RejectedError struct {
	Reason string
	Errors []prompt.ErrorRecord
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("The document did not pass quality review: %s", e.Reason)
}

// findJSONCandidates scans the input for top-level JSON object candidates,
// tracking brace depth and string escaping byte-wise. ASCII delimiters never
// occur inside UTF-8 multi-byte sequences, so byte iteration is safe for
// Arabic content.
func findJSONCandidates(s string) []string {
	var candidates []string
	var depth int
	start := -1
	var inString, escape bool

	for i := 0; i < len(s); i++ {
		b := s[i]

		if escape {
			escape = false
			continue
		}
		if inString {
			if b == '\\' {
				escape = true
			} else if b == '"' {
				inString = false
			}
			continue
		}

		switch b {
		case '"':
			inString = true
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 && start != -1 {
					candidates = append(candidates, s[start:i+1])
					start = -1
				}
			}
		}
	}
	return candidates
}

// ParseVerdict extracts the verdict from the judge's response text. The model
// is asked for bare JSON but may still wrap it in prose or fencing, so every
// top-level object candidate is tried in order; the first that decodes with a
// valid decision wins. No candidate qualifying is a *VerdictError.
func ParseVerdict(text string) (*Verdict, error) {
	for _, candidate := range findJSONCandidates(text) {
		var v Verdict
		if err := json.Unmarshal([]byte(candidate), &v); err != nil {
			continue
		}
		switch v.Decision {
		case DecisionApproved, DecisionRejected:
			return &v, nil
		}
	}
	return nil, &VerdictError{Raw: strings.TrimSpace(text)}
}

// Package validator provides domain-specific answer validation.
//
// A validator is a total function from answer text to a Verdict: it never
// returns an error and never panics, so the generation path can always
// attach a verdict without failing the request.
package validator

// Verdict is the structured result of validating a final answer.
type Verdict struct {
	OK       bool             `json:"ok"`
	Reason   string           `json:"reason,omitempty"`
	Networks []NetworkSummary `json:"networks,omitempty"`
}

// Func validates an extracted final answer for one domain.
type Func func(text string) Verdict

var registry = map[string]Func{
	"subnetting": ValidateSubnets,
}

// ForDomain returns the validator registered for the given domain tag.
func ForDomain(domain string) (Func, bool) {
	fn, ok := registry[domain]
	return fn, ok
}

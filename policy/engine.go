// Package policy gates generation requests through a rego admission policy.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/v1/rego"
)

// Decisions returned by the policy.
const (
	DecisionAllow = "allow"
	DecisionBlock = "block"
)

// Input is the admission input for one generation request.
type Input struct {
	Domain        string `json:"domain"`
	PromptLength  int    `json:"prompt_length"`
	ImageCount    int    `json:"image_count"`
	VisionEnabled bool   `json:"vision_enabled"`
}

// Engine evaluates the generation admission policy.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine compiles the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.generation_policy.decision"),
		rego.Module("generation_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Evaluate returns the admission decision for the request input. An empty
// result set falls back to allow; the bundled policy always defines a
// default.
func (e *Engine) Evaluate(ctx context.Context, input Input) (string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return DecisionAllow, nil
	}

	if decision, ok := results[0].Expressions[0].Value.(string); ok {
		return decision, nil
	}
	return DecisionAllow, nil
}

// DefaultPolicy is the bundled admission policy: reject oversized prompts
// and image payloads when vision support is off.
const DefaultPolicy = `
package generation_policy

default decision := "allow"

decision := "block" if {
	input.prompt_length > 32768
}

decision := "block" if {
	input.image_count > 0
	not input.vision_enabled
}
`

package policy

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(context.Background(), DefaultPolicy)
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	return engine
}

func TestEvaluateAllowsOrdinaryRequest(t *testing.T) {
	engine := newTestEngine(t)
	decision, err := engine.Evaluate(context.Background(), Input{
		Domain:       "subnetting",
		PromptLength: 120,
	})
	assert.NoError(t, err)
	assert.Equal(t, DecisionAllow, decision)
}

func TestEvaluateBlocksOversizedPrompt(t *testing.T) {
	engine := newTestEngine(t)
	decision, err := engine.Evaluate(context.Background(), Input{
		PromptLength: len(strings.Repeat("x", 40000)),
	})
	assert.NoError(t, err)
	assert.Equal(t, DecisionBlock, decision)
}

func TestEvaluateBlocksImagesWithoutVision(t *testing.T) {
	engine := newTestEngine(t)

	decision, err := engine.Evaluate(context.Background(), Input{
		PromptLength: 10,
		ImageCount:   1,
	})
	assert.NoError(t, err)
	assert.Equal(t, DecisionBlock, decision)

	decision, err = engine.Evaluate(context.Background(), Input{
		PromptLength:  10,
		ImageCount:    1,
		VisionEnabled: true,
	})
	assert.NoError(t, err)
	assert.Equal(t, DecisionAllow, decision)
}

func TestNewEngineRejectsBadPolicy(t *testing.T) {
	_, err := NewEngine(context.Background(), "package generation_policy\ndecision :=")
	assert.Error(t, err)
}

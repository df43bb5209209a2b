package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/TripCu/ai-hotkey/domain"
	"github.com/TripCu/ai-hotkey/policy"
	"github.com/TripCu/ai-hotkey/prompts"
	"github.com/TripCu/ai-hotkey/provider"
	"github.com/TripCu/ai-hotkey/validator"
)

// Result is the outcome of one orchestrated generation, including the
// optional validator verdict for the resolved domain.
type Result struct {
	domain.GenerateResult
	Domain  string
	Verdict *validator.Verdict
}

// Generate runs the full pipeline for one request. The exchange is archived
// only after a successful provider response; an upstream failure leaves no
// record beyond telemetry.
func (s *Service) Generate(ctx context.Context, req *domain.GenerateRequest, clientIP, apiKey string) (*Result, error) {
	domainTag := strings.TrimSpace(req.Context.QuestionType)
	if domainTag == "" {
		domainTag = s.cfg.QuestionDomain
	}

	systemPrompt := s.library.SystemPrompt(domainTag)
	promptText := joinPromptParts(req.PromptPrefix, req.Prompt)
	promptBody := s.composeBody(ctx, promptText)

	s.recorder.RecordRequest(clientIP, apiKey, len(promptBody))

	decision, err := s.policy.Evaluate(ctx, policy.Input{
		Domain:        domainTag,
		PromptLength:  len(promptBody),
		ImageCount:    len(req.Images),
		VisionEnabled: s.cfg.VisionEnabled,
	})
	if err != nil {
		log.Warn().Err(err).Msg("admission policy evaluation failed, allowing request")
	} else if decision == policy.DecisionBlock {
		return nil, ErrRejected
	}

	model := s.resolveModel(req)

	started := time.Now()
	reportedModel, responseText, err := s.provider.Generate(ctx, provider.Request{
		System: systemPrompt,
		Prompt: promptBody,
		Images: req.Images,
		Model:  model,
	})
	if err != nil {
		return nil, err
	}
	elapsedMs := time.Since(started).Milliseconds()

	finalAnswer := validator.ExtractFinalAnswer(responseText)
	verdict := validator.Run(domainTag, finalAnswer)

	result := &Result{
		GenerateResult: domain.GenerateResult{
			ID:          uuid.New().String(),
			Model:       reportedModel,
			Response:    responseText,
			FinalAnswer: finalAnswer,
			ElapsedMs:   elapsedMs,
		},
		Domain:  domainTag,
		Verdict: verdict,
	}

	if err := s.archive(ctx, promptText, result); err != nil {
		return nil, fmt.Errorf("failed to archive exchange: %w", err)
	}

	return result, nil
}

// resolveModel picks the request override, else the vision model when images
// are attached, else the configured default.
func (s *Service) resolveModel(req *domain.GenerateRequest) string {
	if m := strings.TrimSpace(req.Model); m != "" {
		return m
	}
	if len(req.Images) > 0 {
		return s.cfg.VisionModel()
	}
	return s.cfg.Model()
}

// composeBody augments the literal prompt with trailing history and relevant
// notes. Both context sources degrade silently to nothing.
func (s *Service) composeBody(ctx context.Context, promptText string) string {
	history, err := s.store.Recent(ctx, s.cfg.HistoryLimit)
	if err != nil {
		log.Warn().Err(err).Msg("history lookup failed, continuing without it")
		history = nil
	}

	excerpts := s.notes.Gather(promptText)

	return prompts.UserPrompt(history, excerpts, promptText)
}

func (s *Service) archive(ctx context.Context, promptText string, result *Result) error {
	entry := &domain.LogEntry{
		ID:          result.ID,
		CreatedAt:   time.Now().UTC(),
		Backend:     s.cfg.AIBackend,
		Model:       result.Model,
		Prompt:      promptText,
		Response:    result.Response,
		FinalAnswer: result.FinalAnswer,
		ElapsedMs:   result.ElapsedMs,
		Domain:      result.Domain,
	}
	return s.store.Archive(ctx, entry)
}

func joinPromptParts(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}

// Package service orchestrates generation: prompt composition, provider
// dispatch, answer extraction, validation, archival and telemetry.
package service

import (
	"errors"

	"github.com/TripCu/ai-hotkey/config"
	"github.com/TripCu/ai-hotkey/notes"
	"github.com/TripCu/ai-hotkey/policy"
	"github.com/TripCu/ai-hotkey/prompts"
	"github.com/TripCu/ai-hotkey/store"
	"github.com/TripCu/ai-hotkey/telemetry"

	"github.com/TripCu/ai-hotkey/provider"
)

// ErrRejected marks requests blocked by the admission policy before any
// provider call.
var ErrRejected = errors.New("request rejected by policy")

// Service wires the generation pipeline together.
type Service struct {
	cfg      *config.Config
	store    store.Store
	provider provider.Provider
	recorder *telemetry.Recorder
	library  *prompts.Library
	notes    *notes.Retriever
	policy   *policy.Engine
}

// New creates the generation service.
func New(cfg *config.Config, st store.Store, p provider.Provider, rec *telemetry.Recorder, lib *prompts.Library, retriever *notes.Retriever, engine *policy.Engine) *Service {
	return &Service{
		cfg:      cfg,
		store:    st,
		provider: p,
		recorder: rec,
		library:  lib,
		notes:    retriever,
		policy:   engine,
	}
}

// Backend reports the configured backend identifier.
func (s *Service) Backend() string {
	return s.cfg.AIBackend
}

// Model reports the default model for the configured backend.
func (s *Service) Model() string {
	return s.cfg.Model()
}

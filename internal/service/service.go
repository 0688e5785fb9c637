// Package service orchestrates the palette gateway core: quota checks,
// prompt construction, the upstream provider call, and extraction or
// fallback of the result.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromabiz/chromabiz/internal/gemini"
	"github.com/chromabiz/chromabiz/internal/palette"
	"github.com/chromabiz/chromabiz/internal/quota"
)

// ErrQuotaExceeded signals that the client's daily allowance for the
// requested action is exhausted. Maps to a 429 at the HTTP boundary.
var ErrQuotaExceeded = errors.New("daily quota exceeded")

// ErrProvider signals that the upstream provider call failed or timed out.
// Generation absorbs this into a fallback; refinement surfaces it, since no
// safe fallback text exists for a conversational reply.
var ErrProvider = errors.New("upstream provider failure")

// GenerationResult is the successful outcome of a generation request.
// Quota is consumed whether the palettes came from the model or the
// fallback catalog.
type GenerationResult struct {
	Palettes             []palette.Palette `json:"palettes"`
	RemainingGenerations int               `json:"remaining_generations"`
}

// RefineResult is the successful outcome of a chat refinement turn.
type RefineResult struct {
	Response           string `json:"response"`
	RemainingRevisions int    `json:"remaining_revisions"`
}

// Service is the gateway orchestrator.
type Service struct {
	log             *slog.Logger
	quota           quota.Store
	ai              gemini.Client
	providerTimeout time.Duration
}

// New creates a Service. providerTimeout bounds every upstream call.
func New(log *slog.Logger, quotaStore quota.Store, ai gemini.Client, providerTimeout time.Duration) *Service {
	return &Service{
		log:             log.With("component", "service"),
		quota:           quotaStore,
		ai:              ai,
		providerTimeout: providerTimeout,
	}
}

// GeneratePalettes runs the full generation flow for one client request.
// Provider failure and unextractable output both degrade to the curated
// fallback catalog keyed by business category; neither refunds the quota
// unit consumed by the check.
func (s *Service) GeneratePalettes(ctx context.Context, req palette.BrandingRequest, clientID string) (*GenerationResult, error) {
	allowed, remaining, err := s.quota.Check(ctx, clientID, quota.ActionGeneration)
	if err != nil {
		return nil, fmt.Errorf("quota check failed: %w", err)
	}
	if !allowed {
		return nil, ErrQuotaExceeded
	}

	prompt := palette.BuildGenerationPrompt(req)

	callCtx, cancel := context.WithTimeout(ctx, s.providerTimeout)
	defer cancel()

	var palettes []palette.Palette
	text, err := s.ai.GenerateContent(callCtx, prompt)
	if err != nil {
		s.log.WarnContext(ctx, "Provider call failed, serving fallback palettes",
			"client_id", clientID, "category", req.BusinessCategory, "error", err)
	} else {
		palettes = palette.Extract(text)
		if len(palettes) == 0 {
			s.log.WarnContext(ctx, "No palettes extracted from provider output, serving fallback palettes",
				"client_id", clientID, "category", req.BusinessCategory, "output_len", len(text))
		}
	}
	if len(palettes) == 0 {
		palettes = palette.Fallback(req.BusinessCategory)
	}

	return &GenerationResult{
		Palettes:             palettes,
		RemainingGenerations: remaining,
	}, nil
}

// Refine runs one chat refinement turn. Unlike generation, provider failure
// is reported to the caller wrapped in ErrProvider.
func (s *Service) Refine(ctx context.Context, chatCtx palette.ChatContext, message, clientID string) (*RefineResult, error) {
	allowed, remaining, err := s.quota.Check(ctx, clientID, quota.ActionRevision)
	if err != nil {
		return nil, fmt.Errorf("quota check failed: %w", err)
	}
	if !allowed {
		return nil, ErrQuotaExceeded
	}

	system, user := palette.BuildRefinementPrompt(chatCtx, message)

	callCtx, cancel := context.WithTimeout(ctx, s.providerTimeout)
	defer cancel()

	reply, err := s.ai.GenerateChat(callCtx, system, user)
	if err != nil {
		s.log.ErrorContext(ctx, "Provider call failed during refinement", "client_id", clientID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}

	return &RefineResult{
		Response:           reply,
		RemainingRevisions: remaining,
	}, nil
}

// RateLimit reports the client's remaining allowances without consuming
// anything.
func (s *Service) RateLimit(ctx context.Context, clientID string) (quota.Status, error) {
	status, err := s.quota.Status(ctx, clientID)
	if err != nil {
		return quota.Status{}, fmt.Errorf("quota status read failed: %w", err)
	}
	return status, nil
}

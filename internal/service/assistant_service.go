package service

import (
	"context"
	"time"

	"design-memory-be/internal/dto"
	"design-memory-be/internal/entity"
	"design-memory-be/internal/pkg/logger"
	"design-memory-be/internal/pkg/serverutils"
	"design-memory-be/pkg/memory/agent"
	"design-memory-be/pkg/memory/generation"
	"design-memory-be/pkg/memory/retrieval"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAssistantService interface {
	ResolveContext(ctx context.Context, userId uuid.UUID, req *dto.ResolveContextRequest) (*entity.ContextSnapshot, error)
	Suggest(ctx context.Context, userId uuid.UUID, req *dto.SuggestRequest) (*dto.SuggestResponse, error)
	Chat(ctx context.Context, userId uuid.UUID, req *dto.AgentChatRequest) (*agent.TurnResult, error)
}

type assistantService struct {
	resolver     *retrieval.Resolver
	responder    generation.Responder
	orchestrator *agent.Orchestrator
	timeout      time.Duration
	logger       logger.ILogger
}

func NewAssistantService(
	resolver *retrieval.Resolver,
	responder generation.Responder,
	orchestrator *agent.Orchestrator,
	timeout time.Duration,
	logger logger.ILogger,
) IAssistantService {
	if timeout <= 0 {
		timeout = agent.DefaultGenerationTimeout
	}
	return &assistantService{
		resolver:     resolver,
		responder:    responder,
		orchestrator: orchestrator,
		timeout:      timeout,
		logger:       logger,
	}
}

func (s *assistantService) ResolveContext(ctx context.Context, userId uuid.UUID, req *dto.ResolveContextRequest) (*entity.ContextSnapshot, error) {
	return s.resolver.Resolve(ctx, userId, req.Message, req.ProjectId)
}

// Suggest is a one-shot generation that persists nothing. Generator
// failures are reported to the caller as 502.
func (s *assistantService) Suggest(ctx context.Context, userId uuid.UUID, req *dto.SuggestRequest) (*dto.SuggestResponse, error) {
	snapshot, err := s.resolver.Resolve(ctx, userId, req.Message, req.ProjectId)
	if err != nil {
		return nil, err
	}

	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	suggestion, err := s.responder.Suggest(genCtx, snapshot, req.Message)
	if err != nil {
		s.logger.Warn("ASSISTANT", "Suggestion generation failed", map[string]interface{}{
			"user_id": userId,
			"error":   err.Error(),
		})
		return nil, serverutils.NewAppError(fiber.StatusBadGateway, "suggestion generation failed")
	}

	items := make([]dto.SuggestionItem, 0, len(suggestion.Suggestions))
	for _, sg := range suggestion.Suggestions {
		items = append(items, dto.SuggestionItem{Title: sg.Title, Notes: sg.Notes})
	}
	return &dto.SuggestResponse{
		Context:      snapshot,
		Suggestions:  items,
		ImagePrompts: suggestion.ImagePrompts,
	}, nil
}

func (s *assistantService) Chat(ctx context.Context, userId uuid.UUID, req *dto.AgentChatRequest) (*agent.TurnResult, error) {
	return s.orchestrator.Turn(ctx, userId, req.ProjectId, req.Message)
}

package service

import (
	"context"
	"errors"

	"design-memory-be/internal/dto"
	"design-memory-be/internal/pkg/serverutils"
	"design-memory-be/internal/seed"
	"design-memory-be/pkg/memory/retrieval"

	"github.com/google/uuid"
)

type IDemoService interface {
	Seed(ctx context.Context, userId uuid.UUID) (*dto.DemoSeedResponse, error)
	RunStep(ctx context.Context, userId uuid.UUID, req *dto.DemoRunStepRequest) (*dto.DemoStepResponse, error)
}

type demoService struct {
	demo     *seed.Demo
	resolver *retrieval.Resolver
}

func NewDemoService(demo *seed.Demo, resolver *retrieval.Resolver) IDemoService {
	return &demoService{demo: demo, resolver: resolver}
}

func (s *demoService) Seed(ctx context.Context, userId uuid.UUID) (*dto.DemoSeedResponse, error) {
	res, err := s.demo.Seed(ctx, userId)
	if err != nil {
		return nil, err
	}
	return &dto.DemoSeedResponse{
		ProjectId: res.ProjectId,
		VersionId: res.VersionId,
		ImageIds:  res.ImageIds,
	}, nil
}

// RunStep writes the step and returns the context a chat about it would
// resolve, so the walkthrough can show the reference project being found.
func (s *demoService) RunStep(ctx context.Context, userId uuid.UUID, req *dto.DemoRunStepRequest) (*dto.DemoStepResponse, error) {
	res, err := s.demo.RunStep(ctx, userId, req.Step)
	if errors.Is(err, seed.ErrInvalidStep) {
		return nil, serverutils.BadRequest(err.Error())
	}
	if err != nil {
		return nil, err
	}

	snapshot, err := s.resolver.Resolve(ctx, userId, res.Message, &res.ProjectId)
	if err != nil {
		return nil, err
	}
	return &dto.DemoStepResponse{
		Step:      res.Step,
		ProjectId: res.ProjectId,
		Message:   res.Message,
		Context:   snapshot,
	}, nil
}

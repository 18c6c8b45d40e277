// Package seed writes the demo story used by the walkthrough endpoints and
// the seed command. Every routine works for an explicit user; there is no
// built-in demo account.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"design-memory-be/internal/entity"
	"design-memory-be/internal/pkg/logger"
	"design-memory-be/internal/repository/specification"
	"design-memory-be/internal/repository/unitofwork"
	"design-memory-be/pkg/memory/history"

	"github.com/google/uuid"
)

const demoImageCount = 5

var ErrInvalidStep = errors.New("invalid demo step")

// Result identifies what a seed routine created.
type Result struct {
	Step      int
	ProjectId uuid.UUID
	VersionId uuid.UUID
	ImageIds  []uuid.UUID
	// Message is the user text the step simulates.
	Message string
}

type step struct {
	room    entity.RoomType
	title   string
	notes   string
	message string
	// reuse picks the user's latest project of room instead of creating one.
	reuse bool
}

var steps = map[int]step{
	2: {room: entity.RoomTypeLivingRoom, title: "Living Room - Same Vibe", notes: "Same vibe as bedroom", message: "same vibe as bedroom"},
	3: {room: entity.RoomTypeBedroom, notes: "Add plants", message: "add plants", reuse: true},
	4: {room: entity.RoomTypeOffice, title: "Simple Office", notes: "Simpler than other rooms", message: "simpler than other rooms"},
}

type Demo struct {
	uowFactory unitofwork.RepositoryFactory
	store      *history.Store
	logger     logger.ILogger
}

func NewDemo(uowFactory unitofwork.RepositoryFactory, store *history.Store, logger logger.ILogger) *Demo {
	return &Demo{uowFactory: uowFactory, store: store, logger: logger}
}

// EnsureUser returns the user with this email, creating a password-less one
// when missing.
func (d *Demo) EnsureUser(ctx context.Context, email, displayName string) (*entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, errors.New("email is required")
	}

	uow := d.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user = &entity.User{Email: email, DisplayName: displayName}
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Seed writes step 1: a bedroom with a first version and five images, then
// a select of option 3, a "make warmer" request and a save, each run
// through the learner.
func (d *Demo) Seed(ctx context.Context, userId uuid.UUID) (*Result, error) {
	uow := d.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	bedroom, err := d.store.CreateProject(ctx, uow, userId, entity.RoomTypeBedroom, "Cozy Bedroom")
	if err != nil {
		return nil, err
	}
	version, err := d.store.CreateVersion(ctx, uow, history.VersionInput{ProjectId: bedroom.Id, Notes: "Initial concept"})
	if err != nil {
		return nil, err
	}

	result := &Result{Step: 1, ProjectId: bedroom.Id, VersionId: version.Id}
	for i := 1; i <= demoImageCount; i++ {
		seed := i
		image := &entity.GeneratedImage{
			DesignVersionId: version.Id,
			Prompt:          fmt.Sprintf("Demo image prompt %d", i),
			Params:          entity.ImageParams{Seed: &seed},
			ImageURL:        fmt.Sprintf("https://example.com/demo-image-%d.jpg", i),
		}
		if err := d.store.AddImage(ctx, uow, bedroom.Id, image); err != nil {
			return nil, err
		}
		result.ImageIds = append(result.ImageIds, image.Id)
	}

	selected := entity.OptionIndex("3")
	warmer, final := "make warmer", "final"
	payloads := []struct {
		eventType entity.EventType
		payload   entity.FeedbackPayload
	}{
		{entity.EventTypeSelect, entity.FeedbackPayload{SelectedOptionIndex: &selected}},
		{entity.EventTypeModify, entity.FeedbackPayload{Text: &warmer}},
		{entity.EventTypeSave, entity.FeedbackPayload{Note: &final}},
	}
	for _, p := range payloads {
		if _, err := d.store.RecordFeedback(ctx, uow, &entity.FeedbackEvent{
			UserId:          userId,
			ProjectId:       bedroom.Id,
			DesignVersionId: &version.Id,
			EventType:       p.eventType,
			Payload:         p.payload,
		}); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	d.logger.Info("SEED", "Demo story seeded", map[string]interface{}{
		"user_id":    userId,
		"project_id": bedroom.Id,
	})
	return result, nil
}

// RunStep writes one of the follow-up steps 2, 3 or 4. Step 3 needs the
// bedroom from Seed.
func (d *Demo) RunStep(ctx context.Context, userId uuid.UUID, n int) (*Result, error) {
	s, ok := steps[n]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStep, n)
	}

	uow := d.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	var project *entity.Project
	var err error
	if s.reuse {
		project, err = uow.ProjectRepository().FindOne(ctx,
			specification.UserOwnedBy{UserID: userId},
			specification.ByRoomType{RoomType: string(s.room)},
			specification.MostRecentlyUpdated{},
		)
		if err == nil && project == nil {
			err = history.ErrProjectNotFound
		}
	} else {
		project, err = d.store.CreateProject(ctx, uow, userId, s.room, s.title)
	}
	if err != nil {
		return nil, err
	}

	version, err := d.store.CreateVersion(ctx, uow, history.VersionInput{ProjectId: project.Id, Notes: s.notes})
	if err != nil {
		return nil, err
	}

	text := s.message
	if _, err := d.store.RecordFeedback(ctx, uow, &entity.FeedbackEvent{
		UserId:          userId,
		ProjectId:       project.Id,
		DesignVersionId: &version.Id,
		EventType:       entity.EventTypeModify,
		Payload:         entity.FeedbackPayload{Text: &text},
	}); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &Result{Step: n, ProjectId: project.Id, VersionId: version.Id, Message: s.message}, nil
}

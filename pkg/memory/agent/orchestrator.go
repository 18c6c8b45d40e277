// Package agent runs one conversational turn against a project: it stores
// the user's message, resolves context, asks the responder for a reply and
// folds the reply's action back into the design history.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"design-memory-be/internal/entity"
	"design-memory-be/internal/pkg/logger"
	"design-memory-be/internal/repository/unitofwork"
	"design-memory-be/pkg/events"
	"design-memory-be/pkg/memory/generation"
	"design-memory-be/pkg/memory/history"
	"design-memory-be/pkg/memory/retrieval"

	"github.com/google/uuid"
)

const (
	DefaultGenerationTimeout = 30 * time.Second
	DefaultVersionNotes      = "Assistant suggested update"
	SaveNote                 = "saved from chat"
	agentSource              = "agent"
)

type Config struct {
	GenerationTimeout time.Duration
	ImageBaseURL      string
}

// TurnResult is what the caller gets back from a turn.
type TurnResult struct {
	Reply              string                  `json:"reply"`
	ResolvedContext    *entity.ContextSnapshot `json:"resolved_context"`
	DesignOptions      []entity.EnrichedOption `json:"design_options"`
	CreatedVersionId   *uuid.UUID              `json:"created_version_id"`
	CreatedImages      []entity.CreatedImage   `json:"created_images"`
	PreferenceHints    []entity.PreferenceHint `json:"preference_hints"`
	ActionType         string                  `json:"action_type"`
	Saved              bool                    `json:"saved"`
	Fallback           bool                    `json:"fallback"`
	UserMessageId      uuid.UUID               `json:"user_message_id"`
	AssistantMessageId uuid.UUID               `json:"assistant_message_id"`
	AssistantCreatedAt time.Time               `json:"assistant_created_at"`
	AssistantMetadata  entity.MessageMetadata  `json:"-"`
}

type Orchestrator struct {
	uowFactory unitofwork.RepositoryFactory
	store      *history.Store
	resolver   *retrieval.Resolver
	responder  generation.Responder
	publisher  events.Publisher
	logger     logger.ILogger
	cfg        Config
}

func NewOrchestrator(
	uowFactory unitofwork.RepositoryFactory,
	store *history.Store,
	resolver *retrieval.Resolver,
	responder generation.Responder,
	publisher events.Publisher,
	logger logger.ILogger,
	cfg Config,
) *Orchestrator {
	if cfg.GenerationTimeout <= 0 {
		cfg.GenerationTimeout = DefaultGenerationTimeout
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Orchestrator{
		uowFactory: uowFactory,
		store:      store,
		resolver:   resolver,
		responder:  responder,
		publisher:  publisher,
		logger:     logger,
		cfg:        cfg,
	}
}

// Turn runs one agent turn. Only an unknown or foreign project rejects the
// turn before anything is written; generator failures degrade to the
// fallback reply and the turn still persists both chat messages.
func (o *Orchestrator) Turn(ctx context.Context, userId, projectId uuid.UUID, message string) (*TurnResult, error) {
	uow := o.uowFactory.NewUnitOfWork(ctx)

	project, err := o.store.OwnedProject(ctx, uow, userId, projectId)
	if err != nil {
		return nil, err
	}

	userMessage := &entity.ChatMessage{
		UserId:    userId,
		ProjectId: project.Id,
		Role:      entity.ChatRoleUser,
		Content:   message,
	}
	if err := uow.ChatMessageRepository().Create(ctx, userMessage); err != nil {
		return nil, fmt.Errorf("store user message: %w", err)
	}

	snapshot, err := o.resolver.Resolve(ctx, userId, message, &project.Id)
	if err != nil {
		return nil, fmt.Errorf("resolve context: %w", err)
	}

	response, fallback := o.generate(ctx, project.Id, snapshot, message)

	result, pending, err := o.apply(ctx, userId, project, message, snapshot, response)
	if err != nil {
		return nil, err
	}
	result.Fallback = fallback
	result.UserMessageId = userMessage.Id

	o.publish(ctx, userId, project.Id, result, pending)

	o.logger.Info("AGENT", "Turn completed", map[string]interface{}{
		"project_id":  project.Id,
		"action_type": result.ActionType,
		"images":      len(result.CreatedImages),
		"saved":       result.Saved,
		"fallback":    fallback,
	})
	return result, nil
}

func (o *Orchestrator) generate(ctx context.Context, projectId uuid.UUID, snapshot *entity.ContextSnapshot, message string) (*generation.AgentResponse, bool) {
	genCtx, cancel := context.WithTimeout(ctx, o.cfg.GenerationTimeout)
	defer cancel()

	start := time.Now()
	response, err := o.responder.Agent(genCtx, snapshot, message)
	if err == nil && genCtx.Err() != nil {
		err = genCtx.Err()
	}
	if err != nil {
		o.logger.Warn("AGENT", "Generation failed, using fallback reply", map[string]interface{}{
			"project_id": projectId,
			"error":      err.Error(),
			"timeout":    errors.Is(err, context.DeadlineExceeded),
			"elapsed_ms": time.Since(start).Milliseconds(),
		})
		return generation.FallbackAgentResponse(), true
	}
	return response, false
}

// pendingEvents are published only once the turn's transaction commits.
type pendingEvents struct {
	version *entity.DesignVersion
	save    *entity.FeedbackEvent
	prefs   []*entity.Preference
}

func (o *Orchestrator) apply(
	ctx context.Context,
	userId uuid.UUID,
	project *entity.Project,
	message string,
	snapshot *entity.ContextSnapshot,
	response *generation.AgentResponse,
) (*TurnResult, pendingEvents, error) {
	var pending pendingEvents
	action := response.VersionAction

	result := &TurnResult{
		Reply:           response.Reply,
		ResolvedContext: snapshot,
		DesignOptions:   []entity.EnrichedOption{},
		CreatedImages:   []entity.CreatedImage{},
		PreferenceHints: response.PreferenceHints,
		ActionType:      string(action.Type),
	}
	if result.PreferenceHints == nil {
		result.PreferenceHints = []entity.PreferenceHint{}
	}

	uow := o.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, pending, err
	}
	defer uow.Rollback()

	if action.Type.CreatesVersion() {
		version, err := o.createVersion(ctx, uow, project, action)
		if err != nil {
			return nil, pending, fmt.Errorf("create version: %w", err)
		}
		pending.version = version
		result.CreatedVersionId = &version.Id

		for i, opt := range response.DesignOptions {
			optionId := optionID(i)
			image := &entity.GeneratedImage{
				DesignVersionId: version.Id,
				Prompt:          opt.Prompt(),
				Params: entity.ImageParams{
					OptionId: stringPtr(optionId),
					Title:    stringPtr(opt.Title),
					Source:   stringPtr(agentSource),
				},
				ImageURL: o.imageURL(project.Id, version.VersionNumber, i),
			}
			if err := o.store.AddImage(ctx, uow, project.Id, image); err != nil {
				return nil, pending, fmt.Errorf("store image: %w", err)
			}
			imageId := image.Id
			result.CreatedImages = append(result.CreatedImages, entity.CreatedImage{
				Id:       image.Id,
				OptionId: optionId,
				Prompt:   image.Prompt,
				ImageURL: image.ImageURL,
			})
			result.DesignOptions = append(result.DesignOptions, enrich(optionId, opt, image.ImageURL, &imageId))
		}
	} else {
		existing, err := o.existingImages(ctx, uow, project.Id, snapshot, len(response.DesignOptions))
		if err != nil {
			return nil, pending, err
		}
		for i, opt := range response.DesignOptions {
			var url string
			var imageId *uuid.UUID
			if i < len(existing) {
				url = existing[i].ImageURL
				id := existing[i].Id
				imageId = &id
			}
			result.DesignOptions = append(result.DesignOptions, enrich(optionID(i), opt, url, imageId))
		}
	}

	if action.Type == generation.ActionSaveFinal || strings.Contains(strings.ToLower(message), "save") {
		event, prefs, err := o.save(ctx, uow, userId, project.Id, message, pending.version)
		if err != nil {
			return nil, pending, fmt.Errorf("record save: %w", err)
		}
		pending.save, pending.prefs = event, prefs
		result.Saved = true
	}

	saved := result.Saved
	metadata := entity.MessageMetadata{
		ResolvedContext:  snapshot,
		CreatedVersionId: result.CreatedVersionId,
		CreatedImages:    result.CreatedImages,
		DesignOptions:    result.DesignOptions,
		PreferenceHints:  result.PreferenceHints,
		Saved:            &saved,
		ActionType:       result.ActionType,
	}
	assistant := &entity.ChatMessage{
		UserId:    userId,
		ProjectId: project.Id,
		Role:      entity.ChatRoleAssistant,
		Content:   response.Reply,
		Metadata:  metadata,
	}
	if err := uow.ChatMessageRepository().Create(ctx, assistant); err != nil {
		return nil, pending, fmt.Errorf("store assistant message: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, pending, err
	}

	result.AssistantMessageId = assistant.Id
	result.AssistantCreatedAt = assistant.CreatedAt
	result.AssistantMetadata = metadata
	return result, pending, nil
}

// createVersion parents the new version on the requested version when it
// belongs to the project, otherwise on the canonical one.
func (o *Orchestrator) createVersion(ctx context.Context, uow unitofwork.UnitOfWork, project *entity.Project, action generation.VersionAction) (*entity.DesignVersion, error) {
	var parentId *uuid.UUID
	if action.ParentVersionId != nil {
		parent, err := o.store.ProjectVersion(ctx, uow, project.Id, *action.ParentVersionId)
		switch {
		case err == nil:
			parentId = &parent.Id
		case !errors.Is(err, history.ErrVersionNotFound):
			return nil, err
		}
	}
	if parentId == nil {
		canonical, err := o.store.CanonicalVersion(ctx, uow, project.Id)
		if err != nil {
			return nil, err
		}
		if canonical != nil {
			parentId = &canonical.Id
		}
	}

	notes := strings.TrimSpace(action.Notes)
	if notes == "" {
		notes = DefaultVersionNotes
	}

	return o.store.CreateVersion(ctx, uow, history.VersionInput{
		ProjectId:       project.Id,
		ParentVersionId: parentId,
		Notes:           notes,
	})
}

// save records a save event on the canonical version, or on the version
// created this turn when the project has none yet.
func (o *Orchestrator) save(ctx context.Context, uow unitofwork.UnitOfWork, userId, projectId uuid.UUID, message string, created *entity.DesignVersion) (*entity.FeedbackEvent, []*entity.Preference, error) {
	target, err := o.store.CanonicalVersion(ctx, uow, projectId)
	if err != nil {
		return nil, nil, err
	}
	if target == nil {
		target = created
	}

	event := &entity.FeedbackEvent{
		UserId:    userId,
		ProjectId: projectId,
		EventType: entity.EventTypeSave,
		Payload: entity.FeedbackPayload{
			Note:   stringPtr(SaveNote),
			Text:   stringPtr(message),
			Source: stringPtr(agentSource),
		},
	}
	if target != nil {
		event.DesignVersionId = &target.Id
	}

	prefs, err := o.store.RecordFeedback(ctx, uow, event)
	if err != nil {
		return nil, nil, err
	}
	return event, prefs, nil
}

// existingImages backs options of a turn that created no version: the
// project's newest images first, else the reference project's.
func (o *Orchestrator) existingImages(ctx context.Context, uow unitofwork.UnitOfWork, projectId uuid.UUID, snapshot *entity.ContextSnapshot, n int) ([]entity.ImageSummary, error) {
	if n == 0 {
		return nil, nil
	}
	images, err := uow.GeneratedImageRepository().FindRecentByProject(ctx, projectId, n)
	if err != nil {
		return nil, err
	}
	if len(images) > 0 {
		out := make([]entity.ImageSummary, 0, len(images))
		for _, img := range images {
			out = append(out, img.Summary())
		}
		return out, nil
	}
	if snapshot != nil && snapshot.ReferenceSummary != nil {
		return snapshot.ReferenceSummary.RecentImages, nil
	}
	return nil, nil
}

func (o *Orchestrator) publish(ctx context.Context, userId, projectId uuid.UUID, result *TurnResult, pending pendingEvents) {
	if v := pending.version; v != nil {
		o.publisher.PublishVersionCreated(ctx, userId, projectId, v.Id, v.VersionNumber)
	}
	if e := pending.save; e != nil {
		keys := make([]string, 0, len(pending.prefs))
		for _, p := range pending.prefs {
			keys = append(keys, p.Key)
		}
		o.publisher.PublishFeedbackRecorded(ctx, userId, projectId, e.Id, string(e.EventType), keys)
	}
	o.publisher.PublishTurnCompleted(ctx, userId, projectId, result.ActionType, result.CreatedVersionId, len(result.CreatedImages), result.Fallback)
}

// imageURL derives the rendered image location of option i (0-based).
func (o *Orchestrator) imageURL(projectId uuid.UUID, versionNumber, i int) string {
	base := strings.TrimRight(o.cfg.ImageBaseURL, "/")
	return fmt.Sprintf("%s/%s/v%d/%s.jpg", base, projectId, versionNumber, optionID(i))
}

func optionID(i int) string {
	return fmt.Sprintf("opt_%d", i+1)
}

func enrich(id string, opt generation.DesignOption, url string, imageId *uuid.UUID) entity.EnrichedOption {
	return entity.EnrichedOption{
		Id:          id,
		Title:       opt.Title,
		Description: opt.Description,
		ImagePrompt: opt.Prompt(),
		ImageURL:    url,
		ImageId:     imageId,
	}
}

func stringPtr(s string) *string {
	return &s
}

// Package retrieval assembles the context snapshot that grounds a
// generation call: the project being talked about, a reference project
// named by analogy ("same vibe as the bedroom"), recent feedback, the
// reference project's canonical version and images, and the strongest
// preferences.
package retrieval

import (
	"context"

	"design-memory-be/internal/entity"
	"design-memory-be/internal/repository/specification"
	"design-memory-be/internal/repository/unitofwork"
	"design-memory-be/pkg/memory/history"
	"design-memory-be/pkg/phrase"

	"github.com/google/uuid"
)

const (
	preferenceLimit     = 10
	targetEventLimit    = 5
	referenceImageLimit = 3
	referenceEventLimit = 5
)

// roomAliases is matched in declaration order: the first alias found in
// the message wins, wherever it appears.
var roomAliases = []phrase.Entry{
	{Phrase: "living room", Value: string(entity.RoomTypeLivingRoom)},
	{Phrase: "livingroom", Value: string(entity.RoomTypeLivingRoom)},
	{Phrase: "bedroom", Value: string(entity.RoomTypeBedroom)},
	{Phrase: "kitchen", Value: string(entity.RoomTypeKitchen)},
	{Phrase: "bathroom", Value: string(entity.RoomTypeBathroom)},
	{Phrase: "office", Value: string(entity.RoomTypeOffice)},
}

var analogyPrefixes = []string{"same vibe as ", "like "}

// referencePhrases expands every alias with every analogy prefix, alias by
// alias, so table order still follows the alias table.
func referencePhrases() []phrase.Entry {
	entries := make([]phrase.Entry, 0, len(roomAliases)*len(analogyPrefixes))
	for _, alias := range roomAliases {
		for _, prefix := range analogyPrefixes {
			entries = append(entries, phrase.Entry{Phrase: prefix + alias.Phrase, Value: alias.Value})
		}
	}
	return entries
}

type Resolver struct {
	uowFactory unitofwork.RepositoryFactory
	store      *history.Store
	rooms      *phrase.Table
	references *phrase.Table
}

func NewResolver(uowFactory unitofwork.RepositoryFactory, store *history.Store) *Resolver {
	return &Resolver{
		uowFactory: uowFactory,
		store:      store,
		rooms:      phrase.MustTable(roomAliases),
		references: phrase.MustTable(referencePhrases()),
	}
}

// DetectRoomType returns the room the message talks about, if any.
func (r *Resolver) DetectRoomType(message string) *entity.RoomType {
	return lookup(r.rooms, message)
}

// DetectReferenceRoomType returns the room the message compares against.
func (r *Resolver) DetectReferenceRoomType(message string) *entity.RoomType {
	return lookup(r.references, message)
}

func lookup(table *phrase.Table, message string) *entity.RoomType {
	entry, ok := table.First(message)
	if !ok {
		return nil
	}
	room := entity.RoomType(entry.Value)
	return &room
}

// Resolve builds the snapshot. It only reads, and a user without any
// projects gets an empty snapshot rather than an error.
func (r *Resolver) Resolve(ctx context.Context, userId uuid.UUID, message string, projectId *uuid.UUID) (*entity.ContextSnapshot, error) {
	uow := r.uowFactory.NewUnitOfWork(ctx)
	snapshot := entity.EmptyContextSnapshot()

	snapshot.TargetRoomType = r.DetectRoomType(message)
	snapshot.ReferenceRoomType = r.DetectReferenceRoomType(message)

	target, err := r.targetProject(ctx, uow, userId, projectId, snapshot.TargetRoomType)
	if err != nil {
		return nil, err
	}
	if target != nil {
		summary := target.Summary()
		snapshot.TargetProject = &summary
	}

	var reference *entity.Project
	if snapshot.ReferenceRoomType != nil {
		reference, err = r.referenceProject(ctx, uow, userId, *snapshot.ReferenceRoomType)
		if err != nil {
			return nil, err
		}
	}
	if reference != nil {
		summary := reference.Summary()
		snapshot.ReferenceProject = &summary
	}

	prefs, err := uow.PreferenceRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "confidence", Desc: true},
		specification.OrderBy{Field: "updated_at", Desc: true},
		specification.Pagination{Limit: preferenceLimit},
	)
	if err != nil {
		return nil, err
	}
	for _, p := range prefs {
		snapshot.Preferences = append(snapshot.Preferences, p.Summary())
	}

	if target != nil {
		events, err := r.recentEvents(ctx, uow, target.Id, targetEventLimit)
		if err != nil {
			return nil, err
		}
		snapshot.TargetRecentEvents = events
	}

	if reference != nil {
		summary, err := r.referenceSummary(ctx, uow, reference)
		if err != nil {
			return nil, err
		}
		snapshot.ReferenceSummary = summary
	}

	return &snapshot, nil
}

func (r *Resolver) targetProject(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, projectId *uuid.UUID, roomType *entity.RoomType) (*entity.Project, error) {
	repo := uow.ProjectRepository()

	if projectId != nil {
		project, err := repo.FindOne(ctx,
			specification.ByID{ID: *projectId},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil || project != nil {
			return project, err
		}
	}

	if roomType != nil {
		project, err := repo.FindOne(ctx,
			specification.UserOwnedBy{UserID: userId},
			specification.ByRoomType{RoomType: string(*roomType)},
			specification.MostRecentlyUpdated{},
		)
		if err != nil || project != nil {
			return project, err
		}
	}

	return repo.FindOne(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.MostRecentlyUpdated{},
	)
}

// referenceProject prefers the project the user last saved in that room
// type over the most recently touched one.
func (r *Resolver) referenceProject(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, roomType entity.RoomType) (*entity.Project, error) {
	save, err := uow.FeedbackEventRepository().FindLatestSaveForRoomType(ctx, userId, roomType)
	if err != nil {
		return nil, err
	}
	if save != nil {
		project, err := uow.ProjectRepository().FindOne(ctx, specification.ByID{ID: save.ProjectId})
		if err != nil || project != nil {
			return project, err
		}
	}

	return uow.ProjectRepository().FindOne(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByRoomType{RoomType: string(roomType)},
		specification.MostRecentlyUpdated{},
	)
}

func (r *Resolver) recentEvents(ctx context.Context, uow unitofwork.UnitOfWork, projectId uuid.UUID, limit int) ([]entity.EventSummary, error) {
	events, err := uow.FeedbackEventRepository().FindAll(ctx,
		specification.ByProjectID{ProjectID: projectId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit},
	)
	if err != nil {
		return nil, err
	}
	out := make([]entity.EventSummary, 0, len(events))
	for _, e := range events {
		out = append(out, e.Summary())
	}
	return out, nil
}

func (r *Resolver) referenceSummary(ctx context.Context, uow unitofwork.UnitOfWork, project *entity.Project) (*entity.ReferenceSummary, error) {
	version, err := r.store.CanonicalVersion(ctx, uow, project.Id)
	if err != nil {
		return nil, err
	}
	if version == nil {
		version, err = r.store.LatestVersion(ctx, uow, project.Id)
		if err != nil {
			return nil, err
		}
	}

	images, err := uow.GeneratedImageRepository().FindRecentByProject(ctx, project.Id, referenceImageLimit)
	if err != nil {
		return nil, err
	}
	events, err := r.recentEvents(ctx, uow, project.Id, referenceEventLimit)
	if err != nil {
		return nil, err
	}

	summary := &entity.ReferenceSummary{
		Project:      project.Summary(),
		RecentImages: make([]entity.ImageSummary, 0, len(images)),
		RecentEvents: events,
	}
	if version != nil {
		v := version.Summary()
		summary.LatestVersion = &v
	}
	for _, img := range images {
		summary.RecentImages = append(summary.RecentImages, img.Summary())
	}
	return summary, nil
}

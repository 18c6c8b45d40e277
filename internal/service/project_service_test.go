package service_test

import (
	"context"
	"testing"

	"design-memory-be/internal/dto"
	"design-memory-be/internal/entity"
	"design-memory-be/internal/pkg/logger"
	"design-memory-be/internal/service"
	"design-memory-be/pkg/memory/history"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectService_VersionsAndCanonical(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	pub := &recordingPublisher{}
	projects := service.NewProjectService(f.factory, f.store, pub, logger.NewNopLogger())
	feedback := service.NewFeedbackService(f.factory, f.store, pub, logger.NewNopLogger())

	owner := f.user(t, "owner@example.com")
	project, err := projects.Create(ctx, owner, &dto.CreateProjectRequest{Title: "Loft", RoomType: "living_room"})
	require.NoError(t, err)

	canonical, err := projects.Canonical(ctx, owner, project.Id)
	require.NoError(t, err)
	assert.Nil(t, canonical)

	v1, err := projects.CreateVersion(ctx, owner, project.Id, &dto.CreateVersionRequest{Notes: "first"})
	require.NoError(t, err)
	five := 5
	v5, err := projects.CreateVersion(ctx, owner, project.Id, &dto.CreateVersionRequest{VersionNumber: &five, ParentVersionId: &v1.Id})
	require.NoError(t, err)
	v6, err := projects.CreateVersion(ctx, owner, project.Id, &dto.CreateVersionRequest{})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 5, 6}, []int{v1.VersionNumber, v5.VersionNumber, v6.VersionNumber})
	assert.Equal(t, []int{1, 5, 6}, pub.versions)

	listed, err := projects.ListVersions(ctx, owner, project.Id)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, v1.Id, listed[0].Id)
	assert.Equal(t, v6.Id, listed[2].Id)

	_, err = feedback.Create(ctx, owner, &dto.CreateFeedbackRequest{ProjectId: project.Id, DesignVersionId: &v5.Id, EventType: "save"})
	require.NoError(t, err)

	canonical, err = projects.Canonical(ctx, owner, project.Id)
	require.NoError(t, err)
	require.NotNil(t, canonical)
	assert.Equal(t, v5.Id, canonical.Id)
}

func TestProjectService_OwnershipAndImages(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	projects := service.NewProjectService(f.factory, f.store, &recordingPublisher{}, logger.NewNopLogger())

	owner := f.user(t, "owner@example.com")
	stranger := f.user(t, "stranger@example.com")
	bedroom := f.project(t, owner, entity.RoomTypeBedroom)
	office := f.project(t, owner, entity.RoomTypeOffice)

	version, err := projects.CreateVersion(ctx, owner, bedroom.Id, &dto.CreateVersionRequest{})
	require.NoError(t, err)

	image, err := projects.AddImage(ctx, owner, version.Id, &dto.CreateImageRequest{Prompt: "soft light", ImageURL: "https://example.com/a.jpg"})
	require.NoError(t, err)
	assert.Equal(t, version.Id, image.DesignVersionId)

	_, err = projects.AddImage(ctx, stranger, version.Id, &dto.CreateImageRequest{Prompt: "x", ImageURL: "https://example.com/b.jpg"})
	assert.ErrorIs(t, err, history.ErrVersionNotFound)

	_, err = projects.Show(ctx, stranger, bedroom.Id)
	assert.ErrorIs(t, err, history.ErrProjectNotFound)

	_, err = projects.CreateVersion(ctx, owner, office.Id, &dto.CreateVersionRequest{ParentVersionId: &version.Id})
	assert.ErrorIs(t, err, history.ErrVersionNotFound)

	// the image touched the bedroom, so it lists first
	list, err := projects.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, bedroom.Id, list[0].Id)

	strangerList, err := projects.List(ctx, stranger)
	require.NoError(t, err)
	assert.Empty(t, strangerList)
}

func TestProjectService_Links(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	projects := service.NewProjectService(f.factory, f.store, &recordingPublisher{}, logger.NewNopLogger())

	owner := f.user(t, "owner@example.com")
	stranger := f.user(t, "stranger@example.com")
	bedroom := f.project(t, owner, entity.RoomTypeBedroom)
	living := f.project(t, owner, entity.RoomTypeLivingRoom)
	foreign := f.project(t, stranger, entity.RoomTypeOffice)

	link, err := projects.CreateLink(ctx, owner, &dto.CreateLinkRequest{FromProjectId: living.Id, ToProjectId: bedroom.Id, LinkType: "inspired_by"})
	require.NoError(t, err)

	_, err = projects.CreateLink(ctx, owner, &dto.CreateLinkRequest{FromProjectId: living.Id, ToProjectId: foreign.Id, LinkType: "similar"})
	assert.ErrorIs(t, err, history.ErrProjectNotFound)

	for _, id := range []entity.Project{*bedroom, *living} {
		links, err := projects.ListLinks(ctx, owner, id.Id)
		require.NoError(t, err)
		require.Len(t, links, 1)
		assert.Equal(t, link.Id, links[0].Id)
	}
}

package service

import (
	"context"
	"testing"
	"time"

	"campfire/internal/admin"
	"campfire/internal/models"
	"campfire/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostAdminService_ChangeList(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	var got repository.PostQuery
	repo := &postRepoStub{queryFn: func(_ context.Context, q repository.PostQuery) ([]models.Post, int64, error) {
		got = q
		return []models.Post{{ID: 4, Title: "Packing list", Content: "hidden", CreatedAt: now, UpdatedAt: now}}, 1, nil
	}}
	svc := NewPostAdminService(repo, admin.DefaultRegistry())
	svc.now = func() time.Time { return now }

	cl, err := svc.ChangeList(context.Background(), ChangeListParams{
		Query:   " tent ",
		Updated: admin.DatePast7Days,
		Limit:   500,
	})
	require.NoError(t, err)

	assert.Equal(t, "tent", got.Search)
	assert.Equal(t, []string{"title", "content"}, got.SearchFields)
	require.NotNil(t, got.UpdatedSince)
	assert.True(t, got.UpdatedSince.Equal(time.Date(2024, time.March, 8, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "updated", got.OrderBy)
	assert.True(t, got.Desc)
	assert.Equal(t, 100, got.Limit, "limit is capped at list_per_page")

	assert.Equal(t, int64(1), cl.Count)
	assert.Equal(t, "-updated", cl.Ordering)
	require.Len(t, cl.Results, 1)
	row := cl.Results[0]
	assert.Equal(t, "Packing list", row["title"])
	assert.NotContains(t, row, "content")
	assert.Equal(t, map[string]string{"updated": "/api/admin/posts/4"}, row["links"])
}

func TestPostAdminService_ChangeList_InvalidFilter(t *testing.T) {
	t.Parallel()

	repo := &postRepoStub{queryFn: func(context.Context, repository.PostQuery) ([]models.Post, int64, error) {
		t.Fatal("query must not run")
		return nil, 0, nil
	}}
	svc := NewPostAdminService(repo, admin.DefaultRegistry())

	_, err := svc.ChangeList(context.Background(), ChangeListParams{Updated: "yesterday"})
	assertAppErrorCode(t, err, models.CodeValidation)
}

func TestPostAdminService_ChangeList_UsesOverrides(t *testing.T) {
	t.Parallel()

	registry := admin.DefaultRegistry()
	require.NoError(t, registry.ApplyOverrides([]byte("models:\n  post:\n    list_filter: []\n    ordering: title\n")))

	var got repository.PostQuery
	repo := &postRepoStub{queryFn: func(_ context.Context, q repository.PostQuery) ([]models.Post, int64, error) {
		got = q
		return nil, 0, nil
	}}
	svc := NewPostAdminService(repo, registry)

	cl, err := svc.ChangeList(context.Background(), ChangeListParams{})
	require.NoError(t, err)
	assert.Equal(t, "title", got.OrderBy)
	assert.False(t, got.Desc)
	assert.Empty(t, cl.Results)

	_, err = svc.ChangeList(context.Background(), ChangeListParams{Updated: admin.DateToday})
	assertAppErrorCode(t, err, models.CodeValidation)
}

func TestPostAdminService_CreateUpdate(t *testing.T) {
	t.Parallel()

	stored := map[uint]*models.Post{}
	repo := &postRepoStub{
		createFn: func(_ context.Context, p *models.Post) error {
			p.ID = uint(len(stored) + 1)
			stored[p.ID] = p
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) {
			p, ok := stored[id]
			if !ok {
				return nil, models.NewNotFoundError("Post", id)
			}
			cp := *p
			return &cp, nil
		},
		updateFn: func(_ context.Context, p *models.Post) error {
			stored[p.ID] = p
			return nil
		},
	}
	svc := NewPostAdminService(repo, admin.DefaultRegistry())
	ctx := context.Background()

	_, err := svc.Create(ctx, PostInput{Title: " ", Content: "x"})
	assertAppErrorCode(t, err, models.CodeValidation)

	post, err := svc.Create(ctx, PostInput{Title: "Hello", Content: "World"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, post.ID, PostInput{Title: "Hello again", Content: "World"})
	require.NoError(t, err)
	assert.Equal(t, "Hello again", updated.Title)

	_, err = svc.Update(ctx, 99, PostInput{Title: "x", Content: "y"})
	assertAppErrorCode(t, err, models.CodeNotFound)
}

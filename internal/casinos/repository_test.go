package casinos

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casinohub/backend/internal/apperr"
	"github.com/casinohub/backend/internal/models"
	"github.com/casinohub/backend/internal/ordering"
	"github.com/casinohub/backend/pkg/database/dbtest"
)

func insertCasino(t *testing.T, repo *Repository, name string, active bool, cats ...models.Category) models.Casino {
	t.Helper()
	c := models.Casino{
		Name: name, Logo: "/uploads/" + name + ".png", DepositBonus: "100%", PlayNowURL: "https://example.com",
		Features: []string{"Fast"}, Categories: cats, IsActive: active,
	}
	require.NoError(t, repo.Create(context.Background(), &c))
	return c
}

func TestRepository_CRUD(t *testing.T) {
	repo := NewRepository(dbtest.Pool(t))
	ctx := context.Background()

	c := insertCasino(t, repo, "Lucky", true, models.CategoryNew)
	require.NotEqual(t, uuid.Nil, c.ID)

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lucky", got.Name)
	assert.Equal(t, []models.Category{models.CategoryNew}, got.Categories)
	assert.Equal(t, []string{"Fast"}, got.Features)
	assert.Empty(t, got.CategoryOrder)

	got.Name = "Lucky II"
	require.NoError(t, repo.Update(ctx, got))
	again, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lucky II", again.Name)

	require.NoError(t, repo.Delete(ctx, c.ID))
	_, err = repo.GetByID(ctx, c.ID)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
	assert.True(t, apperr.Is(repo.Delete(ctx, c.ID), apperr.CodeNotFound))
}

func TestRepository_ListFilters(t *testing.T) {
	repo := NewRepository(dbtest.Pool(t))
	ctx := context.Background()

	insertCasino(t, repo, "Alpha 100%", true, models.CategoryFeatured)
	insertCasino(t, repo, "Bravo", false, models.CategoryFeatured)
	insertCasino(t, repo, "Charlie", true, models.CategoryNew)

	list, err := repo.List(ctx, ordering.Query{Category: models.CategoryFeatured})
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha 100%"}, names(list))

	list, err = repo.List(ctx, ordering.Query{Category: models.CategoryFeatured, IncludeInactive: true})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Alpha 100%", "Bravo"}, names(list))

	list, err = repo.List(ctx, ordering.Query{Search: "CHAR"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Charlie"}, names(list))

	list, err = repo.List(ctx, ordering.Query{Search: "%"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha 100%"}, names(list), "wildcards are matched literally")
}

func TestRepository_Reorder(t *testing.T) {
	repo := NewRepository(dbtest.Pool(t))
	ctx := context.Background()

	a := insertCasino(t, repo, "A", true, models.CategoryFeatured, models.CategoryNew)
	b := insertCasino(t, repo, "B", true, models.CategoryFeatured, models.CategoryNew)
	c := insertCasino(t, repo, "C", true, models.CategoryFeatured)
	x := insertCasino(t, repo, "X", true, models.CategoryTopPnP)

	listed := func(k models.Category) []string {
		q := ordering.Query{Category: k}
		list, err := repo.List(ctx, q)
		require.NoError(t, err)
		return names(ordering.List(list, q))
	}

	require.NoError(t, repo.Reorder(ctx, models.CategoryNew, []uuid.UUID{a.ID, b.ID}))
	require.NoError(t, repo.Reorder(ctx, models.CategoryFeatured, []uuid.UUID{c.ID, b.ID, a.ID}))
	assert.Equal(t, []string{"C", "B", "A"}, listed(models.CategoryFeatured))
	assert.Equal(t, []string{"A", "B"}, listed(models.CategoryNew))

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, map[models.Category]int{models.CategoryFeatured: 1, models.CategoryNew: 1}, got.CategoryOrder)

	t.Run("foreign id rejects the whole batch", func(t *testing.T) {
		err := repo.Reorder(ctx, models.CategoryFeatured, []uuid.UUID{a.ID, x.ID})
		assert.True(t, apperr.Is(err, apperr.CodeValidation))
		assert.Equal(t, []string{"C", "B", "A"}, listed(models.CategoryFeatured))
	})

	t.Run("unknown id", func(t *testing.T) {
		err := repo.Reorder(ctx, models.CategoryFeatured, []uuid.UUID{uuid.New()})
		assert.True(t, apperr.Is(err, apperr.CodeValidation))
	})

	t.Run("omitted member keeps its rank", func(t *testing.T) {
		require.NoError(t, repo.Reorder(ctx, models.CategoryFeatured, []uuid.UUID{a.ID}))
		got, err := repo.GetByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, got.CategoryOrder[models.CategoryFeatured])
		got, err = repo.GetByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.CategoryOrder[models.CategoryFeatured])
	})
}

func TestRepository_UpdateKeepsReorderedRanks(t *testing.T) {
	repo := NewRepository(dbtest.Pool(t))
	ctx := context.Background()

	a := insertCasino(t, repo, "A", true, models.CategoryFeatured)
	b := insertCasino(t, repo, "B", true, models.CategoryFeatured)

	// an edit form loaded before the reorder still carries the old ranks
	stale, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	require.NoError(t, repo.Reorder(ctx, models.CategoryFeatured, []uuid.UUID{b.ID, a.ID}))

	stale.Name = "A renamed"
	stale.CategoryOrder = map[models.Category]int{models.CategoryFeatured: 0}
	require.NoError(t, repo.Update(ctx, stale))
	assert.Equal(t, 1, stale.CategoryOrder[models.CategoryFeatured], "Update reports the stored rank")

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "A renamed", got.Name)
	assert.Equal(t, 1, got.CategoryOrder[models.CategoryFeatured])

	q := ordering.Query{Category: models.CategoryFeatured}
	list, err := repo.List(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A renamed"}, names(ordering.List(list, q)))

	assert.True(t, apperr.Is(repo.Update(ctx, &models.Casino{ID: uuid.New()}), apperr.CodeNotFound))
}

func TestRepository_DeleteReferenced(t *testing.T) {
	pool := dbtest.Pool(t)
	repo := NewRepository(pool)
	ctx := context.Background()

	c := insertCasino(t, repo, "Host", true)
	_, err := pool.Exec(ctx, `INSERT INTO giveaways (title, description, casino_id, start_date, end_date,
		deposit_requirements, prize_pool, prize_distribution, bonus_details)
		VALUES ('Spring', 'd', $1, NOW(), NOW() + INTERVAL '1 day', 'r', 'p', 'x', 'b')`, c.ID)
	require.NoError(t, err)

	err = repo.Delete(ctx, c.ID)
	assert.True(t, apperr.Is(err, apperr.CodeConflict))
	assert.Contains(t, err.Error(), "1 giveaway;")

	_, err = repo.GetByID(ctx, c.ID)
	assert.NoError(t, err)
}

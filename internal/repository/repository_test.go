package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/axellelanca/linkpool/internal/database"
	customerrors "github.com/axellelanca/linkpool/internal/errors"
	"github.com/axellelanca/linkpool/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func destinations(targets []models.Target) []string {
	out := make([]string, len(targets))
	for i, tg := range targets {
		out[i] = tg.DestinationURL
	}
	return out
}

func TestCreateLinkWithTargets(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	links := NewLinkRepository(db)
	targets := NewTargetRepository(db)

	link := &models.Link{Code: "abc12", PermanentRedirect: true}
	created, err := links.CreateLinkWithTargets(ctx, link, []string{"https://a.example", "https://b.example"})
	require.NoError(t, err)

	assert.NotEmpty(t, link.ID)
	require.Len(t, created, 2)
	for _, tg := range created {
		assert.NotEmpty(t, tg.ID)
		assert.Equal(t, link.ID, tg.LinkID)
		assert.Zero(t, tg.VisitCount)
	}

	found, err := links.GetLinkByCode(ctx, "abc12")
	require.NoError(t, err)
	assert.Equal(t, link.ID, found.ID)
	assert.Equal(t, models.RedirectPermanent, found.Mode())
	assert.Zero(t, found.VisitCount)

	listed, err := targets.ListTargets(ctx, link.ID, 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"https://a.example", "https://b.example"}, destinations(listed))
}

func TestCreateLinkWithTargets_EmptyList(t *testing.T) {
	ctx := context.Background()
	links := NewLinkRepository(newTestDB(t))

	_, err := links.CreateLinkWithTargets(ctx, &models.Link{Code: "empty"}, nil)
	assert.ErrorIs(t, err, customerrors.ErrEmptyTargetList)

	_, err = links.GetLinkByCode(ctx, "empty")
	assert.ErrorIs(t, err, customerrors.ErrLinkNotFound)
}

func TestCreateLinkWithTargets_DuplicateCode(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	links := NewLinkRepository(db)
	targets := NewTargetRepository(db)

	first := &models.Link{Code: "dup"}
	_, err := links.CreateLinkWithTargets(ctx, first, []string{"https://first.example"})
	require.NoError(t, err)

	second := &models.Link{Code: "dup"}
	_, err = links.CreateLinkWithTargets(ctx, second, []string{"https://second.example"})
	assert.ErrorIs(t, err, customerrors.ErrDuplicateCode)
	assert.Empty(t, second.ID)

	found, err := links.GetLinkByCode(ctx, "dup")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)

	// The rolled back transaction must not leave orphan targets behind.
	all, err := targets.GetAllTargets(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://first.example"}, destinations(all))
}

func TestGetLinkByCode_NotFound(t *testing.T) {
	_, err := NewLinkRepository(newTestDB(t)).GetLinkByCode(context.Background(), "missing")
	assert.ErrorIs(t, err, customerrors.ErrLinkNotFound)
}

func TestListTargets_RespectsLimit(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	links := NewLinkRepository(db)
	targets := NewTargetRepository(db)

	var dests []string
	for i := 0; i < 15; i++ {
		dests = append(dests, fmt.Sprintf("https://%d.example", i))
	}
	link := &models.Link{Code: "many"}
	_, err := links.CreateLinkWithTargets(ctx, link, dests)
	require.NoError(t, err)

	listed, err := targets.ListTargets(ctx, link.ID, 10)
	require.NoError(t, err)
	assert.Len(t, listed, 10)

	again, err := targets.ListTargets(ctx, link.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, destinations(listed), destinations(again), "order must be stable")
}

func TestIncrementVisits_Concurrent(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	links := NewLinkRepository(db)
	targets := NewTargetRepository(db)

	link := &models.Link{Code: "hot"}
	created, err := links.CreateLinkWithTargets(ctx, link, []string{"https://hot.example"})
	require.NoError(t, err)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, links.IncrementLinkVisits(ctx, link.ID))
			assert.NoError(t, targets.IncrementTargetVisits(ctx, created[0].ID))
		}()
	}
	wg.Wait()

	found, err := links.GetLinkByCode(ctx, "hot")
	require.NoError(t, err)
	assert.Equal(t, int64(n), found.VisitCount)

	listed, err := targets.ListTargets(ctx, link.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(n), listed[0].VisitCount)
}

func TestIncrementVisits_UnknownID(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	assert.Error(t, NewLinkRepository(db).IncrementLinkVisits(ctx, "nope"))
	assert.Error(t, NewTargetRepository(db).IncrementTargetVisits(ctx, "nope"))
}

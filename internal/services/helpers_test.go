package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/axellelanca/linkpool/internal/database"
	"github.com/axellelanca/linkpool/internal/models"
	"github.com/axellelanca/linkpool/internal/repository"
)

type stores struct {
	links   *repository.GormLinkRepository
	targets *repository.GormTargetRepository
}

func newStores(t *testing.T) stores {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return stores{
		links:   repository.NewLinkRepository(db),
		targets: repository.NewTargetRepository(db),
	}
}

// sequenceGenerator hands out codes in order and counts calls.
type sequenceGenerator struct {
	mu    sync.Mutex
	codes []string
	calls int
}

func (g *sequenceGenerator) Generate() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	code := g.codes[g.calls%len(g.codes)]
	g.calls++
	return code, nil
}

var errBoom = errors.New("boom")

// fakeLinks serves a single link from memory.
type fakeLinks struct {
	link         *models.Link
	findErr      error
	incrementErr error

	mu         sync.Mutex
	increments int
}

func (f *fakeLinks) CreateLinkWithTargets(context.Context, *models.Link, []string) ([]models.Target, error) {
	return nil, errBoom
}

func (f *fakeLinks) GetLinkByCode(_ context.Context, code string) (*models.Link, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.link, nil
}

func (f *fakeLinks) IncrementLinkVisits(context.Context, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.increments++
	return f.incrementErr
}

// fakeTargets serves a fixed target list from memory.
type fakeTargets struct {
	targets      []models.Target
	listErr      error
	incrementErr error

	mu      sync.Mutex
	counted []string
}

func (f *fakeTargets) ListTargets(_ context.Context, _ string, limit int) ([]models.Target, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if len(f.targets) > limit {
		return f.targets[:limit], nil
	}
	return f.targets, nil
}

func (f *fakeTargets) GetAllTargets(context.Context) ([]models.Target, error) {
	return f.targets, nil
}

func (f *fakeTargets) IncrementTargetVisits(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counted = append(f.counted, id)
	return f.incrementErr
}

// blockingLinks holds every link increment until release is closed.
type blockingLinks struct {
	fakeLinks
	release chan struct{}
}

func (b *blockingLinks) IncrementLinkVisits(ctx context.Context, id string) error {
	<-b.release
	return b.fakeLinks.IncrementLinkVisits(ctx, id)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"

	customerrors "github.com/axellelanca/linkpool/internal/errors"
	"github.com/axellelanca/linkpool/internal/models"
	"github.com/axellelanca/linkpool/internal/repository"
)

// DefaultTargetCap is the number of targets loaded per resolution.
const DefaultTargetCap = 10

// Resolution is the outcome of one visit to a short code.
type Resolution struct {
	Link           *models.Link        // The link the code belongs to
	Target         models.Target       // The target drawn for this visit
	DestinationURL string              // Where the client is sent
	Mode           models.RedirectMode // Permanent or temporary redirect
}

// Resolver maps a short code to one of its targets.
// Targets beyond the cap are never loaded and therefore never drawn.
type Resolver struct {
	links     repository.LinkRepository   // Link lookup by code
	targets   repository.TargetRepository // Bounded target loading
	counter   *VisitCounter               // Receives the visit increments, never awaited
	targetCap int                         // Max targets loaded, and so drawable, per visit
	pick      func(n int) int             // Returns an index in [0, n); uniform in production
}

// NewResolver creates a Resolver. counter receives the visit increments.
func NewResolver(links repository.LinkRepository, targets repository.TargetRepository, counter *VisitCounter, targetCap int) *Resolver {
	if targetCap < 1 {
		targetCap = DefaultTargetCap
	}
	return &Resolver{
		links:     links,
		targets:   targets,
		counter:   counter,
		targetCap: targetCap,
		pick:      rand.Intn,
	}
}

// Resolve looks up code, draws one of its targets uniformly at random and
// schedules the visit increments without waiting for them.
//
// Returns ErrLinkNotFound when the code is unknown or has no targets, and an
// error wrapping ErrStoreUnavailable when the store fails.
func (r *Resolver) Resolve(ctx context.Context, code string) (*Resolution, error) {
	// 1. Find the link; an unknown code is a plain not-found
	link, err := r.links.GetLinkByCode(ctx, code)
	if err != nil {
		if errors.Is(err, customerrors.ErrLinkNotFound) {
			return nil, err
		}
		return nil, storeError("find link", code, err)
	}

	// 2. Load at most targetCap targets; a failure here is a store error, not a 404
	targets, err := r.targets.ListTargets(ctx, link.ID, r.targetCap)
	if err != nil {
		return nil, storeError("list targets", code, err)
	}
	// 3. A link without targets can't redirect anywhere: fail closed
	if len(targets) == 0 {
		log.Printf("[RESOLVE] link %s (%s) has no targets", link.Code, link.ID)
		return nil, customerrors.ErrLinkNotFound
	}

	// 4. Uniform draw over the loaded window, visit history is ignored
	chosen := targets[r.pick(len(targets))]

	// 5. Count the visit in the background; the response doesn't wait for it
	r.counter.Record(link.ID, chosen.ID)

	return &Resolution{
		Link:           link,
		Target:         chosen,
		DestinationURL: chosen.DestinationURL,
		Mode:           link.Mode(),
	}, nil
}

// storeError classifies err as an internal store failure.
func storeError(op, code string, err error) error {
	if errors.Is(err, customerrors.ErrStoreUnavailable) {
		return fmt.Errorf("%s for %q: %w", op, code, err)
	}
	return fmt.Errorf("%s for %q: %w: %w", op, code, customerrors.ErrStoreUnavailable, err)
}

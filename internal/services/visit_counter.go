package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/sourcegraph/conc"

	customerrors "github.com/axellelanca/linkpool/internal/errors"
	"github.com/axellelanca/linkpool/internal/repository"
)

// DefaultCounterTimeout bounds a single detached increment.
const DefaultCounterTimeout = 5 * time.Second

// VisitCounter applies visit increments off the request path.
// Each increment runs on its own goroutine with a context detached from the
// request, so an aborted request still gets counted. Failures are logged and dropped.
type VisitCounter struct {
	links   repository.LinkRepository   // Store holding the link counters
	targets repository.TargetRepository // Store holding the target counters
	timeout time.Duration               // Deadline of each increment, independent of the request

	// mu guards closed; Record holds it for reading while it schedules,
	// so Close cannot start waiting in the middle of a Go call.
	mu     sync.RWMutex
	closed bool
	wg     conc.WaitGroup // Tracks in-flight increments
}

// NewVisitCounter creates a counter writing through the given stores.
func NewVisitCounter(links repository.LinkRepository, targets repository.TargetRepository, timeout time.Duration) *VisitCounter {
	if timeout <= 0 {
		timeout = DefaultCounterTimeout
	}
	return &VisitCounter{
		links:   links,
		targets: targets,
		timeout: timeout,
	}
}

// Record schedules one increment for the link and one for the chosen target.
// It returns immediately. After Close, visits are logged and dropped.
func (c *VisitCounter) Record(linkID, targetID string) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		log.Printf("[COUNTER] counter closed, dropping visit for link %s (target %s)", linkID, targetID)
		return
	}

	// Link and target counters are independent rows: neither waits for the other.
	c.wg.Go(func() {
		c.apply("link", linkID, c.links.IncrementLinkVisits)
	})
	c.wg.Go(func() {
		c.apply("target", targetID, c.targets.IncrementTargetVisits)
	})
}

// Wait blocks until every increment scheduled so far has finished.
// Callers that may still Record concurrently should use Close instead.
func (c *VisitCounter) Wait() {
	c.wg.Wait()
}

// Close stops accepting new visits, then waits for the in-flight ones.
// Requests still running after a failed server shutdown can no longer
// add work while we wait.
func (c *VisitCounter) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.wg.Wait()
}

// apply runs one increment and logs its failure; the redirect has already been served.
func (c *VisitCounter) apply(kind, id string, increment func(context.Context, string) error) {
	// Fresh context: the request's one may already be cancelled
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	if err := increment(ctx, id); err != nil {
		// Log error but don't propagate - counters are best-effort
		log.Printf("[COUNTER] %v", customerrors.ErrCounterUpdateFailed{Kind: kind, ID: id, Reason: err.Error()})
	}
}

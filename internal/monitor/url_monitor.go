package monitor

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	customerrors "github.com/axellelanca/linkpool/internal/errors"
	"github.com/axellelanca/linkpool/internal/repository"
)

// UrlMonitor periodically checks that target destinations answer, and logs
// every change of state. It only reads the store; counters are untouched.
type UrlMonitor struct {
	targetRepo  repository.TargetRepository // Repository to read targets from
	interval    time.Duration               // Interval between two checks (e.g. 5 minutes)
	knownStates map[string]bool             // Last known state per target ID (true = accessible)
	mu          sync.Mutex                  // Mutex protecting concurrent access to knownStates
	httpClient  *http.Client                // Client shared by every check
}

// NewUrlMonitor creates and returns a new instance of UrlMonitor.
func NewUrlMonitor(targetRepo repository.TargetRepository, interval time.Duration) *UrlMonitor {
	return &UrlMonitor{
		targetRepo:  targetRepo,
		interval:    interval,
		knownStates: make(map[string]bool),
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Start runs a check immediately, then every interval, until ctx is done.
func (m *UrlMonitor) Start(ctx context.Context) {
	log.Printf("[MONITOR] Starting URL monitor with interval of %v...", m.interval)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	// Run a first check right away instead of waiting a full interval
	m.checkTargets(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("[MONITOR] Stopped.")
			return
		case <-ticker.C:
			m.checkTargets(ctx)
		}
	}
}

// State returns the last observed state of a target.
func (m *UrlMonitor) State(targetID string) (accessible, known bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	accessible, known = m.knownStates[targetID]
	return accessible, known
}

// checkTargets checks every stored target and reports state changes.
func (m *UrlMonitor) checkTargets(ctx context.Context) {
	log.Println("[MONITOR] Starting destination status verification...")

	targets, err := m.targetRepo.GetAllTargets(ctx)
	if err != nil {
		log.Printf("[MONITOR] ERROR retrieving targets for monitoring: %v", err)
		return
	}

	for _, target := range targets {
		// Stop mid-pass on shutdown
		if ctx.Err() != nil {
			return
		}

		// Check the current accessibility of the destination
		currentState := true
		if err := m.checkURL(ctx, target.DestinationURL); err != nil {
			log.Printf("[MONITOR] %v", err)
			currentState = false
		}

		// Swap the state in under the lock; the map is also read by State
		m.mu.Lock()
		previousState, exists := m.knownStates[target.ID]
		m.knownStates[target.ID] = currentState
		m.mu.Unlock()

		// First check for this target: record the state, no notification
		if !exists {
			log.Printf("[MONITOR] Initial state for target %s (%s): %s",
				target.ID, target.DestinationURL, formatState(currentState))
			continue
		}

		// State changed since the last check
		if currentState != previousState {
			log.Printf("[NOTIFICATION] Target %s (%s) changed from %s to %s!",
				target.ID, target.DestinationURL, formatState(previousState), formatState(currentState))
		}
	}
	log.Println("[MONITOR] Destination status verification completed.")
}

// checkURL sends a HEAD request; 2xx and 3xx count as accessible.
func (m *UrlMonitor) checkURL(ctx context.Context, url string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return customerrors.ErrURLCheckFailed{URL: url, Reason: err.Error()}
	}

	// Network errors, timeouts and DNS failures all count as inaccessible
	resp, err := m.httpClient.Do(req)
	if err != nil {
		return customerrors.ErrURLCheckFailed{URL: url, Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return customerrors.ErrURLCheckFailed{URL: url, Reason: resp.Status}
	}
	return nil
}

// formatState renders a state for the logs.
func formatState(accessible bool) string {
	if accessible {
		return "ACCESSIBLE"
	}
	return "INACCESSIBLE"
}

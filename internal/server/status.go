package server

import (
	"sync"
	"time"

	"NewsletterDigest/internal/domain"
	"NewsletterDigest/internal/ports"
)

// StatusTracker keeps the thread-safe last-run snapshot the status API
// serves. The pipeline only reports events into it; it owns no pipeline
// logic itself.
type StatusTracker struct {
	mu      sync.Mutex
	report  domain.RunReport
	running bool
}

var _ ports.ProgressSink = (*StatusTracker)(nil)

// NewStatusTracker starts in the not-run state.
func NewStatusTracker() *StatusTracker {
	return &StatusTracker{report: domain.RunReport{Outcome: domain.OutcomeNotRun}}
}

// TryBegin claims the single run slot; it fails while a run is already
// in progress so overlapping runs never happen.
func (t *StatusTracker) TryBegin() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return false
	}
	t.running = true
	return true
}

// RunStarted resets the snapshot for a fresh run.
func (t *StatusTracker) RunStarted() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.report = domain.RunReport{
		Timestamp: time.Now(),
		Outcome:   domain.OutcomeRunning,
	}
}

// NewslettersFound records the newsletter count.
func (t *StatusTracker) NewslettersFound(count int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.report.NewsletterCount = count
}

// ArticlesCounted records the unique article count.
func (t *StatusTracker) ArticlesCounted(count int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.report.ArticleCount = count
}

// RunFinished stores the terminal outcome and releases the run slot.
func (t *StatusTracker) RunFinished(outcome domain.RunOutcome, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.report.Outcome = outcome
	if err != nil {
		t.report.Err = err.Error()
	}
	t.running = false
}

// Snapshot returns a copy of the last-run report and the running flag.
func (t *StatusTracker) Snapshot() (domain.RunReport, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.report, t.running
}

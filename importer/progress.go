package importer

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressTracker reports how far an import has got.
type ProgressTracker struct {
	writer         io.Writer
	total          int
	processed      int
	skipped        int
	reportInterval int
	lastReported   int
	startTime      time.Time
	started        bool
	mu             sync.Mutex
}

// NewProgressTracker creates a tracker for total entries that writes a status
// line every reportInterval processed entries.
func NewProgressTracker(writer io.Writer, total, reportInterval int) *ProgressTracker {
	if reportInterval <= 0 {
		reportInterval = 1
	}
	return &ProgressTracker{
		writer:         writer,
		total:          total,
		reportInterval: reportInterval,
	}
}

// Start begins tracking progress.
func (p *ProgressTracker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.startTime = time.Now()
	p.started = true
	p.processed = 0
	p.skipped = 0
	p.lastReported = 0
}

// Add records a finished batch: processed entries, of which skipped were not
// stored.
func (p *ProgressTracker) Add(processed, skipped int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	p.processed = min(p.processed+processed, p.total)
	p.skipped += skipped

	if p.processed-p.lastReported >= p.reportInterval {
		p.report()
		p.lastReported = p.processed
	}
}

// Finish prints the final status line.
func (p *ProgressTracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	p.report()
	fmt.Fprintln(p.writer)
}

// Elapsed returns the time elapsed since Start was called.
func (p *ProgressTracker) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return 0
	}
	return time.Since(p.startTime)
}

// report prints the current progress. Must be called with lock held.
func (p *ProgressTracker) report() {
	rate := float64(p.processed) / time.Since(p.startTime).Seconds()

	percentage := 0.0
	if p.total > 0 {
		percentage = float64(p.processed) / float64(p.total) * 100.0
	}

	fmt.Fprintf(p.writer, "\rImported: %d/%d (%.1f%%), %d skipped - %.1f locations/s",
		p.processed, p.total, percentage, p.skipped, rate)
}

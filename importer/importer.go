package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/waypoint/core"
	"github.com/poiesic/waypoint/provider"
	"github.com/poiesic/waypoint/storage"
)

// Config holds configuration for an import.
type Config struct {
	// BatchSize is the number of locations written per transaction
	BatchSize int

	// ReportInterval is how often to report progress (number of entries)
	ReportInterval int

	// MaxRetries is the maximum number of attempts per batch
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     100 * time.Millisecond,
	}
}

// Result summarizes an import.
type Result struct {
	Read       int // entries in the feed
	Imported   int // locations stored
	Duplicates int // places the owner had already saved
	Invalid    int // entries rejected by validation
}

// Importer writes feed entries into a location repository.
type Importer struct {
	repo     storage.LocationRepository
	config   *Config
	progress io.Writer
	logger   *slog.Logger
}

// NewImporter creates a new importer.
// progress: where to write progress output (typically os.Stderr)
func NewImporter(repo storage.LocationRepository, config *Config, progress io.Writer) (*Importer, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BatchSize <= 0 {
		return nil, ErrInvalidBatchSize
	}
	if config.MaxRetries <= 0 {
		return nil, ErrInvalidMaxRetries
	}
	if progress == nil {
		progress = io.Discard
	}
	return &Importer{
		repo:     repo,
		config:   config,
		progress: progress,
		logger:   slog.Default().With("component", "importer"),
	}, nil
}

// Run decodes the feed from r and stores every valid entry.
func (im *Importer) Run(ctx context.Context, r io.Reader) (*Result, error) {
	entries, err := DecodeFeed(r)
	if err != nil {
		return nil, err
	}

	result := &Result{Read: len(entries)}
	if len(entries) == 0 {
		fmt.Fprintf(im.progress, "No locations found in feed (0 entries)\n")
		return result, nil
	}

	fmt.Fprintf(im.progress, "Starting import of %d locations (batch size: %d)\n",
		len(entries), im.config.BatchSize)

	tracker := NewProgressTracker(im.progress, len(entries), im.config.ReportInterval)
	tracker.Start()

	for start := 0; start < len(entries); start += im.config.BatchSize {
		end := min(start+im.config.BatchSize, len(entries))
		batch := entries[start:end]

		locations := make([]*core.SavedLocation, 0, len(batch))
		for i, entry := range batch {
			loc, err := entry.Location()
			if err != nil {
				im.logger.Warn("skipping invalid entry", "index", start+i, "name", entry.Name, "error", err)
				result.Invalid++
				continue
			}
			locations = append(locations, loc)
		}

		imported, duplicates, err := im.store(ctx, locations)
		result.Imported += imported
		result.Duplicates += duplicates
		if err != nil {
			tracker.Finish()
			return result, fmt.Errorf("failed to import entries %d-%d: %w", start, end-1, err)
		}

		tracker.Add(len(batch), len(batch)-imported)
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(im.progress, "Import complete. Stored %d of %d locations in %v (%d duplicates, %d invalid)\n",
		result.Imported, result.Read, elapsed.Round(time.Millisecond), result.Duplicates, result.Invalid)

	return result, nil
}

// store writes a batch in one transaction. If the batch holds a duplicate,
// it falls back to one location at a time so the rest still land.
func (im *Importer) store(ctx context.Context, locations []*core.SavedLocation) (imported, duplicates int, err error) {
	if len(locations) == 0 {
		return 0, 0, nil
	}

	err = im.add(ctx, locations...)
	if err == nil {
		return len(locations), 0, nil
	}
	if !errors.Is(err, storage.ErrDuplicateKey) {
		return 0, 0, err
	}

	for _, loc := range locations {
		err := im.add(ctx, loc)
		switch {
		case err == nil:
			imported++
		case errors.Is(err, storage.ErrDuplicateKey):
			im.logger.Debug("skipping duplicate place", "owner", loc.OwnerId, "name", loc.Name)
			duplicates++
		default:
			return imported, duplicates, err
		}
	}
	return imported, duplicates, nil
}

func (im *Importer) add(ctx context.Context, locations ...*core.SavedLocation) error {
	return provider.RetryWithBackoff(ctx, func() error {
		_, err := im.repo.AddLocations(ctx, locations...)
		if errors.Is(err, storage.ErrDuplicateKey) || errors.Is(err, core.ErrInvalidSavedLocation) {
			return &provider.Permanent{Err: err}
		}
		return err
	}, im.config.MaxRetries, im.config.RetryDelay)
}

// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package waypoint wires place providers, the search orchestrator and saved
// location storage into a single Engine.
package waypoint

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/poiesic/waypoint/core"
	"github.com/poiesic/waypoint/importer"
	"github.com/poiesic/waypoint/provider"
	"github.com/poiesic/waypoint/provider/nominatim"
	"github.com/poiesic/waypoint/provider/openai"
	"github.com/poiesic/waypoint/search"
	"github.com/poiesic/waypoint/storage"
	"github.com/poiesic/waypoint/storage/badger"
	"github.com/poiesic/waypoint/telemetry"
	"go.opentelemetry.io/otel/metric"
)

// Engine ties saved-location storage to the search and suggestion providers.
// It hands out orchestrators for interactive search and persists the
// candidates a user picks.
type Engine struct {
	repo     storage.LocationRepository
	provider provider.Provider
	monitor  *telemetry.Monitor
	logger   *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	providerConfig *provider.Config
	provider       provider.Provider
	meterProvider  metric.MeterProvider
	inMemory       bool
	logger         *slog.Logger
}

// WithProviderConfig sets the configuration used to build the place provider.
// Default is provider.DefaultConfig().
func WithProviderConfig(config *provider.Config) EngineOption {
	return func(o *engineOptions) {
		o.providerConfig = config
	}
}

// WithProvider uses an already constructed provider instead of building one.
// The engine takes ownership and closes it.
func WithProvider(p provider.Provider) EngineOption {
	return func(o *engineOptions) {
		o.provider = p
	}
}

// WithMeterProvider sets the meter provider for search metrics.
// Default is the global OpenTelemetry meter provider.
func WithMeterProvider(mp metric.MeterProvider) EngineOption {
	return func(o *engineOptions) {
		o.meterProvider = mp
	}
}

// InMemory keeps saved locations in memory. The path passed to Open is ignored.
func InMemory() EngineOption {
	return func(o *engineOptions) {
		o.inMemory = true
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// Open opens (creating if needed) the saved location database at path and
// builds the place provider.
func Open(path string, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		providerConfig: provider.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}
	logger := options.logger
	if logger == nil {
		logger = slog.Default()
	}

	var telemetryOpts []telemetry.Option
	if options.meterProvider != nil {
		telemetryOpts = append(telemetryOpts, telemetry.WithMeterProvider(options.meterProvider))
	}
	monitor, err := telemetry.NewMonitor(telemetryOpts...)
	if err != nil {
		return nil, err
	}

	var repo storage.LocationRepository
	if options.inMemory {
		repo, err = badger.NewMemoryRepository(badger.WithLogger(logger))
	} else {
		repo, err = badger.NewLocationRepository(path, badger.WithLogger(logger))
	}
	if err != nil {
		return nil, err
	}

	placeProvider := options.provider
	if placeProvider == nil {
		placeProvider, err = openai.NewProvider(options.providerConfig,
			nominatim.WithObserver(monitor),
			nominatim.WithLogger(logger))
		if err != nil {
			repo.Close()
			return nil, err
		}
	}

	return &Engine{
		repo:     repo,
		provider: placeProvider,
		monitor:  monitor,
		logger:   logger.With("component", "engine"),
	}, nil
}

// Close releases the provider and closes the database.
func (e *Engine) Close() error {
	if err := e.provider.Close(); err != nil {
		e.logger.Error("error closing place provider", "err", err)
	}
	if err := e.repo.Close(); err != nil {
		e.logger.Error("error closing location repository", "err", err)
		return err
	}
	return nil
}

// Repository returns the saved location repository.
func (e *Engine) Repository() storage.LocationRepository {
	return e.repo
}

// NewOrchestrator creates a search session backed by the engine's provider
// and monitor. Options passed here override the engine defaults.
func (e *Engine) NewOrchestrator(opts ...search.Option) (*search.Orchestrator, error) {
	defaults := []search.Option{
		search.WithLogger(e.logger),
		search.WithMonitor(e.monitor),
	}
	if _, none := e.provider.Suggester().(provider.NoSuggestions); !none {
		defaults = append(defaults, search.WithSuggester(e.provider.Suggester()))
	}
	return search.NewOrchestrator(e.provider.Searcher(), append(defaults, opts...)...)
}

// SaveCandidate stores a candidate picked from a search on behalf of ownerId.
// Returns storage.ErrDuplicateKey if the owner already saved that place.
func (e *Engine) SaveCandidate(ctx context.Context, candidate *core.PlaceCandidate, ownerId int64) (*core.SavedLocation, error) {
	loc, err := core.NewSavedLocation(candidate, ownerId)
	if err != nil {
		return nil, err
	}
	if _, err := e.repo.AddLocations(ctx, loc); err != nil {
		return nil, err
	}
	e.logger.Info("saved location", "owner", ownerId, "name", loc.Name, "id", loc.Id)
	return loc, nil
}

// Locations lists an owner's saved locations, newest first.
func (e *Engine) Locations(ctx context.Context, ownerId int64, limit int) ([]*core.SavedLocation, error) {
	return e.repo.ListLocationsByOwner(ctx, ownerId, limit)
}

// DeleteLocation removes a saved location.
func (e *Engine) DeleteLocation(ctx context.Context, id uuid.UUID) error {
	return e.repo.DeleteLocations(ctx, id)
}

// Import loads a JSON location feed from r, writing progress to progress.
// A nil config uses importer.DefaultConfig().
func (e *Engine) Import(ctx context.Context, r io.Reader, progress io.Writer, config *importer.Config) (*importer.Result, error) {
	if r == nil {
		return nil, errors.New("feed reader cannot be nil")
	}
	im, err := importer.NewImporter(e.repo, config, progress)
	if err != nil {
		return nil, err
	}
	return im.Run(ctx, r)
}

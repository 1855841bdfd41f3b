package completion

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/poiesic/waypoint/core"
	"github.com/poiesic/waypoint/provider"
)

const (
	defaultRequestTimeout = 5 * time.Second
	defaultBufferSize     = 1
)

// Batch is one delivery of suggestions for a fragment.
type Batch struct {
	Fragment    string
	Region      core.Region
	Suggestions []core.Suggestion
}

type request struct {
	fragment   string
	region     core.Region
	generation uint64
}

// Completer produces suggestion batches for the most recent fragment.
type Completer struct {
	suggester      provider.Suggester
	maxSuggestions int
	requestTimeout time.Duration
	bufferSize     int
	logger         *slog.Logger

	mu             sync.Mutex
	generation     uint64
	pending        *request
	cancelInFlight context.CancelFunc
	closed         bool

	wake      chan struct{}
	results   chan Batch
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// Option configures a Completer.
type Option func(*Completer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Completer) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger.With("component", "completer")
		return nil
	}
}

// WithMaxSuggestions caps the number of suggestions per batch.
// Default is provider.DefaultMaxSuggestions.
func WithMaxSuggestions(n int) Option {
	return func(c *Completer) error {
		if n <= 0 {
			return ErrInvalidMaxSuggestions
		}
		c.maxSuggestions = n
		return nil
	}
}

// WithRequestTimeout bounds each call to the suggester.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(c *Completer) error {
		if timeout <= 0 {
			return ErrInvalidRequestTimeout
		}
		c.requestTimeout = timeout
		return nil
	}
}

// WithBufferSize sets the capacity of the Results channel.
func WithBufferSize(n int) Option {
	return func(c *Completer) error {
		if n < 0 {
			n = 0
		}
		c.bufferSize = n
		return nil
	}
}

// NewCompleter creates a completer and starts its worker.
func NewCompleter(suggester provider.Suggester, opts ...Option) (*Completer, error) {
	if suggester == nil {
		return nil, ErrSuggesterRequired
	}

	c := &Completer{
		suggester:      suggester,
		maxSuggestions: provider.DefaultMaxSuggestions,
		requestTimeout: defaultRequestTimeout,
		bufferSize:     defaultBufferSize,
		logger:         slog.Default().With("component", "completer"),
		wake:           make(chan struct{}, 1),
		done:           make(chan struct{}),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	c.results = make(chan Batch, c.bufferSize)

	c.wg.Add(1)
	go c.run()

	return c, nil
}

// Results returns the channel batches are delivered on.
// It is closed by Close.
func (c *Completer) Results() <-chan Batch {
	return c.results
}

// Update reports the current fragment and region. An empty fragment cancels
// any pending or in-flight request.
func (c *Completer) Update(fragment string, region core.Region) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.generation++
	if fragment == "" {
		c.pending = nil
		if c.cancelInFlight != nil {
			c.cancelInFlight()
		}
		c.mu.Unlock()
		return
	}
	c.pending = &request{fragment: fragment, region: region, generation: c.generation}
	c.mu.Unlock()

	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// Close stops the worker and closes the Results channel. It is safe to call
// more than once.
func (c *Completer) Close() error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.pending = nil
		if c.cancelInFlight != nil {
			c.cancelInFlight()
		}
		c.mu.Unlock()

		close(c.done)
		c.wg.Wait()
		close(c.results)
	})
	return nil
}

func (c *Completer) run() {
	defer c.wg.Done()
	for {
		select {
		case <-c.done:
			return
		case <-c.wake:
		}

		for {
			req, ctx, cancel := c.next()
			if req == nil {
				break
			}
			batch, ok := c.request(ctx, req)
			cancel()
			if !ok {
				continue
			}
			if !c.current(req.generation) {
				c.logger.Debug("dropping superseded suggestions", "fragment", req.fragment)
				continue
			}
			select {
			case c.results <- batch:
			case <-c.done:
				return
			}
		}
	}
}

// next takes the pending request, if any, and registers its cancel func.
func (c *Completer) next() (*request, context.Context, context.CancelFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()

	req := c.pending
	if req == nil {
		return nil, nil, nil
	}
	c.pending = nil

	ctx, cancel := context.WithTimeout(context.Background(), c.requestTimeout)
	c.cancelInFlight = cancel
	return req, ctx, cancel
}

func (c *Completer) current(generation uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed && c.generation == generation
}

func (c *Completer) request(ctx context.Context, req *request) (Batch, bool) {
	suggestions, err := c.suggester.Suggest(ctx, req.fragment, req.region)
	if err != nil {
		c.logger.Warn("suggestion request failed", "fragment", req.fragment, "err", err)
		return Batch{}, false
	}
	if len(suggestions) == 0 {
		return Batch{}, false
	}
	if len(suggestions) > c.maxSuggestions {
		suggestions = suggestions[:c.maxSuggestions]
	}
	return Batch{
		Fragment:    req.fragment,
		Region:      req.region,
		Suggestions: suggestions,
	}, true
}

package search

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/waypoint/completion"
	"github.com/poiesic/waypoint/core"
	"github.com/poiesic/waypoint/provider"
)

const (
	// DefaultDebounceInterval is the quiet period before a query is dispatched.
	DefaultDebounceInterval = 300 * time.Millisecond

	// MaxResolvedSuggestions caps the suggestions resolved per completion batch.
	MaxResolvedSuggestions = 5

	defaultPoolSize      = MaxResolvedSuggestions
	defaultSearchTimeout = 10 * time.Second
	eventBufferSize      = 64

	// primaryPrefix biases the primary search toward local businesses.
	primaryPrefix = "nearby "
)

type inputEvent struct {
	query  string
	region core.Region
	ack    chan struct{}
}

type fireEvent struct {
	seq uint64
}

type roundEvent struct {
	generation uint64
	query      string
	candidates []*core.PlaceCandidate
}

type mergeEvent struct {
	session    uint64
	candidates []*core.PlaceCandidate
}

// Orchestrator turns keystrokes into a ranked, published candidate list.
//
// Queries are debounced, dispatched as a primary point-of-interest search
// with a widened fallback, and ranked by relevance. When a completer is
// configured, its suggestions are resolved in the background and merged into
// the current list. All state changes are made by a single event loop;
// consumers read snapshots through State or Subscribe.
type Orchestrator struct {
	searcher         provider.SearchProvider
	completer        *completion.Completer
	suggester        provider.Suggester
	completerOpts    []completion.Option
	pool             *ants.Pool
	poolSize         int
	debounceInterval time.Duration
	searchTimeout    time.Duration
	monitor          SearchMonitor
	logger           *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	events   chan any
	snapshot atomic.Pointer[State]

	subsMu  sync.Mutex
	subs    map[uint64]chan State
	nextSub uint64

	// session is bumped by every clear; merges carry the session their
	// completion batch arrived in.
	session atomic.Uint64

	closed       atomic.Bool
	done         chan struct{}
	loopDone     chan struct{}
	listenerDone chan struct{}
	tasks        sync.WaitGroup
	closeOnce    sync.Once

	// Owned by the event loop.
	debounce   *debouncer
	pending    inputEvent
	candidates []*core.PlaceCandidate
	active     bool
	searching  bool
	generation uint64
	query      string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// WithDebounceInterval sets the quiet period before a query is dispatched.
// Default is DefaultDebounceInterval.
func WithDebounceInterval(interval time.Duration) Option {
	return func(o *Orchestrator) error {
		if interval < 0 {
			return ErrInvalidDebounceInterval
		}
		o.debounceInterval = interval
		return nil
	}
}

// WithMonitor sets a monitor that observes the pipeline.
func WithMonitor(monitor SearchMonitor) Option {
	return func(o *Orchestrator) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		o.monitor = monitor
		return nil
	}
}

// WithPoolSize sets the number of workers resolving suggestions.
func WithPoolSize(size int) Option {
	return func(o *Orchestrator) error {
		if size <= 0 {
			return ErrInvalidPoolSize
		}
		o.poolSize = size
		return nil
	}
}

// WithSearchTimeout bounds each provider search.
func WithSearchTimeout(timeout time.Duration) Option {
	return func(o *Orchestrator) error {
		if timeout <= 0 {
			return ErrInvalidSearchTimeout
		}
		o.searchTimeout = timeout
		return nil
	}
}

// WithCompleter enables the suggestion channel using an existing completer.
// The orchestrator takes ownership and closes it on Close.
func WithCompleter(completer *completion.Completer) Option {
	return func(o *Orchestrator) error {
		o.completer = completer
		return nil
	}
}

// WithSuggester enables the suggestion channel with a completer built over
// suggester. Ignored when WithCompleter is also given.
func WithSuggester(suggester provider.Suggester, opts ...completion.Option) Option {
	return func(o *Orchestrator) error {
		o.suggester = suggester
		o.completerOpts = opts
		return nil
	}
}

// NewOrchestrator creates an orchestrator and starts its event loop.
func NewOrchestrator(searcher provider.SearchProvider, opts ...Option) (*Orchestrator, error) {
	if searcher == nil {
		return nil, ErrSearchProviderRequired
	}

	o := &Orchestrator{
		searcher:         searcher,
		poolSize:         defaultPoolSize,
		debounceInterval: DefaultDebounceInterval,
		searchTimeout:    defaultSearchTimeout,
		monitor:          &noopMonitor{},
		logger:           slog.Default(),
		events:           make(chan any, eventBufferSize),
		subs:             make(map[uint64]chan State),
		done:             make(chan struct{}),
		loopDone:         make(chan struct{}),
		listenerDone:     make(chan struct{}),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	pool, err := ants.NewPool(o.poolSize)
	if err != nil {
		return nil, err
	}
	o.pool = pool

	if o.completer == nil && o.suggester != nil {
		copts := append([]completion.Option{completion.WithLogger(o.logger)}, o.completerOpts...)
		completer, err := completion.NewCompleter(o.suggester, copts...)
		if err != nil {
			pool.Release()
			return nil, err
		}
		o.completer = completer
	}

	o.ctx, o.cancel = context.WithCancel(context.Background())
	o.debounce = newDebouncer(o.debounceInterval, func(seq uint64) {
		o.send(fireEvent{seq: seq})
	})
	o.snapshot.Store(&State{Candidates: []*core.PlaceCandidate{}})

	go o.loop()
	if o.completer != nil {
		go o.listen()
	} else {
		close(o.listenerDone)
	}

	return o, nil
}

// Search reports the current query and region. It is meant to be called on
// every keystroke. Non-empty queries are debounced before dispatch. An empty
// query clears the candidate list before Search returns.
func (o *Orchestrator) Search(query string, region core.Region) {
	if o.closed.Load() {
		return
	}
	o.monitor.QueryReceived(query)

	if o.completer != nil {
		o.completer.Update(query, region)
	}

	if query != "" {
		o.send(inputEvent{query: query, region: region})
		return
	}

	ack := make(chan struct{})
	if !o.send(inputEvent{ack: ack}) {
		return
	}
	select {
	case <-ack:
	case <-o.done:
	}
}

// State returns a snapshot of the published state.
func (o *Orchestrator) State() State {
	return o.snapshot.Load().clone()
}

// Subscribe returns a channel receiving published states, starting with the
// current one, and a function that ends the subscription. A subscriber that
// falls behind skips intermediate states and still sees the latest one.
func (o *Orchestrator) Subscribe(buffer int) (<-chan State, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan State, buffer)

	o.subsMu.Lock()
	defer o.subsMu.Unlock()

	if o.subs == nil {
		close(ch)
		return ch, func() {}
	}

	id := o.nextSub
	o.nextSub++
	o.subs[id] = ch
	ch <- o.State()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			o.subsMu.Lock()
			defer o.subsMu.Unlock()
			if c, ok := o.subs[id]; ok {
				delete(o.subs, id)
				close(c)
			}
		})
	}
}

// CreateSavedLocation maps a candidate selected by the user into a saved
// location owned by ownerId. The orchestrator does not persist it.
func (o *Orchestrator) CreateSavedLocation(candidate *core.PlaceCandidate, ownerId int64) (*core.SavedLocation, error) {
	return core.NewSavedLocation(candidate, ownerId)
}

// Close stops the orchestrator and releases its workers. Subscriber channels
// are closed. It is safe to call more than once.
func (o *Orchestrator) Close() error {
	o.closeOnce.Do(func() {
		o.closed.Store(true)
		o.cancel()

		if o.completer != nil {
			_ = o.completer.Close()
		}
		<-o.listenerDone

		close(o.done)
		<-o.loopDone
		o.tasks.Wait()
		o.pool.Release()

		o.subsMu.Lock()
		for id, ch := range o.subs {
			delete(o.subs, id)
			close(ch)
		}
		o.subs = nil
		o.subsMu.Unlock()
	})
	return nil
}

// send delivers an event to the loop unless the orchestrator is closing.
func (o *Orchestrator) send(ev any) bool {
	select {
	case o.events <- ev:
		return true
	case <-o.done:
		return false
	}
}

func (o *Orchestrator) loop() {
	defer close(o.loopDone)
	for {
		select {
		case <-o.done:
			o.debounce.stop()
			return
		case ev := <-o.events:
			switch ev := ev.(type) {
			case inputEvent:
				o.handleInput(ev)
			case fireEvent:
				if o.debounce.fired(ev.seq) {
					o.dispatch(o.pending)
				}
			case roundEvent:
				o.handleRound(ev)
			case mergeEvent:
				o.handleMerge(ev)
			}
		}
	}
}

func (o *Orchestrator) handleInput(ev inputEvent) {
	if ev.query != "" {
		o.pending = ev
		o.debounce.trigger()
		return
	}

	o.debounce.stop()
	o.pending = inputEvent{}
	o.session.Add(1)
	o.generation++
	o.active = false
	o.searching = false
	o.query = ""
	o.candidates = nil
	o.publish()
	o.monitor.Cleared()
	o.logger.Debug("search cleared", "generation", o.generation)
	close(ev.ack)
}

func (o *Orchestrator) dispatch(ev inputEvent) {
	o.generation++
	o.active = true
	o.searching = true
	o.query = ev.query
	o.publish()
	o.monitor.Debounced(ev.query)

	generation := o.generation
	o.tasks.Add(1)
	go func() {
		defer o.tasks.Done()
		candidates := o.runRound(ev.query, ev.region)
		o.send(roundEvent{generation: generation, query: ev.query, candidates: candidates})
	}()
}

// runRound performs the primary search and, if it fails or finds nothing,
// the widened fallback. The fallback starts only after the primary returned.
func (o *Orchestrator) runRound(query string, region core.Region) []*core.PlaceCandidate {
	results, err := o.searchOnce(provider.SearchRequest{
		Query:       primaryPrefix + query,
		Region:      region,
		ResultTypes: core.ResultTypePointOfInterest,
	})
	o.monitor.PrimarySearch(query, len(results), err)
	if err == nil && len(results) > 0 {
		return RankByRelevance(results, query)
	}
	if err != nil {
		o.logger.Debug("primary search failed, falling back", "query", query, "err", err)
	}

	results, err = o.searchOnce(provider.SearchRequest{
		Query:       query,
		Region:      region,
		ResultTypes: core.ResultTypePointOfInterest | core.ResultTypeAddress,
	})
	o.monitor.FallbackSearch(query, len(results), err)
	if err != nil {
		o.logger.Warn("fallback search failed", "query", query, "err", err)
		return []*core.PlaceCandidate{}
	}
	return RankByRelevance(results, query)
}

// searchOnce runs one provider search and drops candidates that cannot be located.
func (o *Orchestrator) searchOnce(req provider.SearchRequest) ([]*core.PlaceCandidate, error) {
	ctx, cancel := context.WithTimeout(o.ctx, o.searchTimeout)
	defer cancel()

	results, err := o.searcher.Search(ctx, req)
	if err != nil {
		return nil, err
	}

	usable := make([]*core.PlaceCandidate, 0, len(results))
	for _, c := range results {
		if c == nil || c.Coordinate == nil {
			o.logger.Debug("dropping malformed candidate", "query", req.Query)
			continue
		}
		usable = append(usable, c)
	}
	return usable, nil
}

func (o *Orchestrator) handleRound(ev roundEvent) {
	if ev.generation != o.generation || !o.active {
		o.logger.Debug("discarding stale round", "query", ev.query, "generation", ev.generation, "current", o.generation)
		o.monitor.RoundDiscarded(ev.generation)
		return
	}

	o.candidates = ev.candidates
	o.searching = false
	o.publish()
	o.monitor.RoundPublished(ev.generation, len(ev.candidates))
}

func (o *Orchestrator) handleMerge(ev mergeEvent) {
	if !o.active || ev.session != o.session.Load() {
		o.logger.Debug("dropping suggestion results for inactive session", "count", len(ev.candidates), "session", ev.session)
		return
	}

	merged, added := MergeCandidates(o.candidates, ev.candidates)
	if added == 0 {
		return
	}
	o.candidates = merged
	o.publish()
	o.monitor.SuggestionsMerged(added)
}

// listen resolves completion batches until the completer closes.
func (o *Orchestrator) listen() {
	defer close(o.listenerDone)
	for batch := range o.completer.Results() {
		suggestions := batch.Suggestions
		if len(suggestions) > MaxResolvedSuggestions {
			suggestions = suggestions[:MaxResolvedSuggestions]
		}
		o.monitor.SuggestionsReceived(len(suggestions))

		session := o.session.Load()
		for _, suggestion := range suggestions {
			o.tasks.Add(1)
			err := o.pool.Submit(func() {
				defer o.tasks.Done()
				o.resolve(session, suggestion, batch.Region)
			})
			if err != nil {
				o.tasks.Done()
				o.logger.Warn("failed to submit suggestion resolution", "suggestion", suggestion.Title, "err", err)
			}
		}
	}
}

func (o *Orchestrator) resolve(session uint64, suggestion core.Suggestion, region core.Region) {
	results, err := o.searchOnce(provider.SearchRequest{
		Query:       suggestion.Query(),
		Region:      region,
		ResultTypes: core.ResultTypePointOfInterest | core.ResultTypeAddress,
	})
	o.monitor.SuggestionResolved(err)
	if err != nil {
		o.logger.Debug("suggestion resolution failed", "suggestion", suggestion.Title, "err", err)
		return
	}
	if len(results) == 0 {
		return
	}
	o.send(mergeEvent{session: session, candidates: results})
}

func (o *Orchestrator) publish() {
	st := State{
		Candidates:  o.candidates,
		IsSearching: o.searching,
		Generation:  o.generation,
		Query:       o.query,
	}.clone()

	// Store under subsMu so a subscriber that observes st through State
	// and then unsubscribes has already been sent st.
	o.subsMu.Lock()
	defer o.subsMu.Unlock()
	o.snapshot.Store(&st)
	for _, ch := range o.subs {
		deliverLatest(ch, st)
	}
}

// deliverLatest sends st, evicting the oldest buffered state if the
// subscriber is full.
func deliverLatest(ch chan State, st State) {
	select {
	case ch <- st:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- st:
	default:
	}
}

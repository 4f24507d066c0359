// Package watch runs the long-lived mode: wait for the API, authenticate,
// then republish items as their source files change.
package watch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"contentsync/internal/api"
	"contentsync/internal/assets"
	"contentsync/internal/content"
	"contentsync/internal/credentials"
	"contentsync/internal/metrics"
	"contentsync/internal/publish"
	"contentsync/internal/source"
)

// DefaultSettleDelay gives editors time to finish multi-step saves before a
// changed file is re-read.
const DefaultSettleDelay = 500 * time.Millisecond

// State tracks the controller's externally visible progress. Events arriving
// before watching starts are dropped, so initialization can never race a
// publish.
type State struct {
	mu       sync.RWMutex
	token    string
	watching bool
}

func (s *State) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

func (s *State) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *State) StartWatching() {
	s.mu.Lock()
	s.watching = true
	s.mu.Unlock()
}

func (s *State) Watching() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.watching
}

// ContentSource is the slice of the source store the controller needs;
// narrowed to an interface so tests can substitute a fake.
type ContentSource interface {
	Load() error
	Watch(ctx context.Context) error
	OnChange(fn func(source.Event))
	Reload(path string) (*content.Item, error)
	FindByPath(path string) (*content.Item, content.Type, bool)
	AssetsFor(item *content.Item, contentType content.Type) ([]content.Asset, error)
}

// Config wires a Controller.
type Config struct {
	Store       ContentSource
	Client      *api.Client
	Credentials credentials.Store
	Service     string
	Author      string
	DeployDir   string
	Builder     *content.Builder
	Recorder    metrics.Recorder

	ReadyTimeout time.Duration // zero = api.DefaultReadyTimeout
	SettleDelay  time.Duration // zero = DefaultSettleDelay
}

// Controller owns the watch lifecycle. Change events are serialized through
// a single worker so concurrent saves cannot interleave publishes.
type Controller struct {
	cfg    Config
	state  State
	events chan source.Event
}

func NewController(cfg Config) *Controller {
	if cfg.Recorder == nil {
		cfg.Recorder = metrics.NoopRecorder{}
	}
	if cfg.SettleDelay == 0 {
		cfg.SettleDelay = DefaultSettleDelay
	}
	return &Controller{
		cfg:    cfg,
		events: make(chan source.Event, 64),
	}
}

// State exposes the controller's progress for inspection.
func (c *Controller) State() *State {
	return &c.state
}

// Run blocks until ctx is cancelled or startup fails. Startup order matters:
// the change listener is registered before the initial load so no window
// exists where edits go unseen, and watching is flagged only after the
// watcher is live.
func (c *Controller) Run(ctx context.Context) error {
	if err := c.cfg.Client.WaitForReady(ctx, c.cfg.ReadyTimeout); err != nil {
		return err
	}

	authed, err := api.Authenticate(ctx, c.cfg.Client, c.cfg.Credentials, c.cfg.Service, c.cfg.Author)
	if err != nil {
		return err
	}
	c.state.SetToken(authed.Token())

	if err := authed.InvalidateCaches(ctx); err != nil {
		slog.Warn("Cache invalidation failed", "error", err)
	}

	syncer := assets.NewSynchronizer(assets.SniffValidator{}, c.cfg.Recorder)
	orch := publish.NewOrchestrator(c.cfg.Builder, authed, syncer, c.cfg.Store, c.cfg.DeployDir, c.cfg.Recorder)

	c.cfg.Store.OnChange(c.enqueue)
	go c.worker(ctx, orch)

	if err := c.cfg.Store.Load(); err != nil {
		return err
	}
	if err := c.cfg.Store.Watch(ctx); err != nil {
		return err
	}
	c.state.StartWatching()
	slog.Info("Watch mode active")

	<-ctx.Done()
	return nil
}

// enqueue runs on the watcher goroutine; it filters and hands off without
// blocking.
func (c *Controller) enqueue(ev source.Event) {
	if !c.state.Watching() {
		return
	}
	if ev.Kind != source.EventCreate && ev.Kind != source.EventUpdate {
		return
	}
	select {
	case c.events <- ev:
	default:
		slog.Warn("Event queue full, dropping change", "path", ev.Path)
	}
}

func (c *Controller) worker(ctx context.Context, orch *publish.Orchestrator) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-c.events:
			c.handle(ctx, orch, ev)
		}
	}
}

func (c *Controller) handle(ctx context.Context, orch *publish.Orchestrator, ev source.Event) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(c.cfg.SettleDelay):
	}

	slog.Info("File changed", "path", ev.Path, "kind", ev.Kind)
	if _, err := c.cfg.Store.Reload(ev.Path); err != nil {
		slog.Error("Reload failed", "path", ev.Path, "error", err)
		return
	}

	item, contentType, ok := c.cfg.Store.FindByPath(ev.Path)
	if !ok {
		slog.Warn("Content not found for changed file", "path", ev.Path)
		return
	}

	published, err := orch.PublishItem(ctx, item, contentType)
	if err != nil {
		slog.Error("Publish after change failed", "path", ev.Path, "error", err)
		return
	}
	if !published {
		slog.Debug("Changed file is skip-filtered", "path", ev.Path)
	}
}

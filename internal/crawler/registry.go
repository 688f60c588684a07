package crawler

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrTooManyCrawls is returned when the concurrent crawl limit is reached.
	ErrTooManyCrawls = errors.New("too many concurrent crawls")
	// ErrAlreadyActive is returned when a session id is registered twice.
	ErrAlreadyActive = errors.New("crawl already active")
	// ErrRegistryClosed is returned once Shutdown has been called.
	ErrRegistryClosed = errors.New("crawl registry is shut down")
)

// Handle is the transient state of one running crawl. The crawl loop owns it;
// progress queries and stop requests reach it through the Registry.
type Handle struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu         sync.Mutex
	finished   bool
	currentURL string
}

// ID returns the session id of the crawl.
func (h *Handle) ID() string { return h.id }

// Context is cancelled when the crawl is asked to stop.
func (h *Handle) Context() context.Context { return h.ctx }

// Cancelled reports whether a stop has been requested.
func (h *Handle) Cancelled() bool { return h.ctx.Err() != nil }

// Done is closed once the crawl goroutine has returned and the handle has
// been removed from the registry.
func (h *Handle) Done() <-chan struct{} { return h.done }

// SetCurrentURL publishes the URL being fetched.
func (h *Handle) SetCurrentURL(u string) {
	h.mu.Lock()
	h.currentURL = u
	h.mu.Unlock()
}

// CurrentURL returns the last URL published by the crawl loop.
func (h *Handle) CurrentURL() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.currentURL
}

// begin runs fn unless a stop was already requested. It reports whether fn ran.
func (h *Handle) begin(fn func() error) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.ctx.Err() != nil {
		return false, nil
	}
	return true, fn()
}

// finish runs fn with the observed cancellation state and the last published
// URL, then marks the handle finished. Stop requests serialize with it on the
// handle lock, so fn must not call back into h.
func (h *Handle) finish(fn func(cancelled bool, currentURL string) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	err := fn(h.ctx.Err() != nil, h.currentURL)
	h.finished = true
	return err
}

// stop cancels the crawl and runs fn under the handle lock. It reports false
// when the crawl had already persisted its final state.
func (h *Handle) stop(fn func() error) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.finished {
		return false, nil
	}
	h.cancel()
	if fn == nil {
		return true, nil
	}
	return true, fn()
}

// Registry tracks every running crawl of the process.
type Registry struct {
	mu     sync.RWMutex
	active map[string]*Handle
	limit  int
	closed bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRegistry creates a registry allowing at most limit concurrent crawls;
// limit <= 0 means unlimited.
func NewRegistry(limit int) *Registry {
	ctx, cancel := context.WithCancel(context.Background())
	return &Registry{
		active: make(map[string]*Handle),
		limit:  limit,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Reserve registers id without starting anything, so that capacity is
// checked before the caller persists the session.
func (r *Registry) Reserve(id string) (*Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrRegistryClosed
	}
	if _, ok := r.active[id]; ok {
		return nil, ErrAlreadyActive
	}
	if r.limit > 0 && len(r.active) >= r.limit {
		return nil, ErrTooManyCrawls
	}
	ctx, cancel := context.WithCancel(r.ctx)
	h := &Handle{id: id, ctx: ctx, cancel: cancel, done: make(chan struct{})}
	r.active[id] = h
	return h, nil
}

// Release drops a reservation that was never started.
func (r *Registry) Release(h *Handle) {
	r.remove(h)
	h.cancel()
	close(h.done)
}

// Start runs fn in its own goroutine. The handle is removed from the
// registry on every exit path.
func (r *Registry) Start(h *Handle, fn func(h *Handle)) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer close(h.done)
		defer r.remove(h)
		defer h.cancel()
		fn(h)
	}()
}

// Get returns the handle of a running crawl.
func (r *Registry) Get(id string) (*Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.active[id]
	return h, ok
}

// Stop requests cancellation of a running crawl and runs persist under the
// handle lock. It reports false when no running crawl was found.
func (r *Registry) Stop(id string, persist func() error) (bool, error) {
	h, ok := r.Get(id)
	if !ok {
		return false, nil
	}
	return h.stop(persist)
}

// Len returns the number of active crawls.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.active)
}

// Shutdown cancels every crawl and waits for their goroutines or ctx.
func (r *Registry) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.cancel()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Registry) remove(h *Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.active[h.id]; ok && cur == h {
		delete(r.active, h.id)
	}
}

package crawler

// Target is one queued URL and its BFS distance from the seed.
type Target struct {
	URL   string
	Depth int
}

// Frontier is the breadth-first queue of a single session. It is owned by the
// session's crawl loop and is not safe for concurrent use.
type Frontier struct {
	queue   []Target
	head    int
	visited map[string]struct{}
	queued  map[string]struct{}
}

// NewFrontier returns an empty frontier.
func NewFrontier() *Frontier {
	return &Frontier{
		visited: make(map[string]struct{}),
		queued:  make(map[string]struct{}),
	}
}

// Push enqueues url at depth unless it was already visited or is waiting in
// the queue. It reports whether the URL was added.
func (f *Frontier) Push(url string, depth int) bool {
	if _, ok := f.visited[url]; ok {
		return false
	}
	if _, ok := f.queued[url]; ok {
		return false
	}
	f.queue = append(f.queue, Target{URL: url, Depth: depth})
	f.queued[url] = struct{}{}
	return true
}

// Pop removes and returns the head of the queue.
func (f *Frontier) Pop() (Target, bool) {
	if f.head >= len(f.queue) {
		return Target{}, false
	}
	t := f.queue[f.head]
	f.queue[f.head] = Target{}
	f.head++
	// reclaim the consumed prefix once it dominates the slice
	if f.head > 1024 && f.head*2 > len(f.queue) {
		f.queue = append([]Target(nil), f.queue[f.head:]...)
		f.head = 0
	}
	delete(f.queued, t.URL)
	return t, true
}

// Visit marks url as fetched. It reports false when url was already visited.
func (f *Frontier) Visit(url string) bool {
	if _, ok := f.visited[url]; ok {
		return false
	}
	f.visited[url] = struct{}{}
	return true
}

// Visited reports whether url has been fetched.
func (f *Frontier) Visited(url string) bool {
	_, ok := f.visited[url]
	return ok
}

// Len is the number of URLs waiting in the queue.
func (f *Frontier) Len() int { return len(f.queue) - f.head }

// Seen is the number of URLs visited or waiting, used against the page budget.
func (f *Frontier) Seen() int { return len(f.visited) + f.Len() }

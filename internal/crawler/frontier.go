package crawler

// frontierItem is one pending URL together with its discovery depth.
type frontierItem struct {
	url   string
	depth int
}

// frontier is the FIFO queue of URLs awaiting a visit. Insertion is
// insert-if-absent against both the queue itself and the visited set,
// so a URL can be enqueued at most once per run: first discovery wins.
//
// FIFO order gives breadth-first traversal, which visits shallower
// pages before deeper ones.
type frontier struct {
	items  []frontierItem
	queued map[string]bool
}

func newFrontier() *frontier {
	return &frontier{
		items:  make([]frontierItem, 0),
		queued: make(map[string]bool),
	}
}

// push enqueues a normalized URL unless it is already queued or the
// visited set already holds it. Reports whether the URL was added.
func (f *frontier) push(url string, depth int, visited map[string]bool) bool {
	if f.queued[url] || visited[url] {
		return false
	}
	f.queued[url] = true
	f.items = append(f.items, frontierItem{url: url, depth: depth})
	return true
}

// pop dequeues the oldest pending URL.
func (f *frontier) pop() frontierItem {
	item := f.items[0]
	f.items = f.items[1:]
	return item
}

func (f *frontier) empty() bool {
	return len(f.items) == 0
}

func (f *frontier) len() int {
	return len(f.items)
}

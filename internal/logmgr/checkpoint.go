package logmgr

import (
	"container/heap"
	"sync"
)

// checkpoint tracks, for one resource, the highest contiguous position that
// has completed (success or terminal failure). Completions that arrive out
// of order are held in a bounded min-heap until the gap ahead of them
// closes, mirroring the teacher's bitmap-style membership tracking but
// sparse and dynamically bounded rather than fixed-capacity, since a
// resource's position space is not known up front.
type checkpoint struct {
	mu         sync.Mutex
	contiguous int64
	held       posHeap
	heldSet    map[int64]struct{}
	maxHeld    int
	resource   string
	onEvict    func(resource string, dropped int64)
}

func newCheckpoint(resource string, maxHeld int, onEvict func(resource string, dropped int64)) *checkpoint {
	return &checkpoint{
		heldSet:  make(map[int64]struct{}),
		maxHeld:  maxHeld,
		resource: resource,
		onEvict:  onEvict,
	}
}

// complete marks position as completed and advances the contiguous
// watermark as far as the held set allows. If the held window overflows
// maxHeld, the oldest (smallest) held position is dropped, the contiguous
// watermark jumps to it, and onEvict is invoked once per drop.
func (c *checkpoint) complete(position int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if position <= c.contiguous {
		return
	}
	if _, ok := c.heldSet[position]; ok {
		return
	}
	c.heldSet[position] = struct{}{}
	heap.Push(&c.held, position)
	c.drain()

	if c.maxHeld > 0 && c.held.Len() > c.maxHeld {
		dropped := heap.Pop(&c.held).(int64)
		delete(c.heldSet, dropped)
		c.contiguous = dropped
		if c.onEvict != nil {
			c.onEvict(c.resource, dropped)
		}
		c.drain()
	}
}

// drain advances contiguous past every held position that is now adjacent.
func (c *checkpoint) drain() {
	for c.held.Len() > 0 && c.held[0] == c.contiguous+1 {
		p := heap.Pop(&c.held).(int64)
		delete(c.heldSet, p)
		c.contiguous = p
	}
}

func (c *checkpoint) contiguousPosition() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.contiguous
}

type posHeap []int64

func (h posHeap) Len() int           { return len(h) }
func (h posHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h posHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *posHeap) Push(x any) {
	*h = append(*h, x.(int64))
}

func (h *posHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

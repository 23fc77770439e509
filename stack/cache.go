package stack

import (
	"github.com/oleiade/lane"
)

// DefaultSegmentSize is the size of task stack segments recycled through
// the cache.
const DefaultSegmentSize uint32 = 64 * 1024

// Cache recycles default-size segments across the tasks of a scheduler.
// lane's Queue is internally synchronized, so no extra locking is needed.
type Cache struct {
	q       *lane.Queue
	maxIdle int
}

// NewCache creates a segment cache holding at most maxIdle spare segments.
func NewCache(maxIdle int) *Cache {
	if maxIdle <= 0 {
		maxIdle = 16
	}
	return &Cache{q: lane.NewQueue(), maxIdle: maxIdle}
}

func (c *Cache) get(size uint32) *Segment {
	if c != nil && size <= DefaultSegmentSize {
		if v := c.q.Dequeue(); v != nil {
			seg := v.(*Segment)
			seg.prev = nil
			seg.reset()
			return seg
		}
		size = DefaultSegmentSize
	}
	return newSegment(size)
}

func (c *Cache) put(seg *Segment) {
	if c == nil || seg.Size() != DefaultSegmentSize || c.q.Size() >= c.maxIdle {
		return
	}
	seg.prev = nil
	c.q.Enqueue(seg)
}

// Idle returns the number of cached spare segments.
func (c *Cache) Idle() int {
	if c == nil {
		return 0
	}
	return c.q.Size()
}

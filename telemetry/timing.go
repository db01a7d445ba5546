package telemetry

import (
	"io"
	"sync"
	"time"
)

// TimingCollector builds a tree of timed operations.
type TimingCollector struct {
	mu      sync.Mutex
	roots   []*timerNode
	current *timerNode
}

type timerNode struct {
	name     string
	start    time.Time
	end      time.Time
	parent   *timerNode
	children []*timerNode
}

// NewTimingCollector returns an empty collector.
func NewTimingCollector() *TimingCollector {
	return &TimingCollector{}
}

// Start implements Collector.
func (c *TimingCollector) Start(name string) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	node := &timerNode{name: name, start: time.Now(), parent: c.current}
	if c.current == nil {
		c.roots = append(c.roots, node)
	} else {
		c.current.children = append(c.current.children, node)
	}
	c.current = node

	return &timingTimer{collector: c, node: node}
}

// Report implements Collector.
func (c *TimingCollector) Report(w io.Writer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, root := range c.roots {
		writeTree(w, root)
	}
}

type timingTimer struct {
	collector *TimingCollector
	node      *timerNode
}

func (t *timingTimer) End() {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	if !t.node.end.IsZero() {
		return
	}
	t.node.end = time.Now()
	if t.collector.current == t.node {
		t.collector.current = t.node.parent
	}
}

func (t *timingTimer) Child(name string) Timer {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	node := &timerNode{name: name, start: time.Now(), parent: t.node}
	t.node.children = append(t.node.children, node)

	return &timingTimer{collector: t.collector, node: node}
}

func (n *timerNode) duration() time.Duration {
	end := n.end
	if end.IsZero() {
		end = time.Now()
	}
	return end.Sub(n.start)
}

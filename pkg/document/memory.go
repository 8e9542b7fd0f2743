package document

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Memory is an in-process Document. Each container keeps its original
// content and the currently mounted fragment separately, so tests can assert
// a container returns to its pre-render state.
type Memory struct {
	mu         sync.Mutex
	containers map[string]*memoryContainer
	mutations  int
}

var _ Document = (*Memory)(nil)

// NewMemory returns a page holding an empty container per id.
func NewMemory(ids ...string) *Memory {
	m := &Memory{containers: make(map[string]*memoryContainer, len(ids))}
	for _, id := range ids {
		m.Add(id, "")
	}
	return m
}

// Add registers a container with initial content, replacing any container
// previously registered under id.
func (m *Memory) Add(id, initial string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.containers[id] = &memoryContainer{page: m, id: id, original: initial}
}

// Remove drops the container registered under id.
func (m *Memory) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.containers, id)
}

// ResolveContainer implements Document.
func (m *Memory) ResolveContainer(id string) (Container, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.containers[id]
	if !ok {
		return nil, false
	}
	return c, true
}

// Content returns the container's original content followed by its mounted
// fragment.
func (m *Memory) Content(id string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.containers[id]
	if !ok {
		return ""
	}
	return c.original + string(c.fragment)
}

// Fragment returns the currently mounted fragment for id.
func (m *Memory) Fragment(id string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.containers[id]; ok {
		return string(c.fragment)
	}
	return ""
}

// Mutations counts every mount and effective unmount applied to the page.
func (m *Memory) Mutations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mutations
}

// Snapshot returns the content of every container keyed by id.
func (m *Memory) Snapshot() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.containers))
	for id, c := range m.containers {
		out[id] = c.original + string(c.fragment)
	}
	return out
}

// String renders a stable, human readable dump of the page.
func (m *Memory) String() string {
	snapshot := m.Snapshot()
	ids := make([]string, 0, len(snapshot))
	for id := range snapshot {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var b strings.Builder
	for _, id := range ids {
		fmt.Fprintf(&b, "#%s: %s\n", id, snapshot[id])
	}
	return b.String()
}

type memoryContainer struct {
	page     *Memory
	id       string
	original string
	fragment []byte
	mounted  bool
}

func (c *memoryContainer) ID() string { return c.id }

func (c *memoryContainer) Mount(fragment []byte) error {
	c.page.mu.Lock()
	defer c.page.mu.Unlock()
	c.fragment = append([]byte(nil), fragment...)
	c.mounted = true
	c.page.mutations++
	return nil
}

func (c *memoryContainer) Unmount() {
	c.page.mu.Lock()
	defer c.page.mu.Unlock()
	if !c.mounted {
		return
	}
	c.fragment = nil
	c.mounted = false
	c.page.mutations++
}

func (c *memoryContainer) Mounted() bool {
	c.page.mu.Lock()
	defer c.page.mu.Unlock()
	return c.mounted
}

package revision

import (
	"context"
	"sync"
)

// Memo wraps a Querier and remembers each answer for the lifetime of one
// run, so the diff fetched for extraction can be archived without asking
// git twice.
type Memo struct {
	q Querier

	mu       sync.Mutex
	diff     map[int]string
	status   map[int][]StatusEntry
	stats    map[int][]LineStat
	subjects map[int][]string
	head     *string
	root     *string
}

// NewMemo returns a caching view of q.
func NewMemo(q Querier) *Memo {
	return &Memo{
		q:        q,
		diff:     make(map[int]string),
		status:   make(map[int][]StatusEntry),
		stats:    make(map[int][]LineStat),
		subjects: make(map[int][]string),
	}
}

func (m *Memo) DiffContent(ctx context.Context, n int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.diff[n]; ok {
		return v
	}
	v := m.q.DiffContent(ctx, n)
	m.diff[n] = v
	return v
}

func (m *Memo) FileStatus(ctx context.Context, n int) []StatusEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.status[n]; ok {
		return v
	}
	v := m.q.FileStatus(ctx, n)
	m.status[n] = v
	return v
}

func (m *Memo) LineStats(ctx context.Context, n int) []LineStat {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.stats[n]; ok {
		return v
	}
	v := m.q.LineStats(ctx, n)
	m.stats[n] = v
	return v
}

func (m *Memo) CommitSubjects(ctx context.Context, n int) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.subjects[n]; ok {
		return v
	}
	v := m.q.CommitSubjects(ctx, n)
	m.subjects[n] = v
	return v
}

func (m *Memo) Head(ctx context.Context) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.head == nil {
		v := m.q.Head(ctx)
		m.head = &v
	}
	return *m.head
}

func (m *Memo) Root(ctx context.Context) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.root == nil {
		v := m.q.Root(ctx)
		m.root = &v
	}
	return *m.root
}

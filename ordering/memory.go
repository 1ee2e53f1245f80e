package ordering

import (
	"context"
	"sort"
	"sync"

	"minicourse/apperr"
)

// MemorySiblings is an in-process Siblings used by tests and by callers that
// reorder a detached list before persisting it.
type MemorySiblings struct {
	mu     sync.Mutex
	items  map[uint]int
	nextID uint
}

func NewMemorySiblings() *MemorySiblings {
	return &MemorySiblings{items: make(map[uint]int)}
}

// Insert adds a member at position without any ordering checks.
func (m *MemorySiblings) Insert(id uint, position int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[id] = position
	if id >= m.nextID {
		m.nextID = id + 1
	}
}

// AppendNew runs Append and stores a new member at the returned position.
func (m *MemorySiblings) AppendNew(ctx context.Context) (Item, error) {
	pos, err := Append(ctx, m)
	if err != nil {
		return Item{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.nextID == 0 {
		m.nextID = 1
	}
	it := Item{ID: m.nextID, Position: pos}
	m.items[it.ID] = pos
	m.nextID++
	return it, nil
}

func (m *MemorySiblings) Lock(context.Context) error { return nil }

func (m *MemorySiblings) Positions(context.Context) ([]Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Item, 0, len(m.items))
	for id, pos := range m.items {
		out = append(out, Item{ID: id, Position: pos})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position == out[j].Position {
			return out[i].ID < out[j].ID
		}
		return out[i].Position < out[j].Position
	})
	return out, nil
}

func (m *MemorySiblings) Shift(_ context.Context, lo, hi, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, pos := range m.items {
		if pos >= lo && pos <= hi {
			m.items[id] = pos + delta
		}
	}
	return nil
}

func (m *MemorySiblings) Place(_ context.Context, id uint, position int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return apperr.Newf(apperr.ErrNotFound, "ordering.Place", "item %d", id)
	}
	m.items[id] = position
	return nil
}

func (m *MemorySiblings) Remove(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return apperr.Newf(apperr.ErrNotFound, "ordering.Remove", "item %d", id)
	}
	delete(m.items, id)
	return nil
}

// Order returns member ids by ascending position.
func (m *MemorySiblings) Order() []uint {
	items, _ := m.Positions(context.Background())
	ids := make([]uint, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}

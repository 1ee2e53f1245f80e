// Package ordering keeps a sibling set densely ordered 1..N under append,
// delete and reposition. It knows nothing about courses; a sibling set is any
// store view implementing Siblings, bound to the caller's transaction.
package ordering

import (
	"context"
	"fmt"
	"sort"

	"minicourse/apperr"
)

// Item is one member of a sibling set.
type Item struct {
	ID       uint
	Position int
}

// Siblings is a transaction-scoped view of the children of one parent.
// Implementations must apply every call to the same transaction so that a
// failed operation leaves no partial writes.
type Siblings interface {
	// Lock holds the sibling set against concurrent writers until the
	// surrounding transaction ends. It fails with NotFound if the parent is gone.
	Lock(ctx context.Context) error
	// Positions returns the current members ordered by position.
	Positions(ctx context.Context) ([]Item, error)
	// Shift adds delta to the position of every member in [lo, hi].
	Shift(ctx context.Context, lo, hi, delta int) error
	// Place sets the position of a single member.
	Place(ctx context.Context, id uint, position int) error
	// Remove deletes a member together with everything it owns.
	Remove(ctx context.Context, id uint) error
}

// parked is the transient slot a moving item occupies while its neighbours
// shift. Valid positions start at 1.
const parked = 0

// Append returns the position a new member must be created at.
func Append(ctx context.Context, s Siblings) (int, error) {
	items, err := load(ctx, s, "ordering.Append")
	if err != nil {
		return 0, err
	}
	return len(items) + 1, nil
}

// Delete removes id and closes the gap it leaves.
func Delete(ctx context.Context, s Siblings, id uint) error {
	const op = "ordering.Delete"

	items, err := load(ctx, s, op)
	if err != nil {
		return err
	}
	target, ok := find(items, id)
	if !ok {
		return apperr.Newf(apperr.ErrNotFound, op, "item %d is not in this sibling set", id)
	}

	if err := s.Remove(ctx, id); err != nil {
		return err
	}
	if target.Position < len(items) {
		if err := s.Shift(ctx, target.Position+1, len(items), -1); err != nil {
			return err
		}
	}
	return nil
}

// Reposition moves id to newPosition, rotating the members in between by one.
// newPosition must lie in [1, N]; it is never clamped.
func Reposition(ctx context.Context, s Siblings, id uint, newPosition int) error {
	const op = "ordering.Reposition"

	items, err := load(ctx, s, op)
	if err != nil {
		return err
	}
	target, ok := find(items, id)
	if !ok {
		return apperr.Newf(apperr.ErrNotFound, op, "item %d is not in this sibling set", id)
	}

	if err := CheckRange(newPosition, len(items)); err != nil {
		return err
	}

	oldPosition := target.Position
	if newPosition == oldPosition {
		return nil
	}

	if err := s.Place(ctx, id, parked); err != nil {
		return err
	}
	if newPosition < oldPosition {
		err = s.Shift(ctx, newPosition, oldPosition-1, +1)
	} else {
		err = s.Shift(ctx, oldPosition+1, newPosition, -1)
	}
	if err != nil {
		return err
	}
	return s.Place(ctx, id, newPosition)
}

// CheckRange fails with OutOfRange unless 1 <= position <= count.
func CheckRange(position, count int) error {
	if position < 1 || position > count {
		return &apperr.Error{
			Kind: apperr.ErrOutOfRange,
			Op:   "ordering.Reposition",
			Fields: map[string]string{
				"new_order": fmt.Sprintf("Position must be between 1 and %d!", count),
			},
			Err: fmt.Errorf("position %d outside [1, %d]", position, count),
		}
	}
	return nil
}

// Verify fails with Consistency unless the positions are exactly 1..N.
func Verify(items []Item) error {
	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Position < sorted[j].Position })

	for i, it := range sorted {
		want := i + 1
		switch {
		case i > 0 && it.Position == sorted[i-1].Position:
			return apperr.Newf(apperr.ErrConsistency, "ordering.Verify",
				"items %d and %d share position %d", sorted[i-1].ID, it.ID, it.Position)
		case it.Position != want:
			return apperr.Newf(apperr.ErrConsistency, "ordering.Verify",
				"expected position %d, found %d (item %d)", want, it.Position, it.ID)
		}
	}
	return nil
}

// ItemsOf projects a slice of ordered records onto Items.
func ItemsOf[T any](xs []T, item func(T) Item) []Item {
	items := make([]Item, len(xs))
	for i, x := range xs {
		items[i] = item(x)
	}
	return items
}

func load(ctx context.Context, s Siblings, op string) ([]Item, error) {
	if err := s.Lock(ctx); err != nil {
		return nil, err
	}
	items, err := s.Positions(ctx)
	if err != nil {
		return nil, err
	}
	if err := Verify(items); err != nil {
		return nil, apperr.New(apperr.ErrConsistency, op, err)
	}
	return items, nil
}

func find(items []Item, id uint) (Item, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

package domain

import (
	"cmp"
	"fmt"
	"slices"
)

// RootKey is the parent key used for resources at the root.
const RootKey int64 = -1

// ParentKey maps an optional parent id to a map key.
func ParentKey(parent *int64) int64 {
	if parent == nil {
		return RootKey
	}
	return *parent
}

// ParentPtr is the inverse of ParentKey.
func ParentPtr(key int64) *int64 {
	if key == RootKey {
		return nil
	}
	id := key
	return &id
}

// SameParent compares two optional parent ids
func SameParent(a, b *int64) bool {
	return ParentKey(a) == ParentKey(b)
}

// Shift is one planned index change.
type Shift struct {
	Ref  Ref
	From int
	To   int
}

// SortByIndex orders siblings by index, breaking ties by kind then id so
// the result is stable even on a corrupted set.
func SortByIndex(siblings []Resource) {
	slices.SortFunc(siblings, func(a, b Resource) int {
		return cmp.Or(
			cmp.Compare(a.Index, b.Index),
			cmp.Compare(a.Kind, b.Kind),
			cmp.Compare(a.ID, b.ID),
		)
	})
}

// PlanCloseGap returns the shifts that close the hole left at removed: every
// sibling above it moves down by one. The removed resource itself must not be
// in siblings.
func PlanCloseGap(siblings []Resource, removed int) []Shift {
	var shifts []Shift
	for _, s := range siblings {
		if s.Index > removed {
			shifts = append(shifts, Shift{Ref: s.Ref(), From: s.Index, To: s.Index - 1})
		}
	}
	return shifts
}

// PlanReorder computes the shifts that move target to dest among its
// siblings (target included). The last shift is the target's own.
// It returns nil when dest equals the current index.
func PlanReorder(siblings []Resource, target Ref, dest int) ([]Shift, error) {
	if dest < 0 || dest > len(siblings)-1 {
		return nil, fmt.Errorf("%w: index %d outside [0, %d]", ErrInvalidDestination, dest, len(siblings)-1)
	}

	old := -1
	for _, s := range siblings {
		if s.Ref() == target {
			old = s.Index
			break
		}
	}
	if old < 0 {
		return nil, &NotFoundError{What: target.String()}
	}
	if old == dest {
		return nil, nil
	}

	var shifts []Shift
	for _, s := range siblings {
		if s.Ref() == target {
			continue
		}
		switch {
		case old < dest && s.Index > old && s.Index <= dest:
			shifts = append(shifts, Shift{Ref: s.Ref(), From: s.Index, To: s.Index - 1})
		case old > dest && s.Index >= dest && s.Index < old:
			shifts = append(shifts, Shift{Ref: s.Ref(), From: s.Index, To: s.Index + 1})
		}
	}
	return append(shifts, Shift{Ref: target, From: old, To: dest}), nil
}

// ApplyShifts returns a copy of siblings with the shifts applied.
func ApplyShifts(siblings []Resource, shifts []Shift) []Resource {
	out := slices.Clone(siblings)
	for _, sh := range shifts {
		for i := range out {
			if out[i].Ref() == sh.Ref {
				out[i].Index = sh.To
			}
		}
	}
	return out
}

// VerifyDense checks that sibling indices are exactly {0..n-1}.
func VerifyDense(siblings []Resource) error {
	seen := make([]bool, len(siblings))
	for _, s := range siblings {
		if s.Index < 0 || s.Index >= len(siblings) {
			return fmt.Errorf("index %d of %s outside [0, %d)", s.Index, s.Ref(), len(siblings))
		}
		if seen[s.Index] {
			return fmt.Errorf("duplicate index %d at %s", s.Index, s.Ref())
		}
		seen[s.Index] = true
	}
	return nil
}

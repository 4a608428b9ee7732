// Package order maintains the dense zero-based position field across a
// sibling set. The same algorithm backs drag-and-drop for objectives within
// a week and tasks within an objective.
package order

import (
	"fmt"
	"sort"
)

// Element is anything carrying a mutable position and a stable identity.
// *domain.Objective and *domain.Task satisfy it.
type Element interface {
	Pos() int
	SetPos(int)
	Key() string
}

// Reorder moves the element at from to to with array semantics (everything
// between the two indices shifts by one), then reassigns position = index to
// every element. Out-of-range indices are a contract violation and fail
// loudly instead of silently corrupting sibling order.
func Reorder[T Element](items []T, from, to int) ([]T, error) {
	n := len(items)
	if from < 0 || from >= n {
		return nil, fmt.Errorf("reorder: from index %d out of range [0,%d)", from, n)
	}
	if to < 0 || to >= n {
		return nil, fmt.Errorf("reorder: to index %d out of range [0,%d)", to, n)
	}
	moved := items[from]
	rest := make([]T, 0, n-1)
	rest = append(rest, items[:from]...)
	rest = append(rest, items[from+1:]...)
	out := make([]T, 0, n)
	out = append(out, rest[:to]...)
	out = append(out, moved)
	out = append(out, rest[to:]...)
	for i, el := range out {
		el.SetPos(i)
	}
	return out, nil
}

// NextPosition returns max(existing positions, default -1) + 1. It must be
// computed from the current remaining maximum, not the length: deletions
// leave gaps and len(items) would collide.
func NextPosition[T Element](items []T) int {
	max := -1
	for _, el := range items {
		if el.Pos() > max {
			max = el.Pos()
		}
	}
	return max + 1
}

// Append assigns item the next free position and appends it.
func Append[T Element](items []T, item T) []T {
	item.SetPos(NextPosition(items))
	return append(items, item)
}

// Remove drops the element with the given key. Remaining siblings are NOT
// renumbered: positions may develop gaps after deletion. Sorting by position
// stays correct and NextPosition accounts for the surviving maximum.
func Remove[T Element](items []T, key string) []T {
	out := make([]T, 0, len(items))
	for _, el := range items {
		if el.Key() != key {
			out = append(out, el)
		}
	}
	return out
}

// Compact renumbers positions to 0..N-1 in current position order. Offered
// as an explicit on-demand operation; deletion never compacts implicitly.
func Compact[T Element](items []T) []T {
	ByPosition(items)
	for i, el := range items {
		el.SetPos(i)
	}
	return items
}

// ByPosition sorts items ascending by position, stably, in place.
func ByPosition[T Element](items []T) {
	sort.SliceStable(items, func(i, j int) bool { return items[i].Pos() < items[j].Pos() })
}

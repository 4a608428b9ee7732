package order_test

import (
	"testing"

	"weekplan/internal/domain"
	"weekplan/internal/order"
)

func tasks(titles ...string) []*domain.Task {
	out := make([]*domain.Task, len(titles))
	for i, title := range titles {
		out[i] = &domain.Task{ID: title, Title: title, Position: i}
	}
	return out
}

func titlesOf(items []*domain.Task) []string {
	out := make([]string, len(items))
	for i, t := range items {
		out[i] = t.Title
	}
	return out
}

func assertOrder(t *testing.T, items []*domain.Task, want ...string) {
	t.Helper()
	got := titlesOf(items)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
		if items[i].Position != i {
			t.Fatalf("position %d = %d, want %d", i, items[i].Position, i)
		}
	}
}

func TestReorderForward(t *testing.T) {
	out, err := order.Reorder(tasks("a", "b", "c", "d"), 0, 2)
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}
	assertOrder(t, out, "b", "c", "a", "d")
}

func TestReorderBackward(t *testing.T) {
	out, err := order.Reorder(tasks("a", "b", "c", "d"), 3, 0)
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}
	assertOrder(t, out, "d", "a", "b", "c")
}

func TestReorderNoop(t *testing.T) {
	out, err := order.Reorder(tasks("a", "b", "c"), 1, 1)
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}
	assertOrder(t, out, "a", "b", "c")
}

func TestReorderOutOfRange(t *testing.T) {
	if _, err := order.Reorder(tasks("a", "b"), 2, 0); err == nil {
		t.Fatal("from out of range must fail")
	}
	if _, err := order.Reorder(tasks("a", "b"), 0, -1); err == nil {
		t.Fatal("to out of range must fail")
	}
	if _, err := order.Reorder([]*domain.Task{}, 0, 0); err == nil {
		t.Fatal("empty set must fail")
	}
}

func TestRemoveKeepsGaps(t *testing.T) {
	items := tasks("a", "b", "c")
	items = order.Remove(items, "b")
	assertPositions(t, items, 0, 2)
	// next insert takes max+1, not the gap
	if got := order.NextPosition(items); got != 3 {
		t.Fatalf("NextPosition = %d, want 3", got)
	}
}

func TestAppendAfterGap(t *testing.T) {
	items := order.Remove(tasks("a", "b", "c"), "a")
	items = order.Append(items, &domain.Task{ID: "d", Title: "d"})
	if items[len(items)-1].Position != 3 {
		t.Fatalf("appended position = %d, want 3", items[len(items)-1].Position)
	}
}

func TestCompactClosesGaps(t *testing.T) {
	items := order.Remove(tasks("a", "b", "c", "d"), "b")
	items = order.Compact(items)
	assertOrder(t, items, "a", "c", "d")
}

func TestNextPositionEmpty(t *testing.T) {
	if got := order.NextPosition([]*domain.Task{}); got != 0 {
		t.Fatalf("NextPosition(empty) = %d, want 0", got)
	}
}

func TestByPositionStable(t *testing.T) {
	items := []*domain.Task{
		{ID: "x", Title: "x", Position: 5},
		{ID: "y", Title: "y", Position: 1},
		{ID: "z", Title: "z", Position: 5},
	}
	order.ByPosition(items)
	got := titlesOf(items)
	if got[0] != "y" || got[1] != "x" || got[2] != "z" {
		t.Fatalf("got %v", got)
	}
}

func assertPositions(t *testing.T, items []*domain.Task, want ...int) {
	t.Helper()
	if len(items) != len(want) {
		t.Fatalf("got %d items, want %d", len(items), len(want))
	}
	for i, w := range want {
		if items[i].Position != w {
			t.Fatalf("position[%d] = %d, want %d", i, items[i].Position, w)
		}
	}
}

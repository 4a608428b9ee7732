package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"weekplan/internal/domain"
	"weekplan/internal/store"
)

func TestSeed(t *testing.T) {
	s := New()
	now := time.Date(2025, time.March, 19, 10, 0, 0, 0, time.Local)
	if err := s.Seed(now); err != nil {
		t.Fatalf("seed: %v", err)
	}
	ctx := context.Background()
	if _, err := s.GetProduct(ctx, "demo"); err != nil {
		t.Fatalf("seeded product: %v", err)
	}
	members, _ := s.ListMembers(ctx)
	if len(members) != 3 {
		t.Fatalf("members = %d", len(members))
	}
	weeks, _ := s.ListWeekRanges(ctx, 2025)
	if len(weeks) < 52 {
		t.Fatalf("weeks = %d", len(weeks))
	}
	objectives, _ := s.ListObjectives(ctx, "demo", "week-2025-3-17")
	if len(objectives) != 1 || objectives[0].Progress != 50 {
		t.Fatalf("objectives = %+v", objectives)
	}
	tasks, _ := s.ListTasks(ctx, objectives[0].ID)
	if len(tasks) != 2 || !tasks[0].Completed || tasks[1].Completed {
		t.Fatalf("tasks = %+v", tasks)
	}
}

func TestDeleteObjectiveCascades(t *testing.T) {
	s := New()
	ctx := context.Background()
	if err := s.CreateObjective(ctx, domain.Objective{ID: "o1", ProductID: "p", WeekID: "w"}); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateTask(ctx, domain.Task{ID: "t1", ObjectiveID: "o1"}); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteObjective(ctx, "o1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetTask(ctx, "t1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("task survived cascade: %v", err)
	}
	if err := s.DeleteObjective(ctx, "o1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("double delete err = %v", err)
	}
}

func TestBatchWrite(t *testing.T) {
	s := New()
	ctx := context.Background()
	a := domain.Objective{ID: "a", ProductID: "p", WeekID: "w", Position: 0}
	b := domain.Objective{ID: "b", ProductID: "p", WeekID: "w", Position: 1}
	if err := s.BatchWrite(ctx, []store.Op{
		{Type: store.OpSet, Collection: store.Objectives, Objective: &a},
		{Type: store.OpSet, Collection: store.Objectives, Objective: &b},
	}); err != nil {
		t.Fatalf("batch set: %v", err)
	}
	a.Position, b.Position = 1, 0
	if err := s.BatchWrite(ctx, []store.Op{
		{Type: store.OpUpdate, Collection: store.Objectives, Objective: &a},
		{Type: store.OpUpdate, Collection: store.Objectives, Objective: &b},
		{Type: store.OpDelete, Collection: store.Tasks, ID: "no-such-task"},
	}); err != nil {
		t.Fatalf("batch update: %v", err)
	}
	items, _ := s.ListObjectives(ctx, "p", "w")
	if len(items) != 2 || items[0].ID != "b" || items[1].ID != "a" {
		t.Fatalf("order after batch = %+v", items)
	}
}

func TestListEventsNewestFirst(t *testing.T) {
	s := New()
	ctx := context.Background()
	for i, typ := range []string{"a.created", "b.created", "a.updated"} {
		productID := "p1"
		if i == 1 {
			productID = "p2"
		}
		if err := s.AppendEvent(ctx, domain.Event{Type: typ, ProductID: productID}); err != nil {
			t.Fatal(err)
		}
	}
	events, _ := s.ListEvents(ctx, store.EventFilters{})
	if len(events) != 3 || events[0].Type != "a.updated" {
		t.Fatalf("events = %+v", events)
	}
	filtered, _ := s.ListEvents(ctx, store.EventFilters{ProductID: "p1"})
	if len(filtered) != 2 {
		t.Fatalf("filtered = %+v", filtered)
	}
	limited, _ := s.ListEvents(ctx, store.EventFilters{Limit: 1})
	if len(limited) != 1 || limited[0].ID != 3 {
		t.Fatalf("limited = %+v", limited)
	}
	paged, _ := s.ListEvents(ctx, store.EventFilters{Cursor: 3})
	if len(paged) != 2 || paged[0].ID != 2 {
		t.Fatalf("paged = %+v", paged)
	}
}

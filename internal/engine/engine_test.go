package engine_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"weekplan/internal/config"
	"weekplan/internal/db"
	"weekplan/internal/domain"
	"weekplan/internal/engine"
	"weekplan/internal/migrate"
	"weekplan/internal/repo"
	"weekplan/internal/store"
	"weekplan/internal/week"
)

type testEnv struct {
	Engine engine.Engine
	Ctx    context.Context
}

// Wednesday 2025-03-19; its week is week-2025-3-17.
var testNow = time.Date(2025, time.March, 19, 10, 0, 0, 0, time.Local)

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	if _, err := db.EnsureWorkspace(dir); err != nil {
		t.Fatalf("ensure workspace: %v", err)
	}
	conn, err := db.Open(db.Config{Workspace: dir})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	eng := engine.New(repo.Repo{DB: conn}, config.Default("prod-1"))
	eng.Now = func() time.Time { return testNow }
	ctx := context.Background()
	if _, err := eng.CreateProduct(ctx, "prod-1", "Demo product", "", "tester"); err != nil {
		t.Fatalf("create product: %v", err)
	}
	if _, err := eng.CreateMember(ctx, domain.Member{ID: "alice", Name: "Alice"}, "tester"); err != nil {
		t.Fatalf("create member: %v", err)
	}
	if _, _, err := eng.GenerateYear(ctx, 2025, "tester"); err != nil {
		t.Fatalf("generate year: %v", err)
	}
	return testEnv{Engine: eng, Ctx: ctx}
}

func mustObjective(t *testing.T, env testEnv, title string) domain.Objective {
	t.Helper()
	o, err := env.Engine.CreateObjective(env.Ctx, engine.ObjectiveCreateOptions{
		ProductID: "prod-1",
		WeekID:    "week-2025-3-17",
		Title:     title,
		ActorID:   "tester",
	})
	if err != nil {
		t.Fatalf("create objective %q: %v", title, err)
	}
	return o
}

func TestGenerateYearIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ranges, inserted, err := env.Engine.GenerateYear(env.Ctx, 2025, "tester")
	if err != nil {
		t.Fatalf("second generate: %v", err)
	}
	if inserted != 0 {
		t.Fatalf("regeneration inserted %d rows", inserted)
	}
	if len(ranges) < 52 {
		t.Fatalf("got %d weeks", len(ranges))
	}
	if _, _, err := env.Engine.GenerateYear(env.Ctx, 123, "tester"); err == nil {
		t.Fatal("year 123 must fail")
	}
}

func TestResolveWeekByDate(t *testing.T) {
	env := newTestEnv(t)
	w, err := env.Engine.ResolveWeek(env.Ctx, week.Target{Date: testNow})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if w == nil || w.ID != "week-2025-3-17" {
		t.Fatalf("resolved %+v", w)
	}
	if !w.IsCurrentWeek {
		t.Fatal("resolved week should be flagged current")
	}
}

func TestCreateObjectiveDerivesCategoryAndPosition(t *testing.T) {
	env := newTestEnv(t)
	first := mustObjective(t, env, "first")
	if first.Position != 0 {
		t.Fatalf("first position = %d", first.Position)
	}
	if first.Category != domain.CategoryNotUrgentNotImportant {
		t.Fatalf("not-urgent/not-important category = %s", first.Category)
	}
	second, err := env.Engine.CreateObjective(env.Ctx, engine.ObjectiveCreateOptions{
		ProductID:   "prod-1",
		WeekID:      "week-2025-3-17",
		Title:       "second",
		IsUrgent:    true,
		IsImportant: true,
		ActorID:     "tester",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if second.Position != 1 {
		t.Fatalf("second position = %d", second.Position)
	}
	if second.Category != domain.CategoryUrgentImportant {
		t.Fatalf("urgent+important category = %s", second.Category)
	}
}

func TestCreateObjectiveByDate(t *testing.T) {
	env := newTestEnv(t)
	o, err := env.Engine.CreateObjective(env.Ctx, engine.ObjectiveCreateOptions{
		ProductID: "prod-1",
		Date:      testNow,
		Title:     "dated",
		ActorID:   "tester",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if o.WeekID != "week-2025-3-17" {
		t.Fatalf("week id = %s", o.WeekID)
	}
}

func TestUpdateObjectiveRederivesCategory(t *testing.T) {
	env := newTestEnv(t)
	o := mustObjective(t, env, "obj")
	urgent := true
	updated, err := env.Engine.UpdateObjective(env.Ctx, engine.ObjectiveUpdateOptions{
		ID:       o.ID,
		ActorID:  "tester",
		IsUrgent: &urgent,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Category != domain.CategoryUrgentNotImportant {
		t.Fatalf("urgent-only category = %s", updated.Category)
	}
}

func TestTaskCompletionRecomputesPersistedProgress(t *testing.T) {
	env := newTestEnv(t)
	o := mustObjective(t, env, "obj")
	t1, err := env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{
		ObjectiveID: o.ID, Title: "one", Assignee: "alice", ActorID: "tester",
	})
	if err != nil {
		t.Fatalf("task one: %v", err)
	}
	if _, err := env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{
		ObjectiveID: o.ID, Title: "two", ActorID: "tester",
	}); err != nil {
		t.Fatalf("task two: %v", err)
	}
	if _, err := env.Engine.ToggleTask(env.Ctx, t1.ID, "tester"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	got, err := env.Engine.Store.GetObjective(env.Ctx, o.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Progress != 50 {
		t.Fatalf("progress = %d, want 50", got.Progress)
	}
	// toggle back down
	if _, err := env.Engine.ToggleTask(env.Ctx, t1.ID, "tester"); err != nil {
		t.Fatalf("toggle back: %v", err)
	}
	got, _ = env.Engine.Store.GetObjective(env.Ctx, o.ID)
	if got.Progress != 0 {
		t.Fatalf("progress = %d, want 0", got.Progress)
	}
}

func TestDeleteLastTaskForcesProgressToZero(t *testing.T) {
	env := newTestEnv(t)
	o := mustObjective(t, env, "obj")
	tk, err := env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{
		ObjectiveID: o.ID, Title: "only", ActorID: "tester",
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if _, err := env.Engine.ToggleTask(env.Ctx, tk.ID, "tester"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	got, _ := env.Engine.Store.GetObjective(env.Ctx, o.ID)
	if got.Progress != 100 {
		t.Fatalf("progress = %d, want 100", got.Progress)
	}
	if err := env.Engine.DeleteTask(env.Ctx, tk.ID, "tester"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, _ = env.Engine.Store.GetObjective(env.Ctx, o.ID)
	if got.Progress != 0 {
		t.Fatalf("progress after emptying = %d, want 0", got.Progress)
	}
}

func TestCreateTaskUnknownAssignee(t *testing.T) {
	env := newTestEnv(t)
	o := mustObjective(t, env, "obj")
	_, err := env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{
		ObjectiveID: o.ID, Title: "t", Assignee: "nobody", ActorID: "tester",
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteObjectiveLeavesGapThenAppendsAtMaxPlusOne(t *testing.T) {
	env := newTestEnv(t)
	mustObjective(t, env, "a")
	b := mustObjective(t, env, "b")
	mustObjective(t, env, "c")
	if err := env.Engine.DeleteObjective(env.Ctx, b.ID, "tester"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	items, err := env.Engine.Store.ListObjectives(env.Ctx, "prod-1", "week-2025-3-17")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 || items[0].Position != 0 || items[1].Position != 2 {
		t.Fatalf("positions after delete = %v", positionsOf(items))
	}
	d := mustObjective(t, env, "d")
	if d.Position != 3 {
		t.Fatalf("appended position = %d, want 3 (max+1, not len)", d.Position)
	}
}

func TestReorderObjectivesPersistsDenseOrder(t *testing.T) {
	env := newTestEnv(t)
	mustObjective(t, env, "a")
	mustObjective(t, env, "b")
	mustObjective(t, env, "c")
	out, err := env.Engine.ReorderObjectives(env.Ctx, "prod-1", "week-2025-3-17", 0, 2, "tester")
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if out[0].Title != "b" || out[1].Title != "c" || out[2].Title != "a" {
		t.Fatalf("order = %v", titlesOf(out))
	}
	persisted, _ := env.Engine.Store.ListObjectives(env.Ctx, "prod-1", "week-2025-3-17")
	for i, o := range persisted {
		if o.Position != i {
			t.Fatalf("persisted positions = %v", positionsOf(persisted))
		}
	}
	if persisted[2].Title != "a" {
		t.Fatalf("persisted order = %v", titlesOf(persisted))
	}
	if _, err := env.Engine.ReorderObjectives(env.Ctx, "prod-1", "week-2025-3-17", 7, 0, "tester"); err == nil {
		t.Fatal("out-of-range reorder must fail")
	}
}

func TestCompactObjectivesClosesGaps(t *testing.T) {
	env := newTestEnv(t)
	mustObjective(t, env, "a")
	b := mustObjective(t, env, "b")
	mustObjective(t, env, "c")
	if err := env.Engine.DeleteObjective(env.Ctx, b.ID, "tester"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	out, err := env.Engine.CompactObjectives(env.Ctx, "prod-1", "week-2025-3-17", "tester")
	if err != nil {
		t.Fatalf("compact: %v", err)
	}
	if len(out) != 2 || out[0].Position != 0 || out[1].Position != 1 {
		t.Fatalf("compacted positions = %v", positionsOf(out))
	}
}

func TestCloneObjectivesResetsCompletion(t *testing.T) {
	env := newTestEnv(t)
	o := mustObjective(t, env, "obj")
	tk, err := env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{
		ObjectiveID: o.ID, Title: "done task", Assignee: "alice", ActorID: "tester",
	})
	if err != nil {
		t.Fatalf("task: %v", err)
	}
	if _, err := env.Engine.ToggleTask(env.Ctx, tk.ID, "tester"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	cloned, err := env.Engine.CloneObjectives(env.Ctx, "prod-1", "week-2025-3-17", "week-2025-3-24", nil, "tester")
	if err != nil {
		t.Fatalf("clone: %v", err)
	}
	if len(cloned) != 1 {
		t.Fatalf("cloned %d objectives", len(cloned))
	}
	c := cloned[0]
	if c.ID == o.ID || c.WeekID != "week-2025-3-24" {
		t.Fatalf("clone identity: %+v", c)
	}
	if c.Progress != 0 {
		t.Fatalf("clone progress = %d, want 0", c.Progress)
	}
	tasks, err := env.Engine.Store.ListTasks(env.Ctx, c.ID)
	if err != nil {
		t.Fatalf("list clone tasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Completed {
		t.Fatalf("clone tasks = %+v", tasks)
	}
	if tasks[0].Assignee == nil || *tasks[0].Assignee != "alice" {
		t.Fatalf("clone should keep assignee, got %+v", tasks[0])
	}
	// source untouched
	src, _ := env.Engine.Store.GetObjective(env.Ctx, o.ID)
	if src.Progress != 100 {
		t.Fatalf("source progress = %d", src.Progress)
	}
	// same-week clone rejected
	if _, err := env.Engine.CloneObjectives(env.Ctx, "prod-1", "week-2025-3-17", "week-2025-3-17", nil, "tester"); err == nil {
		t.Fatal("same-week clone must fail")
	}
}

func TestFlagObjective(t *testing.T) {
	env := newTestEnv(t)
	o := mustObjective(t, env, "obj")
	flagged, err := env.Engine.FlagObjective(env.Ctx, o.ID, true, "blocked on infra", "tester")
	if err != nil {
		t.Fatalf("flag: %v", err)
	}
	if flagged.Flag == nil || !flagged.Flag.IsFlagged || flagged.Flag.Description != "blocked on infra" {
		t.Fatalf("flag = %+v", flagged.Flag)
	}
	cleared, err := env.Engine.FlagObjective(env.Ctx, o.ID, false, "", "tester")
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if cleared.Flag != nil {
		t.Fatalf("flag should clear, got %+v", cleared.Flag)
	}
}

func TestWeekViewAssemblesPlan(t *testing.T) {
	env := newTestEnv(t)
	o := mustObjective(t, env, "obj")
	if _, err := env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{
		ObjectiveID: o.ID, Title: "t1", Assignee: "alice", ActorID: "tester",
	}); err != nil {
		t.Fatalf("task: %v", err)
	}
	view, err := env.Engine.WeekView(env.Ctx, "prod-1", week.Target{Date: testNow}, nil)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if view.Week.ID != "week-2025-3-17" {
		t.Fatalf("view week = %s", view.Week.ID)
	}
	if len(view.Objectives) != 1 || len(view.Objectives[0].Tasks) != 1 {
		t.Fatalf("view objectives = %+v", view.Objectives)
	}
	if view.Stats.TotalTasks != 1 {
		t.Fatalf("view stats = %+v", view.Stats)
	}
	// member filter drops unmatched tasks
	filtered, err := env.Engine.WeekView(env.Ctx, "prod-1", week.Target{Date: testNow}, []string{"bob"})
	if err != nil {
		t.Fatalf("filtered view: %v", err)
	}
	if len(filtered.Objectives[0].Tasks) != 0 {
		t.Fatalf("filter should drop alice's task: %+v", filtered.Objectives[0].Tasks)
	}
}

func TestWeekViewSynthesizesUnknownWeek(t *testing.T) {
	env := newTestEnv(t)
	// far future date, outside the generated catalog year: resolution falls
	// back to nearest-start, so force a synthetic via an empty-catalog env.
	dir := t.TempDir()
	if _, err := db.EnsureWorkspace(dir); err != nil {
		t.Fatal(err)
	}
	conn, err := db.Open(db.Config{Workspace: dir})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := migrate.Migrate(conn); err != nil {
		t.Fatal(err)
	}
	bare := engine.New(repo.Repo{DB: conn}, config.Default("prod-2"))
	bare.Now = env.Engine.Now
	if _, err := bare.CreateProduct(env.Ctx, "prod-2", "Bare", "", "tester"); err != nil {
		t.Fatal(err)
	}
	view, err := bare.WeekView(env.Ctx, "prod-2", week.Target{Date: testNow}, nil)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if view.Week.ID != "week-2025-3-17" {
		t.Fatalf("synthetic week id = %s", view.Week.ID)
	}
	if len(view.Objectives) != 0 {
		t.Fatalf("synthetic view should be empty")
	}
}

func TestWeekViewUnknownProduct(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.Engine.WeekView(env.Ctx, "ghost", week.Target{Date: testNow}, nil); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestEventsRecorded(t *testing.T) {
	env := newTestEnv(t)
	o := mustObjective(t, env, "obj")
	if err := env.Engine.DeleteObjective(env.Ctx, o.ID, "tester"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	events, err := env.Engine.Store.ListEvents(env.Ctx, store.EventFilters{ProductID: "prod-1"})
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) == 0 {
		t.Fatal("no events recorded")
	}
	// newest first
	if events[0].Type != "objective.deleted" {
		t.Fatalf("latest event = %s", events[0].Type)
	}
}

func TestListWeeksDerivesCurrentFlag(t *testing.T) {
	env := newTestEnv(t)
	flagged := func(weeks []domain.WeekRange) []string {
		var ids []string
		for _, w := range weeks {
			if w.IsCurrentWeek {
				ids = append(ids, w.ID)
			}
		}
		return ids
	}
	weeks, err := env.Engine.ListWeeks(env.Ctx, 2025)
	if err != nil {
		t.Fatalf("list weeks: %v", err)
	}
	if ids := flagged(weeks); len(ids) != 1 || ids[0] != "week-2025-3-17" {
		t.Fatalf("current flags = %v", ids)
	}
	// The flag follows the clock, not the stored rows.
	env.Engine.Now = func() time.Time { return testNow.AddDate(0, 0, 7) }
	weeks, err = env.Engine.ListWeeks(env.Ctx, 2025)
	if err != nil {
		t.Fatalf("list weeks: %v", err)
	}
	if ids := flagged(weeks); len(ids) != 1 || ids[0] != "week-2025-3-24" {
		t.Fatalf("current flags after a week = %v", ids)
	}
}

// brokenStore fails list reads; the remaining Store methods are never reached.
type brokenStore struct{ store.Store }

func (brokenStore) ListObjectives(ctx context.Context, productID, weekID string) ([]domain.Objective, error) {
	return nil, errors.New("storage unavailable")
}

func TestStatisticsFailSoftOnReadError(t *testing.T) {
	eng := engine.New(brokenStore{}, config.Default("prod-1"))
	eng.Now = func() time.Time { return testNow }
	s, err := eng.Statistics(context.Background(), "prod-1", "week-2025-3-17", nil)
	if err != nil {
		t.Fatalf("read failure must degrade to an empty rollup, got %v", err)
	}
	if s.TotalObjectives != 0 || s.TotalTasks != 0 || s.GlobalProgress != 0 {
		t.Fatalf("stats = %+v", s)
	}
}

func positionsOf(items []domain.Objective) []int {
	out := make([]int, len(items))
	for i, o := range items {
		out[i] = o.Position
	}
	return out
}

func titlesOf(items []domain.Objective) []string {
	out := make([]string, len(items))
	for i, o := range items {
		out[i] = o.Title
	}
	return out
}

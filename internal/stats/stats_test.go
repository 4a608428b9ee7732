package stats_test

import (
	"testing"

	"weekplan/internal/domain"
	"weekplan/internal/stats"
)

func task(assignee string, completed bool) domain.Task {
	t := domain.Task{Completed: completed}
	if assignee != "" {
		t.Assignee = &assignee
	}
	return t
}

func TestObjectiveProgress(t *testing.T) {
	cases := []struct {
		name  string
		tasks []domain.Task
		want  int
	}{
		{"no tasks", nil, 0},
		{"none done", []domain.Task{task("", false), task("", false)}, 0},
		{"half done", []domain.Task{task("", true), task("", false)}, 50},
		{"one of three rounds half up", []domain.Task{task("", true), task("", false), task("", false)}, 33},
		{"two of three rounds half up", []domain.Task{task("", true), task("", true), task("", false)}, 67},
		{"one of eight rounds to thirteen", []domain.Task{
			task("", true), task("", false), task("", false), task("", false),
			task("", false), task("", false), task("", false), task("", false),
		}, 13},
		{"all done", []domain.Task{task("", true), task("", true)}, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := stats.ObjectiveProgress(tc.tasks); got != tc.want {
				t.Fatalf("progress = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestWeekStatistics(t *testing.T) {
	objectives := []domain.Objective{
		{Tasks: []domain.Task{task("alice", true), task("alice", false), task("bob", true)}},
		{Tasks: []domain.Task{task("", true), task("", false)}},
		{}, // taskless objective still counts
	}
	s := stats.WeekStatistics(objectives)
	if s.TotalObjectives != 3 {
		t.Fatalf("objectives = %d", s.TotalObjectives)
	}
	if s.TotalTasks != 5 || s.CompletedTasks != 3 {
		t.Fatalf("tasks = %d/%d", s.CompletedTasks, s.TotalTasks)
	}
	if s.GlobalProgress != 60 {
		t.Fatalf("global = %d, want 60", s.GlobalProgress)
	}
	if len(s.MemberStats) != 2 {
		t.Fatalf("member buckets = %d, want 2 (unassigned excluded)", len(s.MemberStats))
	}
	if m := s.MemberStats["alice"]; m.Total != 2 || m.Completed != 1 {
		t.Fatalf("alice = %+v", m)
	}
	if m := s.MemberStats["bob"]; m.Total != 1 || m.Completed != 1 {
		t.Fatalf("bob = %+v", m)
	}
}

func TestWeekStatisticsEmpty(t *testing.T) {
	s := stats.WeekStatistics(nil)
	if s.TotalObjectives != 0 || s.TotalTasks != 0 || s.GlobalProgress != 0 {
		t.Fatalf("empty stats = %+v", s)
	}
}

func TestParseMemberFilter(t *testing.T) {
	if got := stats.ParseMemberFilter(""); got != nil {
		t.Fatalf("empty filter = %v", got)
	}
	got := stats.ParseMemberFilter("3, 7,,12 ")
	if len(got) != 3 || got[0] != "3" || got[1] != "7" || got[2] != "12" {
		t.Fatalf("filter = %v", got)
	}
}

func TestFilterByMembers(t *testing.T) {
	objectives := []domain.Objective{
		{ID: "o1", Tasks: []domain.Task{task("alice", false), task("bob", true), task("", false)}},
		{ID: "o2", Tasks: []domain.Task{task("bob", false)}},
	}
	out := stats.FilterByMembers(objectives, []string{"alice"})
	if len(out) != 2 {
		t.Fatalf("objectives survive filtering, got %d", len(out))
	}
	if len(out[0].Tasks) != 1 || *out[0].Tasks[0].Assignee != "alice" {
		t.Fatalf("o1 tasks = %+v", out[0].Tasks)
	}
	if len(out[1].Tasks) != 0 {
		t.Fatalf("o2 tasks = %+v", out[1].Tasks)
	}
	// nil filter passes through untouched
	same := stats.FilterByMembers(objectives, nil)
	if len(same[0].Tasks) != 3 {
		t.Fatal("nil filter must not drop tasks")
	}
}

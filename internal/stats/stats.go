// Package stats derives display statistics from a plan snapshot. Everything
// here is pure and repeatable; persisted progress values are written by the
// engine, never computed lazily at read time.
package stats

import (
	"math"
	"strings"

	"weekplan/internal/domain"
)

// ObjectiveProgress returns the completion percentage for a task list:
// 0 for an empty list, otherwise round-half-up of 100*completed/total.
func ObjectiveProgress(tasks []domain.Task) int {
	if len(tasks) == 0 {
		return 0
	}
	done := 0
	for _, t := range tasks {
		if t.Completed {
			done++
		}
	}
	return int(math.Round(100 * float64(done) / float64(len(tasks))))
}

// MemberStat is one assignee's bucket in the weekly rollup.
type MemberStat struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

// WeekStats is the rollup over every objective of a week view.
type WeekStats struct {
	TotalObjectives int                   `json:"total_objectives"`
	TotalTasks      int                   `json:"total_tasks"`
	CompletedTasks  int                   `json:"completed_tasks"`
	GlobalProgress  int                   `json:"global_progress"`
	MemberStats     map[string]MemberStat `json:"member_stats"`
}

// WeekStatistics walks every task of every objective. Unassigned tasks count
// toward the totals but are excluded from the per-member buckets.
func WeekStatistics(objectives []domain.Objective) WeekStats {
	s := WeekStats{
		TotalObjectives: len(objectives),
		MemberStats:     map[string]MemberStat{},
	}
	for _, o := range objectives {
		for _, t := range o.Tasks {
			s.TotalTasks++
			if t.Completed {
				s.CompletedTasks++
			}
			if t.Assignee == nil || *t.Assignee == "" {
				continue
			}
			m := s.MemberStats[*t.Assignee]
			m.Total++
			if t.Completed {
				m.Completed++
			}
			s.MemberStats[*t.Assignee] = m
		}
	}
	if s.TotalTasks > 0 {
		s.GlobalProgress = int(math.Round(100 * float64(s.CompletedTasks) / float64(s.TotalTasks)))
	}
	return s
}

// ParseMemberFilter splits the comma-joined member id query parameter
// (?members=3,7,12). Blank entries are dropped; an empty filter means no
// filtering.
func ParseMemberFilter(raw string) []string {
	if raw == "" {
		return nil
	}
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// FilterByMembers keeps only tasks assigned to one of the given members,
// preserving objective order. A nil filter returns the input unchanged.
func FilterByMembers(objectives []domain.Objective, members []string) []domain.Objective {
	if len(members) == 0 {
		return objectives
	}
	keep := map[string]bool{}
	for _, m := range members {
		keep[m] = true
	}
	out := make([]domain.Objective, 0, len(objectives))
	for _, o := range objectives {
		filtered := o
		filtered.Tasks = nil
		for _, t := range o.Tasks {
			if t.Assignee != nil && keep[*t.Assignee] {
				filtered.Tasks = append(filtered.Tasks, t)
			}
		}
		out = append(out, filtered)
	}
	return out
}

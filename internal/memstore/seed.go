package memstore

import (
	"context"
	"time"

	"weekplan/internal/domain"
	"weekplan/internal/week"
)

// Seed loads a small demo dataset: one product, a few members, the current
// year's week catalog, and a partially completed plan in the current week.
func (s *Store) Seed(now time.Time) error {
	ctx := context.Background()
	ts := now.UTC().Format(time.RFC3339)

	product := domain.Product{ID: "demo", Name: "Demo Product", Description: "Seeded demo data", CreatedAt: ts}
	if err := s.CreateProduct(ctx, product); err != nil {
		return err
	}
	members := []domain.Member{
		{ID: "1", Name: "Alice Moreau", Role: "Product Manager", Initials: "AM"},
		{ID: "2", Name: "Bruno Keller", Role: "Engineer", Initials: "BK"},
		{ID: "3", Name: "Chloe Diaz", Role: "Designer", Initials: "CD"},
	}
	for _, m := range members {
		if err := s.CreateMember(ctx, m); err != nil {
			return err
		}
	}
	if _, err := s.PutWeekRanges(ctx, week.EnumerateYear(now.Year(), now, "")); err != nil {
		return err
	}

	weekID, err := week.IDOf(now)
	if err != nil {
		return err
	}
	objective := domain.Objective{
		ID:          "demo-obj-1",
		ProductID:   product.ID,
		WeekID:      weekID,
		Title:       "Ship the weekly plan view",
		Position:    0,
		IsUrgent:    true,
		IsImportant: true,
		Category:    domain.DeriveCategory(true, true),
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	if err := s.CreateObjective(ctx, objective); err != nil {
		return err
	}
	alice, bruno := "1", "2"
	tasks := []domain.Task{
		{ID: "demo-task-1", ObjectiveID: objective.ID, Title: "Draft layout", Assignee: &alice, Complexity: "low", Criticality: "medium", Completed: true, Position: 0, CreatedAt: ts, UpdatedAt: ts},
		{ID: "demo-task-2", ObjectiveID: objective.ID, Title: "Wire up reordering", Assignee: &bruno, Complexity: "high", Criticality: "high", Position: 1, CreatedAt: ts, UpdatedAt: ts},
	}
	for _, t := range tasks {
		if err := s.CreateTask(ctx, t); err != nil {
			return err
		}
	}
	objective.Progress = 50
	return s.UpdateObjective(ctx, objective)
}

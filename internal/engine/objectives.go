package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"weekplan/internal/domain"
	"weekplan/internal/order"
	"weekplan/internal/store"
	"weekplan/internal/week"
)

// ObjectiveCreateOptions are parameters for creating an objective. WeekID
// wins over Date; Date is resolved to its canonical week id.
type ObjectiveCreateOptions struct {
	ID          string
	ProductID   string
	WeekID      string
	Date        time.Time
	Title       string
	IsUrgent    bool
	IsImportant bool
	TargetDate  *time.Time
	ActorID     string
}

func (e Engine) CreateObjective(ctx context.Context, opts ObjectiveCreateOptions) (domain.Objective, error) {
	if opts.Title == "" {
		return domain.Objective{}, errors.New("title is required")
	}
	if opts.ProductID == "" {
		return domain.Objective{}, errors.New("product is required")
	}
	if _, err := e.Store.GetProduct(ctx, opts.ProductID); err != nil {
		return domain.Objective{}, err
	}
	weekID := opts.WeekID
	if weekID == "" {
		var err error
		if weekID, err = week.IDOf(opts.Date); err != nil {
			return domain.Objective{}, fmt.Errorf("week is required: %w", err)
		}
	}
	now := e.nowString()
	id := opts.ID
	if id == "" {
		id = uuid.NewSHA1(uuid.NameSpaceOID, []byte(opts.ProductID+"|"+weekID+"|"+opts.Title+"|"+now)).String()
	}
	siblings, err := e.Store.ListObjectives(ctx, opts.ProductID, weekID)
	if err != nil {
		return domain.Objective{}, err
	}
	o := domain.Objective{
		ID:          id,
		ProductID:   opts.ProductID,
		WeekID:      weekID,
		Title:       opts.Title,
		Progress:    0,
		Position:    order.NextPosition(asObjectivePtrs(siblings)),
		IsUrgent:    opts.IsUrgent,
		IsImportant: opts.IsImportant,
		Category:    domain.DeriveCategory(opts.IsUrgent, opts.IsImportant),
		TargetDate:  opts.TargetDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := e.Store.CreateObjective(ctx, o); err != nil {
		return domain.Objective{}, err
	}
	if err := e.appendEvent(ctx, "objective.created", o.ProductID, "objective", o.ID, opts.ActorID, eventPayload{
		"title": o.Title, "week_id": o.WeekID, "position": o.Position,
	}); err != nil {
		return domain.Objective{}, err
	}
	return o, nil
}

// ObjectiveUpdateOptions carry partial updates. Provided flags distinguish
// "clear this field" from "leave it alone".
type ObjectiveUpdateOptions struct {
	ID                 string
	ActorID            string
	Title              *string
	IsUrgent           *bool
	IsImportant        *bool
	TargetDateProvided bool
	TargetDate         *time.Time
	FlagProvided       bool
	Flag               *domain.Flag
}

func (e Engine) UpdateObjective(ctx context.Context, opts ObjectiveUpdateOptions) (domain.Objective, error) {
	o, err := e.Store.GetObjective(ctx, opts.ID)
	if err != nil {
		return domain.Objective{}, err
	}
	if opts.Title != nil {
		if *opts.Title == "" {
			return domain.Objective{}, errors.New("title must not be empty")
		}
		o.Title = *opts.Title
	}
	if opts.IsUrgent != nil {
		o.IsUrgent = *opts.IsUrgent
	}
	if opts.IsImportant != nil {
		o.IsImportant = *opts.IsImportant
	}
	// Category always follows the pair; it is never set independently.
	o.Category = domain.DeriveCategory(o.IsUrgent, o.IsImportant)
	if opts.TargetDateProvided {
		o.TargetDate = opts.TargetDate
	}
	if opts.FlagProvided {
		o.Flag = opts.Flag
	}
	o.UpdatedAt = e.nowString()
	if err := e.Store.UpdateObjective(ctx, o); err != nil {
		return domain.Objective{}, err
	}
	if err := e.appendEvent(ctx, "objective.updated", o.ProductID, "objective", o.ID, opts.ActorID, eventPayload{
		"category": string(o.Category),
	}); err != nil {
		return domain.Objective{}, err
	}
	o.Tasks, _ = e.Store.ListTasks(ctx, o.ID)
	return o, nil
}

// FlagObjective sets or clears the attention flag.
func (e Engine) FlagObjective(ctx context.Context, id string, flagged bool, note, actorID string) (domain.Objective, error) {
	var flag *domain.Flag
	if flagged || note != "" {
		flag = &domain.Flag{IsFlagged: flagged, Description: note}
	}
	return e.UpdateObjective(ctx, ObjectiveUpdateOptions{
		ID:           id,
		ActorID:      actorID,
		FlagProvided: true,
		Flag:         flag,
	})
}

// DeleteObjective removes the objective and its tasks. Sibling positions are
// deliberately NOT renumbered; gaps are tolerated and CompactObjectives
// exists for callers that want density back.
func (e Engine) DeleteObjective(ctx context.Context, id, actorID string) error {
	o, err := e.Store.GetObjective(ctx, id)
	if err != nil {
		return err
	}
	if err := e.Store.DeleteObjective(ctx, id); err != nil {
		return err
	}
	return e.appendEvent(ctx, "objective.deleted", o.ProductID, "objective", o.ID, actorID, eventPayload{
		"week_id": o.WeekID,
	})
}

// ReorderObjectives moves the objective at fromIndex to toIndex within its
// week and persists the entire renumbered array in one batch write.
func (e Engine) ReorderObjectives(ctx context.Context, productID, weekID string, fromIndex, toIndex int, actorID string) ([]domain.Objective, error) {
	siblings, err := e.Store.ListObjectives(ctx, productID, weekID)
	if err != nil {
		return nil, err
	}
	ptrs, err := order.Reorder(asObjectivePtrs(siblings), fromIndex, toIndex)
	if err != nil {
		return nil, err
	}
	ops := make([]store.Op, 0, len(ptrs))
	out := make([]domain.Objective, 0, len(ptrs))
	for _, p := range ptrs {
		ops = append(ops, store.Op{Type: store.OpSet, Collection: store.Objectives, ID: p.ID, Objective: p})
		out = append(out, *p)
	}
	if err := e.Store.BatchWrite(ctx, ops); err != nil {
		return nil, err
	}
	if err := e.appendEvent(ctx, "objectives.reordered", productID, "week", weekID, actorID, eventPayload{
		"from": fromIndex, "to": toIndex, "count": len(out),
	}); err != nil {
		return nil, err
	}
	return out, nil
}

// CompactObjectives renumbers a week's objective positions to 0..N-1. This
// is the explicit repair operation for post-deletion gaps.
func (e Engine) CompactObjectives(ctx context.Context, productID, weekID, actorID string) ([]domain.Objective, error) {
	siblings, err := e.Store.ListObjectives(ctx, productID, weekID)
	if err != nil {
		return nil, err
	}
	ptrs := order.Compact(asObjectivePtrs(siblings))
	ops := make([]store.Op, 0, len(ptrs))
	out := make([]domain.Objective, 0, len(ptrs))
	for _, p := range ptrs {
		ops = append(ops, store.Op{Type: store.OpSet, Collection: store.Objectives, ID: p.ID, Objective: p})
		out = append(out, *p)
	}
	if err := e.Store.BatchWrite(ctx, ops); err != nil {
		return nil, err
	}
	if err := e.appendEvent(ctx, "objectives.compacted", productID, "week", weekID, actorID, eventPayload{
		"count": len(out),
	}); err != nil {
		return nil, err
	}
	return out, nil
}

// CloneObjectives copies objectives (and their tasks) from one week into
// another under fresh ids, appended at the end of the target week.
// Completion state and progress reset: a cloned plan starts over.
// Empty ids means "clone the whole week".
func (e Engine) CloneObjectives(ctx context.Context, productID, fromWeekID, toWeekID string, ids []string, actorID string) ([]domain.Objective, error) {
	if fromWeekID == toWeekID {
		return nil, errors.New("target week must differ from source week")
	}
	source, err := e.Store.ListObjectives(ctx, productID, fromWeekID)
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		wanted := map[string]bool{}
		for _, id := range ids {
			wanted[id] = true
		}
		filtered := source[:0]
		for _, o := range source {
			if wanted[o.ID] {
				filtered = append(filtered, o)
			}
		}
		source = filtered
	}
	if len(source) == 0 {
		return nil, fmt.Errorf("no objectives to clone in week %s", fromWeekID)
	}
	target, err := e.Store.ListObjectives(ctx, productID, toWeekID)
	if err != nil {
		return nil, err
	}
	now := e.nowString()
	nextPos := order.NextPosition(asObjectivePtrs(target))
	var ops []store.Op
	cloned := make([]domain.Objective, 0, len(source))
	for i, src := range source {
		tasks, err := e.Store.ListTasks(ctx, src.ID)
		if err != nil {
			return nil, err
		}
		clone := src
		clone.ID = uuid.NewSHA1(uuid.NameSpaceOID, []byte(src.ID+"|"+toWeekID+"|"+now)).String()
		clone.WeekID = toWeekID
		clone.Position = nextPos + i
		clone.Progress = 0
		clone.Tasks = nil
		clone.CreatedAt = now
		clone.UpdatedAt = now
		ops = append(ops, store.Op{Type: store.OpSet, Collection: store.Objectives, ID: clone.ID, Objective: ptr(clone)})
		for _, t := range tasks {
			tc := t
			tc.ID = uuid.NewSHA1(uuid.NameSpaceOID, []byte(t.ID+"|"+clone.ID+"|"+now)).String()
			tc.ObjectiveID = clone.ID
			tc.Completed = false
			tc.CreatedAt = now
			tc.UpdatedAt = now
			ops = append(ops, store.Op{Type: store.OpSet, Collection: store.Tasks, ID: tc.ID, Task: ptr(tc)})
			clone.Tasks = append(clone.Tasks, tc)
		}
		cloned = append(cloned, clone)
	}
	if err := e.Store.BatchWrite(ctx, ops); err != nil {
		return nil, err
	}
	if err := e.appendEvent(ctx, "objectives.cloned", productID, "week", toWeekID, actorID, eventPayload{
		"from_week": fromWeekID, "count": len(cloned),
	}); err != nil {
		return nil, err
	}
	return cloned, nil
}

func asObjectivePtrs(items []domain.Objective) []*domain.Objective {
	ptrs := make([]*domain.Objective, len(items))
	for i := range items {
		ptrs[i] = &items[i]
	}
	return ptrs
}

func ptr[T any](v T) *T { return &v }

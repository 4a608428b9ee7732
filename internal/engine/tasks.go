package engine

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"weekplan/internal/domain"
	"weekplan/internal/order"
	"weekplan/internal/stats"
	"weekplan/internal/store"
)

const defaultTaskLevel = "medium"

func validLevel(v string) bool {
	switch v {
	case "low", "medium", "high", "critical":
		return true
	}
	return false
}

// TaskCreateOptions are parameters for creating a task under an objective.
type TaskCreateOptions struct {
	ID          string
	ObjectiveID string
	Title       string
	Assignee    string
	Complexity  string
	Criticality string
	ActorID     string
}

func (e Engine) CreateTask(ctx context.Context, opts TaskCreateOptions) (domain.Task, error) {
	if opts.Title == "" {
		return domain.Task{}, errors.New("title is required")
	}
	if opts.ObjectiveID == "" {
		return domain.Task{}, errors.New("objective is required")
	}
	o, err := e.Store.GetObjective(ctx, opts.ObjectiveID)
	if err != nil {
		return domain.Task{}, err
	}
	if opts.Assignee != "" {
		if _, err := e.Store.GetMember(ctx, opts.Assignee); err != nil {
			return domain.Task{}, err
		}
	}
	if opts.Complexity == "" {
		opts.Complexity = defaultTaskLevel
	}
	if opts.Criticality == "" {
		opts.Criticality = defaultTaskLevel
	}
	if !validLevel(opts.Complexity) || !validLevel(opts.Criticality) {
		return domain.Task{}, errors.New("complexity and criticality must be low, medium, high or critical")
	}
	siblings, err := e.Store.ListTasks(ctx, opts.ObjectiveID)
	if err != nil {
		return domain.Task{}, err
	}
	now := e.nowString()
	id := opts.ID
	if id == "" {
		id = uuid.NewSHA1(uuid.NameSpaceOID, []byte(opts.ObjectiveID+"|"+opts.Title+"|"+now)).String()
	}
	t := domain.Task{
		ID:          id,
		ObjectiveID: opts.ObjectiveID,
		Title:       opts.Title,
		Assignee:    optionalString(opts.Assignee),
		Complexity:  opts.Complexity,
		Criticality: opts.Criticality,
		Completed:   false,
		Position:    order.NextPosition(asTaskPtrs(siblings)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := e.Store.CreateTask(ctx, t); err != nil {
		return domain.Task{}, err
	}
	if _, err := e.recomputeProgress(ctx, t.ObjectiveID); err != nil {
		return domain.Task{}, err
	}
	if err := e.appendEvent(ctx, "task.created", o.ProductID, "task", t.ID, opts.ActorID, eventPayload{
		"objective_id": t.ObjectiveID, "title": t.Title, "position": t.Position,
	}); err != nil {
		return domain.Task{}, err
	}
	return t, nil
}

// TaskUpdateOptions carry partial task updates.
type TaskUpdateOptions struct {
	ID               string
	ActorID          string
	Title            *string
	AssigneeProvided bool
	Assignee         *string
	Complexity       *string
	Criticality      *string
	Completed        *bool
}

func (e Engine) UpdateTask(ctx context.Context, opts TaskUpdateOptions) (domain.Task, error) {
	t, err := e.Store.GetTask(ctx, opts.ID)
	if err != nil {
		return domain.Task{}, err
	}
	completionChanged := false
	if opts.Title != nil {
		if *opts.Title == "" {
			return domain.Task{}, errors.New("title must not be empty")
		}
		t.Title = *opts.Title
	}
	if opts.AssigneeProvided {
		if opts.Assignee != nil && *opts.Assignee != "" {
			if _, err := e.Store.GetMember(ctx, *opts.Assignee); err != nil {
				return domain.Task{}, err
			}
			t.Assignee = opts.Assignee
		} else {
			t.Assignee = nil
		}
	}
	if opts.Complexity != nil {
		if !validLevel(*opts.Complexity) {
			return domain.Task{}, errors.New("complexity must be low, medium, high or critical")
		}
		t.Complexity = *opts.Complexity
	}
	if opts.Criticality != nil {
		if !validLevel(*opts.Criticality) {
			return domain.Task{}, errors.New("criticality must be low, medium, high or critical")
		}
		t.Criticality = *opts.Criticality
	}
	if opts.Completed != nil && *opts.Completed != t.Completed {
		t.Completed = *opts.Completed
		completionChanged = true
	}
	t.UpdatedAt = e.nowString()
	if err := e.Store.UpdateTask(ctx, t); err != nil {
		return domain.Task{}, err
	}
	if completionChanged {
		if _, err := e.recomputeProgress(ctx, t.ObjectiveID); err != nil {
			return domain.Task{}, err
		}
	}
	o, err := e.Store.GetObjective(ctx, t.ObjectiveID)
	if err != nil {
		return domain.Task{}, err
	}
	if err := e.appendEvent(ctx, "task.updated", o.ProductID, "task", t.ID, opts.ActorID, eventPayload{
		"completed": t.Completed,
	}); err != nil {
		return domain.Task{}, err
	}
	return t, nil
}

// ToggleTask flips completion and recomputes the parent's progress.
func (e Engine) ToggleTask(ctx context.Context, id, actorID string) (domain.Task, error) {
	t, err := e.Store.GetTask(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}
	flipped := !t.Completed
	return e.UpdateTask(ctx, TaskUpdateOptions{ID: id, ActorID: actorID, Completed: &flipped})
}

// DeleteTask removes a task and recomputes the parent's progress (forced to
// 0 when the list empties). Sibling positions keep their gaps.
func (e Engine) DeleteTask(ctx context.Context, id, actorID string) error {
	t, err := e.Store.GetTask(ctx, id)
	if err != nil {
		return err
	}
	o, err := e.Store.GetObjective(ctx, t.ObjectiveID)
	if err != nil {
		return err
	}
	if err := e.Store.DeleteTask(ctx, id); err != nil {
		return err
	}
	if _, err := e.recomputeProgress(ctx, t.ObjectiveID); err != nil {
		return err
	}
	return e.appendEvent(ctx, "task.deleted", o.ProductID, "task", id, actorID, eventPayload{
		"objective_id": t.ObjectiveID,
	})
}

// ReorderTasks moves the task at fromIndex to toIndex within its objective
// and persists the renumbered array in one batch write.
func (e Engine) ReorderTasks(ctx context.Context, objectiveID string, fromIndex, toIndex int, actorID string) ([]domain.Task, error) {
	o, err := e.Store.GetObjective(ctx, objectiveID)
	if err != nil {
		return nil, err
	}
	siblings, err := e.Store.ListTasks(ctx, objectiveID)
	if err != nil {
		return nil, err
	}
	ptrs, err := order.Reorder(asTaskPtrs(siblings), fromIndex, toIndex)
	if err != nil {
		return nil, err
	}
	ops := make([]store.Op, 0, len(ptrs))
	out := make([]domain.Task, 0, len(ptrs))
	for _, p := range ptrs {
		ops = append(ops, store.Op{Type: store.OpSet, Collection: store.Tasks, ID: p.ID, Task: p})
		out = append(out, *p)
	}
	if err := e.Store.BatchWrite(ctx, ops); err != nil {
		return nil, err
	}
	if err := e.appendEvent(ctx, "tasks.reordered", o.ProductID, "objective", objectiveID, actorID, eventPayload{
		"from": fromIndex, "to": toIndex, "count": len(out),
	}); err != nil {
		return nil, err
	}
	return out, nil
}

// CompactTasks renumbers an objective's task positions to 0..N-1.
func (e Engine) CompactTasks(ctx context.Context, objectiveID, actorID string) ([]domain.Task, error) {
	o, err := e.Store.GetObjective(ctx, objectiveID)
	if err != nil {
		return nil, err
	}
	siblings, err := e.Store.ListTasks(ctx, objectiveID)
	if err != nil {
		return nil, err
	}
	ptrs := order.Compact(asTaskPtrs(siblings))
	ops := make([]store.Op, 0, len(ptrs))
	out := make([]domain.Task, 0, len(ptrs))
	for _, p := range ptrs {
		ops = append(ops, store.Op{Type: store.OpSet, Collection: store.Tasks, ID: p.ID, Task: p})
		out = append(out, *p)
	}
	if err := e.Store.BatchWrite(ctx, ops); err != nil {
		return nil, err
	}
	if err := e.appendEvent(ctx, "tasks.compacted", o.ProductID, "objective", objectiveID, actorID, eventPayload{
		"count": len(out),
	}); err != nil {
		return nil, err
	}
	return out, nil
}

// recomputeProgress re-derives and persists the parent objective's progress.
// Contract: called after every task mutation that changes the completed
// count or the total count. The write is unconditional; progress is a
// denormalized value, not a lazily computed one.
func (e Engine) recomputeProgress(ctx context.Context, objectiveID string) (domain.Objective, error) {
	o, err := e.Store.GetObjective(ctx, objectiveID)
	if err != nil {
		return domain.Objective{}, err
	}
	tasks, err := e.Store.ListTasks(ctx, objectiveID)
	if err != nil {
		return domain.Objective{}, err
	}
	o.Progress = stats.ObjectiveProgress(tasks)
	o.UpdatedAt = e.nowString()
	if err := e.Store.UpdateObjective(ctx, o); err != nil {
		return domain.Objective{}, err
	}
	o.Tasks = tasks
	return o, nil
}

func asTaskPtrs(items []domain.Task) []*domain.Task {
	ptrs := make([]*domain.Task, len(items))
	for i := range items {
		ptrs[i] = &items[i]
	}
	return ptrs
}

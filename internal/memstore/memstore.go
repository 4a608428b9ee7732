// Package memstore is the in-memory store.Store used for offline and demo
// runs. State lives for the process lifetime; construct one instance and
// inject it, the package holds no globals.
package memstore

import (
	"context"
	"sort"
	"sync"

	"weekplan/internal/domain"
	"weekplan/internal/store"
)

type Store struct {
	mu         sync.RWMutex
	products   map[string]domain.Product
	members    map[string]domain.Member
	weeks      map[string]domain.WeekRange
	objectives map[string]domain.Objective
	tasks      map[string]domain.Task
	events     []domain.Event
	nextEvent  int64
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		products:   map[string]domain.Product{},
		members:    map[string]domain.Member{},
		weeks:      map[string]domain.WeekRange{},
		objectives: map[string]domain.Objective{},
		tasks:      map[string]domain.Task{},
		nextEvent:  1,
	}
}

func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		res = append(res, p)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt > res[j].CreatedAt })
	return res, nil
}

func (s *Store) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return p, store.ErrNotFound
	}
	return p, nil
}

func (s *Store) CreateProduct(ctx context.Context, p domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
	return nil
}

func (s *Store) UpdateProduct(ctx context.Context, id string, name, description *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return store.ErrNotFound
	}
	if name != nil {
		p.Name = *name
	}
	if description != nil {
		p.Description = *description
	}
	s.products[id] = p
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.products, id)
	for oid, o := range s.objectives {
		if o.ProductID == id {
			delete(s.objectives, oid)
			for tid, t := range s.tasks {
				if t.ObjectiveID == oid {
					delete(s.tasks, tid)
				}
			}
		}
	}
	return nil
}

func (s *Store) ListMembers(ctx context.Context) ([]domain.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]domain.Member, 0, len(s.members))
	for _, m := range s.members {
		res = append(res, m)
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Name != res[j].Name {
			return res[i].Name < res[j].Name
		}
		return res[i].ID < res[j].ID
	})
	return res, nil
}

func (s *Store) GetMember(ctx context.Context, id string) (domain.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.members[id]
	if !ok {
		return m, store.ErrNotFound
	}
	return m, nil
}

func (s *Store) CreateMember(ctx context.Context, m domain.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[m.ID] = m
	return nil
}

func (s *Store) ListWeekRanges(ctx context.Context, year int) ([]domain.WeekRange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]domain.WeekRange, 0, len(s.weeks))
	for _, w := range s.weeks {
		if year > 0 && w.StartDate.Year() != year {
			continue
		}
		res = append(res, w)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].StartDate.Before(res[j].StartDate) })
	return res, nil
}

func (s *Store) GetWeekRange(ctx context.Context, id string) (domain.WeekRange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.weeks[id]
	if !ok {
		return w, store.ErrNotFound
	}
	return w, nil
}

func (s *Store) PutWeekRanges(ctx context.Context, ranges []domain.WeekRange) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inserted := 0
	for _, w := range ranges {
		if _, ok := s.weeks[w.ID]; ok {
			continue
		}
		// IsCurrentWeek is derived at read time by the engine, never stored.
		w.IsCurrentWeek = false
		s.weeks[w.ID] = w
		inserted++
	}
	return inserted, nil
}

func (s *Store) UpdateWeekLabel(ctx context.Context, id, label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.weeks[id]
	if !ok {
		return store.ErrNotFound
	}
	w.Label = label
	s.weeks[id] = w
	return nil
}

func (s *Store) ListObjectives(ctx context.Context, productID, weekID string) ([]domain.Objective, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var res []domain.Objective
	for _, o := range s.objectives {
		if o.ProductID == productID && o.WeekID == weekID {
			o.Tasks = nil
			res = append(res, o)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Position != res[j].Position {
			return res[i].Position < res[j].Position
		}
		return res[i].ID < res[j].ID
	})
	return res, nil
}

func (s *Store) GetObjective(ctx context.Context, id string) (domain.Objective, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.objectives[id]
	if !ok {
		return o, store.ErrNotFound
	}
	o.Tasks = nil
	return o, nil
}

func (s *Store) CreateObjective(ctx context.Context, o domain.Objective) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o.Tasks = nil
	s.objectives[o.ID] = o
	return nil
}

func (s *Store) UpdateObjective(ctx context.Context, o domain.Objective) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objectives[o.ID]; !ok {
		return store.ErrNotFound
	}
	o.Tasks = nil
	s.objectives[o.ID] = o
	return nil
}

func (s *Store) DeleteObjective(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objectives[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.objectives, id)
	for tid, t := range s.tasks {
		if t.ObjectiveID == id {
			delete(s.tasks, tid)
		}
	}
	return nil
}

func (s *Store) ListTasks(ctx context.Context, objectiveID string) ([]domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var res []domain.Task
	for _, t := range s.tasks {
		if t.ObjectiveID == objectiveID {
			res = append(res, t)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Position != res[j].Position {
			return res[i].Position < res[j].Position
		}
		return res[i].ID < res[j].ID
	})
	return res, nil
}

func (s *Store) GetTask(ctx context.Context, id string) (domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return t, store.ErrNotFound
	}
	return t, nil
}

func (s *Store) CreateTask(ctx context.Context, t domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[t.ID] = t
	return nil
}

func (s *Store) UpdateTask(ctx context.Context, t domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[t.ID]; !ok {
		return store.ErrNotFound
	}
	s.tasks[t.ID] = t
	return nil
}

func (s *Store) DeleteTask(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

// BatchWrite applies all ops under one lock so readers never observe a
// half-applied reorder.
func (s *Store) BatchWrite(ctx context.Context, ops []store.Op) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, op := range ops {
		switch op.Type {
		case store.OpSet, store.OpUpdate:
			switch op.Collection {
			case store.Objectives:
				o := *op.Objective
				o.Tasks = nil
				s.objectives[o.ID] = o
			case store.Tasks:
				s.tasks[op.Task.ID] = *op.Task
			case store.WeekRanges:
				s.weeks[op.WeekRange.ID] = *op.WeekRange
			}
		case store.OpDelete:
			switch op.Collection {
			case store.Objectives:
				delete(s.objectives, op.ID)
			case store.Tasks:
				delete(s.tasks, op.ID)
			case store.WeekRanges:
				delete(s.weeks, op.ID)
			}
		}
	}
	return nil
}

func (s *Store) AppendEvent(ctx context.Context, e domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.nextEvent
	s.nextEvent++
	s.events = append(s.events, e)
	return nil
}

func (s *Store) ListEvents(ctx context.Context, f store.EventFilters) ([]domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	var res []domain.Event
	for i := len(s.events) - 1; i >= 0 && len(res) < limit; i-- {
		e := s.events[i]
		if f.ProductID != "" && e.ProductID != f.ProductID {
			continue
		}
		if f.Type != "" && e.Type != f.Type {
			continue
		}
		if f.Cursor > 0 && e.ID >= f.Cursor {
			continue
		}
		res = append(res, e)
	}
	return res, nil
}

// Package engine is the business layer between the HTTP/CLI surfaces and the
// injected store. Read paths fail soft (a broken store degrades to an empty
// view); write paths propagate errors to the caller.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"weekplan/internal/config"
	"weekplan/internal/domain"
	"weekplan/internal/stats"
	"weekplan/internal/store"
	"weekplan/internal/week"
)

type Engine struct {
	Store  store.Store
	Config *config.Config
	Now    func() time.Time
}

func New(st store.Store, cfg *config.Config) Engine {
	return Engine{
		Store:  st,
		Config: cfg,
		Now:    time.Now,
	}
}

func (e Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e Engine) nowString() string {
	return e.now().UTC().Format(time.RFC3339)
}

func (e Engine) labelTemplate() string {
	if e.Config != nil && e.Config.Week.LabelTemplate != "" {
		return e.Config.Week.LabelTemplate
	}
	return week.DefaultLabelTemplate
}

// GenerateYear enumerates the Monday-anchored weeks of a year and persists
// the catalog. Existing entries keep their ids and labels.
func (e Engine) GenerateYear(ctx context.Context, year int, actorID string) ([]domain.WeekRange, int, error) {
	if year < 1970 || year > 9999 {
		return nil, 0, fmt.Errorf("invalid year %d", year)
	}
	ranges := week.EnumerateYear(year, e.now(), e.labelTemplate())
	inserted, err := e.Store.PutWeekRanges(ctx, ranges)
	if err != nil {
		return nil, 0, err
	}
	if err := e.appendEvent(ctx, "weeks.generated", "", "week", "", actorID, eventPayload{
		"year": year, "generated": len(ranges), "inserted": inserted,
	}); err != nil {
		return nil, 0, err
	}
	return ranges, inserted, nil
}

// tagCurrent derives IsCurrentWeek against the engine clock. The flag is
// never persisted; a stored value would go stale the following Monday.
func (e Engine) tagCurrent(w *domain.WeekRange) *domain.WeekRange {
	if w != nil {
		w.IsCurrentWeek = week.SameWeek(e.now(), w.StartDate)
	}
	return w
}

// ListWeeks returns the week catalog with the current-week flag derived at
// read time.
func (e Engine) ListWeeks(ctx context.Context, year int) ([]domain.WeekRange, error) {
	items, err := e.Store.ListWeekRanges(ctx, year)
	if err != nil {
		return nil, err
	}
	for i := range items {
		e.tagCurrent(&items[i])
	}
	return items, nil
}

// ResolveWeek matches a target against the persisted catalog. Returns nil on
// a resolution miss; callers choose their own fallback (WeekView synthesizes
// a range from raw date math).
func (e Engine) ResolveWeek(ctx context.Context, target week.Target) (*domain.WeekRange, error) {
	catalog, err := e.Store.ListWeekRanges(ctx, 0)
	if err != nil {
		return nil, err
	}
	return e.tagCurrent(week.Resolve(catalog, target)), nil
}

// ResolveWeekSlug resolves a shareable URL slug. A malformed slug is a
// client error, not a miss.
func (e Engine) ResolveWeekSlug(ctx context.Context, slug string) (*domain.WeekRange, error) {
	catalog, err := e.Store.ListWeekRanges(ctx, 0)
	if err != nil {
		return nil, err
	}
	w, err := week.ResolveSlug(catalog, slug)
	if err != nil {
		return nil, err
	}
	return e.tagCurrent(w), nil
}

// WeekView is the assembled read model for one (product, week) partition.
type WeekView struct {
	Product    domain.Product
	Week       domain.WeekRange
	Objectives []domain.Objective
	Stats      stats.WeekStats
}

// WeekView resolves the target week and assembles objectives, tasks and
// statistics. Store read failures below the product lookup degrade to an
// empty plan so the surrounding UI stays renderable.
func (e Engine) WeekView(ctx context.Context, productID string, target week.Target, members []string) (WeekView, error) {
	product, err := e.Store.GetProduct(ctx, productID)
	if err != nil {
		return WeekView{}, err
	}
	resolved, err := e.ResolveWeek(ctx, target)
	if err != nil || resolved == nil {
		// Miss or read failure: synthesize the week from raw date math so
		// the view still renders.
		date := target.Date
		if date.IsZero() {
			date = target.Start
		}
		if date.IsZero() && target.ID != "" {
			if d, idErr := week.ParseID(target.ID); idErr == nil {
				date = d
			}
		}
		if date.IsZero() {
			date = e.now()
		}
		synthetic, mkErr := week.Make(date, e.labelTemplate())
		if mkErr != nil {
			return WeekView{}, mkErr
		}
		resolved = &synthetic
	}
	e.tagCurrent(resolved)
	view := WeekView{Product: product, Week: *resolved}
	objectives, err := e.Store.ListObjectives(ctx, productID, resolved.ID)
	if err != nil {
		objectives = nil
	}
	for i := range objectives {
		tasks, err := e.Store.ListTasks(ctx, objectives[i].ID)
		if err != nil {
			tasks = nil
		}
		objectives[i].Tasks = tasks
	}
	objectives = stats.FilterByMembers(objectives, members)
	view.Objectives = objectives
	view.Stats = stats.WeekStatistics(objectives)
	return view, nil
}

// Statistics computes the weekly rollup without the full view payload. Like
// WeekView, store read failures degrade to an empty rollup instead of
// propagating.
func (e Engine) Statistics(ctx context.Context, productID, weekID string, members []string) (stats.WeekStats, error) {
	objectives, err := e.Store.ListObjectives(ctx, productID, weekID)
	if err != nil {
		objectives = nil
	}
	for i := range objectives {
		tasks, err := e.Store.ListTasks(ctx, objectives[i].ID)
		if err != nil {
			tasks = nil
		}
		objectives[i].Tasks = tasks
	}
	return stats.WeekStatistics(stats.FilterByMembers(objectives, members)), nil
}

type eventPayload map[string]any

func (e Engine) appendEvent(ctx context.Context, evtType, productID, entityKind, entityID, actorID string, payload eventPayload) error {
	if payload == nil {
		payload = eventPayload{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}
	return e.Store.AppendEvent(ctx, domain.Event{
		TS:         e.nowString(),
		Type:       evtType,
		ProductID:  productID,
		EntityKind: entityKind,
		EntityID:   entityID,
		ActorID:    actorID,
		Payload:    string(data),
	})
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

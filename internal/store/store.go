// Package store defines the persistence contract the planning engine is
// written against. Implementations: internal/repo (SQLite) for real use and
// internal/memstore for the offline/demo fallback. The engine receives a
// Store instance explicitly; there is no package-level singleton.
package store

import (
	"context"
	"errors"

	"weekplan/internal/domain"
)

var ErrNotFound = errors.New("not found")

type Collection string

const (
	Products   Collection = "products"
	Members    Collection = "members"
	WeekRanges Collection = "weekRanges"
	Objectives Collection = "objectives"
	Tasks      Collection = "tasks"
)

type OpType string

const (
	OpSet    OpType = "set"
	OpUpdate OpType = "update"
	OpDelete OpType = "delete"
)

// Op is one entry of an atomic batch write. Exactly one payload field is set
// for set/update ops, matching Collection; delete ops carry only the id.
type Op struct {
	Type       OpType
	Collection Collection
	ID         string
	Objective  *domain.Objective
	Task       *domain.Task
	WeekRange  *domain.WeekRange
}

// EventFilters narrows the audit log. Cursor pages backwards by event id.
type EventFilters struct {
	ProductID string
	Type      string
	Limit     int
	Cursor    int64
}

// Store is the document-database abstraction consumed by the engine. All
// methods are synchronous wrappers around I/O; callers impose timeouts via
// ctx. BatchWrite applies every op or none: reorders and clones persist the
// full sibling array in one write so a half-applied order can never land.
// It is not, however, isolated against a concurrent second writer; the last
// batch wins (known design gap, reproduced as-is).
type Store interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	CreateProduct(ctx context.Context, p domain.Product) error
	UpdateProduct(ctx context.Context, id string, name, description *string) error
	DeleteProduct(ctx context.Context, id string) error

	ListMembers(ctx context.Context) ([]domain.Member, error)
	GetMember(ctx context.Context, id string) (domain.Member, error)
	CreateMember(ctx context.Context, m domain.Member) error

	// ListWeekRanges returns the catalog ascending by start date; year 0
	// means all years. PutWeekRanges inserts missing entries and leaves
	// existing ids untouched (catalog rows are read-only after generation
	// except for label correction).
	ListWeekRanges(ctx context.Context, year int) ([]domain.WeekRange, error)
	GetWeekRange(ctx context.Context, id string) (domain.WeekRange, error)
	PutWeekRanges(ctx context.Context, ranges []domain.WeekRange) (inserted int, err error)
	UpdateWeekLabel(ctx context.Context, id, label string) error

	// ListObjectives returns the (productID, weekID) partition sorted by
	// position, tasks not attached.
	ListObjectives(ctx context.Context, productID, weekID string) ([]domain.Objective, error)
	GetObjective(ctx context.Context, id string) (domain.Objective, error)
	CreateObjective(ctx context.Context, o domain.Objective) error
	UpdateObjective(ctx context.Context, o domain.Objective) error
	DeleteObjective(ctx context.Context, id string) error

	// ListTasks returns an objective's tasks sorted by position.
	ListTasks(ctx context.Context, objectiveID string) ([]domain.Task, error)
	GetTask(ctx context.Context, id string) (domain.Task, error)
	CreateTask(ctx context.Context, t domain.Task) error
	UpdateTask(ctx context.Context, t domain.Task) error
	DeleteTask(ctx context.Context, id string) error

	BatchWrite(ctx context.Context, ops []Op) error

	AppendEvent(ctx context.Context, e domain.Event) error
	ListEvents(ctx context.Context, f EventFilters) ([]domain.Event, error)
}

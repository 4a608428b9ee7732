package domain

import "time"

// Category buckets an objective by the Eisenhower urgency/importance pair.
type Category string

const (
	CategoryUrgentImportant       Category = "urgent-important"
	CategoryImportantNotUrgent    Category = "important-not-urgent"
	CategoryUrgentNotImportant    Category = "urgent-not-important"
	CategoryNotUrgentNotImportant Category = "not-urgent-not-important"
)

// DeriveCategory is the single source of truth for the urgency/importance
// quadrant. Call sites must never re-derive it inline.
func DeriveCategory(isUrgent, isImportant bool) Category {
	switch {
	case isUrgent && isImportant:
		return CategoryUrgentImportant
	case isImportant:
		return CategoryImportantNotUrgent
	case isUrgent:
		return CategoryUrgentNotImportant
	default:
		return CategoryNotUrgentNotImportant
	}
}

type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at" format:"date-time"`
}

type Member struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	Initials string `json:"initials,omitempty"`
}

// WeekRange is one entry of the week catalog. StartDate is the Monday at
// 00:00:00.000 local time, EndDate the following Sunday at 23:59:59.999.
type WeekRange struct {
	ID            string    `json:"id"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	Label         string    `json:"label"`
	IsCurrentWeek bool      `json:"is_current_week,omitempty"`
}

// Flag marks an objective for attention with a free-form note.
type Flag struct {
	IsFlagged   bool   `json:"is_flagged"`
	Description string `json:"description,omitempty"`
}

// Objective lives in exactly one (product_id, week_id) partition. Position is
// dense 0..N-1 among siblings after a reorder; deletion may leave gaps.
// Progress is derived from task completion and persisted, never set directly.
type Objective struct {
	ID          string     `json:"id"`
	ProductID   string     `json:"product_id"`
	WeekID      string     `json:"week_id"`
	Title       string     `json:"title"`
	Progress    int        `json:"progress"`
	Position    int        `json:"position"`
	IsUrgent    bool       `json:"is_urgent"`
	IsImportant bool       `json:"is_important"`
	Category    Category   `json:"category" enum:"urgent-important,important-not-urgent,urgent-not-important,not-urgent-not-important"`
	TargetDate  *time.Time `json:"target_completion_date,omitempty"`
	Flag        *Flag      `json:"flag,omitempty"`
	Tasks       []Task     `json:"tasks,omitempty"`
	CreatedAt   string     `json:"created_at" format:"date-time"`
	UpdatedAt   string     `json:"updated_at" format:"date-time"`
}

type Task struct {
	ID          string  `json:"id"`
	ObjectiveID string  `json:"objective_id"`
	Title       string  `json:"title"`
	Assignee    *string `json:"assignee,omitempty"`
	Complexity  string  `json:"complexity" enum:"low,medium,high,critical"`
	Criticality string  `json:"criticality" enum:"low,medium,high,critical"`
	Completed   bool    `json:"completed"`
	Position    int     `json:"position"`
	CreatedAt   string  `json:"created_at" format:"date-time"`
	UpdatedAt   string  `json:"updated_at" format:"date-time"`
}

// Pos, SetPos and Key satisfy order.Element so objectives and tasks
// participate in drag-and-drop reordering.
func (o *Objective) Pos() int     { return o.Position }
func (o *Objective) SetPos(p int) { o.Position = p }
func (o *Objective) Key() string  { return o.ID }

func (t *Task) Pos() int     { return t.Position }
func (t *Task) SetPos(p int) { t.Position = p }
func (t *Task) Key() string  { return t.ID }

type Event struct {
	ID         int64  `json:"id"`
	TS         string `json:"ts" format:"date-time"`
	Type       string `json:"type"`
	ProductID  string `json:"product_id,omitempty"`
	EntityKind string `json:"entity_kind"`
	EntityID   string `json:"entity_id,omitempty"`
	ActorID    string `json:"actor_id"`
	Payload    string `json:"payload_json"`
}

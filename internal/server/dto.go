package server

import (
	"encoding/json"
	"time"

	"weekplan/internal/domain"
	"weekplan/internal/engine"
	"weekplan/internal/stats"
	"weekplan/internal/week"
)

// Request payloads

type CreateProductRequest struct {
	ID          string  `json:"id,omitempty"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

type UpdateProductRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

type CreateMemberRequest struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Role     string `json:"role,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	Initials string `json:"initials,omitempty"`
}

type GenerateWeeksRequest struct {
	Year int `json:"year" minimum:"1970" maximum:"9999"`
}

type UpdateWeekLabelRequest struct {
	Label string `json:"label"`
}

type CreateObjectiveRequest struct {
	ID          string  `json:"id,omitempty"`
	Title       string  `json:"title"`
	IsUrgent    bool    `json:"is_urgent,omitempty"`
	IsImportant bool    `json:"is_important,omitempty"`
	TargetDate  *string `json:"target_date,omitempty" format:"date-time"`
}

type UpdateObjectiveRequest struct {
	Title       *string      `json:"title,omitempty"`
	IsUrgent    *bool        `json:"is_urgent,omitempty"`
	IsImportant *bool        `json:"is_important,omitempty"`
	TargetDate  *string      `json:"target_date,omitempty" format:"date-time"`
	ClearTarget bool         `json:"clear_target,omitempty"`
	Flag        *FlagRequest `json:"flag,omitempty"`
}

type FlagRequest struct {
	IsFlagged   bool   `json:"is_flagged"`
	Description string `json:"description,omitempty"`
}

type ReorderRequest struct {
	FromIndex int `json:"from_index" minimum:"0"`
	ToIndex   int `json:"to_index" minimum:"0"`
}

type CloneWeekRequest struct {
	TargetWeekID string   `json:"target_week_id"`
	ObjectiveIDs []string `json:"objective_ids,omitempty"`
}

type CreateTaskRequest struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Assignee    string `json:"assignee,omitempty"`
	Complexity  string `json:"complexity,omitempty" enum:"low,medium,high,critical"`
	Criticality string `json:"criticality,omitempty" enum:"low,medium,high,critical"`
}

type UpdateTaskRequest struct {
	Title         *string `json:"title,omitempty"`
	Assignee      *string `json:"assignee,omitempty"`
	ClearAssignee bool    `json:"clear_assignee,omitempty"`
	Complexity    *string `json:"complexity,omitempty" enum:"low,medium,high,critical"`
	Criticality   *string `json:"criticality,omitempty" enum:"low,medium,high,critical"`
	Completed     *bool   `json:"completed,omitempty"`
}

// Response payloads

type ProductResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at" format:"date-time"`
}

type MemberResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	Initials string `json:"initials,omitempty"`
}

type WeekResponse struct {
	ID            string `json:"id"`
	StartDate     string `json:"start_date" format:"date-time"`
	EndDate       string `json:"end_date" format:"date-time"`
	Label         string `json:"label"`
	Slug          string `json:"slug"`
	IsCurrentWeek bool   `json:"is_current_week"`
}

type FlagResponse struct {
	IsFlagged   bool   `json:"is_flagged"`
	Description string `json:"description,omitempty"`
}

type TaskResponse struct {
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

type ObjectiveResponse struct {
	ID          string         `json:"id"`
	ProductID   string         `json:"product_id"`
	WeekID      string         `json:"week_id"`
	Title       string         `json:"title"`
	Progress    int            `json:"progress" minimum:"0" maximum:"100"`
	Position    int            `json:"position"`
	IsUrgent    bool           `json:"is_urgent"`
	IsImportant bool           `json:"is_important"`
	Category    string         `json:"category" enum:"urgent-important,important-not-urgent,urgent-not-important,not-urgent-not-important"`
	TargetDate  *string        `json:"target_date,omitempty" format:"date-time"`
	Flag        *FlagResponse  `json:"flag,omitempty"`
	Tasks       []TaskResponse `json:"tasks"`
	CreatedAt   string         `json:"created_at" format:"date-time"`
	UpdatedAt   string         `json:"updated_at" format:"date-time"`
}

type MemberStatResponse struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

type WeekStatsResponse struct {
	TotalObjectives int                           `json:"total_objectives"`
	TotalTasks      int                           `json:"total_tasks"`
	CompletedTasks  int                           `json:"completed_tasks"`
	GlobalProgress  int                           `json:"global_progress" minimum:"0" maximum:"100"`
	MemberStats     map[string]MemberStatResponse `json:"member_stats" jsonschema:"type=object,additionalProperties=true"`
}

type PlanResponse struct {
	Product    ProductResponse     `json:"product"`
	Week       WeekResponse        `json:"week"`
	Objectives []ObjectiveResponse `json:"objectives"`
	Stats      WeekStatsResponse   `json:"stats"`
}

type ShareResponse struct {
	Token     string `json:"token"`
	Slug      string `json:"slug"`
	URL       string `json:"url"`
	ExpiresAt string `json:"expires_at" format:"date-time"`
}

type EventResponse struct {
	ID         int64          `json:"id"`
	TS         string         `json:"ts" format:"date-time"`
	Type       string         `json:"type"`
	ProductID  string         `json:"product_id,omitempty"`
	EntityKind string         `json:"entity_kind"`
	EntityID   string         `json:"entity_id,omitempty"`
	ActorID    string         `json:"actor_id,omitempty"`
	Payload    map[string]any `json:"payload"`
}

// Conversion helpers

func productResponse(p domain.Product) ProductResponse {
	return ProductResponse(p)
}

func memberResponse(m domain.Member) MemberResponse {
	return MemberResponse(m)
}

func weekResponse(w domain.WeekRange) WeekResponse {
	return WeekResponse{
		ID:            w.ID,
		StartDate:     w.StartDate.Format(time.RFC3339),
		EndDate:       w.EndDate.Format(time.RFC3339),
		Label:         w.Label,
		Slug:          week.FormatSlug(w),
		IsCurrentWeek: w.IsCurrentWeek,
	}
}

func taskResponse(t domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		ObjectiveID: t.ObjectiveID,
		Title:       t.Title,
		Assignee:    t.Assignee,
		Complexity:  t.Complexity,
		Criticality: t.Criticality,
		Completed:   t.Completed,
		Position:    t.Position,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func objectiveResponse(o domain.Objective) ObjectiveResponse {
	res := ObjectiveResponse{
		ID:          o.ID,
		ProductID:   o.ProductID,
		WeekID:      o.WeekID,
		Title:       o.Title,
		Progress:    o.Progress,
		Position:    o.Position,
		IsUrgent:    o.IsUrgent,
		IsImportant: o.IsImportant,
		Category:    string(o.Category),
		Tasks:       []TaskResponse{},
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
	if o.TargetDate != nil {
		s := o.TargetDate.Format(time.RFC3339)
		res.TargetDate = &s
	}
	if o.Flag != nil {
		res.Flag = &FlagResponse{IsFlagged: o.Flag.IsFlagged, Description: o.Flag.Description}
	}
	for _, t := range o.Tasks {
		res.Tasks = append(res.Tasks, taskResponse(t))
	}
	return res
}

func statsResponse(s stats.WeekStats) WeekStatsResponse {
	res := WeekStatsResponse{
		TotalObjectives: s.TotalObjectives,
		TotalTasks:      s.TotalTasks,
		CompletedTasks:  s.CompletedTasks,
		GlobalProgress:  s.GlobalProgress,
		MemberStats:     map[string]MemberStatResponse{},
	}
	for id, m := range s.MemberStats {
		res.MemberStats[id] = MemberStatResponse{Total: m.Total, Completed: m.Completed}
	}
	return res
}

func planResponse(v engine.WeekView) PlanResponse {
	res := PlanResponse{
		Product:    productResponse(v.Product),
		Week:       weekResponse(v.Week),
		Objectives: []ObjectiveResponse{},
		Stats:      statsResponse(v.Stats),
	}
	for _, o := range v.Objectives {
		res.Objectives = append(res.Objectives, objectiveResponse(o))
	}
	return res
}

func eventResponse(e domain.Event) EventResponse {
	return EventResponse{
		ID:         e.ID,
		TS:         e.TS,
		Type:       e.Type,
		ProductID:  e.ProductID,
		EntityKind: e.EntityKind,
		EntityID:   e.EntityID,
		ActorID:    e.ActorID,
		Payload:    decodeJSONMap(e.Payload),
	}
}

func mapWeeks(items []domain.WeekRange) []WeekResponse {
	out := make([]WeekResponse, 0, len(items))
	for _, w := range items {
		out = append(out, weekResponse(w))
	}
	return out
}

func mapObjectives(items []domain.Objective) []ObjectiveResponse {
	out := make([]ObjectiveResponse, 0, len(items))
	for _, o := range items {
		out = append(out, objectiveResponse(o))
	}
	return out
}

// JSON helpers

func decodeJSONMap(raw string) map[string]any {
	if raw == "" {
		return nil
	}
	var tmp any
	if err := json.Unmarshal([]byte(raw), &tmp); err != nil {
		return nil
	}
	if obj, ok := tmp.(map[string]any); ok {
		return obj
	}
	return nil
}

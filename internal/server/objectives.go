package server

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"weekplan/internal/domain"
	"weekplan/internal/engine"
)

func parseTargetDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := parseDateParam(*raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func registerObjectives(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-objective",
		Method:        http.MethodPost,
		Path:          "/products/{product_id}/weeks/{week_id}/objectives",
		Summary:       "Create objective",
		DefaultStatus: http.StatusCreated,
		Errors: []int{
			http.StatusBadRequest,
			http.StatusNotFound,
			http.StatusConflict,
		},
	}, func(ctx context.Context, input *struct {
		ProductID string                 `path:"product_id"`
		WeekID    string                 `path:"week_id"`
		Body      CreateObjectiveRequest `json:"body"`
	}) (*struct {
		Body ObjectiveResponse `json:"body"`
	}, error) {
		if len(bodyBytes(ctx)) == 0 {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "body required", nil)
		}
		target, err := parseTargetDate(input.Body.TargetDate)
		if err != nil {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", err.Error(), nil)
		}
		o, err := e.CreateObjective(ctx, engine.ObjectiveCreateOptions{
			ID:          input.Body.ID,
			ProductID:   input.ProductID,
			WeekID:      input.WeekID,
			Title:       input.Body.Title,
			IsUrgent:    input.Body.IsUrgent,
			IsImportant: input.Body.IsImportant,
			TargetDate:  target,
			ActorID:     actorID(ctx),
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body ObjectiveResponse `json:"body"`
		}{Body: objectiveResponse(o)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-objectives",
		Method:      http.MethodGet,
		Path:        "/products/{product_id}/weeks/{week_id}/objectives",
		Summary:     "List objectives of a week",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ProductID string `path:"product_id"`
		WeekID    string `path:"week_id"`
	}) (*struct {
		Body []ObjectiveResponse `json:"body"`
	}, error) {
		if _, err := e.Store.GetProduct(ctx, input.ProductID); err != nil {
			return nil, handleError(err)
		}
		items, err := e.Store.ListObjectives(ctx, input.ProductID, input.WeekID)
		if err != nil {
			return nil, handleError(err)
		}
		for i := range items {
			tasks, err := e.Store.ListTasks(ctx, items[i].ID)
			if err != nil {
				return nil, handleError(err)
			}
			items[i].Tasks = tasks
		}
		return &struct {
			Body []ObjectiveResponse `json:"body"`
		}{Body: mapObjectives(items)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-objective",
		Method:      http.MethodGet,
		Path:        "/objectives/{objective_id}",
		Summary:     "Get objective",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ObjectiveID string `path:"objective_id"`
	}) (*struct {
		Body ObjectiveResponse `json:"body"`
	}, error) {
		o, err := e.Store.GetObjective(ctx, input.ObjectiveID)
		if err != nil {
			return nil, handleError(err)
		}
		o.Tasks, err = e.Store.ListTasks(ctx, o.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body ObjectiveResponse `json:"body"`
		}{Body: objectiveResponse(o)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-objective",
		Method:      http.MethodPatch,
		Path:        "/objectives/{objective_id}",
		Summary:     "Update objective",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusNotFound,
		},
	}, func(ctx context.Context, input *struct {
		ObjectiveID string                 `path:"objective_id"`
		Body        UpdateObjectiveRequest `json:"body"`
	}) (*struct {
		Body ObjectiveResponse `json:"body"`
	}, error) {
		if len(bodyBytes(ctx)) == 0 {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "body required", nil)
		}
		opts := engine.ObjectiveUpdateOptions{
			ID:          input.ObjectiveID,
			ActorID:     actorID(ctx),
			Title:       input.Body.Title,
			IsUrgent:    input.Body.IsUrgent,
			IsImportant: input.Body.IsImportant,
		}
		if input.Body.ClearTarget {
			opts.TargetDateProvided = true
		} else if input.Body.TargetDate != nil {
			target, err := parseTargetDate(input.Body.TargetDate)
			if err != nil {
				return nil, newAPIError(http.StatusBadRequest, "bad_request", err.Error(), nil)
			}
			opts.TargetDateProvided = true
			opts.TargetDate = target
		}
		if input.Body.Flag != nil {
			opts.FlagProvided = true
			if input.Body.Flag.IsFlagged || input.Body.Flag.Description != "" {
				opts.Flag = &domain.Flag{
					IsFlagged:   input.Body.Flag.IsFlagged,
					Description: input.Body.Flag.Description,
				}
			}
		}
		o, err := e.UpdateObjective(ctx, opts)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body ObjectiveResponse `json:"body"`
		}{Body: objectiveResponse(o)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "flag-objective",
		Method:      http.MethodPost,
		Path:        "/objectives/{objective_id}/flag",
		Summary:     "Set or clear the attention flag",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusNotFound,
		},
	}, func(ctx context.Context, input *struct {
		ObjectiveID string      `path:"objective_id"`
		Body        FlagRequest `json:"body"`
	}) (*struct {
		Body ObjectiveResponse `json:"body"`
	}, error) {
		o, err := e.FlagObjective(ctx, input.ObjectiveID, input.Body.IsFlagged, input.Body.Description, actorID(ctx))
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body ObjectiveResponse `json:"body"`
		}{Body: objectiveResponse(o)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-objective",
		Method:      http.MethodDelete,
		Path:        "/objectives/{objective_id}",
		Summary:     "Delete objective",
		Description: "Sibling positions are not renumbered; use the compact operation to restore density.",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ObjectiveID string `path:"objective_id"`
	}) (*struct{}, error) {
		if err := e.DeleteObjective(ctx, input.ObjectiveID, actorID(ctx)); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "reorder-objectives",
		Method:      http.MethodPost,
		Path:        "/products/{product_id}/weeks/{week_id}/objectives/reorder",
		Summary:     "Reorder objectives within a week",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusNotFound,
			http.StatusUnprocessableEntity,
		},
	}, func(ctx context.Context, input *struct {
		ProductID string         `path:"product_id"`
		WeekID    string         `path:"week_id"`
		Body      ReorderRequest `json:"body"`
	}) (*struct {
		Body []ObjectiveResponse `json:"body"`
	}, error) {
		if len(bodyBytes(ctx)) == 0 {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "body required", nil)
		}
		if _, err := e.Store.GetProduct(ctx, input.ProductID); err != nil {
			return nil, handleError(err)
		}
		items, err := e.ReorderObjectives(ctx, input.ProductID, input.WeekID, input.Body.FromIndex, input.Body.ToIndex, actorID(ctx))
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []ObjectiveResponse `json:"body"`
		}{Body: mapObjectives(items)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "compact-objectives",
		Method:      http.MethodPost,
		Path:        "/products/{product_id}/weeks/{week_id}/objectives/compact",
		Summary:     "Renumber objective positions to 0..N-1",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ProductID string `path:"product_id"`
		WeekID    string `path:"week_id"`
	}) (*struct {
		Body []ObjectiveResponse `json:"body"`
	}, error) {
		if _, err := e.Store.GetProduct(ctx, input.ProductID); err != nil {
			return nil, handleError(err)
		}
		items, err := e.CompactObjectives(ctx, input.ProductID, input.WeekID, actorID(ctx))
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []ObjectiveResponse `json:"body"`
		}{Body: mapObjectives(items)}, nil
	})
}

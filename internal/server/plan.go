package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"weekplan/internal/engine"
	"weekplan/internal/stats"
	"weekplan/internal/week"
)

func registerPlan(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "get-week-plan",
		Method:      http.MethodGet,
		Path:        "/products/{product_id}/weeks/{week_id}/plan",
		Summary:     "Get the assembled plan for a week",
		Description: "Objectives with tasks plus the weekly rollup. An unknown week id yields a synthetic empty week, not an error.",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusNotFound,
		},
	}, func(ctx context.Context, input *struct {
		ProductID string `path:"product_id"`
		WeekID    string `path:"week_id"`
		Members   string `query:"members" doc:"Comma-separated member ids to filter tasks by assignee"`
	}) (*struct {
		Body PlanResponse `json:"body"`
	}, error) {
		members := stats.ParseMemberFilter(input.Members)
		view, err := e.WeekView(ctx, input.ProductID, week.Target{ID: input.WeekID}, members)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body PlanResponse `json:"body"`
		}{Body: planResponse(view)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-week-stats",
		Method:      http.MethodGet,
		Path:        "/products/{product_id}/weeks/{week_id}/stats",
		Summary:     "Get the weekly rollup",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ProductID string `path:"product_id"`
		WeekID    string `path:"week_id"`
		Members   string `query:"members"`
	}) (*struct {
		Body WeekStatsResponse `json:"body"`
	}, error) {
		if _, err := e.Store.GetProduct(ctx, input.ProductID); err != nil {
			return nil, handleError(err)
		}
		s, err := e.Statistics(ctx, input.ProductID, input.WeekID, stats.ParseMemberFilter(input.Members))
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body WeekStatsResponse `json:"body"`
		}{Body: statsResponse(s)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "clone-week",
		Method:        http.MethodPost,
		Path:          "/products/{product_id}/weeks/{week_id}/clone",
		Summary:       "Clone objectives into another week",
		Description:   "Copies the named objectives (or the whole week) and their tasks into the target week under fresh ids. Completion resets.",
		DefaultStatus: http.StatusCreated,
		Errors: []int{
			http.StatusBadRequest,
			http.StatusNotFound,
			http.StatusUnprocessableEntity,
		},
	}, func(ctx context.Context, input *struct {
		ProductID string           `path:"product_id"`
		WeekID    string           `path:"week_id"`
		Body      CloneWeekRequest `json:"body"`
	}) (*struct {
		Body []ObjectiveResponse `json:"body"`
	}, error) {
		if len(bodyBytes(ctx)) == 0 {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "body required", nil)
		}
		if input.Body.TargetWeekID == "" {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "target_week_id is required", nil)
		}
		if _, err := e.Store.GetProduct(ctx, input.ProductID); err != nil {
			return nil, handleError(err)
		}
		cloned, err := e.CloneObjectives(ctx, input.ProductID, input.WeekID, input.Body.TargetWeekID, input.Body.ObjectiveIDs, actorID(ctx))
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []ObjectiveResponse `json:"body"`
		}{Body: mapObjectives(cloned)}, nil
	})
}

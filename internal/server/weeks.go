package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"weekplan/internal/engine"
	"weekplan/internal/week"
)

// parseDateParam accepts the two date shapes the UI sends: a bare calendar
// day or a full RFC 3339 timestamp.
func parseDateParam(raw string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", raw, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}

func registerWeeks(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "generate-weeks",
		Method:        http.MethodPost,
		Path:          "/weeks/generate",
		Summary:       "Generate week catalog for a year",
		DefaultStatus: http.StatusCreated,
		Errors: []int{
			http.StatusBadRequest,
			http.StatusInternalServerError,
		},
	}, func(ctx context.Context, input *struct {
		Body GenerateWeeksRequest `json:"body"`
	}) (*struct {
		Body struct {
			Weeks    []WeekResponse `json:"weeks"`
			Inserted int            `json:"inserted"`
		} `json:"body"`
	}, error) {
		if len(bodyBytes(ctx)) == 0 {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "body required", nil)
		}
		ranges, inserted, err := e.GenerateYear(ctx, input.Body.Year, actorID(ctx))
		if err != nil {
			return nil, handleError(err)
		}
		out := &struct {
			Body struct {
				Weeks    []WeekResponse `json:"weeks"`
				Inserted int            `json:"inserted"`
			} `json:"body"`
		}{}
		out.Body.Weeks = mapWeeks(ranges)
		out.Body.Inserted = inserted
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-weeks",
		Method:      http.MethodGet,
		Path:        "/weeks",
		Summary:     "List week catalog",
	}, func(ctx context.Context, input *struct {
		Year int `query:"year" minimum:"0"`
	}) (*struct {
		Body []WeekResponse `json:"body"`
	}, error) {
		items, err := e.ListWeeks(ctx, input.Year)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []WeekResponse `json:"body"`
		}{Body: mapWeeks(items)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "resolve-week",
		Method:      http.MethodGet,
		Path:        "/weeks/resolve",
		Summary:     "Resolve a week by id, date or slug",
		Description: "Exact id match wins, then date containment, then nearest start date. A miss is a 404, not an error.",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusNotFound,
		},
	}, func(ctx context.Context, input *struct {
		ID   string `query:"id"`
		Date string `query:"date"`
		Slug string `query:"slug"`
	}) (*struct {
		Body WeekResponse `json:"body"`
	}, error) {
		var target week.Target
		switch {
		case input.Slug != "":
			w, err := e.ResolveWeekSlug(ctx, input.Slug)
			if err != nil {
				return nil, handleError(err)
			}
			if w == nil {
				return nil, newAPIError(http.StatusNotFound, "resolution_miss", "no week matches slug", nil)
			}
			return &struct {
				Body WeekResponse `json:"body"`
			}{Body: weekResponse(*w)}, nil
		case input.ID != "":
			target.ID = input.ID
		case input.Date != "":
			d, err := parseDateParam(input.Date)
			if err != nil {
				return nil, newAPIError(http.StatusBadRequest, "bad_request", err.Error(), nil)
			}
			target.Date = d
		default:
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "one of id, date or slug is required", nil)
		}
		w, err := e.ResolveWeek(ctx, target)
		if err != nil {
			return nil, handleError(err)
		}
		if w == nil {
			return nil, newAPIError(http.StatusNotFound, "resolution_miss", "no week matches target", nil)
		}
		return &struct {
			Body WeekResponse `json:"body"`
		}{Body: weekResponse(*w)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-week-label",
		Method:      http.MethodPatch,
		Path:        "/weeks/{week_id}",
		Summary:     "Update a week label",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusNotFound,
		},
	}, func(ctx context.Context, input *struct {
		WeekID string                 `path:"week_id"`
		Body   UpdateWeekLabelRequest `json:"body"`
	}) (*struct {
		Body WeekResponse `json:"body"`
	}, error) {
		if input.Body.Label == "" {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "label is required", nil)
		}
		if err := e.Store.UpdateWeekLabel(ctx, input.WeekID, input.Body.Label); err != nil {
			return nil, handleError(err)
		}
		w, err := e.Store.GetWeekRange(ctx, input.WeekID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body WeekResponse `json:"body"`
		}{Body: weekResponse(w)}, nil
	})
}

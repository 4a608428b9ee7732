package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"weekplan/internal/engine"
	"weekplan/internal/store"
)

func registerEvents(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "list-events",
		Method:      http.MethodGet,
		Path:        "/events",
		Summary:     "List audit log events",
		Description: "Newest first. Cursor pages backwards by event id.",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		ProductID string `query:"product_id"`
		Type      string `query:"type"`
		Limit     int    `query:"limit" minimum:"0" maximum:"1000"`
		Cursor    int64  `query:"cursor" minimum:"0"`
	}) (*struct {
		Body []EventResponse `json:"body"`
	}, error) {
		items, err := e.Store.ListEvents(ctx, store.EventFilters{
			ProductID: input.ProductID,
			Type:      input.Type,
			Limit:     input.Limit,
			Cursor:    input.Cursor,
		})
		if err != nil {
			return nil, handleError(err)
		}
		out := make([]EventResponse, 0, len(items))
		for _, ev := range items {
			out = append(out, eventResponse(ev))
		}
		return &struct {
			Body []EventResponse `json:"body"`
		}{Body: out}, nil
	})
}

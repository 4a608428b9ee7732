package server

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"weekplan/internal/engine"
	"weekplan/internal/share"
	"weekplan/internal/stats"
	"weekplan/internal/week"
)

// Share links give read-only access to one (product, week) plan without any
// account. The token is self-contained; revocation is expiry only.
func registerShare(api huma.API, e engine.Engine, signer share.Signer) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-share-link",
		Method:        http.MethodPost,
		Path:          "/products/{product_id}/weeks/{week_id}/share",
		Summary:       "Issue a share link for a week plan",
		DefaultStatus: http.StatusCreated,
		Errors: []int{
			http.StatusBadRequest,
			http.StatusNotFound,
			http.StatusInternalServerError,
		},
	}, func(ctx context.Context, input *struct {
		ProductID string `path:"product_id"`
		WeekID    string `path:"week_id"`
	}) (*struct {
		Body ShareResponse `json:"body"`
	}, error) {
		if _, err := e.Store.GetProduct(ctx, input.ProductID); err != nil {
			return nil, handleError(err)
		}
		slug := ""
		if w, err := e.ResolveWeek(ctx, week.Target{ID: input.WeekID}); err == nil && w != nil {
			slug = week.FormatSlug(*w)
		}
		token, err := signer.Issue(input.ProductID, input.WeekID, slug)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body ShareResponse `json:"body"`
		}{Body: ShareResponse{
			Token:     token,
			Slug:      slug,
			URL:       "/share/" + token,
			ExpiresAt: signer.Expiry().UTC().Format(time.RFC3339),
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-shared-plan",
		Method:      http.MethodGet,
		Path:        "/share/{token}",
		Summary:     "Read a shared week plan",
		Errors: []int{
			http.StatusUnauthorized,
			http.StatusNotFound,
		},
	}, func(ctx context.Context, input *struct {
		Token   string `path:"token"`
		Members string `query:"members"`
	}) (*struct {
		Body PlanResponse `json:"body"`
	}, error) {
		claims, err := signer.Verify(input.Token)
		if err != nil {
			return nil, handleError(err)
		}
		view, err := e.WeekView(ctx, claims.ProductID, week.Target{ID: claims.WeekID}, stats.ParseMemberFilter(input.Members))
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body PlanResponse `json:"body"`
		}{Body: planResponse(view)}, nil
	})
}

package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/nerdberries/market/internal/core"
	"github.com/nerdberries/market/internal/pagination"
	"github.com/nerdberries/market/internal/utils/collectionutils"
	"github.com/nerdberries/market/internal/utils/functional"
	"github.com/nerdberries/market/models"
)

func (app *application) purchasePost(w http.ResponseWriter, r *http.Request) {
	post, ok := app.purchasablePost(w, r)
	if !ok {
		return
	}

	user, _ := app.auth.GetAuthenticatedUser(r)
	if err := app.core.Purchase(r.Context(), user.ID, post.ID); err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	app.statusRedirect(w, r, "/purchases/", "purchased")
}

func (app *application) returnPost(w http.ResponseWriter, r *http.Request) {
	post, ok := app.purchasablePost(w, r)
	if !ok {
		return
	}

	user, _ := app.auth.GetAuthenticatedUser(r)
	if err := app.core.Refund(r.Context(), user.ID, post.ID); err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	app.statusRedirect(w, r, "/purchases/", "returned")
}

func (app *application) listPurchases(w http.ResponseWriter, r *http.Request) {
	user, _ := app.auth.GetAuthenticatedUser(r)

	purchases, err := app.core.GetPurchasesByUser(r.Context(), user.ID)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	query := r.URL.Query()
	number := pagination.ParsePage(app.readString(query, "page", ""))
	page := pagination.Paginate(purchases, number, app.config.postsPerPage)

	response, err := app.purchasesResponse(r, page)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	// The status parameter is a display hint from the toggle redirects, it
	// is echoed back untouched.
	response["status"] = app.readString(query, "status", "")

	if err := app.writeJSON(w, http.StatusOK, response, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) purchasablePost(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
	postID, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return nil, false
	}

	post, err := app.core.GetPostByID(r.Context(), postID)
	if err != nil {
		if errors.Is(err, core.NoRecordFound) {
			app.notFoundResponse(w, r)
			return nil, false
		}
		app.internalErrorResponse(w, r, err)
		return nil, false
	}

	return post, true
}

func (app *application) purchasesResponse(r *http.Request, page pagination.Page[*models.Purchase]) (envelope, error) {
	type purchaseEnvelope struct {
		PostID     int64     `json:"postId"`
		Title      string    `json:"title"`
		PriceCents int64     `json:"priceCents"`
		CreatedAt  time.Time `json:"createdAt"`
	}

	postIDList := functional.Map(page.Items, func(purchase *models.Purchase) int64 {
		return purchase.PostID
	})
	posts, err := app.core.GetPostsByIDList(r.Context(), postIDList)
	if err != nil {
		return nil, err
	}

	postByID := collectionutils.Associate(posts, func(post *models.Post) (int64, *models.Post) {
		return post.ID, post
	})

	items := make([]purchaseEnvelope, 0, len(page.Items))
	for _, purchase := range page.Items {
		item := purchaseEnvelope{
			PostID:     purchase.PostID,
			PriceCents: purchase.PriceCents,
			CreatedAt:  purchase.CreatedAt,
		}
		if post, ok := postByID[purchase.PostID]; ok {
			item.Title = post.Title
		}
		items = append(items, item)
	}

	return envelope{
		"purchases": items,
		"page": envelope{
			"number":      page.Number,
			"totalPages":  page.TotalPages,
			"totalItems":  page.TotalItems,
			"hasPrevious": page.HasPrevious,
			"hasNext":     page.HasNext,
		},
	}, nil
}

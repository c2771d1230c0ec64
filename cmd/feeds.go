package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/mdobak/go-xerrors"
	"github.com/nerdberries/market/internal/auth"
	"github.com/nerdberries/market/internal/core"
	"github.com/nerdberries/market/internal/pagination"
	"github.com/nerdberries/market/internal/utils/collectionutils"
	"github.com/nerdberries/market/internal/utils/functional"
	"github.com/nerdberries/market/models"
)

type feedAuthor struct {
	Username string  `json:"username"`
	Bio      *string `json:"bio"`
	Image    *string `json:"image"`
}

type feedItem struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Body       string     `json:"body"`
	PriceCents int64      `json:"priceCents"`
	ImageURL   *string    `json:"imageUrl"`
	CreatedAt  time.Time  `json:"createdAt"`
	Author     feedAuthor `json:"author"`
}

type feedPage struct {
	Items       []feedItem `json:"items"`
	Number      int        `json:"number"`
	TotalPages  int        `json:"totalPages"`
	TotalItems  int        `json:"totalItems"`
	HasPrevious bool       `json:"hasPrevious"`
	HasNext     bool       `json:"hasNext"`
}

// indexFeed is the global feed: every post, newest first. The response is
// wrapped by the page cache, so within the TTL repeated requests are served
// verbatim regardless of writes in between.
func (app *application) indexFeed(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	search := app.readString(query, "query", "")

	posts, err := app.core.GetPosts(r.Context(), search)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	page, err := app.paginateFeed(r, posts)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	response := envelope{
		"page":  page,
		"query": search,
	}
	if err := app.writeJSON(w, http.StatusOK, response, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) categoryFeed(w http.ResponseWriter, r *http.Request) {
	slug := app.readNameParam(r, "slug")

	category, err := app.core.GetCategoryBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, core.NoRecordFound) {
			app.notFoundResponse(w, r)
			return
		}
		app.internalErrorResponse(w, r, err)
		return
	}

	posts, err := app.core.GetPostsByCategoryID(r.Context(), category.ID)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	page, err := app.paginateFeed(r, posts)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	response := envelope{
		"category": category,
		"page":     page,
	}
	if err := app.writeJSON(w, http.StatusOK, response, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) profileFeed(w http.ResponseWriter, r *http.Request) {
	username := app.readNameParam(r, "username")

	author, err := app.core.GetProfile(r.Context(), username)
	if err != nil {
		if errors.Is(err, core.NoRecordFound) {
			app.notFoundResponse(w, r)
			return
		}
		app.internalErrorResponse(w, r, err)
		return
	}

	posts, err := app.core.GetPostsByAuthorID(r.Context(), author.ID)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	// Anonymous viewers and the author's own page always read as not
	// following.
	following := false
	if viewer, err := app.auth.GetAuthenticatedUser(r); err == nil && viewer.ID != author.ID {
		following, err = app.core.IsFollowing(r.Context(), viewer.ID, author.ID)
		if err != nil {
			app.internalErrorResponse(w, r, err)
			return
		}
	}

	page, err := app.paginateFeed(r, posts)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	response := envelope{
		"author":    author,
		"following": following,
		"page":      page,
	}
	if err := app.writeJSON(w, http.StatusOK, response, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

// followedFeed lists posts from authors the requesting user follows. An
// empty follow set is an empty page, not an error.
func (app *application) followedFeed(w http.ResponseWriter, r *http.Request) {
	user, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.internalErrorResponse(w, r, xerrors.New(err))
		return
	}

	posts, err := app.core.GetFollowedPosts(r.Context(), user.ID)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	page, err := app.paginateFeed(r, posts)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	response := envelope{
		"page": page,
	}
	if err := app.writeJSON(w, http.StatusOK, response, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

// paginateFeed slices posts into the requested page and joins in the author
// profiles for everything on it.
func (app *application) paginateFeed(r *http.Request, posts []*models.Post) (feedPage, error) {
	number := pagination.ParsePage(app.readString(r.URL.Query(), "page", ""))
	page := pagination.Paginate(posts, number, app.config.postsPerPage)

	authorIDList := functional.Map(page.Items, func(post *models.Post) int64 {
		return post.AuthorID
	})
	authors, err := app.core.GetUsersByIDList(r.Context(), authorIDList)
	if err != nil {
		return feedPage{}, err
	}

	authorByID := collectionutils.Associate(authors, func(user *auth.User) (int64, *auth.User) {
		return user.ID, user
	})

	items := make([]feedItem, 0, len(page.Items))
	for _, post := range page.Items {
		item := feedItem{
			ID:         post.ID,
			Title:      post.Title,
			Body:       post.Body,
			PriceCents: post.PriceCents,
			ImageURL:   post.ImageURL,
			CreatedAt:  post.CreatedAt,
		}
		if author, ok := authorByID[post.AuthorID]; ok {
			item.Author = feedAuthor{
				Username: author.Username,
				Bio:      author.Bio,
				Image:    author.Image,
			}
		}
		items = append(items, item)
	}

	return feedPage{
		Items:       items,
		Number:      page.Number,
		TotalPages:  page.TotalPages,
		TotalItems:  page.TotalItems,
		HasPrevious: page.HasPrevious,
		HasNext:     page.HasNext,
	}, nil
}

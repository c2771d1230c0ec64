package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nerdberries/market/internal/auth"
	"github.com/nerdberries/market/internal/core"
	"github.com/nerdberries/market/internal/utils/collectionutils"
	"github.com/nerdberries/market/internal/utils/databaseutils"
	"github.com/nerdberries/market/internal/utils/functional"
	"github.com/nerdberries/market/internal/validator"
	"github.com/nerdberries/market/models"
)

type postPayload struct {
	Title        string  `json:"title"`
	Body         string  `json:"body"`
	PriceCents   int64   `json:"priceCents"`
	CategorySlug string  `json:"categorySlug"`
	ImageURL     *string `json:"imageUrl"`
}

type PostRequest struct {
	postPayload `json:"post"`
}

func (app *application) validatePostPayload(v *validator.Validator, payload postPayload) {
	v.CheckNotBlank(payload.Title, "title", "must be provided")
	v.CheckNotBlank(payload.Body, "body", "must be provided")
	v.Check(payload.PriceCents >= 0, "priceCents", "must not be negative")
}

func (app *application) postDetail(w http.ResponseWriter, r *http.Request) {
	postID, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	post, err := app.core.GetPostByID(r.Context(), postID)
	if err != nil {
		if errors.Is(err, core.NoRecordFound) {
			app.notFoundResponse(w, r)
			return
		}
		app.internalErrorResponse(w, r, err)
		return
	}

	comments, err := app.core.GetCommentsByPostID(r.Context(), post.ID)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	postsCount, err := app.core.CountPostsByAuthor(r.Context(), post.AuthorID)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	// The purchase flag is advisory, it never blocks the page.
	purchased := false
	if viewer, err := app.auth.GetAuthenticatedUser(r); err == nil {
		purchased, err = app.core.HasPurchased(r.Context(), viewer.ID, post.ID)
		if err != nil {
			app.internalErrorResponse(w, r, err)
			return
		}
	}

	response, err := app.postDetailResponse(r.Context(), post, comments, postsCount, purchased)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, response, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) createPostForm(w http.ResponseWriter, r *http.Request) {
	response := envelope{
		"post":   postPayload{},
		"isEdit": false,
	}
	if err := app.writeJSON(w, http.StatusOK, response, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) createPost(w http.ResponseWriter, r *http.Request) {
	var request PostRequest

	if err := app.readJSON(w, r, &request); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	v := validator.New()
	app.validatePostPayload(v, request.postPayload)
	if !v.IsValid() {
		app.badRequestResponse(w, r, &AppError{ErrorDetails: v.Errors})
		return
	}

	user, _ := app.auth.GetAuthenticatedUser(r)

	_, err := databaseutils.DoTransactionally(r.Context(), app.session, func(txCtx context.Context) (*models.Post, error) {
		post := &models.Post{
			Title:      request.Title,
			Body:       request.Body,
			PriceCents: request.PriceCents,
			ImageURL:   request.ImageURL,
			AuthorID:   user.ID,
		}

		if request.CategorySlug != "" {
			category, err := app.core.GetCategoryBySlug(txCtx, request.CategorySlug)
			if err != nil {
				return nil, err
			}
			post.CategoryID = &category.ID
		}

		return app.core.CreatePost(txCtx, post)
	})

	if err != nil {
		switch {
		case errors.Is(err, core.NoRecordFound):
			v.AddError("categorySlug", "Unknown category")
			app.badRequestResponse(w, r, &AppError{ErrorDetails: v.Errors, ErrorStack: err})
			return
		case errors.Is(err, core.ErrDuplicateTitle):
			v.AddError("title", "Title already exists")
			app.badRequestResponse(w, r, &AppError{ErrorDetails: v.Errors, ErrorStack: err})
			return
		default:
			app.internalErrorResponse(w, r, err)
			return
		}
	}

	app.redirect(w, r, "/profile/"+user.Username+"/")
}

func (app *application) editPostForm(w http.ResponseWriter, r *http.Request) {
	post, ok := app.postForAuthor(w, r)
	if !ok {
		return
	}

	response := envelope{
		"post":   post,
		"isEdit": true,
	}
	if err := app.writeJSON(w, http.StatusOK, response, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) editPost(w http.ResponseWriter, r *http.Request) {
	post, ok := app.postForAuthor(w, r)
	if !ok {
		return
	}

	var request PostRequest
	if err := app.readJSON(w, r, &request); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	v := validator.New()
	app.validatePostPayload(v, request.postPayload)
	if !v.IsValid() {
		app.badRequestResponse(w, r, &AppError{ErrorDetails: v.Errors})
		return
	}

	_, err := databaseutils.DoTransactionally(r.Context(), app.session, func(txCtx context.Context) (*models.Post, error) {
		post.Title = request.Title
		post.Body = request.Body
		post.PriceCents = request.PriceCents
		post.ImageURL = request.ImageURL

		post.CategoryID = nil
		if request.CategorySlug != "" {
			category, err := app.core.GetCategoryBySlug(txCtx, request.CategorySlug)
			if err != nil {
				return nil, err
			}
			post.CategoryID = &category.ID
		}

		return app.core.UpdatePost(txCtx, post)
	})

	if err != nil {
		switch {
		case errors.Is(err, core.NoRecordFound):
			v.AddError("categorySlug", "Unknown category")
			app.badRequestResponse(w, r, &AppError{ErrorDetails: v.Errors, ErrorStack: err})
			return
		case errors.Is(err, core.ErrDuplicateTitle):
			v.AddError("title", "Title already exists")
			app.badRequestResponse(w, r, &AppError{ErrorDetails: v.Errors, ErrorStack: err})
			return
		default:
			app.internalErrorResponse(w, r, err)
			return
		}
	}

	app.redirect(w, r, fmt.Sprintf("/posts/%d/", post.ID))
}

func (app *application) deletePost(w http.ResponseWriter, r *http.Request) {
	post, ok := app.postForAuthor(w, r)
	if !ok {
		return
	}

	if err := app.core.DeletePost(r.Context(), post.ID); err != nil {
		if errors.Is(err, core.NoRecordFound) {
			app.notFoundResponse(w, r)
			return
		}
		app.internalErrorResponse(w, r, err)
		return
	}

	user, _ := app.auth.GetAuthenticatedUser(r)
	app.redirect(w, r, "/profile/"+user.Username+"/")
}

func (app *application) addComment(w http.ResponseWriter, r *http.Request) {
	postID, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	type commentPayload struct {
		Body string `json:"body"`
	}
	type CommentRequest struct {
		commentPayload `json:"comment"`
	}

	var request CommentRequest
	if err := app.readJSON(w, r, &request); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	v := validator.New()
	v.CheckNotBlank(request.Body, "body", "must be provided")
	if !v.IsValid() {
		app.badRequestResponse(w, r, &AppError{ErrorDetails: v.Errors})
		return
	}

	user, _ := app.auth.GetAuthenticatedUser(r)

	_, err = databaseutils.DoTransactionally(r.Context(), app.session, func(txCtx context.Context) (*models.Comment, error) {
		post, err := app.core.GetPostByID(txCtx, postID)
		if err != nil {
			return nil, err
		}

		return app.core.CreateComment(txCtx, &models.Comment{
			Body:     request.Body,
			PostID:   post.ID,
			AuthorID: user.ID,
		})
	})

	if err != nil {
		if errors.Is(err, core.NoRecordFound) {
			app.notFoundResponse(w, r)
			return
		}
		app.internalErrorResponse(w, r, err)
		return
	}

	app.redirect(w, r, fmt.Sprintf("/posts/%d/", postID))
}

// postForAuthor loads the post from the :id parameter and enforces that the
// requester is its author. A non-author is softly redirected to the detail
// page rather than shown an error.
func (app *application) postForAuthor(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
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

	user, _ := app.auth.GetAuthenticatedUser(r)
	if user == nil || post.AuthorID != user.ID {
		app.redirect(w, r, fmt.Sprintf("/posts/%d/", post.ID))
		return nil, false
	}

	return post, true
}

func (app *application) postDetailResponse(ctx context.Context, post *models.Post, comments []*models.Comment, postsCount int64, purchased bool) (envelope, error) {
	type commentEnvelope struct {
		ID        int64     `json:"id"`
		Body      string    `json:"body"`
		CreatedAt time.Time `json:"createdAt"`
		Author    string    `json:"author"`
	}

	authorIDList := functional.Map(comments, func(comment *models.Comment) int64 {
		return comment.AuthorID
	})
	authorIDList = append(authorIDList, post.AuthorID)

	authors, err := app.core.GetUsersByIDList(ctx, authorIDList)
	if err != nil {
		return nil, err
	}

	usernameByID := collectionutils.Associate(authors, func(user *auth.User) (int64, string) {
		return user.ID, user.Username
	})

	commentEnvelopes := make([]commentEnvelope, 0, len(comments))
	for _, comment := range comments {
		commentEnvelopes = append(commentEnvelopes, commentEnvelope{
			ID:        comment.ID,
			Body:      comment.Body,
			CreatedAt: comment.CreatedAt,
			Author:    collectionutils.GetOrDefault(usernameByID, comment.AuthorID, ""),
		})
	}

	return envelope{
		"post":       post,
		"author":     collectionutils.GetOrDefault(usernameByID, post.AuthorID, ""),
		"comments":   commentEnvelopes,
		"postsCount": postsCount,
		"purchased":  purchased,
	}, nil
}

package main

import (
	"errors"
	"net/http"

	"github.com/nerdberries/market/internal/core"
	"github.com/nerdberries/market/internal/validator"
	"github.com/nerdberries/market/models"
)

func (app *application) aboutAuthorPage(w http.ResponseWriter, r *http.Request) {
	response := envelope{
		"page": envelope{
			"title": "About the author",
			"body":  "Hand-built marketplace for scripts and small tools.",
		},
	}
	if err := app.writeJSON(w, http.StatusOK, response, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) aboutTechPage(w http.ResponseWriter, r *http.Request) {
	response := envelope{
		"page": envelope{
			"title": "Technology",
			"body":  "Go, PostgreSQL and not much else.",
		},
	}
	if err := app.writeJSON(w, http.StatusOK, response, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) createCategory(w http.ResponseWriter, r *http.Request) {
	type categoryPayload struct {
		Title       string `json:"title"`
		Slug        string `json:"slug"`
		Description string `json:"description"`
	}
	type CategoryRequest struct {
		categoryPayload `json:"category"`
	}

	var request CategoryRequest
	if err := app.readJSON(w, r, &request); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	v := validator.New()
	v.CheckNotBlank(request.Title, "title", "must be provided")

	slug := request.Slug
	if slug == "" {
		slug = app.core.CreateSlug(request.Title)
	}
	v.CheckNotBlank(slug, "slug", "must be provided")

	if !v.IsValid() {
		app.badRequestResponse(w, r, &AppError{ErrorDetails: v.Errors})
		return
	}

	category, err := app.core.CreateCategory(r.Context(), &models.Category{
		Title:       request.Title,
		Slug:        slug,
		Description: request.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, core.ErrDuplicateSlug):
			v.AddError("slug", "Slug already exists")
			app.badRequestResponse(w, r, &AppError{ErrorDetails: v.Errors, ErrorStack: err})
			return
		default:
			app.internalErrorResponse(w, r, err)
			return
		}
	}

	if err := app.writeJSON(w, http.StatusCreated, envelope{"category": category}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

package main

import (
	"errors"
	"net/http"

	"github.com/nerdberries/market/internal/core"
)

// followAuthor toggles the follow relationship on. Following an author
// twice, or yourself, changes nothing: the service absorbs both silently.
func (app *application) followAuthor(w http.ResponseWriter, r *http.Request) {
	username := app.readNameParam(r, "username")

	author, err := app.core.GetUserByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, core.NoRecordFound) {
			app.notFoundResponse(w, r)
			return
		}
		app.internalErrorResponse(w, r, err)
		return
	}

	user, _ := app.auth.GetAuthenticatedUser(r)
	if err := app.core.Follow(r.Context(), user.ID, author.ID); err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	app.redirect(w, r, "/profile/"+author.Username+"/")
}

func (app *application) unfollowAuthor(w http.ResponseWriter, r *http.Request) {
	username := app.readNameParam(r, "username")

	author, err := app.core.GetUserByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, core.NoRecordFound) {
			app.notFoundResponse(w, r)
			return
		}
		app.internalErrorResponse(w, r, err)
		return
	}

	user, _ := app.auth.GetAuthenticatedUser(r)
	if err := app.core.Unfollow(r.Context(), user.ID, author.ID); err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	app.redirect(w, r, "/profile/"+author.Username+"/")
}

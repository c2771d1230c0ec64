package main

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/nerdberries/market/internal/auth"
	"github.com/nerdberries/market/internal/core"
	"github.com/nerdberries/market/internal/validator"
)

const tokenDuration = 24 * time.Hour

func (app *application) registerUserHandler(w http.ResponseWriter, r *http.Request) {
	type registerUserPayload struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password"`
	}

	type RegisterUserRequest struct {
		registerUserPayload `json:"user"`
	}

	var registerUserRequest RegisterUserRequest

	if err := app.readJSON(w, r, &registerUserRequest); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	user := &auth.User{
		Email:             strings.TrimSpace(registerUserRequest.Email),
		Username:          strings.TrimSpace(registerUserRequest.Username),
		PlaintextPassword: registerUserRequest.Password,
	}

	if err := user.SetPassword(registerUserRequest.Password); err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	v := validator.New()
	checkEmail(v, user.Email)

	v.CheckNotBlank(user.Username, "username", "must be provided")
	v.Check(len(user.Username) >= 5, "username", "must be at least 5 characters long")

	v.CheckNotBlank(user.PlaintextPassword, "password", "must be provided")
	v.Check(len(user.PlaintextPassword) >= 8, "password", "must be at least 8 characters long")

	if !v.IsValid() {
		app.badRequestResponse(w, r, &AppError{ErrorDetails: v.Errors})
		return
	}

	if err := app.core.CreateUser(r.Context(), user); err != nil {
		switch {
		case errors.Is(err, core.ErrDuplicateEmail):
			v.AddError("email", "Email address is already in use")
			app.badRequestResponse(w, r, &AppError{ErrorDetails: v.Errors})
			return
		case errors.Is(err, core.ErrDuplicateUsername):
			v.AddError("username", "Username is already in use")
			app.badRequestResponse(w, r, &AppError{ErrorDetails: v.Errors})
			return
		default:
			app.internalErrorResponse(w, r, err)
			return
		}
	}

	token, err := app.auth.GenerateToken(user, tokenDuration)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	app.setTokenCookie(w, token)
	if err := app.writeJSON(w, http.StatusCreated, userResponse(user, token), nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

// loginPageHandler is the landing spot for unauthenticated redirects. It
// echoes the return path so a client can come back after logging in.
func (app *application) loginPageHandler(w http.ResponseWriter, r *http.Request) {
	next := app.readString(r.URL.Query(), "next", "/")

	response := envelope{
		"message": "Authentication required. POST credentials to /auth/login/.",
		"next":    next,
	}
	if err := app.writeJSON(w, http.StatusOK, response, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) loginHandler(w http.ResponseWriter, r *http.Request) {
	type loginUserPayload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	type LoginUserRequest struct {
		loginUserPayload `json:"user"`
	}

	var loginUserRequest LoginUserRequest

	if err := app.readJSON(w, r, &loginUserRequest); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	v := validator.New()
	checkEmail(v, loginUserRequest.Email)
	v.CheckNotBlank(loginUserRequest.Password, "password", "must be provided")

	if !v.IsValid() {
		app.badRequestResponse(w, r, &AppError{ErrorDetails: v.Errors})
		return
	}

	user, err := app.core.GetUserByEmail(r.Context(), loginUserRequest.Email)
	if err != nil {
		switch {
		case errors.Is(err, core.NoRecordFound):
			app.badRequestResponse(w, r, &AppError{
				ErrorMessage: "Invalid credentials",
				ErrorStack:   err,
			})
			return
		default:
			app.internalErrorResponse(w, r, err)
			return
		}
	}

	match, err := user.IsPasswordMatch(loginUserRequest.Password)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}
	if !match {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: "Invalid credentials",
		})
		return
	}

	token, err := app.auth.GenerateToken(user, tokenDuration)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	app.auth.CacheAuthenticatedUser(user)
	app.setTokenCookie(w, token)
	if err := app.writeJSON(w, http.StatusOK, userResponse(user, token), nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

// logoutHandler drops the cached identity and expires the token cookie. A
// logged-out request is simply sent home.
func (app *application) logoutHandler(w http.ResponseWriter, r *http.Request) {
	if user, err := app.auth.GetAuthenticatedUser(r); err == nil {
		app.auth.EvictCachedUser(user.Username)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	app.redirect(w, r, "/")
}

func (app *application) setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(tokenDuration.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// userResponse leaves the passed record untouched, it may be the shared
// cached instance.
func userResponse(user *auth.User, token string) envelope {
	u := *user
	u.Token = token
	return envelope{"user": &u}
}

package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/mdobak/go-xerrors"
	"github.com/nerdberries/market/internal/auth"
	"github.com/nerdberries/market/internal/core"
)

// authenticate attaches the requesting user to the context when a valid
// token arrives, either via the Authorization header or the token cookie.
// Requests without a token pass through anonymously.
func (app *application) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Authorization")

		token := ""
		authorization := r.Header.Get("Authorization")
		if authorization != "" {
			authorizationParts := strings.Split(authorization, " ")
			if len(authorizationParts) != 2 || authorizationParts[0] != "Token" {
				app.invalidAuthenticationTokenResponse(w, r, xerrors.New("Authentication header must be in the format 'Token <token>'"))
				return
			}
			token = authorizationParts[1]
		} else if cookie, err := r.Cookie(auth.TokenCookieName); err == nil {
			token = cookie.Value
		}

		if token != "" {
			claim, err := app.auth.Authenticate(token)
			if err != nil {
				app.invalidAuthenticationTokenResponse(w, r, err)
				return
			}

			user, ok := app.auth.GetCachedUser(claim.Username)
			if !ok {
				user, err = app.core.GetUserByEmail(r.Context(), claim.Email)
				if err != nil {
					if errors.Is(err, core.NoRecordFound) {
						app.notFoundResponse(w, r)
						return
					}
					app.internalErrorResponse(w, r, err)
					return
				}
				app.auth.CacheAuthenticatedUser(user)
			}

			// The cached record is shared across requests, the token belongs
			// to this request only. Attach it to a copy.
			requestUser := *user
			requestUser.Token = token
			r = app.auth.SetAuthenticatedUser(r, &requestUser)
		}

		next.ServeHTTP(w, r)
	})
}

// requireAuthenticatedUser sends anonymous requests to the login page,
// preserving the original path in the next parameter.
func (app *application) requireAuthenticatedUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !app.auth.IsUserAuthenticated(r) {
			app.redirect(w, r, "/auth/login/?next="+url.QueryEscape(r.URL.RequestURI()))
			return
		}
		next(w, r)
	}
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				app.internalErrorResponse(w, r, fmt.Errorf("%s", err))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type cachedPage struct {
	status int
	header http.Header
	body   []byte
}

// pageRecorder duplicates the response while it is written out, so a
// successful page can be stored for later replay.
type pageRecorder struct {
	http.ResponseWriter
	status int
	body   []byte
}

func (rec *pageRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func (rec *pageRecorder) Write(b []byte) (int, error) {
	rec.body = append(rec.body, b...)
	return rec.ResponseWriter.Write(b)
}

// cachePage caches whole GET responses keyed by path and query for the
// configured TTL. Mutations elsewhere do not invalidate entries: a stale
// page may be served until expiry or an explicit cache clear.
func (app *application) cachePage(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			next(w, r)
			return
		}

		key := r.URL.RequestURI()
		if page, ok := app.pageCache.Get(key); ok {
			for name, values := range page.header {
				w.Header()[name] = values
			}
			w.WriteHeader(page.status)
			if _, err := w.Write(page.body); err != nil {
				app.logger.Error(err.Error())
			}
			return
		}

		rec := &pageRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)

		if rec.status == http.StatusOK {
			app.pageCache.Set(key, cachedPage{
				status: rec.status,
				header: w.Header().Clone(),
				body:   rec.body,
			})
		}
	}
}

package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundResponse)

	// Public routes.
	router.HandlerFunc(http.MethodGet, "/", app.cachePage(app.indexFeed))
	router.HandlerFunc(http.MethodGet, "/category/:slug/", app.categoryFeed)
	router.HandlerFunc(http.MethodGet, "/profile/:username/", app.profileFeed)
	router.HandlerFunc(http.MethodGet, "/posts/:id/", app.postDetail)

	router.HandlerFunc(http.MethodPost, "/auth/signup/", app.registerUserHandler)
	router.HandlerFunc(http.MethodGet, "/auth/login/", app.loginPageHandler)
	router.HandlerFunc(http.MethodPost, "/auth/login/", app.loginHandler)
	router.HandlerFunc(http.MethodPost, "/auth/logout/", app.logoutHandler)

	router.HandlerFunc(http.MethodGet, "/about/author/", app.aboutAuthorPage)
	router.HandlerFunc(http.MethodGet, "/about/tech/", app.aboutTechPage)

	// Routes requiring authentication.
	router.HandlerFunc(http.MethodGet, "/create/", app.requireAuthenticatedUser(app.createPostForm))
	router.HandlerFunc(http.MethodPost, "/create/", app.requireAuthenticatedUser(app.createPost))
	router.HandlerFunc(http.MethodGet, "/posts/:id/edit/", app.requireAuthenticatedUser(app.editPostForm))
	router.HandlerFunc(http.MethodPost, "/posts/:id/edit/", app.requireAuthenticatedUser(app.editPost))
	router.HandlerFunc(http.MethodPost, "/posts/:id/delete/", app.requireAuthenticatedUser(app.deletePost))
	router.HandlerFunc(http.MethodPost, "/posts/:id/comment/", app.requireAuthenticatedUser(app.addComment))

	router.HandlerFunc(http.MethodGet, "/profile/:username/follow/", app.requireAuthenticatedUser(app.followAuthor))
	router.HandlerFunc(http.MethodGet, "/profile/:username/unfollow/", app.requireAuthenticatedUser(app.unfollowAuthor))
	router.HandlerFunc(http.MethodGet, "/follow/", app.requireAuthenticatedUser(app.followedFeed))

	router.HandlerFunc(http.MethodGet, "/posts/:id/purchase/", app.requireAuthenticatedUser(app.purchasePost))
	router.HandlerFunc(http.MethodGet, "/posts/:id/return/", app.requireAuthenticatedUser(app.returnPost))
	router.HandlerFunc(http.MethodGet, "/purchases/", app.requireAuthenticatedUser(app.listPurchases))

	router.HandlerFunc(http.MethodPost, "/category/create/", app.requireAuthenticatedUser(app.createCategory))

	// Admin diagnostics.
	router.HandlerFunc(http.MethodPost, "/secret/ping_site/", app.requireAuthenticatedUser(app.pingSite))
	router.HandlerFunc(http.MethodPost, "/secret/clear_cache/", app.requireAuthenticatedUser(app.clearPageCache))

	return app.recoverPanic(app.authenticate(router))
}

package main

import (
	"context"
	"net/http"
	"os/exec"
	"regexp"
	"time"

	"github.com/nerdberries/market/internal/validator"
)

// Hostname or IPv4 literal. No schemes, no paths, no shell metacharacters.
var hostRX = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9.-]{0,251}[a-zA-Z0-9])?$`)

// pingSite runs the ping diagnostic against a single host. The command is
// executed with an argument vector, never through a shell.
func (app *application) pingSite(w http.ResponseWriter, r *http.Request) {
	type pingPayload struct {
		SiteURL string `json:"siteUrl"`
	}
	type PingRequest struct {
		pingPayload `json:"ping"`
	}

	var request PingRequest
	if err := app.readJSON(w, r, &request); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	v := validator.New()
	v.CheckNotBlank(request.SiteURL, "siteUrl", "must be provided")
	v.Check(v.IsMatch(request.SiteURL, hostRX), "siteUrl", "must be a hostname or IP address")

	if !v.IsValid() {
		app.badRequestResponse(w, r, &AppError{ErrorDetails: v.Errors})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	output, err := exec.CommandContext(ctx, "ping", "-c", "3", request.SiteURL).CombinedOutput()
	result := string(output)
	if err != nil {
		result += "\n" + err.Error()
	}

	response := envelope{
		"host":   request.SiteURL,
		"result": result,
	}
	if err := app.writeJSON(w, http.StatusOK, response, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

// clearPageCache is the external invalidation signal for the page cache.
func (app *application) clearPageCache(w http.ResponseWriter, r *http.Request) {
	app.pageCache.Clear()

	if err := app.writeJSON(w, http.StatusOK, envelope{"cleared": true}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

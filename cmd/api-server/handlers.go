package main

import (
	"net/http"

	"github.com/eislab/lab-tracker/internal/database"
	"github.com/eislab/lab-tracker/internal/response"
)

func (app *application) handleStatus(w http.ResponseWriter, r *http.Request) {
	if err := response.JSON(w, http.StatusOK, response.JSONObject{"status": "OK"}); err != nil {
		app.serverError(w, r, err)
	}
}

// handleEnsureSchema re-runs provisioning: pending migrations first, then the
// bootstrap admin seed. Both halves are idempotent, so on a healthy store this
// is a no-op.
func (app *application) handleEnsureSchema(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := app.db.Migrate(); err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := database.EnsureBootstrapAdmin(ctx, app.logger, app.db); err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"status": "OK"}); err != nil {
		app.serverError(w, r, err)
	}
}

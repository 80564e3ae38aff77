package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (app *application) routes() http.Handler {
	mux := chi.NewRouter()

	mux.NotFound(app.notFound)
	mux.MethodNotAllowed(app.methodNotAllowed)

	mux.Use(app.traceID)
	mux.Use(app.logAccess)
	mux.Use(app.recoverPanic)

	mux.Use(app.CORS)

	mux.Get("/api/v1/status", app.handleStatus)
	mux.Post("/api/v1/schema", app.handleEnsureSchema)

	mux.Post("/api/v1/users", app.handleRegisterUser)
	mux.Get("/api/v1/users", app.handleSearchUsers)
	mux.Get("/api/v1/users/{studentId}", app.handleGetUser)
	mux.Delete("/api/v1/users/{studentId}", app.handleDeleteUser)
	mux.Patch("/api/v1/users/{studentId}/tags", app.handleEditTags)
	mux.Patch("/api/v1/users/{studentId}/profile", app.handleUpdateProfile)
	mux.Patch("/api/v1/users/{studentId}/card", app.handleSetCard)
	mux.Put("/api/v1/users/{studentId}/credential", app.handleSetCredential)
	mux.Get("/api/v1/users/{studentId}/hours", app.handleTotalHours)

	mux.Get("/api/v1/cards/{cardId}", app.handleGetUserByCard)

	mux.Post("/api/v1/sessions/check-in", app.handleCheckIn)
	mux.Post("/api/v1/sessions/check-out", app.handleCheckOut)
	mux.Get("/api/v1/present", app.handleListPresent)

	mux.Get("/api/v1/logs", app.handleListLogs)
	mux.Get("/api/v1/logs/export", app.handleExportLogs)

	mux.Post("/api/v1/roster/import", app.handleImportRoster)

	mux.Post("/api/v1/auth/verify", app.handleVerifyCredential)

	app.logger.Debug("routes configured", "routes", chiRoutesToStrings(mux.Routes()))

	return mux
}

func chiRoutesToStrings(routes []chi.Route) []string {
	parsedRoutes := make([]string, 0, len(routes))
	for _, route := range routes {
		parsedRoutes = append(parsedRoutes, route.Pattern)
	}
	return parsedRoutes
}

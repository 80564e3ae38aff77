package main

import (
	"net/http"

	"github.com/eislab/lab-tracker/internal/model"
	"github.com/eislab/lab-tracker/internal/request"
	"github.com/eislab/lab-tracker/internal/response"
	"github.com/eislab/lab-tracker/internal/validator"
)

type requestCheckIn struct {
	StudentID   model.ID `json:"studentId"`
	Supervising *bool    `json:"supervising"`
}

func (app *application) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input requestCheckIn
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	validateStudentID(&v, input.StudentID)

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	entry, err := app.engine.CheckIn(ctx, input.StudentID, input.Supervising)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusCreated, response.JSONObject{"log": entry}); err != nil {
		app.serverError(w, r, err)
	}
}

type requestCheckOut struct {
	StudentID model.ID `json:"studentId"`
}

func (app *application) handleCheckOut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input requestCheckOut
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	validateStudentID(&v, input.StudentID)

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	entry, err := app.engine.CheckOut(ctx, input.StudentID)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"log": entry}); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleListPresent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	present, err := app.directory.ListPresent(ctx)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, present); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleListLogs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok, err := optionalStudentIDQueryParam(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	var entries []model.LogEntry
	if ok {
		entries, err = app.directory.History(ctx, id)
	} else {
		entries, err = app.directory.AllLogs(ctx)
	}
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"logs": entries}); err != nil {
		app.serverError(w, r, err)
	}
}

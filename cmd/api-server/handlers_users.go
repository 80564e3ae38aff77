package main

import (
	"net/http"

	"github.com/eislab/lab-tracker/internal/attendance"
	"github.com/eislab/lab-tracker/internal/database"
	"github.com/eislab/lab-tracker/internal/model"
	"github.com/eislab/lab-tracker/internal/request"
	"github.com/eislab/lab-tracker/internal/response"
	"github.com/eislab/lab-tracker/internal/validator"
)

type requestRegisterUser struct {
	StudentID model.ID   `json:"studentId"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Tags      model.Tags `json:"tags"`
}

func (app *application) handleRegisterUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input requestRegisterUser
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	validateStudentID(&v, input.StudentID)
	validateUserNames(&v, input.FirstName, input.LastName)
	validateTags(&v, input.Tags)

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	user, err := app.engine.Register(ctx, attendance.RegisterParams{
		StudentID: input.StudentID,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Tags:      input.Tags,
	})
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusCreated, response.JSONObject{"user": user}); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleGetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := studentIDFromRequest(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	user, err := app.directory.Get(ctx, id)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"user": user}); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleGetUserByCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cardID, err := cardIDFromRequest(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	user, err := app.directory.GetByCard(ctx, cardID)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"user": user}); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleSearchUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := r.URL.Query().Get("q")

	users, err := app.directory.Search(ctx, query)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"users": users}); err != nil {
		app.serverError(w, r, err)
	}
}

type requestEditTags struct {
	Tags model.Tags `json:"tags"`
}

func (app *application) handleEditTags(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := studentIDFromRequest(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	var input requestEditTags
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	validateTags(&v, input.Tags)

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	user, err := app.engine.EditTags(ctx, id, input.Tags)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"user": user}); err != nil {
		app.serverError(w, r, err)
	}
}

type requestUpdateProfile struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Major     *string `json:"major"`
	Photo     *string `json:"photo"`
}

func (app *application) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := studentIDFromRequest(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	var input requestUpdateProfile
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	if input.FirstName != nil {
		v.CheckField(validator.NotBlank(*input.FirstName), "firstName", "cannot be blank")
	}
	if input.LastName != nil {
		v.CheckField(validator.NotBlank(*input.LastName), "lastName", "cannot be blank")
	}

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	user, err := app.engine.SetProfile(ctx, id, database.UpdateUserDTO{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Major:     input.Major,
		Photo:     input.Photo,
	})
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"user": user}); err != nil {
		app.serverError(w, r, err)
	}
}

type requestSetCard struct {
	CardID string `json:"cardId"`
}

func (app *application) handleSetCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := studentIDFromRequest(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	var input requestSetCard
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	v.CheckField(validator.NotBlank(input.CardID), "cardId", "cannot be blank")

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	user, err := app.engine.SetCardID(ctx, id, input.CardID)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"user": user}); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := studentIDFromRequest(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	if err := app.engine.Delete(ctx, id); err != nil {
		app.domainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *application) handleTotalHours(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := studentIDFromRequest(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	asOf, err := asOfQueryParam(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	hours, err := app.directory.TotalHours(ctx, id, asOf)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	payload := response.JSONObject{"studentId": id, "asOf": asOf, "hours": hours}
	if err := response.JSON(w, http.StatusOK, payload); err != nil {
		app.serverError(w, r, err)
	}
}

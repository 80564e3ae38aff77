package main

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/eislab/lab-tracker/internal/model"
	"github.com/eislab/lab-tracker/internal/request"
	"github.com/eislab/lab-tracker/internal/response"
	"github.com/eislab/lab-tracker/internal/roster"
	"github.com/eislab/lab-tracker/internal/validator"
)

type requestSetCredential struct {
	Password string `json:"password"`
}

type requestImportRoster struct {
	Rows []roster.Row `json:"rows"`
}

func (app *application) handleSetCredential(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := studentIDFromRequest(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	var input requestSetCredential
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	validatePassword(&v, input.Password)

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	if err := app.engine.SetCredential(ctx, id, input.Password); err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"status": "OK"}); err != nil {
		app.serverError(w, r, err)
	}
}

type requestVerifyCredential struct {
	StudentID model.ID `json:"studentId"`
	Password  string   `json:"password"`
}

func (app *application) handleVerifyCredential(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input requestVerifyCredential
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	valid, err := app.engine.VerifyCredential(ctx, input.StudentID, input.Password)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"valid": valid}); err != nil {
		app.serverError(w, r, err)
	}
}

const _maxRosterUploadBytes = 10 << 20

// handleImportRoster reconciles a roster into the user store. It accepts
// either a multipart Canvas gradebook CSV under the "file" field, or a plain
// JSON body with a "rows" array.
func (app *application) handleImportRoster(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var rows []roster.Row

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var input requestImportRoster
		if err := request.DecodeJSONStrict(w, r, &input); err != nil {
			app.badRequest(w, r, err)
			return
		}
		rows = input.Rows
	} else {
		if err := r.ParseMultipartForm(_maxRosterUploadBytes); err != nil {
			app.badRequest(w, r, err)
			return
		}

		file, _, err := r.FormFile("file")
		if err != nil {
			app.badRequest(w, r, err)
			return
		}
		defer file.Close()

		rows, err = roster.ParseCanvasCSV(file)
		if err != nil {
			app.badRequest(w, r, err)
			return
		}
	}

	result, err := app.reconciler.Reconcile(ctx, rows)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, result); err != nil {
		app.serverError(w, r, err)
	}
}

// handleExportLogs streams the full session log as CSV. Open sessions export
// with an N/A time out, matching what the spreadsheet consumers expect.
func (app *application) handleExportLogs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	entries, err := app.directory.AllLogs(ctx)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="logs.csv"`)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"LogID", "StudentID", "Time_In", "Time_Out"})

	for _, entry := range entries {
		record := []string{
			strconv.FormatInt(entry.LogID, 10),
			strconv.FormatInt(entry.User, 10),
			fmtExportTime(&entry.TimeIn),
			fmtExportTime(entry.TimeOut),
		}
		if err := cw.Write(record); err != nil {
			app.reportServerError(r, err)
			return
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		app.reportServerError(r, err)
	}
}

func fmtExportTime(ms *model.Millis) string {
	if ms == nil {
		return "N/A"
	}
	return time.UnixMilli(*ms).Format("2006-01-02 15:04:05")
}

package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/eislab/lab-tracker/internal/model"
	"github.com/go-chi/chi/v5"
)

func studentIDFromRequest(r *http.Request) (model.ID, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "studentId"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid student ID")
	}
	return id, nil
}

func cardIDFromRequest(r *http.Request) (string, error) {
	cardID := chi.URLParam(r, "cardId")
	if cardID == "" {
		return "", errors.New("missing card ID")
	}
	return cardID, nil
}

// asOfQueryParam reads an optional epoch-milliseconds "asOf" query parameter,
// defaulting to the current time.
func asOfQueryParam(r *http.Request) (model.Millis, error) {
	val, ok := r.URL.Query().Get("asOf"), r.URL.Query().Has("asOf")
	if !ok {
		return time.Now().UnixMilli(), nil
	}

	asOf, err := strconv.ParseInt(val, 10, 64)
	if err != nil || asOf < 0 {
		return 0, errors.New("invalid asOf timestamp")
	}
	return asOf, nil
}

func optionalStudentIDQueryParam(r *http.Request) (model.ID, bool, error) {
	val, ok := r.URL.Query().Get("studentId"), r.URL.Query().Has("studentId")
	if !ok {
		return 0, false, nil
	}

	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil || id <= 0 {
		return 0, false, errors.New("invalid student ID")
	}
	return id, true, nil
}

package main

import (
	"github.com/eislab/lab-tracker/internal/model"
	"github.com/eislab/lab-tracker/internal/validator"
)

// Validation rules

func validateStudentID(v *validator.Validator, id model.ID) {
	v.CheckField(id > 0, "studentId", "must be a positive number")
	v.CheckField(validator.Between(id, 1, 999999999), "studentId", "must be at most nine digits")
}

func validateUserNames(v *validator.Validator, firstName, lastName string) {
	v.CheckField(validator.NotBlank(firstName), "firstName", "cannot be blank")
	v.CheckField(validator.MaxRunes(firstName, 100), "firstName", "too long")
	v.CheckField(validator.NotBlank(lastName), "lastName", "cannot be blank")
	v.CheckField(validator.MaxRunes(lastName, 100), "lastName", "too long")
}

func validateTags(v *validator.Validator, tags model.Tags) {
	v.CheckField(tags.Valid(), "tags", "must use only defined tag bits")
}

func validatePassword(v *validator.Validator, password string) {
	v.CheckField(validator.NotBlank(password), "password", "cannot be blank")
	v.CheckField(validator.MinRunes(password, 6), "password", "too short")
	v.CheckField(validator.MaxRunes(password, 72), "password", "too long")
}

// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

// Package validation wraps a singleton go-playground/validator instance.
//
// Field names in errors are the JSON names, so a bad gallery patch reports
// "sortBy" rather than "SortBy". Struct-level rules enforce ordered
// map bounds (south <= north) and date ranges (start <= end).
//
//	if verr := validation.ValidateStruct(&patch); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/tomtom215/uavreview/internal/models"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Code is the API error code for every validation failure.
const Code = "VALIDATION_ERROR"

// FieldError is one failed rule. Field is the JSON name of the field.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message"`
}

func (e FieldError) Error() string { return e.Message }

// RequestValidationError collects every failed rule of one request.
type RequestValidationError struct {
	Fields []FieldError
}

func (ve *RequestValidationError) Error() string {
	if len(ve.Fields) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(ve.Fields))
	for i, fe := range ve.Fields {
		messages[i] = fe.Message
	}
	return strings.Join(messages, "; ")
}

// APIError is the validation failure in API envelope form.
type APIError struct {
	Code    string
	Message string
	Details map[string]interface{}
}

// ToAPIError maps the failure onto the error envelope. Details["fields"]
// maps each JSON field name to its message.
func (ve *RequestValidationError) ToAPIError() *APIError {
	apiErr := &APIError{Code: Code, Message: "Validation failed"}
	if len(ve.Fields) == 0 {
		return apiErr
	}
	fields := make(map[string]string, len(ve.Fields))
	for _, fe := range ve.Fields {
		if _, dup := fields[fe.Field]; !dup {
			fields[fe.Field] = fe.Message
		}
	}
	apiErr.Message = ve.Error()
	apiErr.Details = map[string]interface{}{"fields": fields}
	return apiErr
}

// GetValidator returns the singleton validator instance.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(jsonFieldName)
		validate.RegisterStructValidation(validateMapBounds, models.MapBounds{})
		validate.RegisterStructValidation(validateDateRange, models.DateRange{})
	})

	return validate
}

// ValidateStruct validates s, returning nil or the collected field errors.
func ValidateStruct(s interface{}) *RequestValidationError {
	v := GetValidator()

	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// InvalidValidationError: s was not a struct.
		return &RequestValidationError{Fields: []FieldError{{Field: "request", Tag: "invalid", Message: err.Error()}}}
	}

	out := make([]FieldError, len(fieldErrs))
	for i, fe := range fieldErrs {
		out[i] = FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Message: translateError(fe),
		}
	}
	return &RequestValidationError{Fields: out}
}

// translateError renders a field error as "<field> <constraint>".
func translateError(fe validator.FieldError) string {
	field, param := fe.Field(), fe.Param()
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "latitude":
		return field + " must be a valid latitude (-90 to 90)"
	case "longitude":
		return field + " must be a valid longitude (-180 to 180)"
	case "bounds_order":
		return field + " must not be greater than north"
	case "range_order":
		return field + " must not be after end"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lt":
		return fmt.Sprintf("%s must be less than %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// jsonFieldName reports fields by their JSON name.
func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	default:
		return name
	}
}

func validateMapBounds(sl validator.StructLevel) {
	b, ok := sl.Current().Interface().(models.MapBounds)
	if !ok {
		return
	}
	if b.South > b.North {
		sl.ReportError(b.South, "south", "South", "bounds_order", "")
	}
}

func validateDateRange(sl validator.StructLevel) {
	r, ok := sl.Current().Interface().(models.DateRange)
	if !ok {
		return
	}
	if r.Start.After(r.End) {
		sl.ReportError(r.Start, "start", "Start", "range_order", "")
	}
}

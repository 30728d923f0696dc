// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// ErrCode is the API error code for every validation failure.
const ErrCode = "VALIDATION_ERROR"

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is one rejected query parameter.
type FieldError struct {
	// Field is the query parameter name, taken from the `query` tag.
	Field string
	// Tag is the failed rule (min, max, attr).
	Tag string
	// Param is the rule argument, "100" for max=100.
	Param string
	// Value is the rejected value.
	Value interface{}
	// Message is the client-facing message.
	Message string
}

// QueryError collects every rejected parameter of one request.
type QueryError struct {
	Fields []FieldError
}

// Error joins the field messages.
func (e *QueryError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		messages[i] = f.Message
	}
	return strings.Join(messages, "; ")
}

// APIError is a validation failure in the shape of the API error body.
type APIError struct {
	Code    string
	Message string
	Details map[string]interface{}
}

// ToAPIError converts the failure to the API error format. A single field
// is reported flat; several fields are listed under "fields".
func (e *QueryError) ToAPIError() *APIError {
	switch len(e.Fields) {
	case 0:
		return &APIError{Code: ErrCode, Message: "Validation failed"}
	case 1:
		f := e.Fields[0]
		return &APIError{
			Code:    ErrCode,
			Message: f.Message,
			Details: map[string]interface{}{
				"field": f.Field,
				"tag":   f.Tag,
				"value": f.Value,
			},
		}
	}

	fields := make([]map[string]interface{}, len(e.Fields))
	messages := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		fields[i] = map[string]interface{}{
			"field":   f.Field,
			"tag":     f.Tag,
			"message": f.Message,
		}
		messages[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return &APIError{
		Code:    ErrCode,
		Message: strings.Join(messages, "; "),
		Details: map[string]interface{}{"fields": fields},
	}
}

// GetValidator returns the shared validator. Field names come from the
// `query` tag so messages name the parameter the client sent. The "attr" rule
// rejects attribute filter values containing control characters; those
// values end up in cache keys and log lines.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
		// Registration only fails for an empty tag or nil func.
		_ = validate.RegisterValidation("attr", validAttrValue)
	})
	return validate
}

func validAttrValue(fl validator.FieldLevel) bool {
	return strings.IndexFunc(fl.Field().String(), unicode.IsControl) < 0
}

// Validate checks a query struct. It returns nil when every parameter is
// within bounds.
//
//	if err := validation.Validate(&q); err != nil {
//	    apiErr := err.ToAPIError()
//	    ...
//	}
func Validate(query interface{}) *QueryError {
	err := GetValidator().Struct(query)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &QueryError{Fields: []FieldError{{Field: "query", Tag: "invalid", Message: err.Error()}}}
	}

	out := &QueryError{Fields: make([]FieldError, len(fieldErrs))}
	for i, fe := range fieldErrs {
		out.Fields[i] = FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Value:   fe.Value(),
			Message: message(fe),
		}
	}
	return out
}

// message renders the client-facing text for a failed rule.
func message(fe validator.FieldError) string {
	field, param := fe.Field(), fe.Param()
	text := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "min":
		if text {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if text {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "attr":
		return fmt.Sprintf("%s must not contain control characters", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

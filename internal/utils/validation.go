package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// BindingErrors converts a gin binding error into field errors. Errors that
// are not validation failures (malformed JSON, wrong types) become a single
// entry for the request body.
func BindingErrors(err error) []FieldError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, FieldError{
				Field:   lowerFirst(fe.Field()),
				Message: describe(fe),
			})
		}
		return out
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []FieldError{{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("must be of type %s", typeErr.Type.String()),
		}}
	}

	return []FieldError{{Field: "body", Message: "invalid JSON body"}}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "uuid":
		return "must be a valid UUID"
	}
	return "is invalid"
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// UseJSONFieldNames makes validator report fields by their json tag so that
// error payloads match the request body.
func UseJSONFieldNames(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

package apperror

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// formatFieldName turns a json field name into the sentence form used
// in validation messages: "half_day_period" -> "Half day period".
func formatFieldName(s string) string {
	words := strings.Split(s, "_")
	if len(words) == 0 {
		return s
	}
	words[0] = titleCaser.String(words[0])
	return strings.Join(words, " ")
}

// MapValidationError converts binding validator errors into the 422
// AppError with one message list per offending field.
func MapValidationError(err error) error {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return NewValidation(map[string][]string{
			"body": {"Invalid request body"},
		})
	}

	fields := make(map[string][]string, len(errs))
	for _, e := range errs {
		field := e.Field()
		name := formatFieldName(field)

		var msg string
		switch e.Tag() {
		case "required":
			msg = name + " is required"
		case "oneof":
			msg = name + " must be one of: " + strings.ReplaceAll(e.Param(), " ", ", ")
		case "email":
			msg = name + " must be a valid email address"
		case "min":
			msg = name + " must be at least " + e.Param() + " characters"
		case "max":
			msg = name + " cannot exceed " + e.Param() + " characters"
		default:
			msg = name + " is invalid"
		}
		fields[field] = append(fields[field], msg)
	}

	return NewValidation(fields)
}

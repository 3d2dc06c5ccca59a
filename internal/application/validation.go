package application

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"noteboard/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterValidation("foldername", func(fl validator.FieldLevel) bool {
		return domain.IsFolderName(fl.Field().String())
	})
	v.RegisterValidation("canvascolor", func(fl validator.FieldLevel) bool {
		return domain.IsCanvasColor(fl.Field().String())
	})
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("field"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

// ValidateStruct checks the `validate` tags of s and reports the first
// failure as a ValidationError.
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ValidationError{Field: fe.Field(), Message: describe(fe)}
	}
	return &ValidationError{Field: "input", Message: err.Error()}
}

func describe(fe validator.FieldError) string {
	name := formatFieldName(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", name)
	case "max":
		return fmt.Sprintf("%s longer than %s characters", name, fe.Param())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", name, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "foldername":
		return fmt.Sprintf("%s may contain only letters, digits, spaces, '_' and '-'", name)
	case "canvascolor":
		return fmt.Sprintf("%s must be a #RRGGBB color, got: %v", name, fe.Value())
	default:
		return fmt.Sprintf("%s failed %s", name, fe.Tag())
	}
}

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", formatFieldName(fieldName)),
		}
	}
	return nil
}

type folderName struct {
	Name string `validate:"required,max=120,foldername" field:"name"`
}

type noteName struct {
	Name string `validate:"required,max=60" field:"name"`
}

// ValidateName trims and checks a folder or note name
func ValidateName(kind domain.Kind, name string) (string, error) {
	name = strings.TrimSpace(name)
	var err error
	if kind == domain.KindFolder {
		err = ValidateStruct(folderName{Name: name})
	} else {
		err = ValidateStruct(noteName{Name: name})
	}
	if err != nil {
		return "", err
	}
	return name, nil
}

// formatFieldName converts field names to space-separated words
// for more readable error messages (e.g., "orderBy" -> "order by")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"orderBy":     "order by",
		"destIndex":   "destination index",
		"destination": "destination",
		"background":  "background",
		"roomName":    "room name",
		"noteToken":   "note token",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}
	return fieldName
}

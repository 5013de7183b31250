package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"unicode"

	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// SetupValidator makes validation errors name fields by their json or form tag
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(fieldName)
	}
}

func fieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
	}
	return name
}

// FormatValidationErrors renders validator errors as "path - message" entries.
// Any other binding error (malformed JSON, wrong types) yields a single entry.
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{"body - " + err.Error()}
	}

	out := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		out = append(out, fieldPath(e)+" - "+getValidationMessage(e))
	}
	return out
}

// fieldPath turns the validator namespace into a request path. The root
// struct and untagged embedded structs carry Go names and are skipped.
func fieldPath(e validator.FieldError) string {
	segments := strings.Split(e.Namespace(), ".")
	path := make([]string, 0, len(segments))
	for _, s := range segments[1:] {
		if s == "" || unicode.IsUpper(rune(s[0])) {
			continue
		}
		path = append(path, s)
	}
	if len(path) == 0 {
		return e.Field()
	}
	return strings.Join(path, ".")
}

// HandleValidationError answers with a 400 FAILED envelope, or 413 when the
// body was cut by BodyLimit.
func HandleValidationError(c *gin.Context, err error) {
	if isTooLarge(err) {
		abortTooLarge(c)
		return
	}
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
		"Request validation failed",
		GetRequestID(c),
		FormatValidationErrors(err),
	))
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "min":
		if e.Type().Kind() == reflect.String {
			return "Must be at least " + e.Param() + " characters"
		}
		return "Must be at least " + e.Param()
	case "max":
		if e.Type().Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		return "Must be at most " + e.Param()
	case "oneof":
		return "Must be one of: " + e.Param()
	case "gte":
		return "Must be greater than or equal to " + e.Param()
	case "lte":
		return "Must be less than or equal to " + e.Param()
	case "gtefield":
		return "Must not be before " + lowerFirst(e.Param())
	case "numeric":
		return "Must be numeric"
	default:
		return "Invalid value"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// Package validation decodes and validates JSON request bodies.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apperrors "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/errors"
)

// RequestValidator handles all input validation
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New()
	// report JSON field names, not Go ones
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &RequestValidator{validate: v}
}

// BindJSON decodes the body into dst and validates it. An empty body leaves
// dst untouched when allowEmpty is set.
func (rv *RequestValidator) BindJSON(c *gin.Context, dst interface{}, allowEmpty bool) error {
	if c.Request.Body == nil {
		if allowEmpty {
			return rv.Validate(dst)
		}
		return apperrors.InvalidInput("Request body is required")
	}
	err := json.NewDecoder(c.Request.Body).Decode(dst)
	switch {
	case errors.Is(err, io.EOF):
		if !allowEmpty {
			return apperrors.InvalidInput("Request body is required")
		}
	case err != nil:
		return apperrors.InvalidInput("Invalid JSON in request body")
	}
	return rv.Validate(dst)
}

// Validate runs struct tags and returns the first failure as InvalidInput.
func (rv *RequestValidator) Validate(v interface{}) error {
	err := rv.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperrors.InvalidInput("%v", err)
	}
	return apperrors.InvalidInput("%s", describe(verrs[0]))
}

func describe(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

package validation

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/deppfellow/gastro-routes/internal/errs"
	"github.com/deppfellow/gastro-routes/internal/lib/utils"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validatable is implemented by request payload types that know how to validate themselves.
//
// The usual implementation runs Struct(req) for tag rules and then adds
// CustomValidationErrors for anything tags can't express.
type Validatable interface {
	Validate() error
}

// CustomValidationError represents a single validation issue for a specific field.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors is a slice of custom validation errors that satisfies error.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

// optionalValuer is satisfied by every utils.Optional instantiation.
type optionalValuer interface {
	ValidationValue() any
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Field errors are reported under the name the client used.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query", "param"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})

	v.RegisterCustomTypeFunc(optionalValue,
		utils.Optional[string]{},
		utils.Optional[float64]{},
		utils.Optional[int64]{},
		utils.Optional[bool]{},
		utils.Optional[time.Time]{},
	)

	return v
}

func optionalValue(field reflect.Value) any {
	if o, ok := field.Interface().(optionalValuer); ok {
		return o.ValidationValue()
	}
	return nil
}

// RegisterOptional makes tag rules on utils.Optional fields of the given
// instantiations apply to the wrapped value. Call it from init.
func RegisterOptional(types ...any) {
	validate.RegisterCustomTypeFunc(optionalValue, types...)
}

// Struct runs tag based validation on s.
func Struct(s any) error {
	return validate.Struct(s)
}

// BindAndValidate binds request data into payload and validates it.
//
// Path parameters and the JSON body are bound by echo. Query parameters
// are bound for every method, since some writes (POST /appointments)
// carry identifiers in the query string.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		return bindError(err)
	}

	switch c.Request().Method {
	case http.MethodGet, http.MethodDelete, http.MethodHead:
	default:
		if err := (&echo.DefaultBinder{}).BindQueryParams(c, payload); err != nil {
			return bindError(err)
		}
	}

	if msg, fieldErrors := validateStruct(payload); fieldErrors != nil {
		return errs.NewBadRequestError(msg, true, nil, fieldErrors, nil)
	}

	return nil
}

func bindError(err error) *errs.HTTPError {
	var bindingErr *echo.BindingError
	if errors.As(err, &bindingErr) {
		return errs.NewBadRequestError(
			fmt.Sprintf("Invalid value for %s", bindingErr.Field),
			true, nil,
			[]errs.FieldError{{Field: bindingErr.Field, Error: "has an invalid value"}},
			nil,
		)
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return errs.NewBadRequestError(fmt.Sprint(httpErr.Message), false, nil, nil, nil)
	}

	return errs.NewBadRequestError("Invalid request", false, nil, nil, nil)
}

func validateStruct(v Validatable) (string, []errs.FieldError) {
	if err := v.Validate(); err != nil {
		return extractValidationError(err)
	}
	return "", nil
}

func extractValidationError(err error) (string, []errs.FieldError) {
	var fieldErrors []errs.FieldError

	var customErrors CustomValidationErrors
	if errors.As(err, &customErrors) {
		for _, e := range customErrors {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field: e.Field,
				Error: e.Message,
			})
		}
		return "Validation failed", fieldErrors
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "Validation failed", []errs.FieldError{{Field: "", Error: err.Error()}}
	}

	for _, e := range validationErrors {
		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: e.Field(),
			Error: fieldMessage(e),
		})
	}

	return "Validation failed", fieldErrors
}

func fieldMessage(e validator.FieldError) string {
	isString := e.Kind() == reflect.String

	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		if isString {
			return fmt.Sprintf("must be at least %s characters", e.Param())
		}
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max":
		if isString {
			return fmt.Sprintf("must not exceed %s characters", e.Param())
		}
		return fmt.Sprintf("must not exceed %s", e.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", e.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", e.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "dive":
		return "some items are invalid"
	default:
		if e.Param() != "" {
			return fmt.Sprintf("%s: %s:%s", e.Field(), e.Tag(), e.Param())
		}
		return fmt.Sprintf("%s: %s", e.Field(), e.Tag())
	}
}

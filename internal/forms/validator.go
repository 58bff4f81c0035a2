package forms

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validator wraps go-playground/validator for Echo. Field errors are keyed
// by the struct's `form` tag.
type Validator struct {
	validator *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return &Validator{validator: v}
}

// Validate calls the underlying validator
func (cv *Validator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// FormErrorKey holds errors that do not belong to a single field.
const FormErrorKey = "_form"

// Errors maps a form field name to its messages.
type Errors map[string][]string

func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func (e Errors) Any() bool {
	return len(e) > 0
}

// Check validates form through the echo context validator and returns
// user-facing messages. A nil result means the form is valid.
func Check(c echo.Context, form any) Errors {
	err := c.Validate(form)
	if err == nil {
		return nil
	}

	errs := Errors{}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		errs.Add(FormErrorKey, err.Error())
		return errs
	}
	for _, fe := range ves {
		errs.Add(fe.Field(), message(fe))
	}
	return errs
}

// CheckChoice records "Not a valid choice." when value is not one of choices.
// It returns errs, allocating it when nil.
func CheckChoice(errs Errors, field, value string, choices []string) Errors {
	for _, ch := range choices {
		if ch == value {
			return errs
		}
	}
	if errs == nil {
		errs = Errors{}
	}
	if len(errs[field]) == 0 {
		errs.Add(field, "Not a valid choice.")
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "url":
		return "Invalid URL."
	case "email":
		return "Invalid email address."
	case "min":
		return fmt.Sprintf("Field must be at least %s characters long.", fe.Param())
	case "max":
		return fmt.Sprintf("Field cannot be longer than %s characters.", fe.Param())
	}
	return "Invalid value."
}

package validation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Struct validates a tagged DTO and returns the first violated rule per json field name.
// It returns nil when s is valid.
func Struct(s any) FieldErrors {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	errs := FieldErrors{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs.add("body", "Invalid request body")
		return errs
	}
	for _, fe := range verrs {
		errs.add(fe.Field(), genericMessage(fe))
	}
	return errs
}

func genericMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be %s characters or less", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "uuid":
		return "must be a valid id"
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

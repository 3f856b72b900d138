// Package validation holds the shared validator with the catalog's custom tags.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/casinohub/backend/internal/apperr"
	"github.com/casinohub/backend/internal/models"
)

// Validate is the process-wide validator. Custom tags:
//
//	category  - one of the four casino category tags
//	placement - one of the banner page types
//	link      - absolute http(s) URL, a site-relative path, or "#"
var Validate *validator.Validate

func init() {
	Validate = validator.New(validator.WithRequiredStructEnabled())
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	_ = Validate.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		_, ok := models.ParseCategory(fl.Field().String())
		return ok
	})
	_ = Validate.RegisterValidation("placement", func(fl validator.FieldLevel) bool {
		_, ok := models.ParsePlacement(fl.Field().String())
		return ok
	})
	_ = Validate.RegisterValidation("link", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "#" || strings.HasPrefix(s, "/") {
			return true
		}
		return Validate.Var(s, "http_url") == nil
	})
}

// Struct validates v and returns an apperr validation error describing the first failure.
func Struct(v interface{}) error {
	if err := Validate.Struct(v); err != nil {
		return apperr.Validation(Message(err))
	}
	return nil
}

// Message renders a validator error as a short client-facing sentence.
func Message(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "category":
		return fmt.Sprintf("%s has an invalid category %q", field, fe.Value())
	case "placement":
		return fmt.Sprintf("%s must be one of home, allCasinos, newCasinos, topPayment", field)
	case "hexcolor":
		return fmt.Sprintf("%s must be a hex color", field)
	case "link", "http_url", "url":
		return fmt.Sprintf("%s must be a URL", field)
	case "gtefield":
		return fmt.Sprintf("%s must not be before %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

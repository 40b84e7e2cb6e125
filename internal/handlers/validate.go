package handlers

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/soltixdb/sfb/internal/services"
)

// Violation is one failed validation rule
type Violation struct {
	Field     string `json:"field"`
	Violation string `json:"violation"`
	Message   string `json:"message"`
}

// Validator checks request bodies against their validate tags and reports
// violations under their JSON field names
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// NewValidator creates a Validator with English messages
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	locale := en.New()
	tr, _ := ut.New(locale, locale).GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, tr)

	return &Validator{validate: v, translator: tr}
}

// Struct validates s. It returns nil or an E002 ServiceError served with HTTP 422.
func (v *Validator) Struct(s interface{}) *services.ServiceError {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return services.NewValidationError("Invalid request body", map[string]interface{}{"error": err.Error()})
	}

	violations := make([]Violation, 0, len(ve))
	for _, fe := range ve {
		violations = append(violations, Violation{
			Field:     fe.Field(),
			Violation: fe.Tag(),
			Message:   fe.Translate(v.translator),
		})
	}

	return services.NewValidationError(violations[0].Message, map[string]interface{}{"violations": violations})
}

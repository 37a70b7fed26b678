package routes

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared by both endpoints. Field names in reported errors use
// the json tag so the frontend can highlight the matching inputs.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// "required" accepts whitespace-only strings, the forms do not.
	if err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		panic(err)
	}

	return v
}

// validatePayload runs struct validation and keeps the first error per field,
// translated to its fixed user-facing message.
func validatePayload(payload any, message func(validator.FieldError) string) map[string]string {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return map[string]string{"_": msgValidationFailed}
	}

	out := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		if _, seen := out[fe.Field()]; !seen {
			out[fe.Field()] = message(fe)
		}
	}
	return out
}

func contactFieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "fullName":
		return "Numele complet este obligatoriu."
	case "email":
		return "Te rugăm să introduci un email valid."
	case "message":
		if fe.Tag() == "max" {
			return "Mesajul nu poate depăși 2000 de caractere."
		}
		return "Mesajul este obligatoriu."
	case "consent":
		return "Avem nevoie de acordul tău pentru a prelucra datele."
	default:
		return msgValidationFailed
	}
}

func gdprFieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "fullName":
		return "Numele complet este obligatoriu."
	case "email":
		return "Adresa de email nu este validă."
	case "requestType":
		return "Tipul solicitării nu este suportat."
	case "message":
		if fe.Tag() == "max" {
			return "Mesajul nu poate depăși 2000 de caractere."
		}
		return "Descrie solicitarea ta."
	default:
		return msgValidationFailed
	}
}

// looseBool decodes the consent field, which browsers submit either as a
// boolean or as the checkbox strings "on", "true" or "1". Exactly this set
// counts as true; every other encoding is false.
type looseBool bool

func (b *looseBool) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		*b = false
		return nil
	}

	switch v := raw.(type) {
	case bool:
		*b = looseBool(v)
	case string:
		*b = v == "on" || v == "true" || v == "1"
	default:
		*b = false
	}
	return nil
}

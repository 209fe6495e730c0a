package core

import (
	"reflect"
	"regexp"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	// custom validation tags & texts
	e164USTag   = "e164_us"
	e164USText  = "must be a US number in E.164 format, e.g. +15551234567"
	e164USRegex = regexp.MustCompile(`^\+1\d{10}$`)

	usZipTag   = "uszip"
	usZipText  = "must be a 5-digit ZIP or ZIP+4 code"
	usZipRegex = regexp.MustCompile(`^\d{5}(-\d{4})?$`)

	requiredTag     = "required"
	requiredWithTag = "required_with"
	requiredText    = "this field is required"
)

// InitValidators instantiates the validator for use.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	_ = validate.RegisterValidation(e164USTag, e164USValidation)
	RegisterCustomTranslation(validate, translator, e164USTag, e164USText)

	_ = validate.RegisterValidation(usZipTag, usZipValidation)
	RegisterCustomTranslation(validate, translator, usZipTag, usZipText)

	RegisterCustomTranslation(validate, translator, requiredTag, requiredText, true)
	RegisterCustomTranslation(validate, translator, requiredWithTag, requiredText, true)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Custom Global Validators

func e164USValidation(fl validator.FieldLevel) bool {
	return e164USRegex.MatchString(fl.Field().String())
}

func usZipValidation(fl validator.FieldLevel) bool {
	return usZipRegex.MatchString(fl.Field().String())
}

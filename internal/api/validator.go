package api

import (
	"reflect"
	"strings"

	"github.com/PROGPA/gpacalculaters/internal/model"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// custom validation tags
const (
	notBlankTag    = "notblank"
	gradingModeTag = "grading_mode"
)

// Validator implements echo.Validator with English error messages.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// NewValidator builds a validator that reports JSON field names.
func NewValidator() *Validator {
	validate := validator.New()

	// Register the english error messages for validation errors.
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(notBlankTag, notBlankValidation)
	_ = validate.RegisterValidation(gradingModeTag, gradingModeValidation)

	// The default translations are already registered, so a noop register func
	// satisfies RegisterTranslation.
	registerFn := func(ut.Translator) error { return nil }
	for _, tag := range []string{notBlankTag, gradingModeTag} {
		_ = validate.RegisterTranslation(tag, translator, registerFn, translateCustomValidationErrs)
	}

	return &Validator{validate: validate, translator: translator}
}

// Validate validates a struct.
func (v *Validator) Validate(i any) error {
	return v.validate.Struct(i)
}

// Translate turns validation errors into a field path to message map. Paths
// drop the root struct name, e.g. "groups[0].entries[1].weight".
func (v *Validator) Translate(errs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(errs))
	for _, fe := range errs {
		path := fe.Namespace()
		if i := strings.IndexByte(path, '.'); i >= 0 {
			path = path[i+1:]
		}
		out[path] = fe.Translate(v.translator)
	}
	return out
}

func translateCustomValidationErrs(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case notBlankTag:
		return fe.Field() + " cannot be blank"
	case gradingModeTag:
		return fe.Field() + " must be a known grading mode"
	default:
		return ""
	}
}

func notBlankValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

func gradingModeValidation(fl validator.FieldLevel) bool {
	str, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, err := model.ParseGradingMode(str)
	return err == nil
}

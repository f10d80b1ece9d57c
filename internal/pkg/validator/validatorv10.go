package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/samber/lo"
)

var reHex = regexp.MustCompile(`^(?:[0-9a-fA-F]{2})+$`)

// ErrTranslatorNotFound indicates the requested translator is unavailable.
var ErrTranslatorNotFound = errors.New("translator not found")

// V10Validator implements Validator using go-playground/validator v10.
type V10Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// V10ValidationError is a field-to-message map returned when validation fails.
//
// Keys are field names in snake_case to match typical JSON conventions.
type V10ValidationError map[string]string

// Error implements the error interface.
func (vs V10ValidationError) Error() string {
	if len(vs) == 0 {
		return "validation error"
	}

	b, err := json.Marshal(vs)
	if err != nil {
		return fmt.Sprintf("validation error (failed to marshal: %v)", err)
	}
	return string(b)
}

// Values returns the field error map.
func (vs V10ValidationError) Values() map[string]string {
	return vs
}

// rule is a custom tag with its English message.
type rule struct {
	tag string
	msg string
	fn  func(s string) bool
}

var rules = []rule{
	{tag: "notblank", msg: "{0} must not be blank", fn: func(s string) bool { return strings.TrimSpace(s) != "" }},
	{tag: "hexbytes", msg: "{0} must be an even-length hex string", fn: reHex.MatchString},
}

// NewV10Validator constructs a V10Validator with English translations and
// the custom string rules.
func NewV10Validator() (*V10Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	locale := en.New()
	trans, ok := ut.New(locale, locale).GetTranslator(locale.Locale())
	if !ok {
		return nil, ErrTranslatorNotFound
	}

	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	for _, r := range rules {
		if err := registerRule(validate, trans, r); err != nil {
			return nil, fmt.Errorf("register rule %q: %w", r.tag, err)
		}
	}

	return &V10Validator{validate: validate, translator: trans}, nil
}

// Validate validates a struct and returns a V10ValidationError on failure.
func (v *V10Validator) Validate(data any) error {
	err := v.validate.Struct(data)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	return V10ValidationError(lo.SliceToMap(fieldErrs, func(fe validator.FieldError) (string, string) {
		return lo.SnakeCase(fe.Field()), fe.Translate(v.translator)
	}))
}

func registerRule(validate *validator.Validate, trans ut.Translator, r rule) error {
	err := validate.RegisterValidation(r.tag, func(fl validator.FieldLevel) bool {
		s, ok := fl.Field().Interface().(string)
		return ok && r.fn(s)
	})
	if err != nil {
		return err
	}

	return validate.RegisterTranslation(r.tag, trans,
		func(t ut.Translator) error { return t.Add(r.tag, r.msg, false) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, err := t.T(fe.Tag(), fe.Field())
			if err != nil {
				slog.Warn("failed to translate validation error", "tag", fe.Tag(), "error", err)
				return fe.Error()
			}
			return msg
		},
	)
}

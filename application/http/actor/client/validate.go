package client

import (
	"strings"

	"simple-http/application/http"
	"simple-http/application/util/rule"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/pkg/errors"
)

var (
	ErrInvalidRequest    = errors.New("request is invalid")
	ErrUnsupportedScheme = errors.New("scheme is not supported")
)

// requestTarget holds what must be valid before a request goes on the wire.
type requestTarget struct {
	Method string `validate:"required,token,uppercase"`
	Scheme string `validate:"omitempty,oneof=http"`
	Host   string `validate:"required,hostname_rfc1123|ip"`
}

type requestValidator struct {
	validate *validator.Validate
	trans    ut.Translator
}

func newRequestValidator() (*requestValidator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	err := validate.RegisterValidation("token", func(fl validator.FieldLevel) bool {
		return rule.IsValidToken(fl.Field().String())
	})
	if err != nil {
		return nil, errors.Wrap(err, "registering token validation")
	}

	eng := en.New()
	uni := ut.New(eng, eng)
	trans, ok := uni.GetTranslator("en")
	if !ok {
		return nil, errors.New("no en translator")
	}
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, errors.Wrap(err, "registering en translations")
	}

	return &requestValidator{validate: validate, trans: trans}, nil
}

// mustNewRequestValidator panics if the validator cannot be set up.
func mustNewRequestValidator() *requestValidator {
	v, err := newRequestValidator()
	if err != nil {
		panic(err)
	}
	return v
}

func (v *requestValidator) check(req *http.Request) error {
	u := req.URI()
	target := requestTarget{
		Method: req.Method(),
		Scheme: strings.ToLower(u.Scheme()),
		Host:   strings.Trim(u.Host(), "[]"),
	}

	if target.Scheme == "https" {
		return errors.Wrap(ErrUnsupportedScheme, target.Scheme)
	}

	err := v.validate.Struct(target)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Wrap(err, "validating request")
	}

	messages := make([]string, 0, len(verrs))
	for _, e := range verrs {
		messages = append(messages, e.Translate(v.trans))
	}
	return errors.Wrap(ErrInvalidRequest, strings.Join(messages, ", "))
}

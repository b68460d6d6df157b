package authform

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// emailShape is the deliberately loose "local@domain.tld" test used by the
// form. Anything stricter is the backend's business. Whitespace is rejected
// separately in validEmailShape, since \s in Go only covers ASCII spaces.
var emailShape = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

func validEmailShape(s string) bool {
	return strings.IndexFunc(s, isSpace) < 0 && emailShape.MatchString(s)
}

// isSpace also treats the byte order mark as whitespace.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\ufeff'
}

// messages maps a field and the failing validator tag to the text shown to
// the user.
var messages = map[string]map[string]string{
	string(FieldEmail): {
		"required":    "Email is required",
		"email_shape": "Please enter a valid email",
	},
	string(FieldPassword): {
		"required": "Password is required",
		"min":      "Password must be at least 8 characters",
	},
	string(FieldConfirmPassword): {
		"required": "Please confirm your password",
		"eqfield":  "Passwords do not match",
	},
	string(FieldFirstName): {
		"notblank": "First name is required",
	},
	string(FieldLastName): {
		"notblank": "Last name is required",
	},
	string(FieldTerms): {
		"required": "You must agree to the Terms of Service and Privacy Policy",
	},
}

// Validator wraps the go-playground/validator library and translates its
// errors into an ErrorSet keyed by the buffers' JSON field names.
// It is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a Validator with the form's custom rules registered.
func NewValidator() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("email_shape", func(fl validator.FieldLevel) bool {
		return validEmailShape(fl.Field().String())
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return &Validator{validate: v}
}

// Validate runs the rules of mode against the matching buffer of s.
func (v *Validator) Validate(s State) ErrorSet {
	switch s.mode {
	case ModeSignIn:
		return v.ValidateSignIn(s.signIn)
	case ModeRegister:
		return v.ValidateRegister(s.register)
	case ModeResetRequest:
		return v.ValidateReset(s.reset)
	default:
		return ErrorSet{}
	}
}

// ValidateSignIn checks a sign-in buffer. Password strength is not checked
// here so that older passwords still work.
func (v *Validator) ValidateSignIn(b SignInBuffer) ErrorSet {
	return v.check(b)
}

// ValidateRegister checks every registration field, including the terms
// checkbox, and reports all failures at once.
func (v *Validator) ValidateRegister(b RegisterBuffer) ErrorSet {
	return v.check(b)
}

// ValidateReset checks the reset request email.
func (v *Validator) ValidateReset(b ResetBuffer) ErrorSet {
	return v.check(b)
}

func (v *Validator) check(buffer any) ErrorSet {
	errs := ErrorSet{}

	err := v.validate.Struct(buffer)
	if err == nil {
		return errs
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// Struct only returns anything else for non-struct input.
		panic(fmt.Sprintf("authform: validating %T: %v", buffer, err))
	}

	for _, fe := range fieldErrs {
		key := fe.Field()
		if _, seen := errs[key]; seen {
			continue
		}
		errs[key] = message(key, fe.Tag())
	}
	return errs
}

func message(field, tag string) string {
	if msg, ok := messages[field][tag]; ok {
		return msg
	}
	return field + " is invalid"
}

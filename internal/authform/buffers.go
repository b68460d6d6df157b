package authform

import "fmt"

// Field is the key of a form input. The same keys are used in ErrorSet.
type Field string

const (
	FieldEmail           Field = "email"
	FieldPassword        Field = "password"
	FieldFirstName       Field = "firstName"
	FieldLastName        Field = "lastName"
	FieldConfirmPassword Field = "confirmPassword"

	// FieldTerms is the registration agreement checkbox. It is not a text
	// input, but it reports errors under its own key.
	FieldTerms Field = "terms"
)

// ParseField converts a field name typed by a user into a Field.
func ParseField(s string) (Field, error) {
	switch f := Field(s); f {
	case FieldEmail, FieldPassword, FieldFirstName, FieldLastName, FieldConfirmPassword, FieldTerms:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
}

// Payload is the buffer handed to a Submitter. The concrete buffer type
// decides which mode a submission belongs to.
type Payload interface {
	Mode() Mode
}

// SignInBuffer holds the in-progress sign-in input.
type SignInBuffer struct {
	Email    string `json:"email" validate:"required,email_shape"`
	Password string `json:"password" validate:"required"`
}

// Mode implements Payload.
func (SignInBuffer) Mode() Mode { return ModeSignIn }

// RegisterBuffer holds the in-progress registration input. TermsAccepted is
// part of the same input set and is cleared together with the text fields.
type RegisterBuffer struct {
	FirstName       string `json:"firstName" validate:"notblank"`
	LastName        string `json:"lastName" validate:"notblank"`
	Email           string `json:"email" validate:"required,email_shape"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	TermsAccepted   bool   `json:"terms" validate:"required"`
}

// Mode implements Payload.
func (RegisterBuffer) Mode() Mode { return ModeRegister }

// ResetBuffer holds the email for a password reset request.
type ResetBuffer struct {
	Email string `json:"email" validate:"required,email_shape"`
}

// Mode implements Payload.
func (ResetBuffer) Mode() Mode { return ModeResetRequest }

func (b SignInBuffer) value(f Field) string {
	switch f {
	case FieldEmail:
		return b.Email
	case FieldPassword:
		return b.Password
	}
	return ""
}

func (b SignInBuffer) with(f Field, v string) SignInBuffer {
	switch f {
	case FieldEmail:
		b.Email = v
	case FieldPassword:
		b.Password = v
	}
	return b
}

func (b RegisterBuffer) value(f Field) string {
	switch f {
	case FieldFirstName:
		return b.FirstName
	case FieldLastName:
		return b.LastName
	case FieldEmail:
		return b.Email
	case FieldPassword:
		return b.Password
	case FieldConfirmPassword:
		return b.ConfirmPassword
	}
	return ""
}

func (b RegisterBuffer) with(f Field, v string) RegisterBuffer {
	switch f {
	case FieldFirstName:
		b.FirstName = v
	case FieldLastName:
		b.LastName = v
	case FieldEmail:
		b.Email = v
	case FieldPassword:
		b.Password = v
	case FieldConfirmPassword:
		b.ConfirmPassword = v
	}
	return b
}

func (b ResetBuffer) value(f Field) string {
	if f == FieldEmail {
		return b.Email
	}
	return ""
}

func (b ResetBuffer) with(f Field, v string) ResetBuffer {
	if f == FieldEmail {
		b.Email = v
	}
	return b
}

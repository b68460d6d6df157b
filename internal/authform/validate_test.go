package authform_test

import (
	"strconv"
	"testing"

	"github.com/nfrund/authpanel/internal/authform"
	"github.com/stretchr/testify/assert"
)

func validRegister() authform.RegisterBuffer {
	return authform.RegisterBuffer{
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Email:           "ada@example.com",
		Password:        "analytical",
		ConfirmPassword: "analytical",
		TermsAccepted:   true,
	}
}

func TestValidateEmailShape(t *testing.T) {
	v := authform.NewValidator()

	valid := []string{"a@b.com", "first.last@sub.example.org", "x+tag@host.co.uk", "ü@ö.de"}
	for _, email := range valid {
		t.Run("accepts "+email, func(t *testing.T) {
			errs := v.ValidateSignIn(authform.SignInBuffer{Email: email, Password: "x"})
			assert.False(t, errs.Has(authform.FieldEmail), "unexpected error for %q: %v", email, errs)
		})
	}

	invalid := []string{
		"plain", "a@b", "@b.com", "a@.com", "a@b.", "a b@c.com", "a@b c.com", "a@@b.com", " ", "a@b.c om",
		"a\u00a0b@c.com", "a\vb@c.com", "ab@c.\u2003com", "ab@c\u3000.com", "ab@c.com\u2028", "\ufeffab@c.com",
	}
	for _, email := range invalid {
		t.Run("rejects "+strconv.Quote(email), func(t *testing.T) {
			errs := v.ValidateSignIn(authform.SignInBuffer{Email: email, Password: "x"})
			assert.Equal(t, "Please enter a valid email", errs.Get(authform.FieldEmail))
		})
	}

	t.Run("unicode whitespace in reset email", func(t *testing.T) {
		errs := v.ValidateReset(authform.ResetBuffer{Email: "a\u00a0b@c.com"})
		assert.Equal(t, authform.ErrorSet{"email": "Please enter a valid email"}, errs)
	})

	t.Run("required wins over format", func(t *testing.T) {
		errs := v.ValidateReset(authform.ResetBuffer{})
		assert.Equal(t, authform.ErrorSet{"email": "Email is required"}, errs)
	})
}

func TestValidateSignIn(t *testing.T) {
	v := authform.NewValidator()

	t.Run("empty password", func(t *testing.T) {
		errs := v.ValidateSignIn(authform.SignInBuffer{Email: "a@b.com"})
		assert.Equal(t, authform.ErrorSet{"password": "Password is required"}, errs)
	})

	t.Run("short password accepted", func(t *testing.T) {
		errs := v.ValidateSignIn(authform.SignInBuffer{Email: "a@b.com", Password: "x"})
		assert.True(t, errs.Empty())
	})

	t.Run("reports every field at once", func(t *testing.T) {
		errs := v.ValidateSignIn(authform.SignInBuffer{})
		assert.Equal(t, []string{"email", "password"}, errs.Keys())
	})
}

func TestValidateRegister(t *testing.T) {
	v := authform.NewValidator()

	tests := []struct {
		name   string
		mutate func(b *authform.RegisterBuffer)
		want   authform.ErrorSet
	}{
		{
			name:   "fully valid",
			mutate: func(b *authform.RegisterBuffer) {},
			want:   authform.ErrorSet{},
		},
		{
			name:   "blank first name",
			mutate: func(b *authform.RegisterBuffer) { b.FirstName = "   " },
			want:   authform.ErrorSet{"firstName": "First name is required"},
		},
		{
			name:   "empty last name",
			mutate: func(b *authform.RegisterBuffer) { b.LastName = "" },
			want:   authform.ErrorSet{"lastName": "Last name is required"},
		},
		{
			name: "short password",
			mutate: func(b *authform.RegisterBuffer) {
				b.Password = "short"
				b.ConfirmPassword = "short"
			},
			want: authform.ErrorSet{"password": "Password must be at least 8 characters"},
		},
		{
			name: "empty password",
			mutate: func(b *authform.RegisterBuffer) {
				b.Password = ""
			},
			want: authform.ErrorSet{
				"password":        "Password is required",
				"confirmPassword": "Passwords do not match",
			},
		},
		{
			name:   "missing confirmation",
			mutate: func(b *authform.RegisterBuffer) { b.ConfirmPassword = "" },
			want:   authform.ErrorSet{"confirmPassword": "Please confirm your password"},
		},
		{
			name:   "mismatched confirmation",
			mutate: func(b *authform.RegisterBuffer) { b.ConfirmPassword = "analyticaL" },
			want:   authform.ErrorSet{"confirmPassword": "Passwords do not match"},
		},
		{
			name:   "terms not accepted",
			mutate: func(b *authform.RegisterBuffer) { b.TermsAccepted = false },
			want:   authform.ErrorSet{"terms": "You must agree to the Terms of Service and Privacy Policy"},
		},
		{
			name: "everything wrong",
			mutate: func(b *authform.RegisterBuffer) {
				*b = authform.RegisterBuffer{Email: "nope"}
			},
			want: authform.ErrorSet{
				"firstName":       "First name is required",
				"lastName":        "Last name is required",
				"email":           "Please enter a valid email",
				"password":        "Password is required",
				"confirmPassword": "Please confirm your password",
				"terms":           "You must agree to the Terms of Service and Privacy Policy",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validRegister()
			tt.mutate(&b)
			assert.Equal(t, tt.want, v.ValidateRegister(b))
		})
	}
}

func TestValidateRegisterPasswordsMatch(t *testing.T) {
	v := authform.NewValidator()

	pairs := [][2]string{{"password1", "password2"}, {"abcdefgh", "abcdefgH"}, {"12345678", "12345678 "}}
	for _, p := range pairs {
		b := validRegister()
		b.Password, b.ConfirmPassword = p[0], p[1]
		assert.True(t, v.ValidateRegister(b).Has(authform.FieldConfirmPassword), "%q vs %q", p[0], p[1])
	}

	for _, pw := range []string{"x", "password", "ünïcödé-pass"} {
		b := validRegister()
		b.Password, b.ConfirmPassword = pw, pw
		assert.False(t, v.ValidateRegister(b).Has(authform.FieldConfirmPassword), "%q", pw)
	}
}

func TestValidateRegisterTermsAlwaysReported(t *testing.T) {
	v := authform.NewValidator()

	for _, b := range []authform.RegisterBuffer{{}, validRegister()} {
		b.TermsAccepted = false
		assert.True(t, v.ValidateRegister(b).Has(authform.FieldTerms))
	}
}

func TestValidateReset(t *testing.T) {
	v := authform.NewValidator()

	assert.True(t, v.ValidateReset(authform.ResetBuffer{Email: "a@b.com"}).Empty())
	assert.Equal(t, authform.ErrorSet{"email": "Please enter a valid email"}, v.ValidateReset(authform.ResetBuffer{Email: "a@b"}))
}

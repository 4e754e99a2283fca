package auth

import (
	"strings"

	"github.com/angelmondragon/marketplace-backend/internal/users"
	"github.com/angelmondragon/marketplace-backend/pkg/validation"
)

const minPasswordLength = 6

// RegisterRequest opens a local account.
type RegisterRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Name     *string `json:"name"`
}

func (r RegisterRequest) Validate() validation.Errors {
	var b validation.Builder
	validateCredentials(&b, r.Email, r.Password)
	return b.Errors()
}

func (r RegisterRequest) TypeMessages() map[string]string {
	return credentialTypeMessages()
}

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

func (r LoginRequest) Validate() validation.Errors {
	var b validation.Builder
	validateCredentials(&b, r.Email, r.Password)
	return b.Errors()
}

func (r LoginRequest) TypeMessages() map[string]string {
	return credentialTypeMessages()
}

// AuthResponse is returned by every flow that issues tokens. The refresh
// token never leaves the server in the body; controllers move it to a cookie.
type AuthResponse struct {
	User         *users.UserDTO `json:"user"`
	AccessToken  string         `json:"accessToken"`
	RefreshToken string         `json:"-"`
}

func validateCredentials(b *validation.Builder, email, password *string) {
	if email == nil {
		b.Fail("email", "invalid-email")
	} else {
		b.Tag("email", strings.TrimSpace(*email), "required,email", "invalid-email")
	}
	b.Check(password != nil && len(*password) >= minPasswordLength, "password", "min-password-length-6")
}

func credentialTypeMessages() map[string]string {
	return map[string]string{
		"email":    "invalid-email",
		"password": "min-password-length-6",
		"name":     "name-must-be-string",
	}
}

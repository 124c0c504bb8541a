package validation

import (
	"fmt"
	"unicode/utf8"

	"github.com/rentflow/rentauth/pkg/response"
)

// Structural request validation. These run before any side effect; a failure
// here means no credential check, token issuance or store access happened.

const (
	nameMinLen     = 3
	nameMaxLen     = 100
	passwordMinLen = 6
	passwordMaxLen = 100
)

// Login validates the login request fields.
func Login(name, password string) error {
	if name == "" {
		return response.NewValidationFailed("name is required")
	}
	if n := utf8.RuneCountInString(name); n < nameMinLen || n > nameMaxLen {
		return response.NewValidationFailed(
			fmt.Sprintf("name must be between %d and %d characters", nameMinLen, nameMaxLen))
	}
	if password == "" {
		return response.NewValidationFailed("password is required")
	}
	if n := utf8.RuneCountInString(password); n < passwordMinLen || n > passwordMaxLen {
		return response.NewValidationFailed(
			fmt.Sprintf("password must be between %d and %d characters", passwordMinLen, passwordMaxLen))
	}
	return nil
}

// Refresh validates the refresh request fields.
func Refresh(accessToken, refreshToken string) error {
	if accessToken == "" {
		return response.NewValidationFailed("access token is required")
	}
	if refreshToken == "" {
		return response.NewValidationFailed("refresh token is required")
	}
	return nil
}

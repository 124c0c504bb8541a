package clients

import (
	"context"
	"errors"
)

// ErrInvalidCredentials is the single credential-failure signal. Callers never
// learn whether the name existed; transport failures collapse into it too, so
// an outage can never be mistaken for a successful login.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Identity is the opaque principal returned by the credential authority.
type Identity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CredentialVerifier checks a name/password pair against the credential
// authority and returns the matching identity.
type CredentialVerifier interface {
	Verify(ctx context.Context, name, password string) (*Identity, error)
}

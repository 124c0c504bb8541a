package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/rentflow/rentauth/pkg/response"
)

func assertValidationFailed(t *testing.T, name string, err error) {
	t.Helper()
	var appErr *response.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("%s: error = %v, expected *response.AppError", name, err)
	}
	if appErr.Code != response.CodeValidationFailed {
		t.Errorf("%s: code = %q, expected %q", name, appErr.Code, response.CodeValidationFailed)
	}
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name     string
		loginName string
		password string
		wantErr  bool
	}{
		{"valid", "alice", "secret1", false},
		{"empty name", "", "secret1", true},
		{"name too short", "al", "secret1", true},
		{"multibyte name too short", "ñá", "secret1", true},
		{"multibyte name at min", "ñáé", "secret1", false},
		{"name too long", strings.Repeat("a", 101), "secret1", true},
		{"name at max", strings.Repeat("a", 100), "secret1", false},
		{"multibyte name at max", strings.Repeat("ñ", 100), "secret1", false},
		{"empty password", "alice", "", true},
		{"password too short", "alice", "12345", true},
		{"password too long", "alice", strings.Repeat("p", 101), true},
		{"password at min", "alice", "123456", false},
		{"multibyte password at min", "alice", "ñáéíóú", false},
	}

	for _, tt := range tests {
		err := Login(tt.loginName, tt.password)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%s: expected error", tt.name)
				continue
			}
			assertValidationFailed(t, tt.name, err)
		} else if err != nil {
			t.Errorf("%s: unexpected error %v", tt.name, err)
		}
	}
}

func TestRefresh(t *testing.T) {
	tests := []struct {
		name         string
		accessToken  string
		refreshToken string
		wantErr      bool
	}{
		{"valid", "some.jwt.token", "some-refresh-value", false},
		{"empty access token", "", "some-refresh-value", true},
		{"empty refresh token", "some.jwt.token", "", true},
		{"both empty", "", "", true},
	}

	for _, tt := range tests {
		err := Refresh(tt.accessToken, tt.refreshToken)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%s: expected error", tt.name)
				continue
			}
			assertValidationFailed(t, tt.name, err)
		} else if err != nil {
			t.Errorf("%s: unexpected error %v", tt.name, err)
		}
	}
}

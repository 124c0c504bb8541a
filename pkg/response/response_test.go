package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	router := gin.New()
	router.GET("/test", handler)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	router.ServeHTTP(w, req)
	return w
}

func TestSuccess(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Success(c, gin.H{"value": 42})
	})

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, expected %d", w.Code, http.StatusOK)
	}

	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Code != "OK" {
		t.Errorf("code = %q, expected %q", resp.Code, "OK")
	}
}

func TestError_AppError(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantStatus int
		wantCode   string
	}{
		{"validation", NewValidationFailed("name is required"), http.StatusBadRequest, CodeValidationFailed},
		{"credentials", NewUnauthorized(CodeInvalidCredentials, "invalid credentials"), http.StatusUnauthorized, CodeInvalidCredentials},
		{"refresh not found", NewUnauthorized(CodeRefreshTokenNotFound, "refresh token not found"), http.StatusUnauthorized, CodeRefreshTokenNotFound},
		{"not found", NewNotFound("no such session"), http.StatusNotFound, CodeNotFound},
		{"internal", NewInternal(), http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		w := performRequest(func(c *gin.Context) {
			Error(c, tt.err)
		})

		if w.Code != tt.wantStatus {
			t.Errorf("%s: status = %d, expected %d", tt.name, w.Code, tt.wantStatus)
		}

		var resp Response
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s: unmarshal response: %v", tt.name, err)
		}
		if resp.Code != tt.wantCode {
			t.Errorf("%s: code = %q, expected %q", tt.name, resp.Code, tt.wantCode)
		}
	}
}

func TestError_MasksUnexpectedErrors(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Error(c, http.ErrServerClosed)
	})

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, expected %d", w.Code, http.StatusInternalServerError)
	}

	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Code != CodeInternal {
		t.Errorf("code = %q, expected %q", resp.Code, CodeInternal)
	}
	if resp.Message != "internal server error" {
		t.Errorf("message %q leaks error detail", resp.Message)
	}
}

func TestAppError_Error(t *testing.T) {
	err := NewValidationFailed("bad input")
	if err.Error() != "bad input" {
		t.Errorf("Error() = %q, expected %q", err.Error(), "bad input")
	}
}

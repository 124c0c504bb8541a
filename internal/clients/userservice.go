package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rentflow/rentauth/internal/config"
	"github.com/rentflow/rentauth/pkg/logger"
)

// UserServiceClient verifies credentials against the user service over HTTP.
type UserServiceClient struct {
	baseURL string
	client  *http.Client
}

type validateCredentialsRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type validateCredentialsResponse struct {
	Message string    `json:"message"`
	User    *Identity `json:"user"`
}

func NewUserServiceClient(cfg *config.AuthConfig) *UserServiceClient {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &UserServiceClient{
		baseURL: cfg.UserServiceURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *UserServiceClient) Verify(ctx context.Context, name, password string) (*Identity, error) {
	payload, err := json.Marshal(validateCredentialsRequest{Name: name, Password: password})
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/v1/users/validate-credentials", bytes.NewBuffer(payload))
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		logger.Warn().Err(err).Msg("user service unreachable, rejecting credentials")
		return nil, ErrInvalidCredentials
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrInvalidCredentials
	}

	var result validateCredentialsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		logger.Warn().Err(err).Msg("malformed response from user service")
		return nil, ErrInvalidCredentials
	}
	if result.User == nil || result.User.ID == "" {
		return nil, ErrInvalidCredentials
	}

	return result.User, nil
}

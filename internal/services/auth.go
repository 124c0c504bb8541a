package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rentflow/rentauth/internal/clients"
	"github.com/rentflow/rentauth/internal/config"
	"github.com/rentflow/rentauth/internal/models"
	"github.com/rentflow/rentauth/internal/store"
	"github.com/rentflow/rentauth/internal/token"
	"github.com/rentflow/rentauth/internal/validation"
	"github.com/rentflow/rentauth/pkg/logger"
	"github.com/rentflow/rentauth/pkg/response"
)

type LoginRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	AccessToken  string `json:"accessToken" binding:"required"`
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// AuthSession is the token pair returned on login and refresh. It is never
// persisted.
type AuthSession struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
	TokenType    string `json:"tokenType"`
	UserID       string `json:"userId,omitempty"`
}

// AuthService orchestrates the token lifecycle: login issues a fresh pair,
// refresh exchanges an expired access token plus a live refresh token for a
// new pair, rotating the refresh token in place.
type AuthService struct {
	verifier   clients.CredentialVerifier
	signer     *token.Signer
	tokens     store.RefreshTokenStore
	refreshTTL time.Duration
}

func NewAuthService(verifier clients.CredentialVerifier, signer *token.Signer, tokens store.RefreshTokenStore, jwtCfg *config.JWTConfig) *AuthService {
	return &AuthService{
		verifier:   verifier,
		signer:     signer,
		tokens:     tokens,
		refreshTTL: time.Duration(jwtCfg.RefreshTokenExpireDays) * 24 * time.Hour,
	}
}

// Login verifies credentials and issues a token pair, persisting the refresh
// token. Every failure before persistence leaves no state behind.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*AuthSession, error) {
	if err := validation.Login(req.Name, req.Password); err != nil {
		return nil, err
	}

	identity, err := s.verifier.Verify(ctx, req.Name, req.Password)
	if err != nil {
		if errors.Is(err, clients.ErrInvalidCredentials) {
			logger.Warn().Str("name", req.Name).Msg("failed login attempt")
			return nil, response.NewUnauthorized(response.CodeInvalidCredentials, "invalid credentials")
		}
		logger.Error().Err(err).Msg("credential verification failed")
		return nil, response.NewInternal()
	}

	accessToken, err := s.signer.IssueAccessToken(identity.ID)
	if err != nil {
		logger.Error().Err(err).Msg("access token signing failed")
		return nil, response.NewInternal()
	}

	refreshValue, err := s.persistNewRefreshToken(ctx, identity.ID)
	if err != nil {
		return nil, err
	}

	logger.Info().Str("user_id", identity.ID).Msg("user logged in")
	return s.session(accessToken, refreshValue, identity.ID), nil
}

// Refresh exchanges an expired-but-authentic access token and a valid refresh
// token for a new pair. The refresh token is validated before any claim of
// the access token is trusted, and is rotated in place: the presented value
// stops matching immediately, while id, owner and creation time survive.
func (s *AuthService) Refresh(ctx context.Context, req *RefreshRequest) (*AuthSession, error) {
	if err := validation.Refresh(req.AccessToken, req.RefreshToken); err != nil {
		return nil, err
	}

	record, err := s.tokens.GetByToken(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, response.NewUnauthorized(response.CodeRefreshTokenNotFound, "refresh token not found")
		}
		logger.Error().Err(err).Msg("refresh token lookup failed")
		return nil, response.NewInternal()
	}

	if !record.IsValid() {
		return nil, response.NewUnauthorized(response.CodeRefreshTokenInvalid, "refresh token invalid")
	}

	claims, err := s.signer.ParseExpired(req.AccessToken)
	if err != nil {
		return nil, response.NewUnauthorized(response.CodeAccessTokenInvalid, "access token invalid")
	}

	if claims.Subject == "" {
		return nil, response.NewUnauthorized(response.CodeUserIDNotFound, "user id not found in token")
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, response.NewUnauthorized(response.CodeUserIDNotFound, "user id not found in token")
	}

	// The access token must belong to the same principal as the refresh
	// token; otherwise a stolen refresh token could be paired with any
	// user's expired access token.
	if claims.Subject != record.UserID {
		logger.Warn().
			Str("token_user", claims.Subject).
			Str("record_user", record.UserID).
			Msg("refresh rejected: token pair belongs to different users")
		return nil, response.NewUnauthorized(response.CodeAccessTokenInvalid, "access token invalid")
	}

	newAccessToken, err := s.signer.IssueAccessToken(record.UserID)
	if err != nil {
		logger.Error().Err(err).Msg("access token signing failed")
		return nil, response.NewInternal()
	}

	newRefreshValue, err := s.signer.NewRefreshTokenValue()
	if err != nil {
		logger.Error().Err(err).Msg("refresh token generation failed")
		return nil, response.NewInternal()
	}

	err = s.tokens.Rotate(ctx, record.ID, req.RefreshToken, newRefreshValue, time.Now().Add(s.refreshTTL))
	if err != nil {
		// A lost rotation race means another request already consumed
		// this value; the caller's token is stale either way.
		if errors.Is(err, store.ErrConflict) || errors.Is(err, store.ErrNotFound) {
			return nil, response.NewUnauthorized(response.CodeRefreshTokenInvalid, "refresh token invalid")
		}
		logger.Error().Err(err).Msg("refresh token rotation failed")
		return nil, response.NewInternal()
	}

	logger.Info().Str("user_id", record.UserID).Msg("tokens refreshed")
	return s.session(newAccessToken, newRefreshValue, record.UserID), nil
}

// Logout revokes the refresh token matching the given value. Unknown values
// are ignored so logout stays idempotent.
func (s *AuthService) Logout(ctx context.Context, refreshValue string) error {
	if refreshValue == "" {
		return nil
	}

	record, err := s.tokens.GetByToken(ctx, refreshValue)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		logger.Error().Err(err).Msg("logout lookup failed")
		return response.NewInternal()
	}

	if err := s.tokens.Revoke(ctx, record.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		logger.Error().Err(err).Msg("logout revocation failed")
		return response.NewInternal()
	}
	return nil
}

// Sessions lists the user's refresh-token records.
func (s *AuthService) Sessions(ctx context.Context, userID string) ([]models.RefreshToken, error) {
	tokens, err := s.tokens.ListByUser(ctx, userID)
	if err != nil {
		logger.Error().Err(err).Msg("session listing failed")
		return nil, response.NewInternal()
	}
	return tokens, nil
}

// RevokeSession revokes one of the user's sessions by record id. Sessions of
// other users are reported as not found rather than forbidden.
func (s *AuthService) RevokeSession(ctx context.Context, userID, id string) error {
	record, err := s.tokens.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return response.NewNotFound("session not found")
		}
		logger.Error().Err(err).Msg("session lookup failed")
		return response.NewInternal()
	}
	if record.UserID != userID {
		return response.NewNotFound("session not found")
	}

	if err := s.tokens.Revoke(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return response.NewNotFound("session not found")
		}
		logger.Error().Err(err).Msg("session revocation failed")
		return response.NewInternal()
	}
	return nil
}

// DeleteSession removes a refresh-token record entirely. Administrative path;
// the login/refresh flow never deletes records.
func (s *AuthService) DeleteSession(ctx context.Context, id string) error {
	if err := s.tokens.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return response.NewNotFound("session not found")
		}
		logger.Error().Err(err).Msg("session deletion failed")
		return response.NewInternal()
	}
	return nil
}

// persistNewRefreshToken generates and stores a refresh-token record. A
// random-value collision is retried once with a fresh value before giving up.
func (s *AuthService) persistNewRefreshToken(ctx context.Context, userID string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		value, err := s.signer.NewRefreshTokenValue()
		if err != nil {
			logger.Error().Err(err).Msg("refresh token generation failed")
			return "", response.NewInternal()
		}

		record := &models.RefreshToken{
			ID:        uuid.NewString(),
			UserID:    userID,
			Token:     value,
			ExpiresAt: time.Now().Add(s.refreshTTL),
			IsRevoked: false,
		}

		err = s.tokens.Add(ctx, record)
		if err == nil {
			return value, nil
		}
		if !errors.Is(err, store.ErrDuplicateToken) {
			logger.Error().Err(err).Msg("refresh token persistence failed")
			return "", response.NewInternal()
		}
		lastErr = err
	}

	logger.Error().Err(lastErr).Msg("refresh token value collided twice")
	return "", response.NewInternal()
}

func (s *AuthService) session(accessToken, refreshValue, userID string) *AuthSession {
	return &AuthSession{
		AccessToken:  accessToken,
		RefreshToken: refreshValue,
		ExpiresIn:    int(s.signer.AccessTokenTTL().Seconds()),
		TokenType:    "Bearer",
		UserID:       userID,
	}
}

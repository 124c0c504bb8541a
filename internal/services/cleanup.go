package services

import (
	"context"
	"time"

	"github.com/rentflow/rentauth/internal/config"
	"github.com/rentflow/rentauth/internal/store"
	"github.com/rentflow/rentauth/pkg/logger"
	"github.com/robfig/cron/v3"
)

// CleanupService periodically purges refresh-token records whose expiry has
// passed. Expired tokens are already unusable; this only reclaims storage.
type CleanupService struct {
	tokens   store.RefreshTokenStore
	schedule string
	cron     *cron.Cron
}

func NewCleanupService(tokens store.RefreshTokenStore, cfg *config.CleanupConfig) *CleanupService {
	return &CleanupService{
		tokens:   tokens,
		schedule: cfg.Schedule,
	}
}

// Start registers the cron job. Returns an error for a malformed schedule.
func (s *CleanupService) Start() error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.schedule, s.runOnce); err != nil {
		return err
	}
	s.cron.Start()
	logger.Info().Str("schedule", s.schedule).Msg("refresh token cleanup scheduled")
	return nil
}

// Stop halts the scheduler, waiting for a running purge to finish.
func (s *CleanupService) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

func (s *CleanupService) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := s.tokens.DeleteExpired(ctx, time.Now())
	if err != nil {
		logger.Error().Err(err).Msg("refresh token cleanup failed")
		return
	}
	if n > 0 {
		logger.Info().Int64("deleted", n).Msg("expired refresh tokens purged")
	}
}

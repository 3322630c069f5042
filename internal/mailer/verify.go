package mailer

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const defaultVerifyInterval = 10 * time.Second

// VerifyWithRetry checks transport connectivity on a fixed delay until it
// succeeds or ctx is cancelled. It runs off the request path and does not
// gate request handling; submissions are attempted regardless of its outcome.
func VerifyWithRetry(ctx context.Context, s Sender, interval time.Duration, log zerolog.Logger) {
	if interval <= 0 {
		interval = defaultVerifyInterval
	}

	for {
		err := s.Verify(ctx)
		if err == nil {
			log.Info().Msg("smtp transport verified")
			return
		}
		log.Warn().Err(err).Dur("retry_in", interval).Msg("smtp transport verification failed")

		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}
	}
}

package contact

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/sungwon/contact-relay/internal/mailer"
	"github.com/sungwon/contact-relay/internal/metrics"
)

// Service runs the submission pipeline: sanitize, validate, compose, dispatch.
// It holds no per-request state and is safe for concurrent use; the only
// shared resource is the pooled mail transport behind the Sender.
type Service struct {
	sender mailer.Sender
	cfg    ComposeConfig
	log    zerolog.Logger
}

// NewService creates a Service backed by the given transport.
func NewService(sender mailer.Sender, cfg ComposeConfig, log zerolog.Logger) *Service {
	return &Service{
		sender: sender,
		cfg:    cfg,
		log:    log,
	}
}

// Acknowledgement is returned after a successful dispatch.
type Acknowledgement struct {
	MessageID string
}

// Submit processes one submission. Validation failures return a
// *ValidationError and make no dispatch attempt; a submission that reaches
// dispatch has passed every check and is never re-validated. Dispatch
// failures return a *mailer.SendError; exactly one send attempt is made per
// call, with no retry.
func (svc *Service) Submit(ctx context.Context, sub *Submission) (*Acknowledgement, error) {
	sub.Sanitize()

	if err := sub.Validate(); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("rejected").Inc()
		svc.log.Warn().Err(err).Msg("submission rejected")
		return nil, err
	}

	msg := sub.Compose(svc.cfg)

	start := time.Now()
	result, err := svc.sender.Send(ctx, msg)
	metrics.DispatchDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		sendErr := mailer.Classify(err)
		metrics.SubmissionsTotal.WithLabelValues("dispatch_failed").Inc()
		svc.log.Error().Err(err).
			Str("category", string(sendErr.Category)).
			Msg("dispatch failed")
		return nil, sendErr
	}

	metrics.SubmissionsTotal.WithLabelValues("accepted").Inc()
	svc.log.Info().
		Str("message_id", result.MessageID).
		Str("reply_to", sub.Email).
		Msg("submission dispatched")

	return &Acknowledgement{MessageID: result.MessageID}, nil
}

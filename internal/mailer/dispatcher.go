package mailer

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/inkpress/blog-engine/internal/domain"
)

// RenderFunc produces the message for one recipient, allowing per-recipient
// personalisation without the dispatcher knowing about templates.
type RenderFunc func(recipient domain.Subscriber) (Message, error)

// Outcome is the settled result of one recipient's send.
type Outcome struct {
	Recipient domain.Subscriber
	Err       error
}

// MetricHooks carries the metric callbacks injected by main.
type MetricHooks struct {
	OnSent   func()
	OnFailed func()
}

// BulkDispatcher fans a rendered message out to a recipient list with a
// bounded worker pool. Concurrency is capped to respect the upstream mail
// provider's limits, and a token-bucket limiter additionally caps the
// steady-state send rate.
//
// Every recipient's send is isolated: a failure is captured in that
// recipient's Outcome and never cancels or fails sibling sends. SendBulk
// settles all jobs before returning.
type BulkDispatcher struct {
	sender      Sender
	concurrency int
	limiter     *rate.Limiter
	logger      *zap.Logger
	hooks       MetricHooks
}

func NewBulkDispatcher(sender Sender, concurrency, ratePerSec int, logger *zap.Logger, hooks MetricHooks) *BulkDispatcher {
	if concurrency < 1 {
		concurrency = 1
	}
	if ratePerSec < 1 {
		ratePerSec = 1
	}
	if hooks.OnSent == nil {
		hooks.OnSent = func() {}
	}
	if hooks.OnFailed == nil {
		hooks.OnFailed = func() {}
	}
	return &BulkDispatcher{
		sender:      sender,
		concurrency: concurrency,
		// burst == rate: no saved-up burst above the per-second cap
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), ratePerSec),
		logger:  logger,
		hooks:   hooks,
	}
}

// SendBulk renders and sends one message per recipient and returns one
// Outcome per recipient, in input order. Every job settles before SendBulk
// returns; all failures, a cancelled ctx included, surface only in the
// affected recipients' Outcome.Err.
func (d *BulkDispatcher) SendBulk(ctx context.Context, recipients []domain.Subscriber, render RenderFunc) []Outcome {
	outcomes := make([]Outcome, len(recipients))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)

	for i, r := range recipients {
		i, r := i, r
		g.Go(func() error {
			outcomes[i] = Outcome{Recipient: r, Err: d.sendOne(gctx, r, render)}
			// Job errors are captured per recipient, never returned:
			// returning one would cancel the group's context and
			// short-circuit sibling sends.
			return nil
		})
	}

	_ = g.Wait() // jobs never return errors

	sent, failed := 0, 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			d.hooks.OnFailed()
			d.logger.Warn("mail send failed",
				zap.String("to", o.Recipient.Email), zap.Error(o.Err))
		} else {
			sent++
			d.hooks.OnSent()
		}
	}
	d.logger.Info("bulk mail settled",
		zap.Int("recipients", len(recipients)),
		zap.Int("sent", sent),
		zap.Int("failed", failed),
	)

	return outcomes
}

func (d *BulkDispatcher) sendOne(ctx context.Context, r domain.Subscriber, render RenderFunc) error {
	if r.Email == "" {
		return fmt.Errorf("recipient %s has no email address", r.UserID)
	}

	msg, err := render(r)
	if err != nil {
		return fmt.Errorf("render message: %w", err)
	}

	if err := d.limiter.Wait(ctx); err != nil {
		return err
	}

	return d.sender.Send(ctx, r.Email, msg)
}

package agent

import (
	"context"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/crystaldolphin/toolchat/internal/schema"
)

const (
	defaultRetryAttempts    = 2
	defaultRetryBackoffBase = 500 * time.Millisecond
	defaultRetryBackoffMax  = 10 * time.Second
)

// RetrySettings bounds one backend round trip.
type RetrySettings struct {
	Attempts    int // retries after the first call
	BackoffBase time.Duration
	BackoffMax  time.Duration
	Jitter      bool
	Timeout     time.Duration // whole round trip, retries included; 0 = none
}

// Invoker issues one backend round trip with timeout and retries.
type Invoker struct {
	provider schema.LLMProvider
	cfg      RetrySettings
}

func NewInvoker(provider schema.LLMProvider, cfg RetrySettings) *Invoker {
	if cfg.Attempts < 0 || cfg.Attempts > 100 {
		cfg.Attempts = defaultRetryAttempts
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = defaultRetryBackoffBase
	}
	if cfg.BackoffMax <= 0 {
		cfg.BackoffMax = defaultRetryBackoffMax
	}
	return &Invoker{provider: provider, cfg: cfg}
}

func (i *Invoker) backoff() retry.Backoff {
	b := retry.NewExponential(i.cfg.BackoffBase)
	b = retry.WithMaxDuration(i.cfg.BackoffMax, b)
	if i.cfg.Jitter {
		b = retry.WithJitter(50*time.Millisecond, b)
	}
	return retry.WithMaxRetries(uint64(i.cfg.Attempts), b) // #nosec G115 -- bounded above
}

// Chat calls the provider, retrying failures that report themselves retryable.
func (i *Invoker) Chat(
	ctx context.Context,
	turns schema.Turns,
	tools []map[string]any,
	opts schema.ChatOptions,
) (schema.LLMResponse, error) {
	if i.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.cfg.Timeout)
		defer cancel()
	}

	var resp schema.LLMResponse
	attempt := 0
	err := retry.Do(ctx, i.backoff(), func(ctx context.Context) error {
		attempt++
		var callErr error
		resp, callErr = i.provider.Chat(ctx, turns, tools, opts)
		if callErr == nil {
			return nil
		}
		if isRetryable(callErr) {
			slog.Warn("Backend call failed, retrying", "attempt", attempt, "err", callErr)
			return retry.RetryableError(callErr)
		}
		return callErr
	})
	return resp, err
}

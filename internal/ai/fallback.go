package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Fallback tries the primary provider once and, on any failure, the
// secondary once. There are no retries beyond that.
type Fallback struct {
	primary   Provider
	secondary Provider
	logger    *zap.Logger
	attempts  *prometheus.CounterVec
}

// NewFallback chains two providers. attempts may be nil; when set it is
// incremented with labels provider and outcome ("ok" or "error").
func NewFallback(primary, secondary Provider, logger *zap.Logger, attempts *prometheus.CounterVec) *Fallback {
	return &Fallback{
		primary:   primary,
		secondary: secondary,
		logger:    logger,
		attempts:  attempts,
	}
}

func (f *Fallback) Complete(ctx context.Context, req Request) (string, error) {
	text, primaryErr := f.try(ctx, f.primary, req)
	if primaryErr == nil {
		return text, nil
	}
	f.logger.Warn("primary AI provider failed, falling back",
		zap.String("provider", f.primary.Name()),
		zap.String("fallback", f.secondary.Name()),
		zap.Error(primaryErr),
	)

	text, secondaryErr := f.try(ctx, f.secondary, req)
	if secondaryErr == nil {
		return text, nil
	}
	f.logger.Error("fallback AI provider failed",
		zap.String("provider", f.secondary.Name()),
		zap.Error(secondaryErr),
	)

	return "", fmt.Errorf("%w: %w; %w", ErrAllProvidersFailed, primaryErr, secondaryErr)
}

func (f *Fallback) try(ctx context.Context, p Provider, req Request) (string, error) {
	text, err := p.Complete(ctx, req)
	text = strings.TrimSpace(text)
	if err == nil && text == "" {
		err = ErrEmptyCompletion
	}
	if f.attempts != nil {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		f.attempts.WithLabelValues(p.Name(), outcome).Inc()
	}
	return text, err
}

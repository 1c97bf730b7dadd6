package mail

import (
	"context"

	"go.uber.org/zap"
)

// LogSender writes messages to the log instead of delivering them.
// Used in development when RESEND_API_KEY is unset.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("[dev mode] email not delivered",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("html", msg.HTML),
	)
	return nil
}

package mail

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

type ResendSender struct {
	client *resend.Client
	logger *zap.Logger
}

func NewResendSender(apiKey string, logger *zap.Logger) *ResendSender {
	return &ResendSender{
		client: resend.NewClient(apiKey),
		logger: logger,
	}
}

func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	sent, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	s.logger.Info("email sent", zap.String("id", sent.Id), zap.String("subject", msg.Subject))
	return nil
}

package notify

import (
	"context"
	"fmt"

	"github.com/paykit/order-gateway/pkg/logger"
)

// LogMailer is the demo delivery backend: it writes the would-be email to
// the log. A real SMTP or provider-API mailer slots in behind the Mailer
// interface without touching the pipeline.
type LogMailer struct {
	baseURL string
}

func NewLogMailer(verificationBaseURL string) *LogMailer {
	return &LogMailer{baseURL: verificationBaseURL}
}

func (m *LogMailer) Send(ctx context.Context, event EmailEvent) error {
	switch event.Kind {
	case EmailKindVerification:
		link := fmt.Sprintf("%s/customers/verify?email=%s&token=%s", m.baseURL, event.Recipient, event.VerifyToken)
		logger.Info("sending verification email",
			"recipient", event.Recipient,
			"customer_id", event.CustomerID,
			"link", link,
		)
		return nil
	default:
		return fmt.Errorf("unknown email kind %q", event.Kind)
	}
}

package notify

import "context"

// EmailKind distinguishes the notification templates the demo sends.
type EmailKind string

const (
	EmailKindVerification EmailKind = "verification"
)

// EmailEvent is the payload published to the notification queue. Delivery is
// best-effort by policy: a failed publish or send never rolls back the
// database write it follows.
type EmailEvent struct {
	Kind        EmailKind `json:"kind"`
	Recipient   string    `json:"recipient"`
	CustomerID  int64     `json:"customer_id"`
	VerifyToken string    `json:"verify_token,omitempty"`
}

// Publisher is the producer side of the pipeline, used by services.
type Publisher interface {
	PublishEmail(ctx context.Context, event EmailEvent) error
}

// Mailer performs the actual delivery on the consumer side.
type Mailer interface {
	Send(ctx context.Context, event EmailEvent) error
}

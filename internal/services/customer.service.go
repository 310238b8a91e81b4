package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/paykit/order-gateway/internal/model"
	"github.com/paykit/order-gateway/internal/notify"
	"github.com/paykit/order-gateway/internal/repository"
	"github.com/paykit/order-gateway/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrDuplicateEmail   = errors.New("email already registered")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrBadVerifyToken   = errors.New("verification token does not match")
)

// WarnEmailNotSent is surfaced as a non-fatal warning when the verification
// email could not be queued. The registration itself has already committed.
const WarnEmailNotSent = "account created but verification email could not be sent"

type CustomerRepository interface {
	Create(ctx context.Context, customer *model.Customer) (*model.Customer, error)
	GetByEmail(ctx context.Context, email string) (*model.Customer, error)
	Verify(ctx context.Context, email, token string) error
}

type RegisterResult struct {
	CustomerID int64  `json:"customerId"`
	Warning    string `json:"warning,omitempty"`
}

type CustomerService struct {
	customerRepo CustomerRepository
	publisher    notify.Publisher
}

func NewCustomerService(customerRepo CustomerRepository, publisher notify.Publisher) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		publisher:    publisher,
	}
}

// Register creates the customer and then queues the verification email.
// The email step is best-effort: a publish failure never rolls back the
// committed customer row, it only downgrades the response with a warning.
func (s *CustomerService) Register(ctx context.Context, req model.RegisterRequest) (*RegisterResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	customer := &model.Customer{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		VerifyToken:  uuid.NewString(),
	}

	created, err := s.customerRepo.Create(ctx, customer)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	result := &RegisterResult{CustomerID: created.ID}

	if s.publisher != nil {
		err = s.publisher.PublishEmail(ctx, notify.EmailEvent{
			Kind:        notify.EmailKindVerification,
			Recipient:   created.Email,
			CustomerID:  created.ID,
			VerifyToken: created.VerifyToken,
		})
		if err != nil {
			logger.Warn("verification email publish failed", "customer_id", created.ID, "error", err)
			result.Warning = WarnEmailNotSent
		}
	}

	return result, nil
}

func (s *CustomerService) Verify(ctx context.Context, email, token string) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(token) == "" {
		return fmt.Errorf("%w: email and token are required", ErrValidation)
	}

	err := s.customerRepo.Verify(ctx, email, token)
	switch {
	case errors.Is(err, repository.ErrCustomerNotFound):
		return ErrCustomerNotFound
	case errors.Is(err, repository.ErrBadVerifyToken):
		return ErrBadVerifyToken
	}
	return err
}

package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/paykit/order-gateway/internal/model"
	"github.com/paykit/order-gateway/internal/notify"
	"github.com/paykit/order-gateway/internal/repository"
)

type mockCustomerRepo struct {
	mock.Mock
}

func (m *mockCustomerRepo) Create(ctx context.Context, customer *model.Customer) (*model.Customer, error) {
	args := m.Called(ctx, customer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *mockCustomerRepo) GetByEmail(ctx context.Context, email string) (*model.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *mockCustomerRepo) Verify(ctx context.Context, email, token string) error {
	args := m.Called(ctx, email, token)
	return args.Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishEmail(ctx context.Context, event notify.EmailEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func TestCustomerService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects invalid input", func(t *testing.T) {
		repo := new(mockCustomerRepo)
		svc := NewCustomerService(repo, nil)

		_, err := svc.Register(ctx, model.RegisterRequest{Email: "not-an-email", Password: "longenough"})
		assert.ErrorIs(t, err, ErrValidation)

		_, err = svc.Register(ctx, model.RegisterRequest{Email: "a@b.test", Password: "short"})
		assert.ErrorIs(t, err, ErrValidation)

		repo.AssertNotCalled(t, "Create")
	})

	t.Run("hashes the password and queues the verification email", func(t *testing.T) {
		repo := new(mockCustomerRepo)
		publisher := new(mockPublisher)
		svc := NewCustomerService(repo, publisher)

		var created *model.Customer
		repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Customer")).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(*model.Customer)
				created.ID = 42
			}).
			Return(&model.Customer{ID: 42, Email: "a@b.test", VerifyToken: "tok"}, nil)
		publisher.On("PublishEmail", mock.Anything, mock.AnythingOfType("notify.EmailEvent")).Return(nil)

		result, err := svc.Register(ctx, model.RegisterRequest{Email: " A@B.test ", Password: "longenough"})
		require.NoError(t, err)
		assert.EqualValues(t, 42, result.CustomerID)
		assert.Empty(t, result.Warning)

		require.NotNil(t, created)
		assert.Equal(t, "a@b.test", created.Email)
		assert.NotEmpty(t, created.VerifyToken)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("longenough")))

		publisher.AssertExpectations(t)
	})

	t.Run("maps duplicate email", func(t *testing.T) {
		repo := new(mockCustomerRepo)
		svc := NewCustomerService(repo, nil)

		repo.On("Create", mock.Anything, mock.Anything).Return(nil, repository.ErrDuplicateEmail)

		_, err := svc.Register(ctx, model.RegisterRequest{Email: "a@b.test", Password: "longenough"})
		assert.ErrorIs(t, err, ErrDuplicateEmail)
	})

	t.Run("publish failure downgrades to a warning", func(t *testing.T) {
		repo := new(mockCustomerRepo)
		publisher := new(mockPublisher)
		svc := NewCustomerService(repo, publisher)

		repo.On("Create", mock.Anything, mock.Anything).
			Return(&model.Customer{ID: 7, Email: "a@b.test", VerifyToken: "tok"}, nil)
		publisher.On("PublishEmail", mock.Anything, mock.Anything).Return(errors.New("redis down"))

		result, err := svc.Register(ctx, model.RegisterRequest{Email: "a@b.test", Password: "longenough"})
		require.NoError(t, err)
		assert.EqualValues(t, 7, result.CustomerID)
		assert.Equal(t, WarnEmailNotSent, result.Warning)
	})
}

func TestCustomerService_Verify(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects empty input", func(t *testing.T) {
		svc := NewCustomerService(new(mockCustomerRepo), nil)

		assert.ErrorIs(t, svc.Verify(ctx, "", "tok"), ErrValidation)
		assert.ErrorIs(t, svc.Verify(ctx, "a@b.test", ""), ErrValidation)
	})

	t.Run("maps repository errors", func(t *testing.T) {
		repo := new(mockCustomerRepo)
		svc := NewCustomerService(repo, nil)

		repo.On("Verify", mock.Anything, "missing@b.test", "tok").Return(repository.ErrCustomerNotFound)
		repo.On("Verify", mock.Anything, "a@b.test", "wrong").Return(repository.ErrBadVerifyToken)
		repo.On("Verify", mock.Anything, "a@b.test", "tok").Return(nil)

		assert.ErrorIs(t, svc.Verify(ctx, "missing@b.test", "tok"), ErrCustomerNotFound)
		assert.ErrorIs(t, svc.Verify(ctx, "a@b.test", "wrong"), ErrBadVerifyToken)
		assert.NoError(t, svc.Verify(ctx, "a@b.test", "tok"))
	})
}

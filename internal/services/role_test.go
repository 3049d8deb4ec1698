package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	appErrors "github.com/shopsphere/storefront/internal/errors"
	"github.com/shopsphere/storefront/internal/identity"
	"github.com/shopsphere/storefront/internal/models"
	"github.com/shopsphere/storefront/internal/repositories/mocks"
	service "github.com/shopsphere/storefront/internal/services"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) Verify(ctx context.Context, idToken string) (*identity.Identity, error) {
	args := m.Called(ctx, idToken)

	var id *identity.Identity
	if args.Get(0) != nil {
		id = args.Get(0).(*identity.Identity)
	}

	return id, args.Error(1)
}

func TestRoleAssign(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Creates Record With Seller ID", func(t *testing.T) {
		// Arrange
		mockRepo := new(mocks.RoleRepository)
		mockLimiter := new(mocks.RateLimitRepository)
		provider := new(mockProvider)
		roleService := service.NewRoleService(mockRepo, mockLimiter, provider)

		mockLimiter.On("CheckAttempt", ctx, "u1").Return(true, 4, 0, nil).Once()
		provider.On("Verify", ctx, "proof-token").Return(&identity.Identity{UID: "u1"}, nil).Once()
		mockRepo.On("Get", ctx, "u1").Return(nil, nil).Once()
		mockRepo.On("Upsert", ctx, mock.AnythingOfType("*models.UserRoleRecord")).Return(nil).Once()

		// Act
		record, err := roleService.Assign(ctx, &models.AssignRoleRequest{
			UID:   "u1",
			Role:  models.RoleSeller,
			Proof: "proof-token",
		})

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, models.RoleSeller, record.Role)
		assert.NotEmpty(t, record.SellerID)
		assert.WithinDuration(t, time.Now().UTC(), record.CreatedAt, time.Second)
		mockRepo.AssertExpectations(t)
		mockLimiter.AssertExpectations(t)
		provider.AssertExpectations(t)
	})

	t.Run("Success - Update Preserves CreatedAt", func(t *testing.T) {
		// Arrange
		mockRepo := new(mocks.RoleRepository)
		mockLimiter := new(mocks.RateLimitRepository)
		provider := new(mockProvider)
		roleService := service.NewRoleService(mockRepo, mockLimiter, provider)

		created := time.Now().UTC().Add(-24 * time.Hour)
		existing := &models.UserRoleRecord{UID: "u1", Role: models.RoleBuyer, CreatedAt: created}

		mockLimiter.On("CheckAttempt", ctx, "u1").Return(true, 4, 0, nil).Once()
		provider.On("Verify", ctx, "proof-token").Return(&identity.Identity{UID: "u1"}, nil).Once()
		mockRepo.On("Get", ctx, "u1").Return(existing, nil).Once()
		mockRepo.On("Upsert", ctx, mock.AnythingOfType("*models.UserRoleRecord")).Return(nil).Once()

		// Act
		record, err := roleService.Assign(ctx, &models.AssignRoleRequest{
			UID:   "u1",
			Role:  models.RoleAdmin,
			Proof: "proof-token",
		})

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, record.Role)
		assert.Equal(t, created, record.CreatedAt)
		assert.True(t, record.UpdatedAt.After(created))
	})

	t.Run("Failure - Proof For A Different UID", func(t *testing.T) {
		// Arrange
		mockRepo := new(mocks.RoleRepository)
		mockLimiter := new(mocks.RateLimitRepository)
		provider := new(mockProvider)
		roleService := service.NewRoleService(mockRepo, mockLimiter, provider)

		mockLimiter.On("CheckAttempt", ctx, "u1").Return(true, 4, 0, nil).Once()
		provider.On("Verify", ctx, "proof-token").Return(&identity.Identity{UID: "someone-else"}, nil).Once()

		// Act
		record, err := roleService.Assign(ctx, &models.AssignRoleRequest{
			UID:   "u1",
			Role:  models.RoleSeller,
			Proof: "proof-token",
		})

		// Assert
		assert.Nil(t, record)
		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeForbidden, appErr.Code)
		mockRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Rate Limited", func(t *testing.T) {
		// Arrange
		mockRepo := new(mocks.RoleRepository)
		mockLimiter := new(mocks.RateLimitRepository)
		provider := new(mockProvider)
		roleService := service.NewRoleService(mockRepo, mockLimiter, provider)

		mockLimiter.On("CheckAttempt", ctx, "u1").Return(false, 0, 12, nil).Once()

		// Act
		record, err := roleService.Assign(ctx, &models.AssignRoleRequest{
			UID:   "u1",
			Role:  models.RoleSeller,
			Proof: "proof-token",
		})

		// Assert
		assert.Nil(t, record)
		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeTooManyRequests, appErr.Code)
		provider.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
	})

	t.Run("Success - Limiter Outage Does Not Block", func(t *testing.T) {
		// Arrange
		mockRepo := new(mocks.RoleRepository)
		mockLimiter := new(mocks.RateLimitRepository)
		provider := new(mockProvider)
		roleService := service.NewRoleService(mockRepo, mockLimiter, provider)

		mockLimiter.On("CheckAttempt", ctx, "u1").Return(false, 0, 0, errors.New("redis down")).Once()
		provider.On("Verify", ctx, "proof-token").Return(&identity.Identity{UID: "u1"}, nil).Once()
		mockRepo.On("Get", ctx, "u1").Return(nil, nil).Once()
		mockRepo.On("Upsert", ctx, mock.AnythingOfType("*models.UserRoleRecord")).Return(nil).Once()

		// Act
		record, err := roleService.Assign(ctx, &models.AssignRoleRequest{
			UID:   "u1",
			Role:  models.RoleBuyer,
			Proof: "proof-token",
		})

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, models.RoleBuyer, record.Role)
	})
}

func TestRoleGet(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockRepo := new(mocks.RoleRepository)
		roleService := service.NewRoleService(mockRepo, new(mocks.RateLimitRepository), new(mockProvider))
		mockRepo.On("Get", ctx, "u1").Return(&models.UserRoleRecord{UID: "u1", Role: models.RoleSeller}, nil).Once()

		// Act
		record, err := roleService.Get(ctx, "u1")

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, models.RoleSeller, record.Role)
	})

	t.Run("Failure - No Record", func(t *testing.T) {
		// Arrange
		mockRepo := new(mocks.RoleRepository)
		roleService := service.NewRoleService(mockRepo, new(mocks.RateLimitRepository), new(mockProvider))
		mockRepo.On("Get", ctx, "u1").Return(nil, nil).Once()

		// Act
		record, err := roleService.Get(ctx, "u1")

		// Assert
		assert.Nil(t, record)
		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
	})
}

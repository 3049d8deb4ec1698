package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shopsphere/storefront/internal/api/middleware"
	"github.com/shopsphere/storefront/internal/errors"
	"github.com/shopsphere/storefront/internal/identity"
	"github.com/shopsphere/storefront/internal/models"
	repository "github.com/shopsphere/storefront/internal/repositories"
)

// RoleService persists role assignments. The caller proves the uid by
// presenting an identity-provider token for that uid; the role is never
// taken on a client's word.
type RoleService struct {
	repo      repository.RoleRepository
	rateLimit repository.RateLimitRepository
	provider  identity.Provider
}

func NewRoleService(repo repository.RoleRepository, rateLimit repository.RateLimitRepository, provider identity.Provider) *RoleService {
	return &RoleService{repo: repo, rateLimit: rateLimit, provider: provider}
}

func (s *RoleService) Assign(ctx context.Context, req *models.AssignRoleRequest) (*models.UserRoleRecord, error) {

	logger := middleware.LoggerFromContext(ctx)

	allowed, _, retryAfter, err := s.rateLimit.CheckAttempt(ctx, req.UID)
	if err != nil {
		// Rate limiter being down must not lock everyone out.
		logger.Warn("Rate limit check failed, allowing request", slog.String("error", err.Error()))
	} else if !allowed {
		return nil, errors.TooManyRequestsError(fmt.Sprintf("Too many attempts, retry after %d seconds", retryAfter))
	}

	id, err := s.provider.Verify(ctx, req.Proof)
	if err != nil {
		return nil, err
	}

	if id.UID != req.UID {
		logger.Warn("Role assignment proof does not match uid", slog.String("uid", req.UID))
		return nil, errors.ForbiddenError("Proof of identity does not match uid")
	}

	now := time.Now().UTC()

	record, err := s.repo.Get(ctx, req.UID)
	if err != nil {
		return nil, errors.RemoteUnavailableError("Failed to read role record").WithError(err)
	}

	if record == nil {
		record = &models.UserRoleRecord{UID: req.UID, CreatedAt: now}
	}

	record.Role = req.Role
	record.UpdatedAt = now

	if req.Role == models.RoleSeller {
		record.SellerID = req.SellerID
		if record.SellerID == "" {
			record.SellerID = uuid.NewString()
		}
	}

	if err := s.repo.Upsert(ctx, record); err != nil {
		return nil, errors.RemoteUnavailableError("Failed to persist role record").WithError(err)
	}

	logger.Info("Role assigned", slog.String("uid", record.UID), slog.String("role", string(record.Role)))

	return record, nil
}

func (s *RoleService) Get(ctx context.Context, uid string) (*models.UserRoleRecord, error) {

	record, err := s.repo.Get(ctx, uid)
	if err != nil {
		return nil, errors.RemoteUnavailableError("Failed to read role record").WithError(err)
	}

	if record == nil {
		return nil, errors.NotFoundError("No role record for uid")
	}

	return record, nil
}

package identity

import (
	"context"
	"strings"

	"github.com/commerce/backend/internal/domain/identity"
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PermissionService handles permission management operations
type PermissionService struct {
	permissionRepo identity.PermissionRepository
	logger         *zap.Logger
}

// NewPermissionService creates a new permission service
func NewPermissionService(permissionRepo identity.PermissionRepository, logger *zap.Logger) *PermissionService {
	return &PermissionService{
		permissionRepo: permissionRepo,
		logger:         logger,
	}
}

// Create creates a new permission
func (s *PermissionService) Create(ctx context.Context, input CreatePermissionInput) (*identity.Permission, error) {
	action := identity.PermissionAction(strings.ToUpper(input.Action))

	existing, err := s.permissionRepo.FindByActionAndObject(ctx, action, input.Object)
	if err == nil && existing != nil {
		return nil, shared.NewDomainError("PERMISSION_EXISTS", "Permission already exists")
	}

	permission, err := identity.NewPermission(action, input.Object, input.Name, input.Description)
	if err != nil {
		return nil, err
	}

	if err := s.permissionRepo.Save(ctx, permission); err != nil {
		s.logger.Error("Failed to save permission", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create permission")
	}

	s.logger.Info("Permission created", zap.String("code", permission.Code()))
	return permission, nil
}

// Get retrieves a permission by ID
func (s *PermissionService) Get(ctx context.Context, id uuid.UUID) (*identity.Permission, error) {
	return s.permissionRepo.FindByID(ctx, id)
}

// List retrieves a page of permissions
func (s *PermissionService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[*identity.Permission], error) {
	return s.permissionRepo.FindAll(ctx, filter)
}

// Delete removes a permission and revokes it from all groups
func (s *PermissionService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.permissionRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Permission deleted", zap.String("permission_id", id.String()))
	return nil
}

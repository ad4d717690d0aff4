package identity

import (
	"context"

	"github.com/commerce/backend/internal/domain/identity"
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GroupService handles group management operations
type GroupService struct {
	groupRepo identity.GroupRepository
	logger    *zap.Logger
}

// NewGroupService creates a new group service
func NewGroupService(groupRepo identity.GroupRepository, logger *zap.Logger) *GroupService {
	return &GroupService{
		groupRepo: groupRepo,
		logger:    logger,
	}
}

// Create creates a new group
func (s *GroupService) Create(ctx context.Context, input CreateGroupInput) (*identity.Group, error) {
	taken, err := s.groupRepo.ExistsByName(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("GROUP_NAME_TAKEN", "A group with this name already exists")
	}

	group, err := identity.NewGroup(input.Name, input.Description)
	if err != nil {
		return nil, err
	}
	for _, permissionID := range input.PermissionIDs {
		group.GrantPermission(permissionID)
	}

	if err := s.groupRepo.Save(ctx, group); err != nil {
		s.logger.Error("Failed to save group", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create group")
	}

	s.logger.Info("Group created",
		zap.String("group_id", group.ID.String()),
		zap.String("name", group.Name))

	return group, nil
}

// Get retrieves a group by ID
func (s *GroupService) Get(ctx context.Context, id uuid.UUID) (*identity.Group, error) {
	return s.groupRepo.FindByID(ctx, id)
}

// List retrieves groups matching the filter together with the total count
func (s *GroupService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[*identity.Group], error) {
	groups, err := s.groupRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.groupRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(groups, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Update renames a group or changes its description
func (s *GroupService) Update(ctx context.Context, input UpdateGroupInput) (*identity.Group, error) {
	group, err := s.groupRepo.FindByID(ctx, input.GroupID)
	if err != nil {
		return nil, err
	}

	if input.Name != group.Name {
		taken, err := s.groupRepo.ExistsByName(ctx, input.Name)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, shared.NewDomainError("GROUP_NAME_TAKEN", "A group with this name already exists")
		}
	}

	if err := group.Update(input.Name, input.Description); err != nil {
		return nil, err
	}

	if err := s.groupRepo.Save(ctx, group); err != nil {
		s.logger.Error("Failed to save group", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update group")
	}

	return group, nil
}

// Activate re-enables a group
func (s *GroupService) Activate(ctx context.Context, id uuid.UUID) (*identity.Group, error) {
	return s.setActive(ctx, id, true)
}

// Deactivate disables a group without removing its members
func (s *GroupService) Deactivate(ctx context.Context, id uuid.UUID) (*identity.Group, error) {
	return s.setActive(ctx, id, false)
}

func (s *GroupService) setActive(ctx context.Context, id uuid.UUID, active bool) (*identity.Group, error) {
	group, err := s.groupRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if active {
		group.Activate()
	} else {
		group.Deactivate()
	}

	if err := s.groupRepo.Save(ctx, group); err != nil {
		s.logger.Error("Failed to save group", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update group")
	}

	s.logger.Info("Group active state changed",
		zap.String("group_id", group.ID.String()),
		zap.Bool("is_active", group.IsActive))

	return group, nil
}

// GrantPermission adds a permission to a group
func (s *GroupService) GrantPermission(ctx context.Context, groupID, permissionID uuid.UUID) error {
	group, err := s.groupRepo.FindByID(ctx, groupID)
	if err != nil {
		return err
	}

	group.GrantPermission(permissionID)
	return s.groupRepo.Save(ctx, group)
}

// RevokePermission removes a permission from a group
func (s *GroupService) RevokePermission(ctx context.Context, groupID, permissionID uuid.UUID) error {
	group, err := s.groupRepo.FindByID(ctx, groupID)
	if err != nil {
		return err
	}

	group.RevokePermission(permissionID)
	return s.groupRepo.Save(ctx, group)
}

// Delete removes a group and its memberships
func (s *GroupService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.groupRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Group deleted", zap.String("group_id", id.String()))
	return nil
}

package identity

import (
	"strings"
	"time"

	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Group bundles a set of permissions that can be assigned to users
type Group struct {
	shared.BaseAggregateRoot
	Name          string      `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description   string      `gorm:"type:text"`
	IsActive      bool        `gorm:"not null;default:true"`
	PermissionIDs []uuid.UUID `gorm:"-"` // Stored in the join table, loaded by the repository
}

// TableName returns the table name for GORM
func (Group) TableName() string {
	return "groups"
}

// GroupPermission represents the many-to-many relationship between groups and permissions
type GroupPermission struct {
	GroupID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	PermissionID uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt    time.Time
}

// TableName returns the table name for GORM
func (GroupPermission) TableName() string {
	return "group_permissions"
}

// NewGroup creates a new group
func NewGroup(name, description string) (*Group, error) {
	if err := validateGroupName(name); err != nil {
		return nil, err
	}

	return &Group{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Description:       strings.TrimSpace(description),
		IsActive:          true,
		PermissionIDs:     make([]uuid.UUID, 0),
	}, nil
}

// Activate re-enables the group so its permissions count again
func (g *Group) Activate() {
	if g.IsActive {
		return
	}
	g.IsActive = true
	g.UpdatedAt = time.Now()
	g.IncrementVersion()
}

// Deactivate disables the group; members keep their assignment but the
// group's permissions no longer apply
func (g *Group) Deactivate() {
	if !g.IsActive {
		return
	}
	g.IsActive = false
	g.UpdatedAt = time.Now()
	g.IncrementVersion()
}

// Update updates the group's name and description
func (g *Group) Update(name, description string) error {
	if err := validateGroupName(name); err != nil {
		return err
	}

	g.Name = strings.TrimSpace(name)
	g.Description = strings.TrimSpace(description)
	g.UpdatedAt = time.Now()
	g.IncrementVersion()

	return nil
}

// GrantPermission adds a permission to the group
func (g *Group) GrantPermission(permissionID uuid.UUID) {
	for _, id := range g.PermissionIDs {
		if id == permissionID {
			return
		}
	}
	g.PermissionIDs = append(g.PermissionIDs, permissionID)
	g.UpdatedAt = time.Now()
	g.IncrementVersion()
}

// RevokePermission removes a permission from the group
func (g *Group) RevokePermission(permissionID uuid.UUID) {
	for i, id := range g.PermissionIDs {
		if id == permissionID {
			g.PermissionIDs = append(g.PermissionIDs[:i], g.PermissionIDs[i+1:]...)
			g.UpdatedAt = time.Now()
			g.IncrementVersion()
			return
		}
	}
}

// validateGroupName validates a group name
func validateGroupName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_GROUP_NAME", "Group name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_GROUP_NAME", "Group name cannot exceed 100 characters")
	}
	return nil
}

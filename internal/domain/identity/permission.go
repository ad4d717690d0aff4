package identity

import (
	"strings"
	"time"

	"github.com/commerce/backend/internal/domain/shared"
)

// PermissionAction enumerates the actions a permission can grant
type PermissionAction string

const (
	ActionCreate PermissionAction = "CREATE"
	ActionRead   PermissionAction = "READ"
	ActionUpdate PermissionAction = "UPDATE"
	ActionDelete PermissionAction = "DELETE"

	// ActionManage grants full control of an object type; ActionModerate
	// grants curation rights over other users' content.
	ActionManage   PermissionAction = "MANAGE"
	ActionModerate PermissionAction = "MODERATE"
)

// IsValid checks whether the action is a known value
func (a PermissionAction) IsValid() bool {
	switch a {
	case ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionManage, ActionModerate:
		return true
	}
	return false
}

// Canonical codes for the staff grants the HTTP layer guards with. Each is
// exactly what Permission.Code() mints for the corresponding grant, so a
// group holding the permission satisfies the guard.
const (
	CodeManageUsers     = "MANAGE:user"
	CodeManageGroups    = "MANAGE:group"
	CodeManageCatalog   = "MANAGE:catalog"
	CodeManageOrders    = "MANAGE:order"
	CodeManageVouchers  = "MANAGE:voucher"
	CodeModerateReviews = "MODERATE:review"
	CodeManageTickets   = "MANAGE:ticket"
	CodeManageExports   = "MANAGE:export"
)

// Permission grants an action on an object type, e.g. READ:product
type Permission struct {
	shared.BaseEntity
	Action      PermissionAction `gorm:"type:varchar(20);not null;uniqueIndex:idx_permissions_action_object"`
	Object      string           `gorm:"type:varchar(100);not null;uniqueIndex:idx_permissions_action_object"`
	Name        string           `gorm:"type:varchar(255);not null"`
	Description string           `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Permission) TableName() string {
	return "permissions"
}

// NewPermission creates a new permission for an action on an object type.
// Name is the human-readable label shown in admin listings; when empty it
// defaults to the permission code.
func NewPermission(action PermissionAction, object, name, description string) (*Permission, error) {
	if !action.IsValid() {
		return nil, shared.NewDomainError("INVALID_PERMISSION", "Action must be one of CREATE, READ, UPDATE, DELETE, MANAGE, MODERATE")
	}

	object = strings.ToLower(strings.TrimSpace(object))
	if object == "" {
		return nil, shared.NewDomainError("INVALID_PERMISSION", "Permission object cannot be empty")
	}
	if len(object) > 100 {
		return nil, shared.NewDomainError("INVALID_PERMISSION", "Permission object cannot exceed 100 characters")
	}

	name = strings.TrimSpace(name)
	if len(name) > 255 {
		return nil, shared.NewDomainError("INVALID_PERMISSION", "Permission name cannot exceed 255 characters")
	}

	p := &Permission{
		BaseEntity:  shared.NewBaseEntity(),
		Action:      action,
		Object:      object,
		Name:        name,
		Description: strings.TrimSpace(description),
	}
	if p.Name == "" {
		p.Name = p.Code()
	}
	return p, nil
}

// Code returns the canonical ACTION:object form used in JWT claims
func (p *Permission) Code() string {
	return string(p.Action) + ":" + p.Object
}

// UpdateObject changes the object the permission applies to
func (p *Permission) UpdateObject(object string) error {
	object = strings.ToLower(strings.TrimSpace(object))
	if object == "" {
		return shared.NewDomainError("INVALID_PERMISSION", "Permission object cannot be empty")
	}
	p.Object = object
	p.UpdatedAt = time.Now()
	return nil
}

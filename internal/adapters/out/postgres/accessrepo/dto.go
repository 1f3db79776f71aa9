// Package accessrepo persists roles, their permissions and staff assignments.
package accessrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/access"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// RoleDTO is the row of the roles table.
type RoleDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"size:128;not null;uniqueIndex"`
	Description string    `gorm:"type:text;not null;default:''"`
	IsActive    bool      `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (RoleDTO) TableName() string {
	return "roles"
}

// PermissionDTO is one (name, value) grant of a role.
type PermissionDTO struct {
	RoleID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name   string    `gorm:"size:64;primaryKey"`
	Value  string    `gorm:"size:64;primaryKey"`
}

func (PermissionDTO) TableName() string {
	return "role_permissions"
}

// AssignmentDTO is the single assignment of a user to a kitchen.
type AssignmentDTO struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	KitchenID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	RoleID    uuid.UUID `gorm:"type:uuid;not null;index"`
	IsPrimary bool      `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (AssignmentDTO) TableName() string {
	return "staff_assignments"
}

func roleFromDomain(r *access.Role) (RoleDTO, []PermissionDTO) {
	perms := make([]PermissionDTO, 0, len(r.Permissions()))
	for _, p := range r.Permissions() {
		perms = append(perms, PermissionDTO{RoleID: r.ID().Bytes(), Name: p.Name, Value: p.Value})
	}
	return RoleDTO{
		ID:          r.ID().Bytes(),
		Name:        r.Name(),
		Description: r.Description(),
		IsActive:    r.IsActive(),
		UpdatedAt:   r.UpdatedAt(),
	}, perms
}

func roleToDomain(dto RoleDTO, perms []PermissionDTO) (*access.Role, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	permissions := make([]access.Permission, len(perms))
	for i, p := range perms {
		permissions[i] = access.Permission{Name: p.Name, Value: p.Value}
	}
	return access.RestoreRole(id, dto.Name, dto.Description, kernel.ActivityOf(dto.IsActive), permissions, dto.UpdatedAt)
}

func assignmentFromDomain(a *access.Assignment) AssignmentDTO {
	return AssignmentDTO{
		UserID:    a.UserID.Bytes(),
		KitchenID: a.KitchenID.Bytes(),
		RoleID:    a.RoleID.Bytes(),
		IsPrimary: a.IsPrimary,
		UpdatedAt: a.UpdatedAt,
	}
}

func assignmentToDomain(dto AssignmentDTO) (access.Assignment, error) {
	userID, err := kernel.UUIDFromGoogle(dto.UserID)
	if err != nil {
		return access.Assignment{}, err
	}
	kitchenID, err := kernel.UUIDFromGoogle(dto.KitchenID)
	if err != nil {
		return access.Assignment{}, err
	}
	roleID, err := kernel.UUIDFromGoogle(dto.RoleID)
	if err != nil {
		return access.Assignment{}, err
	}
	return access.Assignment{
		UserID:    userID,
		KitchenID: kitchenID,
		RoleID:    roleID,
		IsPrimary: dto.IsPrimary,
		UpdatedAt: dto.UpdatedAt,
	}, nil
}

package accessrepo

import (
	"context"
	"errors"

	"fulfillment/internal/adapters/out/postgres/pgerr"
	"fulfillment/internal/core/domain/model/access"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAccessRepository implements ports.AccessRepository using GORM.
type GormAccessRepository struct {
	db *gorm.DB
}

// NewGormAccessRepository creates a new GORM access repository.
func NewGormAccessRepository(db *gorm.DB) *GormAccessRepository {
	return &GormAccessRepository{db: db}
}

// SaveRole upserts the role by id and replaces its permission rows.
func (r *GormAccessRepository) SaveRole(ctx context.Context, role *access.Role) error {
	if err := role.Validate(); err != nil {
		return err
	}

	dto, perms := roleFromDomain(role)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "description", "is_active", "updated_at"}),
		}).
		Create(&dto).Error
	if err != nil {
		return pgerr.Wrap("save role", err)
	}

	if err = r.db.WithContext(ctx).Where("role_id = ?", dto.ID).Delete(&PermissionDTO{}).Error; err != nil {
		return pgerr.Wrap("delete role permissions", err)
	}
	if len(perms) > 0 {
		if err = r.db.WithContext(ctx).Create(&perms).Error; err != nil {
			return pgerr.Wrap("insert role permissions", err)
		}
	}
	return nil
}

// GetRole retrieves a role by ID.
func (r *GormAccessRepository) GetRole(ctx context.Context, id kernel.UUID) (*access.Role, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto RoleDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("role", id.String())
		}
		return nil, pgerr.Wrap("get role", err)
	}
	return r.withPermissions(ctx, dto)
}

// FindRoleByName returns nil when no role carries name.
func (r *GormAccessRepository) FindRoleByName(ctx context.Context, name string) (*access.Role, error) {
	var dto RoleDTO
	if err := r.db.WithContext(ctx).Take(&dto, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil //nolint:nilnil // absence is not an error here
		}
		return nil, pgerr.Wrap("find role", err)
	}
	return r.withPermissions(ctx, dto)
}

// FindGrant loads the assignment of user to kitchen with its role, or nil.
func (r *GormAccessRepository) FindGrant(ctx context.Context, userID, kitchenID kernel.UUID) (*access.Grant, error) {
	if err := errors.Join(userID.Validate(), kitchenID.Validate()); err != nil {
		return nil, err
	}

	var dto AssignmentDTO
	err := r.db.WithContext(ctx).
		Take(&dto, "user_id = ? AND kitchen_id = ?", userID.Bytes(), kitchenID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil //nolint:nilnil // no assignment
		}
		return nil, pgerr.Wrap("find assignment", err)
	}

	assignment, err := assignmentToDomain(dto)
	if err != nil {
		return nil, err
	}
	role, err := r.GetRole(ctx, assignment.RoleID)
	if err != nil {
		return nil, err
	}
	return &access.Grant{Assignment: assignment, Role: role}, nil
}

// UpsertAssignment writes the assignment; a primary one clears the user's
// other primary flags first.
func (r *GormAccessRepository) UpsertAssignment(ctx context.Context, a *access.Assignment) error {
	dto := assignmentFromDomain(a)

	if dto.IsPrimary {
		err := r.db.WithContext(ctx).Model(&AssignmentDTO{}).
			Where("user_id = ? AND kitchen_id <> ? AND is_primary", dto.UserID, dto.KitchenID).
			Update("is_primary", false).Error
		if err != nil {
			return pgerr.Wrap("clear primary assignment", err)
		}
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "kitchen_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"role_id", "is_primary", "updated_at"}),
		}).
		Create(&dto).Error
	if err != nil {
		return pgerr.Wrap("upsert assignment", err)
	}
	return nil
}

// DeleteAssignment removes the assignment if present.
func (r *GormAccessRepository) DeleteAssignment(ctx context.Context, userID, kitchenID kernel.UUID) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND kitchen_id = ?", userID.Bytes(), kitchenID.Bytes()).
		Delete(&AssignmentDTO{}).Error
	if err != nil {
		return pgerr.Wrap("delete assignment", err)
	}
	return nil
}

func (r *GormAccessRepository) withPermissions(ctx context.Context, dto RoleDTO) (*access.Role, error) {
	var perms []PermissionDTO
	if err := r.db.WithContext(ctx).Where("role_id = ?", dto.ID).Order("name, value").Find(&perms).Error; err != nil {
		return nil, pgerr.Wrap("get role permissions", err)
	}
	return roleToDomain(dto, perms)
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"splitbook/internal/model"
)

// GroupRepository defines group persistence operations.
type GroupRepository interface {
	Create(ctx context.Context, group *model.Group) error
	Update(ctx context.Context, group *model.Group) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Group, error)
	FindByIDAndAdmin(ctx context.Context, id, adminID uuid.UUID) (*model.Group, error)
	ListByMember(ctx context.Context, userID uuid.UUID) ([]model.Group, error)
	AddMember(ctx context.Context, group *model.Group, user *model.User) error
	RemoveMember(ctx context.Context, group *model.Group, user *model.User) error
	Delete(ctx context.Context, group *model.Group) error
}

type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new group repository.
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

// Create creates a new group along with its membership rows.
func (r *groupRepository) Create(ctx context.Context, group *model.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

// Update updates group metadata. Membership is managed through
// AddMember/RemoveMember, not through Save.
func (r *groupRepository) Update(ctx context.Context, group *model.Group) error {
	return r.db.WithContext(ctx).Omit("Members").Save(group).Error
}

// FindByID finds a group by ID with members and admin preloaded.
func (r *groupRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Group, error) {
	var group model.Group
	if err := r.db.WithContext(ctx).
		Preload("Members").
		Preload("Admin").
		Where("id = ?", id).First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// FindByIDAndAdmin finds a group only if adminID owns it. Ownership is
// re-verified at the data layer so the caller cannot act on a stale
// in-memory copy.
func (r *groupRepository) FindByIDAndAdmin(ctx context.Context, id, adminID uuid.UUID) (*model.Group, error) {
	var group model.Group
	if err := r.db.WithContext(ctx).
		Preload("Members").
		Where("id = ? AND admin_id = ?", id, adminID).First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// ListByMember lists all groups the user belongs to.
func (r *groupRepository) ListByMember(ctx context.Context, userID uuid.UUID) ([]model.Group, error) {
	var groups []model.Group
	if err := r.db.WithContext(ctx).
		Joins("JOIN group_members gm ON gm.group_id = groups.id").
		Where("gm.user_id = ?", userID).
		Preload("Members").
		Preload("Admin").
		Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// AddMember appends a user to the group's member set.
func (r *groupRepository) AddMember(ctx context.Context, group *model.Group, user *model.User) error {
	return r.db.WithContext(ctx).Model(group).Association("Members").Append(user)
}

// RemoveMember pulls a user from the group's member set.
func (r *groupRepository) RemoveMember(ctx context.Context, group *model.Group, user *model.User) error {
	return r.db.WithContext(ctx).Model(group).Association("Members").Delete(user)
}

// Delete removes the group and its membership rows. Expenses are deleted
// separately by the caller before this runs.
func (r *groupRepository) Delete(ctx context.Context, group *model.Group) error {
	if err := r.db.WithContext(ctx).Model(group).Association("Members").Clear(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(group).Error
}

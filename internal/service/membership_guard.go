package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "splitbook/internal/errors"
	"splitbook/internal/model"
	"splitbook/internal/repository"
)

// MembershipGuard decides what a caller may do with a group. Every read
// path goes through LoadGroupIfMember so that non-members always see the
// same "not found" a missing group produces.
type MembershipGuard struct {
	groupRepo repository.GroupRepository
}

// NewMembershipGuard creates a new membership guard.
func NewMembershipGuard(groupRepo repository.GroupRepository) *MembershipGuard {
	return &MembershipGuard{groupRepo: groupRepo}
}

// LoadGroupIfMember loads the group with members preloaded, but only if
// userID is one of them. An absent group and a membership miss are both
// ErrGroupNotFound.
func (g *MembershipGuard) LoadGroupIfMember(ctx context.Context, userID, groupID uuid.UUID) (*model.Group, error) {
	group, err := g.groupRepo.FindByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGroupNotFound
		}
		return nil, err
	}
	if !group.HasMember(userID) {
		return nil, apperrors.ErrGroupNotFound
	}
	return group, nil
}

// CanMutateGroup reports whether userID may change group metadata,
// membership or lifecycle. Only the admin can.
func CanMutateGroup(userID uuid.UUID, group *model.Group) bool {
	return group.AdminID == userID
}

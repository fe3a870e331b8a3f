package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "splitbook/internal/errors"
	"splitbook/internal/imagestore"
	"splitbook/internal/model"
	"splitbook/internal/repository"
)

const backgroundFolder = "group-backgrounds"

// GroupService handles group lifecycle and membership.
type GroupService interface {
	CreateGroup(ctx context.Context, adminID uuid.UUID, name string, memberIDs []uuid.UUID) (*model.Group, error)
	MyGroups(ctx context.Context, userID uuid.UUID) ([]model.Group, error)
	AddMember(ctx context.Context, actorID, groupID uuid.UUID, memberCode string) (*model.Group, error)
	RemoveMember(ctx context.Context, actorID, groupID, targetUserID uuid.UUID) error
	SetBackground(ctx context.Context, actorID, groupID uuid.UUID, contentType string, data []byte) (string, error)
	DeleteGroup(ctx context.Context, actorID, groupID uuid.UUID) error
}

type groupService struct {
	groupRepo   repository.GroupRepository
	userRepo    repository.UserRepository
	expenseRepo repository.ExpenseRepository
	images      imagestore.ImageStore
}

// NewGroupService creates a new group service.
func NewGroupService(
	groupRepo repository.GroupRepository,
	userRepo repository.UserRepository,
	expenseRepo repository.ExpenseRepository,
	images imagestore.ImageStore,
) GroupService {
	return &groupService{
		groupRepo:   groupRepo,
		userRepo:    userRepo,
		expenseRepo: expenseRepo,
		images:      images,
	}
}

// CreateGroup resolves candidate member ids to existing users, silently
// dropping unresolvable ones, and persists the group with the admin
// always included in the member set.
func (s *groupService) CreateGroup(ctx context.Context, adminID uuid.UUID, name string, memberIDs []uuid.UUID) (*model.Group, error) {
	seen := map[uuid.UUID]bool{adminID: true}
	candidates := []uuid.UUID{adminID}
	for _, id := range memberIDs {
		if !seen[id] {
			seen[id] = true
			candidates = append(candidates, id)
		}
	}

	members, err := s.userRepo.FindByIDs(ctx, candidates)
	if err != nil {
		return nil, fmt.Errorf("resolve members: %w", err)
	}

	group := &model.Group{
		Name:    name,
		AdminID: adminID,
		Members: members,
	}
	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}
	return group, nil
}

// MyGroups lists the groups the user belongs to.
func (s *groupService) MyGroups(ctx context.Context, userID uuid.UUID) ([]model.Group, error) {
	return s.groupRepo.ListByMember(ctx, userID)
}

// AddMember resolves memberCode to a user and appends them to the group.
// Only the admin may do this.
func (s *groupService) AddMember(ctx context.Context, actorID, groupID uuid.UUID, memberCode string) (*model.Group, error) {
	group, err := s.loadForMutation(ctx, actorID, groupID)
	if err != nil {
		return nil, err
	}

	target, err := s.userRepo.FindByMemberCode(ctx, memberCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	if group.HasMember(target.ID) {
		return nil, apperrors.ErrAlreadyMember
	}

	if err := s.groupRepo.AddMember(ctx, group, target); err != nil {
		return nil, fmt.Errorf("add member: %w", err)
	}
	group.Members = append(group.Members, *target)
	return group, nil
}

// RemoveMember pulls a user from the group's member set. Only the admin
// may do this. Removing the admin themselves is not prevented; the
// admin keeps mutation rights through admin_id.
func (s *groupService) RemoveMember(ctx context.Context, actorID, groupID, targetUserID uuid.UUID) error {
	group, err := s.loadForMutation(ctx, actorID, groupID)
	if err != nil {
		return err
	}

	if !group.HasMember(targetUserID) {
		return apperrors.ErrMemberNotInGroup
	}

	if err := s.groupRepo.RemoveMember(ctx, group, &model.User{ID: targetUserID}); err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	return nil
}

// SetBackground uploads the image and persists the returned URL. Only
// the admin may do this; an upload failure is fatal.
func (s *groupService) SetBackground(ctx context.Context, actorID, groupID uuid.UUID, contentType string, data []byte) (string, error) {
	group, err := s.loadForMutation(ctx, actorID, groupID)
	if err != nil {
		return "", err
	}

	url, err := s.images.Upload(ctx, backgroundFolder, contentType, data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrUploadFailed, err)
	}

	group.BackgroundURL = url
	if err := s.groupRepo.Update(ctx, group); err != nil {
		return "", fmt.Errorf("update group: %w", err)
	}
	return url, nil
}

// DeleteGroup deletes the group's expenses, then the group. Ownership is
// re-verified at the data layer, and a missing group and a non-owner are
// indistinguishable. The cascade is two separate writes; a crash in
// between leaves expenses referencing a dead group id, which no query
// path can reach.
func (s *groupService) DeleteGroup(ctx context.Context, actorID, groupID uuid.UUID) error {
	group, err := s.groupRepo.FindByIDAndAdmin(ctx, groupID, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrGroupNotFound
		}
		return err
	}

	if err := s.expenseRepo.DeleteByGroup(ctx, groupID); err != nil {
		return fmt.Errorf("delete group expenses: %w", err)
	}
	if err := s.groupRepo.Delete(ctx, group); err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	return nil
}

// loadForMutation loads the group and enforces the admin-only rule for
// mutations: a missing group is NotFound, a non-admin actor is Forbidden.
func (s *groupService) loadForMutation(ctx context.Context, actorID, groupID uuid.UUID) (*model.Group, error) {
	group, err := s.groupRepo.FindByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGroupNotFound
		}
		return nil, err
	}
	if !CanMutateGroup(actorID, group) {
		return nil, apperrors.ErrNotGroupAdmin
	}
	return group, nil
}

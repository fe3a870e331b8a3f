package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "splitbook/internal/errors"
	"splitbook/internal/model"
)

func TestGroupService_CreateGroup(t *testing.T) {
	adminID := uuid.New()
	friendID := uuid.New()
	ghostID := uuid.New()

	mockGroups := new(MockGroupRepository)
	mockUsers := new(MockUserRepository)

	resolved := []model.User{{ID: adminID}, {ID: friendID}}
	mockUsers.On("FindByIDs", mock.Anything, mock.MatchedBy(func(ids []uuid.UUID) bool {
		// Admin first, duplicates collapsed, unresolvable ghost still passed down.
		return len(ids) == 3 && ids[0] == adminID
	})).Return(resolved, nil)
	mockGroups.On("Create", mock.Anything, mock.AnythingOfType("*model.Group")).Return(nil)

	svc := NewGroupService(mockGroups, mockUsers, new(MockExpenseRepository), new(MockImageStore))
	group, err := svc.CreateGroup(context.Background(), adminID, "Trip",
		[]uuid.UUID{friendID, friendID, adminID, ghostID})

	assert.NoError(t, err)
	assert.Equal(t, "Trip", group.Name)
	assert.Equal(t, adminID, group.AdminID)
	// Ghost silently dropped; admin kept even though not in the request.
	assert.Len(t, group.Members, 2)
	assert.True(t, group.HasMember(adminID))
	assert.True(t, group.HasMember(friendID))
	mockGroups.AssertExpectations(t)
	mockUsers.AssertExpectations(t)
}

func TestGroupService_AddMember(t *testing.T) {
	adminID := uuid.New()
	memberID := uuid.New()
	groupID := uuid.New()

	baseGroup := func() *model.Group {
		return &model.Group{
			ID:      groupID,
			Name:    "Trip",
			AdminID: adminID,
			Members: []model.User{{ID: adminID}, {ID: memberID, MemberCode: "AB12CD"}},
		}
	}

	tests := []struct {
		name          string
		actorID       uuid.UUID
		memberCode    string
		setupMock     func(*MockGroupRepository, *MockUserRepository)
		expectedError error
	}{
		{
			name:       "admin adds a new member",
			actorID:    adminID,
			memberCode: "ZZ99XX",
			setupMock: func(mGroups *MockGroupRepository, mUsers *MockUserRepository) {
				mGroups.On("FindByID", mock.Anything, groupID).Return(baseGroup(), nil)
				mUsers.On("FindByMemberCode", mock.Anything, "ZZ99XX").Return(&model.User{ID: uuid.New(), MemberCode: "ZZ99XX"}, nil)
				mGroups.On("AddMember", mock.Anything, mock.Anything, mock.Anything).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:       "non-admin member is forbidden",
			actorID:    memberID,
			memberCode: "ZZ99XX",
			setupMock: func(mGroups *MockGroupRepository, mUsers *MockUserRepository) {
				mGroups.On("FindByID", mock.Anything, groupID).Return(baseGroup(), nil)
			},
			expectedError: apperrors.ErrNotGroupAdmin,
		},
		{
			name:       "unknown member code",
			actorID:    adminID,
			memberCode: "NOSUCH",
			setupMock: func(mGroups *MockGroupRepository, mUsers *MockUserRepository) {
				mGroups.On("FindByID", mock.Anything, groupID).Return(baseGroup(), nil)
				mUsers.On("FindByMemberCode", mock.Anything, "NOSUCH").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrUserNotFound,
		},
		{
			name:       "already a member",
			actorID:    adminID,
			memberCode: "AB12CD",
			setupMock: func(mGroups *MockGroupRepository, mUsers *MockUserRepository) {
				mGroups.On("FindByID", mock.Anything, groupID).Return(baseGroup(), nil)
				mUsers.On("FindByMemberCode", mock.Anything, "AB12CD").Return(&model.User{ID: memberID, MemberCode: "AB12CD"}, nil)
			},
			expectedError: apperrors.ErrAlreadyMember,
		},
		{
			name:       "missing group",
			actorID:    adminID,
			memberCode: "ZZ99XX",
			setupMock: func(mGroups *MockGroupRepository, mUsers *MockUserRepository) {
				mGroups.On("FindByID", mock.Anything, groupID).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrGroupNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockGroups := new(MockGroupRepository)
			mockUsers := new(MockUserRepository)
			tt.setupMock(mockGroups, mockUsers)

			svc := NewGroupService(mockGroups, mockUsers, new(MockExpenseRepository), new(MockImageStore))
			group, err := svc.AddMember(context.Background(), tt.actorID, groupID, tt.memberCode)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, group)
			} else {
				assert.NoError(t, err)
				assert.Len(t, group.Members, 3)
			}

			mockGroups.AssertExpectations(t)
			mockUsers.AssertExpectations(t)
		})
	}
}

func TestGroupService_RemoveMember(t *testing.T) {
	adminID := uuid.New()
	memberID := uuid.New()
	outsiderID := uuid.New()
	groupID := uuid.New()

	group := &model.Group{
		ID:      groupID,
		AdminID: adminID,
		Members: []model.User{{ID: adminID}, {ID: memberID}},
	}

	tests := []struct {
		name          string
		actorID       uuid.UUID
		targetID      uuid.UUID
		setupMock     func(*MockGroupRepository)
		expectedError error
	}{
		{
			name:     "admin removes a member",
			actorID:  adminID,
			targetID: memberID,
			setupMock: func(mGroups *MockGroupRepository) {
				mGroups.On("FindByID", mock.Anything, groupID).Return(group, nil)
				mGroups.On("RemoveMember", mock.Anything, group, mock.Anything).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:     "non-admin is forbidden",
			actorID:  memberID,
			targetID: adminID,
			setupMock: func(mGroups *MockGroupRepository) {
				mGroups.On("FindByID", mock.Anything, groupID).Return(group, nil)
			},
			expectedError: apperrors.ErrNotGroupAdmin,
		},
		{
			name:     "target not in group",
			actorID:  adminID,
			targetID: outsiderID,
			setupMock: func(mGroups *MockGroupRepository) {
				mGroups.On("FindByID", mock.Anything, groupID).Return(group, nil)
			},
			expectedError: apperrors.ErrMemberNotInGroup,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockGroups := new(MockGroupRepository)
			tt.setupMock(mockGroups)

			svc := NewGroupService(mockGroups, new(MockUserRepository), new(MockExpenseRepository), new(MockImageStore))
			err := svc.RemoveMember(context.Background(), tt.actorID, groupID, tt.targetID)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}

			mockGroups.AssertExpectations(t)
		})
	}
}

func TestGroupService_SetBackground(t *testing.T) {
	adminID := uuid.New()
	groupID := uuid.New()
	group := &model.Group{ID: groupID, AdminID: adminID, Members: []model.User{{ID: adminID}}}

	t.Run("upload failure maps to upstream error", func(t *testing.T) {
		mockGroups := new(MockGroupRepository)
		mockImages := new(MockImageStore)
		mockGroups.On("FindByID", mock.Anything, groupID).Return(group, nil)
		mockImages.On("Upload", mock.Anything, "group-backgrounds", "image/png", mock.Anything).
			Return("", assert.AnError)

		svc := NewGroupService(mockGroups, new(MockUserRepository), new(MockExpenseRepository), mockImages)
		_, err := svc.SetBackground(context.Background(), adminID, groupID, "image/png", []byte{1})

		assert.ErrorIs(t, err, apperrors.ErrUploadFailed)
		mockImages.AssertExpectations(t)
	})

	t.Run("successful upload persists the URL", func(t *testing.T) {
		mockGroups := new(MockGroupRepository)
		mockImages := new(MockImageStore)
		mockGroups.On("FindByID", mock.Anything, groupID).Return(group, nil)
		mockImages.On("Upload", mock.Anything, "group-backgrounds", "image/png", mock.Anything).
			Return("https://cdn.example.com/group-backgrounds/x.png", nil)
		mockGroups.On("Update", mock.Anything, group).Return(nil)

		svc := NewGroupService(mockGroups, new(MockUserRepository), new(MockExpenseRepository), mockImages)
		url, err := svc.SetBackground(context.Background(), adminID, groupID, "image/png", []byte{1})

		assert.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/group-backgrounds/x.png", url)
		assert.Equal(t, url, group.BackgroundURL)
		mockGroups.AssertExpectations(t)
	})
}

func TestGroupService_DeleteGroup(t *testing.T) {
	adminID := uuid.New()
	groupID := uuid.New()

	t.Run("admin deletes expenses then the group", func(t *testing.T) {
		mockGroups := new(MockGroupRepository)
		mockExpenses := new(MockExpenseRepository)
		group := &model.Group{ID: groupID, AdminID: adminID}

		mockGroups.On("FindByIDAndAdmin", mock.Anything, groupID, adminID).Return(group, nil)
		mockExpenses.On("DeleteByGroup", mock.Anything, groupID).Return(nil)
		mockGroups.On("Delete", mock.Anything, group).Return(nil)

		svc := NewGroupService(mockGroups, new(MockUserRepository), mockExpenses, new(MockImageStore))
		err := svc.DeleteGroup(context.Background(), adminID, groupID)

		assert.NoError(t, err)
		mockGroups.AssertExpectations(t)
		mockExpenses.AssertExpectations(t)
	})

	t.Run("non-admin gets not found, not forbidden", func(t *testing.T) {
		mockGroups := new(MockGroupRepository)
		otherID := uuid.New()
		mockGroups.On("FindByIDAndAdmin", mock.Anything, groupID, otherID).Return(nil, gorm.ErrRecordNotFound)

		svc := NewGroupService(mockGroups, new(MockUserRepository), new(MockExpenseRepository), new(MockImageStore))
		err := svc.DeleteGroup(context.Background(), otherID, groupID)

		assert.ErrorIs(t, err, apperrors.ErrGroupNotFound)
		mockGroups.AssertExpectations(t)
	})

	t.Run("group survives if expense cascade fails", func(t *testing.T) {
		mockGroups := new(MockGroupRepository)
		mockExpenses := new(MockExpenseRepository)
		group := &model.Group{ID: groupID, AdminID: adminID}

		mockGroups.On("FindByIDAndAdmin", mock.Anything, groupID, adminID).Return(group, nil)
		mockExpenses.On("DeleteByGroup", mock.Anything, groupID).Return(assert.AnError)

		svc := NewGroupService(mockGroups, new(MockUserRepository), mockExpenses, new(MockImageStore))
		err := svc.DeleteGroup(context.Background(), adminID, groupID)

		assert.Error(t, err)
		mockGroups.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

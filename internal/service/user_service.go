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

const avatarFolder = "user-avatars"

// UserService exposes profile operations.
type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, name string) (*model.User, error)
	UpdateAvatar(ctx context.Context, userID uuid.UUID, contentType string, data []byte) (string, error)
	UpdateDeviceToken(ctx context.Context, userID uuid.UUID, token string) error
	FindByMemberCode(ctx context.Context, code string) (*model.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	images   imagestore.ImageStore
}

// NewUserService builds a UserService with repository and image store.
func NewUserService(userRepo repository.UserRepository, images imagestore.ImageStore) UserService {
	return &userService{userRepo: userRepo, images: images}
}

// GetProfile returns the user's profile.
func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile changes the display name.
func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, name string) (*model.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Name = name
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// UpdateAvatar uploads the image and persists the returned URL. An
// upload failure is fatal since the profile depends on the URL.
func (s *userService) UpdateAvatar(ctx context.Context, userID uuid.UUID, contentType string, data []byte) (string, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return "", err
	}

	url, err := s.images.Upload(ctx, avatarFolder, contentType, data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrUploadFailed, err)
	}

	user.AvatarURL = url
	if err := s.userRepo.Update(ctx, user); err != nil {
		return "", fmt.Errorf("update user: %w", err)
	}
	return url, nil
}

// UpdateDeviceToken stores the device's push subscription.
func (s *userService) UpdateDeviceToken(ctx context.Context, userID uuid.UUID, token string) error {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	user.DeviceToken = token
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// FindByMemberCode resolves a shareable member code to a user.
func (s *userService) FindByMemberCode(ctx context.Context, code string) (*model.User, error) {
	user, err := s.userRepo.FindByMemberCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

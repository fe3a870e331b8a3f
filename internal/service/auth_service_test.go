package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"splitbook/internal/auth"
	apperrors "splitbook/internal/errors"
	"splitbook/internal/model"
)

func newTestAuthService(userRepo *MockUserRepository, otpStore *MockOTPStore, mailer *MockMailer) AuthService {
	return NewAuthService(userRepo, otpStore, mailer, auth.NewJWTService("test-secret"))
}

func TestAuthService_SendRegistrationOTP(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		setupMock     func(*MockUserRepository, *MockOTPStore, *MockMailer)
		expectedError error
	}{
		{
			name:  "issues and mails a code",
			email: "new@example.com",
			setupMock: func(mRepo *MockUserRepository, mOTP *MockOTPStore, mMail *MockMailer) {
				mRepo.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, gorm.ErrRecordNotFound)
				mOTP.On("Issue", mock.Anything, "new@example.com").Return("482913", nil)
				mMail.On("Send", mock.Anything, "new@example.com", mock.Anything, mock.Anything).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:  "email already registered",
			email: "taken@example.com",
			setupMock: func(mRepo *MockUserRepository, mOTP *MockOTPStore, mMail *MockMailer) {
				mRepo.On("FindByEmail", mock.Anything, "taken@example.com").Return(&model.User{Email: "taken@example.com"}, nil)
			},
			expectedError: apperrors.ErrUserExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockOTP := new(MockOTPStore)
			mockMail := new(MockMailer)
			tt.setupMock(mockRepo, mockOTP, mockMail)

			svc := newTestAuthService(mockRepo, mockOTP, mockMail)
			err := svc.SendRegistrationOTP(context.Background(), tt.email)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}

			mockRepo.AssertExpectations(t)
			mockOTP.AssertExpectations(t)
			mockMail.AssertExpectations(t)
		})
	}
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		otp           string
		setupMock     func(*MockUserRepository, *MockOTPStore)
		expectedError error
	}{
		{
			name:  "successful registration",
			email: "new@example.com",
			otp:   "482913",
			setupMock: func(mRepo *MockUserRepository, mOTP *MockOTPStore) {
				mOTP.On("Consume", mock.Anything, "new@example.com", "482913").Return(nil)
				mRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:  "wrong code",
			email: "new@example.com",
			otp:   "000000",
			setupMock: func(mRepo *MockUserRepository, mOTP *MockOTPStore) {
				mOTP.On("Consume", mock.Anything, "new@example.com", "000000").Return(apperrors.ErrInvalidOTP)
			},
			expectedError: apperrors.ErrInvalidOTP,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockOTP := new(MockOTPStore)
			tt.setupMock(mockRepo, mockOTP)

			svc := newTestAuthService(mockRepo, mockOTP, new(MockMailer))
			user, err := svc.Register(context.Background(), tt.email, tt.otp, "Test User", "password123")

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.Equal(t, tt.email, user.Email)
				assert.Equal(t, "Test User", user.Name)
				assert.NotEmpty(t, user.PasswordHash)
				assert.True(t, user.CheckPassword("password123"))
			}

			mockRepo.AssertExpectations(t)
			mockOTP.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hashed := func(password string) string {
		u := &model.User{}
		_ = u.SetPassword(password)
		return u.PasswordHash
	}

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "test@example.com",
			password: "password123",
			setupMock: func(mRepo *MockUserRepository) {
				mRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(&model.User{
					Email:        "test@example.com",
					PasswordHash: hashed("password123"),
				}, nil)
			},
			expectedError: nil,
		},
		{
			name:     "unknown email",
			email:    "nobody@example.com",
			password: "password123",
			setupMock: func(mRepo *MockUserRepository) {
				mRepo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			email:    "test@example.com",
			password: "not-the-password",
			setupMock: func(mRepo *MockUserRepository) {
				mRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(&model.User{
					Email:        "test@example.com",
					PasswordHash: hashed("password123"),
				}, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			svc := newTestAuthService(mockRepo, new(MockOTPStore), new(MockMailer))
			token, user, err := svc.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				// Unknown email and wrong password must be the same error.
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, token)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, token)
				assert.NotNil(t, user)
				assert.Equal(t, tt.email, user.Email)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_ForgotPassword(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		setupMock     func(*MockUserRepository, *MockOTPStore, *MockMailer)
		expectedError error
	}{
		{
			name:  "reissues and mails a code",
			email: "test@example.com",
			setupMock: func(mRepo *MockUserRepository, mOTP *MockOTPStore, mMail *MockMailer) {
				mRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(&model.User{Name: "Test User", Email: "test@example.com"}, nil)
				mOTP.On("Issue", mock.Anything, "test@example.com").Return("175530", nil)
				mMail.On("Send", mock.Anything, "test@example.com", mock.Anything, mock.Anything).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:  "unknown email",
			email: "nobody@example.com",
			setupMock: func(mRepo *MockUserRepository, mOTP *MockOTPStore, mMail *MockMailer) {
				mRepo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockOTP := new(MockOTPStore)
			mockMail := new(MockMailer)
			tt.setupMock(mockRepo, mockOTP, mockMail)

			svc := newTestAuthService(mockRepo, mockOTP, mockMail)
			err := svc.ForgotPassword(context.Background(), tt.email)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}

			mockRepo.AssertExpectations(t)
			mockOTP.AssertExpectations(t)
			mockMail.AssertExpectations(t)
		})
	}
}

func TestAuthService_ResetPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockOTP := new(MockOTPStore)

	user := &model.User{Email: "test@example.com"}
	_ = user.SetPassword("old-password")
	oldHash := user.PasswordHash

	mockRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(user, nil)
	mockRepo.On("Update", mock.Anything, user).Return(nil)
	mockOTP.On("Purge", mock.Anything, "test@example.com").Return(nil)

	svc := newTestAuthService(mockRepo, mockOTP, new(MockMailer))
	err := svc.ResetPassword(context.Background(), "test@example.com", "new-password")

	assert.NoError(t, err)
	assert.NotEqual(t, oldHash, user.PasswordHash)
	assert.True(t, user.CheckPassword("new-password"))
	mockRepo.AssertExpectations(t)
	mockOTP.AssertExpectations(t)
}

package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"splitbook/internal/auth"
	apperrors "splitbook/internal/errors"
	"splitbook/internal/mail"
	"splitbook/internal/model"
	"splitbook/internal/repository"
)

// AuthService handles registration, login and the password reset flow.
type AuthService interface {
	SendRegistrationOTP(ctx context.Context, email string) error
	Register(ctx context.Context, email, otp, name, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (token string, user *model.User, err error)
	ForgotPassword(ctx context.Context, email string) error
	VerifyPasswordOTP(ctx context.Context, email, otp string) error
	ResetPassword(ctx context.Context, email, newPassword string) error
}

type authService struct {
	userRepo   repository.UserRepository
	otpStore   auth.OTPStoreInterface
	mailer     mail.Mailer
	jwtService *auth.JWTService
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, otpStore auth.OTPStoreInterface, mailer mail.Mailer, jwtService *auth.JWTService) AuthService {
	return &authService{
		userRepo:   userRepo,
		otpStore:   otpStore,
		mailer:     mailer,
		jwtService: jwtService,
	}
}

// SendRegistrationOTP issues a fresh one-time code for an unregistered
// email and mails it. A code already outstanding for the email is
// superseded.
func (s *authService) SendRegistrationOTP(ctx context.Context, email string) error {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return apperrors.ErrUserExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check user existence: %w", err)
	}

	code, err := s.otpStore.Issue(ctx, email)
	if err != nil {
		return err
	}

	body := fmt.Sprintf("Your verification code is: %s\n\nIt expires in 5 minutes.", code)
	if err := s.mailer.Send(ctx, email, "Your Splitbook verification code", body); err != nil {
		return fmt.Errorf("send otp email: %w", err)
	}
	return nil
}

// Register consumes a matching unexpired code and creates the user. The
// code is gone after this call whether registration succeeds or not.
func (s *authService) Register(ctx context.Context, email, otp, name, password string) (*model.User, error) {
	if err := s.otpStore.Consume(ctx, email, otp); err != nil {
		return nil, err
	}

	user := &model.User{
		Name:  name,
		Email: email,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login authenticates a user and returns a bearer token. Unknown email
// and wrong password produce the same error.
func (s *authService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}
	if !user.CheckPassword(password) {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}
	return token, user, nil
}

// ForgotPassword reissues a one-time code for a registered email,
// invalidating any prior one, and mails it.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	code, err := s.otpStore.Issue(ctx, email)
	if err != nil {
		return err
	}

	body := fmt.Sprintf("Hello %s,\n\nYour code to reset your password is: %s\n\nIt expires in 5 minutes. If you did not request a password reset, please ignore this email.", user.Name, code)
	if err := s.mailer.Send(ctx, email, "Splitbook password reset code", body); err != nil {
		return fmt.Errorf("send otp email: %w", err)
	}
	return nil
}

// VerifyPasswordOTP consumes a matching code. ResetPassword does not
// require this step to have run; clients call the two in sequence.
func (s *authService) VerifyPasswordOTP(ctx context.Context, email, otp string) error {
	return s.otpStore.Consume(ctx, email, otp)
}

// ResetPassword re-hashes and persists the new credential and purges any
// outstanding code for the email.
func (s *authService) ResetPassword(ctx context.Context, email, newPassword string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	if err := user.SetPassword(newPassword); err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	return s.otpStore.Purge(ctx, email)
}

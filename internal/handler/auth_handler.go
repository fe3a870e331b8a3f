package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"splitbook/internal/service"
)

// AuthHandler handles registration, login and password reset endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SendOTPRequest starts a registration.
type SendOTPRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// VerifyOTPRequest completes a registration.
type VerifyOTPRequest struct {
	Email    string `json:"email" validate:"required,email"`
	OTP      string `json:"otp" validate:"required,len=6"`
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest starts a password reset.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyPasswordOTPRequest verifies a reset code.
type VerifyPasswordOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6"`
}

// ResetPasswordRequest completes a password reset.
type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// SendOTP godoc
// @Summary Send a registration verification code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SendOTPRequest true "Registration start"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /auth/send-otp [post]
func (h *AuthHandler) SendOTP(c echo.Context) error {
	var req SendOTPRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.SendRegistrationOTP(c.Request().Context(), req.Email); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "OTP sent to your email"})
}

// VerifyOTP godoc
// @Summary Verify the code and create the account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body VerifyOTPRequest true "Registration data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Router /auth/verify-otp [post]
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req VerifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.Register(c.Request().Context(), req.Email, req.OTP, req.Name, req.Password)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":   "user registered successfully",
		"member_id": user.MemberCode,
	})
}

// Login godoc
// @Summary Log in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"token":      token,
		"id":         user.ID,
		"member_id":  user.MemberCode,
		"name":       user.Name,
		"avatar_url": user.AvatarURL,
	})
}

// ForgotPassword godoc
// @Summary Send a password reset code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ForgotPasswordRequest true "Account email"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password reset OTP sent to your email"})
}

// VerifyPasswordOTP godoc
// @Summary Verify a password reset code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body VerifyPasswordOTPRequest true "Email and code"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Router /auth/verify-password-otp [post]
func (h *AuthHandler) VerifyPasswordOTP(c echo.Context) error {
	var req VerifyPasswordOTPRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.VerifyPasswordOTP(c.Request().Context(), req.Email, req.OTP); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "OTP verified, you can now reset your password"})
}

// ResetPassword godoc
// @Summary Set a new password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ResetPasswordRequest true "Email and new password"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ResetPassword(c.Request().Context(), req.Email, req.NewPassword); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password reset successfully"})
}

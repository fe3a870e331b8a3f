package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"splitbook/internal/service"
)

// UserHandler handles profile endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UpdateProfileRequest updates the display name.
type UpdateProfileRequest struct {
	Name string `json:"name" validate:"required"`
}

// UpdateTokenRequest stores the device push subscription.
type UpdateTokenRequest struct {
	DeviceToken string `json:"device_token" validate:"required"`
}

// GetProfile godoc
// @Summary Get the current user's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/profile [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	user, err := h.userService.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":         user.ID,
		"name":       user.Name,
		"email":      user.Email,
		"avatar_url": user.AvatarURL,
		"member_id":  user.MemberCode,
	})
}

// UpdateProfile godoc
// @Summary Update the current user's display name
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "New name"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Router /auth/profile [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.UpdateProfile(c.Request().Context(), userID, req.Name)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "profile updated successfully",
		"user": echo.Map{
			"id":         user.ID,
			"name":       user.Name,
			"email":      user.Email,
			"avatar_url": user.AvatarURL,
		},
	})
}

// UploadAvatar godoc
// @Summary Upload a profile picture
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param avatar formData file true "Image file"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /auth/profile/avatar [put]
func (h *UserHandler) UploadAvatar(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	data, contentType, err := readImageFile(c, "avatar")
	if err != nil {
		return domainError(err)
	}

	url, err := h.userService.UpdateAvatar(c.Request().Context(), userID, contentType, data)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":    "avatar updated successfully",
		"avatar_url": url,
	})
}

// UpdateToken godoc
// @Summary Store the device's push subscription
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateTokenRequest true "Push subscription"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Router /auth/update-token [post]
func (h *UserHandler) UpdateToken(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req UpdateTokenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.userService.UpdateDeviceToken(c.Request().Context(), userID, req.DeviceToken); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "token updated successfully"})
}

// FindByMemberCode godoc
// @Summary Look up a user by member code
// @Tags users
// @Produce json
// @Param memberId path string true "Member code"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse
// @Router /auth/users/{memberId} [get]
func (h *UserHandler) FindByMemberCode(c echo.Context) error {
	user, err := h.userService.FindByMemberCode(c.Request().Context(), c.Param("memberId"))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":        user.ID,
		"name":      user.Name,
		"member_id": user.MemberCode,
	})
}

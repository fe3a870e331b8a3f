package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"splitbook/internal/service"
)

// GroupHandler handles group lifecycle endpoints.
type GroupHandler struct {
	groupService service.GroupService
}

// NewGroupHandler creates a new group handler.
func NewGroupHandler(groupService service.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

// CreateGroupRequest creates a group. Member ids that do not resolve to
// existing users are silently dropped.
type CreateGroupRequest struct {
	Name      string   `json:"name" validate:"required"`
	MemberIDs []string `json:"member_ids"`
}

// AddMemberRequest adds a user to a group by their member code.
type AddMemberRequest struct {
	MemberCode string `json:"member_code" validate:"required"`
}

// RemoveMemberRequest removes a user from a group by their id.
type RemoveMemberRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

// Create godoc
// @Summary Create a group
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateGroupRequest true "Group data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Router /groups [post]
func (h *GroupHandler) Create(c echo.Context) error {
	adminID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req CreateGroupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	memberIDs := make([]uuid.UUID, 0, len(req.MemberIDs))
	for _, raw := range req.MemberIDs {
		if id, err := uuid.Parse(raw); err == nil {
			memberIDs = append(memberIDs, id)
		}
	}

	group, err := h.groupService.CreateGroup(c.Request().Context(), adminID, req.Name, memberIDs)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "group created successfully",
		"group":   group,
	})
}

// Mine godoc
// @Summary List the caller's groups
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Group
// @Router /groups/mine [get]
func (h *GroupHandler) Mine(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	groups, err := h.groupService.MyGroups(c.Request().Context(), userID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, groups)
}

// AddMember godoc
// @Summary Add a member to a group
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Param request body AddMemberRequest true "Member code"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /groups/{id}/members [put]
func (h *GroupHandler) AddMember(c echo.Context) error {
	actorID, err := currentUserID(c)
	if err != nil {
		return err
	}
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid group id")
	}

	var req AddMemberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	group, err := h.groupService.AddMember(c.Request().Context(), actorID, groupID, req.MemberCode)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "member added successfully",
		"group":   group,
	})
}

// RemoveMember godoc
// @Summary Remove a member from a group
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Param request body RemoveMemberRequest true "User id"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /groups/{id}/members [delete]
func (h *GroupHandler) RemoveMember(c echo.Context) error {
	actorID, err := currentUserID(c)
	if err != nil {
		return err
	}
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid group id")
	}

	var req RemoveMemberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	targetID, err := uuid.Parse(req.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	if err := h.groupService.RemoveMember(c.Request().Context(), actorID, groupID, targetID); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "member removed successfully"})
}

// SetBackground godoc
// @Summary Set the group's background image
// @Tags groups
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Param background formData file true "Image file"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /groups/{id}/background [put]
func (h *GroupHandler) SetBackground(c echo.Context) error {
	actorID, err := currentUserID(c)
	if err != nil {
		return err
	}
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid group id")
	}

	data, contentType, err := readImageFile(c, "background")
	if err != nil {
		return domainError(err)
	}

	url, err := h.groupService.SetBackground(c.Request().Context(), actorID, groupID, contentType, data)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":        "group background updated successfully",
		"background_url": url,
	})
}

// Delete godoc
// @Summary Delete a group and all its expenses
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse
// @Router /groups/{id} [delete]
func (h *GroupHandler) Delete(c echo.Context) error {
	actorID, err := currentUserID(c)
	if err != nil {
		return err
	}
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid group id")
	}

	if err := h.groupService.DeleteGroup(c.Request().Context(), actorID, groupID); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "group and all associated expenses deleted"})
}

package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"splitbook/internal/model"
	"splitbook/internal/service"
)

// ExpenseHandler handles ledger endpoints.
type ExpenseHandler struct {
	expenseService service.ExpenseService
}

// NewExpenseHandler creates a new expense handler.
func NewExpenseHandler(expenseService service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// AddExpenseRequest logs a new expense. The spender is always the caller.
type AddExpenseRequest struct {
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Description string          `json:"description" validate:"required"`
	GroupID     string          `json:"group_id" validate:"required,uuid"`
}

// ExpenseResponse is an expense annotated with the spender's name.
type ExpenseResponse struct {
	ID          uuid.UUID       `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	GroupID     uuid.UUID       `json:"group_id"`
	SpentBy     SpentByResponse `json:"spent_by"`
	CreatedAt   time.Time       `json:"created_at"`
}

// SpentByResponse identifies the spender.
type SpentByResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Add godoc
// @Summary Log a new expense
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AddExpenseRequest true "Expense data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /expenses/add [post]
func (h *ExpenseHandler) Add(c echo.Context) error {
	spenderID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req AddExpenseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	groupID, err := uuid.Parse(req.GroupID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid group id")
	}

	expense, err := h.expenseService.AddExpense(c.Request().Context(), spenderID, groupID, req.Amount, req.Description)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "expense added successfully",
		"expense": expense,
	})
}

// GroupExpenses godoc
// @Summary List a group's expenses for a calendar month
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param groupId path string true "Group ID"
// @Param month path int true "Month (1-12)"
// @Param year path int true "Year"
// @Success 200 {array} ExpenseResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /expenses/group/{groupId}/{month}/{year} [get]
func (h *ExpenseHandler) GroupExpenses(c echo.Context) error {
	callerID, err := currentUserID(c)
	if err != nil {
		return err
	}
	groupID, month, year, err := parseLedgerParams(c)
	if err != nil {
		return err
	}

	expenses, err := h.expenseService.GroupExpenses(c.Request().Context(), callerID, groupID, month, year)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, toExpenseResponses(expenses))
}

// UserExpenses godoc
// @Summary List one member's expenses in a group for a calendar month
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param groupId path string true "Group ID"
// @Param memberId path string true "Member user ID"
// @Param month path int true "Month (1-12)"
// @Param year path int true "Year"
// @Success 200 {array} ExpenseResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /expenses/user/{groupId}/{memberId}/{month}/{year} [get]
func (h *ExpenseHandler) UserExpenses(c echo.Context) error {
	callerID, err := currentUserID(c)
	if err != nil {
		return err
	}
	groupID, month, year, err := parseLedgerParams(c)
	if err != nil {
		return err
	}
	memberID, err := uuid.Parse(c.Param("memberId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid member id")
	}

	expenses, err := h.expenseService.MemberExpenses(c.Request().Context(), callerID, groupID, memberID, month, year)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, toExpenseResponses(expenses))
}

func parseLedgerParams(c echo.Context) (groupID uuid.UUID, month, year int, err error) {
	groupID, err = uuid.Parse(c.Param("groupId"))
	if err != nil {
		return uuid.Nil, 0, 0, echo.NewHTTPError(http.StatusBadRequest, "invalid group id")
	}
	month, err = strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		return uuid.Nil, 0, 0, echo.NewHTTPError(http.StatusBadRequest, "invalid month")
	}
	year, err = strconv.Atoi(c.Param("year"))
	if err != nil || year < 1 {
		return uuid.Nil, 0, 0, echo.NewHTTPError(http.StatusBadRequest, "invalid year")
	}
	return groupID, month, year, nil
}

func toExpenseResponses(expenses []model.Expense) []ExpenseResponse {
	out := make([]ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, ExpenseResponse{
			ID:          e.ID,
			Amount:      e.Amount,
			Description: e.Description,
			GroupID:     e.GroupID,
			SpentBy:     SpentByResponse{ID: e.SpentByID, Name: e.SpentBy.Name},
			CreatedAt:   e.CreatedAt,
		})
	}
	return out
}

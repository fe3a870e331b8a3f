package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apperrors "splitbook/internal/errors"
	"splitbook/internal/model"
	"splitbook/internal/push"
	"splitbook/internal/repository"
)

// ExpenseService handles the ledger write and query paths.
type ExpenseService interface {
	AddExpense(ctx context.Context, spenderID, groupID uuid.UUID, amount decimal.Decimal, description string) (*model.Expense, error)
	GroupExpenses(ctx context.Context, callerID, groupID uuid.UUID, month, year int) ([]model.Expense, error)
	MemberExpenses(ctx context.Context, callerID, groupID, memberID uuid.UUID, month, year int) ([]model.Expense, error)
}

type expenseService struct {
	expenseRepo repository.ExpenseRepository
	guard       *MembershipGuard
	dispatcher  push.Dispatcher
}

// NewExpenseService creates a new expense service.
func NewExpenseService(expenseRepo repository.ExpenseRepository, guard *MembershipGuard, dispatcher push.Dispatcher) ExpenseService {
	return &expenseService{
		expenseRepo: expenseRepo,
		guard:       guard,
		dispatcher:  dispatcher,
	}
}

// AddExpense persists a new expense for the caller's group and then
// notifies the other members. The write is complete and the call
// succeeds before any notification is attempted; delivery failures are
// logged and never surfaced.
func (s *expenseService) AddExpense(ctx context.Context, spenderID, groupID uuid.UUID, amount decimal.Decimal, description string) (*model.Expense, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.ErrInvalidAmount
	}

	group, err := s.guard.LoadGroupIfMember(ctx, spenderID, groupID)
	if err != nil {
		return nil, err
	}

	expense := &model.Expense{
		Amount:      amount,
		Description: description,
		GroupID:     groupID,
		SpentByID:   spenderID,
	}
	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}

	go s.notifyMembers(group, spenderID, expense)

	return expense, nil
}

// GroupExpenses returns the group's expenses for the 1-indexed calendar
// month, oldest first, spender preloaded. Non-members get NotFound.
func (s *expenseService) GroupExpenses(ctx context.Context, callerID, groupID uuid.UUID, month, year int) ([]model.Expense, error) {
	if _, err := s.guard.LoadGroupIfMember(ctx, callerID, groupID); err != nil {
		return nil, err
	}
	start, end := monthWindow(year, month)
	return s.expenseRepo.ListByGroupBetween(ctx, groupID, start, end)
}

// MemberExpenses is GroupExpenses additionally filtered by spender.
func (s *expenseService) MemberExpenses(ctx context.Context, callerID, groupID, memberID uuid.UUID, month, year int) ([]model.Expense, error) {
	if _, err := s.guard.LoadGroupIfMember(ctx, callerID, groupID); err != nil {
		return nil, err
	}
	start, end := monthWindow(year, month)
	return s.expenseRepo.ListBySpenderBetween(ctx, groupID, memberID, start, end)
}

// notifyMembers fans the new expense out to every member except the
// spender. It runs detached from the request; per-recipient failures are
// collected in the log and do not abort the batch.
func (s *expenseService) notifyMembers(group *model.Group, spenderID uuid.UUID, expense *model.Expense) {
	var spenderName string
	for _, m := range group.Members {
		if m.ID == spenderID {
			spenderName = m.Name
			break
		}
	}

	payload := push.Payload{
		Title: fmt.Sprintf("New expense in %s", group.Name),
		Body:  fmt.Sprintf("%s added %s - %s", spenderName, expense.Amount.StringFixed(2), expense.Description),
		Tag:   "expense:" + expense.ID.String(),
	}

	sent := 0
	for _, m := range group.Members {
		if m.ID == spenderID || m.DeviceToken == "" {
			continue
		}
		if err := s.dispatcher.Send(m.DeviceToken, payload); err != nil {
			log.Printf("push to %s failed: %v", m.ID, err)
			continue
		}
		sent++
	}
	log.Printf("expense %s: notified %d of %d members", expense.ID, sent, len(group.Members)-1)
}

// monthWindow returns the [start, end) bounds of the 1-indexed calendar
// month in UTC. The exclusive end makes the last day inclusive up to
// 23:59:59.999...
func monthWindow(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"splitbook/internal/model"
)

// ExpenseRepository defines expense persistence operations. Expenses are
// append-only; there is no update.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *model.Expense) error
	ListByGroupBetween(ctx context.Context, groupID uuid.UUID, start, end time.Time) ([]model.Expense, error)
	ListBySpenderBetween(ctx context.Context, groupID, spenderID uuid.UUID, start, end time.Time) ([]model.Expense, error)
	DeleteByGroup(ctx context.Context, groupID uuid.UUID) error
}

type expenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository creates a new expense repository.
func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

// Create creates a new expense.
func (r *expenseRepository) Create(ctx context.Context, expense *model.Expense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

// ListByGroupBetween returns the group's expenses with created_at in
// [start, end), spender preloaded, oldest first.
func (r *expenseRepository) ListByGroupBetween(ctx context.Context, groupID uuid.UUID, start, end time.Time) ([]model.Expense, error) {
	var expenses []model.Expense
	if err := r.db.WithContext(ctx).
		Preload("SpentBy").
		Where("group_id = ? AND created_at >= ? AND created_at < ?", groupID, start, end).
		Order("created_at ASC").
		Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

// ListBySpenderBetween is ListByGroupBetween additionally filtered by spender.
func (r *expenseRepository) ListBySpenderBetween(ctx context.Context, groupID, spenderID uuid.UUID, start, end time.Time) ([]model.Expense, error) {
	var expenses []model.Expense
	if err := r.db.WithContext(ctx).
		Preload("SpentBy").
		Where("group_id = ? AND spent_by_id = ? AND created_at >= ? AND created_at < ?", groupID, spenderID, start, end).
		Order("created_at ASC").
		Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

// DeleteByGroup removes every expense belonging to the group.
func (r *expenseRepository) DeleteByGroup(ctx context.Context, groupID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("group_id = ?", groupID).Delete(&model.Expense{}).Error
}

package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"splitbook/internal/model"
	"splitbook/internal/push"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByMemberCode(ctx context.Context, code string) (*model.User, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

// MockGroupRepository is a mock implementation of GroupRepository.
type MockGroupRepository struct {
	mock.Mock
}

func (m *MockGroupRepository) Create(ctx context.Context, group *model.Group) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *MockGroupRepository) Update(ctx context.Context, group *model.Group) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *MockGroupRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Group, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Group), args.Error(1)
}

func (m *MockGroupRepository) FindByIDAndAdmin(ctx context.Context, id, adminID uuid.UUID) (*model.Group, error) {
	args := m.Called(ctx, id, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Group), args.Error(1)
}

func (m *MockGroupRepository) ListByMember(ctx context.Context, userID uuid.UUID) ([]model.Group, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Group), args.Error(1)
}

func (m *MockGroupRepository) AddMember(ctx context.Context, group *model.Group, user *model.User) error {
	args := m.Called(ctx, group, user)
	return args.Error(0)
}

func (m *MockGroupRepository) RemoveMember(ctx context.Context, group *model.Group, user *model.User) error {
	args := m.Called(ctx, group, user)
	return args.Error(0)
}

func (m *MockGroupRepository) Delete(ctx context.Context, group *model.Group) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

// MockExpenseRepository is a mock implementation of ExpenseRepository.
type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) Create(ctx context.Context, expense *model.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) ListByGroupBetween(ctx context.Context, groupID uuid.UUID, start, end time.Time) ([]model.Expense, error) {
	args := m.Called(ctx, groupID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Expense), args.Error(1)
}

func (m *MockExpenseRepository) ListBySpenderBetween(ctx context.Context, groupID, spenderID uuid.UUID, start, end time.Time) ([]model.Expense, error) {
	args := m.Called(ctx, groupID, spenderID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Expense), args.Error(1)
}

func (m *MockExpenseRepository) DeleteByGroup(ctx context.Context, groupID uuid.UUID) error {
	args := m.Called(ctx, groupID)
	return args.Error(0)
}

// MockOTPStore is a mock implementation of OTPStoreInterface.
type MockOTPStore struct {
	mock.Mock
}

func (m *MockOTPStore) Issue(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *MockOTPStore) Consume(ctx context.Context, email, code string) error {
	args := m.Called(ctx, email, code)
	return args.Error(0)
}

func (m *MockOTPStore) Purge(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

// MockMailer is a mock implementation of mail.Mailer.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

// MockImageStore is a mock implementation of imagestore.ImageStore.
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Upload(ctx context.Context, folder, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, folder, contentType, data)
	return args.String(0), args.Error(1)
}

// fakeDispatcher records push sends on a channel so tests can wait for
// the detached notifier goroutine.
type fakeDispatcher struct {
	sent chan string
	err  error
}

func newFakeDispatcher(capacity int) *fakeDispatcher {
	return &fakeDispatcher{sent: make(chan string, capacity)}
}

func (d *fakeDispatcher) Send(deviceToken string, payload push.Payload) error {
	d.sent <- deviceToken
	return d.err
}

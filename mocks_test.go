package gateway_test

import (
	"context"

	gateway "github.com/goliatone/go-gateway"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockDummies implements gateway.Dummies
type MockDummies struct {
	mock.Mock
}

func (m *MockDummies) FindByID(ctx context.Context, id uuid.UUID) (*gateway.Dummy, error) {
	args := m.Called(ctx, id)
	if record := args.Get(0); record != nil {
		return record.(*gateway.Dummy), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDummies) Create(ctx context.Context, record *gateway.Dummy) (*gateway.Dummy, error) {
	args := m.Called(ctx, record)
	if created := args.Get(0); created != nil {
		return created.(*gateway.Dummy), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockAccounts implements gateway.Accounts
type MockAccounts struct {
	mock.Mock
}

func (m *MockAccounts) FindByEmail(ctx context.Context, email string) (*gateway.Account, error) {
	args := m.Called(ctx, email)
	if record := args.Get(0); record != nil {
		return record.(*gateway.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccounts) FindByID(ctx context.Context, id uuid.UUID) (*gateway.Account, error) {
	args := m.Called(ctx, id)
	if record := args.Get(0); record != nil {
		return record.(*gateway.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccounts) Create(ctx context.Context, record *gateway.Account) (*gateway.Account, error) {
	args := m.Called(ctx, record)
	if created := args.Get(0); created != nil {
		return created.(*gateway.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccounts) MarkVerified(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

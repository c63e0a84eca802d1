package handler

import (
	"context"
	"time"

	"code-redeem/internal/model"

	"github.com/stretchr/testify/mock"
)

// MockRedemptionService is a mock implementation of RedemptionService.
type MockRedemptionService struct {
	mock.Mock
}

func (m *MockRedemptionService) RedeemSingleUse(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockRedemptionService) RedeemTimed(ctx context.Context, code string, userID int64) (model.RedemptionStatus, error) {
	args := m.Called(ctx, code, userID)
	return args.Get(0).(model.RedemptionStatus), args.Error(1)
}

func (m *MockRedemptionService) AddSingleUse(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockRedemptionService) ActivateTimed(ctx context.Context, code string, activatedAt time.Time) error {
	args := m.Called(ctx, code, activatedAt)
	return args.Error(0)
}

func (m *MockRedemptionService) Stats(ctx context.Context) (*model.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Stats), args.Error(1)
}

// MockImportService is a mock implementation of ImportService.
type MockImportService struct {
	mock.Mock
}

func (m *MockImportService) LoadSingleUse(ctx context.Context, rows [][]string) (int, int, error) {
	args := m.Called(ctx, rows)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *MockImportService) LoadTimed(ctx context.Context, rows [][]string) (int, int, error) {
	args := m.Called(ctx, rows)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *MockImportService) Rewrite(ctx context.Context) (*model.ImportReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ImportReport), args.Error(1)
}

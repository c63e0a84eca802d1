package service

import (
	"context"
	"time"

	"code-redeem/internal/model"
	"code-redeem/internal/repository"

	"github.com/stretchr/testify/mock"
)

// MockCodeRepository is a mock implementation of CodeRepository.
type MockCodeRepository struct {
	mock.Mock
}

func (m *MockCodeRepository) Exists(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockCodeRepository) Add(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockCodeRepository) Consume(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockCodeRepository) ReplaceAll(ctx context.Context, codes []string) (int, error) {
	args := m.Called(ctx, codes)
	return args.Int(0), args.Error(1)
}

func (m *MockCodeRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockTimedCodeRepository is a mock implementation of TimedCodeRepository.
type MockTimedCodeRepository struct {
	mock.Mock
}

func (m *MockTimedCodeRepository) Activate(ctx context.Context, code string, activatedAt time.Time) error {
	args := m.Called(ctx, code, activatedAt)
	return args.Error(0)
}

func (m *MockTimedCodeRepository) LookupActivation(ctx context.Context, code string) (*time.Time, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

func (m *MockTimedCodeRepository) ReplaceAll(ctx context.Context, codes []model.TimedCode) (int, error) {
	args := m.Called(ctx, codes)
	return args.Int(0), args.Error(1)
}

func (m *MockTimedCodeRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockRedemptionRepository is a mock implementation of RedemptionRepository.
type MockRedemptionRepository struct {
	mock.Mock
}

func (m *MockRedemptionRepository) HasRedeemed(ctx context.Context, userID int64, code string) (bool, error) {
	args := m.Called(ctx, userID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockRedemptionRepository) Record(ctx context.Context, userID int64, code string, at time.Time) (bool, error) {
	args := m.Called(ctx, userID, code, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockRedemptionRepository) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRedemptionRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockLoader is a mock implementation of codefile.Loader.
type MockLoader struct {
	mock.Mock
}

func (m *MockLoader) Load(ctx context.Context, path string) ([][]string, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]string), args.Error(1)
}

type mockStores struct {
	codes       *MockCodeRepository
	timedCodes  *MockTimedCodeRepository
	redemptions *MockRedemptionRepository
}

func newMockStores() (*mockStores, repository.Stores) {
	m := &mockStores{
		codes:       new(MockCodeRepository),
		timedCodes:  new(MockTimedCodeRepository),
		redemptions: new(MockRedemptionRepository),
	}
	return m, repository.Stores{
		Codes:       m.codes,
		TimedCodes:  m.timedCodes,
		Redemptions: m.redemptions,
		Ping:        func(context.Context) error { return nil },
	}
}

func (m *mockStores) assertExpectations(t mock.TestingT) {
	m.codes.AssertExpectations(t)
	m.timedCodes.AssertExpectations(t)
	m.redemptions.AssertExpectations(t)
}

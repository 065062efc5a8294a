package repository

import (
	"context"

	"github.com/stretchr/testify/mock"

	"groovesync/internal/domain/entity"
	"groovesync/internal/domain/repository"
)

// MockRefreshTokenRepository is a mock of repository.RefreshTokenRepository.
type MockRefreshTokenRepository struct {
	mock.Mock
}

var _ repository.RefreshTokenRepository = (*MockRefreshTokenRepository)(nil)

// MockRefreshTokenRepository_Expecter offers typed expectation helpers.
type MockRefreshTokenRepository_Expecter struct {
	mock *mock.Mock
}

// NewMockRefreshTokenRepository creates a mock whose expectations are asserted on test cleanup.
func NewMockRefreshTokenRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockRefreshTokenRepository {
	m := &MockRefreshTokenRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (_m *MockRefreshTokenRepository) EXPECT() *MockRefreshTokenRepository_Expecter {
	return &MockRefreshTokenRepository_Expecter{mock: &_m.Mock}
}

func (_m *MockRefreshTokenRepository) Store(ctx context.Context, token *entity.RefreshToken) error {
	ret := _m.Called(ctx, token)

	return ret.Error(0)
}

func (_e *MockRefreshTokenRepository_Expecter) Store(ctx interface{}, token interface{}) *mock.Call {
	return _e.mock.On("Store", ctx, token)
}

func (_m *MockRefreshTokenRepository) FindValid(ctx context.Context, token string) (*entity.RefreshToken, error) {
	ret := _m.Called(ctx, token)

	var record *entity.RefreshToken
	if v := ret.Get(0); v != nil {
		record = v.(*entity.RefreshToken)
	}

	return record, ret.Error(1)
}

func (_e *MockRefreshTokenRepository_Expecter) FindValid(ctx interface{}, token interface{}) *mock.Call {
	return _e.mock.On("FindValid", ctx, token)
}

func (_m *MockRefreshTokenRepository) Delete(ctx context.Context, token string) error {
	ret := _m.Called(ctx, token)

	return ret.Error(0)
}

func (_e *MockRefreshTokenRepository_Expecter) Delete(ctx interface{}, token interface{}) *mock.Call {
	return _e.mock.On("Delete", ctx, token)
}

func (_m *MockRefreshTokenRepository) InvalidateAll(ctx context.Context, username string) error {
	ret := _m.Called(ctx, username)

	return ret.Error(0)
}

func (_e *MockRefreshTokenRepository_Expecter) InvalidateAll(ctx interface{}, username interface{}) *mock.Call {
	return _e.mock.On("InvalidateAll", ctx, username)
}

func (_m *MockRefreshTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	ret := _m.Called(ctx)

	var removed int64
	if v := ret.Get(0); v != nil {
		removed = v.(int64)
	}

	return removed, ret.Error(1)
}

func (_e *MockRefreshTokenRepository_Expecter) DeleteExpired(ctx interface{}) *mock.Call {
	return _e.mock.On("DeleteExpired", ctx)
}

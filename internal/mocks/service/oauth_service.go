// Package service holds testify mocks of the domain service interfaces.
package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"groovesync/internal/domain/entity"
	"groovesync/internal/domain/service"
)

// MockOAuthService is a mock of service.OAuthService.
type MockOAuthService struct {
	mock.Mock
}

var _ service.OAuthService = (*MockOAuthService)(nil)

// MockOAuthService_Expecter offers typed expectation helpers.
type MockOAuthService_Expecter struct {
	mock *mock.Mock
}

// NewMockOAuthService creates a mock whose expectations are asserted on test cleanup.
func NewMockOAuthService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockOAuthService {
	m := &MockOAuthService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (_m *MockOAuthService) EXPECT() *MockOAuthService_Expecter {
	return &MockOAuthService_Expecter{mock: &_m.Mock}
}

func (_m *MockOAuthService) AuthorizationURL(state string) string {
	ret := _m.Called(state)

	return ret.String(0)
}

func (_e *MockOAuthService_Expecter) AuthorizationURL(state interface{}) *mock.Call {
	return _e.mock.On("AuthorizationURL", state)
}

func (_m *MockOAuthService) ExchangeCode(ctx context.Context, code string) (*service.OAuthTokens, error) {
	ret := _m.Called(ctx, code)

	var tokens *service.OAuthTokens
	if v := ret.Get(0); v != nil {
		tokens = v.(*service.OAuthTokens)
	}

	return tokens, ret.Error(1)
}

func (_e *MockOAuthService_Expecter) ExchangeCode(ctx interface{}, code interface{}) *mock.Call {
	return _e.mock.On("ExchangeCode", ctx, code)
}

func (_m *MockOAuthService) FetchProfile(ctx context.Context, accessToken string) (*service.OAuthUser, error) {
	ret := _m.Called(ctx, accessToken)

	var user *service.OAuthUser
	if v := ret.Get(0); v != nil {
		user = v.(*service.OAuthUser)
	}

	return user, ret.Error(1)
}

func (_e *MockOAuthService_Expecter) FetchProfile(ctx interface{}, accessToken interface{}) *mock.Call {
	return _e.mock.On("FetchProfile", ctx, accessToken)
}

func (_m *MockOAuthService) Provider() entity.ProviderType {
	ret := _m.Called()

	return ret.Get(0).(entity.ProviderType)
}

func (_e *MockOAuthService_Expecter) Provider() *mock.Call {
	return _e.mock.On("Provider")
}

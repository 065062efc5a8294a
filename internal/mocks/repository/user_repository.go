// Package repository holds testify mocks of the domain repository interfaces.
package repository

import (
	"context"

	"github.com/stretchr/testify/mock"

	"groovesync/internal/domain/entity"
	"groovesync/internal/domain/repository"
)

// MockUserRepository is a mock of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

var _ repository.UserRepository = (*MockUserRepository)(nil)

// MockUserRepository_Expecter offers typed expectation helpers.
type MockUserRepository_Expecter struct {
	mock *mock.Mock
}

// NewMockUserRepository creates a mock whose expectations are asserted on test cleanup.
func NewMockUserRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockUserRepository {
	m := &MockUserRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (_m *MockUserRepository) EXPECT() *MockUserRepository_Expecter {
	return &MockUserRepository_Expecter{mock: &_m.Mock}
}

func userResult(ret mock.Arguments) (*entity.User, error) {
	var user *entity.User
	if v := ret.Get(0); v != nil {
		user = v.(*entity.User)
	}

	return user, ret.Error(1)
}

func (_m *MockUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return userResult(_m.Called(ctx, id))
}

func (_e *MockUserRepository_Expecter) FindByID(ctx interface{}, id interface{}) *mock.Call {
	return _e.mock.On("FindByID", ctx, id)
}

func (_m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return userResult(_m.Called(ctx, username))
}

func (_e *MockUserRepository_Expecter) FindByUsername(ctx interface{}, username interface{}) *mock.Call {
	return _e.mock.On("FindByUsername", ctx, username)
}

func (_m *MockUserRepository) FindByExternalID(ctx context.Context, spotifyID string) (*entity.User, error) {
	return userResult(_m.Called(ctx, spotifyID))
}

func (_e *MockUserRepository_Expecter) FindByExternalID(ctx interface{}, spotifyID interface{}) *mock.Call {
	return _e.mock.On("FindByExternalID", ctx, spotifyID)
}

func (_m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	ret := _m.Called(ctx, user)

	return ret.Error(0)
}

func (_e *MockUserRepository_Expecter) Create(ctx interface{}, user interface{}) *mock.Call {
	return _e.mock.On("Create", ctx, user)
}

func (_m *MockUserRepository) UpdatePassword(ctx context.Context, username, passwordHash string) (bool, error) {
	ret := _m.Called(ctx, username, passwordHash)

	return ret.Bool(0), ret.Error(1)
}

func (_e *MockUserRepository_Expecter) UpdatePassword(ctx interface{}, username interface{}, passwordHash interface{}) *mock.Call {
	return _e.mock.On("UpdatePassword", ctx, username, passwordHash)
}

func (_m *MockUserRepository) LinkExternalID(ctx context.Context, username, spotifyID string) (bool, error) {
	ret := _m.Called(ctx, username, spotifyID)

	return ret.Bool(0), ret.Error(1)
}

func (_e *MockUserRepository_Expecter) LinkExternalID(ctx interface{}, username interface{}, spotifyID interface{}) *mock.Call {
	return _e.mock.On("LinkExternalID", ctx, username, spotifyID)
}

func (_m *MockUserRepository) Delete(ctx context.Context, username string) (bool, error) {
	ret := _m.Called(ctx, username)

	return ret.Bool(0), ret.Error(1)
}

func (_e *MockUserRepository_Expecter) Delete(ctx interface{}, username interface{}) *mock.Call {
	return _e.mock.On("Delete", ctx, username)
}

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"storyvoice/internal/identity"
)

// MockProvider is a mock type for the identity.Provider type
type MockProvider struct {
	mock.Mock
}

// SignIn provides a mock function with given fields: ctx, email, password
func (_m *MockProvider) SignIn(ctx context.Context, email string, password string) (*identity.Identity, error) {
	ret := _m.Called(ctx, email, password)

	var r0 *identity.Identity
	if rf, ok := ret.Get(0).(func(context.Context, string, string) *identity.Identity); ok {
		r0 = rf(ctx, email, password)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*identity.Identity)
	}

	return r0, ret.Error(1)
}

// Register provides a mock function with given fields: ctx, email, password
func (_m *MockProvider) Register(ctx context.Context, email string, password string) (*identity.Identity, error) {
	ret := _m.Called(ctx, email, password)

	var r0 *identity.Identity
	if rf, ok := ret.Get(0).(func(context.Context, string, string) *identity.Identity); ok {
		r0 = rf(ctx, email, password)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*identity.Identity)
	}

	return r0, ret.Error(1)
}

// SendVerification provides a mock function with given fields: ctx
func (_m *MockProvider) SendVerification(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}

// SignOut provides a mock function with given fields: ctx
func (_m *MockProvider) SignOut(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}

// Events provides a mock function with no fields
func (_m *MockProvider) Events() <-chan *identity.Identity {
	ret := _m.Called()

	var r0 <-chan *identity.Identity
	if rf, ok := ret.Get(0).(func() <-chan *identity.Identity); ok {
		r0 = rf()
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(<-chan *identity.Identity)
	}

	return r0
}

// Close provides a mock function with no fields
func (_m *MockProvider) Close() {
	_m.Called()
}

var _ identity.Provider = (*MockProvider)(nil)

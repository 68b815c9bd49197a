package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"storyvoice/internal/models"
	"storyvoice/internal/stories"
)

// MockAPI is a mock type for the stories.API type
type MockAPI struct {
	mock.Mock
}

// Generate provides a mock function with given fields: ctx, req
func (_m *MockAPI) Generate(ctx context.Context, req stories.GenerateRequest) (*stories.GenerateResponse, error) {
	ret := _m.Called(ctx, req)

	var r0 *stories.GenerateResponse
	if rf, ok := ret.Get(0).(func(context.Context, stories.GenerateRequest) *stories.GenerateResponse); ok {
		r0 = rf(ctx, req)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*stories.GenerateResponse)
	}

	return r0, ret.Error(1)
}

// List provides a mock function with given fields: ctx, userID
func (_m *MockAPI) List(ctx context.Context, userID string) ([]models.StoryRecord, error) {
	ret := _m.Called(ctx, userID)

	var r0 []models.StoryRecord
	if rf, ok := ret.Get(0).(func(context.Context, string) []models.StoryRecord); ok {
		r0 = rf(ctx, userID)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.StoryRecord)
	}

	return r0, ret.Error(1)
}

// Delete provides a mock function with given fields: ctx, storyID, userID
func (_m *MockAPI) Delete(ctx context.Context, storyID string, userID string) error {
	ret := _m.Called(ctx, storyID, userID)
	return ret.Error(0)
}

var _ stories.API = (*MockAPI)(nil)

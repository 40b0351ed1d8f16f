package mocks

import (
	"github.com/maximilian-franz/trackme/pkg/location"
	"github.com/stretchr/testify/mock"
)

// MockProvider is a mock implementation of the location.Provider interface
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) GetLocation() (location.Location, error) {
	args := m.Called()
	return args.Get(0).(location.Location), args.Error(1)
}

func (m *MockProvider) Close() error {
	args := m.Called()
	return args.Error(0)
}

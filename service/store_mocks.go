package service

import (
	"context"

	"supportbot/events"
	"supportbot/models"

	"github.com/stretchr/testify/mock"
)

// MockProgressStore is a mock implementation of ProgressStore
type MockProgressStore struct {
	mock.Mock
}

func (m *MockProgressStore) Load() (map[string]*models.UserProgress, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*models.UserProgress), args.Error(1)
}

func (m *MockProgressStore) Save(table map[string]*models.UserProgress) error {
	args := m.Called(table)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Emit(ctx context.Context, event events.Event) {
	m.Called(ctx, event)
}

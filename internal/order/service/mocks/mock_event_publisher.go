package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/lokamart/e-commerce-api/internal/order/events"
)

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event events.OrderEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventPublisher) Close() {
	m.Called()
}

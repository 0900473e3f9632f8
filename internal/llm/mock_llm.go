package llm

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockClient is a mock implementation of Client using testify/mock.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) Generate(ctx context.Context, req Request) (Result, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(Result), args.Error(1)
}

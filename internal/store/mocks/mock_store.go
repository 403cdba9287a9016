package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockDocumentStore is a testify mock over store.DocumentStore[T].
type MockDocumentStore[T any] struct {
	mock.Mock
}

func (m *MockDocumentStore[T]) GetAll(ctx context.Context) ([]T, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockDocumentStore[T]) Get(ctx context.Context, id int) (T, error) {
	args := m.Called(ctx, id)
	var zero T
	if args.Get(0) == nil {
		return zero, args.Error(1)
	}
	return args.Get(0).(T), args.Error(1)
}

func (m *MockDocumentStore[T]) Save(ctx context.Context, instance T) (T, error) {
	args := m.Called(ctx, instance)
	var zero T
	if args.Get(0) == nil {
		return zero, args.Error(1)
	}
	return args.Get(0).(T), args.Error(1)
}

func (m *MockDocumentStore[T]) Update(ctx context.Context, id int, instance T) (T, error) {
	args := m.Called(ctx, id, instance)
	var zero T
	if args.Get(0) == nil {
		return zero, args.Error(1)
	}
	return args.Get(0).(T), args.Error(1)
}

func (m *MockDocumentStore[T]) UpdateFunc(ctx context.Context, id int, mutate func(T) T) (T, error) {
	args := m.Called(ctx, id, mutate)
	var zero T
	if args.Get(0) == nil {
		return zero, args.Error(1)
	}
	return args.Get(0).(T), args.Error(1)
}

func (m *MockDocumentStore[T]) Delete(ctx context.Context, id int) (T, error) {
	args := m.Called(ctx, id)
	var zero T
	if args.Get(0) == nil {
		return zero, args.Error(1)
	}
	return args.Get(0).(T), args.Error(1)
}

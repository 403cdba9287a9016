package mocks

import (
	"context"
	"io"

	"galleryapi/internal/service"

	"github.com/stretchr/testify/mock"
)

// MockEntityService is a testify mock over service.EntityService[T].
type MockEntityService[T any] struct {
	mock.Mock
}

func (m *MockEntityService[T]) List(ctx context.Context) ([]T, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockEntityService[T]) Get(ctx context.Context, id int) (T, error) {
	args := m.Called(ctx, id)
	var zero T
	if args.Get(0) == nil {
		return zero, args.Error(1)
	}
	return args.Get(0).(T), args.Error(1)
}

func (m *MockEntityService[T]) Save(ctx context.Context, instance T) (T, error) {
	args := m.Called(ctx, instance)
	var zero T
	if args.Get(0) == nil {
		return zero, args.Error(1)
	}
	return args.Get(0).(T), args.Error(1)
}

func (m *MockEntityService[T]) Update(ctx context.Context, id int, instance T) (T, error) {
	args := m.Called(ctx, id, instance)
	var zero T
	if args.Get(0) == nil {
		return zero, args.Error(1)
	}
	return args.Get(0).(T), args.Error(1)
}

func (m *MockEntityService[T]) UpdateFunc(ctx context.Context, id int, mutate func(T) T) (T, error) {
	args := m.Called(ctx, id, mutate)
	var zero T
	if args.Get(0) == nil {
		return zero, args.Error(1)
	}
	return args.Get(0).(T), args.Error(1)
}

func (m *MockEntityService[T]) Delete(ctx context.Context, id int) (T, error) {
	args := m.Called(ctx, id)
	var zero T
	if args.Get(0) == nil {
		return zero, args.Error(1)
	}
	return args.Get(0).(T), args.Error(1)
}

// MockAttachmentService is a testify mock over service.AttachmentService.
type MockAttachmentService struct {
	mock.Mock
}

func (m *MockAttachmentService) Upload(ctx context.Context, r io.Reader, filename, contentType string, size int64) (service.Attachment, error) {
	args := m.Called(ctx, r, filename, contentType, size)
	return args.Get(0).(service.Attachment), args.Error(1)
}

func (m *MockAttachmentService) GetURI(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockAttachmentService) Download(ctx context.Context, key string) (io.ReadCloser, service.Attachment, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Get(1).(service.Attachment), args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(service.Attachment), args.Error(2)
}

func (m *MockAttachmentService) List(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAttachmentService) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

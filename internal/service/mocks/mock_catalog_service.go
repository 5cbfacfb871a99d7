package mocks

import (
	"context"

	"campusdocs/internal/model"
	"campusdocs/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) GetCatalog(ctx context.Context, department, semester, subject string) (*model.ContentCatalog, error) {
	args := m.Called(ctx, department, semester, subject)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ContentCatalog), args.Error(1)
}

func (m *MockCatalogService) ListSubjects(ctx context.Context, department, semester string) (*model.SubjectList, error) {
	args := m.Called(ctx, department, semester)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SubjectList), args.Error(1)
}

func (m *MockCatalogService) AddSubject(ctx context.Context, department, semester, subject string) error {
	args := m.Called(ctx, department, semester, subject)
	return args.Error(0)
}

func (m *MockCatalogService) Upload(ctx context.Context, in service.UploadInput) (*model.FileRecord, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FileRecord), args.Error(1)
}

func (m *MockCatalogService) Delete(ctx context.Context, department, semester, subject, fileID string) error {
	args := m.Called(ctx, department, semester, subject, fileID)
	return args.Error(0)
}

func (m *MockCatalogService) DeleteByID(ctx context.Context, fileID string) error {
	args := m.Called(ctx, fileID)
	return args.Error(0)
}

func (m *MockCatalogService) DownloadURL(ctx context.Context, path string) (string, error) {
	args := m.Called(ctx, path)
	return args.String(0), args.Error(1)
}

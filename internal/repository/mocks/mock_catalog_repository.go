package mocks

import (
	"context"

	"campusdocs/internal/model"
	"campusdocs/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) GetCatalog(ctx context.Context, department, semester, subject string) (*model.ContentCatalog, error) {
	args := m.Called(ctx, department, semester, subject)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ContentCatalog), args.Error(1)
}

func (m *MockCatalogRepository) PutCatalog(ctx context.Context, department, semester, subject string, c *model.ContentCatalog) error {
	args := m.Called(ctx, department, semester, subject, c)
	return args.Error(0)
}

func (m *MockCatalogRepository) GetSubjects(ctx context.Context, department, semester string) (*model.SubjectList, error) {
	args := m.Called(ctx, department, semester)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SubjectList), args.Error(1)
}

func (m *MockCatalogRepository) PutSubjects(ctx context.Context, department, semester string, s *model.SubjectList) error {
	args := m.Called(ctx, department, semester, s)
	return args.Error(0)
}

func (m *MockCatalogRepository) GetFileLocation(ctx context.Context, fileID string) (*model.FileLocation, error) {
	args := m.Called(ctx, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FileLocation), args.Error(1)
}

func (m *MockCatalogRepository) PutFileLocation(ctx context.Context, fileID string, loc *model.FileLocation) error {
	args := m.Called(ctx, fileID, loc)
	return args.Error(0)
}

func (m *MockCatalogRepository) DeleteFileLocation(ctx context.Context, fileID string) error {
	args := m.Called(ctx, fileID)
	return args.Error(0)
}

func (m *MockCatalogRepository) ScanCatalogs(ctx context.Context) ([]repository.StoredCatalog, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.StoredCatalog), args.Error(1)
}

// Package repository contains the typed persistence facade over the catalog
// store. Implementations live in subpackages (e.g. catalogkv).
package repository

import (
	"context"

	"campusdocs/internal/model"
)

// StoredCatalog pairs a decoded catalog with its store key, as returned by
// full scans.
type StoredCatalog struct {
	Key     string
	Catalog *model.ContentCatalog
}

// CatalogRepository defines data access for catalogs, subject lists and the
// file-location index. No business logic here; absent values surface as
// kvstore.ErrKeyNotFound.
type CatalogRepository interface {
	GetCatalog(ctx context.Context, department, semester, subject string) (*model.ContentCatalog, error)
	PutCatalog(ctx context.Context, department, semester, subject string, c *model.ContentCatalog) error

	GetSubjects(ctx context.Context, department, semester string) (*model.SubjectList, error)
	PutSubjects(ctx context.Context, department, semester string, s *model.SubjectList) error

	GetFileLocation(ctx context.Context, fileID string) (*model.FileLocation, error)
	PutFileLocation(ctx context.Context, fileID string, loc *model.FileLocation) error
	DeleteFileLocation(ctx context.Context, fileID string) error

	// ScanCatalogs decodes every stored catalog. Used only as the fallback
	// path when a file has no index entry.
	ScanCatalogs(ctx context.Context) ([]StoredCatalog, error)
}

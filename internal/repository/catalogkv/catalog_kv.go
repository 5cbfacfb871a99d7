package catalogkv

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"campusdocs/internal/kvstore"
	"campusdocs/internal/model"
	"campusdocs/internal/repository"
)

// CatalogKV implements repository.CatalogRepository over a kvstore.Store.
// It owns key composition and JSON (de)serialization; every read returns a
// normalized catalog.
type CatalogKV struct {
	store kvstore.Store
}

// NewCatalogKV creates a CatalogKV repository.
func NewCatalogKV(store kvstore.Store) *CatalogKV {
	return &CatalogKV{store: store}
}

var _ repository.CatalogRepository = (*CatalogKV)(nil)

// GetCatalog reads and decodes one catalog. Absent keys surface as
// kvstore.ErrKeyNotFound.
func (r *CatalogKV) GetCatalog(ctx context.Context, department, semester, subject string) (*model.ContentCatalog, error) {
	raw, err := r.store.Get(ctx, model.CatalogKey(department, semester, subject))
	if err != nil {
		return nil, err
	}
	var c model.ContentCatalog
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	c.Normalize()
	return &c, nil
}

// PutCatalog writes the whole catalog document for its key.
func (r *CatalogKV) PutCatalog(ctx context.Context, department, semester, subject string, c *model.ContentCatalog) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	return r.store.Set(ctx, model.CatalogKey(department, semester, subject), raw)
}

// GetSubjects reads the subject list for one (department, semester).
func (r *CatalogKV) GetSubjects(ctx context.Context, department, semester string) (*model.SubjectList, error) {
	raw, err := r.store.Get(ctx, model.SubjectsKey(department, semester))
	if err != nil {
		return nil, err
	}
	var s model.SubjectList
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode subject list: %w", err)
	}
	return &s, nil
}

// PutSubjects writes the whole subject list for its key.
func (r *CatalogKV) PutSubjects(ctx context.Context, department, semester string, s *model.SubjectList) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode subject list: %w", err)
	}
	return r.store.Set(ctx, model.SubjectsKey(department, semester), raw)
}

// GetFileLocation reads the index entry for one file ID.
func (r *CatalogKV) GetFileLocation(ctx context.Context, fileID string) (*model.FileLocation, error) {
	raw, err := r.store.Get(ctx, model.FileKey(fileID))
	if err != nil {
		return nil, err
	}
	var loc model.FileLocation
	if err := json.Unmarshal(raw, &loc); err != nil {
		return nil, fmt.Errorf("decode file location: %w", err)
	}
	return &loc, nil
}

// PutFileLocation writes the index entry for one file ID.
func (r *CatalogKV) PutFileLocation(ctx context.Context, fileID string, loc *model.FileLocation) error {
	raw, err := json.Marshal(loc)
	if err != nil {
		return fmt.Errorf("encode file location: %w", err)
	}
	return r.store.Set(ctx, model.FileKey(fileID), raw)
}

// DeleteFileLocation removes the index entry for one file ID.
func (r *CatalogKV) DeleteFileLocation(ctx context.Context, fileID string) error {
	return r.store.Delete(ctx, model.FileKey(fileID))
}

// ScanCatalogs decodes every stored catalog under the catalog prefix.
// Entries that fail to decode abort the scan rather than being skipped.
func (r *CatalogKV) ScanCatalogs(ctx context.Context) ([]repository.StoredCatalog, error) {
	entries, err := r.store.ScanPrefix(ctx, model.CatalogKeyPrefix())
	if err != nil {
		return nil, err
	}
	out := make([]repository.StoredCatalog, 0, len(entries))
	for _, e := range entries {
		if !strings.HasPrefix(e.Key, model.CatalogKeyPrefix()) {
			continue
		}
		var c model.ContentCatalog
		if err := json.Unmarshal(e.Value, &c); err != nil {
			return nil, fmt.Errorf("decode catalog %s: %w", e.Key, err)
		}
		c.Normalize()
		out = append(out, repository.StoredCatalog{Key: e.Key, Catalog: &c})
	}
	return out, nil
}

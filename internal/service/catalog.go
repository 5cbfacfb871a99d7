package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"campusdocs/internal/kvstore"
	"campusdocs/internal/model"
	"campusdocs/internal/repository"
	"campusdocs/internal/storage"
)

// SignedURLTTL is the lifetime of issued download URLs.
const SignedURLTTL = time.Hour

// UploadInput carries everything needed to store one file.
type UploadInput struct {
	Department  string
	Semester    string
	Subject     string
	ContentType string
	Module      string
	Filename    string
	Reader      io.Reader
	Size        int64
	MIMEType    string
}

// CatalogService defines the portal's use cases.
type CatalogService interface {
	// GetCatalog returns the stored catalog or a fresh empty one. It never
	// fails on missing data and never persists the default.
	GetCatalog(ctx context.Context, department, semester, subject string) (*model.ContentCatalog, error)

	// ListSubjects returns the registered subjects, defaulting to an empty list.
	ListSubjects(ctx context.Context, department, semester string) (*model.SubjectList, error)

	// AddSubject registers a subject if absent. Idempotent.
	AddSubject(ctx context.Context, department, semester, subject string) error

	// Upload stores the file bytes, appends a record to the matching catalog
	// bucket, registers the subject and writes the file-location index entry.
	Upload(ctx context.Context, in UploadInput) (*model.FileRecord, error)

	// Delete removes one record from the given subject's catalog and
	// best-effort deletes the blob.
	Delete(ctx context.Context, department, semester, subject, fileID string) error

	// DeleteByID locates a file through the index (falling back to a full
	// catalog scan for unindexed records) and deletes it.
	DeleteByID(ctx context.Context, fileID string) error

	// DownloadURL issues a signed URL for the given storage path, valid for
	// SignedURLTTL.
	DownloadURL(ctx context.Context, path string) (string, error)
}

type catalogService struct {
	blobs storage.BlobStore
	repo  repository.CatalogRepository
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(blobs storage.BlobStore, repo repository.CatalogRepository) CatalogService {
	return &catalogService{blobs: blobs, repo: repo}
}

func (s *catalogService) GetCatalog(ctx context.Context, department, semester, subject string) (*model.ContentCatalog, error) {
	if department == "" || semester == "" || subject == "" {
		return nil, validationf("department, semester and subject are required")
	}
	cat, err := s.repo.GetCatalog(ctx, department, semester, subject)
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return model.NewContentCatalog(), nil
		}
		return nil, err
	}
	return cat, nil
}

func (s *catalogService) ListSubjects(ctx context.Context, department, semester string) (*model.SubjectList, error) {
	if department == "" || semester == "" {
		return nil, validationf("department and semester are required")
	}
	subjects, err := s.repo.GetSubjects(ctx, department, semester)
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return &model.SubjectList{Subjects: []string{}}, nil
		}
		return nil, err
	}
	return subjects, nil
}

func (s *catalogService) AddSubject(ctx context.Context, department, semester, subject string) error {
	if department == "" || semester == "" || subject == "" {
		return validationf("department, semester and subject are required")
	}
	subjects, err := s.loadSubjects(ctx, department, semester)
	if err != nil {
		return err
	}
	if subjects.Contains(subject) {
		return nil
	}
	subjects.Subjects = append(subjects.Subjects, subject)
	return s.repo.PutSubjects(ctx, department, semester, subjects)
}

func (s *catalogService) Upload(ctx context.Context, in UploadInput) (*model.FileRecord, error) {
	ct, module, err := validateUpload(in)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	key := model.StoragePath(in.Department, in.Semester, in.Subject, ct, module, in.Filename, now)

	if _, err := s.blobs.Put(ctx, key, in.Reader, storage.PutOptions{
		Size:        in.Size,
		ContentType: in.MIMEType,
		Metadata:    map[string]string{"original-filename": in.Filename},
	}); err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	rec := model.FileRecord{
		ID:         model.NewFileID(now),
		Name:       in.Filename,
		Path:       key,
		UploadedAt: now,
	}

	cat, err := s.loadCatalog(ctx, in.Department, in.Semester, in.Subject)
	if err != nil {
		return nil, err
	}
	cat.SetBucket(ct, module, append(cat.Bucket(ct, module), rec))

	if err := s.repo.PutCatalog(ctx, in.Department, in.Semester, in.Subject, cat); err != nil {
		// Roll the blob back so storage does not accumulate unreferenced
		// objects on every failed catalog write.
		if delErr := s.blobs.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("catalog write failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("catalog write failed: %w", err)
	}

	// Subject registration and the index entry are idempotent
	// read-modify-write steps; the record above is already durable.
	if err := s.AddSubject(ctx, in.Department, in.Semester, in.Subject); err != nil {
		return nil, fmt.Errorf("register subject: %w", err)
	}
	if err := s.repo.PutFileLocation(ctx, rec.ID, &model.FileLocation{
		Department:  in.Department,
		Semester:    in.Semester,
		Subject:     in.Subject,
		ContentType: ct,
		Module:      module,
		Path:        key,
	}); err != nil {
		return nil, fmt.Errorf("write file index: %w", err)
	}

	return &rec, nil
}

func (s *catalogService) Delete(ctx context.Context, department, semester, subject, fileID string) error {
	if department == "" || semester == "" || subject == "" || fileID == "" {
		return validationf("department, semester, subject and file id are required")
	}

	cat, err := s.repo.GetCatalog(ctx, department, semester, subject)
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return ErrNotFound
		}
		return err
	}

	rec, ok := removeRecord(cat, fileID)
	if !ok {
		return ErrNotFound
	}

	if err := s.repo.PutCatalog(ctx, department, semester, subject, cat); err != nil {
		return err
	}
	s.cleanupAfterRemove(ctx, fileID, rec.Path)
	return nil
}

func (s *catalogService) DeleteByID(ctx context.Context, fileID string) error {
	if fileID == "" {
		return validationf("file id is required")
	}

	loc, err := s.repo.GetFileLocation(ctx, fileID)
	if err == nil {
		return s.Delete(ctx, loc.Department, loc.Semester, loc.Subject, fileID)
	}
	if !errors.Is(err, kvstore.ErrKeyNotFound) {
		return err
	}

	// Unindexed record: fall back to scanning every stored catalog.
	catalogs, err := s.repo.ScanCatalogs(ctx)
	if err != nil {
		return err
	}
	for _, sc := range catalogs {
		rec, ok := removeRecord(sc.Catalog, fileID)
		if !ok {
			continue
		}
		department, semester, subject, err := splitCatalogKey(sc.Key)
		if err != nil {
			return err
		}
		if err := s.repo.PutCatalog(ctx, department, semester, subject, sc.Catalog); err != nil {
			return err
		}
		s.cleanupAfterRemove(ctx, fileID, rec.Path)
		return nil
	}
	return ErrNotFound
}

func (s *catalogService) DownloadURL(ctx context.Context, path string) (string, error) {
	if path == "" {
		return "", validationf("file path is required")
	}
	u, err := s.blobs.PresignGet(ctx, path, SignedURLTTL)
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}
	return u, nil
}

// cleanupAfterRemove deletes the index entry and the blob once the catalog
// update is durable. Both are best-effort: a dangling blob or index entry is
// preferred over a dangling catalog record.
func (s *catalogService) cleanupAfterRemove(ctx context.Context, fileID, path string) {
	if err := s.repo.DeleteFileLocation(ctx, fileID); err != nil {
		logBestEffort("file_index_delete_failed", fileID, err)
	}
	if err := s.blobs.Delete(ctx, path); err != nil {
		logBestEffort("blob_delete_failed", path, err)
	}
}

func validateUpload(in UploadInput) (model.ContentType, string, error) {
	if in.Department == "" || in.Semester == "" || in.Subject == "" {
		return "", "", validationf("department, semester and subject are required")
	}
	if in.Filename == "" {
		return "", "", validationf("file name is required")
	}
	if in.Reader == nil {
		return "", "", validationf("file content is required")
	}
	ct, err := model.ParseContentType(in.ContentType)
	if err != nil {
		return "", "", validationf("%v", err)
	}
	module := ""
	if ct == model.ContentNotes {
		if in.Module == "" {
			return "", "", validationf("module is required for notes")
		}
		n, err := strconv.Atoi(in.Module)
		if err != nil || n < 1 || n > model.ModuleCount {
			return "", "", validationf("module must be between 1 and %d", model.ModuleCount)
		}
		module = in.Module
	}
	return ct, module, nil
}

// removeRecord deletes the first record matching fileID, searching
// previous-year papers, then IA papers, then notes modules 1..5 in order.
func removeRecord(cat *model.ContentCatalog, fileID string) (model.FileRecord, bool) {
	buckets := []struct {
		ct     model.ContentType
		module string
	}{
		{model.ContentPreviousYearPaper, ""},
		{model.ContentIAPaper, ""},
	}
	for i := 1; i <= model.ModuleCount; i++ {
		buckets = append(buckets, struct {
			ct     model.ContentType
			module string
		}{model.ContentNotes, strconv.Itoa(i)})
	}

	for _, b := range buckets {
		records := cat.Bucket(b.ct, b.module)
		for i, rec := range records {
			if rec.ID == fileID {
				cat.SetBucket(b.ct, b.module, append(records[:i:i], records[i+1:]...))
				return rec, true
			}
		}
	}
	return model.FileRecord{}, false
}

func splitCatalogKey(key string) (department, semester, subject string, err error) {
	trimmed := strings.TrimPrefix(key, model.CatalogKeyPrefix())
	parts := strings.SplitN(trimmed, "/", 3)
	if len(parts) != 3 {
		return "", "", "", fmt.Errorf("malformed catalog key %q", key)
	}
	return parts[0], parts[1], parts[2], nil
}

func (s *catalogService) loadCatalog(ctx context.Context, department, semester, subject string) (*model.ContentCatalog, error) {
	cat, err := s.repo.GetCatalog(ctx, department, semester, subject)
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return model.NewContentCatalog(), nil
		}
		return nil, err
	}
	return cat, nil
}

func (s *catalogService) loadSubjects(ctx context.Context, department, semester string) (*model.SubjectList, error) {
	subjects, err := s.repo.GetSubjects(ctx, department, semester)
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return &model.SubjectList{Subjects: []string{}}, nil
		}
		return nil, err
	}
	return subjects, nil
}

func logBestEffort(event, target string, err error) {
	entry := map[string]any{
		"ts":     time.Now().UTC().Format(time.RFC3339Nano),
		"level":  "warn",
		"msg":    event,
		"target": target,
		"error":  err.Error(),
	}
	if b, marshalErr := json.Marshal(entry); marshalErr == nil {
		logger := log.New(os.Stdout, "", 0)
		logger.Println(string(b))
	}
}

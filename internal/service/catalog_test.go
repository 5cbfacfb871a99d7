package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"campusdocs/internal/kvstore"
	"campusdocs/internal/model"
	"campusdocs/internal/repository"
	repoMocks "campusdocs/internal/repository/mocks"
	"campusdocs/internal/storage"
	storeMocks "campusdocs/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCatalogService_GetCatalog(t *testing.T) {
	ctx := context.Background()

	t.Run("missing catalog defaults without persisting", func(t *testing.T) {
		mRepo := new(repoMocks.MockCatalogRepository)
		svc := NewCatalogService(nil, mRepo)

		mRepo.On("GetCatalog", ctx, "CSE", "3", "DBMS").Return(nil, kvstore.ErrKeyNotFound)

		cat, err := svc.GetCatalog(ctx, "CSE", "3", "DBMS")

		assert.NoError(t, err)
		assert.Empty(t, cat.PreviousYearPapers)
		assert.Empty(t, cat.IAPapers)
		assert.Len(t, cat.Notes, model.ModuleCount)
		// No write must happen for a defaulted read.
		mRepo.AssertNotCalled(t, "PutCatalog", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		mRepo.AssertExpectations(t)
	})

	t.Run("stored catalog returned as-is", func(t *testing.T) {
		mRepo := new(repoMocks.MockCatalogRepository)
		svc := NewCatalogService(nil, mRepo)

		stored := model.NewContentCatalog()
		stored.IAPapers = append(stored.IAPapers, model.FileRecord{ID: "7", Name: "ia.pdf"})
		mRepo.On("GetCatalog", ctx, "CSE", "3", "DBMS").Return(stored, nil)

		cat, err := svc.GetCatalog(ctx, "CSE", "3", "DBMS")

		assert.NoError(t, err)
		assert.Len(t, cat.IAPapers, 1)
	})

	t.Run("missing coordinates", func(t *testing.T) {
		svc := NewCatalogService(nil, new(repoMocks.MockCatalogRepository))

		_, err := svc.GetCatalog(ctx, "CSE", "", "DBMS")

		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("store error surfaces", func(t *testing.T) {
		mRepo := new(repoMocks.MockCatalogRepository)
		svc := NewCatalogService(nil, mRepo)

		mRepo.On("GetCatalog", ctx, "CSE", "3", "DBMS").Return(nil, errors.New("kv down"))

		_, err := svc.GetCatalog(ctx, "CSE", "3", "DBMS")

		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrValidation)
	})
}

func TestCatalogService_AddSubject(t *testing.T) {
	ctx := context.Background()

	t.Run("appends new subject", func(t *testing.T) {
		mRepo := new(repoMocks.MockCatalogRepository)
		svc := NewCatalogService(nil, mRepo)

		mRepo.On("GetSubjects", ctx, "CSE", "3").Return(nil, kvstore.ErrKeyNotFound)
		mRepo.On("PutSubjects", ctx, "CSE", "3", mock.MatchedBy(func(s *model.SubjectList) bool {
			return len(s.Subjects) == 1 && s.Subjects[0] == "DBMS"
		})).Return(nil)

		assert.NoError(t, svc.AddSubject(ctx, "CSE", "3", "DBMS"))
		mRepo.AssertExpectations(t)
	})

	t.Run("idempotent on duplicate", func(t *testing.T) {
		mRepo := new(repoMocks.MockCatalogRepository)
		svc := NewCatalogService(nil, mRepo)

		mRepo.On("GetSubjects", ctx, "CSE", "3").
			Return(&model.SubjectList{Subjects: []string{"DBMS"}}, nil)

		assert.NoError(t, svc.AddSubject(ctx, "CSE", "3", "DBMS"))
		mRepo.AssertNotCalled(t, "PutSubjects", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing fields", func(t *testing.T) {
		svc := NewCatalogService(nil, new(repoMocks.MockCatalogRepository))

		assert.ErrorIs(t, svc.AddSubject(ctx, "", "3", "DBMS"), ErrValidation)
		assert.ErrorIs(t, svc.AddSubject(ctx, "CSE", "3", ""), ErrValidation)
	})
}

func TestCatalogService_Upload(t *testing.T) {
	ctx := context.Background()

	baseInput := func() UploadInput {
		return UploadInput{
			Department:  "CSE",
			Semester:    "3",
			Subject:     "Data Structures",
			ContentType: "previousYearPaper",
			Filename:    "exam.pdf",
			Reader:      strings.NewReader("%PDF-1.4"),
			Size:        8,
			MIMEType:    "application/pdf",
		}
	}

	t.Run("happy path previous-year paper", func(t *testing.T) {
		mBlobs := new(storeMocks.MockBlobStore)
		mRepo := new(repoMocks.MockCatalogRepository)
		svc := NewCatalogService(mBlobs, mRepo)

		mBlobs.On("Put", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "CSE/3/Data Structures/previousYearPaper/") &&
				strings.HasSuffix(key, "_exam.pdf")
		}), mock.Anything, mock.Anything).Return(storage.ObjectInfo{Size: 8}, nil)

		mRepo.On("GetCatalog", ctx, "CSE", "3", "Data Structures").Return(nil, kvstore.ErrKeyNotFound)
		mRepo.On("PutCatalog", ctx, "CSE", "3", "Data Structures", mock.MatchedBy(func(c *model.ContentCatalog) bool {
			return len(c.PreviousYearPapers) == 1 && c.PreviousYearPapers[0].Name == "exam.pdf"
		})).Return(nil)
		mRepo.On("GetSubjects", ctx, "CSE", "3").Return(nil, kvstore.ErrKeyNotFound)
		mRepo.On("PutSubjects", ctx, "CSE", "3", mock.MatchedBy(func(s *model.SubjectList) bool {
			return s.Contains("Data Structures")
		})).Return(nil)
		mRepo.On("PutFileLocation", ctx, mock.Anything, mock.MatchedBy(func(loc *model.FileLocation) bool {
			return loc.Department == "CSE" && loc.ContentType == model.ContentPreviousYearPaper && loc.Module == ""
		})).Return(nil)

		rec, err := svc.Upload(ctx, baseInput())

		assert.NoError(t, err)
		assert.Equal(t, "exam.pdf", rec.Name)
		assert.NotEmpty(t, rec.ID)
		assert.False(t, rec.UploadedAt.IsZero())
		mRepo.AssertExpectations(t)
	})

	t.Run("notes without module writes nothing", func(t *testing.T) {
		mBlobs := new(storeMocks.MockBlobStore)
		mRepo := new(repoMocks.MockCatalogRepository)
		svc := NewCatalogService(mBlobs, mRepo)

		in := baseInput()
		in.ContentType = "notes"
		in.Module = ""

		_, err := svc.Upload(ctx, in)

		assert.ErrorIs(t, err, ErrValidation)
		mBlobs.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		mRepo.AssertNotCalled(t, "PutCatalog", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("notes module out of range", func(t *testing.T) {
		svc := NewCatalogService(new(storeMocks.MockBlobStore), new(repoMocks.MockCatalogRepository))

		in := baseInput()
		in.ContentType = "notes"
		in.Module = "6"

		_, err := svc.Upload(ctx, in)

		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("notes land in their module bucket", func(t *testing.T) {
		mBlobs := new(storeMocks.MockBlobStore)
		mRepo := new(repoMocks.MockCatalogRepository)
		svc := NewCatalogService(mBlobs, mRepo)

		in := baseInput()
		in.ContentType = "notes"
		in.Module = "2"
		in.Filename = "pointers.pdf"

		mBlobs.On("Put", ctx, mock.MatchedBy(func(key string) bool {
			return strings.Contains(key, "/notes/module2/")
		}), mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, nil)
		mRepo.On("GetCatalog", ctx, "CSE", "3", "Data Structures").Return(model.NewContentCatalog(), nil)
		mRepo.On("PutCatalog", ctx, "CSE", "3", "Data Structures", mock.MatchedBy(func(c *model.ContentCatalog) bool {
			return len(c.Notes["2"]) == 1 && len(c.Notes["1"]) == 0
		})).Return(nil)
		mRepo.On("GetSubjects", ctx, "CSE", "3").
			Return(&model.SubjectList{Subjects: []string{"Data Structures"}}, nil)
		mRepo.On("PutFileLocation", ctx, mock.Anything, mock.MatchedBy(func(loc *model.FileLocation) bool {
			return loc.ContentType == model.ContentNotes && loc.Module == "2"
		})).Return(nil)

		rec, err := svc.Upload(ctx, in)

		assert.NoError(t, err)
		assert.Equal(t, "pointers.pdf", rec.Name)
		mRepo.AssertExpectations(t)
	})

	t.Run("blob write failure propagates untouched catalog", func(t *testing.T) {
		mBlobs := new(storeMocks.MockBlobStore)
		mRepo := new(repoMocks.MockCatalogRepository)
		svc := NewCatalogService(mBlobs, mRepo)

		mBlobs.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{}, errors.New("storage down"))

		_, err := svc.Upload(ctx, baseInput())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "upload to storage")
		mRepo.AssertNotCalled(t, "PutCatalog", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("catalog write failure rolls back the blob", func(t *testing.T) {
		mBlobs := new(storeMocks.MockBlobStore)
		mRepo := new(repoMocks.MockCatalogRepository)
		svc := NewCatalogService(mBlobs, mRepo)

		mBlobs.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{}, nil)
		mRepo.On("GetCatalog", ctx, "CSE", "3", "Data Structures").Return(nil, kvstore.ErrKeyNotFound)
		mRepo.On("PutCatalog", ctx, "CSE", "3", "Data Structures", mock.Anything).
			Return(errors.New("kv down"))
		mBlobs.On("Delete", ctx, mock.Anything).Return(nil)

		_, err := svc.Upload(ctx, baseInput())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "catalog write failed")
		mBlobs.AssertCalled(t, "Delete", ctx, mock.Anything)
	})
}

func TestCatalogService_Delete(t *testing.T) {
	ctx := context.Background()

	catalogWith := func(recs ...model.FileRecord) *model.ContentCatalog {
		c := model.NewContentCatalog()
		c.PreviousYearPapers = append(c.PreviousYearPapers, recs...)
		return c
	}

	t.Run("removes exactly one record", func(t *testing.T) {
		mBlobs := new(storeMocks.MockBlobStore)
		mRepo := new(repoMocks.MockCatalogRepository)
		svc := NewCatalogService(mBlobs, mRepo)

		keep := model.FileRecord{ID: "1", Name: "a.pdf", Path: "pa"}
		drop := model.FileRecord{ID: "2", Name: "b.pdf", Path: "pb"}
		mRepo.On("GetCatalog", ctx, "CSE", "3", "DBMS").Return(catalogWith(keep, drop), nil)
		mRepo.On("PutCatalog", ctx, "CSE", "3", "DBMS", mock.MatchedBy(func(c *model.ContentCatalog) bool {
			return len(c.PreviousYearPapers) == 1 && c.PreviousYearPapers[0].ID == "1"
		})).Return(nil)
		mRepo.On("DeleteFileLocation", ctx, "2").Return(nil)
		mBlobs.On("Delete", ctx, "pb").Return(nil)

		assert.NoError(t, svc.Delete(ctx, "CSE", "3", "DBMS", "2"))
		mRepo.AssertExpectations(t)
		mBlobs.AssertExpectations(t)
	})

	t.Run("unknown file id mutates nothing", func(t *testing.T) {
		mBlobs := new(storeMocks.MockBlobStore)
		mRepo := new(repoMocks.MockCatalogRepository)
		svc := NewCatalogService(mBlobs, mRepo)

		mRepo.On("GetCatalog", ctx, "CSE", "3", "DBMS").Return(model.NewContentCatalog(), nil)

		err := svc.Delete(ctx, "CSE", "3", "DBMS", "nope")

		assert.ErrorIs(t, err, ErrNotFound)
		mRepo.AssertNotCalled(t, "PutCatalog", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		mBlobs.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("missing catalog is not found", func(t *testing.T) {
		mRepo := new(repoMocks.MockCatalogRepository)
		svc := NewCatalogService(new(storeMocks.MockBlobStore), mRepo)

		mRepo.On("GetCatalog", ctx, "CSE", "3", "DBMS").Return(nil, kvstore.ErrKeyNotFound)

		assert.ErrorIs(t, svc.Delete(ctx, "CSE", "3", "DBMS", "2"), ErrNotFound)
	})

	t.Run("blob delete failure is swallowed", func(t *testing.T) {
		mBlobs := new(storeMocks.MockBlobStore)
		mRepo := new(repoMocks.MockCatalogRepository)
		svc := NewCatalogService(mBlobs, mRepo)

		drop := model.FileRecord{ID: "2", Name: "b.pdf", Path: "pb"}
		mRepo.On("GetCatalog", ctx, "CSE", "3", "DBMS").Return(catalogWith(drop), nil)
		mRepo.On("PutCatalog", ctx, "CSE", "3", "DBMS", mock.Anything).Return(nil)
		mRepo.On("DeleteFileLocation", ctx, "2").Return(nil)
		mBlobs.On("Delete", ctx, "pb").Return(errors.New("storage down"))

		// Catalog update already proceeded; the dangling blob is logged only.
		assert.NoError(t, svc.Delete(ctx, "CSE", "3", "DBMS", "2"))
	})

	t.Run("notes searched module by module", func(t *testing.T) {
		mBlobs := new(storeMocks.MockBlobStore)
		mRepo := new(repoMocks.MockCatalogRepository)
		svc := NewCatalogService(mBlobs, mRepo)

		c := model.NewContentCatalog()
		c.Notes["4"] = []model.FileRecord{{ID: "9", Name: "n.pdf", Path: "pn"}}
		mRepo.On("GetCatalog", ctx, "CSE", "3", "DBMS").Return(c, nil)
		mRepo.On("PutCatalog", ctx, "CSE", "3", "DBMS", mock.MatchedBy(func(c *model.ContentCatalog) bool {
			return len(c.Notes["4"]) == 0
		})).Return(nil)
		mRepo.On("DeleteFileLocation", ctx, "9").Return(nil)
		mBlobs.On("Delete", ctx, "pn").Return(nil)

		assert.NoError(t, svc.Delete(ctx, "CSE", "3", "DBMS", "9"))
	})
}

func TestCatalogService_DeleteByID(t *testing.T) {
	ctx := context.Background()

	t.Run("indexed file goes through its location", func(t *testing.T) {
		mBlobs := new(storeMocks.MockBlobStore)
		mRepo := new(repoMocks.MockCatalogRepository)
		svc := NewCatalogService(mBlobs, mRepo)

		mRepo.On("GetFileLocation", ctx, "42").Return(&model.FileLocation{
			Department: "CSE", Semester: "3", Subject: "DBMS",
			ContentType: model.ContentIAPaper, Path: "p",
		}, nil)
		c := model.NewContentCatalog()
		c.IAPapers = []model.FileRecord{{ID: "42", Name: "ia.pdf", Path: "p"}}
		mRepo.On("GetCatalog", ctx, "CSE", "3", "DBMS").Return(c, nil)
		mRepo.On("PutCatalog", ctx, "CSE", "3", "DBMS", mock.Anything).Return(nil)
		mRepo.On("DeleteFileLocation", ctx, "42").Return(nil)
		mBlobs.On("Delete", ctx, "p").Return(nil)

		assert.NoError(t, svc.DeleteByID(ctx, "42"))
		mRepo.AssertNotCalled(t, "ScanCatalogs", mock.Anything)
	})

	t.Run("unindexed file falls back to full scan", func(t *testing.T) {
		mBlobs := new(storeMocks.MockBlobStore)
		mRepo := new(repoMocks.MockCatalogRepository)
		svc := NewCatalogService(mBlobs, mRepo)

		mRepo.On("GetFileLocation", ctx, "42").Return(nil, kvstore.ErrKeyNotFound)
		c := model.NewContentCatalog()
		c.PreviousYearPapers = []model.FileRecord{{ID: "42", Name: "exam.pdf", Path: "p"}}
		mRepo.On("ScanCatalogs", ctx).Return([]repository.StoredCatalog{
			{Key: "catalog/ECE/1/Physics", Catalog: model.NewContentCatalog()},
			{Key: "catalog/CSE/3/DBMS", Catalog: c},
		}, nil)
		mRepo.On("PutCatalog", ctx, "CSE", "3", "DBMS", mock.MatchedBy(func(c *model.ContentCatalog) bool {
			return len(c.PreviousYearPapers) == 0
		})).Return(nil)
		mRepo.On("DeleteFileLocation", ctx, "42").Return(nil)
		mBlobs.On("Delete", ctx, "p").Return(nil)

		assert.NoError(t, svc.DeleteByID(ctx, "42"))
		mRepo.AssertExpectations(t)
	})

	t.Run("nowhere to be found", func(t *testing.T) {
		mRepo := new(repoMocks.MockCatalogRepository)
		svc := NewCatalogService(new(storeMocks.MockBlobStore), mRepo)

		mRepo.On("GetFileLocation", ctx, "42").Return(nil, kvstore.ErrKeyNotFound)
		mRepo.On("ScanCatalogs", ctx).Return([]repository.StoredCatalog{}, nil)

		assert.ErrorIs(t, svc.DeleteByID(ctx, "42"), ErrNotFound)
	})
}

func TestCatalogService_DownloadURL(t *testing.T) {
	ctx := context.Background()

	t.Run("presigns with one hour expiry", func(t *testing.T) {
		mBlobs := new(storeMocks.MockBlobStore)
		svc := NewCatalogService(mBlobs, nil)

		mBlobs.On("PresignGet", ctx, "CSE/3/DBMS/iaPaper/1_ia.pdf", time.Hour).
			Return("https://blobs.example/signed", nil)

		u, err := svc.DownloadURL(ctx, "CSE/3/DBMS/iaPaper/1_ia.pdf")

		assert.NoError(t, err)
		assert.Equal(t, "https://blobs.example/signed", u)
		mBlobs.AssertExpectations(t)
	})

	t.Run("empty path", func(t *testing.T) {
		svc := NewCatalogService(new(storeMocks.MockBlobStore), nil)

		_, err := svc.DownloadURL(ctx, "")

		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("presign failure wraps upstream error", func(t *testing.T) {
		mBlobs := new(storeMocks.MockBlobStore)
		svc := NewCatalogService(mBlobs, nil)

		mBlobs.On("PresignGet", ctx, "p", time.Hour).Return("", errors.New("storage down"))

		_, err := svc.DownloadURL(ctx, "p")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "presign download")
	})
}

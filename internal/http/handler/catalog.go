package handler

import (
	"context"
	"database/sql"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"

	"campusdocs/internal/auth"
	"campusdocs/internal/config"
	"campusdocs/internal/service"
)

// HealthCheck reports readiness after pinging the catalog store.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	}
}

// LivenessProbe always answers 200.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// AdminSignup bootstraps the fixed admin account on the identity provider.
// Repeating the call when the account exists still answers 200.
func AdminSignup(idc *auth.IdentityClient) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := idc.EnsureAdmin(c.UserContext()); err != nil {
			return writeError(c, fiber.StatusInternalServerError, CodeUpstream, "admin bootstrap failed")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	}
}

type vocabularyResponse struct {
	Departments []string `json:"departments"`
	Semesters   int      `json:"semesters"`
}

// Vocabulary returns the configured department codes and semester count the
// browse UI offers for selection.
func Vocabulary(cat config.CatalogConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(vocabularyResponse{
			Departments: cat.Departments,
			Semesters:   cat.Semesters,
		})
	}
}

// pathParam returns a URL-decoded route parameter; subjects and departments
// may contain spaces.
func pathParam(c *fiber.Ctx, name string) string {
	v, err := url.PathUnescape(c.Params(name))
	if err != nil {
		return c.Params(name)
	}
	return v
}

// GetContent returns the catalog for one (department, semester, subject),
// defaulted to an empty catalog when nothing was ever uploaded.
func GetContent(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cat, err := svc.GetCatalog(c.UserContext(),
			pathParam(c, "department"), pathParam(c, "semester"), pathParam(c, "subject"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(cat)
	}
}

// ListSubjects returns the registered subjects for one (department, semester).
func ListSubjects(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		subjects, err := svc.ListSubjects(c.UserContext(),
			pathParam(c, "department"), pathParam(c, "semester"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(subjects)
	}
}

type addSubjectRequest struct {
	Department string `json:"department"`
	Semester   string `json:"semester"`
	Subject    string `json:"subject"`
}

// AddSubject registers a subject. Idempotent.
func AddSubject(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req addSubjectRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, CodeValidation, "invalid request body")
		}
		if err := svc.AddSubject(c.UserContext(), req.Department, req.Semester, req.Subject); err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	}
}

// UploadFile stores a file from a multipart form (field name: file) and
// returns the created record.
func UploadFile(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, CodeValidation, "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, CodeValidation, "cannot open uploaded file")
		}
		defer f.Close()

		mimeType := fh.Header.Get("Content-Type")
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}

		rec, err := svc.Upload(c.UserContext(), service.UploadInput{
			Department:  c.FormValue("department"),
			Semester:    c.FormValue("semester"),
			Subject:     c.FormValue("subject"),
			ContentType: c.FormValue("contentType"),
			Module:      c.FormValue("module"),
			Filename:    fh.Filename,
			Reader:      f,
			Size:        fh.Size,
			MIMEType:    mimeType,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(rec)
	}
}

type downloadRequest struct {
	FilePath string `json:"file_path"`
}

type downloadResponse struct {
	URL string `json:"url"`
}

// DownloadURL issues a signed URL for the path given in the request body.
func DownloadURL(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req downloadRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, CodeValidation, "invalid request body")
		}
		u, err := svc.DownloadURL(c.UserContext(), req.FilePath)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(downloadResponse{URL: u})
	}
}

// DownloadURLByPath is the path-encoded variant of DownloadURL.
func DownloadURLByPath(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Params("*")
		path, err := url.PathUnescape(raw)
		if err != nil {
			path = raw
		}
		u, err := svc.DownloadURL(c.UserContext(), path)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(downloadResponse{URL: u})
	}
}

// DeleteFile removes one record from the given subject's catalog.
func DeleteFile(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := svc.Delete(c.UserContext(),
			pathParam(c, "department"), pathParam(c, "semester"), pathParam(c, "subject"),
			c.Params("fileId"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	}
}

// DeleteFileByID removes a record located through the file index.
func DeleteFileByID(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.DeleteByID(c.UserContext(), c.Params("fileId")); err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	}
}

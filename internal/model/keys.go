package model

import (
	"fmt"
	"path"
	"time"
)

// Key layout in the catalog store. Every value under these keys is a whole
// JSON document written with last-write-wins semantics.
const (
	catalogKeyPrefix  = "catalog/"
	subjectsKeyPrefix = "subjects/"
	fileKeyPrefix     = "files/"
)

// CatalogKey addresses the ContentCatalog for one (department, semester, subject).
func CatalogKey(department, semester, subject string) string {
	return catalogKeyPrefix + department + "/" + semester + "/" + subject
}

// CatalogKeyPrefix is the scan prefix covering every stored catalog.
func CatalogKeyPrefix() string {
	return catalogKeyPrefix
}

// SubjectsKey addresses the SubjectList for one (department, semester).
func SubjectsKey(department, semester string) string {
	return subjectsKeyPrefix + department + "/" + semester
}

// FileKey addresses the FileLocation index entry for one file ID.
func FileKey(fileID string) string {
	return fileKeyPrefix + fileID
}

// StoragePath builds the blob-store object key for an upload:
// department/semester/subject/contentType[/module<n>]/<timestamp>_<filename>.
func StoragePath(department, semester, subject string, ct ContentType, module, filename string, now time.Time) string {
	parts := []string{department, semester, subject, string(ct)}
	if ct == ContentNotes {
		parts = append(parts, "module"+module)
	}
	parts = append(parts, fmt.Sprintf("%d_%s", now.UnixMilli(), filename))
	return path.Join(parts...)
}

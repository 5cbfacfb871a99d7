package model

import (
	"fmt"
	"strconv"
	"time"
)

// ContentType classifies an uploaded file within a subject.
type ContentType string

const (
	ContentPreviousYearPaper ContentType = "previousYearPaper"
	ContentIAPaper           ContentType = "iaPaper"
	ContentNotes             ContentType = "notes"
)

// ModuleCount is the fixed number of note modules per subject.
// Module keys in a catalog are always "1".."5".
const ModuleCount = 5

// ParseContentType validates a raw content type string.
func ParseContentType(s string) (ContentType, error) {
	switch ContentType(s) {
	case ContentPreviousYearPaper, ContentIAPaper, ContentNotes:
		return ContentType(s), nil
	}
	return "", fmt.Errorf("unknown content type %q", s)
}

// FileRecord describes one uploaded file in a catalog.
// Records are immutable after creation; they are only appended and removed.
type FileRecord struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// NewFileID returns a time-derived unique file identifier.
func NewFileID(now time.Time) string {
	return strconv.FormatInt(now.UnixNano(), 10)
}

// ContentCatalog holds all file records for one (department, semester, subject).
// Notes are bucketed per module; missing buckets decode as empty slices after
// Normalize.
type ContentCatalog struct {
	PreviousYearPapers []FileRecord            `json:"previous_year_papers"`
	IAPapers           []FileRecord            `json:"ia_papers"`
	Notes              map[string][]FileRecord `json:"notes"`
}

// NewContentCatalog returns an empty catalog with all module buckets present.
func NewContentCatalog() *ContentCatalog {
	c := &ContentCatalog{
		PreviousYearPapers: []FileRecord{},
		IAPapers:           []FileRecord{},
		Notes:              make(map[string][]FileRecord, ModuleCount),
	}
	for i := 1; i <= ModuleCount; i++ {
		c.Notes[strconv.Itoa(i)] = []FileRecord{}
	}
	return c
}

// Normalize restores invariants after JSON decoding: non-nil slices and all
// five module buckets.
func (c *ContentCatalog) Normalize() {
	if c.PreviousYearPapers == nil {
		c.PreviousYearPapers = []FileRecord{}
	}
	if c.IAPapers == nil {
		c.IAPapers = []FileRecord{}
	}
	if c.Notes == nil {
		c.Notes = make(map[string][]FileRecord, ModuleCount)
	}
	for i := 1; i <= ModuleCount; i++ {
		k := strconv.Itoa(i)
		if c.Notes[k] == nil {
			c.Notes[k] = []FileRecord{}
		}
	}
}

// Bucket returns the record slice addressed by content type and, for notes,
// module key.
func (c *ContentCatalog) Bucket(ct ContentType, module string) []FileRecord {
	switch ct {
	case ContentPreviousYearPaper:
		return c.PreviousYearPapers
	case ContentIAPaper:
		return c.IAPapers
	case ContentNotes:
		return c.Notes[module]
	}
	return nil
}

// SetBucket replaces the record slice addressed by content type and module key.
func (c *ContentCatalog) SetBucket(ct ContentType, module string, records []FileRecord) {
	switch ct {
	case ContentPreviousYearPaper:
		c.PreviousYearPapers = records
	case ContentIAPaper:
		c.IAPapers = records
	case ContentNotes:
		c.Notes[module] = records
	}
}

// SubjectList is the insertion-ordered set of subjects for one
// (department, semester). Append-only; duplicates are rejected by membership
// test, not by the store.
type SubjectList struct {
	Subjects []string `json:"subjects"`
}

// Contains reports whether the subject is already registered.
func (s *SubjectList) Contains(subject string) bool {
	for _, v := range s.Subjects {
		if v == subject {
			return true
		}
	}
	return false
}

// FileLocation is the secondary-index entry mapping a file ID back to its
// catalog coordinates and storage path. Maintained alongside every catalog
// mutation so deletes by bare file ID avoid scanning all catalogs.
type FileLocation struct {
	Department  string      `json:"department"`
	Semester    string      `json:"semester"`
	Subject     string      `json:"subject"`
	ContentType ContentType `json:"content_type"`
	Module      string      `json:"module,omitempty"`
	Path        string      `json:"path"`
}

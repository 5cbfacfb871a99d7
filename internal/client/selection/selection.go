// Package selection models the browse coordinates a portal client walks
// through: department, then semester, then subject, and for admins a content
// type and (for notes) a module.
package selection

import (
	"fmt"
	"strconv"

	"campusdocs/internal/model"
)

// Selection is the explicit state object behind the browse flow. Changing an
// earlier coordinate clears everything that depends on it, and every
// transition bumps the generation counter so a fetch started for an older
// selection can be recognized as stale and dropped.
type Selection struct {
	Department  string
	Semester    string
	Subject     string
	ContentType model.ContentType
	Module      string

	generation uint64
}

// Generation returns the current transition counter. Capture it before
// starting a fetch and pass it to Accept when the result arrives.
func (s *Selection) Generation() uint64 {
	return s.generation
}

// Accept reports whether a result produced for generation gen still belongs
// to the current selection.
func (s *Selection) Accept(gen uint64) bool {
	return gen == s.generation
}

// SelectDepartment sets the department and clears all dependent coordinates.
func (s *Selection) SelectDepartment(department string) {
	s.Department = department
	s.Semester = ""
	s.Subject = ""
	s.ContentType = ""
	s.Module = ""
	s.generation++
}

// SelectSemester sets the semester and clears subject, content type and module.
func (s *Selection) SelectSemester(semester string) {
	s.Semester = semester
	s.Subject = ""
	s.ContentType = ""
	s.Module = ""
	s.generation++
}

// SelectSubject sets the subject and clears content type and module.
func (s *Selection) SelectSubject(subject string) {
	s.Subject = subject
	s.ContentType = ""
	s.Module = ""
	s.generation++
}

// SelectContentType sets the content type, clearing any module choice.
func (s *Selection) SelectContentType(raw string) error {
	ct, err := model.ParseContentType(raw)
	if err != nil {
		return err
	}
	s.ContentType = ct
	s.Module = ""
	s.generation++
	return nil
}

// SelectModule sets the notes module. Valid only after the notes content type
// has been chosen.
func (s *Selection) SelectModule(module string) error {
	if s.ContentType != model.ContentNotes {
		return fmt.Errorf("module applies only to notes, not %q", s.ContentType)
	}
	n, err := strconv.Atoi(module)
	if err != nil || n < 1 || n > model.ModuleCount {
		return fmt.Errorf("module must be 1..%d, got %q", model.ModuleCount, module)
	}
	s.Module = strconv.Itoa(n)
	s.generation++
	return nil
}

// Reset clears every coordinate.
func (s *Selection) Reset() {
	s.Department = ""
	s.Semester = ""
	s.Subject = ""
	s.ContentType = ""
	s.Module = ""
	s.generation++
}

// Ready reports whether the three catalog coordinates are set, i.e. a catalog
// fetch should fire.
func (s *Selection) Ready() bool {
	return s.Department != "" && s.Semester != "" && s.Subject != ""
}

// NeedsModule reports whether the selection cannot address a bucket yet
// because notes were chosen without a module.
func (s *Selection) NeedsModule() bool {
	return s.ContentType == model.ContentNotes && s.Module == ""
}

// CatalogPath returns the "dept/sem/subject" coordinates for the current
// selection, or false when the selection is not ready.
func (s *Selection) CatalogPath() (department, semester, subject string, ok bool) {
	if !s.Ready() {
		return "", "", "", false
	}
	return s.Department, s.Semester, s.Subject, true
}

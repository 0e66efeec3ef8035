package services

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// MaxResumeSize caps uploads at 16 MiB. Enforced before any byte reaches
// disk.
const MaxResumeSize = 16 << 20

var (
	ErrEmptyFilename   = errors.New("no filename given")
	ErrUnsupportedType = errors.New("unsupported file type, allowed types are PDF, DOC, DOCX")
)

var allowedExtensions = map[string]bool{
	"pdf":  true,
	"doc":  true,
	"docx": true,
}

// ResumeStore persists uploaded resumes under a single directory and hands
// stored filenames back to the application layer. It never exposes
// directory listings.
type ResumeStore struct {
	dir string
}

func NewResumeStore(dir string) (*ResumeStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	return &ResumeStore{dir: dir}, nil
}

// AllowedFile reports whether the extension after the last dot is one of
// pdf, doc or docx, case-insensitively.
func AllowedFile(filename string) bool {
	idx := strings.LastIndex(filename, ".")

	if idx < 0 || idx == len(filename)-1 {
		return false
	}

	return allowedExtensions[strings.ToLower(filename[idx+1:])]
}

// SanitizeFilename strips path components and replaces every byte outside
// [A-Za-z0-9._-] so the result is safe to join onto the store directory.
func SanitizeFilename(filename string) string {
	filename = filepath.Base(filepath.ToSlash(filename))
	filename = strings.ReplaceAll(filename, "\\", "_")

	var b strings.Builder

	for _, r := range filename {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	sanitized := strings.Trim(b.String(), ".")

	return sanitized
}

// Save validates rawFilename, derives a sanitized stored name prefixed with
// the applicant's username and the job's company, writes the content and
// returns the stored filename. Two uploads that would collide get a numeric
// suffix rather than overwriting each other.
func (s *ResumeStore) Save(rawFilename, username, company string, content io.Reader) (string, error) {
	if rawFilename == "" {
		return "", ErrEmptyFilename
	}

	if !AllowedFile(rawFilename) {
		return "", ErrUnsupportedType
	}

	// Sanitize the upload name on its own first so a path-laden name cannot
	// swallow the username/company prefix.
	name := SanitizeFilename(fmt.Sprintf("%s_%s_%s", username, company, SanitizeFilename(rawFilename)))

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	stored := name
	for i := 1; ; i++ {
		_, err := os.Stat(filepath.Join(s.dir, stored))

		if errors.Is(err, os.ErrNotExist) {
			break
		}

		// Anything other than not-exist will not clear up by renaming, so
		// report it instead of suffixing forever.
		if err != nil {
			return "", err
		}

		stored = fmt.Sprintf("%s-%d%s", stem, i, ext)
	}

	f, err := os.OpenFile(filepath.Join(s.dir, stored), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)

	if err != nil {
		return "", err
	}

	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		os.Remove(filepath.Join(s.dir, stored))
		return "", err
	}

	if err := f.Close(); err != nil {
		os.Remove(filepath.Join(s.dir, stored))
		return "", err
	}

	return stored, nil
}

// Remove deletes a stored file. Used to compensate when the database insert
// that should reference the file fails.
func (s *ResumeStore) Remove(storedFilename string) error {
	return os.Remove(filepath.Join(s.dir, SanitizeFilename(storedFilename)))
}

// Path returns the on-disk location of a stored file.
func (s *ResumeStore) Path(storedFilename string) string {
	return filepath.Join(s.dir, SanitizeFilename(storedFilename))
}

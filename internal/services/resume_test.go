package services

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAllowedFile(t *testing.T) {
	cases := []struct {
		filename string
		allowed  bool
	}{
		{"resume.pdf", true},
		{"resume.doc", true},
		{"resume.docx", true},
		{"RESUME.PDF", true},
		{"archive.tar.pdf", true},
		{"resume.exe", false},
		{"resume.pdf.exe", false},
		{"resume", false},
		{"resume.", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := AllowedFile(tc.filename); got != tc.allowed {
			t.Errorf("AllowedFile(%q) = %v, want %v", tc.filename, got, tc.allowed)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"r.pdf", "r.pdf"},
		{"../../etc/passwd", "passwd"},
		{"..\\..\\boot.ini", "_.._boot.ini"},
		{"my resume (final).pdf", "my_resume__final_.pdf"},
		{"résumé.pdf", "r_sum_.pdf"},
		{"alice_Acme_r.pdf", "alice_Acme_r.pdf"},
	}

	for _, tc := range cases {
		if got := SanitizeFilename(tc.in); got != tc.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSaveValidatesBeforeWriting(t *testing.T) {
	store, err := NewResumeStore(t.TempDir())
	if err != nil {
		t.Fatalf("store: %v", err)
	}

	if _, err := store.Save("", "alice", "Acme", strings.NewReader("x")); !errors.Is(err, ErrEmptyFilename) {
		t.Fatalf("empty filename: got %v", err)
	}
	if _, err := store.Save("r.exe", "alice", "Acme", strings.NewReader("x")); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("bad extension: got %v", err)
	}
}

func TestSaveStoresWithPrefix(t *testing.T) {
	dir := t.TempDir()
	store, err := NewResumeStore(dir)
	if err != nil {
		t.Fatalf("store: %v", err)
	}

	stored, err := store.Save("r.pdf", "alice", "Acme", strings.NewReader("content"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if stored != "alice_Acme_r.pdf" {
		t.Fatalf("unexpected stored name %q", stored)
	}

	data, err := os.ReadFile(filepath.Join(dir, stored))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "content" {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestSaveNeverEscapesDirectory(t *testing.T) {
	dir := t.TempDir()
	store, err := NewResumeStore(dir)
	if err != nil {
		t.Fatalf("store: %v", err)
	}

	stored, err := store.Save("../../escape.pdf", "alice", "Acme", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if strings.Contains(stored, "/") || strings.Contains(stored, "..") {
		t.Fatalf("stored name not sanitized: %q", stored)
	}
	if _, err := os.Stat(filepath.Join(dir, stored)); err != nil {
		t.Fatalf("file not inside store dir: %v", err)
	}
}

func TestSaveCollisionGetsSuffix(t *testing.T) {
	dir := t.TempDir()
	store, err := NewResumeStore(dir)
	if err != nil {
		t.Fatalf("store: %v", err)
	}

	first, err := store.Save("r.pdf", "alice", "Acme", strings.NewReader("one"))
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	second, err := store.Save("r.pdf", "alice", "Acme", strings.NewReader("two"))
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if first == second {
		t.Fatalf("collision overwrote: %q", first)
	}

	data, err := os.ReadFile(filepath.Join(dir, first))
	if err != nil {
		t.Fatalf("read first: %v", err)
	}
	if string(data) != "one" {
		t.Fatalf("first file clobbered: %q", data)
	}
}

// A Stat failure that is not ErrNotExist (here ENOTDIR from a store path
// whose directory is actually a file) must surface as an error, not send the
// collision loop suffixing forever.
func TestSaveReportsStatFailure(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "not-a-dir")
	if err := os.WriteFile(filePath, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	store := &ResumeStore{dir: filePath}

	_, err := store.Save("r.pdf", "alice", "Acme", strings.NewReader("x"))
	if err == nil {
		t.Fatalf("expected an error when the store directory is unusable")
	}
	if errors.Is(err, ErrEmptyFilename) || errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected a filesystem error, got %v", err)
	}
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	store, err := NewResumeStore(dir)
	if err != nil {
		t.Fatalf("store: %v", err)
	}

	stored, err := store.Save("r.pdf", "alice", "Acme", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Remove(stored); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, stored)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("file still present: %v", err)
	}
}

package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/openlearn/coursecraft/internal/catalog"
)

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "courses.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing seed file: %v", err)
	}
	return path
}

func TestLoadSeed(t *testing.T) {
	path := writeSeed(t, `
courses:
  - id: "1"
    title: Intro to Go
    instructor: instructor-1
    thumbnail: https://cdn/intro.png
    description: Learn Go from scratch
    category: programming
  - id: "2"
    title: Advanced SQL
`)

	got, err := catalog.LoadSeed(path)
	if err != nil {
		t.Fatalf("LoadSeed() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("courses = %d, want 2", len(got))
	}
	if got[0].Title != "Intro to Go" || got[0].ThumbnailURL != "https://cdn/intro.png" {
		t.Errorf("courses[0] = %+v", got[0])
	}
	if got[0].InstructorID != "instructor-1" {
		t.Errorf("InstructorID = %q, want instructor-1", got[0].InstructorID)
	}
}

func TestLoadSeed_SkipsIncompleteEntries(t *testing.T) {
	path := writeSeed(t, `
courses:
  - id: "1"
    title: Complete
  - title: No ID
  - id: "3"
`)

	got, err := catalog.LoadSeed(path)
	if err != nil {
		t.Fatalf("LoadSeed() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("courses = %d, want 1 (incomplete entries skipped)", len(got))
	}
	if got[0].Title != "Complete" {
		t.Errorf("Title = %q, want Complete", got[0].Title)
	}
}

func TestLoadSeed_BadYAML(t *testing.T) {
	path := writeSeed(t, "courses: [not: closed")

	if _, err := catalog.LoadSeed(path); err == nil {
		t.Error("LoadSeed() = nil, want error for malformed YAML")
	}
}

func TestLoadSeed_MissingFile(t *testing.T) {
	if _, err := catalog.LoadSeed(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadSeed() = nil, want error for a missing file")
	}
}

package storage

import (
	"context"
	"crypto/sha256"
	"fmt"
	"testing"

	"github.com/marpio/photostat"
	"github.com/spf13/afero"
)

func testFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	files := map[string]string{
		"photos/a.jpg":      "first",
		"photos/notes.txt":  "not a photo",
		"photos/sub/b.JPEG": "second",
		"photos/sub/d.tiff": "third",
	}
	for p, content := range files {
		if err := afero.WriteFile(fs, p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return fs
}

func TestSearchFiles_recursive(t *testing.T) {
	repo := NewLocal(testFs(t))
	files, err := repo.SearchFiles("photos", true, photostat.SupportedFormats...)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 3 {
		t.Fatalf("Expected 3 image files, got %d", len(files))
	}
	if files[0].FilePath != "photos/a.jpg" {
		t.Errorf("Walk order should be lexical, got %s first", files[0].FilePath)
	}
	if files[0].FileSize != int64(len("first")) {
		t.Errorf("FileSize should come from the walk stat, got %d", files[0].FileSize)
	}
	if files[0].FileModTime.IsZero() {
		t.Error("FileModTime should come from the walk stat.")
	}
}

func TestSearchFiles_non_recursive(t *testing.T) {
	repo := NewLocal(testFs(t))
	files, err := repo.SearchFiles("photos", false, photostat.SupportedFormats...)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0].FilePath != "photos/a.jpg" {
		t.Errorf("Only the top-level image should match, got %v files", len(files))
	}
}

func TestFileInfo_ID_is_content_hash(t *testing.T) {
	repo := NewLocal(testFs(t))
	files, err := repo.SearchFiles("photos", false, ".jpg")
	if err != nil {
		t.Fatal(err)
	}
	want := fmt.Sprintf("%x", sha256.Sum256([]byte("first")))
	id, err := files[0].ID()
	if err != nil {
		t.Fatal(err)
	}
	if id != want {
		t.Errorf("Expected the sha256 of the file contents, got %s", id)
	}
	if again, _ := files[0].ID(); again != want {
		t.Error("The ID must be stable across calls.")
	}
}

func TestFileInfo_ID_surfaces_read_error(t *testing.T) {
	repo := NewLocal(testFs(t))
	files, err := repo.SearchFiles("photos", false, ".jpg")
	if err != nil {
		t.Fatal(err)
	}
	fi := photostat.NewFileInfo("photos/a.jpg", ".jpg", files[0].FileSize, files[0].FileModTime, func(string) ([]byte, error) {
		return nil, fmt.Errorf("disk gone")
	})
	if _, err := fi.ID(); err == nil {
		t.Error("An unreadable file must not get an ID.")
	}
}

func TestNewReadSeeker(t *testing.T) {
	repo := NewLocal(testFs(t))
	r, err := repo.NewReadSeeker(context.Background(), "photos/a.jpg")
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	buf := make([]byte, 5)
	if _, err := r.Read(buf); err != nil {
		t.Fatal(err)
	}
	if string(buf) != "first" {
		t.Errorf("Read the wrong contents: %q", buf)
	}
}

func TestDirExists(t *testing.T) {
	repo := NewLocal(testFs(t))
	if ok, _ := repo.DirExists("photos"); !ok {
		t.Error("An existing directory should be found.")
	}
	if ok, _ := repo.DirExists("no/such/dir"); ok {
		t.Error("A missing directory must not be reported as existing.")
	}
}

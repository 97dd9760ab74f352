package analyzer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/apex/log"
	"github.com/marpio/photostat"
)

var ctx context.Context = context.Background()

type storageMock struct {
	files  []*photostat.FileInfo
	exists bool
}

func (m *storageMock) NewReadSeeker(ctx context.Context, path string) (photostat.ReadCloseSeeker, error) {
	return nil, errors.New("not implemented")
}

func (m *storageMock) SearchFiles(rootPath string, recursive bool, fileExt ...string) ([]*photostat.FileInfo, error) {
	return m.files, nil
}

func (m *storageMock) DirExists(path string) (bool, error) {
	return m.exists, nil
}

type repoMock struct {
	records map[string]photostat.Record
	deleted []string
	added   []string
}

func newRepoMock() *repoMock {
	return &repoMock{records: map[string]photostat.Record{}}
}

func (m *repoMock) Add(r photostat.Record) error {
	m.records[r.Path] = r
	m.added = append(m.added, r.Path)
	return nil
}

func (m *repoMock) DeleteByPath(path string) error {
	delete(m.records, path)
	m.deleted = append(m.deleted, path)
	return nil
}

func (m *repoMock) GetByPath(path string) (*photostat.Record, error) {
	if r, ok := m.records[path]; ok {
		return &r, nil
	}
	return nil, nil
}

func (m *repoMock) GetAll() ([]photostat.Record, error)          { return nil, nil }
func (m *repoMock) GetByID(id string) (*photostat.Record, error) { return nil, nil }
func (m *repoMock) GetByDir(dir string) ([]photostat.Record, error) {
	return nil, nil
}
func (m *repoMock) GetDirs() ([]string, error)       { return nil, nil }
func (m *repoMock) Count() (int, error)              { return len(m.records), nil }
func (m *repoMock) Reload(ctx context.Context) error { return nil }

type extractorMock struct {
	seen []string
	fail map[string]bool
}

func (m *extractorMock) Extract(ctx context.Context, logctx log.Interface, files []*photostat.FileInfo) photostat.Collection {
	out := photostat.Collection{}
	for _, fi := range files {
		m.seen = append(m.seen, fi.FilePath)
		if m.fail[fi.FilePath] {
			continue
		}
		out = append(out, photostat.Record{Path: fi.FilePath, Filename: fi.FilePath, Camera: "Fresh", ModTime: fi.FileModTime})
	}
	return out
}

var scanTime = time.Date(2023, 6, 15, 14, 30, 0, 0, time.UTC)

func file(path string) *photostat.FileInfo {
	return photostat.NewFileInfo(path, ".jpg", 1, scanTime, nil)
}

func TestExecuteMissingDirectory(t *testing.T) {
	svc := New(&storageMock{exists: false}, newRepoMock(), &extractorMock{})
	if _, err := svc.Execute(ctx, log.Log, "nope", true); err == nil {
		t.Error("A missing directory must fail the scan.")
	}
}

func TestExecuteExtractsAndStores(t *testing.T) {
	strg := &storageMock{exists: true, files: []*photostat.FileInfo{file("a.jpg"), file("b.jpg")}}
	repo := newRepoMock()
	extr := &extractorMock{}
	recs, err := New(strg, repo, extr).Execute(ctx, log.Log, "photos", true)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Errorf("Expected 2 records, got: %v", len(recs))
	}
	if len(extr.seen) != 2 {
		t.Errorf("Expected the extractor to see 2 files, got: %v", extr.seen)
	}
	if len(repo.added) != 2 {
		t.Errorf("Expected 2 records stored, got: %v", repo.added)
	}
}

func TestExecuteReusesCachedRecords(t *testing.T) {
	strg := &storageMock{exists: true, files: []*photostat.FileInfo{file("a.jpg"), file("b.jpg")}}
	repo := newRepoMock()
	repo.records["a.jpg"] = photostat.Record{Path: "a.jpg", Camera: "Cached", ModTime: scanTime}
	extr := &extractorMock{}

	recs, err := New(strg, repo, extr).Execute(ctx, log.Log, "photos", true)
	if err != nil {
		t.Fatal(err)
	}
	if len(extr.seen) != 1 || extr.seen[0] != "b.jpg" {
		t.Errorf("Only the uncached file should be extracted, extractor saw: %v", extr.seen)
	}
	if len(recs) != 2 {
		t.Fatalf("Expected 2 records, got: %v", len(recs))
	}
	if recs[0].Camera != "Cached" {
		t.Errorf("The unchanged file must come from the cache, got camera %q", recs[0].Camera)
	}
	if len(repo.deleted) != 0 {
		t.Errorf("Nothing should be deleted, got: %v", repo.deleted)
	}
}

func TestExecuteRefreshesChangedFile(t *testing.T) {
	strg := &storageMock{exists: true, files: []*photostat.FileInfo{file("a.jpg")}}
	repo := newRepoMock()
	repo.records["a.jpg"] = photostat.Record{Path: "a.jpg", Camera: "Cached", ModTime: scanTime.Add(-time.Hour)}
	extr := &extractorMock{}

	recs, err := New(strg, repo, extr).Execute(ctx, log.Log, "photos", true)
	if err != nil {
		t.Fatal(err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != "a.jpg" {
		t.Errorf("The stale record must be deleted first, got: %v", repo.deleted)
	}
	if len(extr.seen) != 1 {
		t.Errorf("The changed file must be re-extracted, extractor saw: %v", extr.seen)
	}
	if len(recs) != 1 || recs[0].Camera != "Fresh" {
		t.Errorf("Expected the fresh record, got: %+v", recs)
	}
}

func TestExecuteKeepsScanOrder(t *testing.T) {
	strg := &storageMock{exists: true, files: []*photostat.FileInfo{file("a.jpg"), file("b.jpg"), file("c.jpg")}}
	repo := newRepoMock()
	repo.records["b.jpg"] = photostat.Record{Path: "b.jpg", Camera: "Cached", ModTime: scanTime}
	extr := &extractorMock{}

	recs, err := New(strg, repo, extr).Execute(ctx, log.Log, "photos", true)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 3 {
		t.Fatalf("Expected 3 records, got: %v", len(recs))
	}
	for i, want := range []string{"a.jpg", "b.jpg", "c.jpg"} {
		if recs[i].Path != want {
			t.Errorf("Record %d is %q, want %q.", i, recs[i].Path, want)
		}
	}
}

func TestExecuteLeavesOutUnreadablePhotos(t *testing.T) {
	strg := &storageMock{exists: true, files: []*photostat.FileInfo{file("a.jpg"), file("broken.jpg"), file("c.jpg")}}
	repo := newRepoMock()
	extr := &extractorMock{fail: map[string]bool{"broken.jpg": true}}

	recs, err := New(strg, repo, extr).Execute(ctx, log.Log, "photos", true)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Errorf("Expected 2 records, got: %v", len(recs))
	}
	if _, ok := repo.records["broken.jpg"]; ok {
		t.Error("An unreadable photo must not be stored.")
	}
}

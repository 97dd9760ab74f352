package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/marpio/photostat"
	"github.com/spf13/afero"
)

// Operation records one staged export.
type Operation struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	StagedPath string    `json:"staged_path"`
	Filename   string    `json:"filename"`
	Rows       int       `json:"rows"`
	SizeBytes  int64     `json:"size_bytes"`
	CreatedAt  time.Time `json:"created_at"`
	Status     string    `json:"status"`
}

// Staging writes report files to a scratch directory first and moves them
// to their destination on commit, so an export that fails halfway never
// leaves a truncated file where the caller asked for one.
type Staging struct {
	fs  afero.Fs
	dir string

	mu  sync.Mutex
	seq int
	ops []*Operation
}

func NewStaging(fs afero.Fs) (*Staging, error) {
	dir, err := afero.TempDir(fs, "", "photostat")
	if err != nil {
		return nil, fmt.Errorf("error creating staging dir: %v", err)
	}
	return &Staging{fs: fs, dir: dir}, nil
}

// DefaultFilename names an export the way the reports have always been
// named, so files from repeated runs sort by time.
func DefaultFilename(kind string, t time.Time) string {
	stamp := t.Format("20060102_150405")
	switch kind {
	case "csv":
		return fmt.Sprintf("photo_metadata_%s.csv", stamp)
	case "html":
		return fmt.Sprintf("photo_analysis_%s.html", stamp)
	default:
		return fmt.Sprintf("photo_analysis_%s.json", stamp)
	}
}

// Stage renders into the scratch directory and records the operation.
func (s *Staging) Stage(kind string, rows int, render func(io.Writer) error) (*Operation, error) {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	now := time.Now()
	op := &Operation{
		ID:        fmt.Sprintf("%s-%04d", kind, seq),
		Kind:      kind,
		Filename:  DefaultFilename(kind, now),
		Rows:      rows,
		CreatedAt: now,
		Status:    "staged",
	}
	op.StagedPath = filepath.Join(s.dir, op.ID+filepath.Ext(op.Filename))

	f, err := s.fs.Create(op.StagedPath)
	if err != nil {
		return nil, fmt.Errorf("error creating staged file: %v", err)
	}
	if err := render(f); err != nil {
		f.Close()
		s.fs.Remove(op.StagedPath)
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("error closing staged file: %v", err)
	}

	info, err := s.fs.Stat(op.StagedPath)
	if err != nil {
		return nil, fmt.Errorf("error stating staged file: %v", err)
	}
	op.SizeBytes = info.Size()

	s.mu.Lock()
	s.ops = append(s.ops, op)
	s.mu.Unlock()
	return op, nil
}

func (s *Staging) StageCSV(recs photostat.Collection) (*Operation, error) {
	return s.Stage("csv", len(recs), func(w io.Writer) error {
		return WriteCSV(w, recs)
	})
}

func (s *Staging) StageJSON(e *Export) (*Operation, error) {
	return s.Stage("json", e.Summary.TotalPhotos, func(w io.Writer) error {
		return WriteJSON(w, e)
	})
}

func (s *Staging) StageHTML(e *Export) (*Operation, error) {
	return s.Stage("html", e.Summary.TotalPhotos, func(w io.Writer) error {
		return WriteHTML(w, e)
	})
}

// Commit moves a staged export to dest. An empty dest commits to the
// operation's default filename in the working directory.
func (s *Staging) Commit(opID, dest string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var op *Operation
	for _, o := range s.ops {
		if o.ID == opID {
			op = o
			break
		}
	}
	if op == nil {
		return "", fmt.Errorf("unknown staged operation %v", opID)
	}
	if op.Status != "staged" {
		return "", fmt.Errorf("operation %v already %v", opID, op.Status)
	}
	if dest == "" {
		dest = op.Filename
	}

	if err := s.move(op.StagedPath, dest); err != nil {
		return "", fmt.Errorf("error committing %v: %v", opID, err)
	}
	op.Status = "committed"
	return dest, nil
}

// move renames where it can and copies across filesystem boundaries.
func (s *Staging) move(src, dest string) error {
	if err := s.fs.Rename(src, dest); err == nil {
		return nil
	}
	in, err := s.fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := s.fs.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return s.fs.Remove(src)
}

// Operations lists staged and committed exports, oldest first.
func (s *Staging) Operations() []Operation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Operation, 0, len(s.ops))
	for _, op := range s.ops {
		out = append(out, *op)
	}
	return out
}

// Cleanup removes the scratch directory and everything still staged in it.
func (s *Staging) Cleanup() error {
	return s.fs.RemoveAll(s.dir)
}

package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/marpio/photostat"
	"github.com/spf13/afero"
)

type ReadOnlyLocalStorage struct {
	fs afero.Fs
}

func NewLocal(fs afero.Fs) *ReadOnlyLocalStorage {
	return &ReadOnlyLocalStorage{fs: fs}
}

func (repo *ReadOnlyLocalStorage) NewReadSeeker(ctx context.Context, path string) (photostat.ReadCloseSeeker, error) {
	return repo.fs.Open(path)
}

func (repo *ReadOnlyLocalStorage) DirExists(path string) (bool, error) {
	return afero.DirExists(repo.fs, path)
}

// SearchFiles walks rootPath and collects every file whose name ends in
// one of fileExt, case-insensitively. Results come back in walk order,
// which is lexical and therefore stable between runs.
func (repo *ReadOnlyLocalStorage) SearchFiles(rootPath string, recursive bool, fileExt ...string) ([]*photostat.FileInfo, error) {
	files := make([]*photostat.FileInfo, 0)
	readFile := func(path string) ([]byte, error) {
		return afero.ReadFile(repo.fs, path)
	}
	err := afero.Walk(repo.fs, rootPath, func(pth string, fi os.FileInfo, err error) error {
		if err != nil {
			if pth == rootPath {
				return err
			}
			return nil
		}
		if fi.IsDir() {
			if !recursive && pth != rootPath {
				return filepath.SkipDir
			}
			return nil
		}
		for _, ext := range fileExt {
			if strings.HasSuffix(strings.ToLower(fi.Name()), strings.ToLower(ext)) {
				finf := photostat.NewFileInfo(pth, strings.ToLower(filepath.Ext(pth)), fi.Size(), fi.ModTime(), readFile)
				files = append(files, finf)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", rootPath, err)
	}
	return files, nil
}

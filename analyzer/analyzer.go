// Package analyzer drives a scan: it walks a photo directory, reuses
// records cached from earlier runs and extracts the rest.
package analyzer

import (
	"context"
	"fmt"

	"github.com/apex/log"
	"github.com/marpio/photostat"
)

type Service struct {
	strg photostat.ReadOnlyStorage
	repo photostat.Repo
	extr photostat.Extractor
}

func New(strg photostat.ReadOnlyStorage, repo photostat.Repo, extr photostat.Extractor) *Service {
	return &Service{strg: strg, repo: repo, extr: extr}
}

// Execute returns one record per readable photo under dir, in scan
// order. A cached record is reused when the file's modification time is
// unchanged; otherwise the stale record is dropped and the photo is read
// again. Photos without readable metadata are logged by the extractor
// and left out.
func (s *Service) Execute(ctx context.Context, logctx log.Interface, dir string, recursive bool) (photostat.Collection, error) {
	exists, err := s.strg.DirExists(dir)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("directory %s does not exist", dir)
	}

	files, err := s.strg.SearchFiles(dir, recursive, photostat.SupportedFormats...)
	if err != nil {
		return nil, err
	}

	byPath := make(map[string]photostat.Record, len(files))
	stale := make([]*photostat.FileInfo, 0, len(files))
	for _, fi := range files {
		cached, err := s.repo.GetByPath(fi.FilePath)
		if err != nil {
			return nil, err
		}
		if cached != nil && cached.ModTime.Equal(fi.FileModTime) {
			byPath[fi.FilePath] = *cached
			continue
		}
		if cached != nil {
			if err := s.repo.DeleteByPath(fi.FilePath); err != nil {
				return nil, err
			}
		}
		stale = append(stale, fi)
	}
	logctx.Infof("found %d photos, %d cached, extracting %d", len(files), len(byPath), len(stale))

	for _, r := range s.extr.Extract(ctx, logctx, stale) {
		if err := s.repo.Add(r); err != nil {
			return nil, err
		}
		byPath[r.Path] = r
	}

	records := make(photostat.Collection, 0, len(byPath))
	for _, fi := range files {
		if r, ok := byPath[fi.FilePath]; ok {
			records = append(records, r)
		}
	}
	return records, nil
}

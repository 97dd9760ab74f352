package photostat

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"time"

	"github.com/apex/log"
)

// SupportedFormats lists the extensions metadata can be read from: JPEG
// containers and TIFF-structured files.
var SupportedFormats = []string{".jpg", ".jpeg", ".tiff", ".tif"}

type ReadOnlyStorage interface {
	StorageReadSeeker
	SearchFiles(rootPath string, recursive bool, fileExt ...string) ([]*FileInfo, error)
	DirExists(path string) (bool, error)
}

type StorageReadSeeker interface {
	NewReadSeeker(ctx context.Context, path string) (ReadCloseSeeker, error)
}

type ReadCloseSeeker interface {
	io.ReadCloser
	io.Seeker
}

type Extractor interface {
	Extract(ctx context.Context, logctx log.Interface, files []*FileInfo) Collection
}

type Repo interface {
	RepoReader
	RepoWriter
}

type RepoWriter interface {
	Add(r Record) error
	DeleteByPath(path string) error
}

type RepoReader interface {
	GetAll() ([]Record, error)
	GetByPath(path string) (*Record, error)
	GetByID(id string) (*Record, error)
	GetByDir(dir string) ([]Record, error)
	GetDirs() ([]string, error)
	Count() (int, error)
	Reload(ctx context.Context) error
}

type FileInfo struct {
	id          string
	readFile    func(string) ([]byte, error)
	FilePath    string
	FileExt     string
	FileSize    int64
	FileModTime time.Time
}

func NewFileInfo(path, ext string, size int64, modTime time.Time, readFile func(string) ([]byte, error)) *FileInfo {
	return &FileInfo{
		readFile:    readFile,
		FilePath:    path,
		FileExt:     ext,
		FileSize:    size,
		FileModTime: modTime,
	}
}

// ID is the hex sha256 of the file contents, computed on first use.
func (fi *FileInfo) ID() (string, error) {
	if fi.id != "" {
		return fi.id, nil
	}
	b, err := fi.readFile(fi.FilePath)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", fi.FilePath, err)
	}
	h := sha256.Sum256(b)
	fi.id = fmt.Sprintf("%x", h)
	return fi.id, nil
}

// Record holds the normalized metadata of one photo. Numeric fields are
// pointers: nil means the camera did not record the value or it could not
// be converted, there is no NaN sentinel anywhere.
type Record struct {
	ID            string     `json:"id"`
	Filename      string     `json:"filename"`
	Path          string     `json:"filepath"`
	SizeBytes     int64      `json:"file_size_bytes"`
	Camera        string     `json:"camera"`
	Make          string     `json:"make"`
	Lens          string     `json:"lens"`
	Aperture      *float64   `json:"aperture,omitempty"`
	ShutterSpeed  *float64   `json:"shutter_speed,omitempty"`
	ISO           *float64   `json:"iso,omitempty"`
	FocalLength   *float64   `json:"focal_length,omitempty"`
	FocalLength35 *float64   `json:"focal_length_35mm,omitempty"`
	ExposureBias  *float64   `json:"exposure_bias,omitempty"`
	Flash         string     `json:"flash,omitempty"`
	MeteringMode  string     `json:"metering_mode,omitempty"`
	WhiteBalance  string     `json:"white_balance,omitempty"`
	Latitude      *float64   `json:"latitude,omitempty"`
	Longitude     *float64   `json:"longitude,omitempty"`
	Altitude      *float64   `json:"altitude,omitempty"`
	TakenAt       *time.Time `json:"datetime,omitempty"`
	ModTime       time.Time  `json:"-"`
}

func (r Record) HasLocation() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// Dir buckets a record by capture month, the unit the gallery groups by.
func (r Record) Dir() string {
	if r.TakenAt == nil {
		return "undated"
	}
	return fmt.Sprintf("%d-%02d", r.TakenAt.Year(), r.TakenAt.Month())
}

// Collection is the outcome of one scan: every successfully parsed photo,
// in walk order. A rescan replaces it wholesale.
type Collection []Record

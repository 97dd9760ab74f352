package metadata

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/marpio/photostat"
	"github.com/marpio/photostat/exifvalue"
	"github.com/marpio/photostat/gps"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

type extractor struct {
	rd photostat.StorageReadSeeker
}

func NewExtractor(rd photostat.StorageReadSeeker) photostat.Extractor {
	return &extractor{rd: rd}
}

// Extract reads one file at a time, start to finish, in the order given.
// A file that cannot be read or carries no metadata is logged and skipped;
// it never takes the rest of the batch down with it.
func (s *extractor) Extract(ctx context.Context, logctx log.Interface, files []*photostat.FileInfo) photostat.Collection {
	records := make(photostat.Collection, 0, len(files))
	for _, fi := range files {
		flog := logctx.WithFields(log.Fields{
			"photo_path": fi.FilePath,
		})
		rec, err := s.extractOne(ctx, fi)
		if err != nil {
			flog.Errorf("error extracting metadata: %v", err)
			continue
		}
		records = append(records, rec)
	}
	return records
}

func (s *extractor) extractOne(ctx context.Context, fi *photostat.FileInfo) (photostat.Record, error) {
	f, err := s.rd.NewReadSeeker(ctx, fi.FilePath)
	if err != nil {
		return photostat.Record{}, fmt.Errorf("open %s: %w", fi.FilePath, err)
	}
	defer f.Close()

	tags, err := decodeTags(f)
	if err != nil {
		return photostat.Record{}, fmt.Errorf("decode exif: %w", err)
	}
	return buildRecord(fi, tags)
}

type tagWalker struct {
	tags map[string]exifvalue.Value
}

func (w *tagWalker) Walk(name exif.FieldName, tag *tiff.Tag) error {
	w.tags[string(name)] = rawValue(tag)
	return nil
}

func decodeTags(r io.Reader) (map[string]exifvalue.Value, error) {
	x, err := exif.Decode(r)
	if err != nil {
		return nil, err
	}
	w := &tagWalker{tags: make(map[string]exifvalue.Value)}
	if err := x.Walk(w); err != nil {
		return nil, err
	}
	return w.tags, nil
}

// rawValue maps a TIFF tag onto the value variant the normalizer works
// with. The raw bytes are kept for anything that has no numeric or text
// reading.
func rawValue(t *tiff.Tag) exifvalue.Value {
	switch t.Format() {
	case tiff.StringVal:
		s, err := t.StringVal()
		if err != nil {
			return exifvalue.Bytes(t.Val)
		}
		return exifvalue.Text(s)
	case tiff.RatVal:
		if t.Count == 1 {
			num, den, err := t.Rat2(0)
			if err != nil {
				return exifvalue.Bytes(t.Val)
			}
			return exifvalue.Rational{Num: num, Den: den}
		}
		seq := make(exifvalue.Sequence, 0, t.Count)
		for i := 0; i < int(t.Count); i++ {
			num, den, err := t.Rat2(i)
			if err != nil {
				return exifvalue.Bytes(t.Val)
			}
			seq = append(seq, exifvalue.Rational{Num: num, Den: den})
		}
		return seq
	case tiff.IntVal:
		if t.Count == 1 {
			v, err := t.Int64(0)
			if err != nil {
				return exifvalue.Bytes(t.Val)
			}
			return exifvalue.Numeric(v)
		}
		seq := make(exifvalue.Sequence, 0, t.Count)
		for i := 0; i < int(t.Count); i++ {
			v, err := t.Int64(i)
			if err != nil {
				return exifvalue.Bytes(t.Val)
			}
			seq = append(seq, exifvalue.Numeric(v))
		}
		return seq
	case tiff.FloatVal:
		if t.Count == 1 {
			f, err := t.Float(0)
			if err != nil {
				return exifvalue.Bytes(t.Val)
			}
			return exifvalue.Numeric(f)
		}
		seq := make(exifvalue.Sequence, 0, t.Count)
		for i := 0; i < int(t.Count); i++ {
			f, err := t.Float(i)
			if err != nil {
				return exifvalue.Bytes(t.Val)
			}
			seq = append(seq, exifvalue.Numeric(f))
		}
		return seq
	}
	return exifvalue.Bytes(t.Val)
}

func buildRecord(fi *photostat.FileInfo, tags map[string]exifvalue.Value) (photostat.Record, error) {
	id, err := fi.ID()
	if err != nil {
		return photostat.Record{}, fmt.Errorf("hashing %s: %w", fi.FilePath, err)
	}
	rec := photostat.Record{
		ID:        id,
		Filename:  filepath.Base(fi.FilePath),
		Path:      fi.FilePath,
		SizeBytes: fi.FileSize,
		ModTime:   fi.FileModTime,
		Camera:    textTag(tags, "Model"),
		Make:      textTag(tags, "Make"),
		Lens:      textTag(tags, "LensModel"),
	}
	rec.Aperture = aperture(tags)
	rec.ShutterSpeed = shutterSpeed(tags)
	rec.ISO = iso(tags)
	rec.FocalLength = floatTag(tags, "FocalLength")
	rec.FocalLength35 = floatTag(tags, "FocalLengthIn35mmFilm")
	rec.ExposureBias = floatTag(tags, "ExposureBiasValue")
	if code, ok := intTag(tags, "Flash"); ok {
		rec.Flash = exifvalue.DecodeFlash(code)
	}
	if code, ok := intTag(tags, "MeteringMode"); ok {
		rec.MeteringMode = exifvalue.DecodeMeteringMode(code)
	}
	if code, ok := intTag(tags, "WhiteBalance"); ok {
		rec.WhiteBalance = exifvalue.DecodeWhiteBalance(code)
	}
	rec.TakenAt = takenAt(tags)

	coords := gps.Convert(tags)
	rec.Latitude = coords.Latitude
	rec.Longitude = coords.Longitude
	rec.Altitude = coords.Altitude
	return rec, nil
}

// aperture prefers the plain f-number and falls back to the APEX encoding
// some cameras write instead.
func aperture(tags map[string]exifvalue.Value) *float64 {
	if f := floatTag(tags, "FNumber"); f != nil {
		return f
	}
	if apex := floatTag(tags, "ApertureValue"); apex != nil {
		f := exifvalue.ApertureFromAPEX(*apex)
		return &f
	}
	return nil
}

func shutterSpeed(tags map[string]exifvalue.Value) *float64 {
	if s := floatTag(tags, "ExposureTime"); s != nil {
		return s
	}
	if apex := floatTag(tags, "ShutterSpeedValue"); apex != nil {
		s := exifvalue.ShutterFromAPEX(*apex)
		return &s
	}
	return nil
}

// iso tolerates the multi-value arrays some bodies write, taking the
// first entry.
func iso(tags map[string]exifvalue.Value) *float64 {
	v, ok := tags["ISOSpeedRatings"]
	if !ok {
		return nil
	}
	f, _, ok := exifvalue.Float(exifvalue.First(v))
	if !ok {
		return nil
	}
	return &f
}

func takenAt(tags map[string]exifvalue.Value) *time.Time {
	for _, name := range []string{"DateTimeOriginal", "DateTime", "DateTimeDigitized"} {
		t, ok := tags[name].(exifvalue.Text)
		if !ok {
			continue
		}
		if ts, ok := exifvalue.ParseDateTime(string(t)); ok {
			return &ts
		}
	}
	return nil
}

func textTag(tags map[string]exifvalue.Value, name string) string {
	if t, ok := tags[name].(exifvalue.Text); ok {
		if s := strings.TrimSpace(string(t)); s != "" {
			return s
		}
	}
	return "Unknown"
}

func floatTag(tags map[string]exifvalue.Value, name string) *float64 {
	v, ok := tags[name]
	if !ok {
		return nil
	}
	f, _, ok := exifvalue.Float(v)
	if !ok {
		return nil
	}
	return &f
}

func intTag(tags map[string]exifvalue.Value, name string) (int, bool) {
	f := floatTag(tags, name)
	if f == nil {
		return 0, false
	}
	return int(*f), true
}

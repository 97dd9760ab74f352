package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/marpio/photostat"
	"github.com/marpio/photostat/exifvalue"
)

var csvHeader = []string{
	"filename",
	"filepath",
	"file_size_mb",
	"latitude",
	"longitude",
	"aperture",
	"shutter_speed",
	"iso",
	"focal_length",
	"camera",
	"make",
	"lens",
	"datetime",
}

// WriteCSV writes one row per photo. Settings are written as display
// strings and unknown fields stay empty.
func WriteCSV(w io.Writer, recs photostat.Collection) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("error writing csv header: %v", err)
	}
	for _, r := range recs {
		if err := cw.Write(csvRow(r)); err != nil {
			return fmt.Errorf("error writing csv row for %v: %v", r.Path, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvRow(r photostat.Record) []string {
	return []string{
		r.Filename,
		r.Path,
		fmt.Sprintf("%.2f", float64(r.SizeBytes)/(1024*1024)),
		floatCell(r.Latitude),
		floatCell(r.Longitude),
		displayCell(r.Aperture, exifvalue.FormatAperture),
		displayCell(r.ShutterSpeed, exifvalue.FormatShutter),
		isoCell(r.ISO),
		displayCell(r.FocalLength, exifvalue.FormatFocalLength),
		r.Camera,
		r.Make,
		r.Lens,
		dateCell(r),
	}
}

func floatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func displayCell(v *float64, format func(float64) string) string {
	if v == nil {
		return ""
	}
	return format(*v)
}

func isoCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(int(*v))
}

func dateCell(r photostat.Record) string {
	if r.TakenAt == nil {
		return ""
	}
	return r.TakenAt.Format("2006-01-02 15:04:05")
}

package metadata

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"path/filepath"
	"sort"
	"strings"

	"github.com/marpio/photostat"
	"github.com/marpio/photostat/exifvalue"
	"github.com/marpio/photostat/gps"
)

// Analysis is the full readout of a single photo, covering every
// extraction path for each camera setting rather than just the value
// the record keeps.
type Analysis struct {
	Filename  string `json:"filename"`
	Path      string `json:"path"`
	SizeBytes int64  `json:"file_size_bytes"`
	Format    string `json:"format,omitempty"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	HasExif   bool   `json:"has_exif"`

	Record *photostat.Record `json:"record,omitempty"`

	Aperture     []Candidate     `json:"aperture,omitempty"`
	ShutterSpeed []Candidate     `json:"shutter_speed,omitempty"`
	ISO          []Candidate     `json:"iso,omitempty"`
	FocalLength  []Candidate     `json:"focal_length,omitempty"`
	Exposure     []ExposureField `json:"exposure_info,omitempty"`
	Info         []TextField     `json:"additional_info,omitempty"`
	GPS          *GPSInfo        `json:"gps_data,omitempty"`
	Tags         []TagLine       `json:"all_tags,omitempty"`
}

// Candidate is one way of reading a setting, named after the tag it
// came from. A photo often carries the same setting in two encodings.
type Candidate struct {
	Source  string  `json:"source"`
	Value   float64 `json:"value"`
	Display string  `json:"display"`
	Diag    string  `json:"conversion"`
}

type ExposureField struct {
	Tag     string   `json:"tag"`
	Label   string   `json:"label"`
	Raw     string   `json:"raw"`
	Numeric *float64 `json:"numeric,omitempty"`
	Decoded string   `json:"decoded"`
}

type TextField struct {
	Tag       string `json:"tag"`
	Label     string `json:"label"`
	Value     string `json:"value"`
	Formatted string `json:"formatted,omitempty"`
}

type GPSInfo struct {
	Tags        []TagLine         `json:"tags"`
	Coordinates *gps.Coordinates  `json:"decimal_coordinates,omitempty"`
	MapLinks    map[string]string `json:"map_links,omitempty"`
}

type TagLine struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Analyze reads a single photo end to end. Failing to open the file is
// an error; a file without readable metadata is a valid result with
// HasExif unset.
func Analyze(ctx context.Context, rd photostat.StorageReadSeeker, fi *photostat.FileInfo) (*Analysis, error) {
	f, err := rd.NewReadSeeker(ctx, fi.FilePath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", fi.FilePath, err)
	}
	defer f.Close()

	a := &Analysis{
		Filename:  filepath.Base(fi.FilePath),
		Path:      fi.FilePath,
		SizeBytes: fi.FileSize,
	}
	if cfg, format, err := image.DecodeConfig(f); err == nil {
		a.Format = format
		a.Width = cfg.Width
		a.Height = cfg.Height
	}
	if _, err := f.Seek(0, 0); err != nil {
		return nil, fmt.Errorf("rewind %s: %w", fi.FilePath, err)
	}

	tags, err := decodeTags(f)
	if err != nil {
		return a, nil
	}
	a.HasExif = true

	rec, err := buildRecord(fi, tags)
	if err != nil {
		return nil, err
	}
	a.Record = &rec
	a.Aperture = apertureCandidates(tags)
	a.ShutterSpeed = shutterCandidates(tags)
	a.ISO = isoCandidates(tags)
	a.FocalLength = focalCandidates(tags)
	a.Exposure = exposureFields(tags)
	a.Info = textFields(tags)
	a.GPS = gpsInfo(tags)
	a.Tags = tagLines(tags)
	return a, nil
}

// StripLocation removes every positional field from the analysis, for
// readouts that must not disclose where a photo was taken.
func (a *Analysis) StripLocation() {
	a.GPS = nil
	if a.Record != nil {
		a.Record.Latitude = nil
		a.Record.Longitude = nil
		a.Record.Altitude = nil
	}
}

// Summary condenses the analysis to the few lines a photographer asks
// about first.
func (a *Analysis) Summary() string {
	if !a.HasExif {
		return "No EXIF data available"
	}
	var lines []string
	if a.Format != "" && a.Width > 0 {
		lines = append(lines, fmt.Sprintf("%s (%s, %dx%d)", a.Filename, a.Format, a.Width, a.Height))
	} else {
		lines = append(lines, a.Filename)
	}

	var settings []string
	if c := primary(a.Aperture, "FNumber"); c != nil {
		settings = append(settings, fmt.Sprintf("f/%.1f", c.Value))
	}
	if c := primary(a.ShutterSpeed, "ExposureTime"); c != nil {
		settings = append(settings, exifvalue.FormatShutter(c.Value))
	}
	if len(a.ISO) > 0 {
		settings = append(settings, fmt.Sprintf("ISO%d", int(a.ISO[0].Value)))
	}
	if c := primary(a.FocalLength, "FocalLength"); c != nil {
		settings = append(settings, fmt.Sprintf("%.0fmm", c.Value))
	}
	if len(settings) > 0 {
		lines = append(lines, strings.Join(settings, " | "))
	}

	if a.Record != nil && a.Record.Make != "Unknown" && a.Record.Camera != "Unknown" {
		lines = append(lines, a.Record.Make+" "+a.Record.Camera)
	}
	if a.GPS != nil && a.GPS.Coordinates != nil && a.GPS.Coordinates.HasFix() {
		lines = append(lines, fmt.Sprintf("%.4f, %.4f", *a.GPS.Coordinates.Latitude, *a.GPS.Coordinates.Longitude))
	}
	return strings.Join(lines, "\n")
}

func primary(cs []Candidate, source string) *Candidate {
	for i := range cs {
		if cs[i].Source == source {
			return &cs[i]
		}
	}
	return nil
}

func apertureCandidates(tags map[string]exifvalue.Value) []Candidate {
	var out []Candidate
	if f, diag, ok := probe(tags, "FNumber"); ok {
		out = append(out, Candidate{"FNumber", f, exifvalue.FormatAperture(f), diag})
	}
	for _, name := range []string{"ApertureValue", "MaxApertureValue"} {
		if apex, diag, ok := probe(tags, name); ok {
			f := exifvalue.ApertureFromAPEX(apex)
			out = append(out, Candidate{name, f, exifvalue.FormatAperture(f), diag})
		}
	}
	return out
}

func shutterCandidates(tags map[string]exifvalue.Value) []Candidate {
	var out []Candidate
	if s, diag, ok := probe(tags, "ExposureTime"); ok {
		out = append(out, Candidate{"ExposureTime", s, exifvalue.FormatShutter(s), diag})
	}
	if apex, diag, ok := probe(tags, "ShutterSpeedValue"); ok {
		s := exifvalue.ShutterFromAPEX(apex)
		out = append(out, Candidate{"ShutterSpeedValue", s, exifvalue.FormatShutter(s), diag})
	}
	return out
}

func isoCandidates(tags map[string]exifvalue.Value) []Candidate {
	var out []Candidate
	for _, name := range []string{"ISOSpeedRatings", "ISO", "RecommendedExposureIndex", "PhotographicSensitivity"} {
		v, ok := tags[name]
		if !ok {
			continue
		}
		f, diag, ok := exifvalue.Float(exifvalue.First(v))
		if !ok {
			continue
		}
		out = append(out, Candidate{name, f, exifvalue.FormatISO(f), diag})
	}
	return out
}

func focalCandidates(tags map[string]exifvalue.Value) []Candidate {
	var out []Candidate
	for _, name := range []string{"FocalLength", "FocalLengthIn35mmFilm"} {
		if f, diag, ok := probe(tags, name); ok {
			out = append(out, Candidate{name, f, exifvalue.FormatFocalLength(f), diag})
		}
	}
	return out
}

func probe(tags map[string]exifvalue.Value, name string) (float64, string, bool) {
	v, ok := tags[name]
	if !ok {
		return 0, "", false
	}
	return exifvalue.Float(v)
}

var exposureTags = []struct {
	tag   string
	label string
}{
	{"ExposureMode", "Exposure Mode"},
	{"ExposureProgram", "Exposure Program"},
	{"ExposureBiasValue", "Exposure Bias"},
	{"MeteringMode", "Metering Mode"},
	{"LightSource", "Light Source"},
	{"Flash", "Flash"},
	{"WhiteBalance", "White Balance"},
	{"SceneCaptureType", "Scene Type"},
	{"GainControl", "Gain Control"},
	{"Contrast", "Contrast"},
	{"Saturation", "Saturation"},
	{"Sharpness", "Sharpness"},
}

func exposureFields(tags map[string]exifvalue.Value) []ExposureField {
	var out []ExposureField
	for _, et := range exposureTags {
		v, ok := tags[et.tag]
		if !ok {
			continue
		}
		field := ExposureField{
			Tag:     et.tag,
			Label:   et.label,
			Raw:     exifvalue.Describe(v),
			Decoded: exifvalue.Describe(v),
		}
		if f, _, ok := exifvalue.Float(v); ok {
			field.Numeric = &f
			switch et.tag {
			case "Flash":
				field.Decoded = exifvalue.DecodeFlash(int(f))
			case "MeteringMode":
				field.Decoded = exifvalue.DecodeMeteringMode(int(f))
			case "WhiteBalance":
				field.Decoded = exifvalue.DecodeWhiteBalance(int(f))
			}
		}
		out = append(out, field)
	}
	return out
}

var textTags = []struct {
	tag   string
	label string
}{
	{"Make", "Camera Make"},
	{"Model", "Camera Model"},
	{"LensModel", "Lens Model"},
	{"LensMake", "Lens Make"},
	{"Software", "Software"},
	{"DateTime", "Date/Time"},
	{"DateTimeOriginal", "Original Date/Time"},
	{"DateTimeDigitized", "Digitized Date/Time"},
	{"Artist", "Artist"},
	{"Copyright", "Copyright"},
	{"ImageDescription", "Description"},
}

func textFields(tags map[string]exifvalue.Value) []TextField {
	var out []TextField
	for _, tt := range textTags {
		v, ok := tags[tt.tag]
		if !ok {
			continue
		}
		field := TextField{Tag: tt.tag, Label: tt.label, Value: exifvalue.Describe(v)}
		if strings.HasPrefix(tt.tag, "DateTime") {
			field.Formatted = exifvalue.FormatDateTime(field.Value)
		}
		out = append(out, field)
	}
	return out
}

func gpsInfo(tags map[string]exifvalue.Value) *GPSInfo {
	gpsTags := make(map[string]exifvalue.Value)
	for name, v := range tags {
		if strings.HasPrefix(name, "GPS") {
			gpsTags[name] = v
		}
	}
	if len(gpsTags) == 0 {
		return nil
	}
	info := &GPSInfo{}
	for _, name := range sortedKeys(gpsTags) {
		info.Tags = append(info.Tags, TagLine{Name: name, Value: exifvalue.Describe(gpsTags[name])})
	}
	coords := gps.Convert(gpsTags)
	if coords.HasFix() {
		info.Coordinates = &coords
		info.MapLinks = gps.MapLinks(*coords.Latitude, *coords.Longitude)
	}
	return info
}

func tagLines(tags map[string]exifvalue.Value) []TagLine {
	var out []TagLine
	for _, name := range sortedKeys(tags) {
		if strings.HasPrefix(name, "GPS") {
			continue
		}
		out = append(out, TagLine{Name: name, Value: exifvalue.Describe(tags[name])})
	}
	return out
}

func sortedKeys(tags map[string]exifvalue.Value) []string {
	keys := make([]string, 0, len(tags))
	for name := range tags {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return keys
}

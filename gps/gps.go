// Package gps converts raw EXIF GPS tags into signed decimal coordinates.
package gps

import (
	"fmt"
	"strings"

	"github.com/marpio/photostat/exifvalue"
)

type Coordinates struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Altitude  *float64 `json:"altitude,omitempty"`
}

func (c Coordinates) HasFix() bool {
	return c.Latitude != nil && c.Longitude != nil
}

// Convert reads the positional tags out of a raw GPS tag map. Latitude and
// longitude are only reported as a pair: if either is missing or
// malformed, both come back unavailable. Altitude is independent. A bad
// subfield never produces an error, only an absent field.
func Convert(tags map[string]exifvalue.Value) Coordinates {
	var c Coordinates
	lat, latOK := coordinate(tags["GPSLatitude"])
	lon, lonOK := coordinate(tags["GPSLongitude"])
	if latOK && lonOK {
		if ref(tags["GPSLatitudeRef"]) == "S" {
			lat = -lat
		}
		if ref(tags["GPSLongitudeRef"]) == "W" {
			lon = -lon
		}
		c.Latitude = &lat
		c.Longitude = &lon
	}
	if alt, ok := coordinate(tags["GPSAltitude"]); ok {
		if belowSeaLevel(tags["GPSAltitudeRef"]) {
			alt = -alt
		}
		c.Altitude = &alt
	}
	return c
}

// coordinate converts a degree/minute/second tuple to decimal degrees.
// Values that are already a single number pass through.
func coordinate(v exifvalue.Value) (float64, bool) {
	if v == nil {
		return 0, false
	}
	if seq, ok := v.(exifvalue.Sequence); ok && len(seq) >= 3 {
		d, _, dOK := exifvalue.Float(seq[0])
		m, _, mOK := exifvalue.Float(seq[1])
		s, _, sOK := exifvalue.Float(seq[2])
		if !dOK || !mOK || !sOK {
			return 0, false
		}
		return d + m/60.0 + s/3600.0, true
	}
	f, _, ok := exifvalue.Float(v)
	return f, ok
}

func ref(v exifvalue.Value) string {
	switch t := v.(type) {
	case exifvalue.Text:
		return strings.TrimSpace(string(t))
	case exifvalue.Bytes:
		return strings.TrimRight(strings.TrimSpace(string(t)), "\x00")
	}
	return ""
}

// The altitude reference is a BYTE tag; readers surface it as a number, a
// single byte or a string depending on the decoder.
func belowSeaLevel(v exifvalue.Value) bool {
	switch t := v.(type) {
	case exifvalue.Numeric:
		return t == 1
	case exifvalue.Bytes:
		return len(t) > 0 && t[0] == 1
	case exifvalue.Text:
		return strings.TrimSpace(string(t)) == "1"
	}
	return false
}

// MapLinks builds lookup URLs for the usual map services.
func MapLinks(lat, lon float64) map[string]string {
	return map[string]string{
		"google":        fmt.Sprintf("https://www.google.com/maps/search/?api=1&query=%v,%v", lat, lon),
		"openstreetmap": fmt.Sprintf("https://www.openstreetmap.org/?mlat=%v&mlon=%v&zoom=15", lat, lon),
		"bing":          fmt.Sprintf("https://www.bing.com/maps?q=%v,%v", lat, lon),
		"apple":         fmt.Sprintf("https://maps.apple.com/?q=%v,%v", lat, lon),
	}
}

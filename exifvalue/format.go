package exifvalue

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	timeLayout         = "2006:01:02 15:04:05"
	fallbackTimeLayout = "2006-01-02 15:04:05"
	displayTimeLayout  = "2006-01-02 15:04:05"
)

// ApertureFromAPEX converts an APEX aperture value to an f-number:
// f = 2^(apex/2).
func ApertureFromAPEX(apex float64) float64 {
	return math.Pow(2, apex/2)
}

// ShutterFromAPEX converts an APEX shutter value to exposure time in
// seconds: t = 2^(-apex).
func ShutterFromAPEX(apex float64) float64 {
	return math.Pow(2, -apex)
}

// FormatShutter renders an exposure time the way photographers read it:
// "1/250" below one second, "2.0s" at or above.
func FormatShutter(seconds float64) string {
	if seconds > 0 && seconds < 1 {
		return fmt.Sprintf("1/%d", int(math.Round(1/seconds)))
	}
	if seconds >= 1 {
		s := strconv.FormatFloat(seconds, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s + "s"
	}
	return fmt.Sprintf("%.6fs", seconds)
}

func FormatAperture(fnumber float64) string {
	return fmt.Sprintf("f/%.1f", fnumber)
}

func FormatISO(iso float64) string {
	return fmt.Sprintf("ISO %d", int(iso))
}

func FormatFocalLength(mm float64) string {
	return fmt.Sprintf("%.0fmm", mm)
}

// ParseDateTime parses the EXIF "YYYY:MM:DD HH:MM:SS" timestamp format,
// falling back to the hyphen-separated variant some writers emit.
func ParseDateTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(strings.Trim(s, "\x00"))
	if t, err := time.Parse(timeLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(fallbackTimeLayout, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// FormatDateTime normalizes an EXIF timestamp string for display. The
// original string is preserved when it cannot be parsed.
func FormatDateTime(s string) string {
	if t, ok := ParseDateTime(s); ok {
		return t.Format(displayTimeLayout)
	}
	return "Invalid format: " + s
}

// FormatFileSize renders a byte count as B/KB/MB/GB with two decimals.
func FormatFileSize(size int64) string {
	if size <= 0 {
		return "0 B"
	}
	units := []string{"B", "KB", "MB", "GB"}
	i := int(math.Floor(math.Log(float64(size)) / math.Log(1024)))
	if i >= len(units) {
		i = len(units) - 1
	}
	scaled := float64(size) / math.Pow(1024, float64(i))
	return fmt.Sprintf("%v %s", math.Round(scaled*100)/100, units[i])
}

package gps

import (
	"strings"
	"testing"

	"github.com/marpio/photostat/exifvalue"
)

func dms(d, m, s int64) exifvalue.Sequence {
	return exifvalue.Sequence{
		exifvalue.Rational{Num: d, Den: 1},
		exifvalue.Rational{Num: m, Den: 1},
		exifvalue.Rational{Num: s, Den: 1},
	}
}

func TestConvert_decimal_degrees(t *testing.T) {
	c := Convert(map[string]exifvalue.Value{
		"GPSLatitude":     dms(37, 48, 0),
		"GPSLatitudeRef":  exifvalue.Text("N"),
		"GPSLongitude":    dms(122, 25, 0),
		"GPSLongitudeRef": exifvalue.Text("E"),
	})
	if !c.HasFix() {
		t.Fatal("Expected a coordinate pair.")
	}
	if *c.Latitude != 37.8 {
		t.Errorf("Expected latitude 37.8 exactly, got %v", *c.Latitude)
	}
	if *c.Longitude <= 122.41 || *c.Longitude >= 122.42 {
		t.Errorf("Unexpected longitude %v", *c.Longitude)
	}
}

func TestConvert_southern_and_western_hemispheres(t *testing.T) {
	c := Convert(map[string]exifvalue.Value{
		"GPSLatitude":     dms(37, 48, 0),
		"GPSLatitudeRef":  exifvalue.Text("S"),
		"GPSLongitude":    dms(122, 25, 0),
		"GPSLongitudeRef": exifvalue.Text("W"),
	})
	if !c.HasFix() {
		t.Fatal("Expected a coordinate pair.")
	}
	if *c.Latitude != -37.8 {
		t.Errorf("Southern latitudes must be negative, got %v", *c.Latitude)
	}
	if *c.Longitude >= 0 {
		t.Errorf("Western longitudes must be negative, got %v", *c.Longitude)
	}
}

func TestConvert_partial_pair_is_unavailable(t *testing.T) {
	c := Convert(map[string]exifvalue.Value{
		"GPSLatitude":    dms(37, 48, 0),
		"GPSLatitudeRef": exifvalue.Text("N"),
	})
	if c.Latitude != nil || c.Longitude != nil {
		t.Error("A latitude without a longitude must leave both unavailable.")
	}
}

func TestConvert_bad_subfield_degrades_that_field_only(t *testing.T) {
	c := Convert(map[string]exifvalue.Value{
		"GPSLatitude": exifvalue.Sequence{
			exifvalue.Rational{Num: 37, Den: 1},
			exifvalue.Rational{Num: 48, Den: 1},
			exifvalue.Rational{Num: 1, Den: 0},
		},
		"GPSLongitude": dms(122, 25, 0),
		"GPSAltitude":  exifvalue.Rational{Num: 1200, Den: 10},
	})
	if c.Latitude != nil || c.Longitude != nil {
		t.Error("A broken latitude invalidates the pair.")
	}
	if c.Altitude == nil || *c.Altitude != 120 {
		t.Error("Altitude is independent of the coordinate pair.")
	}
}

func TestConvert_altitude_reference(t *testing.T) {
	c := Convert(map[string]exifvalue.Value{
		"GPSAltitude":    exifvalue.Rational{Num: 30, Den: 1},
		"GPSAltitudeRef": exifvalue.Bytes{1},
	})
	if c.Altitude == nil || *c.Altitude != -30 {
		t.Error("The below-sea-level flag must negate the altitude.")
	}

	c = Convert(map[string]exifvalue.Value{
		"GPSAltitude":    exifvalue.Rational{Num: 30, Den: 1},
		"GPSAltitudeRef": exifvalue.Numeric(0),
	})
	if c.Altitude == nil || *c.Altitude != 30 {
		t.Error("Altitude above sea level must stay positive.")
	}
}

func TestConvert_plain_numeric_coordinate(t *testing.T) {
	c := Convert(map[string]exifvalue.Value{
		"GPSLatitude":  exifvalue.Numeric(37.8),
		"GPSLongitude": exifvalue.Numeric(-122.4),
	})
	if !c.HasFix() || *c.Latitude != 37.8 {
		t.Error("Pre-decoded decimal coordinates should pass through.")
	}
}

func TestMapLinks(t *testing.T) {
	links := MapLinks(37.8, -122.4)
	for _, svc := range []string{"google", "openstreetmap", "bing", "apple"} {
		if links[svc] == "" {
			t.Errorf("Missing %s link.", svc)
		}
	}
	if !strings.Contains(links["openstreetmap"], "mlat=37.8") {
		t.Errorf("Unexpected openstreetmap link %q", links["openstreetmap"])
	}
}

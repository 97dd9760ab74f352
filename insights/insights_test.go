package insights

import (
	"testing"
	"time"

	"github.com/marpio/photostat"
)

func fptr(v float64) *float64 { return &v }

func tptr(s string) *time.Time {
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func record(camera, lens string, iso *float64, taken *time.Time) photostat.Record {
	return photostat.Record{Camera: camera, Lens: lens, ISO: iso, TakenAt: taken}
}

func TestComputeEmptyCollection(t *testing.T) {
	s := Compute(nil)
	if s.TotalPhotos != 0 {
		t.Errorf("total %d", s.TotalPhotos)
	}
	if s.GPSPercentage != 0 {
		t.Error("GPS percentage of an empty collection must be zero, not NaN.")
	}
	if s.MostUsedCamera != "N/A" || s.MostUsedLens != "N/A" {
		t.Errorf("most used camera %q lens %q", s.MostUsedCamera, s.MostUsedLens)
	}
	if s.AvgISO != nil || s.PeakHour != nil {
		t.Error("numeric stats must stay unset without data")
	}
}

func TestCameraUsageOrdering(t *testing.T) {
	recs := photostat.Collection{
		record("A7", "FE 35mm", nil, nil),
		record("X100V", "fixed", nil, nil),
		record("X100V", "fixed", nil, nil),
		record("A7", "FE 35mm", nil, nil),
		record("K-3", "DA 21mm", nil, nil),
	}
	s := Compute(recs)
	if s.UniqueCameras != 3 {
		t.Errorf("unique cameras %d", s.UniqueCameras)
	}
	if s.CameraUsage[0].Value != "A7" || s.CameraUsage[0].Count != 2 {
		t.Errorf("first ranked %+v", s.CameraUsage[0])
	}
	if s.CameraUsage[1].Value != "X100V" {
		t.Errorf("equal counts must keep first-seen order, got %q first", s.CameraUsage[1].Value)
	}
	if s.CameraUsage[2].Value != "K-3" || s.CameraUsage[2].Count != 1 {
		t.Errorf("last ranked %+v", s.CameraUsage[2])
	}
	if s.MostUsedCamera != "A7" {
		t.Errorf("most used camera %q", s.MostUsedCamera)
	}
}

func TestISOStats(t *testing.T) {
	recs := photostat.Collection{
		record("A7", "L", fptr(100), nil),
		record("A7", "L", fptr(400), nil),
		record("A7", "L", fptr(100), nil),
		record("A7", "L", fptr(3200), nil),
	}
	s := Compute(recs)
	if s.AvgISO == nil || *s.AvgISO != 950 {
		t.Errorf("avg ISO %v", s.AvgISO)
	}
	if s.MinISO != 100 || s.MaxISO != 3200 {
		t.Errorf("ISO range %d - %d", s.MinISO, s.MaxISO)
	}
	if s.MostCommonISO != 100 {
		t.Errorf("most common ISO %d", s.MostCommonISO)
	}
	want := []ISOCount{{100, 2}, {400, 1}, {3200, 1}}
	if len(s.ISODistribution) != len(want) {
		t.Fatalf("distribution %+v", s.ISODistribution)
	}
	for i, w := range want {
		if s.ISODistribution[i] != w {
			t.Errorf("distribution[%d] = %+v, want %+v", i, s.ISODistribution[i], w)
		}
	}
}

func TestISOModeTieTakesLowest(t *testing.T) {
	recs := photostat.Collection{
		record("A7", "L", fptr(800), nil),
		record("A7", "L", fptr(200), nil),
		record("A7", "L", fptr(800), nil),
		record("A7", "L", fptr(200), nil),
	}
	s := Compute(recs)
	if s.MostCommonISO != 200 {
		t.Errorf("tied ISO mode must resolve to the lowest value, got %d", s.MostCommonISO)
	}
}

func TestCalendarBuckets(t *testing.T) {
	recs := photostat.Collection{
		record("A7", "L", nil, tptr("2022-06-10 08:15:00")),
		record("A7", "L", nil, tptr("2022-06-11 17:40:00")),
		record("A7", "L", nil, tptr("2023-01-05 17:02:10")),
		record("A7", "L", nil, nil),
	}
	s := Compute(recs)
	if s.PeakHour == nil || *s.PeakHour != 17 {
		t.Errorf("peak hour %v", s.PeakHour)
	}
	if s.MostActiveMonth != "June" {
		t.Errorf("most active month %q", s.MostActiveMonth)
	}
	if len(s.PhotosPerYear) != 2 || s.PhotosPerYear[0].Year != 2022 || s.PhotosPerYear[0].Count != 2 {
		t.Errorf("photos per year %+v", s.PhotosPerYear)
	}
	if len(s.ShootingHours) != 2 || s.ShootingHours[0].Hour != 8 {
		t.Errorf("shooting hours must be ascending, got %+v", s.ShootingHours)
	}
	if s.EarliestPhoto == nil || s.EarliestPhoto.Year() != 2022 || s.EarliestPhoto.Month() != 6 {
		t.Errorf("earliest %v", s.EarliestPhoto)
	}
	if s.LatestPhoto == nil || s.LatestPhoto.Year() != 2023 {
		t.Errorf("latest %v", s.LatestPhoto)
	}
}

func TestPeakHourTieTakesEarliest(t *testing.T) {
	recs := photostat.Collection{
		record("A7", "L", nil, tptr("2022-06-10 21:00:00")),
		record("A7", "L", nil, tptr("2022-07-01 09:30:00")),
	}
	s := Compute(recs)
	if s.PeakHour == nil || *s.PeakHour != 9 {
		t.Errorf("tied hours must resolve to the earliest, got %v", s.PeakHour)
	}
	if s.MostActiveMonth != "June" {
		t.Errorf("tied months must resolve to the earliest, got %q", s.MostActiveMonth)
	}
}

func TestGPSShare(t *testing.T) {
	lat, lon := 52.5, 13.4
	withFix := photostat.Record{Camera: "A7", Lens: "L", Latitude: &lat, Longitude: &lon}
	recs := photostat.Collection{
		withFix,
		record("A7", "L", nil, nil),
		record("A7", "L", nil, nil),
		record("A7", "L", nil, nil),
	}
	s := Compute(recs)
	if s.GPSEnabledPhotos != 1 {
		t.Errorf("gps photos %d", s.GPSEnabledPhotos)
	}
	if s.GPSPercentage != 25 {
		t.Errorf("gps percentage %v", s.GPSPercentage)
	}
}

func TestApertureUsage(t *testing.T) {
	recs := photostat.Collection{
		record("A7", "L", nil, nil),
		{Camera: "A7", Lens: "L", Aperture: fptr(1.8)},
		{Camera: "A7", Lens: "L", Aperture: fptr(1.8)},
		{Camera: "A7", Lens: "L", Aperture: fptr(8)},
	}
	s := Compute(recs)
	if len(s.ApertureUsage) != 2 {
		t.Fatalf("aperture usage %+v", s.ApertureUsage)
	}
	if s.ApertureUsage[0].Value != "f/1.8" || s.ApertureUsage[0].Count != 2 {
		t.Errorf("top aperture %+v", s.ApertureUsage[0])
	}
}

// Package insights folds extracted photo records into the descriptive
// statistics the reports are built from.
package insights

import (
	"sort"
	"time"

	"github.com/marpio/photostat"
	"github.com/marpio/photostat/exifvalue"
)

type FieldCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

type ISOCount struct {
	ISO   int `json:"iso"`
	Count int `json:"count"`
}

type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

type MonthCount struct {
	Month int `json:"month"`
	Count int `json:"count"`
}

type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// Summary carries every statistic the console, JSON and HTML reports
// show. Usage lists are ordered by descending count; equally frequent
// values keep the order they were first seen in, so a rerun over the
// same collection always ranks the same way.
type Summary struct {
	TotalPhotos    int          `json:"total_photos"`
	CameraUsage    []FieldCount `json:"camera_usage"`
	LensUsage      []FieldCount `json:"lens_usage"`
	ApertureUsage  []FieldCount `json:"aperture_usage,omitempty"`
	UniqueCameras  int          `json:"unique_cameras"`
	UniqueLenses   int          `json:"unique_lenses"`
	MostUsedCamera string       `json:"most_used_camera"`
	MostUsedLens   string       `json:"most_used_lens"`

	AvgISO          *float64   `json:"avg_iso,omitempty"`
	MinISO          int        `json:"min_iso,omitempty"`
	MaxISO          int        `json:"max_iso,omitempty"`
	MostCommonISO   int        `json:"most_common_iso,omitempty"`
	ISODistribution []ISOCount `json:"iso_distribution,omitempty"`

	ShootingHours   []HourCount  `json:"shooting_hours,omitempty"`
	ShootingMonths  []MonthCount `json:"shooting_months,omitempty"`
	PhotosPerYear   []YearCount  `json:"photos_per_year,omitempty"`
	PeakHour        *int         `json:"peak_hour,omitempty"`
	MostActiveMonth string       `json:"most_active_month,omitempty"`

	GPSEnabledPhotos int     `json:"gps_enabled_photos"`
	GPSPercentage    float64 `json:"gps_percentage"`

	EarliestPhoto *time.Time `json:"earliest_photo,omitempty"`
	LatestPhoto   *time.Time `json:"latest_photo,omitempty"`
}

// Compute aggregates a collection. An empty collection yields a summary
// of zeroes, not an error.
func Compute(records photostat.Collection) *Summary {
	s := &Summary{
		TotalPhotos:    len(records),
		MostUsedCamera: "N/A",
		MostUsedLens:   "N/A",
	}

	cameras := newCounter()
	lenses := newCounter()
	apertures := newCounter()
	isoCounts := map[int]int{}
	var isoSum float64
	var isoN int
	hours := map[int]int{}
	months := map[int]int{}
	years := map[int]int{}

	for _, r := range records {
		cameras.add(r.Camera)
		lenses.add(r.Lens)
		if r.Aperture != nil {
			apertures.add(exifvalue.FormatAperture(*r.Aperture))
		}
		if r.ISO != nil {
			iso := int(*r.ISO)
			isoCounts[iso]++
			isoSum += *r.ISO
			isoN++
		}
		if r.TakenAt != nil {
			t := *r.TakenAt
			hours[t.Hour()]++
			months[int(t.Month())]++
			years[t.Year()]++
			if s.EarliestPhoto == nil || t.Before(*s.EarliestPhoto) {
				s.EarliestPhoto = r.TakenAt
			}
			if s.LatestPhoto == nil || t.After(*s.LatestPhoto) {
				s.LatestPhoto = r.TakenAt
			}
		}
		if r.HasLocation() {
			s.GPSEnabledPhotos++
		}
	}

	s.CameraUsage = cameras.ranked()
	s.LensUsage = lenses.ranked()
	s.ApertureUsage = apertures.ranked()
	s.UniqueCameras = len(s.CameraUsage)
	s.UniqueLenses = len(s.LensUsage)
	if len(s.CameraUsage) > 0 {
		s.MostUsedCamera = s.CameraUsage[0].Value
	}
	if len(s.LensUsage) > 0 {
		s.MostUsedLens = s.LensUsage[0].Value
	}

	if isoN > 0 {
		avg := isoSum / float64(isoN)
		s.AvgISO = &avg
		s.ISODistribution = isoDistribution(isoCounts)
		s.MinISO = s.ISODistribution[0].ISO
		s.MaxISO = s.ISODistribution[len(s.ISODistribution)-1].ISO
		s.MostCommonISO = mostCommonISO(s.ISODistribution)
	}

	if len(hours) > 0 {
		s.ShootingHours = hourDistribution(hours)
		peak := peakBucket(hours)
		s.PeakHour = &peak
	}
	if len(months) > 0 {
		s.ShootingMonths = monthDistribution(months)
		s.MostActiveMonth = time.Month(peakBucket(months)).String()
	}
	if len(years) > 0 {
		s.PhotosPerYear = yearDistribution(years)
	}

	if s.TotalPhotos > 0 {
		s.GPSPercentage = float64(s.GPSEnabledPhotos) / float64(s.TotalPhotos) * 100
	}
	return s
}

type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: map[string]int{}}
}

func (c *counter) add(v string) {
	if _, ok := c.counts[v]; !ok {
		c.order = append(c.order, v)
	}
	c.counts[v]++
}

// ranked sorts by descending count. The stable sort keeps first-seen
// order between equal counts.
func (c *counter) ranked() []FieldCount {
	out := make([]FieldCount, 0, len(c.order))
	for _, v := range c.order {
		out = append(out, FieldCount{Value: v, Count: c.counts[v]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

func isoDistribution(counts map[int]int) []ISOCount {
	out := make([]ISOCount, 0, len(counts))
	for iso, n := range counts {
		out = append(out, ISOCount{ISO: iso, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ISO < out[j].ISO })
	return out
}

// mostCommonISO picks the lowest ISO among equally frequent ones.
func mostCommonISO(dist []ISOCount) int {
	best := dist[0]
	for _, c := range dist[1:] {
		if c.Count > best.Count {
			best = c
		}
	}
	return best.ISO
}

func hourDistribution(counts map[int]int) []HourCount {
	out := make([]HourCount, 0, len(counts))
	for h, n := range counts {
		out = append(out, HourCount{Hour: h, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hour < out[j].Hour })
	return out
}

func monthDistribution(counts map[int]int) []MonthCount {
	out := make([]MonthCount, 0, len(counts))
	for m, n := range counts {
		out = append(out, MonthCount{Month: m, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

func yearDistribution(counts map[int]int) []YearCount {
	out := make([]YearCount, 0, len(counts))
	for y, n := range counts {
		out = append(out, YearCount{Year: y, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// peakBucket picks the smallest bucket among equally busy ones.
func peakBucket(counts map[int]int) int {
	keys := make([]int, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	best := keys[0]
	for _, k := range keys[1:] {
		if counts[k] > counts[best] {
			best = k
		}
	}
	return best
}

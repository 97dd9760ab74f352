// Package report renders an analyzed photo collection as a console
// summary, CSV, JSON or a standalone HTML page, and stages the file
// exports so a half-written report never lands at the destination.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/marpio/photostat"
	"github.com/marpio/photostat/insights"
)

const rule = "============================================================"

// WriteSummary prints the text report.
func WriteSummary(w io.Writer, s *insights.Summary) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "PHOTOGRAPHY PORTFOLIO ANALYSIS SUMMARY")
	fmt.Fprintln(w, rule)

	fmt.Fprintln(w, "\nOVERVIEW:")
	fmt.Fprintf(w, "   Total Photos: %d\n", s.TotalPhotos)
	fmt.Fprintf(w, "   Date Range: %s\n", dateRange(s))
	fmt.Fprintf(w, "   GPS Tagged: %d (%.1f%%)\n", s.GPSEnabledPhotos, s.GPSPercentage)

	fmt.Fprintln(w, "\nEQUIPMENT:")
	fmt.Fprintf(w, "   Cameras Used: %d\n", s.UniqueCameras)
	writeUsage(w, s.CameraUsage, s.TotalPhotos)
	fmt.Fprintf(w, "   Lenses Used: %d\n", s.UniqueLenses)
	writeUsage(w, s.LensUsage, s.TotalPhotos)

	fmt.Fprintln(w, "\nCAMERA SETTINGS:")
	if s.AvgISO != nil {
		fmt.Fprintf(w, "   ISO Range: %d - %d\n", s.MinISO, s.MaxISO)
		fmt.Fprintf(w, "   Average ISO: %.0f\n", *s.AvgISO)
		fmt.Fprintf(w, "   Most Common ISO: %d\n", s.MostCommonISO)
	}
	if len(s.ApertureUsage) > 0 {
		fmt.Fprintf(w, "   Top Apertures: %s\n", topApertures(s.ApertureUsage))
	}

	if s.PeakHour != nil {
		fmt.Fprintln(w, "\nSHOOTING PATTERNS:")
		fmt.Fprintf(w, "   Peak Hour: %d:00\n", *s.PeakHour)
		fmt.Fprintf(w, "   Most Active Month: %s\n", s.MostActiveMonth)
		fmt.Fprintln(w, "   Photos by Year:")
		for _, y := range s.PhotosPerYear {
			fmt.Fprintf(w, "     - %d: %d photos\n", y.Year, y.Count)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
}

func dateRange(s *insights.Summary) string {
	if s.EarliestPhoto == nil || s.LatestPhoto == nil {
		return "N/A"
	}
	return s.EarliestPhoto.Format("2006-01-02") + " to " + s.LatestPhoto.Format("2006-01-02")
}

func writeUsage(w io.Writer, usage []insights.FieldCount, total int) {
	for i, u := range usage {
		if i == 3 {
			break
		}
		fmt.Fprintf(w, "     - %s: %d photos (%.1f%%)\n", u.Value, u.Count, percentage(u.Count, total))
	}
}

func topApertures(usage []insights.FieldCount) string {
	parts := make([]string, 0, 3)
	for i, u := range usage {
		if i == 3 {
			break
		}
		parts = append(parts, fmt.Sprintf("%s (%d)", u.Value, u.Count))
	}
	return strings.Join(parts, ", ")
}

func percentage(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

// sample returns the first n records, the way every report format previews
// the collection.
func sample(recs photostat.Collection, n int) photostat.Collection {
	if len(recs) < n {
		return recs
	}
	return recs[:n]
}

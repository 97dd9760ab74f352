package report

import (
	"fmt"
	"io"

	"github.com/marpio/photostat/exifvalue"
	"github.com/marpio/photostat/metadata"
)

// InspectOptions trims the single photo readout.
type InspectOptions struct {
	SummaryOnly bool
}

const sectionRule = "----------------------------------------"

// WriteInspect prints the full readout of one photo, section by section.
func WriteInspect(w io.Writer, a *metadata.Analysis, opts InspectOptions) {
	if opts.SummaryOnly {
		fmt.Fprintln(w, a.Summary())
		return
	}

	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "ANALYZING: %s\n", a.Filename)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Path: %s\n", a.Path)
	fmt.Fprintf(w, "Size: %s\n", exifvalue.FormatFileSize(a.SizeBytes))
	if a.Format != "" && a.Width > 0 {
		fmt.Fprintf(w, "Type: %s, %dx%d\n", a.Format, a.Width, a.Height)
	}

	if !a.HasExif {
		fmt.Fprintln(w, "\nNo EXIF data found in this file.")
		return
	}

	fmt.Fprintln(w, "\nCAMERA SETTINGS")
	fmt.Fprintln(w, sectionRule)
	writeCandidates(w, "Aperture", a.Aperture)
	writeCandidates(w, "Shutter Speed", a.ShutterSpeed)
	writeCandidates(w, "ISO", a.ISO)
	writeCandidates(w, "Focal Length", a.FocalLength)

	if len(a.Exposure) > 0 {
		fmt.Fprintln(w, "\nEXPOSURE INFORMATION")
		fmt.Fprintln(w, sectionRule)
		for _, f := range a.Exposure {
			if f.Decoded != f.Raw {
				fmt.Fprintf(w, "%s: %s (raw %s)\n", f.Label, f.Decoded, f.Raw)
			} else {
				fmt.Fprintf(w, "%s: %s\n", f.Label, f.Raw)
			}
		}
	}

	if len(a.Info) > 0 {
		fmt.Fprintln(w, "\nCAMERA AND IMAGE INFORMATION")
		fmt.Fprintln(w, sectionRule)
		for _, f := range a.Info {
			if f.Formatted != "" && f.Formatted != f.Value {
				fmt.Fprintf(w, "%s: %s (%s)\n", f.Label, f.Value, f.Formatted)
			} else {
				fmt.Fprintf(w, "%s: %s\n", f.Label, f.Value)
			}
		}
	}

	if a.GPS != nil {
		fmt.Fprintln(w, "\nGPS INFORMATION")
		fmt.Fprintln(w, sectionRule)
		for _, tl := range a.GPS.Tags {
			fmt.Fprintf(w, "%s: %s\n", tl.Name, tl.Value)
		}
		if c := a.GPS.Coordinates; c != nil {
			fmt.Fprintf(w, "Decimal Coordinates: %.6f, %.6f\n", *c.Latitude, *c.Longitude)
			if c.Altitude != nil {
				fmt.Fprintf(w, "Altitude: %.1fm\n", *c.Altitude)
			}
			fmt.Fprintln(w, "Map Links:")
			for _, name := range []string{"google", "openstreetmap", "bing", "apple"} {
				if link, ok := a.GPS.MapLinks[name]; ok {
					fmt.Fprintf(w, "    %s: %s\n", name, link)
				}
			}
		}
	}

	fmt.Fprintf(w, "\nALL EXIF TAGS (%d)\n", len(a.Tags))
	fmt.Fprintln(w, sectionRule)
	for _, tl := range a.Tags {
		fmt.Fprintf(w, "%s: %s\n", tl.Name, tl.Value)
	}

	fmt.Fprintln(w, "\nSUMMARY")
	fmt.Fprintln(w, sectionRule)
	fmt.Fprintln(w, a.Summary())
}

func writeCandidates(w io.Writer, label string, cs []metadata.Candidate) {
	if len(cs) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", label)
	for _, c := range cs {
		fmt.Fprintf(w, "    %s = %s (%s)\n", c.Source, c.Display, c.Diag)
	}
}

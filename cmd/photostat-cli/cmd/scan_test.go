package cmd

import (
	"os"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/marpio/photostat"
	"github.com/marpio/photostat/insights"
	"github.com/marpio/photostat/report"
)

func testExport() (*report.Export, photostat.Collection) {
	recs := photostat.Collection{
		{Filename: "a.jpg", Path: "photos/a.jpg", Camera: "ILCE-7M3", Make: "Sony", Lens: "FE 35mm F1.8"},
	}
	return report.NewExport("photos", recs, insights.Compute(recs)), recs
}

// stagingLeftovers counts staging directories still sitting in the temp
// directory after a report run.
func stagingLeftovers(fs afero.Fs) int {
	n := 0
	if entries, err := afero.ReadDir(fs, os.TempDir()); err == nil {
		for _, e := range entries {
			if e.IsDir() && strings.HasPrefix(e.Name(), "photostat") {
				n++
			}
		}
	}
	return n
}

func TestWriteReportCommitsAndCleansUp(t *testing.T) {
	appFs := afero.NewMemMapFs()
	e, recs := testExport()
	scanFormat = "json"
	scanOutput = "/report.json"

	dest, err := writeReport(appFs, e, recs)
	if err != nil {
		t.Fatal(err)
	}
	if dest != "/report.json" {
		t.Errorf("Expected /report.json destination, got: %v", dest)
	}
	if exists, _ := afero.Exists(appFs, dest); !exists {
		t.Errorf("Expected committed report at %v", dest)
	}
	if n := stagingLeftovers(appFs); n != 0 {
		t.Errorf("Expected no staging dirs left behind, got: %v", n)
	}
}

func TestWriteReportUnknownFormat(t *testing.T) {
	appFs := afero.NewMemMapFs()
	e, recs := testExport()
	scanFormat = "pdf"
	scanOutput = ""

	if _, err := writeReport(appFs, e, recs); err == nil {
		t.Error("An unknown format must fail the report.")
	}
	if n := stagingLeftovers(appFs); n != 0 {
		t.Errorf("A failed report must tear its staging dir down, got: %v left", n)
	}
}

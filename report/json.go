package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/marpio/photostat"
	"github.com/marpio/photostat/insights"
)

// Meta describes the analysis run itself.
type Meta struct {
	TotalPhotos  int       `json:"total_photos"`
	AnalysisDate time.Time `json:"analysis_date"`
	Directory    string    `json:"directory"`
}

// Export is the JSON report envelope.
type Export struct {
	Summary  Meta                 `json:"summary"`
	Insights *insights.Summary    `json:"insights"`
	Sample   photostat.Collection `json:"sample_data"`
}

// NewExport bundles the collection insights with the first ten records.
func NewExport(directory string, recs photostat.Collection, ins *insights.Summary) *Export {
	return &Export{
		Summary: Meta{
			TotalPhotos:  len(recs),
			AnalysisDate: time.Now(),
			Directory:    directory,
		},
		Insights: ins,
		Sample:   sample(recs, 10),
	}
}

// WriteJSON writes the export indented, so the file is diffable between runs.
func WriteJSON(w io.Writer, e *Export) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

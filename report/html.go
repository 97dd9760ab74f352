package report

import (
	"fmt"
	"io"

	"github.com/aymerick/raymond"
	"github.com/marpio/photostat"
	"github.com/marpio/photostat/exifvalue"
	"github.com/marpio/photostat/insights"
)

const reportPage = `<!DOCTYPE html>
<html>
<head>
    <title>Photography Portfolio Analysis</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; background-color: #f5f5f5; }
        .container { max-width: 1200px; margin: 0 auto; background: white; padding: 30px; border-radius: 10px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); }
        h1 { color: #2c3e50; text-align: center; margin-bottom: 30px; }
        h2 { color: #34495e; border-bottom: 2px solid #3498db; padding-bottom: 10px; }
        .metric-grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(200px, 1fr)); gap: 20px; margin: 20px 0; }
        .metric-card { background: #ecf0f1; padding: 20px; border-radius: 8px; text-align: center; }
        .metric-value { font-size: 2em; font-weight: bold; color: #3498db; }
        .metric-label { color: #7f8c8d; margin-top: 5px; }
        .insight-box { background: #e8f6f3; padding: 15px; border-left: 4px solid #1abc9c; margin: 15px 0; }
        table { width: 100%; border-collapse: collapse; margin: 20px 0; }
        th, td { padding: 12px; text-align: left; border-bottom: 1px solid #ddd; }
        th { background-color: #3498db; color: white; }
        tr:nth-child(even) { background-color: #f2f2f2; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Photography Portfolio Analysis</h1>
        <p style="text-align: center; color: #7f8c8d;">Generated on {{timestamp}}</p>

        <div class="metric-grid">
            <div class="metric-card">
                <div class="metric-value">{{total_photos}}</div>
                <div class="metric-label">Total Photos</div>
            </div>
            <div class="metric-card">
                <div class="metric-value">{{unique_cameras}}</div>
                <div class="metric-label">Cameras Used</div>
            </div>
            <div class="metric-card">
                <div class="metric-value">{{unique_lenses}}</div>
                <div class="metric-label">Lenses Used</div>
            </div>
            <div class="metric-card">
                <div class="metric-value">{{gps_photos}}</div>
                <div class="metric-label">GPS Tagged</div>
            </div>
        </div>

        <h2>Equipment Usage</h2>
        <div class="insight-box">
            <strong>Most Used Camera:</strong> {{most_used_camera}}<br>
            <strong>Most Used Lens:</strong> {{most_used_lens}}<br>
            <strong>Average ISO:</strong> {{avg_iso}}
        </div>

        <h3>Camera Distribution</h3>
        <table>
            <tr><th>Camera</th><th>Photos</th><th>Percentage</th></tr>
            {{#each camera_rows}}
            <tr><td>{{name}}</td><td>{{count}}</td><td>{{pct}}</td></tr>
            {{else}}
            <tr><td colspan="3">No camera data</td></tr>
            {{/each}}
        </table>

        <h3>Lens Distribution</h3>
        <table>
            <tr><th>Lens</th><th>Photos</th><th>Percentage</th></tr>
            {{#each lens_rows}}
            <tr><td>{{name}}</td><td>{{count}}</td><td>{{pct}}</td></tr>
            {{else}}
            <tr><td colspan="3">No lens data</td></tr>
            {{/each}}
        </table>

        <h2>Technical Settings</h2>
        <div class="insight-box">
            <strong>ISO Range:</strong> {{iso_range}}<br>
            <strong>Most Common ISO:</strong> {{common_iso}}<br>
            <strong>Date Range:</strong> {{date_range}}
        </div>

        <h2>Shooting Patterns</h2>
        {{#if patterns}}
        <div class="insight-box">
            <strong>Peak Shooting Hour:</strong> {{patterns.peak_hour}}:00<br>
            <strong>Most Active Month:</strong> {{patterns.month}}
        </div>
        {{else}}
        <div class="insight-box">No datetime data available for pattern analysis</div>
        {{/if}}

        <h2>Raw Data Summary</h2>
        <p>First 10 photos from your collection:</p>
        <table>
            <tr>
                <th>Filename</th><th>Camera</th><th>Lens</th><th>ISO</th><th>Aperture</th><th>Date</th>
            </tr>
            {{#each sample_rows}}
            <tr>
                <td>{{filename}}</td>
                <td>{{camera}}</td>
                <td>{{lens}}</td>
                <td>{{iso}}</td>
                <td>{{aperture}}</td>
                <td>{{date}}</td>
            </tr>
            {{/each}}
        </table>

        <footer style="margin-top: 40px; text-align: center; color: #7f8c8d; border-top: 1px solid #ecf0f1; padding-top: 20px;">
            <p>Generated by photostat</p>
        </footer>
    </div>
</body>
</html>
`

var reportTemplate = raymond.MustParse(reportPage)

// WriteHTML renders the standalone report page. The template is compiled
// in so the binary works without a templates directory next to it.
func WriteHTML(w io.Writer, e *Export) error {
	out, err := reportTemplate.Exec(htmlContext(e))
	if err != nil {
		return fmt.Errorf("error rendering html report: %v", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

func htmlContext(e *Export) map[string]interface{} {
	s := e.Insights
	return map[string]interface{}{
		"timestamp":        e.Summary.AnalysisDate.Format("2006-01-02 15:04:05"),
		"total_photos":     s.TotalPhotos,
		"unique_cameras":   s.UniqueCameras,
		"unique_lenses":    s.UniqueLenses,
		"gps_photos":       s.GPSEnabledPhotos,
		"most_used_camera": s.MostUsedCamera,
		"most_used_lens":   s.MostUsedLens,
		"avg_iso":          avgISO(s),
		"iso_range":        isoRange(s),
		"common_iso":       commonISO(s),
		"date_range":       dateRange(s),
		"camera_rows":      usageRows(s.CameraUsage, s.TotalPhotos),
		"lens_rows":        usageRows(s.LensUsage, s.TotalPhotos),
		"patterns":         shootingPatterns(s),
		"sample_rows":      sampleRows(e.Sample),
	}
}

func avgISO(s *insights.Summary) string {
	if s.AvgISO == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.0f", *s.AvgISO)
}

func isoRange(s *insights.Summary) string {
	if s.AvgISO == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d - %d", s.MinISO, s.MaxISO)
}

func commonISO(s *insights.Summary) string {
	if s.AvgISO == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d", s.MostCommonISO)
}

func usageRows(usage []insights.FieldCount, total int) []map[string]interface{} {
	rows := make([]map[string]interface{}, 0, 10)
	for i, u := range usage {
		if i == 10 {
			break
		}
		rows = append(rows, map[string]interface{}{
			"name":  u.Value,
			"count": u.Count,
			"pct":   fmt.Sprintf("%.1f%%", percentage(u.Count, total)),
		})
	}
	return rows
}

func shootingPatterns(s *insights.Summary) map[string]interface{} {
	if s.PeakHour == nil {
		return nil
	}
	return map[string]interface{}{
		"peak_hour": *s.PeakHour,
		"month":     s.MostActiveMonth,
	}
}

func sampleRows(recs photostat.Collection) []map[string]string {
	rows := make([]map[string]string, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, map[string]string{
			"filename": r.Filename,
			"camera":   r.Camera,
			"lens":     r.Lens,
			"iso":      orNA(isoCell(r.ISO)),
			"aperture": orNA(displayCell(r.Aperture, exifvalue.FormatAperture)),
			"date":     orNA(sampleDate(r)),
		})
	}
	return rows
}

func sampleDate(r photostat.Record) string {
	if r.TakenAt == nil {
		return ""
	}
	return r.TakenAt.Format("2006-01-02")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

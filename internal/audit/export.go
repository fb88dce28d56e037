package audit

import (
	"time"

	"github.com/meridian-invest/meridian/internal/shared"
)

var exportHeader = []string{"created_at", "title", "actor", "activity_type", "activity_status", "source_ip", "path"}

// ExportCSV projects records onto the flat CSV export format.
func ExportCSV(records []Record) ([]byte, error) {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			rec.CreatedAt.Format(time.RFC3339),
			rec.Title,
			rec.ActorName,
			string(rec.Type),
			string(rec.Status),
			rec.SourceIP,
			rec.Path,
		})
	}
	return shared.WriteCSV(exportHeader, rows)
}

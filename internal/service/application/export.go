package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/scholarship-backend/internal/domain"
	"github.com/heartmarshall/scholarship-backend/internal/export"
)

// ExportResult is a rendered export ready to be served as a download.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
	Count       int
}

// Export renders all applications in format. An empty format means CSV.
// With no applications stored it returns domain.ErrNothingToExport.
func (s *Service) Export(ctx context.Context, format domain.ExportFormat) (ExportResult, error) {
	if format == "" {
		format = domain.ExportFormatCSV
	}
	if !format.IsValid() {
		return ExportResult{}, domain.NewValidationError("format", "must be csv or xlsx")
	}

	apps, err := s.store.Load(ctx)
	if err != nil {
		return ExportResult{}, fmt.Errorf("load applications: %w", err)
	}
	if len(apps) == 0 {
		return ExportResult{}, domain.ErrNothingToExport
	}

	res := ExportResult{Count: len(apps)}
	switch format {
	case domain.ExportFormatXLSX:
		data, err := export.XLSX(apps)
		if err != nil {
			return ExportResult{}, fmt.Errorf("render xlsx: %w", err)
		}
		res.Data = data
		res.Filename = export.XLSXFilename
		res.ContentType = export.XLSXContentType
	default:
		res.Data = export.CSV(apps)
		res.Filename = export.CSVFilename
		res.ContentType = export.CSVContentType
	}

	if s.metrics != nil {
		s.metrics.Exports.WithLabelValues(format.String()).Inc()
	}

	s.log.InfoContext(ctx, "applications exported",
		slog.String("format", format.String()),
		slog.Int("count", res.Count),
	)

	return res, nil
}

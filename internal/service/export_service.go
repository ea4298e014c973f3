package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/adilevy/guide-roster-api/internal/dto"
	"github.com/adilevy/guide-roster-api/internal/models"
	appErrors "github.com/adilevy/guide-roster-api/pkg/errors"
	"github.com/adilevy/guide-roster-api/pkg/export"
)

type monthProvider interface {
	Month(ctx context.Context, year, month int) (*dto.MonthResponse, error)
}

type guideNameRepository interface {
	ListActive(ctx context.Context) ([]models.Guide, error)
}

// ExportService renders stored months as CSV and PDF duty boards.
type ExportService struct {
	months       monthProvider
	guides       guideNameRepository
	csv          *export.CSVExporter
	pdf          *export.PDFExporter
	facilityName string
	logger       *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(months monthProvider, guides guideNameRepository, facilityName string, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		months:       months,
		guides:       guides,
		csv:          export.NewCSVExporter(),
		pdf:          export.NewPDFExporter(),
		facilityName: facilityName,
		logger:       logger,
	}
}

// ExportResult carries rendered bytes plus transport metadata.
type ExportResult struct {
	FileName    string
	ContentType string
	Data        []byte
}

// MonthCSV renders one stored month as CSV.
func (s *ExportService) MonthCSV(ctx context.Context, year, month int) (*ExportResult, error) {
	dataset, _, err := s.monthDataset(ctx, year, month)
	if err != nil {
		return nil, err
	}
	data, err := s.csv.Render(*dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render csv")
	}
	return &ExportResult{
		FileName:    fmt.Sprintf("roster-%04d-%02d.csv", year, month),
		ContentType: "text/csv",
		Data:        data,
	}, nil
}

// MonthPDF renders one stored month as a printable duty board.
func (s *ExportService) MonthPDF(ctx context.Context, year, month int) (*ExportResult, error) {
	dataset, title, err := s.monthDataset(ctx, year, month)
	if err != nil {
		return nil, err
	}
	subtitle := fmt.Sprintf("Generated %s", time.Now().UTC().Format("2006-01-02 15:04 UTC"))
	data, err := s.pdf.Render(*dataset, title, subtitle)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render pdf")
	}
	return &ExportResult{
		FileName:    fmt.Sprintf("roster-%04d-%02d.pdf", year, month),
		ContentType: "application/pdf",
		Data:        data,
	}, nil
}

func (s *ExportService) monthDataset(ctx context.Context, year, month int) (*export.Dataset, string, error) {
	monthResp, err := s.months.Month(ctx, year, month)
	if err != nil {
		return nil, "", err
	}

	names := map[int64]string{}
	if guides, err := s.guides.ListActive(ctx); err == nil {
		for _, g := range guides {
			names[g.ID] = g.Name
		}
	} else {
		s.logger.Warn("falling back to guide ids in export", zap.Error(err))
	}

	dataset := &export.Dataset{
		Headers: []string{"Date", "Weekday", "Day Type", "Guide 1", "Role 1", "Guide 2", "Role 2", "Manual"},
	}
	for _, day := range monthResp.Days {
		parsed, _ := time.Parse("2006-01-02", day.Date)
		row := map[string]string{
			"Date":     day.Date,
			"Weekday":  parsed.Weekday().String(),
			"Day Type": strings.ReplaceAll(day.DayType, "_", " "),
			"Manual":   "",
		}
		if day.IsManual {
			row["Manual"] = "yes"
		}
		if len(day.Assignments) > 0 {
			row["Guide 1"] = s.guideName(names, day.Assignments[0].GuideID)
			row["Role 1"] = strings.ReplaceAll(day.Assignments[0].Role, "_", " ")
		}
		if len(day.Assignments) > 1 {
			row["Guide 2"] = s.guideName(names, day.Assignments[1].GuideID)
			row["Role 2"] = strings.ReplaceAll(day.Assignments[1].Role, "_", " ")
		}
		dataset.Rows = append(dataset.Rows, row)
	}

	title := fmt.Sprintf("%s duty roster %04d-%02d", s.facilityName, year, month)
	if s.facilityName == "" {
		title = fmt.Sprintf("Duty roster %04d-%02d", year, month)
	}
	return dataset, title, nil
}

func (s *ExportService) guideName(names map[int64]string, id int64) string {
	if name, ok := names[id]; ok {
		return name
	}
	return fmt.Sprintf("guide %d", id)
}

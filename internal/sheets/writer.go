package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"google.golang.org/api/sheets/v4"

	"github.com/quietfile/declutter/internal/common"
	"github.com/quietfile/declutter/internal/model"
	"github.com/quietfile/declutter/internal/service"
)

const reportSheetName = "Activity"

// Writer implements the service.ReportWriter interface for Google Sheets.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewWriter creates a new Google Sheets report writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	svc, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{
		config:  config,
		service: svc,
		logger:  logger,
	}, nil
}

// Write implements the service.ReportWriter interface.
func (w *Writer) Write(ctx context.Context, activities []model.ActivityRecord, summary *service.ReportSummary) error {
	w.logger.Info("starting report export",
		"activities", len(activities),
		"date_range", fmt.Sprintf("%s to %s",
			summary.DateRange.Start.Format("2006-01-02"),
			summary.DateRange.End.Format("2006-01-02")))

	spreadsheetID, err := w.getOrCreateSpreadsheet(ctx)
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	if err := w.clearSheet(ctx, spreadsheetID); err != nil {
		return fmt.Errorf("failed to clear sheet: %w", err)
	}

	values := w.prepareReportData(activities, summary)

	retryOpts := common.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
	}
	err = common.WithRetry(ctx, func() error {
		return w.writeData(ctx, spreadsheetID, values)
	}, retryOpts)
	if err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}

	w.logger.Info("report export complete", "spreadsheet_id", spreadsheetID)
	return nil
}

func (w *Writer) getOrCreateSpreadsheet(ctx context.Context) (string, error) {
	if w.config.SpreadsheetID != "" {
		return w.config.SpreadsheetID, nil
	}

	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: w.config.SpreadsheetName},
		Sheets: []*sheets.Sheet{
			{Properties: &sheets.SheetProperties{Title: reportSheetName}},
		},
	}
	created, err := w.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create spreadsheet: %w", err)
	}
	w.logger.Info("created spreadsheet", "spreadsheet_id", created.SpreadsheetId)
	return created.SpreadsheetId, nil
}

func (w *Writer) clearSheet(ctx context.Context, spreadsheetID string) error {
	_, err := w.service.Spreadsheets.Values.
		Clear(spreadsheetID, reportSheetName, &sheets.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to clear values: %w", err)
	}
	return nil
}

// prepareReportData lays out a summary block followed by the raw activity
// rows, newest first.
func (w *Writer) prepareReportData(activities []model.ActivityRecord, summary *service.ReportSummary) [][]any {
	values := [][]any{
		{"Declutter activity report"},
		{"Period", summary.DateRange.Start.Format("2006-01-02"), summary.DateRange.End.Format("2006-01-02")},
		{"Total actions", summary.TotalActions},
		{"Skipped suggestions", summary.SkippedCount},
		{},
		{"Actions by destination"},
	}

	for _, dest := range sortedCountKeys(summary.ByDestination) {
		values = append(values, []any{dest, summary.ByDestination[dest]})
	}
	values = append(values, []any{}, []any{"Actions by extension"})
	for _, ext := range sortedCountKeys(summary.ByExtension) {
		values = append(values, []any{"." + ext, summary.ByExtension[ext]})
	}

	values = append(values, []any{},
		[]any{"Timestamp", "Type", "File", "Extension", "Details"})
	for i := len(activities) - 1; i >= 0; i-- {
		a := activities[i]
		values = append(values, []any{
			a.Timestamp.Format("2006-01-02 15:04:05"),
			string(a.Type),
			a.FileName,
			a.FileExtension,
			a.Details,
		})
	}
	return values
}

func (w *Writer) writeData(ctx context.Context, spreadsheetID string, values [][]any) error {
	for start := 0; start < len(values); start += w.config.BatchSize {
		end := start + w.config.BatchSize
		if end > len(values) {
			end = len(values)
		}

		valueRange := &sheets.ValueRange{
			Range:  fmt.Sprintf("%s!A%d", reportSheetName, start+1),
			Values: values[start:end],
		}
		_, err := w.service.Spreadsheets.Values.
			Update(spreadsheetID, valueRange.Range, valueRange).
			ValueInputOption("RAW").
			Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("failed to write batch starting at row %d: %w", start+1, err)
		}
	}
	return nil
}

func sortedCountKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if m[keys[i]] != m[keys[j]] {
			return m[keys[i]] > m[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}

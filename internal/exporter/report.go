package exporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "weathercli/internal/errors"
	"weathercli/pkg/contracts/domain"
)

// ReportWriter serializes aggregate reports to stdout and to files.
type ReportWriter struct {
	logger *slog.Logger
}

// NewReportWriter creates a new report writer instance.
func NewReportWriter(logger *slog.Logger) *ReportWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportWriter{logger: logger}
}

// Write prints the report as indented JSON to w. A nil report is
// printed as the literal "null", signalling that the dataset could not
// be loaded.
func (w *ReportWriter) Write(out io.Writer, report *domain.AggregateReport) error {
	data, err := json.MarshalIndent(report, "", "    ")
	if err != nil {
		return apperrors.NewStorageError("failed to encode aggregate report", err)
	}
	if _, err := fmt.Fprintln(out, string(data)); err != nil {
		return apperrors.NewStorageError("failed to write aggregate report", err)
	}
	return nil
}

// WriteJSON writes the report to a JSON file with metadata.
func (w *ReportWriter) WriteJSON(path string, report *domain.AggregateReport) error {
	w.logger.Info("writing aggregate report to JSON",
		slog.String("path", path))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("failed to create directory for JSON output", err)
	}

	jsonData := map[string]interface{}{
		"report":       report,
		"generated_at": time.Now().Format(time.RFC3339),
		"format":       "aggregate_report_v1",
	}

	file, err := os.Create(path)
	if err != nil {
		return apperrors.NewStorageError("failed to create JSON report file", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(jsonData); err != nil {
		return apperrors.NewStorageError("failed to encode JSON report", err)
	}

	return nil
}

// WriteCSV writes the per-city half of the report as a flat CSV table.
// A UTF-8 BOM is prepended so Excel recognizes the encoding.
func (w *ReportWriter) WriteCSV(path string, report *domain.AggregateReport) error {
	w.logger.Info("writing aggregate report to CSV",
		slog.String("path", path),
		slog.Int("cities", len(report.HighestTemperatureByCity)))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("failed to create directory for CSV output", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return apperrors.NewStorageError("failed to create CSV report file", err)
	}
	defer file.Close()

	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return apperrors.NewStorageError("failed to write BOM", err)
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"City", "HighestTemperature", "AverageTemperature", "HighFluctuation"}
	if err := writer.Write(header); err != nil {
		return apperrors.NewStorageError("failed to write CSV header row", err)
	}

	fluctuation := make(map[string]bool, len(report.CitiesWithHighFluctuation))
	for _, city := range report.CitiesWithHighFluctuation {
		fluctuation[city] = true
	}

	for _, city := range sortedCities(report) {
		row := []string{
			city,
			formatTemperature(report.HighestTemperatureByCity[city]),
			formatTemperature(report.CityAverages[city]),
			formatBool(fluctuation[city]),
		}
		if err := writer.Write(row); err != nil {
			return apperrors.NewStorageError("failed to write CSV data row", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteExcel writes the full report as an Excel workbook with Cities,
// Dates, and Summary sheets.
func (w *ReportWriter) WriteExcel(path string, report *domain.AggregateReport) error {
	w.logger.Info("writing aggregate report to Excel",
		slog.String("path", path))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("failed to create directory for Excel output", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Cities"); err != nil {
		return apperrors.NewStorageError("failed to create Cities sheet", err)
	}

	fluctuation := make(map[string]bool, len(report.CitiesWithHighFluctuation))
	for _, city := range report.CitiesWithHighFluctuation {
		fluctuation[city] = true
	}

	cityHeader := []interface{}{"City", "HighestTemperature", "AverageTemperature", "HighFluctuation"}
	if err := f.SetSheetRow("Cities", "A1", &cityHeader); err != nil {
		return apperrors.NewStorageError("failed to write Cities header", err)
	}
	for i, city := range sortedCities(report) {
		row := []interface{}{
			city,
			report.HighestTemperatureByCity[city],
			report.CityAverages[city],
			fluctuation[city],
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow("Cities", cell, &row); err != nil {
			return apperrors.NewStorageError("failed to write Cities row", err)
		}
	}

	if _, err := f.NewSheet("Dates"); err != nil {
		return apperrors.NewStorageError("failed to create Dates sheet", err)
	}
	dateHeader := []interface{}{"Date", "HottestCity"}
	if err := f.SetSheetRow("Dates", "A1", &dateHeader); err != nil {
		return apperrors.NewStorageError("failed to write Dates header", err)
	}
	dates := make([]string, 0, len(report.HighestTemperatureByDate))
	for date := range report.HighestTemperatureByDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	for i, date := range dates {
		row := []interface{}{date, report.HighestTemperatureByDate[date]}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow("Dates", cell, &row); err != nil {
			return apperrors.NewStorageError("failed to write Dates row", err)
		}
	}

	if _, err := f.NewSheet("Summary"); err != nil {
		return apperrors.NewStorageError("failed to create Summary sheet", err)
	}
	summaryRows := [][]interface{}{
		{"AverageTemperature", report.AverageTemperature},
		{"CitiesWithHighFluctuation", strings.Join(report.CitiesWithHighFluctuation, ",")},
	}
	for i, row := range summaryRows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow("Summary", cell, &row); err != nil {
			return apperrors.NewStorageError("failed to write Summary row", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return apperrors.NewStorageError("failed to save Excel report file", err)
	}
	return nil
}

// sortedCities returns the report's city keys in deterministic order.
func sortedCities(report *domain.AggregateReport) []string {
	cities := make([]string, 0, len(report.HighestTemperatureByCity))
	for city := range report.HighestTemperatureByCity {
		cities = append(cities, city)
	}
	sort.Strings(cities)
	return cities
}

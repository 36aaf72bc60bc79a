package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "weathercli/internal/errors"
	"weathercli/pkg/contracts/domain"
)

// requiredColumns are the header names the loader maps. Extra columns
// in the source file are ignored.
var requiredColumns = []string{"date", "city", "temperature_celsius", "temperature_fahrenheit"}

// dateLayouts are the accepted date formats, tried in order. Cells that
// match none of them become null dates rather than rejecting the row.
var dateLayouts = []string{
	domain.DateFormat,
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"02/01/2006",
}

// Loader reads a weather data file into a Dataset.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a new loader instance.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load reads the file at path and returns the fully loaded Dataset.
// The format is chosen by extension: .xlsx files are read with excelize,
// everything else is treated as delimited text. On failure the returned
// error is classified as NotFound, Empty, or Parsing and no partial
// dataset is ever returned.
func (l *Loader) Load(path string) (*domain.Dataset, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, apperrors.NewNotFoundError(path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return l.loadExcel(path)
	}
	return l.loadCSV(path)
}

// loadCSV parses a delimited text file with a header row.
func (l *Loader) loadCSV(path string) (*domain.Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewNotFoundError(path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("parsing error: %s is not a valid CSV", path), err)
	}
	if len(records) == 0 {
		return nil, apperrors.NewEmptyDataError(path)
	}

	columns, err := mapColumns(records[0])
	if err != nil {
		return nil, err
	}
	if len(records) == 1 {
		return nil, apperrors.NewEmptyDataError(path)
	}

	return l.buildDataset(path, columns, records[1:])
}

// loadExcel parses an Excel workbook, locating the sheet and header row
// that carry the weather columns.
func (l *Loader) loadExcel(path string) (*domain.Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("parsing error: %s is not a valid workbook", path), err)
	}
	defer f.Close()

	totalRows := 0
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		totalRows += len(rows)

		// Look for the header row near the top of the sheet.
		limit := len(rows)
		if limit > 5 {
			limit = 5
		}
		for i := 0; i < limit; i++ {
			columns, err := mapColumns(rows[i])
			if err != nil {
				continue
			}
			l.logger.Debug("found weather data sheet",
				slog.String("sheet", sheet),
				slog.Int("header_row", i))

			data := padRows(rows[i+1:], len(rows[i]))
			if len(data) == 0 {
				return nil, apperrors.NewEmptyDataError(path)
			}
			return l.buildDataset(path, columns, data)
		}
	}

	if totalRows == 0 {
		return nil, apperrors.NewEmptyDataError(path)
	}
	return nil, apperrors.NewParsingError(fmt.Sprintf("could not find weather data header in %s", path), nil)
}

// buildDataset converts raw rows into typed readings. Date cells that
// fail coercion become null dates; temperature cells that fail coercion
// make the whole load malformed.
func (l *Loader) buildDataset(path string, columns columnIndex, rows [][]string) (*domain.Dataset, error) {
	readings := make([]domain.Reading, 0, len(rows))
	badDates := 0

	for i, row := range rows {
		if len(row) <= columns.max() {
			return nil, apperrors.NewParsingError(
				fmt.Sprintf("parsing error: row %d of %s has too few columns", i+2, path), nil)
		}

		celsius, err := parseTemperature(row[columns.celsius])
		if err != nil {
			return nil, apperrors.NewParsingError(
				fmt.Sprintf("parsing error: row %d of %s has invalid temperature_celsius", i+2, path), err)
		}
		fahrenheit, err := parseTemperature(row[columns.fahrenheit])
		if err != nil {
			return nil, apperrors.NewParsingError(
				fmt.Sprintf("parsing error: row %d of %s has invalid temperature_fahrenheit", i+2, path), err)
		}

		date := parseDate(row[columns.date])
		if date == nil {
			badDates++
		}

		readings = append(readings, domain.Reading{
			Date:                  date,
			City:                  strings.TrimSpace(row[columns.city]),
			TemperatureCelsius:    celsius,
			TemperatureFahrenheit: fahrenheit,
		})
	}

	if badDates > 0 {
		l.logger.Warn("some dates could not be parsed and were set to null",
			slog.String("path", path),
			slog.Int("unparsed_dates", badDates))
	}

	l.logger.Info("loaded weather dataset",
		slog.String("path", path),
		slog.Int("readings", len(readings)))

	return &domain.Dataset{Readings: readings}, nil
}

// columnIndex holds the positions of the mapped columns in the source header.
type columnIndex struct {
	date       int
	city       int
	celsius    int
	fahrenheit int
}

func (c columnIndex) max() int {
	m := c.date
	for _, idx := range []int{c.city, c.celsius, c.fahrenheit} {
		if idx > m {
			m = idx
		}
	}
	return m
}

// mapColumns maps header names to positions, case-insensitively.
func mapColumns(header []string) (columnIndex, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		positions[strings.ToLower(strings.TrimSpace(name))] = i
	}

	for _, col := range requiredColumns {
		if _, ok := positions[col]; !ok {
			return columnIndex{}, apperrors.NewParsingError(
				fmt.Sprintf("missing required column: %s", col), nil)
		}
	}

	return columnIndex{
		date:       positions["date"],
		city:       positions["city"],
		celsius:    positions["temperature_celsius"],
		fahrenheit: positions["temperature_fahrenheit"],
	}, nil
}

// parseTemperature parses a numeric cell, tolerating thousands separators.
func parseTemperature(cell string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(cell), ",", ""), 64)
}

// parseDate coerces a date cell, returning nil when no layout matches.
func parseDate(cell string) *time.Time {
	s := strings.TrimSpace(cell)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// padRows right-pads short rows so the mapped column positions are
// always addressable. Excel trims trailing empty cells per row.
// Rows that are entirely empty are dropped.
func padRows(rows [][]string, width int) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		empty := true
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				empty = false
				break
			}
		}
		if empty {
			continue
		}
		for len(row) < width {
			row = append(row, "")
		}
		out = append(out, row)
	}
	return out
}

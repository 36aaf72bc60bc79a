package exporter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"weathercli/pkg/contracts/domain"
)

func sampleReport() *domain.AggregateReport {
	return &domain.AggregateReport{
		HighestTemperatureByCity:  map[string]float64{"CityA": 30.0, "CityB": 15.0},
		HighestTemperatureByDate:  map[string]string{"2024-01-01": "CityB", "2024-01-02": "CityA"},
		CitiesWithHighFluctuation: []string{"CityA"},
		CityAverages:              map[string]float64{"CityA": 20.0, "CityB": 15.0},
		AverageTemperature:        18.3,
	}
}

func TestReportWriter_Write(t *testing.T) {
	writer := NewReportWriter(slog.Default())

	var buf bytes.Buffer
	require.NoError(t, writer.Write(&buf, sampleReport()))

	var decoded domain.AggregateReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, *sampleReport(), decoded)
	assert.True(t, strings.HasPrefix(buf.String(), "{\n    "), "output is indented")
}

func TestReportWriter_Write_AbsentReport(t *testing.T) {
	writer := NewReportWriter(slog.Default())

	var buf bytes.Buffer
	require.NoError(t, writer.Write(&buf, nil))

	assert.Equal(t, "null\n", buf.String())
}

func TestReportWriter_WriteJSON(t *testing.T) {
	writer := NewReportWriter(slog.Default())
	path := filepath.Join(t.TempDir(), "reports", "weather_report.json")

	require.NoError(t, writer.WriteJSON(path, sampleReport()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var envelope struct {
		Report      domain.AggregateReport `json:"report"`
		GeneratedAt string                 `json:"generated_at"`
		Format      string                 `json:"format"`
	}
	require.NoError(t, json.Unmarshal(data, &envelope))
	assert.Equal(t, *sampleReport(), envelope.Report)
	assert.Equal(t, "aggregate_report_v1", envelope.Format)
	assert.NotEmpty(t, envelope.GeneratedAt)
}

func TestReportWriter_WriteCSV(t *testing.T) {
	writer := NewReportWriter(slog.Default())
	path := filepath.Join(t.TempDir(), "reports", "weather_report.csv")

	require.NoError(t, writer.WriteCSV(path, sampleReport()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}), "BOM prefix for Excel")

	records, err := csv.NewReader(bytes.NewReader(data[3:])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"City", "HighestTemperature", "AverageTemperature", "HighFluctuation"}, records[0])
	assert.Equal(t, []string{"CityA", "30.0", "20.0", "true"}, records[1])
	assert.Equal(t, []string{"CityB", "15.0", "15.0", "false"}, records[2])
}

func TestReportWriter_WriteExcel(t *testing.T) {
	writer := NewReportWriter(slog.Default())
	path := filepath.Join(t.TempDir(), "reports", "weather_report.xlsx")

	require.NoError(t, writer.WriteExcel(path, sampleReport()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Cities", "Dates", "Summary"}, f.GetSheetList())

	cities, err := f.GetRows("Cities")
	require.NoError(t, err)
	require.Len(t, cities, 3)
	assert.Equal(t, "CityA", cities[1][0])

	dates, err := f.GetRows("Dates")
	require.NoError(t, err)
	require.Len(t, dates, 3)
	assert.Equal(t, []string{"2024-01-01", "CityB"}, dates[1])
}

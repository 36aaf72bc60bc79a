package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"weathercli/internal/config"
	"weathercli/internal/dataprocessing"
	"weathercli/internal/exporter"
	"weathercli/internal/infrastructure"
	"weathercli/pkg/contracts/domain"
)

func main() {
	filePath := flag.String("file_path", "weather_data.csv", "path to the weather data file (CSV or XLSX)")
	threshold := flag.Float64("fluctuation_threshold", 20, "temperature fluctuation threshold")
	uom := flag.String("uom", "fahrenheit", "unit of measurement: celsius or fahrenheit")
	configPath := flag.String("config", "", "optional YAML config file")
	outDir := flag.String("out", "", "optional directory for exported report files")
	outFormat := flag.String("format", "json", "exported report file format: json, csv, or xlsx")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// Explicit flags win; the config file fills in whatever the caller
	// left at its default.
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if !set["file_path"] {
		*filePath = cfg.Analysis.FilePath
	}
	if !set["fluctuation_threshold"] {
		*threshold = cfg.Analysis.FluctuationThreshold
	}
	if !set["uom"] {
		*uom = cfg.Analysis.UnitOfMeasurement
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.WithRunID(context.Background(), infrastructure.NewRunID())

	logger.InfoContext(ctx, "Starting weather analysis",
		slog.String("file_path", *filePath),
		slog.String("uom", *uom),
		slog.Float64("fluctuation_threshold", *threshold))

	analyzer := dataprocessing.NewFromFile(*filePath, logger)

	report, err := analyzer.Analyze(ctx, *threshold, domain.Unit(*uom))
	if err != nil {
		logger.ErrorContext(ctx, "Analysis rejected",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	writer := exporter.NewReportWriter(logger)
	if err := writer.Write(os.Stdout, report); err != nil {
		logger.ErrorContext(ctx, "Failed to write report",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *outDir != "" && report != nil {
		if err := exportReport(writer, *outDir, *outFormat, report); err != nil {
			logger.ErrorContext(ctx, "Failed to export report",
				slog.String("out", *outDir),
				slog.String("format", *outFormat),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.InfoContext(ctx, "Report exported",
			slog.String("out", *outDir),
			slog.String("format", *outFormat))
	}
}

// exportReport writes a timestamped report file in the requested format.
func exportReport(writer *exporter.ReportWriter, dir, format string, report *domain.AggregateReport) error {
	base := filepath.Join(dir, fmt.Sprintf("weather_report_%s", time.Now().Format("20060102")))

	switch strings.ToLower(format) {
	case "json":
		return writer.WriteJSON(base+".json", report)
	case "csv":
		return writer.WriteCSV(base+".csv", report)
	case "xlsx":
		return writer.WriteExcel(base+".xlsx", report)
	default:
		return fmt.Errorf("unknown report format: %s", format)
	}
}

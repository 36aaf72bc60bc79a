// Package exporter serializes aggregate weather reports.
//
// The primary surface is stdout: the report is printed as indented JSON
// (or the literal "null" when the dataset could not be loaded) so the
// output stream stays machine-parseable.
//
// ReportWriter can additionally persist the report as JSON, CSV, or
// Excel files. File exports carry a generated_at timestamp; the CSV
// form is a flat per-city table with a UTF-8 BOM for Excel
// compatibility, and the Excel form splits the report across Cities,
// Dates, and Summary sheets.
package exporter

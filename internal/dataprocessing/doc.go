// Package dataprocessing loads tabular weather datasets and computes
// grouped summary statistics over them.
//
// The package is organized into two main components:
//
// 1. Loader: reads a CSV or Excel weather file into an immutable Dataset
// 2. Aggregator: answers the five summary queries and the composite Analyze
//
// # Data Flow
//
// The typical data flow through this package:
//
//	Weather file → Loader → Dataset → Aggregator → AggregateReport
//
// # Error Handling
//
// Load failures (missing file, empty file, malformed content) are
// classified, logged, and absorbed into an absent Dataset; callers of
// the query operations never see a load error surface. Invalid query
// parameters (unknown unit, non-positive threshold) are hard
// validation failures returned to the caller.
package dataprocessing

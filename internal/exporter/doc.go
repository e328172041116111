// Package exporter writes the cleaned dataset as CSV and reads it back.
//
// CSVWriter owns file handling (directory creation, optional UTF-8 BOM,
// streaming rows). DatasetExporter lays out the cleaned dataset with a
// stable column order:
//
//	date, location, iso_code, continent,
//	<numeric columns present in the source, canonical order>,
//	<derived metrics computed for the run, canonical order>,
//	year, month
//
// Undefined derived metrics are written as empty cells. Floats are written
// in the shortest form that parses back to the same value unless a fixed
// precision is configured, so ReadCleanCSV reproduces the exported values.
//
// Example usage:
//
//	exp := exporter.NewDatasetExporter(logger, exporter.DefaultExportOptions())
//	rows, err := exp.Export(ctx, ds, paths.CleanDataCSV)
package exporter

// Package dataprocessing cleans and enriches the raw epidemiological
// dataset.
//
// # Pipeline
//
// Cleaner.Clean runs these steps in order:
//
//  1. Projection: the header is resolved into a domain.Schema once; cells of
//     recognized columns are parsed into typed records. Empty cells and NaN
//     literals are missing values; any other non-numeric cell is a
//     *ColumnError and the whole run fails with every such error joined.
//  2. Entity filtering: aggregate pseudo-entities (World, continents,
//     income groups) are dropped.
//  3. Gap filling: records are grouped per entity and sorted by date, then
//     ForwardFillProcessor fills each present numeric column forward and
//     zero-fills what remains. Values never cross entity boundaries.
//  4. Enrichment: case-fatality rate, weekly case growth and vaccination
//     percentages are computed by Enricher from the filled values. A
//     metric whose input column is absent is omitted and logged.
//  5. Time bucketing: year and month are attached to each record.
//
// # Usage
//
//	cleaner, err := dataprocessing.NewCleaner(logger, dataprocessing.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	ds, stats, err := cleaner.CleanWithStats(ctx, raw)
//
// Summaries of the result are produced by Summarizer.
package dataprocessing

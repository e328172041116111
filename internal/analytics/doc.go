// Package analytics aggregates the cleaned dataset and renders it.
//
// GlobalTrend sums daily new cases, deaths and vaccinations over all
// entities and smooths each series with a 7-day rolling mean. TopN ranks
// entities on a metric at the most recent date. Renderer writes both as
// Excel workbooks with native charts: a data sheet plus a chart anchored
// beside it.
package analytics

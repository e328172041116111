// Package domain holds the typed data model shared by the pipeline stages:
// canonical fields, the schema resolved from a source header, optional
// values, tagged derived metrics, and the immutable cleaned dataset.
package domain

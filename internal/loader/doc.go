// Package loader acquires the raw epidemiological dataset.
//
// A Loader walks an ordered list of candidate sources (local paths and
// http(s) URLs) and returns the first one that parses. Every failed attempt
// is recorded; when all candidates fail the caller receives a
// *SourcesExhaustedError and decides how to exit.
//
//	l := loader.New(loader.Config{Sources: cfg.Sources, HTTPTimeout: cfg.HTTPTimeout}, logger)
//	res, err := l.Load(ctx)
//	if err != nil {
//	    // all sources failed
//	}
//	raw := res.Dataset
//
// Parsed dates are the only typed values in the result; all other cells are
// left as text for the cleaner to project.
package loader

// Package operations runs the tracker pipeline.
//
// A run is a fixed sequence of steps (load, clean, render, export) held in a
// Registry and ordered by their declared dependencies. The Manager executes
// them one after another, narrating progress, opening one trace span per
// step and recording step metrics. A step error stops the run and the
// remaining steps are marked skipped.
//
// Rendering failures are not step errors. The render step records them in
// the run state and the run continues, so one broken chart never costs the
// CSV export.
package operations

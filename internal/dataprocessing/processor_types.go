package dataprocessing

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"covidtracker/internal/config"
)

// Options configures the cleaner.
type Options struct {
	// Exclusions are entity names that are aggregates, not countries.
	Exclusions []string `validate:"dive,required"`

	// ExtraExclusions extends Exclusions without replacing it.
	ExtraExclusions []string `validate:"dive,required"`

	// RollingDays is the window of the rolling new-case sum used for
	// weekly growth.
	RollingDays int `validate:"gte=1,lte=366"`
}

// DefaultOptions returns default cleaning options
func DefaultOptions() Options {
	return Options{
		Exclusions:  DefaultExclusions(),
		RollingDays: config.DefaultRollingDays,
	}
}

// DefaultExclusions returns the aggregate pseudo-entities published
// alongside countries.
func DefaultExclusions() []string {
	return config.NonCountries()
}

// Validate checks the options
func (o Options) Validate() error {
	if err := validator.New().Struct(o); err != nil {
		return fmt.Errorf("invalid cleaning options: %w", err)
	}
	return nil
}

func (o Options) exclusionSet() map[string]bool {
	set := make(map[string]bool, len(o.Exclusions)+len(o.ExtraExclusions))
	for _, name := range o.Exclusions {
		set[name] = true
	}
	for _, name := range o.ExtraExclusions {
		set[name] = true
	}
	return set
}

// Statistics describes one cleaning run.
type Statistics struct {
	RawRecords     int
	ExcludedCount  int
	CleanedRecords int
	Entities       int
	Fill           ForwardFillStatistics
	// SchemaGaps lists derived metrics omitted because an input column was
	// absent.
	SchemaGaps []string
}

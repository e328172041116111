// Package config provides configuration management for the tracker.
//
// # Configuration Sources
//
// Configuration is resolved in the following order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file
//	3. Default values (lowest priority)
//
// The defaults reproduce the fixed behaviour of the tool: the ordered list
// of OWID sources and the output/ directory. Nothing needs to be set for a
// normal run.
//
// # Environment Variables
//
// All environment variables use the TRACKER_ prefix:
//
//	TRACKER_SOURCES=data/owid.csv,https://example.org/owid.csv
//	TRACKER_OUTPUT_DIR=output
//	TRACKER_LOGGING_LEVEL=debug
//	TRACKER_RENDER_THEME=dark
//
// # Paths
//
// Paths derives every output file location from the output directory:
//
//	paths := cfg.Paths()
//	paths.CleanDataCSV       // output/covid_clean_data.csv
//	paths.ComparisonPath(m)  // output/country_comparison_<m>.xlsx
package config

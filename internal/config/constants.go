package config

import "time"

// Application constants
const (
	AppName = "COVID-19 Global Data Tracker"

	// Default source list, tried in order
	DefaultLocalSource  = "sample_data/owid-covid-data.csv"
	DefaultPrimaryURL   = "https://covid.ourworldindata.org/data/owid-covid-data.csv"
	DefaultMirrorURL    = "https://raw.githubusercontent.com/owid/covid-19-data/master/public/data/owid-covid-data.csv"
	DefaultHTTPTimeout  = 60 * time.Second
	DefaultOutputDir    = "output"
	DefaultTopN         = 15
	DefaultLogFile      = "logs/tracker.log"
	DefaultConfigFile   = "tracker.yaml"
	DefaultRollingDays  = 7
	DefaultDateLayout   = "2006-01-02"
	DefaultFloatDigits  = 2
	DefaultColumnWidth  = 18
	DefaultRenderTheme  = "viridis"

	// Well-known output files
	GlobalTrendsFile     = "global_trends.xlsx"
	ComparisonFilePrefix = "country_comparison_"
	ComparisonFileExt    = ".xlsx"
	CleanDataFile        = "covid_clean_data.csv"
	MetricsFile          = "metrics.prom"
	TraceFile            = "trace.json"
	SummaryFile          = "run_summary.json"
)

// DefaultSources returns the ordered candidate sources.
func DefaultSources() []string {
	return []string{DefaultLocalSource, DefaultPrimaryURL, DefaultMirrorURL}
}

// DefaultComparisons returns the metrics compared across countries.
// pct_fully_vaccinated is skipped at run time when the source has no
// vaccination data.
func DefaultComparisons() []string {
	return []string{
		"total_cases_per_million",
		"total_deaths_per_million",
		"case_fatality_rate",
		"pct_fully_vaccinated",
	}
}

// NonCountries is the fixed set of aggregate pseudo-entities removed by the
// cleaner.
func NonCountries() []string {
	return []string{
		"World", "Europe", "Asia", "Africa", "North America", "South America",
		"European Union", "International", "High income", "Low income",
		"Lower middle income", "Upper middle income", "Oceania",
	}
}

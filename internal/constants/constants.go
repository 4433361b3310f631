// Package constants defines application-wide constants and version information.
package constants

import "runtime"

// Version holds the application version information
const Version = "1.2-" + runtime.GOOS + "/" + runtime.GOARCH

const (
	// DefaultDecompositionPeriod is the seasonal period, in hourly samples, used for PM2.5 decomposition
	DefaultDecompositionPeriod = 24

	// DefaultHistogramBins is the number of bins in each pollutant histogram
	DefaultHistogramBins = 30

	DefaultListenAddr  = "0.0.0.0"
	DefaultHTTPPort    = 8080
	DefaultFilePattern = "*.csv"

	// EnvPrefix prefixes every environment variable read by the config package
	EnvPrefix = "AIRQ"
)

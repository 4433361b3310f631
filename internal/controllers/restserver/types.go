package restserver

import (
	"time"

	"github.com/chrissnell/airquality/pkg/responseformat"
)

// OptionsResponse lists the values each dashboard control accepts
type OptionsResponse struct {
	Title          string   `json:"title"`
	Years          []int    `json:"years"`
	Months         []int    `json:"months"`
	Pollutants     []string `json:"pollutants"`
	Stations       []string `json:"stations"`
	Columns        []string `json:"columns"`
	DefaultColumns []string `json:"default_columns"`
	Charts         []string `json:"charts"`
}

// SummaryResponse describes the filtered view of a selection
type SummaryResponse struct {
	Year       int             `json:"year"`
	Month      int             `json:"month"`
	Station    string          `json:"station,omitempty"`
	Rows       int             `json:"rows"`
	Statistics []ColumnSummary `json:"statistics"`
	AQI        []AQIReading    `json:"aqi"`
}

// ColumnSummary holds describe-style statistics of one column
type ColumnSummary struct {
	Column string                `json:"column"`
	Count  int                   `json:"count"`
	Mean   responseformat.Number `json:"mean"`
	Std    responseformat.Number `json:"std"`
	Min    responseformat.Number `json:"min"`
	Q25    responseformat.Number `json:"q25"`
	Q50    responseformat.Number `json:"q50"`
	Q75    responseformat.Number `json:"q75"`
	Max    responseformat.Number `json:"max"`
}

// AQIReading is the air-quality index of a mean concentration
type AQIReading struct {
	Pollutant     string                `json:"pollutant"`
	Concentration responseformat.Number `json:"concentration"`
	Index         int                   `json:"index"`
	Category      string                `json:"category"`
	Color         string                `json:"color"`
}

// AggregateResponse holds per-group means of one column
type AggregateResponse struct {
	Key    string           `json:"key"`
	Column string           `json:"column"`
	Scope  string           `json:"scope"`
	Filled bool             `json:"filled"`
	Groups []AggregateGroup `json:"groups"`
}

// AggregateGroup is the mean of one group
type AggregateGroup struct {
	Key   string                `json:"key"`
	Mean  responseformat.Number `json:"mean"`
	Count int                   `json:"count"`
}

// DecompositionResponse holds the additive components of a series. Edge
// values of the trend and residual are null.
type DecompositionResponse struct {
	Column   string                  `json:"column"`
	Period   int                     `json:"period"`
	Observed []responseformat.Number `json:"observed"`
	Trend    []responseformat.Number `json:"trend"`
	Seasonal []responseformat.Number `json:"seasonal"`
	Residual []responseformat.Number `json:"residual"`
}

// HealthResponse reports the state of the loaded table
type HealthResponse struct {
	Status   string    `json:"status"`
	Rows     int       `json:"rows"`
	Files    int       `json:"files"`
	LoadedAt time.Time `json:"loaded_at"`
}

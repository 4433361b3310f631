// Package aqi provides functions for calculating Air Quality Index values
// from particulate matter concentrations according to EPA standards
package aqi

import "math"

// breakpoint maps a concentration range onto an index range
type breakpoint struct {
	cLow, cHigh float64
	iLow, iHigh float64
}

// EPA breakpoints for 24-hour PM2.5 averages (μg/m³)
var pm25Breakpoints = []breakpoint{
	{0.0, 12.0, 0, 50},
	{12.1, 35.4, 51, 100},
	{35.5, 55.4, 101, 150},
	{55.5, 150.4, 151, 200},
	{150.5, 250.4, 201, 300},
	{250.5, 350.4, 301, 400},
	{350.5, 500.4, 401, 500},
}

// EPA breakpoints for 24-hour PM10 averages (μg/m³)
var pm10Breakpoints = []breakpoint{
	{0, 54, 0, 50},
	{55, 154, 51, 100},
	{155, 254, 101, 150},
	{255, 354, 151, 200},
	{355, 424, 201, 300},
	{425, 504, 301, 400},
	{505, 604, 401, 500},
}

// CalculatePM25 calculates the Air Quality Index from a PM2.5 concentration.
// NaN concentrations return -1.
func CalculatePM25(pm25 float64) int {
	return calculate(pm25, pm25Breakpoints)
}

// CalculatePM10 calculates the Air Quality Index from a PM10 concentration.
// NaN concentrations return -1.
func CalculatePM10(pm10 float64) int {
	return calculate(pm10, pm10Breakpoints)
}

func calculate(c float64, table []breakpoint) int {
	if math.IsNaN(c) {
		return -1
	}
	if c < 0 {
		return 0
	}
	for _, bp := range table {
		if c <= bp.cHigh {
			// I = (I_high - I_low) / (C_high - C_low) * (C - C_low) + I_low
			aqi := (bp.iHigh-bp.iLow)/(bp.cHigh-bp.cLow)*(c-bp.cLow) + bp.iLow
			// concentrations in the gap between two bands (e.g. 12.05) take the upper band's floor
			return int(math.Round(math.Max(aqi, bp.iLow)))
		}
	}
	// Beyond the last breakpoint, AQI is 500+
	return 500
}

// Category is the EPA band an index value falls in
type Category struct {
	Name  string
	Color string
}

var categories = []struct {
	max int
	Category
}{
	{50, Category{"Good", "#00e400"}},
	{100, Category{"Moderate", "#ffff00"}},
	{150, Category{"Unhealthy for Sensitive Groups", "#ff7e00"}},
	{200, Category{"Unhealthy", "#ff0000"}},
	{300, Category{"Very Unhealthy", "#99004c"}},
}

// GetCategory returns the category of an AQI value. Negative values mean
// the index could not be computed.
func GetCategory(aqi int) Category {
	if aqi < 0 {
		return Category{Name: "Unavailable", Color: "#bdbdbd"}
	}
	for _, c := range categories {
		if aqi <= c.max {
			return c.Category
		}
	}
	return Category{"Hazardous", "#7e0023"}
}

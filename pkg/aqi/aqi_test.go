package aqi

import (
	"math"
	"testing"
)

func TestCalculatePM25(t *testing.T) {
	tests := []struct {
		name string
		pm   float64
		want int
	}{
		{"zero", 0, 0},
		{"negative", -3, 0},
		{"good upper bound", 12.0, 50},
		{"moderate lower bound", 12.1, 51},
		{"gap between bands", 12.05, 51},
		{"unhealthy for sensitive groups", 45, 124},
		{"hazardous", 400, 434},
		{"off the scale", 900, 500},
		{"missing", math.NaN(), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculatePM25(tt.pm); got != tt.want {
				t.Errorf("CalculatePM25(%v) = %d, want %d", tt.pm, got, tt.want)
			}
		})
	}
}

func TestCalculatePM10(t *testing.T) {
	tests := []struct {
		pm   float64
		want int
	}{
		{54, 50},
		{100, 73},
		{604, 500},
		{700, 500},
	}

	for _, tt := range tests {
		if got := CalculatePM10(tt.pm); got != tt.want {
			t.Errorf("CalculatePM10(%v) = %d, want %d", tt.pm, got, tt.want)
		}
	}
}

func TestGetCategory(t *testing.T) {
	tests := []struct {
		aqi  int
		want string
	}{
		{-1, "Unavailable"},
		{0, "Good"},
		{50, "Good"},
		{51, "Moderate"},
		{150, "Unhealthy for Sensitive Groups"},
		{200, "Unhealthy"},
		{300, "Very Unhealthy"},
		{301, "Hazardous"},
	}

	for _, tt := range tests {
		if got := GetCategory(tt.aqi); got.Name != tt.want {
			t.Errorf("GetCategory(%d) = %q, want %q", tt.aqi, got.Name, tt.want)
		}
	}
}

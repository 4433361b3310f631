package types

import (
	"math"
	"sort"
	"time"
)

// Field identifies one numeric column of an hourly air-quality observation.
// The string form of a Field is the CSV header name used by the source files.
type Field int

const (
	FieldNo Field = iota
	FieldYear
	FieldMonth
	FieldDay
	FieldHour
	FieldPM25
	FieldPM10
	FieldSO2
	FieldNO2
	FieldCO
	FieldO3
	FieldTemp
	FieldPres
	FieldDewp
	FieldRain
	FieldWSPM

	numFields
)

var fieldNames = [numFields]string{
	FieldNo:    "No",
	FieldYear:  "year",
	FieldMonth: "month",
	FieldDay:   "day",
	FieldHour:  "hour",
	FieldPM25:  "PM2.5",
	FieldPM10:  "PM10",
	FieldSO2:   "SO2",
	FieldNO2:   "NO2",
	FieldCO:    "CO",
	FieldO3:    "O3",
	FieldTemp:  "TEMP",
	FieldPres:  "PRES",
	FieldDewp:  "DEWP",
	FieldRain:  "RAIN",
	FieldWSPM:  "WSPM",
}

// Column names of the non-numeric columns
const (
	ColumnWindDirection = "wd"
	ColumnStation       = "station"
)

// String returns the CSV header name of the field
func (f Field) String() string {
	if f < 0 || f >= numFields {
		return "unknown"
	}
	return fieldNames[f]
}

// Fields returns every numeric field in CSV column order
func Fields() []Field {
	fields := make([]Field, numFields)
	for i := range fields {
		fields[i] = Field(i)
	}
	return fields
}

// ParseField looks up a field by its CSV header name
func ParseField(name string) (Field, bool) {
	for i, n := range fieldNames {
		if n == name {
			return Field(i), true
		}
	}
	return 0, false
}

// Pollutants are the fields offered by the pollutant selector
var Pollutants = []Field{FieldPM25, FieldPM10, FieldSO2, FieldNO2, FieldCO}

// IsPollutant reports whether f may be chosen in the pollutant selector
func IsPollutant(f Field) bool {
	for _, p := range Pollutants {
		if p == f {
			return true
		}
	}
	return false
}

// Record is one hourly air-quality observation. Missing measurements are NaN.
type Record struct {
	Year    int
	Month   int
	Day     int
	Hour    int
	Values  [numFields]float64
	WD      string
	Station string
}

// Value returns the numeric value of f. The calendar fields are always present.
func (r *Record) Value(f Field) float64 {
	switch f {
	case FieldYear:
		return float64(r.Year)
	case FieldMonth:
		return float64(r.Month)
	case FieldDay:
		return float64(r.Day)
	case FieldHour:
		return float64(r.Hour)
	}
	if f < 0 || f >= numFields {
		return math.NaN()
	}
	return r.Values[f]
}

// NewRecord returns a Record with every measurement marked missing
func NewRecord() Record {
	var r Record
	for i := range r.Values {
		r.Values[i] = math.NaN()
	}
	return r
}

// Table is the ordered collection of every record loaded at startup.
// A Table is never modified after it has been built.
type Table struct {
	Records  []Record
	Files    []string
	LoadedAt time.Time
}

// Len returns the number of records in the table
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// All returns a view over every record in the table
func (t *Table) All() View {
	if t == nil {
		return View{}
	}
	v := View{Rows: make([]*Record, len(t.Records))}
	for i := range t.Records {
		v.Rows[i] = &t.Records[i]
	}
	return v
}

// Years returns the distinct years present in the table, ascending
func (t *Table) Years() []int {
	return t.distinct(func(r *Record) int { return r.Year })
}

// Months returns the distinct months present in the table, ascending
func (t *Table) Months() []int {
	return t.distinct(func(r *Record) int { return r.Month })
}

// Stations returns the distinct station names present in the table, sorted
func (t *Table) Stations() []string {
	if t == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for i := range t.Records {
		s := t.Records[i].Station
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// HasYear reports whether any record carries the given year
func (t *Table) HasYear(year int) bool {
	return containsInt(t.Years(), year)
}

// HasMonth reports whether any record carries the given month
func (t *Table) HasMonth(month int) bool {
	return containsInt(t.Months(), month)
}

func (t *Table) distinct(key func(*Record) int) []int {
	if t == nil {
		return nil
	}
	seen := make(map[int]struct{})
	var out []int
	for i := range t.Records {
		k := key(&t.Records[i])
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

func containsInt(values []int, v int) bool {
	i := sort.SearchInts(values, v)
	return i < len(values) && values[i] == v
}

// View is a read-only subset of a Table. Rows point into the Table's backing
// slice and must not be modified.
type View struct {
	Rows []*Record
}

// Len returns the number of rows in the view
func (v View) Len() int {
	return len(v.Rows)
}

// Column returns the values of f for every row, in row order
func (v View) Column(f Field) []float64 {
	out := make([]float64, len(v.Rows))
	for i, r := range v.Rows {
		out[i] = r.Value(f)
	}
	return out
}

// Selection holds the user's choices from the dashboard controls. Columns
// are kept as entered so that unknown names can be reported where they are
// used.
type Selection struct {
	Year      int
	Month     int
	Pollutant Field
	Columns   []string
	Station   string
}

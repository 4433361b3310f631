// Package exporter writes a view of the air quality table as a downloadable
// CSV or Excel file.
package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/chrissnell/airquality/internal/types"
	"github.com/xuri/excelize/v2"
)

// Format is an export file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// SheetName is the worksheet written by XLSX exports
const SheetName = "airquality"

// missing is written for NaN measurements in CSV output, matching the input files
const missing = "NA"

// ParseFormat validates a format name. An empty name selects CSV.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Header returns the exported column names in input-file order
func Header() []string {
	fields := types.Fields()
	h := make([]string, 0, len(fields)+2)
	for _, f := range fields {
		h = append(h, f.String())
	}
	return append(h, types.ColumnWindDirection, types.ColumnStation)
}

// Write encodes v in the given format
func Write(w io.Writer, v types.View, format Format) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, v)
	case FormatXLSX:
		return writeXLSX(w, v)
	}
	return fmt.Errorf("unsupported export format %q", format)
}

func writeCSV(w io.Writer, v types.View) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return err
	}

	fields := types.Fields()
	row := make([]string, len(fields)+2)
	for _, r := range v.Rows {
		for i, f := range fields {
			row[i] = formatValue(r.Value(f))
		}
		row[len(fields)] = r.WD
		row[len(fields)+1] = r.Station
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return missing
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func writeXLSX(w io.Writer, v types.View) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("could not name worksheet: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("could not create stream writer: %w", err)
	}

	header := Header()
	cells := make([]interface{}, len(header))
	for i, h := range header {
		cells[i] = h
	}
	if err := sw.SetRow("A1", cells); err != nil {
		return err
	}

	fields := types.Fields()
	for n, r := range v.Rows {
		cells := make([]interface{}, len(header))
		for i, fld := range fields {
			if val := r.Value(fld); !math.IsNaN(val) {
				cells[i] = val
			}
		}
		cells[len(fields)] = r.WD
		cells[len(fields)+1] = r.Station

		cell, err := excelize.CoordinatesToCellName(1, n+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, cells); err != nil {
			return fmt.Errorf("could not write row %d: %w", n+1, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("could not flush worksheet: %w", err)
	}
	_, err = f.WriteTo(w)
	return err
}

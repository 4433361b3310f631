package exporter

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/chrissnell/airquality/internal/loader"
	"github.com/chrissnell/airquality/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleView() types.View {
	t := &types.Table{}
	for h := 0; h < 3; h++ {
		r := types.NewRecord()
		r.Year, r.Month, r.Day, r.Hour = 2014, 7, 2, h
		r.Values[types.FieldNo] = float64(h + 1)
		r.Values[types.FieldPM25] = 10.5 * float64(h+1)
		r.Values[types.FieldTemp] = -1.25
		r.WD = "NNE"
		r.Station = "Dongsi"
		t.Records = append(t.Records, r)
	}
	t.Records[1].Values[types.FieldPM25] = math.NaN()
	return t.All()
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatCSV, false},
		{"csv", FormatCSV, false},
		{"xlsx", FormatXLSX, false},
		{"json", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestCSVRoundTripsThroughLoader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleView(), FormatCSV))

	path := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	records, err := loader.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, 2014, records[0].Year)
	assert.Equal(t, 2, records[2].Hour)
	assert.Equal(t, 10.5, records[0].Value(types.FieldPM25))
	assert.True(t, math.IsNaN(records[1].Value(types.FieldPM25)))
	assert.True(t, math.IsNaN(records[0].Value(types.FieldSO2)))
	assert.Equal(t, -1.25, records[2].Value(types.FieldTemp))
	assert.Equal(t, "NNE", records[1].WD)
	assert.Equal(t, "Dongsi", records[1].Station)
}

func TestCSVHeaderOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, types.View{}, FormatCSV))
	assert.Equal(t, "No,year,month,day,hour,PM2.5,PM10,SO2,NO2,CO,O3,TEMP,PRES,DEWP,RAIN,WSPM,wd,station\n", buf.String())
}

func TestXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleView(), FormatXLSX))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, Header(), rows[0])

	pm25, err := f.GetCellValue(SheetName, "F2")
	require.NoError(t, err)
	assert.Equal(t, "10.5", pm25)

	missing, err := f.GetCellValue(SheetName, "F3")
	require.NoError(t, err)
	assert.Empty(t, missing)

	station, err := f.GetCellValue(SheetName, "R4")
	require.NoError(t, err)
	assert.Equal(t, "Dongsi", station)
}

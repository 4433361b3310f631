// Package loader reads a directory of hourly air-quality CSV files into a
// single in-memory table.
package loader

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/chrissnell/airquality/internal/types"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// requiredColumns must be present in every file; filtering depends on them
var requiredColumns = []types.Field{types.FieldYear, types.FieldMonth, types.FieldDay, types.FieldHour}

// naValues are treated as missing measurements
var naValues = []string{"NA", "NaN", "nan", "", "<nil>"}

// Loader reads every matching file in a directory and concatenates the rows
type Loader struct {
	dir         string
	pattern     string
	concurrency int
	logger      *zap.SugaredLogger
}

// New creates a loader for dir. Only regular, non-hidden files whose names
// match pattern are read; an empty pattern matches every file.
func New(dir, pattern string, logger *zap.SugaredLogger) *Loader {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Loader{
		dir:         dir,
		pattern:     pattern,
		concurrency: 4,
		logger:      logger,
	}
}

// Dir returns the directory this loader reads
func (l *Loader) Dir() string {
	return l.dir
}

// Load reads the directory and returns the concatenated table. Rows keep
// their in-file order; files are concatenated in lexical file-name order.
// Any failure aborts the whole load with a *LoadError.
func (l *Loader) Load(ctx context.Context) (*types.Table, error) {
	start := time.Now()

	files, err := l.listFiles()
	if err != nil {
		return nil, err
	}

	parsed := make([][]types.Record, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			records, err := ReadFile(path)
			if err != nil {
				return err
			}
			parsed[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if _, ok := err.(*LoadError); ok {
			return nil, err
		}
		return nil, &LoadError{Path: l.dir, Reason: "load cancelled", Err: err}
	}

	total := 0
	for _, records := range parsed {
		total += len(records)
	}

	table := &types.Table{
		Records:  make([]types.Record, 0, total),
		Files:    files,
		LoadedAt: time.Now(),
	}
	for _, records := range parsed {
		table.Records = append(table.Records, records...)
	}

	l.logger.Infow("loaded air quality data",
		"dir", l.dir,
		"files", len(files),
		"rows", total,
		"elapsed", time.Since(start))

	return table, nil
}

func (l *Loader) listFiles() ([]string, error) {
	info, err := os.Stat(l.dir)
	if err != nil {
		return nil, &LoadError{Path: l.dir, Reason: "data directory is not accessible", Err: err}
	}
	if !info.IsDir() {
		return nil, &LoadError{Path: l.dir, Reason: "data path is not a directory"}
	}

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, &LoadError{Path: l.dir, Reason: "unable to list data directory", Err: err}
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() || strings.HasPrefix(name, ".") {
			continue
		}
		if l.pattern != "" {
			ok, err := filepath.Match(l.pattern, name)
			if err != nil {
				return nil, &LoadError{Path: l.dir, Reason: fmt.Sprintf("invalid file pattern %q", l.pattern), Err: err}
			}
			if !ok {
				continue
			}
		}
		files = append(files, filepath.Join(l.dir, name))
	}
	sort.Strings(files)

	if len(files) == 0 {
		return nil, &LoadError{Path: l.dir, Reason: "data directory contains no data files"}
	}
	return files, nil
}

// ReadFile parses a single CSV file into records. A file holding only a
// header row yields no records.
func ReadFile(path string) ([]types.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Reason: "unable to open file", Err: err}
	}

	names, empty, err := readHeader(data)
	if err != nil {
		return nil, &LoadError{Path: path, Reason: "malformed CSV", Err: err}
	}
	if empty {
		if err := checkRequired(path, names); err != nil {
			return nil, err
		}
		return []types.Record{}, nil
	}

	colTypes := map[string]series.Type{
		types.ColumnWindDirection: series.String,
		types.ColumnStation:       series.String,
	}
	for _, field := range types.Fields() {
		colTypes[field.String()] = series.Float
	}

	df := dataframe.ReadCSV(bytes.NewReader(data),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithTypes(colTypes),
		dataframe.NaNValues(naValues),
	)
	if df.Err != nil {
		return nil, &LoadError{Path: path, Reason: "malformed CSV", Err: df.Err}
	}

	return recordsFromFrame(path, df)
}

// readHeader returns the column names and whether the file has no data rows
func readHeader(data []byte) ([]string, bool, error) {
	r := csv.NewReader(bytes.NewReader(data))
	names, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, false, errors.New("missing header row")
	}
	if err != nil {
		return nil, false, err
	}
	if _, err := r.Read(); errors.Is(err, io.EOF) {
		return names, true, nil
	} else if err != nil {
		return nil, false, err
	}
	return names, false, nil
}

func checkRequired(path string, names []string) error {
	present := make(map[string]bool, len(names))
	for _, name := range names {
		present[name] = true
	}
	for _, f := range requiredColumns {
		if !present[f.String()] {
			return &LoadError{Path: path, Reason: fmt.Sprintf("missing required column %q", f.String())}
		}
	}
	return nil
}

func recordsFromFrame(path string, df dataframe.DataFrame) ([]types.Record, error) {
	if err := checkRequired(path, df.Names()); err != nil {
		return nil, err
	}
	present := make(map[string]bool)
	for _, name := range df.Names() {
		present[name] = true
	}

	n := df.Nrow()
	records := make([]types.Record, n)
	for i := range records {
		records[i] = types.NewRecord()
	}

	for _, field := range types.Fields() {
		if !present[field.String()] {
			continue
		}
		values := df.Col(field.String()).Float()
		for i, v := range values {
			records[i].Values[field] = v
		}
	}

	for _, f := range requiredColumns {
		for i := range records {
			v := records[i].Values[f]
			if math.IsNaN(v) || v != math.Trunc(v) {
				// Header is line 1
				return nil, &LoadError{
					Path:   path,
					Reason: fmt.Sprintf("line %d: column %q must be an integer", i+2, f.String()),
				}
			}
		}
	}
	for i := range records {
		r := &records[i]
		r.Year = int(r.Values[types.FieldYear])
		r.Month = int(r.Values[types.FieldMonth])
		r.Day = int(r.Values[types.FieldDay])
		r.Hour = int(r.Values[types.FieldHour])
	}

	if present[types.ColumnWindDirection] {
		for i, wd := range df.Col(types.ColumnWindDirection).Records() {
			records[i].WD = cleanString(wd)
		}
	}

	station := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	var stations []string
	if present[types.ColumnStation] {
		stations = df.Col(types.ColumnStation).Records()
	}
	for i := range records {
		records[i].Station = station
		if stations != nil {
			if s := cleanString(stations[i]); s != "" {
				records[i].Station = s
			}
		}
	}

	return records, nil
}

func cleanString(s string) string {
	s = strings.TrimSpace(s)
	for _, na := range naValues {
		if s == na {
			return ""
		}
	}
	return s
}

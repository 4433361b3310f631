package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/chrissnell/airquality/internal/analysis"
	"github.com/chrissnell/airquality/internal/constants"
	"github.com/chrissnell/airquality/internal/decompose"
	"github.com/chrissnell/airquality/internal/loader"
	"github.com/chrissnell/airquality/internal/types"
	"github.com/chrissnell/airquality/pkg/config"
)

func main() {
	var (
		yamlFile = flag.String("yaml", "", "Path to YAML configuration file (optional; AIRQ_* environment variables apply on top)")
	)
	flag.Parse()

	fmt.Println("Configuration and Data Check")
	fmt.Println("============================")

	var base config.ConfigProvider
	if *yamlFile != "" {
		fmt.Printf("Loading YAML configuration: %s\n", *yamlFile)
		base = config.NewYAMLProvider(*yamlFile)
	}

	cfg, err := config.Load(config.NewEnvProvider(constants.EnvPrefix, base))
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ Configuration invalid: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("✓ Configuration is valid")
	fmt.Printf("  Data: %s (%s)\n", cfg.Data.Dir, cfg.Data.Pattern)
	fmt.Printf("  Server: %s:%d\n", cfg.Server.ListenAddr, cfg.Server.Port)

	table, err := loader.New(cfg.Data.Dir, cfg.Data.Pattern, nil).Load(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ Data could not be loaded: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✓ Loaded %d rows from %d files\n", table.Len(), len(table.Files))
	fmt.Printf("  Years: %v\n", table.Years())
	fmt.Printf("  Months: %v\n", table.Months())
	fmt.Printf("  Stations: %v\n", table.Stations())

	fmt.Println("\nMissing values:")
	for _, s := range analysis.Describe(table.All()) {
		missing := table.Len() - s.Count
		if missing == 0 {
			fmt.Printf("✓ %s complete\n", s.Field)
			continue
		}
		fmt.Printf("✗ %s missing %d of %d (%.1f%%)\n", s.Field, missing, table.Len(), 100*float64(missing)/float64(table.Len()))
	}

	fmt.Println("\nDecomposition coverage:")
	for _, year := range table.Years() {
		for _, month := range table.Months() {
			view := analysis.Filter(table, year, month)
			if view.Len() == 0 {
				continue
			}
			series := analysis.ForwardFill(view.Column(types.FieldPM25))
			if _, err := decompose.Additive(series, cfg.Dashboard.DecompositionPeriod); err != nil {
				fmt.Printf("✗ %d-%02d: %v\n", year, month, err)
				continue
			}
			fmt.Printf("✓ %d-%02d: %d observations, mean PM2.5 %s\n", year, month, view.Len(), meanOf(series))
		}
	}

	fmt.Println("\nCheck completed!")
}

func meanOf(x []float64) string {
	s := analysis.Summarize(types.FieldPM25, x)
	if math.IsNaN(s.Mean) {
		return "n/a"
	}
	return fmt.Sprintf("%.1f", s.Mean)
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/chrissnell/airquality/internal/app"
	"github.com/chrissnell/airquality/internal/constants"
	"github.com/chrissnell/airquality/internal/log"
	"github.com/chrissnell/airquality/pkg/config"
	"github.com/joho/godotenv"
)

func main() {
	cfgFile := flag.String("config", "", "Path to a YAML configuration file (optional; AIRQ_* environment variables override it)")
	dataDir := flag.String("data", "", "Directory of hourly air quality CSV files (overrides data.dir)")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("airquality-dashboard %s\n", constants.Version)
		os.Exit(0)
	}

	// Set up logging
	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// A .env file in the working directory is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warnf("could not read .env file: %v", err)
	}

	if *dataDir != "" {
		os.Setenv(constants.EnvPrefix+"_DATA_DIR", *dataDir)
	}

	cfgData, err := loadConfig(*cfgFile)
	if err != nil {
		log.Errorf("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	application := app.New(cfgData, log.GetSugaredLogger())
	if err := application.Run(context.Background()); err != nil {
		log.Errorf("Application error: %v", err)
		os.Exit(1)
	}
}

func loadConfig(cfgFile string) (*config.ConfigData, error) {
	var base config.ConfigProvider
	if cfgFile != "" {
		filename, _ := filepath.Abs(cfgFile)
		base = config.NewYAMLProvider(filename)
	}

	cfgData, err := config.Load(config.NewEnvProvider(constants.EnvPrefix, base))
	if err != nil {
		return nil, fmt.Errorf("error reading configuration. Did you pass -config or -data? Run with -h for help: %w", err)
	}
	return cfgData, nil
}

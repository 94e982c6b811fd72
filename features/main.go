package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mdobak/go-xerrors"
	pulses "github.com/next-exp/pulses_go/pkg"
)

var configuration pulses.Configuration

var (
	logger         pulses.SlogLogger
	VerbosityLevel int
)

func init() {
	logger = pulses.NewSlogLogger(os.Stdout, os.Stderr)
}

func main() {
	configFilename := flag.String("config", "", "Configuration file path")
	flag.Parse()

	start := time.Now()
	if err := run(*configFilename); err != nil {
		logger.ErrorLog.Error("features failed", slog.Any("error", xerrors.New(err)))
		os.Exit(1)
	}
	fmt.Println()
	fmt.Printf("Runtime (seconds): %.3f\n", time.Since(start).Seconds())
}

func run(configFilename string) error {
	_ = godotenv.Load()

	var err error
	configuration, err = pulses.LoadConfiguration(configFilename)
	if err != nil {
		return fmt.Errorf("error reading configuration file: %w", err)
	}
	pulses.ApplyEnvironment(&configuration)
	pulses.SetConfiguration(configuration)
	pulses.SetLogger(logger)

	VerbosityLevel = configuration.Verbosity
	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Reading configuration file: %s", configFilename)
		logger.Info(message, "main")
		pulses.PrintConfiguration(configuration, logger)
	}

	opts, err := configuration.FeatureOptions()
	if err != nil {
		return err
	}

	geometry, err := pulses.LoadGeometry(configuration)
	if err != nil {
		return err
	}
	events, err := pulses.LoadEvents(configuration)
	if err != nil {
		return err
	}

	results, err := pulses.ProcessEvents(context.Background(), events, configuration.NumWorkers,
		func(event pulses.Event) (pulses.FeatureRow, error) {
			return pulses.Vectorize(event, geometry, opts)
		})
	if err != nil {
		return err
	}

	table := pulses.NewFeatureTable(geometry)
	rows, failed := pulses.SplitResults(results)
	for _, f := range failed {
		logger.Error(fmt.Sprintf("discarding event %d: %v", f.EventID, f.Err))
	}
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}

	if configuration.WriteData && configuration.FileOut != "" {
		if err := writeTable(geometry, table); err != nil {
			return err
		}
	}

	printHead(table, configuration.PrintRows)
	return nil
}

func writeTable(geometry *pulses.Geometry, table *pulses.FeatureTable) error {
	writer, err := pulses.NewWriter(configuration.FileOut, geometry, configuration.CompressionLevel)
	if err != nil {
		return err
	}
	for _, row := range table.Rows {
		if err := writer.WriteFeatures(row); err != nil {
			writer.Close()
			return err
		}
	}
	return writer.Close()
}

// printHead shows the first rows of the table. With thousands of sensors per
// row only the populated columns are printed.
func printHead(table *pulses.FeatureTable, nRows int) {
	fmt.Printf("Feature table: %d rows x %d columns\n", len(table.Rows), len(table.Columns))
	for i := 0; i < len(table.Rows) && i < nRows; i++ {
		values := table.NonZero(i)
		names := make([]string, 0, len(values))
		for name := range values {
			names = append(names, name)
		}
		sort.Strings(names)

		cells := make([]string, len(names))
		for j, name := range names {
			cells[j] = fmt.Sprintf("%s=%g", name, values[name])
		}
		fmt.Printf("%d: %s\n", table.Rows[i].EventID, strings.Join(cells, " "))
	}
}

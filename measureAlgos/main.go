package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/mdobak/go-xerrors"
	pulses "github.com/next-exp/pulses_go/pkg"
	"github.com/next-exp/pulses_go/pkg/hcluster"
)

var configuration pulses.Configuration

var (
	logger         pulses.SlogLogger
	VerbosityLevel int
)

var methods = []hcluster.Method{
	hcluster.Single,
	hcluster.Complete,
	hcluster.Average,
	hcluster.Weighted,
	hcluster.Ward,
}

func init() {
	logger = pulses.NewSlogLogger(os.Stdout, os.Stderr)
}

// measureAlgos times every linkage method on the selected events and writes
// the feature file once per compression level, reporting time and size.
func main() {
	configFilename := flag.String("config", "", "Configuration file path")
	repeat := flag.Int("repeat", 3, "Runs per linkage method")
	noWrite := flag.Bool("no-write", false, "Skip the compression level sweep")
	flag.Parse()

	if err := run(*configFilename, *repeat, !*noWrite); err != nil {
		logger.ErrorLog.Error("measureAlgos failed", slog.Any("error", xerrors.New(err)))
		os.Exit(1)
	}
}

func run(configFilename string, repeat int, sweepCompression bool) error {
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
		pulses.PrintConfiguration(configuration, logger)
	}

	geometry, err := pulses.LoadGeometry(configuration)
	if err != nil {
		return err
	}
	events, err := pulses.LoadEvents(configuration)
	if err != nil {
		return err
	}
	fmt.Println("Total events selected: ", len(events))

	start := time.Now()
	opts, err := configuration.ClusterOptions()
	if err != nil {
		return err
	}
	for _, method := range methods {
		opts.Method = method
		for i := 0; i < repeat; i++ {
			clusters, duration, err := countClusters(events, geometry, opts)
			if err != nil {
				return err
			}
			fmt.Printf("(%s, run %d) Time: %d ms, clusters %d\n", method, i, duration.Milliseconds(), clusters)
		}
	}

	if sweepCompression && configuration.FileOut != "" {
		if err := measureCompression(events, geometry); err != nil {
			return err
		}
	}

	fmt.Printf("Total time: %d ms\n", time.Since(start).Milliseconds())
	return nil
}

// countClusters returns the total number of clusters over all events that
// could be clustered.
func countClusters(events []pulses.Event, geometry *pulses.Geometry, opts pulses.ClusterOptions) (int, time.Duration, error) {
	start := time.Now()
	results, err := pulses.ProcessEvents(context.Background(), events, configuration.NumWorkers,
		func(event pulses.Event) (pulses.ClusterResult, error) {
			return pulses.CountClusters(event, geometry, opts)
		})
	if err != nil {
		return 0, 0, err
	}
	duration := time.Since(start)

	counts, failed := pulses.SplitResults(results)
	if VerbosityLevel > 1 && len(failed) > 0 {
		logger.Info(fmt.Sprintf("%d events could not be clustered", len(failed)), "main")
	}
	total := 0
	for _, c := range counts {
		total += c.NumClusters
	}
	return total, duration, nil
}

func measureCompression(events []pulses.Event, geometry *pulses.Geometry) error {
	fopts, err := configuration.FeatureOptions()
	if err != nil {
		return err
	}
	results, err := pulses.ProcessEvents(context.Background(), events, configuration.NumWorkers,
		func(event pulses.Event) (pulses.FeatureRow, error) {
			return pulses.Vectorize(event, geometry, fopts)
		})
	if err != nil {
		return err
	}
	rows, _ := pulses.SplitResults(results)

	for compressionLevel := 0; compressionLevel < 10; compressionLevel++ {
		start := time.Now()
		writer, err := pulses.NewWriter(configuration.FileOut, geometry, compressionLevel)
		if err != nil {
			return err
		}
		for _, row := range rows {
			if err := writer.WriteFeatures(row); err != nil {
				writer.Close()
				return err
			}
		}
		if err := writer.Close(); err != nil {
			return err
		}
		duration := time.Since(start)

		fileInfo, err := os.Stat(configuration.FileOut)
		if err != nil {
			logger.Error(fmt.Sprintf("Error getting file info: %v", err))
			continue
		}
		fmt.Printf("(hdf5, comp %d) Time: %d ms, size %d bytes\n", compressionLevel, duration.Milliseconds(), fileInfo.Size())
	}
	return nil
}

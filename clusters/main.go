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
	eventID := flag.Int64("event", -1, "Event to count clusters of")
	all := flag.Bool("all", false, "Count clusters of every selected event")
	flag.Parse()

	if err := run(*configFilename, *eventID, *all); err != nil {
		logger.ErrorLog.Error("clusters failed", slog.Any("error", xerrors.New(err)))
		os.Exit(1)
	}
}

func run(configFilename string, eventID int64, all bool) error {
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

	opts, err := configuration.ClusterOptions()
	if err != nil {
		return err
	}

	geometry, err := pulses.LoadGeometry(configuration)
	if err != nil {
		return err
	}

	if !all {
		return countSingleEvent(geometry, eventID, opts)
	}
	return countAllEvents(geometry, opts)
}

// countSingleEvent prints the cluster count of one event. Without -event the
// first event of the file is used.
func countSingleEvent(geometry *pulses.Geometry, eventID int64, opts pulses.ClusterOptions) error {
	events, err := pulses.ReadPulsesParquet(configuration.FilePulses)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return fmt.Errorf("no events in %s", configuration.FilePulses)
	}

	event := events[0]
	if eventID >= 0 {
		var ok bool
		event, ok = pulses.FindEvent(events, eventID)
		if !ok {
			return fmt.Errorf("event %d not found in %s", eventID, configuration.FilePulses)
		}
	}

	result, err := pulses.CountClusters(event, geometry, opts)
	if err != nil {
		return err
	}
	fmt.Println(result.NumClusters)
	return nil
}

func countAllEvents(geometry *pulses.Geometry, opts pulses.ClusterOptions) error {
	events, err := pulses.LoadEvents(configuration)
	if err != nil {
		return err
	}

	start := time.Now()
	results, err := pulses.ProcessEvents(context.Background(), events, configuration.NumWorkers,
		func(event pulses.Event) (pulses.ClusterResult, error) {
			return pulses.CountClusters(event, geometry, opts)
		})
	if err != nil {
		return err
	}

	counts, failed := pulses.SplitResults(results)
	for _, f := range failed {
		logger.Error(fmt.Sprintf("discarding event %d: %v", f.EventID, f.Err))
	}
	for _, c := range counts {
		fmt.Printf("%d\t%d\t%d\n", c.EventID, c.NumSensors, c.NumClusters)
	}

	if configuration.WriteData {
		if err := persist(geometry, counts, opts); err != nil {
			return err
		}
	}

	duration := time.Since(start)
	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Processed %d events (%d discarded) in %d ms", len(results), len(failed), duration.Milliseconds())
		logger.Info(message, "main")
	}
	return nil
}

func persist(geometry *pulses.Geometry, counts []pulses.ClusterResult, opts pulses.ClusterOptions) error {
	if configuration.FileOut != "" {
		writer, err := pulses.NewWriter(configuration.FileOut, geometry, configuration.CompressionLevel)
		if err != nil {
			return err
		}
		for _, c := range counts {
			if err := writer.WriteClusters(c); err != nil {
				writer.Close()
				return err
			}
		}
		if err := writer.Close(); err != nil {
			return err
		}
	}

	if configuration.ClusterDB != "" {
		store, err := pulses.OpenClusterStore(configuration.ClusterDB)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Save(counts, opts); err != nil {
			return err
		}
	}
	return nil
}

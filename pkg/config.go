package pulses

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/next-exp/pulses_go/pkg/hcluster"
	"gopkg.in/yaml.v3"
)

type Configuration struct {
	MaxEvents        int     `json:"max_events" yaml:"max_events"`
	Verbosity        int     `json:"verbosity" yaml:"verbosity"`
	FileGeometry     string  `json:"file_geometry" yaml:"file_geometry"`
	FilePulses       string  `json:"file_pulses" yaml:"file_pulses"`
	FileOut          string  `json:"file_out" yaml:"file_out"`
	ClusterDB        string  `json:"cluster_db" yaml:"cluster_db"`
	GeometryFromDB   bool    `json:"geometry_from_db" yaml:"geometry_from_db"`
	Skip             int     `json:"skip" yaml:"skip"`
	Host             string  `json:"host" yaml:"host"`
	User             string  `json:"user" yaml:"user"`
	Passwd           string  `json:"pass" yaml:"pass"`
	DBName           string  `json:"dbname" yaml:"dbname"`
	NumWorkers       int     `json:"num_workers" yaml:"num_workers"`
	WriteData        bool    `json:"write_data" yaml:"write_data"`
	IncludeAux       bool    `json:"include_aux" yaml:"include_aux"`
	Threshold        float64 `json:"threshold" yaml:"threshold"`
	Criterion        string  `json:"criterion" yaml:"criterion"`
	Method           string  `json:"method" yaml:"method"`
	OnUnknownSensor  string  `json:"on_unknown_sensor" yaml:"on_unknown_sensor"`
	CompressionLevel int     `json:"compression_level" yaml:"compression_level"`
	PrintRows        int     `json:"print_rows" yaml:"print_rows"`
}

var configuration Configuration

func GetConfiguration() Configuration {
	return configuration
}

func SetConfiguration(config Configuration) {
	configuration = config
}

// DefaultConfiguration holds the values used for any field missing from the
// configuration file. The sample size and clustering threshold are the ones
// the exploratory notebooks ran with.
func DefaultConfiguration() Configuration {
	var config Configuration
	config.MaxEvents = 100
	config.Verbosity = 0
	config.Skip = 0
	config.Host = "localhost"
	config.User = "reader"
	config.Passwd = "readonly"
	config.DBName = "SENSORS"
	config.NumWorkers = 1
	config.WriteData = true
	config.IncludeAux = false
	config.Threshold = 150
	config.Criterion = "distance"
	config.Method = "single"
	config.OnUnknownSensor = string(LookupAbort)
	config.CompressionLevel = 4
	config.PrintRows = 5
	return config
}

func LoadConfiguration(filename string) (Configuration, error) {
	config := DefaultConfiguration()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		err = json.Unmarshal(data, &config)
	}
	if err != nil {
		return config, err
	}
	return config, config.Validate()
}

// Validate checks the values that cannot be caught by the type system.
func (c Configuration) Validate() error {
	if c.MaxEvents < 0 {
		return fmt.Errorf("max_events must be >= 0, got %d", c.MaxEvents)
	}
	if c.Skip < 0 {
		return fmt.Errorf("skip must be >= 0, got %d", c.Skip)
	}
	if c.NumWorkers < 1 {
		return fmt.Errorf("num_workers must be >= 1, got %d", c.NumWorkers)
	}
	if c.CompressionLevel < 0 || c.CompressionLevel > 9 {
		return fmt.Errorf("compression_level must be in [0, 9], got %d", c.CompressionLevel)
	}
	if _, err := ParseLookupPolicy(c.OnUnknownSensor); err != nil {
		return err
	}
	opts, err := c.ClusterOptions()
	if err != nil {
		return err
	}
	if math.IsNaN(c.Threshold) || c.Threshold < 0 {
		return fmt.Errorf("threshold must be >= 0, got %g: %w", c.Threshold, hcluster.ErrBadThreshold)
	}
	if opts.Criterion == hcluster.MaxClust && c.Threshold < 1 {
		return fmt.Errorf("threshold must be >= 1 with criterion maxclust, got %g: %w", c.Threshold, hcluster.ErrBadThreshold)
	}
	return nil
}

// ClusterOptions translates the clustering fields into the options used by
// CountClusters.
func (c Configuration) ClusterOptions() (ClusterOptions, error) {
	opts := DefaultClusterOptions()
	method, err := parseMethod(c.Method)
	if err != nil {
		return opts, err
	}
	criterion, err := parseCriterion(c.Criterion)
	if err != nil {
		return opts, err
	}
	policy, err := ParseLookupPolicy(c.OnUnknownSensor)
	if err != nil {
		return opts, err
	}
	opts.IncludeAux = c.IncludeAux
	opts.Threshold = c.Threshold
	opts.Method = method
	opts.Criterion = criterion
	opts.OnUnknown = policy
	return opts, nil
}

// FeatureOptions translates the vectorizer fields of the configuration.
func (c Configuration) FeatureOptions() (FeatureOptions, error) {
	opts := DefaultFeatureOptions()
	policy, err := ParseLookupPolicy(c.OnUnknownSensor)
	if err != nil {
		return opts, err
	}
	opts.OnUnknown = policy
	return opts, nil
}

// ApplyEnvironment overrides the database credentials with the PULSES_DB_*
// environment variables when they are set.
func ApplyEnvironment(config *Configuration) {
	if v, ok := os.LookupEnv("PULSES_DB_HOST"); ok {
		config.Host = v
	}
	if v, ok := os.LookupEnv("PULSES_DB_USER"); ok {
		config.User = v
	}
	if v, ok := os.LookupEnv("PULSES_DB_PASS"); ok {
		config.Passwd = v
	}
	if v, ok := os.LookupEnv("PULSES_DB_NAME"); ok {
		config.DBName = v
	}
}

func PrintConfiguration(config Configuration, logger Logger) {
	logger.Info(fmt.Sprintf("File geometry: %s", config.FileGeometry), "config")
	logger.Info(fmt.Sprintf("File pulses: %s", config.FilePulses), "config")
	logger.Info(fmt.Sprintf("File out: %s", config.FileOut), "config")
	logger.Info(fmt.Sprintf("Cluster DB: %s", config.ClusterDB), "config")
	logger.Info(fmt.Sprintf("Geometry from DB: %t", config.GeometryFromDB), "config")
	logger.Info(fmt.Sprintf("Host: %s", config.Host), "config")
	logger.Info(fmt.Sprintf("DB name: %s", config.DBName), "config")
	logger.Info(fmt.Sprintf("Skip: %d", config.Skip), "config")
	logger.Info(fmt.Sprintf("Max events: %d", config.MaxEvents), "config")
	logger.Info(fmt.Sprintf("Verbosity: %d", config.Verbosity), "config")
	logger.Info(fmt.Sprintf("Number of workers: %d", config.NumWorkers), "config")
	logger.Info(fmt.Sprintf("Write data: %t", config.WriteData), "config")
	logger.Info(fmt.Sprintf("Include auxiliary: %t", config.IncludeAux), "config")
	logger.Info(fmt.Sprintf("Threshold: %g", config.Threshold), "config")
	logger.Info(fmt.Sprintf("Criterion: %s", config.Criterion), "config")
	logger.Info(fmt.Sprintf("Method: %s", config.Method), "config")
	logger.Info(fmt.Sprintf("On unknown sensor: %s", config.OnUnknownSensor), "config")
	logger.Info(fmt.Sprintf("Compression level: %d", config.CompressionLevel), "config")
	logger.Info(fmt.Sprintf("Print rows: %d", config.PrintRows), "config")
}

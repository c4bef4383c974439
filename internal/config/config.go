package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Hermes   HermesConfig   `yaml:"hermes"`
	Paths    PathsConfig    `yaml:"paths"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	MetricsPort int    `yaml:"metrics_port"`
	AdminToken  string `yaml:"admin_token"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// HermesConfig points at the NATS server. Events are disabled when URL is empty.
type HermesConfig struct {
	URL string `yaml:"url"`
}

type PathsConfig struct {
	TruthFile     string   `yaml:"truth_file"`
	ForecastsRoot string   `yaml:"forecasts_root"`
	Collections   []string `yaml:"collections"`
}

type ScoringConfig struct {
	Regions                []string `yaml:"regions"`
	Targets                []string `yaml:"targets"`
	Workers                int      `yaml:"workers"`
	AbortFileOnLookupError bool     `yaml:"abort_file_on_lookup_error"`
	SkipBlacklisted        bool     `yaml:"skip_blacklisted"`
}

type OutputConfig struct {
	ScoresFile    string `yaml:"scores_file"`
	BlacklistFile string `yaml:"blacklist_file"`
	ErrorLogFile  string `yaml:"error_log_file"`
	XLSXFile      string `yaml:"xlsx_file"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultRegions are the locations scored for every forecast file.
var DefaultRegions = []string{
	"US National",
	"HHS Region 1", "HHS Region 2", "HHS Region 3", "HHS Region 4", "HHS Region 5",
	"HHS Region 6", "HHS Region 7", "HHS Region 8", "HHS Region 9", "HHS Region 10",
}

// DefaultTargets are the forecast targets scored for every region.
var DefaultTargets = []string{
	"Season onset", "Season peak week", "Season peak percentage",
	"1 wk ahead", "2 wk ahead", "3 wk ahead", "4 wk ahead",
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        8700,
			MetricsPort: 8701,
		},
		Paths: PathsConfig{
			TruthFile:     "./scores/target-multivals.csv",
			ForecastsRoot: "./model-forecasts",
			Collections:   []string{"component-models", "cv-ensemble-models"},
		},
		Scoring: ScoringConfig{
			Regions: append([]string(nil), DefaultRegions...),
			Targets: append([]string(nil), DefaultTargets...),
			Workers: runtime.NumCPU(),
		},
		Output: OutputConfig{
			ScoresFile:    "./scores/scores.csv",
			BlacklistFile: "./csv-blacklist.yaml",
			ErrorLogFile:  "./csv-error.log",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the runner cannot work with.
func (c *Config) Validate() error {
	var errs []error
	if c.Paths.TruthFile == "" {
		errs = append(errs, errors.New("paths.truth_file is required"))
	}
	if c.Paths.ForecastsRoot == "" {
		errs = append(errs, errors.New("paths.forecasts_root is required"))
	}
	if len(c.Scoring.Regions) == 0 {
		errs = append(errs, errors.New("scoring.regions must not be empty"))
	}
	if len(c.Scoring.Targets) == 0 {
		errs = append(errs, errors.New("scoring.targets must not be empty"))
	}
	if c.Scoring.Workers < 1 {
		errs = append(errs, fmt.Errorf("scoring.workers must be positive, got %d", c.Scoring.Workers))
	}
	return errors.Join(errs...)
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("EPISCORE_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("EPISCORE_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("EPISCORE_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("EPISCORE_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("EPISCORE_HERMES_URL"); v != "" {
		cfg.Hermes.URL = v
	}
	if v := os.Getenv("EPISCORE_TRUTH_FILE"); v != "" {
		cfg.Paths.TruthFile = v
	}
	if v := os.Getenv("EPISCORE_FORECASTS_ROOT"); v != "" {
		cfg.Paths.ForecastsRoot = v
	}
	if v := os.Getenv("EPISCORE_COLLECTIONS"); v != "" {
		cfg.Paths.Collections = splitList(v)
	}
	if v := os.Getenv("EPISCORE_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scoring.Workers = n
		}
	}
	if v := os.Getenv("EPISCORE_ABORT_FILE_ON_LOOKUP_ERROR"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Scoring.AbortFileOnLookupError = b
		}
	}
	if v := os.Getenv("EPISCORE_SKIP_BLACKLISTED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Scoring.SkipBlacklisted = b
		}
	}
	if v := os.Getenv("EPISCORE_SCORES_FILE"); v != "" {
		cfg.Output.ScoresFile = v
	}
	if v := os.Getenv("EPISCORE_XLSX_FILE"); v != "" {
		cfg.Output.XLSXFile = v
	}
	if v := os.Getenv("EPISCORE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("EPISCORE_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

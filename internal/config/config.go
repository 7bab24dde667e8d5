package config

import (
	"os"
	"time"

	"github.com/yanun0323/errors"
	"gopkg.in/yaml.v3"

	"bondpipe/internal/feed"
	"bondpipe/internal/historical"
	"bondpipe/internal/product"
	"bondpipe/internal/tradebooking"
	"bondpipe/pkg/exception"
)

const (
	DefaultSeed       uint64 = 39373
	DefaultDataPoints        = 1000
	DefaultDataDir           = "data"
	DefaultResultDir         = "result"
)

// FileConfig mirrors the YAML config layout.
type FileConfig struct {
	DataDir     string            `yaml:"dataDir"`
	ResultDir   string            `yaml:"resultDir"`
	Seed        uint64            `yaml:"seed"`
	DataPoints  int               `yaml:"dataPoints"`
	Start       time.Time         `yaml:"start"`
	Instruments []string          `yaml:"instruments"`
	Books       []string          `yaml:"books"`
	CatalogPath string            `yaml:"catalogPath"`
	Historical  historical.Config `yaml:"historical"`
	Profiling   ProfilingConfig   `yaml:"profiling"`
}

// ProfilingConfig enables continuous profiling when ServerAddress is set.
type ProfilingConfig struct {
	ServerAddress string            `yaml:"serverAddress"`
	AppName       string            `yaml:"appName"`
	Tags          map[string]string `yaml:"tags"`
}

func (p ProfilingConfig) Enabled() bool {
	return p.ServerAddress != ""
}

// Loaded is the resolved configuration ready for use.
type Loaded struct {
	DataDir     string
	ResultDir   string
	Catalog     *product.Catalog
	Instruments []string
	Books       []string
	Generator   feed.Config
	Historical  historical.Config
	Profiling   ProfilingConfig
}

// Default returns the fixed run: every catalog instrument, seed 39373.
func Default() FileConfig {
	return FileConfig{
		DataDir:    DefaultDataDir,
		ResultDir:  DefaultResultDir,
		Seed:       DefaultSeed,
		DataPoints: DefaultDataPoints,
		Books:      append([]string(nil), tradebooking.DefaultBooks...),
		Historical: historical.Config{Backend: historical.BackendFile},
		Profiling:  ProfilingConfig{AppName: "bondpipe"},
	}
}

// Load overlays the YAML file at path onto Default and resolves it. An
// empty path resolves the defaults.
func Load(path string) (Loaded, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Loaded{}, errors.Wrap(err, "read config").With("path", path)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Loaded{}, errors.Wrapf(exception.ErrFormat, "decode config %s: %v", path, err)
		}
	}
	return cfg.Resolve()
}

// Validate checks the fields that do not need the catalog.
func (cfg FileConfig) Validate() error {
	if cfg.DataDir == "" {
		return errors.Wrap(exception.ErrInvalidArgument, "dataDir is empty")
	}
	if cfg.ResultDir == "" {
		return errors.Wrap(exception.ErrInvalidArgument, "resultDir is empty")
	}
	if cfg.DataPoints <= 0 {
		return errors.Wrap(exception.ErrInvalidArgument, "dataPoints must be > 0")
	}
	if len(cfg.Books) == 0 {
		return errors.Wrap(exception.ErrInvalidArgument, "books is empty")
	}
	for _, book := range cfg.Books {
		if book == "" {
			return errors.Wrap(exception.ErrInvalidArgument, "book name is empty")
		}
	}
	switch cfg.Historical.Backend {
	case "", historical.BackendFile, historical.BackendJournal, historical.BackendPebble, historical.BackendPostgres:
	default:
		return errors.Wrap(exception.ErrUnknownBackend, cfg.Historical.Backend)
	}
	return nil
}

// Resolve validates cfg, loads the catalog and checks every instrument
// against it.
func (cfg FileConfig) Resolve() (Loaded, error) {
	if err := cfg.Validate(); err != nil {
		return Loaded{}, err
	}
	catalog, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return Loaded{}, err
	}

	ids := cfg.Instruments
	if len(ids) == 0 {
		ids = catalog.IDs()
	}
	for _, id := range ids {
		if _, err := catalog.Lookup(id); err != nil {
			return Loaded{}, err
		}
	}

	hist := cfg.Historical
	if hist.Backend == "" {
		hist.Backend = historical.BackendFile
	}
	if hist.Dir == "" {
		hist.Dir = cfg.ResultDir
	}

	return Loaded{
		DataDir:     cfg.DataDir,
		ResultDir:   cfg.ResultDir,
		Catalog:     catalog,
		Instruments: append([]string(nil), ids...),
		Books:       append([]string(nil), cfg.Books...),
		Generator: feed.Config{
			Seed:       cfg.Seed,
			DataPoints: cfg.DataPoints,
			Start:      cfg.Start,
			Books:      append([]string(nil), cfg.Books...),
		},
		Historical: hist,
		Profiling:  cfg.Profiling,
	}, nil
}

func loadCatalog(path string) (*product.Catalog, error) {
	if path == "" {
		return product.DefaultCatalog()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open catalog").With("path", path)
	}
	defer f.Close()
	return product.LoadCatalog(f)
}

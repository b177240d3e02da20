package curator

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/heartmarshall/vocab-curator/internal/adapter/provider/freedict"
	"github.com/heartmarshall/vocab-curator/internal/domain"
)

// Supported dataset sinks.
const (
	SinkSQLite   = "sqlite"
	SinkPostgres = "postgres"
)

// Config holds curation pipeline settings.
type Config struct {
	CorpusPath           string        `yaml:"corpus_path"            env:"CURATOR_CORPUS_PATH"`
	CMUPath              string        `yaml:"cmu_path"               env:"CURATOR_CMU_PATH"`
	WordNetPath          string        `yaml:"wordnet_path"           env:"CURATOR_WORDNET_PATH"`
	WordNetExceptionsDir string        `yaml:"wordnet_exceptions_dir" env:"CURATOR_WORDNET_EXCEPTIONS_DIR"`
	AudioDir             string        `yaml:"audio_dir"              env:"CURATOR_AUDIO_DIR"`
	OutputPath           string        `yaml:"output_path"            env:"CURATOR_OUTPUT_PATH"            env-default:"./vocab.db"`
	Sink                 string        `yaml:"sink"                   env:"CURATOR_SINK"                   env-default:"sqlite"`
	Count                int           `yaml:"count"                  env:"CURATOR_COUNT"                  env-default:"10000"`
	MinWordLength        int           `yaml:"min_word_length"        env:"CURATOR_MIN_WORD_LENGTH"        env-default:"2"`
	MaxWordLength        int           `yaml:"max_word_length"        env:"CURATOR_MAX_WORD_LENGTH"        env-default:"25"`
	OverselectFactor     float64       `yaml:"overselect_factor"      env:"CURATOR_OVERSELECT_FACTOR"      env-default:"1.4"`
	EnrichAPI            bool          `yaml:"enrich_api"             env:"CURATOR_ENRICH_API"`
	APIBatch             int           `yaml:"api_batch"              env:"CURATOR_API_BATCH"              env-default:"0"`
	APIBaseURL           string        `yaml:"api_base_url"           env:"CURATOR_API_BASE_URL"`
	APICacheDir          string        `yaml:"api_cache_dir"          env:"CURATOR_API_CACHE_DIR"          env-default:"./cache"`
	APIDelay             time.Duration `yaml:"api_delay"              env:"CURATOR_API_DELAY"              env-default:"150ms"`
	APITimeout           time.Duration `yaml:"api_timeout"            env:"CURATOR_API_TIMEOUT"            env-default:"10s"`
	RateLimitBackoff     time.Duration `yaml:"rate_limit_backoff"     env:"CURATOR_RATE_LIMIT_BACKOFF"     env-default:"5s"`
	BatchSize            int           `yaml:"batch_size"             env:"CURATOR_BATCH_SIZE"             env-default:"1000"`
	ReportPath           string        `yaml:"report_path"            env:"CURATOR_REPORT_PATH"            env-default:"./verification_report.json"`
	ReportOnly           bool          `yaml:"report_only"            env:"CURATOR_REPORT_ONLY"`
}

// LoadConfig reads curator configuration from a YAML file and environment variables.
// Priority: ENV > YAML > defaults (via env-default tags).
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				return nil, fmt.Errorf("curator config: read %s: %w", path, err)
			}
			return &cfg, nil
		}
		return nil, fmt.Errorf("curator config: file %s not found", path)
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("curator config: read env: %w", err)
	}

	return &cfg, nil
}

// Validate checks ranges and required inputs.
func (c *Config) Validate() error {
	var errs []domain.FieldError
	add := func(field, msg string) {
		errs = append(errs, domain.FieldError{Field: field, Message: msg})
	}

	if c.Count <= 0 {
		add("count", "must be > 0")
	}
	if c.MinWordLength < 1 {
		add("min_word_length", "must be >= 1")
	}
	if c.MaxWordLength < c.MinWordLength {
		add("max_word_length", "must be >= min_word_length")
	}
	if c.OverselectFactor < 1 {
		add("overselect_factor", "must be >= 1")
	}
	if c.APIBatch < 0 {
		add("api_batch", "must be >= 0")
	}
	if c.BatchSize <= 0 {
		add("batch_size", "must be > 0")
	}
	if c.APIDelay < 0 || c.RateLimitBackoff < 0 {
		add("api_delay", "durations must not be negative")
	}

	switch c.Sink {
	case SinkSQLite:
		if c.OutputPath == "" {
			add("output_path", "is required for the sqlite sink")
		}
	case SinkPostgres:
	default:
		add("sink", fmt.Sprintf("must be %s or %s", SinkSQLite, SinkPostgres))
	}

	if !c.ReportOnly {
		if c.CorpusPath == "" {
			add("corpus_path", "is required")
		}
		if c.CMUPath == "" {
			add("cmu_path", "is required")
		}
		if c.WordNetPath == "" {
			add("wordnet_path", "is required")
		}
		if c.WordNetExceptionsDir == "" {
			add("wordnet_exceptions_dir", "is required to resolve irregular and doubled-consonant inflections")
		}
		if c.EnrichAPI && c.APICacheDir == "" {
			add("api_cache_dir", "is required when enrich_api is set")
		}
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ProviderConfig returns the remote dictionary client settings.
func (c *Config) ProviderConfig() freedict.Config {
	return freedict.Config{
		BaseURL: c.APIBaseURL,
		Timeout: c.APITimeout,
		Delay:   c.APIDelay,
	}
}

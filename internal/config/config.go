package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

const (
	EnvPrefix = "BULLETIN"
	// DefaultFile is read when no config path is given and it exists.
	DefaultFile = "bulletin.yaml"
)

type Config struct {
	Sources SourcesConfig `yaml:"sources" envconfig:"SOURCES"`
	Output  OutputConfig  `yaml:"output" envconfig:"OUTPUT"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

// SourcesConfig holds the default locations offered by the menu.
type SourcesConfig struct {
	TxtFile     string `yaml:"txt_file" envconfig:"TXT_FILE" validate:"required"`
	JSONDir     string `yaml:"json_dir" envconfig:"JSON_DIR" validate:"required"`
	XMLDir      string `yaml:"xml_dir" envconfig:"XML_DIR" validate:"required"`
	RSSDir      string `yaml:"rss_dir" envconfig:"RSS_DIR" validate:"required"`
	DefaultCity string `yaml:"default_city" envconfig:"DEFAULT_CITY" validate:"required"`
}

type OutputConfig struct {
	Dir          string `yaml:"dir" envconfig:"DIR" validate:"required"`
	FeedFile     string `yaml:"feed_file" envconfig:"FEED_FILE" validate:"required"`
	WordCounts   string `yaml:"word_counts" envconfig:"WORD_COUNTS" validate:"required"`
	LetterCounts string `yaml:"letter_counts" envconfig:"LETTER_COUNTS" validate:"required"`
	// Workbook is optional, an empty name turns the XLSX export off.
	Workbook string `yaml:"workbook" envconfig:"WORKBOOK"`
}

type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=text json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

func Default() *Config {
	return &Config{
		Sources: SourcesConfig{
			TxtFile:     "news_file.txt",
			JSONDir:     "json_files",
			XMLDir:      "xml_files",
			RSSDir:      "rss_files",
			DefaultCity: "Unknown",
		},
		Output: OutputConfig{
			Dir:          ".",
			FeedFile:     "NewsFeed.txt",
			WordCounts:   "word_counts.csv",
			LetterCounts: "letter_counts.csv",
			Workbook:     "stats.xlsx",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "text",
			Output:   "console",
			FilePath: "logs/bulletin.log",
		},
	}
}

// Option changes the loaded configuration before it is validated.
type Option func(*Config)

// WithLogLevel overrides the logging level unless level is empty.
func WithLogLevel(level string) Option {
	return func(c *Config) {
		if level != "" {
			c.Logging.Level = level
		}
	}
}

// Load builds the configuration from defaults, then the YAML file at path,
// then a .env file, then BULLETIN_* environment variables, then opts. Each
// layer overrides only what it sets. An empty path falls back to
// DefaultFile when it exists.
func Load(path string, opts ...Option) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// .env is optional
	_ = godotenv.Load()

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/polemap/pkg/constants"
	"github.com/agentstation/polemap/pkg/errors"
)

// Config holds the application configuration loaded from config files,
// environment variables and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Engine configuration
	TablesFile   string
	MemoSize     int
	BatchWorkers int

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (POLEMAP_* and LOG_*)
// 3. .env files
// 4. Config file (~/.polemap.yaml or ./.polemap.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	return loadConfig(viper.New())
}

// LoadConfigFile loads configuration like LoadConfig, reading the given
// config file instead of searching for one. The file must exist.
func LoadConfigFile(path string) (*Config, error) {
	v := viper.New()
	v.Set("config", path)
	return loadConfig(v)
}

func loadConfig(v *viper.Viper) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v.SetEnvPrefix("polemap")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	v.SetDefault("memo_size", constants.DefaultMemoSize)
	v.SetDefault("batch_workers", constants.DefaultBatchWorkers)

	if configFile := v.GetString("config"); configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, &errors.ConfigError{Component: "config", Message: "cannot read " + configFile, Err: err}
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".polemap")
		// A missing default config file is fine.
		_ = v.ReadInConfig()
	}

	config := &Config{
		// Global flags (may be overridden by cobra flags later)
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		TablesFile:   v.GetString("tables_file"),
		MemoSize:     v.GetInt("memo_size"),
		BatchWorkers: v.GetInt("batch_workers"),

		// LOG_* variables are read unprefixed, like the library logger.
		LogLevel:  firstNonEmpty(os.Getenv("LOG_LEVEL"), v.GetString("log_level")),
		LogFormat: firstNonEmpty(os.Getenv("LOG_FORMAT"), v.GetString("log_format"), "auto"),
		LogOutput: firstNonEmpty(os.Getenv("LOG_OUTPUT"), v.GetString("log_output"), "stderr"),
	}

	if config.MemoSize <= 0 {
		config.MemoSize = constants.DefaultMemoSize
	}
	if config.BatchWorkers <= 0 {
		config.BatchWorkers = constants.DefaultBatchWorkers
	}

	return config, nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// godotenv never overwrites a set variable, so .env.local is loaded first
// to take precedence over .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

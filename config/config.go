package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/truemediaorg/postanalyzer/analyzer"
	"github.com/truemediaorg/postanalyzer/model"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Analyzer   AnalyzerConfig
	Validation ValidationConfig

	DiagnosticsPort int

	LogLevel  log.Level
	LogFormat LogFormat
}

type AnalyzerConfig struct {
	ApiURL     url.URL
	Timeout    time.Duration
	ApiKey     string
	SecretPath string
}

type ValidationConfig struct {
	Mode     model.ValidationMode
	Platform model.Platform
	Domains  []string
}

type LogFormat string

const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

type EnvfileKey string

const (
	// Base URL to the analysis API, including the version prefix (e.g. "/api/v1")
	EnvfileKeyAnalyzerAPI = "ANALYZER_API_URL"
	// Timeout for each call to the analysis API, in seconds
	EnvfileKeyAnalyzerTimeout = "ANALYZER_TIMEOUT"
	// API key sent as X-API-KEY, if the API sits behind a gateway
	EnvfileKeyAnalyzerAPIKey = "ANALYZER_API_KEY"
	// AWS Secrets Manager path where the API key can be found
	// NOTE: only used when ANALYZER_API_KEY is empty
	EnvfileKeyAnalyzerSecretPath = "ANALYZER_SECRETS_PATH"

	// "lightweight" checks post URLs locally, "advanced" leaves it to the API
	EnvfileKeyValidationMode = "VALIDATION_MODE"
	// Platform whose post URLs are accepted (e.g. "X")
	EnvfileKeyPlatform = "PLATFORM"
	// Comma separated hosts accepted by the local URL check, overriding the platform's own
	EnvfileKeyPlatformDomains = "PLATFORM_DOMAINS"

	// Port for the /healthz and /metrics endpoints of long running sessions, 0 disables
	EnvfileKeyDiagnosticsPort = "DIAGNOSTICS_PORT"

	// Log level (e.g. "debug", "info", "warn", "error")
	EnvfileKeyLogLevel = "LOG_LEVEL"
	// Log output format (e.g. "text", "json")
	EnvfileKeyLogFormat = "LOG_FORMAT"
)

// FromEnvfile loads config from env vars and an optional .env in the working
// directory, exiting on errors.
func FromEnvfile() Config {
	cfg, err := Load(".")
	if err != nil {
		log.Fatalf("error reading config: %v", err)
	}
	return cfg
}

// Load reads config from env vars, falling back to a .env file in dir.
// A missing .env is fine; everything has a default.
func Load(dir string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName(".env")
	v.SetConfigType("dotenv")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
	}

	rawURL := getConfigString(v, EnvfileKeyAnalyzerAPI)
	if rawURL == "" {
		rawURL = analyzer.DefaultBaseURL
	}
	apiURL, err := url.Parse(rawURL)
	if err != nil {
		return Config{}, fmt.Errorf("error parsing analyzer URL: %w", err)
	}

	timeout := time.Duration(getConfigInt(v, EnvfileKeyAnalyzerTimeout)) * time.Second
	if timeout <= 0 {
		timeout = analyzer.DefaultTimeout
	}

	mode := model.ValidationModeLightweight
	if raw := getConfigString(v, EnvfileKeyValidationMode); raw != "" {
		mode, err = model.ParseValidationMode(raw)
		if err != nil {
			return Config{}, err
		}
	}

	platform := model.PlatformX
	if raw := getConfigString(v, EnvfileKeyPlatform); raw != "" {
		if platform, err = model.ParsePlatform(raw); err != nil {
			return Config{}, err
		}
	}

	domains := parseList(getConfigString(v, EnvfileKeyPlatformDomains))
	if len(domains) == 0 {
		domains = platform.Domains()
	}

	logLevel := log.InfoLevel
	if raw := getConfigString(v, EnvfileKeyLogLevel); raw != "" {
		if logLevel, err = log.ParseLevel(raw); err != nil {
			// Default to info level but log a warning
			log.Warnf("unable to parse log level: %v", err)
			logLevel = log.InfoLevel
		}
	}

	logFormat := LogFormat(LogFormatText)
	if raw := getConfigString(v, EnvfileKeyLogFormat); raw != "" {
		if logFormat, err = parseLogFormat(raw); err != nil {
			// Default to text formatter but log a warning
			log.Warnf("unable to parse log format: %v", err)
			logFormat = LogFormatText
		}
	}

	return Config{
		Analyzer: AnalyzerConfig{
			ApiURL:     *apiURL,
			Timeout:    timeout,
			ApiKey:     getConfigString(v, EnvfileKeyAnalyzerAPIKey),
			SecretPath: getConfigString(v, EnvfileKeyAnalyzerSecretPath),
		},
		Validation: ValidationConfig{
			Mode:     mode,
			Platform: platform,
			Domains:  domains,
		},
		DiagnosticsPort: getConfigInt(v, EnvfileKeyDiagnosticsPort),
		LogLevel:        logLevel,
		LogFormat:       logFormat,
	}, nil
}

// ConfigureLogging applies the level and format to the standard logrus logger.
func (c Config) ConfigureLogging() {
	log.SetLevel(c.LogLevel)
	switch c.LogFormat {
	case LogFormatJSON:
		log.SetFormatter(&log.JSONFormatter{})
	default:
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

func parseLogFormat(raw string) (LogFormat, error) {
	switch strings.ToLower(raw) {
	case LogFormatJSON:
		return LogFormatJSON, nil
	case LogFormatText:
		return LogFormatText, nil
	default:
		return "", fmt.Errorf("unidentified log format: %s", raw)
	}
}

func parseList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Gets a config value as a string from env vars or a .env file
func getConfigString(v *viper.Viper, key string) string {
	value := os.Getenv(key)
	if value == "" {
		value = v.GetString(key)
	}
	return value
}

// Gets a config value as an int from env vars or a .env file
func getConfigInt(v *viper.Viper, key string) int {
	envVarValue := os.Getenv(key)
	if envVarValue == "" {
		return v.GetInt(key)
	}
	value, err := strconv.Atoi(envVarValue)
	if err != nil {
		return 0
	}
	return value
}

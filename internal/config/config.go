// Package config loads readme-mcp settings from an optional YAML file,
// a .env file, and the process environment (highest precedence).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/HendryAvila/readme-mcp/internal/writer"
)

// Environment variables read by Load.
const (
	EnvToken    = "GITHUB_TOKEN"
	EnvAPIURL   = "README_MCP_API_URL"
	EnvDataDir  = "README_MCP_DATA_DIR"
	EnvLogLevel = "README_MCP_LOG_LEVEL"
	EnvHistory  = "README_MCP_HISTORY"
)

// DefaultCommitMessage is the writer's default, exposed for config files.
const DefaultCommitMessage = writer.DefaultCommitMessage

// Config is the resolved runtime configuration.
type Config struct {
	// Token is the GitHub access token. Empty means anonymous access.
	Token string `yaml:"token"`
	// APIURL overrides the GitHub REST API root (GitHub Enterprise).
	APIURL string `yaml:"api_url"`
	// DataDir holds the history database.
	DataDir string `yaml:"data_dir"`
	// History enables the run history log.
	History bool `yaml:"history"`
	// LogLevel is any level accepted by logrus.ParseLevel.
	LogLevel string `yaml:"log_level"`
	// CommitMessage is the default message for save_readme_to_github.
	CommitMessage string `yaml:"commit_message"`
	// RequestTimeout bounds each forge HTTP request.
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		DataDir:        filepath.Join(home, ".readme-mcp"),
		History:        true,
		LogLevel:       "info",
		CommitMessage:  DefaultCommitMessage,
		RequestTimeout: 30 * time.Second,
	}
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// Load resolves the configuration. path may be empty, in which case the
// default locations are searched and a missing file is not an error.
// A .env file in the working directory is loaded first without
// overriding variables already set.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := Default()

	if path == "" {
		path = FindConfigFile()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %q: %w", path, err)
		}
	}

	applyEnv(cfg)
	cfg.Token = resolveToken(cfg.Token)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfigFile returns the first existing config file in the standard
// locations, or "" when there is none.
func FindConfigFile() string {
	candidates := []string{".readme-mcp.yaml", ".readme-mcp.yml"}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		candidates = append(candidates,
			filepath.Join(home, ".config", "readme-mcp.yaml"),
			filepath.Join(home, ".readme-mcp.yaml"),
		)
	}

	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvToken); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvHistory); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.History = enabled
		} else {
			logrus.Warnf("Ignoring %s=%q: not a boolean", EnvHistory, v)
		}
	}
}

// resolveToken expands ${VAR} references and, if the result names an
// existing file, reads the token from it.
func resolveToken(raw string) string {
	if raw == "" {
		return raw
	}

	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logrus.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	if info, err := os.Stat(resolved); err == nil && !info.IsDir() {
		data, err := os.ReadFile(resolved)
		if err != nil {
			logrus.Warnf("Failed to read token file %q: %v", resolved, err)
			return resolved
		}
		return strings.TrimSpace(string(data))
	}

	return resolved
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.APIURL != "" {
		u, err := url.Parse(c.APIURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("api_url must be an absolute http(s) URL, got %q", c.APIURL)
		}
	}
	if c.History && c.DataDir == "" {
		return errors.New("data_dir is required when history is enabled")
	}
	if c.CommitMessage == "" {
		c.CommitMessage = DefaultCommitMessage
	}
	return nil
}

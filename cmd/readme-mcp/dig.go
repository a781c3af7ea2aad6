package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	logger "github.com/sirupsen/logrus"
	"go.uber.org/dig"

	"github.com/HendryAvila/readme-mcp/internal/config"
	"github.com/HendryAvila/readme-mcp/internal/forge"
	forgegithub "github.com/HendryAvila/readme-mcp/internal/forge/github"
	"github.com/HendryAvila/readme-mcp/internal/history"
	"github.com/HendryAvila/readme-mcp/internal/inspector"
	mcpserver "github.com/HendryAvila/readme-mcp/internal/server"
	"github.com/HendryAvila/readme-mcp/internal/writer"
)

// options are the persistent root flags.
type options struct {
	configPath string
	verbose    bool
}

// newContainer registers every provider. Construction is lazy: a command
// only builds what its Invoke function asks for.
func newContainer(opts options) (*dig.Container, error) {
	container := dig.New()

	providers := []any{
		func() (*config.Config, error) { return loadConfig(opts) },
		newLogger,
		func(l *logger.Logger) logger.FieldLogger { return l },
		newGitHubClient,
		func(c *forgegithub.Client) forge.Client { return c },
		inspector.New,
		writer.New,
		newHistory,
		newMCPServer,
	}
	for _, p := range providers {
		if err := container.Provide(p); err != nil {
			return nil, fmt.Errorf("registering provider: %w", err)
		}
	}
	return container, nil
}

// invoke builds a container and runs fn with its dependencies.
func invoke(opts options, fn any) error {
	container, err := newContainer(opts)
	if err != nil {
		return err
	}
	return dig.RootCause(container.Invoke(fn))
}

func loadConfig(opts options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if opts.verbose {
		cfg.LogLevel = logger.DebugLevel.String()
	}
	return cfg, nil
}

// newLogger writes to stderr; stdout carries the MCP transport.
func newLogger(cfg *config.Config) (*logger.Logger, error) {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}

	l := logger.New()
	l.SetOutput(os.Stderr)
	//nolint:exhaustruct // Minimal TextFormatter initialization with required fields only
	l.SetFormatter(&logger.TextFormatter{FullTimestamp: true})
	l.SetLevel(level)
	return l, nil
}

func newGitHubClient(cfg *config.Config, log logger.FieldLogger) (*forgegithub.Client, error) {
	opts := []forgegithub.Option{
		forgegithub.WithTimeout(cfg.RequestTimeout),
		forgegithub.WithUserAgent(mcpserver.Name + "/" + mcpserver.Version),
	}
	if cfg.APIURL != "" {
		opts = append(opts, forgegithub.WithBaseURL(cfg.APIURL))
	}
	if cfg.Token == "" {
		log.Debug("No GitHub token configured, using anonymous access")
	}

	client, err := forgegithub.New(cfg.Token, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating GitHub client: %w", err)
	}
	return client, nil
}

// newHistory returns nil when history is disabled or cannot be opened;
// the server runs without it.
func newHistory(cfg *config.Config, log logger.FieldLogger) *history.Store {
	if !cfg.History {
		return nil
	}
	store, err := history.New(history.Config{DataDir: cfg.DataDir})
	if err != nil {
		log.WithError(err).Warn("History disabled")
		return nil
	}
	return store
}

func newMCPServer(
	cfg *config.Config,
	in *inspector.Inspector,
	w *writer.Writer,
	store *history.Store,
	log logger.FieldLogger,
) *server.MCPServer {
	return mcpserver.New(mcpserver.Deps{
		Inspector:     in,
		Writer:        w,
		Logger:        log,
		CommitMessage: cfg.CommitMessage,
		History:       store,
	})
}

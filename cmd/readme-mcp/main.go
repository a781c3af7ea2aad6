// readme-mcp: README generator MCP server
//
// Inspects a GitHub repository and writes a README.md for it. Runs as an
// MCP server on stdio for AI coding tools, or directly from the shell.
//
// Usage:
//
//	readme-mcp serve                 # Start MCP server (stdio transport)
//	readme-mcp generate <url>        # Print a generated README
//	readme-mcp analyze <url>         # Print repository facts as JSON
//	readme-mcp version [--check]     # Print version, optionally check for updates
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/HendryAvila/readme-mcp/internal/composer"
	forgegithub "github.com/HendryAvila/readme-mcp/internal/forge/github"
	"github.com/HendryAvila/readme-mcp/internal/history"
	"github.com/HendryAvila/readme-mcp/internal/inspector"
	"github.com/HendryAvila/readme-mcp/internal/reference"
	mcpserver "github.com/HendryAvila/readme-mcp/internal/server"
	"github.com/HendryAvila/readme-mcp/internal/updater"
)

func buildRootCommand() *cobra.Command {
	opts := &options{}

	//nolint:exhaustruct // Minimal Command initialization with required fields only
	cmd := &cobra.Command{
		Use:   "readme-mcp",
		Short: "README generator for GitHub repositories",
		Long: `Inspects a GitHub repository (metadata, top-level layout, contributors,
topics) and renders a README.md from what it finds.

Run "readme-mcp serve" from your MCP client configuration to expose the
generate_readme and save_readme_to_github tools. Set GITHUB_TOKEN to access
private repositories or to commit the result.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "",
		"Path to config file (default: auto-detect)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false,
		"Enable debug logging")

	cmd.AddCommand(
		buildServeCommand(opts),
		buildGenerateCommand(opts),
		buildAnalyzeCommand(opts),
		buildVersionCommand(opts),
	)
	return cmd
}

func buildServeCommand(opts *options) *cobra.Command {
	//nolint:exhaustruct // Minimal Command initialization with required fields only
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return invoke(*opts, func(
				s *server.MCPServer,
				gh *forgegithub.Client,
				store *history.Store,
				log *logger.Logger,
			) error {
				if store != nil {
					defer func() {
						if err := store.Close(); err != nil {
							log.WithError(err).Warn("Closing history store")
						}
					}()
				}

				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()

				go checkForUpdates(ctx, gh, log)

				errWriter := log.WriterLevel(logger.ErrorLevel)
				defer func() { _ = errWriter.Close() }()

				stdio := server.NewStdioServer(s)
				stdio.SetErrorLogger(stdlog.New(errWriter, "", 0))

				log.WithField("version", mcpserver.Version).Info("readme-mcp listening on stdio")
				err := stdio.Listen(ctx, os.Stdin, os.Stdout)
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			})
		},
	}
}

func buildGenerateCommand(opts *options) *cobra.Command {
	//nolint:exhaustruct // Minimal Command initialization with required fields only
	return &cobra.Command{
		Use:   "generate <repository-url>",
		Short: "Print a generated README for a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return invoke(*opts, func(in *inspector.Inspector) error {
				facts, err := inspect(cmd.Context(), in, args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), composer.Compose(facts))
				return err
			})
		},
	}
}

func buildAnalyzeCommand(opts *options) *cobra.Command {
	//nolint:exhaustruct // Minimal Command initialization with required fields only
	return &cobra.Command{
		Use:   "analyze <repository-url>",
		Short: "Print repository facts as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return invoke(*opts, func(in *inspector.Inspector) error {
				facts, err := inspect(cmd.Context(), in, args[0])
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(facts)
			})
		},
	}
}

func buildVersionCommand(opts *options) *cobra.Command {
	var check bool

	//nolint:exhaustruct // Minimal Command initialization with required fields only
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "readme-mcp v%s\n", mcpserver.Version)
			if !check {
				return nil
			}
			return invoke(*opts, func(gh *forgegithub.Client) {
				result := updater.CheckVersion(cmd.Context(), gh, mcpserver.Version)
				switch {
				case result.UpdateAvailable:
					fmt.Fprintf(out, "Update available: v%s → v%s\n%s\n",
						result.CurrentVersion, result.LatestVersion, result.ReleaseURL)
				case result.LatestVersion == "":
					fmt.Fprintln(out, "Could not determine the latest release")
				default:
					fmt.Fprintf(out, "Latest release is v%s\n", result.LatestVersion)
				}
			})
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "Check GitHub for a newer release")
	return cmd
}

func inspect(ctx context.Context, in *inspector.Inspector, rawURL string) (inspector.Facts, error) {
	ref, err := reference.Parse(rawURL)
	if err != nil {
		return inspector.Facts{}, err
	}
	return in.Inspect(ctx, ref)
}

// checkForUpdates logs a notice when a newer release exists. Failures are
// ignored.
func checkForUpdates(ctx context.Context, gh *forgegithub.Client, log logger.FieldLogger) {
	result := updater.CheckVersion(ctx, gh, mcpserver.Version)
	if result.UpdateAvailable {
		log.WithFields(logger.Fields{
			"current": result.CurrentVersion,
			"latest":  result.LatestVersion,
			"release": result.ReleaseURL,
		}).Info("Update available")
	}
}

func main() {
	if err := buildRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

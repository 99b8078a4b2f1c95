package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"GovAI/internal/app"
	"GovAI/internal/config"
	"GovAI/internal/httpapi"
	"GovAI/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	rootCmd := &cobra.Command{
		Use:   "govai",
		Short: "GovAI Bangladesh - government service assistant",
		Long: `GovAI answers questions about Bangladeshi government services in
Bengali or English, grounded on official web sources.

Run 'govai serve' to start the HTTP API.
Run 'govai ask "<question>"' to answer a single question.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "config file path (defaults to $GOVAI_CONFIG)")
	rootCmd.PersistentFlags().Bool("table", false, "print tables instead of JSON where supported")

	rootCmd.AddCommand(
		serveCmd(),
		askCmd(),
		statsCmd(),
		logsCmd(),
		archiveCmd(),
		versionCmd(),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) config.Config {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}

// cliApplication keeps stdout clean for JSON output by logging to stderr.
func cliApplication(cmd *cobra.Command) *app.Application {
	cfg := loadConfig(cmd)
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	return app.New(cfg, logger)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Serve /query, /health and the admin dashboard API until SIGINT or
SIGTERM. The usage digest runs alongside when digest.enabled is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd)
			if cmd.Flags().Changed("port") {
				cfg.Server.Port, _ = cmd.Flags().GetInt("port")
			}
			if cmd.Flags().Changed("host") {
				cfg.Server.Host, _ = cmd.Flags().GetString("host")
			}

			logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)
			slog.SetDefault(logger)

			application := app.New(cfg, logger)
			defer func() {
				if err := application.Close(); err != nil {
					logger.Warn("close application", "error", err)
				}
			}()

			if err := application.Run(cmd.Context()); err != nil {
				logger.Error("server stopped", "error", err)
				return err
			}
			logger.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().IntP("port", "p", 8000, "HTTP server port")
	cmd.Flags().String("host", "0.0.0.0", "HTTP server host")

	return cmd
}

func askCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer one question and print the result as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			noSources, _ := cmd.Flags().GetBool("no-sources")

			application := cliApplication(cmd)
			defer application.Close()

			outcome, err := application.Ask(cmd.Context(), strings.Join(args, " "), !noSources)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), outcome)
		},
	}

	cmd.Flags().Bool("no-sources", false, "omit search sources from the output")

	return cmd
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print usage statistics as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			asTable, _ := cmd.Flags().GetBool("table")

			application := cliApplication(cmd)
			defer application.Close()

			stats := application.Dashboard().Stats()
			if asTable {
				return renderTable(cmd.OutOrStdout(), []string{"metric", "value"}, statsRows(stats))
			}
			return printJSON(cmd.OutOrStdout(), stats)
		},
	}
}

func logsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print query log records as JSON",
		Long: `Print the newest query log records, newest first. With --all the
records are printed in chronological order instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			chronological, _ := cmd.Flags().GetBool("all")
			asTable, _ := cmd.Flags().GetBool("table")

			application := cliApplication(cmd)
			defer application.Close()

			dashboard := application.Dashboard()
			records := dashboard.Recent(limit)
			if chronological {
				records = dashboard.All(limit)
			}
			if asTable {
				return renderTable(cmd.OutOrStdout(), recordHeader, recordRows(records))
			}
			return printJSON(cmd.OutOrStdout(), records)
		},
	}

	cmd.Flags().IntP("limit", "n", 20, "maximum number of records")
	cmd.Flags().Bool("all", false, "chronological order")

	return cmd
}

func archiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Inspect the SQLite query archive",
	}

	tail := &cobra.Command{
		Use:   "tail",
		Short: "Print the newest archived records as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			application := cliApplication(cmd)
			defer application.Close()

			archive := application.Archive()
			if archive == nil {
				return errors.New("query archive is not configured (set archive.dsn or ARCHIVE_DSN)")
			}

			records, err := archive.Recent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("read archive: %w", err)
			}
			if asTable, _ := cmd.Flags().GetBool("table"); asTable {
				return renderTable(cmd.OutOrStdout(), recordHeader, recordRows(records))
			}
			return printJSON(cmd.OutOrStdout(), records)
		},
	}
	tail.Flags().IntP("limit", "n", 20, "maximum number of records")

	cmd.AddCommand(tail)
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "govai %s\n", httpapi.Version)
		},
	}
}

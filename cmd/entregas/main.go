package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/shinsei/entregas/internal/anomaly"
	"github.com/shinsei/entregas/internal/api"
	"github.com/shinsei/entregas/internal/config"
	"github.com/shinsei/entregas/internal/report"
	"github.com/shinsei/entregas/internal/storage"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "entregas",
		Short: "Delivery report API",
	}

	var configPath string
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")

	rootCmd.AddCommand(serveCmd(&configPath))
	rootCmd.AddCommand(migrateCmd(&configPath))
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(anomaliesCmd(&configPath))
	rootCmd.AddCommand(historyCmd(&configPath))
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			log := setupLogger(cfg.Logging)

			store, err := setupStorage(cfg.Storage, log)
			if err != nil {
				return fmt.Errorf("failed to setup storage: %w", err)
			}
			if store != nil {
				defer store.Close()
				if err := store.Migrate(context.Background()); err != nil {
					return fmt.Errorf("failed to run migrations: %w", err)
				}
				log.Info().Msg("database migrations completed")
			}

			server := api.NewServer(*cfg, store, log)
			go func() {
				if err := server.Start(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("server error")
				}
			}()

			log.Info().
				Str("version", version).
				Int("port", cfg.Server.Port).
				Str("storage", cfg.Storage.Driver).
				Bool("signed", cfg.Report.SigningSecret != "").
				Msg("entregas is running")

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			log.Info().Msg("shutting down...")

			if err := server.Shutdown(cfg.Server.ShutdownTimeout); err != nil {
				log.Error().Err(err).Msg("server shutdown error")
			}

			log.Info().Msg("entregas stopped")
			return nil
		},
	}
}

func migrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the report history schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cleanup, err := storeFromConfig(*configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			if store == nil {
				return fmt.Errorf("storage is disabled, nothing to migrate")
			}

			fmt.Fprintln(cmd.OutOrStdout(), "migrations completed successfully")
			return nil
		},
	}
}

func reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report <file|->",
		Short: "Build a report from a JSON request file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			records, err := report.ParseRequest(body)
			if err != nil {
				return err
			}

			stats, err := report.Generate(records)
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), map[string]interface{}{
				"mensagem":     report.MsgReportGenerated,
				"estatisticas": stats,
			})
		},
	}
}

func anomaliesCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "anomalies <file|->",
		Short: "Check freight loads in a JSON file for suspicious values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			body, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			loads, history, err := anomaly.ParseRequest(body)
			if err != nil {
				return err
			}

			detector := anomaly.NewDetector(anomaly.Options{
				Contamination: cfg.Anomaly.Contamination,
				Trees:         cfg.Anomaly.Trees,
				Seed:          cfg.Anomaly.Seed,
				MinLoads:      cfg.Anomaly.MinLoads,
				MinHistory:    cfg.Anomaly.MinHistory,
			})
			result, err := detector.Analyze(loads, history)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
}

func historyCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored report summaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			store, cleanup, err := storeFromConfig(*configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			if store == nil {
				return fmt.Errorf("storage is disabled, no history to show")
			}

			reports, err := store.ListReports(context.Background(), limit)
			if err != nil {
				return fmt.Errorf("failed to list reports: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(reports) == 0 {
				fmt.Fprintln(out, "No reports found.")
				return nil
			}

			for _, r := range reports {
				st := r.Statistics
				fmt.Fprintf(out, "  %s  %s  entregas=%d  valor_total=%.2f  taxa_sucesso=%.2f%%\n",
					r.ID, r.CreatedAt.Format(time.RFC3339), st.TotalCount, st.TotalValue, st.SuccessRate)
			}
			return nil
		},
	}
	cmd.Flags().Int("limit", 20, "maximum number of reports to show")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "entregas v%s\n", version)
		},
	}
}

func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// setupStorage returns a nil Storage when history is disabled.
func setupStorage(cfg config.StorageConfig, log zerolog.Logger) (storage.Storage, error) {
	switch cfg.Driver {
	case "none", "":
		log.Info().Msg("report history disabled")
		return nil, nil
	case "sqlite":
		if dir := filepath.Dir(cfg.SQLite.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
		log.Info().Str("path", cfg.SQLite.Path).Msg("using SQLite storage")
		return storage.NewSQLite(cfg.SQLite.Path)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}

func storeFromConfig(configPath string) (storage.Storage, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := setupLogger(cfg.Logging)
	store, err := setupStorage(cfg.Storage, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to setup storage: %w", err)
	}
	if store == nil {
		return nil, func() {}, nil
	}

	if err := store.Migrate(context.Background()); err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, func() { store.Close() }, nil
}

func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	body, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return body, nil
}

func printJSON(w io.Writer, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(out))
	return nil
}

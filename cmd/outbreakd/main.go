package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/outbreak-core/internal/outbreakd"
	"github.com/GoSim-25-26J-441/outbreak-core/internal/scenario"
	"github.com/GoSim-25-26J-441/outbreak-core/pkg/config"
	"github.com/GoSim-25-26J-441/outbreak-core/pkg/logger"
)

var (
	configFile string
	logLevel   string
)

func main() {
	if err := buildCLI().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildCLI() *cobra.Command {
	root := &cobra.Command{
		Use:   "outbreakd",
		Short: "Contact-network epidemic simulator for closed vessel populations",
		Long: `outbreakd builds a weighted contact graph over a vessel roster and
runs discrete-day stochastic SEIRF scenarios against it: an
uncontrolled baseline, cabin quarantine and vaccination strategies,
then compares their outcomes.`,
		Version:      "0.1.0",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetDefault(logger.NewText(logLevel, os.Stderr))
		},
	}

	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (built-in defaults when empty)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(buildRunCommand())
	root.AddCommand(buildSweepCommand())
	root.AddCommand(buildServeCommand())
	return root
}

func loadConfig() (*config.Config, error) {
	if configFile == "" {
		return config.Default(), nil
	}
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func buildRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the configured scenario set and print the comparison",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			plan, err := scenario.NewPlan(cfg)
			if err != nil {
				return err
			}

			logger.Info("scenario set starting",
				"population", cfg.Population.Size,
				"days", cfg.Run.Days,
				"scenarios", len(cfg.Scenarios),
				"seed", cfg.Run.Seed)

			runner := scenario.NewRunner(plan, logger.Default)
			set, err := runner.RunAll(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]any{
				"summaries":   set.Summaries,
				"comparisons": set.Comparisons,
				"best":        set.Best,
			})
		},
	}
}

func buildSweepCommand() *cobra.Command {
	var scenarioName string
	var startDays []int

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Sweep a quarantine scenario over candidate start days",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			sc, err := findScenario(cfg, scenarioName)
			if err != nil {
				return err
			}
			plan, err := scenario.NewPlan(cfg)
			if err != nil {
				return err
			}

			runner := scenario.NewRunner(plan, logger.Default)
			outcomes, err := runner.SweepQuarantineStart(cmd.Context(), sc, startDays)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]any{
				"outcomes":         outcomes,
				"mean_attack_rate": scenario.MeanAttackRate(outcomes),
			})
		},
	}

	cmd.Flags().StringVar(&scenarioName, "scenario", "quarantine", "name of the quarantine scenario to sweep")
	cmd.Flags().IntSliceVar(&startDays, "start-days", []int{1, 5, 10, 20, 30}, "candidate quarantine start days")
	return cmd
}

func buildServeCommand() *cobra.Command {
	var httpAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return serve(cfg, httpAddr)
		},
	}

	cmd.Flags().StringVar(&httpAddr, "http-addr", ":8080", "HTTP listen address")
	return cmd
}

func serve(cfg *config.Config, httpAddr string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var archive *outbreakd.SummaryArchive
	if cfg.Store != nil && cfg.Store.SQLitePath != "" {
		var err error
		archive, err = outbreakd.OpenSummaryArchive(cfg.Store.SQLitePath)
		if err != nil {
			return err
		}
		defer archive.Close()
		logger.Info("summary archive open", "path", cfg.Store.SQLitePath)
	}

	store := outbreakd.NewRunStore()
	collector := outbreakd.NewCollector()
	executor := outbreakd.NewRunExecutor(store, collector, archive, logger.Default)
	server := outbreakd.NewHTTPServer(store, executor, collector, logger.Default)

	httpSrv := &http.Server{
		Addr:              httpAddr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info("HTTP server listening", "addr", httpAddr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown requested")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown error", "error", err)
	}
	executor.Wait()
	return nil
}

func findScenario(cfg *config.Config, name string) (config.Scenario, error) {
	for _, sc := range cfg.Scenarios {
		if sc.Name == name {
			return sc, nil
		}
	}
	return config.Scenario{}, fmt.Errorf("scenario %q not found in config", name)
}

func printJSON(cmd *cobra.Command, body any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(body)
}

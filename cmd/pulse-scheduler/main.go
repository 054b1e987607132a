package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cuemby/pulse-scheduler/pkg/api"
	"github.com/cuemby/pulse-scheduler/pkg/config"
	"github.com/cuemby/pulse-scheduler/pkg/log"
	"github.com/cuemby/pulse-scheduler/pkg/scheduler"
	"github.com/spf13/cobra"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pulse-scheduler",
	Short: "Pulse - a simulated HPC batch workload scheduler",
	Long: `Pulse simulates a SLURM-style batch workload manager: priority-FIFO
job admission over a fixed set of named compute partitions, with
Prometheus metrics and an HTTP API. Job execution itself is simulated,
not dispatched to real compute — see "serve --help" to run it.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"pulse-scheduler version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")

	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(serveCmd)
}

func initLogging() {
	logLevel, _ := rootCmd.PersistentFlags().GetString("log-level")
	logJSON, _ := rootCmd.PersistentFlags().GetBool("log-json")

	log.Init(log.Config{
		Level:      log.Level(logLevel),
		JSONOutput: logJSON,
	})
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scheduler and its HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("config", "", "Path to an optional YAML config file")
	serveCmd.Flags().String("host", "", "Listen host (overrides config and HOST env)")
	serveCmd.Flags().Int("port", 0, "Listen port (overrides config and PORT env)")
}

func runServe(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if host, _ := cmd.Flags().GetString("host"); host != "" {
		cfg.Host = host
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Port = port
	}

	if f := rootCmd.PersistentFlags().Lookup("log-level"); f != nil && f.Changed {
		cfg.LogLevel = f.Value.String()
	}
	if f := rootCmd.PersistentFlags().Lookup("log-json"); f != nil && f.Changed {
		cfg.LogJSON, _ = rootCmd.PersistentFlags().GetBool("log-json")
	}
	log.Init(log.Config{Level: log.Level(cfg.LogLevel), JSONOutput: cfg.LogJSON})

	opts := []scheduler.Option{
		scheduler.WithRand(rand.New(rand.NewSource(time.Now().UnixNano()))),
	}
	if len(cfg.Partitions) > 0 {
		opts = append(opts, scheduler.WithPartitions(cfg.ToPartitions()))
	}

	sched := scheduler.New(Version, opts...)
	sched.Start()

	server := api.NewServer(sched)
	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(cfg.Addr()); err != nil {
			errCh <- err
		}
	}()

	fmt.Printf("pulse-scheduler listening on %s\n", cfg.Addr())
	fmt.Println("Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		fmt.Println("\nShutting down...")
	case err := <-errCh:
		fmt.Fprintf(os.Stderr, "\nAPI server error: %v\n", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error shutting down API server: %v\n", err)
	}
	sched.Stop()

	fmt.Println("Shutdown complete")
	return nil
}

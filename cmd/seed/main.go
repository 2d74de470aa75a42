package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"finrag-orchestrator/internal/di"
	"finrag-orchestrator/internal/domain"
	"finrag-orchestrator/internal/infra"
	"finrag-orchestrator/internal/infra/config"
)

var (
	verbose     bool
	seedFile    string
	concurrency int
	ratePerSec  float64
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed finance chunks into the vector store",
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the chunk table and vector index",
	RunE:  runInit,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Validate, embed, and insert chunks from a JSON file",
	Long: `Validate, embed, and insert finance chunks from a JSON file.

The file must contain an array of objects:
  [{"text": "...", "category": "transactional|insight|educational",
    "date": "YYYY-MM-DD", "source": "...", "amount": 123.45}]

The batch is atomic: one invalid chunk rejects the whole file.

Examples:
  seed init
  seed run --file chunks.json
  seed run --file chunks.json --concurrency 8 --rate 16`,
	RunE: runSeed,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	runCmd.Flags().StringVar(&seedFile, "file", "chunks.json", "JSON file with chunk seeds")
	runCmd.Flags().IntVar(&concurrency, "concurrency", 4, "concurrent embedding calls")
	runCmd.Flags().Float64Var(&ratePerSec, "rate", 8, "embedding calls per second (0 = unlimited)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(runCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

func connect(ctx context.Context, cfg *config.Config, log *slog.Logger) (*di.ApplicationComponents, func(), error) {
	pool, err := infra.NewPostgresDB(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to db: %w", err)
	}

	components, err := di.NewApplicationComponents(cfg, pool, log)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	return components, pool.Close, nil
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	components, closePool, err := connect(ctx, config.Load(), newLogger())
	if err != nil {
		return err
	}
	defer closePool()

	if err := components.ChunkRepo.EnsureSchema(ctx); err != nil {
		return err
	}
	fmt.Println("schema ready")
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	log := newLogger()

	data, err := os.ReadFile(seedFile)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", seedFile, err)
	}

	var seeds []domain.ChunkSeed
	if err := json.Unmarshal(data, &seeds); err != nil {
		return fmt.Errorf("failed to parse %s: %w", seedFile, err)
	}

	cfg := config.Load()
	cfg.IngestParallelism = concurrency
	cfg.IngestRatePerSec = ratePerSec

	ctx := cmd.Context()
	components, closePool, err := connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closePool()

	start := time.Now()
	count, err := components.IngestUsecase.Execute(ctx, seeds)
	if err != nil {
		return err
	}

	fmt.Printf("inserted %d chunks in %s\n", count, time.Since(start).Round(time.Millisecond))
	return nil
}

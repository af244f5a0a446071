package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/halcyon-foods/returns-ingest/internal/config"
	"github.com/halcyon-foods/returns-ingest/internal/db"
	"github.com/halcyon-foods/returns-ingest/internal/ingest"
	"github.com/halcyon-foods/returns-ingest/internal/reader"
	"github.com/halcyon-foods/returns-ingest/internal/report"
	"github.com/halcyon-foods/returns-ingest/internal/repository"
	"github.com/halcyon-foods/returns-ingest/internal/schema"
)

var (
	configPath     string
	migrationsPath string
)

var rootCmd = &cobra.Command{
	Use:   "returns",
	Short: "Consolidate branch returns extracts into a master dataset",
	Long: `returns ingests the spreadsheet and CSV extracts produced by branch
offices, enforces the shared returns schema over them, and merges every
conforming record into one master workbook plus an error report listing
every deviation. Ingestion is best effort: malformed cells are blanked and
reported, never fatal.`,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Ingest the input directory and write the run artifacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		sources, err := reader.Discover(cfg.InputDir)
		if err != nil {
			return err
		}
		if len(sources) == 0 {
			log.Printf("[run] no input files found in %s; drop branch files there and re-run", cfg.InputDir)
			return nil
		}

		pipeline := ingest.NewPipeline(schema.Returns())
		result := pipeline.Ingest(cmd.Context(), sources)

		writer, err := report.NewWriter(cfg.OutputDir)
		if err != nil {
			return err
		}

		masterPath, err := writer.WriteMaster(result.Master)
		if err != nil {
			return err
		}
		log.Printf("[run] saved master database to %s", masterPath)

		if len(result.Ledger) == 0 {
			log.Printf("[run] no validation errors found")
		} else {
			ledgerPath, err := writer.WriteLedger(result.Ledger)
			if err != nil {
				return err
			}
			log.Printf("[run] saved error report to %s (%d findings)", ledgerPath, len(result.Ledger))
		}

		summaryPath, err := writer.WriteSummaryCharts(result.Master)
		if err != nil {
			return err
		}
		log.Printf("[run] saved summary charts to %s", summaryPath)

		for _, entry := range report.TopReasons(result.Master, 3) {
			log.Printf("[run] top reason: %s (%d)", entry.Reason, entry.Count)
		}

		if cfg.Persist {
			if err := persist(cmd.Context(), cfg, result); err != nil {
				return err
			}
		}

		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Accept branch extracts over HTTP instead of a drop directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		pipeline := ingest.NewPipeline(schema.Returns())

		corsHandler := cors.New(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000"},
			AllowCredentials: true,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
		})

		mux := http.NewServeMux()
		mux.Handle("/ingest", corsHandler.Handler(ingest.NewHTTPHandler(pipeline)))

		// With persistence on, serve the stored error ledger too.
		if cfg.Persist {
			conn, err := db.NewConnection(cmd.Context(), cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer conn.Close()
			ledgerRepo := repository.NewLedgerRepository(conn.Pool)
			mux.Handle("/findings", corsHandler.Handler(repository.NewFindingsHandler(ledgerRepo)))
		}

		server := &http.Server{
			Addr:         cfg.ServerAddr,
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		go func() {
			log.Printf("[serve] listening on %s, upload endpoint at /ingest", cfg.ServerAddr)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Failed to start server: %v", err)
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}

		log.Println("Server exited")
		return nil
	},
}

// persist mirrors the run artifacts into Postgres for follow-up queries.
// The whole run goes in one transaction so a failed insert never leaves a
// partially persisted run behind.
func persist(ctx context.Context, cfg config.Config, result ingest.Result) error {
	if err := db.RunMigrations(migrationsPath, cfg.Database); err != nil {
		return err
	}

	conn, err := db.NewConnection(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer conn.Close()

	err = conn.WithTx(ctx, func(tx pgx.Tx) error {
		if err := repository.NewMasterRepository(tx).InsertRows(ctx, result.RunID, result.Master); err != nil {
			return err
		}
		ledgerRepo := repository.NewLedgerRepository(tx)
		for _, finding := range result.Ledger {
			if err := ledgerRepo.Record(ctx, result.RunID, finding); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("[run] persisted run %s (%d rows, %d findings)", result.RunID, len(result.Master.Rows), len(result.Ledger))
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".", "directory containing config.yaml")
	runCmd.Flags().StringVar(&migrationsPath, "migrations", "./migrations", "directory containing SQL migrations")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

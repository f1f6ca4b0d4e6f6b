package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amrshaker000/origin-trace/internal/api"
	"github.com/amrshaker000/origin-trace/internal/assistant"
	"github.com/amrshaker000/origin-trace/internal/catalog"
	"github.com/amrshaker000/origin-trace/internal/config"
	"github.com/amrshaker000/origin-trace/internal/ledger"
	"github.com/amrshaker000/origin-trace/internal/metrics"
	"github.com/amrshaker000/origin-trace/internal/store"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	inventory, err := store.NewSQLite(cfg.DataDir)
	if err != nil {
		log.Fatalf("store error: %v", err)
	}
	defer inventory.Close()

	if err := seedIfEmpty(inventory, cfg.SeedFile); err != nil {
		log.Fatalf("seed error: %v", err)
	}

	records, err := inventory.ListRecords()
	if err != nil {
		log.Fatalf("inventory error: %v", err)
	}
	cat := catalog.New(records)
	log.Printf("catalog loaded: %d devices", cat.Len())

	var reports api.ReportClient
	if cfg.LedgerBaseURL != "" {
		reports = ledger.NewClient(cfg.LedgerBaseURL, cfg.LedgerTimeout)
		log.Printf("ledger client configured: %s", cfg.LedgerBaseURL)
	} else {
		log.Println("no ledger configured, report endpoints disabled")
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	handlers := api.NewHandlers(cat, inventory, assistant.New(), reports, metrics.NewRegistry())

	r := gin.Default()
	api.SetupRoutes(r, handlers, cfg.CORSOrigins)

	srv := &http.Server{
		Addr:    cfg.Host + ":" + cfg.Port,
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	log.Printf("listening on %s", srv.Addr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutting down on %s", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}
}

// seedIfEmpty imports the bundled device records on first start so the
// marketplace is never empty. An existing inventory is left alone.
func seedIfEmpty(inventory *store.SQLiteStore, seedFile string) error {
	count, err := inventory.CountRecords()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if seedFile == "" {
		return nil
	}

	f, err := os.Open(seedFile)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("seed file %s not found, starting empty", seedFile)
			return nil
		}
		return err
	}
	defer f.Close()

	records, err := catalog.DecodeRecords(f)
	if err != nil {
		return err
	}
	imported, err := inventory.ImportRecords(records)
	if err != nil {
		return err
	}
	log.Printf("seeded %d device records from %s", imported, seedFile)
	return nil
}

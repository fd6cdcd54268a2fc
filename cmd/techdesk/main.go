package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/rsanthanam/techdesk/internal/api"
	"github.com/rsanthanam/techdesk/internal/auth"
	"github.com/rsanthanam/techdesk/internal/catalog"
	"github.com/rsanthanam/techdesk/internal/common"
	"github.com/rsanthanam/techdesk/internal/config"
	"github.com/rsanthanam/techdesk/internal/conversation"
	"github.com/rsanthanam/techdesk/internal/ingest"
	"github.com/rsanthanam/techdesk/internal/kb"
	"github.com/rsanthanam/techdesk/internal/sqlite"
)

func main() {
	logger := common.Logger()
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		logger.Debug("techdesk: .env file not loaded", "error", err)
	} else {
		logger.Info("techdesk: environment loaded from .env")
	}

	cfg := config.Load()
	addr := flag.String("addr", cfg.Addr, "listen address")
	dbPath := flag.String("db", cfg.DatabasePath, "path to the SQLite database")
	workbook := flag.String("kb", cfg.WorkbookPath, "path to the knowledge base workbook")
	backupDir := flag.String("backups", cfg.BackupDir, "directory for workbook backups")
	flag.Parse()

	logger.Info("techdesk: startup initiated", "addr", *addr, "db", *dbPath, "workbook", *workbook)

	store, err := sqlite.Open(*dbPath)
	if err != nil {
		logger.Error("techdesk: database open failed", "error", err)
		fmt.Println("database error:", err)
		os.Exit(1)
	}
	defer store.Close()

	authSvc := auth.New(store, cfg.SessionTTL)
	if err := authSvc.SeedDefaults(ctx); err != nil {
		logger.Error("techdesk: seeding default users failed", "error", err)
		fmt.Println("seed error:", err)
		os.Exit(1)
	}

	cat := catalog.New()
	ingestSvc := ingest.New(*workbook, *backupDir, store, cat)
	if count, err := ingestSvc.Reload(ctx); err != nil {
		// Queries answer DATA_MISSING until a workbook is uploaded, but try
		// the last ingested table first.
		if records, dbErr := store.AllRecords(ctx); dbErr == nil && len(records) > 0 {
			cat.Replace(records)
			logger.Warn("techdesk: workbook unavailable, serving last ingested table", "records", len(records), "error", err)
		} else {
			logger.Warn("techdesk: knowledge base unavailable", "error", err)
		}
	} else {
		logger.Info("techdesk: knowledge base ready", "records", count)
	}

	resolver := kb.NewResolver(cat)
	conv := conversation.New(store)
	server := api.NewServer(authSvc, conv, resolver, store, ingestSvc)

	reachable := *addr
	if strings.HasPrefix(reachable, ":") {
		reachable = "localhost" + reachable
	}
	logger.Info("techdesk: server listening", "addr", *addr, "health", fmt.Sprintf("http://%s/healthz", reachable))
	fmt.Printf("Serving on %s\n", *addr)

	srv := &http.Server{Addr: *addr, Handler: server}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("techdesk: server stopped", "error", err)
			fmt.Println("server stopped:", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logger.Info("techdesk: shutting down", "signal", sig.String())
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("techdesk: shutdown incomplete", "error", err)
		}
	}
}

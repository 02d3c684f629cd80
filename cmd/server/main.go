package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/solvehub/server/internal/api"
	"github.com/solvehub/server/internal/blob"
	"github.com/solvehub/server/internal/config"
	"github.com/solvehub/server/internal/store"
)

// @title SolveHub API
// @version 1.0
// @description Community board for coding-problem write-ups.
func main() {
	cfg := config.Envs

	db, err := store.Open(cfg.DatabaseURL, cfg.SQLitePath)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if cfg.UsePostgres() {
		log.Println("Using PostgreSQL backend")
	} else {
		log.Println("Using SQLite backend at", cfg.SQLitePath)
	}

	blobs, err := newBlobStore(cfg)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	handler := api.SetupRouter(cfg, store.New(db), blobs)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: handler,
		// Timeouts prevent resource exhaustion from slow clients
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Starting SolveHub server on port: %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("server: %v", err)
	}
	log.Println("Server stopped")
}

// newBlobStore picks the blob flavor resolved in config: hosted bucket when
// credentials are present, local uploads directory otherwise.
func newBlobStore(cfg config.Config) (blob.Store, error) {
	if cfg.UseS3() {
		log.Println("Using S3-compatible blob store:", cfg.S3.BucketName)
		return blob.NewS3(blob.S3Options{
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			AccountID:       cfg.S3.AccountID,
			Bucket:          cfg.S3.BucketName,
			Region:          cfg.S3.Region,
			PublicBaseURL:   cfg.S3.PublicBaseURL,
		}), nil
	}

	log.Println("Using local blob store at", cfg.UploadDir)
	return blob.NewLocal(cfg.UploadDir)
}

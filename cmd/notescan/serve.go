// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mvasko/notescan/internal/ocr/tesseract"
	"github.com/mvasko/notescan/internal/pipeline"
	"github.com/mvasko/notescan/internal/server"
	"github.com/mvasko/notescan/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the conversion and gallery API over HTTP",
	Long: `Serve exposes conversions and the document gallery as a JSON API:

  POST   /api/convert        multipart image upload with a conversion type
  GET    /api/documents      saved documents, newest first
  POST   /api/documents      save extracted text directly
  DELETE /api/documents/:id  delete a saved document
  GET    /healthz            liveness check`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	applyOCRFlags(cmd, &cfg)
	if cmd.Flags().Changed("addr") {
		cfg.Server.Addr, _ = cmd.Flags().GetString("addr")
	}

	st, err := store.New(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	runner := pipeline.NewRunner(tesseract.NewEngine(), st, cfg, os.Stderr)
	srv := server.New(runner, st, cfg.Server)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "listening on %s\n", cfg.Server.Addr)
	if err := srv.Run(ctx, cfg.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address, e.g. :8080")
	serveCmd.Flags().String("language", "", "recognition language code, e.g. eng")
	serveCmd.Flags().Duration("timeout", 0, "recognition timeout per image")
	serveCmd.Flags().Bool("enhance", false, "pre-process images before recognition")

	rootCmd.AddCommand(serveCmd)
}

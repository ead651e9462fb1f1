// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the conversion pipeline and document gallery
// over a small JSON API. Each request runs its own conversion session;
// nothing is shared between requests except the store.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mvasko/notescan/internal/export"
	"github.com/mvasko/notescan/internal/pipeline"
	"github.com/mvasko/notescan/internal/store"
	"github.com/mvasko/notescan/pkg/types"
)

const defaultMaxUploadBytes = 16 << 20

// Server serves the conversion and gallery API.
type Server struct {
	runner    *pipeline.Runner
	store     store.Store
	maxUpload int64
	router    *gin.Engine
}

// New builds the server and its routes.
func New(runner *pipeline.Runner, st store.Store, cfg types.ServerConfig) *Server {
	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = defaultMaxUploadBytes
	}

	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		runner:    runner,
		store:     st,
		maxUpload: maxUpload,
		router:    gin.New(),
	}
	s.router.Use(gin.Recovery())

	s.router.GET("/healthz", s.health)

	api := s.router.Group("/api")
	api.POST("/convert", s.convert)
	api.GET("/documents", s.listDocuments)
	api.POST("/documents", s.saveDocument)
	api.DELETE("/documents/:id", s.deleteDocument)

	return s
}

// Handler returns the routed handler, mostly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// convertResponse is the body returned by POST /api/convert.
type convertResponse struct {
	Type    types.ConversionType  `json:"type"`
	Text    string                `json:"text,omitempty"`
	Outputs []string              `json:"outputs,omitempty"`
	Saved   *types.DocumentRecord `json:"saved,omitempty"`
}

func (s *Server) convert(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		writeError(c, types.ErrInvalidInput, "missing image upload")
		return
	}
	defer file.Close()

	if header.Size > s.maxUpload {
		writeError(c, types.ErrInvalidInput, "image exceeds upload limit")
		return
	}
	image, err := io.ReadAll(io.LimitReader(file, s.maxUpload+1))
	if err != nil {
		writeError(c, types.ErrInvalidInput, "reading image upload")
		return
	}
	if int64(len(image)) > s.maxUpload {
		writeError(c, types.ErrInvalidInput, "image exceeds upload limit")
		return
	}

	convType := types.ConversionType(c.PostForm("type"))
	if !convType.Valid() {
		writeError(c, types.ErrInvalidInput, "unknown conversion type")
		return
	}

	opts := pipeline.Options{
		Type:  convType,
		Title: c.PostForm("title"),
		Save:  c.PostForm("save") == "true",
	}
	if formats := c.PostForm("formats"); formats != "" {
		for _, f := range strings.Split(formats, ",") {
			format := export.Format(strings.TrimSpace(f))
			if !format.Valid() {
				writeError(c, types.ErrInvalidInput, "unknown export format")
				return
			}
			opts.Formats = append(opts.Formats, format)
		}
	}

	outcome, err := s.runner.Run(c.Request.Context(), image, opts)
	if err != nil {
		writeError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, convertResponse{
		Type:    outcome.Type,
		Text:    outcome.Text,
		Outputs: outcome.OutputPaths,
		Saved:   outcome.Saved,
	})
}

func (s *Server) listDocuments(c *gin.Context) {
	records, err := s.store.List(c.Request.Context())
	if err != nil {
		writeError(c, err, "")
		return
	}
	// Newest first for display; the store itself keeps no order.
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	if records == nil {
		records = []types.DocumentRecord{}
	}
	c.JSON(http.StatusOK, records)
}

// saveRequest is the body accepted by POST /api/documents.
type saveRequest struct {
	Title     string `json:"title"`
	Text      string `json:"text"`
	ImagePath string `json:"image_path"`
}

func (s *Server) saveDocument(c *gin.Context) {
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, types.ErrInvalidInput, "malformed request body")
		return
	}
	if req.Title == "" || req.Text == "" {
		writeError(c, types.ErrInvalidInput, "title and text are required")
		return
	}

	rec, err := s.store.Save(c.Request.Context(), types.Draft{
		Title:     req.Title,
		Text:      req.Text,
		ImagePath: req.ImagePath,
	})
	if err != nil {
		writeError(c, err, "")
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (s *Server) deleteDocument(c *gin.Context) {
	if err := s.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err, "")
		return
	}
	c.Status(http.StatusNoContent)
}

// writeError maps an error to its HTTP status by kind. An optional detail
// overrides the error text for client-facing clarity.
func writeError(c *gin.Context, err error, detail string) {
	kind := types.ErrorKind(err)

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, types.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, types.ErrRecognition):
		status = http.StatusUnprocessableEntity
	}

	if detail == "" {
		detail = err.Error()
	}
	c.JSON(status, gin.H{"error": kind, "detail": detail})
}

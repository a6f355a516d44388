package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/kelseyhightower/envconfig"

	"github.com/practiq/go-queryform/components/listquery"
	"github.com/practiq/go-queryform/pkg/webform"
)

type config struct {
	Addr            string        `default:":8080"`
	BasePath        string        `split_words:"true" default:""`
	ShutdownTimeout time.Duration `split_words:"true" default:"10s"`
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	var cfg config
	if err := envconfig.Process("queryform", &cfg); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	pattern, err := listquery.RegisterRoutes(r, cfg.BasePath)
	if err != nil {
		logger.Error("failed to mount list query component", "error", err)
		os.Exit(1)
	}
	logger.Info("mounted list query endpoint", "pattern", pattern)

	r.Post(cfg.BasePath+"/api/webforms/compile", compileHandler(logger))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
			os.Exit(1)
		}
	}
}

type compileRequest struct {
	Template webform.Template `json:"template"`
}

type compileResponse struct {
	Fields map[string]webform.Field `json:"fields"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// compileHandler compiles a posted rigid template into its render schema.
// Unknown block kinds are a client error; anything else in the template that
// fails to compile is unprocessable.
func compileHandler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req compileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, errorResponse{Error: "invalid JSON body"})
			return
		}

		fields, err := webform.Compile(req.Template)
		if err != nil {
			status := http.StatusUnprocessableEntity
			if errors.Is(err, webform.ErrUnknownBlockKind) {
				status = http.StatusBadRequest
			}
			logger.Warn("compile rejected", "error", err)
			render.Status(r, status)
			render.JSON(w, r, errorResponse{Error: err.Error()})
			return
		}

		render.JSON(w, r, compileResponse{Fields: fields})
	}
}

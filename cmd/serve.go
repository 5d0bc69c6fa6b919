package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/site-intel/internal/analysis"
	"github.com/sells-group/site-intel/internal/model"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the analysis HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		engine := newEngine(cfg)

		r := chi.NewRouter()
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))

		r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Post("/api/analyze", func(w http.ResponseWriter, req *http.Request) {
			requestID := uuid.NewString()

			var in model.AnalysisRequest
			if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
				return
			}

			report, err := engine.Analyze(req.Context(), &in)
			if err != nil {
				if eris.Is(err, analysis.ErrNoLocation) {
					writeJSON(w, http.StatusBadRequest, map[string]string{"error": "address or coordinates required"})
					return
				}
				zap.L().Error("analysis failed",
					zap.String("request_id", requestID),
					zap.Error(err),
				)
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "analysis failed"})
				return
			}

			zap.L().Info("analysis complete",
				zap.String("request_id", requestID),
				zap.String("region", report.RegionLabel),
				zap.Int("radius_m", report.RadiusM),
			)
			writeJSON(w, http.StatusOK, report)
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		// Graceful shutdown: the signal context is already cancelled here,
		// so the drain gets its own deadline.
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			drainCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(drainCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jammin-qa/quality-cli/internal/stats"
	"github.com/jammin-qa/quality-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the read-only history and stats API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet},
		}))

		r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Get("/api/history", func(w http.ResponseWriter, req *http.Request) {
			interactions, err := st.ListInteractions(req.Context())
			if err != nil {
				zap.L().Error("list interactions failed", zap.Error(err))
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "history unavailable"})
				return
			}
			writeJSON(w, http.StatusOK, interactions)
		})

		r.Get("/api/stats", func(w http.ResponseWriter, req *http.Request) {
			interactions, err := st.ListInteractions(req.Context())
			if err != nil {
				zap.L().Error("list interactions failed", zap.Error(err))
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "stats unavailable"})
				return
			}
			rubric, err := store.LoadRubric(req.Context(), st)
			if err != nil {
				zap.L().Error("load rubric failed", zap.Error(err))
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "stats unavailable"})
				return
			}
			writeJSON(w, http.StatusOK, stats.Compute(interactions, rubric))
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

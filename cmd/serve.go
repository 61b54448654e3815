package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/kilianp07/troopsched/api/schedule"
	"github.com/kilianp07/troopsched/infra/logger"
	"github.com/kilianp07/troopsched/infra/metrics"
)

var apiToken string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve stored weeks over HTTP",
	RunE:  serve,
}

func init() {
	serveCmd.Flags().StringVar(&apiToken, "token", os.Getenv("TROOPSCHED_TOKEN"), "bearer token required by the viewer")
	rootCmd.AddCommand(serveCmd)
}

func serve(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, svc, closeFn, err := newService()
	if err != nil {
		return err
	}
	defer closeFn()
	log := logger.New("serve")

	if cfg.Metrics.PrometheusAddr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, cfg.Metrics.PrometheusAddr); err != nil {
				log.Errorf("prom server: %v", err)
			}
		}()
	}

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              cfg.API.Addr,
		Handler:           schedule.NewRouter(svc.Store, svc.Catalog, apiToken),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorf("api shutdown: %v", err)
		}
	}()
	log.Infof("viewer listening on %s", cfg.API.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
